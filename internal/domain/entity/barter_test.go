package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBarterTransitionsByDeliveryMethod(t *testing.T) {
	meetup := &BarterRequest{Status: BarterPending, DeliveryMethod: DeliveryMeetUp}
	online := &BarterRequest{Status: BarterPending, DeliveryMethod: DeliveryOnline}

	assert.True(t, meetup.CanTransition(BarterAccepted, RoleOwner))
	assert.False(t, meetup.CanTransition(BarterPreparing, RoleOwner))

	assert.True(t, online.CanTransition(BarterPreparing, RoleOwner))
	assert.False(t, online.CanTransition(BarterAccepted, RoleOwner))

	// Either kind can be declined, but only by the owner.
	assert.True(t, meetup.CanTransition(BarterDeclined, RoleOwner))
	assert.False(t, meetup.CanTransition(BarterDeclined, RoleRequester))
}

func TestBarterOnlineDeliveryPath(t *testing.T) {
	b := &BarterRequest{Status: BarterPreparing, DeliveryMethod: DeliveryOnline}
	assert.True(t, b.CanTransition(BarterOnTheWay, RoleRequester))
	assert.False(t, b.CanTransition(BarterOnTheWay, RoleOwner))

	b.Status = BarterOnTheWay
	assert.True(t, b.CanTransition(BarterCompleted, RoleOwner))
	assert.False(t, b.CanTransition(BarterCompleted, RoleRequester))
}

func TestBarterCompletionNotReachableByDirectWrite(t *testing.T) {
	// An accepted meet-up completes through the confirmation flags only.
	b := &BarterRequest{Status: BarterAccepted, DeliveryMethod: DeliveryMeetUp}
	assert.False(t, b.CanTransition(BarterCompleted, RoleOwner))
	assert.False(t, b.CanTransition(BarterCompleted, RoleRequester))
}

func TestBothConfirmed(t *testing.T) {
	b := &BarterRequest{RequesterConfirmed: true}
	assert.False(t, b.BothConfirmed())
	b.OwnerConfirmed = true
	assert.True(t, b.BothConfirmed())
}

func TestBarterRoleOf(t *testing.T) {
	b := &BarterRequest{RequesterID: "r", OwnerID: "o"}
	assert.Equal(t, RoleRequester, b.RoleOf("r"))
	assert.Equal(t, RoleOwner, b.RoleOf("o"))
	assert.Equal(t, Role(""), b.RoleOf("stranger"))
}
