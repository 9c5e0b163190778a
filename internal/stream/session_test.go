package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tukarlapak/internal/domain/entity"
)

func TestTrackTearsDownPreviousSubscription(t *testing.T) {
	s := NewSession("user-1", nil)

	var firstTorn, secondTorn bool
	s.Track("chat:conv-1", func() { firstTorn = true })
	assert.False(t, firstTorn)

	// Re-entering the same screen replaces the subscription.
	s.Track("chat:conv-1", func() { secondTorn = true })
	assert.True(t, firstTorn)
	assert.False(t, secondTorn)

	s.Release("chat:conv-1")
	assert.True(t, secondTorn)
}

func TestReleaseUnknownKeyIsNoOp(t *testing.T) {
	s := NewSession("user-1", nil)
	s.Release("never-tracked")
}

func TestIncomingCallFlag(t *testing.T) {
	s := NewSession("user-1", nil)

	_, ok := s.IncomingCall()
	assert.False(t, ok)

	s.SetIncomingCall("call-1")
	id, ok := s.IncomingCall()
	assert.True(t, ok)
	assert.Equal(t, "call-1", id)

	s.ClearIncomingCall()
	_, ok = s.IncomingCall()
	assert.False(t, ok)
}

func TestSignOutTearsDownEverything(t *testing.T) {
	backend := &fakeNotificationBackend{items: []*entity.Notification{
		notif("n-1", false, time.Now()),
	}}
	notifications := NewNotificationStream("user-1", backend)
	assert.NoError(t, notifications.Load(context.Background()))
	assert.Equal(t, int64(1), notifications.Unread())

	s := NewSession("user-1", notifications)

	torn := make(map[string]bool)
	s.Track("chat:conv-1", func() { torn["chat"] = true })
	s.Track("orders", func() { torn["orders"] = true })
	s.SetIncomingCall("call-1")

	s.SignOut()

	assert.True(t, torn["chat"])
	assert.True(t, torn["orders"])
	_, ok := s.IncomingCall()
	assert.False(t, ok)
	assert.Equal(t, int64(0), notifications.Unread())
	assert.Empty(t, notifications.Notifications())
}
