package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/pkg/errors"
)

type fakeTradeBackend struct {
	barters       []*entity.BarterRequest
	transitionErr error
	confirmErr    error
	confirms      int
	transitions   int
}

func (f *fakeTradeBackend) ListBarters(_ context.Context, _ string, _, _ int) ([]*entity.BarterRequest, int64, error) {
	return f.barters, int64(len(f.barters)), nil
}

func (f *fakeTradeBackend) TransitionBarter(_ context.Context, _, barterID string, target entity.BarterStatus, detail TradeTransitionDetail) (*entity.BarterRequest, error) {
	f.transitions++
	if f.transitionErr != nil {
		return nil, f.transitionErr
	}
	for _, b := range f.barters {
		if b.ID == barterID {
			ack := b.Clone()
			applyBarterTransition(ack, target, detail, time.Now())
			return ack, nil
		}
	}
	return nil, errors.NotFound("Barter request", nil)
}

func (f *fakeTradeBackend) ConfirmMeetup(_ context.Context, _, barterID string) (*entity.BarterRequest, error) {
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	f.confirms++
	for _, b := range f.barters {
		if b.ID == barterID {
			return b.Clone(), nil
		}
	}
	return nil, errors.NotFound("Barter request", nil)
}

func meetupBarter(status entity.BarterStatus) *entity.BarterRequest {
	return &entity.BarterRequest{
		ID:                "brt-1",
		ListingID:         "lst-1",
		OfferedListingIDs: []string{"lst-9"},
		RequesterID:       "requester-1",
		OwnerID:           "owner-1",
		DeliveryMethod:    entity.DeliveryMeetUp,
		Status:            status,
		CreatedAt:         time.Now().Add(-time.Hour),
		UpdatedAt:         time.Now().Add(-time.Hour),
	}
}

func loadedTradeStream(t *testing.T, userID string, backend *fakeTradeBackend) *TradeStream {
	t.Helper()
	s := NewTradeStream(userID, backend)
	assert.NoError(t, s.Load(context.Background()))
	return s
}

func TestBarterAcceptByOwner(t *testing.T) {
	backend := &fakeTradeBackend{barters: []*entity.BarterRequest{meetupBarter(entity.BarterPending)}}
	owner := loadedTradeStream(t, "owner-1", backend)

	assert.NoError(t, owner.Transition(context.Background(), "brt-1", entity.BarterAccepted, TradeTransitionDetail{}))

	b, _ := owner.rec.ByID("brt-1")
	assert.Equal(t, entity.BarterAccepted, b.Status)
}

func TestBarterAcceptRejectedForRequester(t *testing.T) {
	backend := &fakeTradeBackend{barters: []*entity.BarterRequest{meetupBarter(entity.BarterPending)}}
	requester := loadedTradeStream(t, "requester-1", backend)

	err := requester.Transition(context.Background(), "brt-1", entity.BarterAccepted, TradeTransitionDetail{})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestMeetupBarterCannotEnterPreparing(t *testing.T) {
	backend := &fakeTradeBackend{barters: []*entity.BarterRequest{meetupBarter(entity.BarterPending)}}
	owner := loadedTradeStream(t, "owner-1", backend)

	// Preparing belongs to the online-delivery path.
	err := owner.Transition(context.Background(), "brt-1", entity.BarterPreparing, TradeTransitionDetail{})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestMeetupCompletionRequiresBothConfirmations(t *testing.T) {
	backend := &fakeTradeBackend{barters: []*entity.BarterRequest{meetupBarter(entity.BarterAccepted)}}
	requester := loadedTradeStream(t, "requester-1", backend)

	assert.NoError(t, requester.ConfirmMeetup(context.Background(), "brt-1"))

	b, _ := requester.rec.ByID("brt-1")
	assert.True(t, b.RequesterConfirmed)
	assert.False(t, b.OwnerConfirmed)
	// One confirmation alone never moves the status.
	assert.Equal(t, entity.BarterAccepted, b.Status)
	assert.Nil(t, b.CompletedAt)

	// Owner's confirmation arrives over the realtime channel.
	remote := b.Clone()
	remote.OwnerConfirmed = true
	remote.Status = entity.BarterCompleted
	now := time.Now()
	remote.CompletedAt = &now
	assert.True(t, requester.OnEvent(Event[*entity.BarterRequest]{Kind: EventUpdated, Entity: remote}))

	b, _ = requester.rec.ByID("brt-1")
	assert.Equal(t, entity.BarterCompleted, b.Status)
	assert.NotNil(t, b.CompletedAt)
}

func TestMeetupSecondConfirmationCompletesLocally(t *testing.T) {
	barter := meetupBarter(entity.BarterAccepted)
	barter.RequesterConfirmed = true

	backend := &fakeTradeBackend{barters: []*entity.BarterRequest{barter}}
	owner := loadedTradeStream(t, "owner-1", backend)

	assert.NoError(t, owner.ConfirmMeetup(context.Background(), "brt-1"))

	b, _ := owner.rec.ByID("brt-1")
	assert.True(t, b.BothConfirmed())
	assert.Equal(t, entity.BarterCompleted, b.Status)
	assert.NotNil(t, b.CompletedAt)
}

func TestConfirmMeetupIsFireAndForget(t *testing.T) {
	backend := &fakeTradeBackend{
		barters:    []*entity.BarterRequest{meetupBarter(entity.BarterAccepted)},
		confirmErr: errors.Internal("store down", nil),
	}
	requester := loadedTradeStream(t, "requester-1", backend)

	// The write failure is logged, not surfaced, and the local flag sticks.
	assert.NoError(t, requester.ConfirmMeetup(context.Background(), "brt-1"))

	b, _ := requester.rec.ByID("brt-1")
	assert.True(t, b.RequesterConfirmed)
}

func TestConfirmMeetupRejectedForOnlineDelivery(t *testing.T) {
	barter := meetupBarter(entity.BarterAccepted)
	barter.DeliveryMethod = entity.DeliveryOnline

	backend := &fakeTradeBackend{barters: []*entity.BarterRequest{barter}}
	owner := loadedTradeStream(t, "owner-1", backend)

	err := owner.ConfirmMeetup(context.Background(), "brt-1")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	assert.Equal(t, 0, backend.confirms)
}

func TestOnlineDeliveryBarterFlow(t *testing.T) {
	barter := meetupBarter(entity.BarterPending)
	barter.DeliveryMethod = entity.DeliveryOnline

	backend := &fakeTradeBackend{barters: []*entity.BarterRequest{barter}}
	owner := loadedTradeStream(t, "owner-1", backend)

	assert.NoError(t, owner.Transition(context.Background(), "brt-1", entity.BarterPreparing, TradeTransitionDetail{}))

	// Requester ships their item with tracking info.
	backend.barters = []*entity.BarterRequest{mustByID(t, owner, "brt-1")}
	requester := loadedTradeStream(t, "requester-1", backend)
	assert.NoError(t, requester.Transition(context.Background(), "brt-1", entity.BarterOnTheWay,
		TradeTransitionDetail{DeliveryProvider: "JNE", TrackingLink: "https://track.example.com/123"}))

	b, _ := requester.rec.ByID("brt-1")
	assert.Equal(t, entity.BarterOnTheWay, b.Status)
	assert.Equal(t, "JNE", b.DeliveryProvider)

	// Owner marks the trade received.
	backend.barters = []*entity.BarterRequest{b.Clone()}
	owner2 := loadedTradeStream(t, "owner-1", backend)
	assert.NoError(t, owner2.Transition(context.Background(), "brt-1", entity.BarterCompleted, TradeTransitionDetail{}))

	b, _ = owner2.rec.ByID("brt-1")
	assert.Equal(t, entity.BarterCompleted, b.Status)
	assert.NotNil(t, b.CompletedAt)
}

func TestBarterDeclineRecordsReason(t *testing.T) {
	backend := &fakeTradeBackend{barters: []*entity.BarterRequest{meetupBarter(entity.BarterPending)}}
	owner := loadedTradeStream(t, "owner-1", backend)

	assert.NoError(t, owner.Transition(context.Background(), "brt-1", entity.BarterDeclined,
		TradeTransitionDetail{Reason: "Item no longer available"}))

	b, _ := owner.rec.ByID("brt-1")
	assert.Equal(t, entity.BarterDeclined, b.Status)
	assert.Equal(t, "Item no longer available", b.DeclineReason)
}

func TestBarterDeclineWithoutReasonIsRejectedLocally(t *testing.T) {
	backend := &fakeTradeBackend{barters: []*entity.BarterRequest{meetupBarter(entity.BarterPending)}}
	owner := loadedTradeStream(t, "owner-1", backend)

	err := owner.Transition(context.Background(), "brt-1", entity.BarterDeclined, TradeTransitionDetail{})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	// Caught before the store is touched; the request stays pending.
	assert.Equal(t, 0, backend.transitions)
	b, _ := owner.rec.ByID("brt-1")
	assert.Equal(t, entity.BarterPending, b.Status)
	assert.Empty(t, b.DeclineReason)
}

func mustByID(t *testing.T, s *TradeStream, id string) *entity.BarterRequest {
	t.Helper()
	b, ok := s.rec.ByID(id)
	assert.True(t, ok)
	return b.Clone()
}
