package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/infrastructure/realtime"
	"tukarlapak/internal/stream"
	"tukarlapak/pkg/errors"
)

type fakeBarterRepo struct {
	barter  *entity.BarterRequest
	updates int
}

func (f *fakeBarterRepo) Create(_ context.Context, _ *entity.BarterRequest) error {
	return nil
}

func (f *fakeBarterRepo) GetByID(_ context.Context, _ string) (*entity.BarterRequest, error) {
	return f.barter, nil
}

func (f *fakeBarterRepo) ListByUserID(_ context.Context, _ string, _, _ int) ([]*entity.BarterRequest, int64, error) {
	return []*entity.BarterRequest{f.barter}, 1, nil
}

func (f *fakeBarterRepo) Update(_ context.Context, _ *entity.BarterRequest) error {
	f.updates++
	return nil
}

type fakeNotificationRepo struct {
	notifications []*entity.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeNotificationRepo) GetByID(_ context.Context, _ string) (*entity.Notification, error) {
	return nil, errors.NotFound("Notification", nil)
}

func (f *fakeNotificationRepo) ListByRecipient(_ context.Context, _ string, _, _ int) ([]*entity.Notification, int64, error) {
	return f.notifications, int64(len(f.notifications)), nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, _ string) (int64, error) {
	return 0, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, _, _ string) error {
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, _ string) error {
	return nil
}

func (f *fakeNotificationRepo) Delete(_ context.Context, _, _ string) error {
	return nil
}

func TestTransitionBarterDeclineRequiresReason(t *testing.T) {
	repo := &fakeBarterRepo{barter: &entity.BarterRequest{
		ID:             "brt-1",
		ListingID:      "lst-1",
		RequesterID:    "requester-1",
		OwnerID:        "owner-1",
		DeliveryMethod: entity.DeliveryMeetUp,
		Status:         entity.BarterPending,
		CreatedAt:      time.Now().Add(-time.Hour),
	}}
	hub := realtime.NewHub()
	notifRepo := &fakeNotificationRepo{}
	uc := NewBarterUseCase(repo, nil, NewNotificationUseCase(notifRepo, hub), hub)

	_, err := uc.TransitionBarter(context.Background(), "owner-1", "brt-1",
		entity.BarterDeclined, stream.TradeTransitionDetail{})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	assert.Equal(t, 0, repo.updates)
	assert.Equal(t, entity.BarterPending, repo.barter.Status)

	barter, err := uc.TransitionBarter(context.Background(), "owner-1", "brt-1",
		entity.BarterDeclined, stream.TradeTransitionDetail{Reason: "Offered item does not match"})
	assert.NoError(t, err)
	assert.Equal(t, entity.BarterDeclined, barter.Status)
	assert.Equal(t, "Offered item does not match", barter.DeclineReason)
	assert.Equal(t, 1, repo.updates)
	if assert.Len(t, notifRepo.notifications, 1) {
		assert.Equal(t, "requester-1", notifRepo.notifications[0].RecipientID)
	}
}
