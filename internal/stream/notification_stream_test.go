package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/pkg/errors"
)

type fakeNotificationBackend struct {
	items []*entity.Notification

	markErr    error
	markAllErr error
	markedAll  int
}

func (f *fakeNotificationBackend) ListNotifications(_ context.Context, _ string, _, _ int) ([]*entity.Notification, int64, error) {
	return f.items, int64(len(f.items)), nil
}

func (f *fakeNotificationBackend) CountUnread(_ context.Context, _ string) (int64, error) {
	var n int64
	for _, item := range f.items {
		if !item.Read {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationBackend) MarkNotificationRead(_ context.Context, _, _ string) error {
	return f.markErr
}

func (f *fakeNotificationBackend) MarkAllNotificationsRead(_ context.Context, _ string) error {
	if f.markAllErr != nil {
		return f.markAllErr
	}
	f.markedAll++
	return nil
}

func notif(id string, read bool, at time.Time) *entity.Notification {
	return &entity.Notification{
		ID:          id,
		RecipientID: "user-1",
		ActorID:     "user-2",
		Type:        entity.NotificationNewMessage,
		Message:     "You have a new message",
		Read:        read,
		CreatedAt:   at,
	}
}

func loadedNotificationStream(t *testing.T, backend *fakeNotificationBackend) *NotificationStream {
	t.Helper()
	s := NewNotificationStream("user-1", backend)
	assert.NoError(t, s.Load(context.Background()))
	return s
}

func TestLoadAdoptsServerUnreadCount(t *testing.T) {
	base := time.Now()
	backend := &fakeNotificationBackend{items: []*entity.Notification{
		notif("n-3", false, base),
		notif("n-2", false, base.Add(-time.Minute)),
		notif("n-1", true, base.Add(-time.Hour)),
	}}
	s := loadedNotificationStream(t, backend)

	assert.Equal(t, int64(2), s.Unread())
	assert.Len(t, s.Notifications(), 3)
}

func TestMarkReadDecrementsAndRevertsOnFailure(t *testing.T) {
	base := time.Now()
	backend := &fakeNotificationBackend{items: []*entity.Notification{notif("n-1", false, base)}}
	s := loadedNotificationStream(t, backend)

	assert.NoError(t, s.MarkRead(context.Background(), "n-1"))
	assert.Equal(t, int64(0), s.Unread())

	// Marking an already-read entry is a no-op.
	assert.NoError(t, s.MarkRead(context.Background(), "n-1"))
	assert.Equal(t, int64(0), s.Unread())

	backend2 := &fakeNotificationBackend{
		items:   []*entity.Notification{notif("n-1", false, base)},
		markErr: errors.Internal("store down", nil),
	}
	s2 := loadedNotificationStream(t, backend2)

	assert.Error(t, s2.MarkRead(context.Background(), "n-1"))
	assert.Equal(t, int64(1), s2.Unread())
	n, _ := s2.rec.ByID("n-1")
	assert.False(t, n.Read)
}

func TestMarkAllReadIsFireAndForget(t *testing.T) {
	base := time.Now()
	backend := &fakeNotificationBackend{
		items: []*entity.Notification{
			notif("n-2", false, base),
			notif("n-1", false, base.Add(-time.Minute)),
		},
		markAllErr: errors.Internal("store down", nil),
	}
	s := loadedNotificationStream(t, backend)
	assert.Equal(t, int64(2), s.Unread())

	// The bulk write fails but the local view is committed anyway.
	s.MarkAllRead(context.Background())

	assert.Equal(t, int64(0), s.Unread())
	for _, n := range s.Notifications() {
		assert.True(t, n.Read)
	}
}

func TestCounterTracksRealtimeEvents(t *testing.T) {
	backend := &fakeNotificationBackend{}
	s := loadedNotificationStream(t, backend)

	incoming := notif("n-1", false, time.Now())
	assert.True(t, s.OnEvent(Event[*entity.Notification]{Kind: EventCreated, Entity: incoming}))
	assert.Equal(t, int64(1), s.Unread())

	// Replay of the same created event neither duplicates nor recounts.
	assert.False(t, s.OnEvent(Event[*entity.Notification]{Kind: EventCreated, Entity: incoming.Clone()}))
	assert.Equal(t, int64(1), s.Unread())
	assert.Len(t, s.Notifications(), 1)

	read := incoming.Clone()
	read.Read = true
	assert.True(t, s.OnEvent(Event[*entity.Notification]{Kind: EventUpdated, Entity: read}))
	assert.Equal(t, int64(0), s.Unread())

	assert.True(t, s.OnEvent(Event[*entity.Notification]{Kind: EventDeleted, ID: "n-1"}))
	assert.Equal(t, int64(0), s.Unread())
	assert.Empty(t, s.Notifications())
}

func TestDeletingUnreadEntryDecrementsCounter(t *testing.T) {
	backend := &fakeNotificationBackend{items: []*entity.Notification{notif("n-1", false, time.Now())}}
	s := loadedNotificationStream(t, backend)
	assert.Equal(t, int64(1), s.Unread())

	assert.True(t, s.OnEvent(Event[*entity.Notification]{Kind: EventDeleted, ID: "n-1"}))
	assert.Equal(t, int64(0), s.Unread())
}

func TestGroupedByDayBucketsNewestFirst(t *testing.T) {
	today := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	yesterday := today.Add(-24 * time.Hour)

	backend := &fakeNotificationBackend{items: []*entity.Notification{
		notif("n-3", true, today),
		notif("n-2", true, today.Add(-time.Hour)),
		notif("n-1", true, yesterday),
	}}
	s := loadedNotificationStream(t, backend)

	groups := s.GroupedByDay()
	assert.Len(t, groups, 2)
	assert.Equal(t, "Jun 2, 2025", groups[0].Day)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, "Jun 1, 2025", groups[1].Day)
	assert.Len(t, groups[1].Items, 1)
}

func TestResetClearsStateOnSignOut(t *testing.T) {
	backend := &fakeNotificationBackend{items: []*entity.Notification{notif("n-1", false, time.Now())}}
	s := loadedNotificationStream(t, backend)

	s.Reset()
	assert.Equal(t, int64(0), s.Unread())
	assert.Empty(t, s.Notifications())
}
