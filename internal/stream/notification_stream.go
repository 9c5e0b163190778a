package stream

import (
	"context"
	"sync"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/pkg/errors"
	"tukarlapak/pkg/logger"
)

// NotificationBackend is the notification surface, implemented by
// usecase.NotificationUseCase.
type NotificationBackend interface {
	ListNotifications(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}

// NotificationStream materializes a user's notification list and keeps the
// unread counter consistent with it: incremented on remote unread inserts,
// decremented on mark-read, reset to the server count on bulk load.
type NotificationStream struct {
	userID  string
	backend NotificationBackend
	rec     *Reconciler[*entity.Notification]

	mu      sync.Mutex
	unread  int64
	loading bool
}

func NewNotificationStream(userID string, backend NotificationBackend) *NotificationStream {
	return &NotificationStream{
		userID:  userID,
		backend: backend,
		rec:     NewReconciler[*entity.Notification](),
	}
}

func (s *NotificationStream) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	items, _, err := s.backend.ListNotifications(ctx, s.userID, 50, 0)
	if err != nil {
		return err
	}
	count, err := s.backend.CountUnread(ctx, s.userID)
	if err != nil {
		return err
	}

	s.rec.Load(items)
	s.mu.Lock()
	s.unread = count
	s.mu.Unlock()
	return nil
}

func (s *NotificationStream) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *NotificationStream) Notifications() []*entity.Notification {
	return s.rec.Items()
}

func (s *NotificationStream) Unread() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

// NotificationGroup is one calendar day of notifications, newest-first.
type NotificationGroup struct {
	Day   string
	Items []*entity.Notification
}

// GroupedByDay buckets the newest-first list into day groups for rendering.
func (s *NotificationStream) GroupedByDay() []NotificationGroup {
	var groups []NotificationGroup
	for _, n := range s.rec.Items() {
		day := n.CreatedAt.Format("Jan 2, 2006")
		if len(groups) == 0 || groups[len(groups)-1].Day != day {
			groups = append(groups, NotificationGroup{Day: day})
		}
		groups[len(groups)-1].Items = append(groups[len(groups)-1].Items, n)
	}
	return groups
}

// MarkRead optimistically flips one notification and decrements the counter,
// restoring both if the store rejects the update.
func (s *NotificationStream) MarkRead(ctx context.Context, notificationID string) error {
	n, ok := s.rec.ByID(notificationID)
	if !ok {
		return errors.NotFound("Notification", nil)
	}
	if n.Read {
		return nil
	}

	s.rec.Mutate(notificationID, func(n *entity.Notification) { n.Read = true })
	s.addUnread(-1)

	if err := s.backend.MarkNotificationRead(ctx, s.userID, notificationID); err != nil {
		s.rec.Mutate(notificationID, func(n *entity.Notification) { n.Read = false })
		s.addUnread(1)
		return err
	}
	return nil
}

// MarkAllRead zeroes the counter and flips every local entry immediately;
// the bulk store update is fire-and-forget with no rollback. Any
// inconsistency is corrected by the next bulk load.
func (s *NotificationStream) MarkAllRead(ctx context.Context) {
	s.mu.Lock()
	s.unread = 0
	s.mu.Unlock()
	s.rec.MutateAll(func(n *entity.Notification) { n.Read = true })

	if err := s.backend.MarkAllNotificationsRead(ctx, s.userID); err != nil {
		logger.Warn("mark-all-read write failed for user %s: %v", s.userID, err)
	}
}

// OnEvent merges a realtime change event and maintains the unread counter.
func (s *NotificationStream) OnEvent(ev Event[*entity.Notification]) bool {
	var wasUnread bool
	if ev.Kind != EventCreated {
		id := ev.ID
		if ev.Kind == EventUpdated {
			id = ev.Entity.EntityID()
		}
		if prev, ok := s.rec.ByID(id); ok {
			wasUnread = !prev.Read
		}
	}

	changed := s.rec.Apply(ev)
	if !changed {
		return false
	}

	switch ev.Kind {
	case EventCreated:
		if !ev.Entity.Read {
			s.addUnread(1)
		}
	case EventUpdated:
		if wasUnread && ev.Entity.Read {
			s.addUnread(-1)
		} else if !wasUnread && !ev.Entity.Read {
			s.addUnread(1)
		}
	case EventDeleted:
		if wasUnread {
			s.addUnread(-1)
		}
	}
	return true
}

// Reset clears the materialized state; used on sign-out.
func (s *NotificationStream) Reset() {
	s.rec.Load(nil)
	s.mu.Lock()
	s.unread = 0
	s.mu.Unlock()
}

func (s *NotificationStream) addUnread(delta int64) {
	s.mu.Lock()
	s.unread += delta
	if s.unread < 0 {
		s.unread = 0
	}
	s.mu.Unlock()
}
