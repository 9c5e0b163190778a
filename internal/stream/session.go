package stream

import "sync"

// Session owns the process-wide client state for one signed-in identity:
// the global unread-notification stream, the incoming-call flag, and the
// teardown handles of every open realtime subscription. It replaces ambient
// globals; sign-out resets everything it owns.
type Session struct {
	mu            sync.Mutex
	userID        string
	notifications *NotificationStream
	incomingCall  string
	teardowns     map[string]func()
}

func NewSession(userID string, notifications *NotificationStream) *Session {
	return &Session{
		userID:        userID,
		notifications: notifications,
		teardowns:     make(map[string]func()),
	}
}

func (s *Session) UserID() string {
	return s.userID
}

func (s *Session) Notifications() *NotificationStream {
	return s.notifications
}

// Track registers a subscription teardown under a logical channel key.
// Re-registering the same key tears the previous subscription down first,
// so re-entrant initialization never double-delivers events.
func (s *Session) Track(key string, teardown func()) {
	s.mu.Lock()
	prev := s.teardowns[key]
	s.teardowns[key] = teardown
	s.mu.Unlock()

	if prev != nil {
		prev()
	}
}

// Release tears down and forgets one logical channel.
func (s *Session) Release(key string) {
	s.mu.Lock()
	teardown := s.teardowns[key]
	delete(s.teardowns, key)
	s.mu.Unlock()

	if teardown != nil {
		teardown()
	}
}

func (s *Session) SetIncomingCall(callID string) {
	s.mu.Lock()
	s.incomingCall = callID
	s.mu.Unlock()
}

func (s *Session) ClearIncomingCall() {
	s.SetIncomingCall("")
}

func (s *Session) IncomingCall() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.incomingCall, s.incomingCall != ""
}

// SignOut tears down every subscription and resets the owned singletons.
func (s *Session) SignOut() {
	s.mu.Lock()
	teardowns := s.teardowns
	s.teardowns = make(map[string]func())
	s.incomingCall = ""
	s.mu.Unlock()

	for _, teardown := range teardowns {
		teardown()
	}
	if s.notifications != nil {
		s.notifications.Reset()
	}
}
