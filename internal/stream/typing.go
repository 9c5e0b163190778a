package stream

import (
	"sort"
	"sync"
	"time"
)

// DefaultTypingQuiet is the inactivity window after which a participant's
// typing flag auto-clears. Overridable at startup (TYPING_QUIET_SECONDS).
var DefaultTypingQuiet = 3 * time.Second

// TypingTracker holds ephemeral typing state from the broadcast channel.
// A participant's typing flag auto-clears after the quiet interval passes
// with no further signal. Nothing here is persisted.
type TypingTracker struct {
	mu       sync.Mutex
	quiet    time.Duration
	timers   map[string]*time.Timer
	onChange func(active []string)
}

func NewTypingTracker(quiet time.Duration, onChange func(active []string)) *TypingTracker {
	return &TypingTracker{
		quiet:    quiet,
		timers:   make(map[string]*time.Timer),
		onChange: onChange,
	}
}

// Signal records a typing signal. typing=false clears immediately;
// typing=true starts or extends the quiet timer.
func (t *TypingTracker) Signal(userID string, typing bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.timers[userID]; ok {
		timer.Stop()
		delete(t.timers, userID)
	}
	if typing {
		t.timers[userID] = time.AfterFunc(t.quiet, func() {
			t.mu.Lock()
			delete(t.timers, userID)
			t.mu.Unlock()
			t.notify()
		})
	}
	t.notifyLocked()
}

// Active returns the users currently typing, sorted for stable rendering.
func (t *TypingTracker) Active() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activeLocked()
}

// Stop cancels all timers; used on screen blur.
func (t *TypingTracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
}

func (t *TypingTracker) activeLocked() []string {
	active := make([]string, 0, len(t.timers))
	for id := range t.timers {
		active = append(active, id)
	}
	sort.Strings(active)
	return active
}

func (t *TypingTracker) notifyLocked() {
	if t.onChange == nil {
		return
	}
	active := t.activeLocked()
	go t.onChange(active)
}

func (t *TypingTracker) notify() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notifyLocked()
}
