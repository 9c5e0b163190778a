package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTypingSignalAndExplicitClear(t *testing.T) {
	tr := NewTypingTracker(time.Minute, nil)
	defer tr.Stop()

	tr.Signal("user-b", true)
	assert.Equal(t, []string{"user-b"}, tr.Active())

	tr.Signal("user-c", true)
	assert.Equal(t, []string{"user-b", "user-c"}, tr.Active())

	tr.Signal("user-b", false)
	assert.Equal(t, []string{"user-c"}, tr.Active())
}

func TestTypingAutoClearsAfterQuietInterval(t *testing.T) {
	tr := NewTypingTracker(20*time.Millisecond, nil)
	defer tr.Stop()

	tr.Signal("user-b", true)
	assert.Eventually(t, func() bool {
		return len(tr.Active()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestChatStreamHonorsConfiguredQuietInterval(t *testing.T) {
	prev := DefaultTypingQuiet
	DefaultTypingQuiet = 20 * time.Millisecond
	defer func() { DefaultTypingQuiet = prev }()

	s := NewChatStream("conv-1", "buyer-1", "seller-1", &fakeChatBackend{}, nil)
	defer s.Typing().Stop()

	s.Typing().Signal("seller-1", true)
	assert.Eventually(t, func() bool {
		return len(s.Typing().Active()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestTypingStopClearsAll(t *testing.T) {
	tr := NewTypingTracker(time.Minute, nil)
	tr.Signal("user-b", true)
	tr.Signal("user-c", true)

	tr.Stop()
	assert.Empty(t, tr.Active())
}
