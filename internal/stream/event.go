package stream

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventKind is the change-event taxonomy delivered by a realtime channel.
type EventKind int

const (
	EventCreated EventKind = iota
	EventUpdated
	EventDeleted
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventUpdated:
		return "updated"
	case EventDeleted:
		return "deleted"
	}
	return "unknown"
}

// Entity is anything a Reconciler can hold: addressable by server id once
// acknowledged, by correlation token while an optimistic insert is in flight.
type Entity interface {
	EntityID() string
	CorrelationToken() string
	CreatedTime() time.Time
}

// Event is a single change notification. Entity is set for created/updated;
// deleted events carry only the server id.
type Event[T Entity] struct {
	Kind   EventKind
	Entity T
	ID     string
}

var (
	tokenMu      sync.Mutex
	tokenEntropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// NewToken returns a client-generated correlation token. ULIDs keep
// optimistic entries lexically ordered by creation time, which makes
// synthetic local ids stable before acknowledgment.
func NewToken() string {
	tokenMu.Lock()
	defer tokenMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), tokenEntropy).String()
}
