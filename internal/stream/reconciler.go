package stream

import "sync"

// Reconciler maintains an ordered, deduplicated in-memory collection of one
// entity kind, merging bulk loads, optimistic inserts and asynchronous remote
// change events into a consistent newest-first view.
//
// The list is owned by one screen/stream instance, but events arrive from the
// realtime hub's goroutine, so access is mutex-guarded.
type Reconciler[T Entity] struct {
	mu    sync.Mutex
	items []T
	// merge combines a remote updated payload over an existing entry.
	// When nil the incoming entity replaces the entry wholesale.
	merge func(existing, incoming T) T
}

func NewReconciler[T Entity]() *Reconciler[T] {
	return &Reconciler[T]{}
}

// SetMerge installs a shallow-merge function applied on remote updates.
func (r *Reconciler[T]) SetMerge(f func(existing, incoming T) T) {
	r.merge = f
}

// Load replaces the entire collection with a freshly fetched authoritative
// set. The input is assumed already sorted newest-first by the store query.
func (r *Reconciler[T]) Load(items []T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make([]T, len(items))
	copy(r.items, items)
}

// InsertOptimistic places a not-yet-acknowledged entity, carrying a
// correlation token and a synthetic local id, into sorted position.
func (r *Reconciler[T]) InsertOptimistic(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertSorted(item)
}

// Rollback removes the optimistic entry with the given correlation token
// after its mutation failed. It reports whether an entry was removed.
func (r *Reconciler[T]) Rollback(token string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.items {
		if it.CorrelationToken() == token {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Apply merges one remote change event and reports whether the list changed.
func (r *Reconciler[T]) Apply(ev Event[T]) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Kind {
	case EventCreated:
		// Acknowledgment of our own optimistic insert: replace in place,
		// preserving position, keyed by correlation token.
		if token := ev.Entity.CorrelationToken(); token != "" {
			for i, it := range r.items {
				if it.CorrelationToken() == token {
					r.items[i] = ev.Entity
					return true
				}
			}
		}
		// Duplicate delivery by server id is ignored.
		if _, ok := r.indexOf(ev.Entity.EntityID()); ok {
			return false
		}
		r.insertSorted(ev.Entity)
		return true

	case EventUpdated:
		// Unknown ids belong to a view not materialized here; no-op.
		i, ok := r.indexOf(ev.Entity.EntityID())
		if !ok {
			return false
		}
		if r.merge != nil {
			r.items[i] = r.merge(r.items[i], ev.Entity)
		} else {
			r.items[i] = ev.Entity
		}
		return true

	case EventDeleted:
		i, ok := r.indexOf(ev.ID)
		if !ok {
			return false
		}
		r.items = append(r.items[:i], r.items[i+1:]...)
		return true
	}
	return false
}

// Items returns a copy of the current ordered view.
func (r *Reconciler[T]) Items() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Reconciler[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// ByID returns the entry with the given server id, if present.
func (r *Reconciler[T]) ByID(id string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.indexOf(id); ok {
		return r.items[i], true
	}
	var zero T
	return zero, false
}

// Mutate applies f to the entry with the given id under the lock, keeping
// its position. Used for optimistic in-place status changes.
func (r *Reconciler[T]) Mutate(id string, f func(T)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.indexOf(id)
	if !ok {
		return false
	}
	f(r.items[i])
	return true
}

// MutateAll applies f to every entry under the lock.
func (r *Reconciler[T]) MutateAll(f func(T)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		f(it)
	}
}

func (r *Reconciler[T]) indexOf(id string) (int, bool) {
	if id == "" {
		return 0, false
	}
	for i, it := range r.items {
		if it.EntityID() == id {
			return i, true
		}
	}
	return 0, false
}

// insertSorted keeps the list ordered newest-first by creation timestamp;
// a fresh entity lands at the head in the common case.
func (r *Reconciler[T]) insertSorted(item T) {
	at := len(r.items)
	for i, it := range r.items {
		if item.CreatedTime().After(it.CreatedTime()) {
			at = i
			break
		}
	}
	r.items = append(r.items, item)
	copy(r.items[at+1:], r.items[at:])
	r.items[at] = item
}
