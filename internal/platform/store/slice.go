// Package store provides the normalized per-resource state bucket: a
// collection, a current item, and loading/error flags.
package store

import "sync"

// Slice is a mutex-guarded store slice. Fetches are ordered by a monotonic
// sequence number: Begin issues a ticket, and only the holder of the latest
// ticket may commit its outcome. A stale response — an interval tick racing
// a user-triggered refresh — is discarded deterministically instead of
// last-write-wins.
type Slice[T any] struct {
	mu         sync.RWMutex
	items      []T
	current    *T
	loading    bool
	err        string
	lastIssued uint64
}

func NewSlice[T any]() *Slice[T] {
	return &Slice[T]{}
}

// Begin marks the slice loading and returns the ticket the caller must
// present when committing.
func (s *Slice[T]) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastIssued++
	s.loading = true
	return s.lastIssued
}

// ApplyList commits a fetched collection. It reports false, leaving the
// slice untouched, when a newer fetch has been issued since.
func (s *Slice[T]) ApplyList(seq uint64, items []T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.lastIssued {
		return false
	}
	s.items = items
	s.loading = false
	s.err = ""
	return true
}

// Fail commits a fetch failure. Previous data stays in place with the error
// flag set alongside it. Stale failures are discarded like stale results.
func (s *Slice[T]) Fail(seq uint64, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.lastIssued {
		return false
	}
	s.loading = false
	s.err = msg
	return true
}

// Items returns a copy of the collection.
func (s *Slice[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the collection size.
func (s *Slice[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Loading reports whether a fetch is in flight.
func (s *Slice[T]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the stored error message, empty when the last commit
// succeeded.
func (s *Slice[T]) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// ClearError resets the error flag without touching data.
func (s *Slice[T]) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// Current returns the current item.
func (s *Slice[T]) Current() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		var zero T
		return zero, false
	}
	return *s.current, true
}

// SetCurrent records the current item.
func (s *Slice[T]) SetCurrent(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &item
}

// ClearCurrent drops the current item.
func (s *Slice[T]) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Append adds a freshly created item to the collection. User-action commits
// run synchronously on settlement and bypass the fetch ordering.
func (s *Slice[T]) Append(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
}

// Patch replaces the first item matching the predicate. When nothing
// matches the item is ignored.
func (s *Slice[T]) Patch(match func(T) bool, item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if match(s.items[i]) {
			s.items[i] = item
			return true
		}
	}
	return false
}

// Remove drops all items matching the predicate.
func (s *Slice[T]) Remove(match func(T) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, item := range s.items {
		if !match(item) {
			kept = append(kept, item)
		}
	}
	s.items = kept
}
