// Package history keeps a linear undo/redo stack of immutable snapshots.
//
// Pushing after an undo discards the redo branch; pushing a snapshot equal to
// the current one is a no-op so that gestures which change nothing never grow
// the stack.
package history

import "reflect"

type Store[T any] struct {
	entries []T
	cursor  int
	equal   func(a, b T) bool
	limit   int
}

type Option[T any] func(*Store[T])

// WithEqual sets the structural comparison used for no-op detection.
func WithEqual[T any](eq func(a, b T) bool) Option[T] {
	return func(s *Store[T]) { s.equal = eq }
}

// WithLimit caps the number of stored entries. Zero means unlimited.
func WithLimit[T any](n int) Option[T] {
	return func(s *Store[T]) {
		if n > 0 {
			s.limit = n
		}
	}
}

func New[T any](initial T, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		entries: []T{initial},
		equal:   func(a, b T) bool { return reflect.DeepEqual(a, b) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store[T]) Current() T { return s.entries[s.cursor] }
func (s *Store[T]) Len() int    { return len(s.entries) }
func (s *Store[T]) Cursor() int { return s.cursor }

func (s *Store[T]) CanUndo() bool { return s.cursor > 0 }
func (s *Store[T]) CanRedo() bool { return s.cursor < len(s.entries)-1 }

// Push records next as the newest entry. It returns false when next equals
// the current entry and nothing was recorded.
func (s *Store[T]) Push(next T) bool {
	if s.equal(s.entries[s.cursor], next) {
		return false
	}
	s.entries = append(s.entries[:s.cursor+1], next)
	s.cursor++
	if s.limit > 0 && len(s.entries) > s.limit {
		drop := len(s.entries) - s.limit
		s.entries = append([]T(nil), s.entries[drop:]...)
		s.cursor -= drop
	}
	return true
}

// Update pushes the result of fn applied to the current entry.
func (s *Store[T]) Update(fn func(prev T) T) bool {
	return s.Push(fn(s.Current()))
}

// Amend replaces the entry at the cursor and drops any redo branch. It is
// used to fold the tail of a gesture into the entry that started it.
func (s *Store[T]) Amend(state T) bool {
	changed := !s.equal(s.entries[s.cursor], state)
	s.entries = append(s.entries[:s.cursor], state)
	return changed
}

func (s *Store[T]) Undo() bool {
	if !s.CanUndo() {
		return false
	}
	s.cursor--
	return true
}

func (s *Store[T]) Redo() bool {
	if !s.CanRedo() {
		return false
	}
	s.cursor++
	return true
}

// Reset replaces the whole stack with a single entry. Prior history is not
// kept across a document switch.
func (s *Store[T]) Reset(state T) {
	s.entries = []T{state}
	s.cursor = 0
}
