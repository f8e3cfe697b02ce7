// Package history keeps a bounded undo/redo ring of whole-state snapshots.
package history

// Stack is a fixed capacity ring of snapshots with a movable current slot.
// Pushing after an undo overwrites the redo branch, and pushing into a full
// ring overwrites the oldest snapshot.
//
// Every stored snapshot and every returned snapshot goes through clone, so
// callers may mutate what they get back without touching history.
type Stack[T any] struct {
	ring  []T
	clone func(T) T

	current int
	oldest  int
	newest  int
}

// New returns a stack holding initial as its only snapshot. capacity is the
// number of retained snapshots, including the current one; values below 1
// are treated as 1.
func New[T any](initial T, capacity int, clone func(T) T) *Stack[T] {
	if capacity < 1 {
		capacity = 1
	}
	s := &Stack[T]{ring: make([]T, capacity), clone: clone}
	s.ring[0] = clone(initial)
	return s
}

func (s *Stack[T]) next(i int) int { return (i + 1) % len(s.ring) }
func (s *Stack[T]) prev(i int) int { return (i - 1 + len(s.ring)) % len(s.ring) }

// Push records snap as the new current snapshot.
func (s *Stack[T]) Push(snap T) {
	s.current = s.next(s.current)
	if s.current == s.oldest {
		s.oldest = s.next(s.oldest)
	}
	s.ring[s.current] = s.clone(snap)
	s.newest = s.current
}

// Undo steps back one snapshot and returns it. At the oldest retained
// snapshot it returns the current one unchanged.
func (s *Stack[T]) Undo() T {
	if s.current != s.oldest {
		s.current = s.prev(s.current)
	}
	return s.clone(s.ring[s.current])
}

// Redo steps forward one snapshot and returns it. At the newest recorded
// snapshot it returns the current one unchanged.
func (s *Stack[T]) Redo() T {
	if s.current != s.newest {
		s.current = s.next(s.current)
	}
	return s.clone(s.ring[s.current])
}

// Current returns a copy of the current snapshot.
func (s *Stack[T]) Current() T {
	return s.clone(s.ring[s.current])
}

func (s *Stack[T]) CanUndo() bool { return s.current != s.oldest }
func (s *Stack[T]) CanRedo() bool { return s.current != s.newest }

// Depth reports how many undo steps are available.
func (s *Stack[T]) Depth() int {
	return (s.current - s.oldest + len(s.ring)) % len(s.ring)
}

// Capacity returns the number of snapshots the ring retains.
func (s *Stack[T]) Capacity() int { return len(s.ring) }
