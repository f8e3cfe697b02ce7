package story

import "fmt"

// Kind names the element kind held by a List.
type Kind int

const (
	KindChapter Kind = iota
	KindThread
	KindBeat
)

func (k Kind) String() string {
	switch k {
	case KindChapter:
		return "chapter"
	case KindThread:
		return "story thread"
	case KindBeat:
		return "story beat"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// List is the capability set shared by the chapter, thread and beat
// collections, so a single cursor can drive any of them.
type List interface {
	Kind() Kind
	Len() int
	ID(i int) (ID, error)
	Name(i int) (string, error)
	Rename(i int, name string) error
	Insert(i int, name string) error
	Reorder(from, to int) error
	Delete(i int) error
}

// List returns the collection of the given kind. thread is only used for
// KindBeat.
func (s *Story) List(kind Kind, thread ID) (List, error) {
	switch kind {
	case KindChapter:
		return &list[*Chapter]{
			kind: kind,
			coll: &s.chapters,
			insert: func(i int, name string) error {
				_, err := s.AddChapter(i, name)
				return err
			},
			remove: s.DeleteChapter,
		}, nil
	case KindThread:
		return &list[*Thread]{
			kind: kind,
			coll: &s.threads,
			insert: func(i int, name string) error {
				_, err := s.AddThread(i, name, "")
				return err
			},
			remove: s.DeleteThread,
		}, nil
	case KindBeat:
		t, ok := s.ThreadByID(thread)
		if !ok {
			return nil, fmt.Errorf("%w: thread %s", ErrNotFound, thread)
		}
		return &list[*Beat]{
			kind: kind,
			coll: &t.beats,
			insert: func(i int, name string) error {
				_, err := s.AddBeat(t.id, i, name)
				return err
			},
			remove: func(i int) error {
				return s.DeleteBeat(t.id, i)
			},
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %d", ErrNotFound, int(kind))
}

type list[E element] struct {
	kind   Kind
	coll   *OrderedCollection[E]
	insert func(i int, name string) error
	remove func(i int) error
}

func (l *list[E]) Kind() Kind { return l.kind }
func (l *list[E]) Len() int   { return l.coll.Len() }

func (l *list[E]) ID(i int) (ID, error) {
	e, err := l.coll.At(i)
	if err != nil {
		return "", err
	}
	return e.ID(), nil
}

func (l *list[E]) Name(i int) (string, error) {
	e, err := l.coll.At(i)
	if err != nil {
		return "", err
	}
	return e.Name(), nil
}

func (l *list[E]) Rename(i int, name string) error {
	e, err := l.coll.At(i)
	if err != nil {
		return err
	}
	e.setName(name)
	return nil
}

func (l *list[E]) Insert(i int, name string) error { return l.insert(i, name) }
func (l *list[E]) Reorder(from, to int) error      { return l.coll.Reorder(from, to) }
func (l *list[E]) Delete(i int) error              { return l.remove(i) }
