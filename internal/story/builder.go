package story

import "fmt"

// Builder assembles a story from elements with known identifiers, as when
// loading a saved story or rebuilding a snapshot. The first error sticks
// and is reported by Build.
type Builder struct {
	s     *Story
	err   error
	seen  map[ID]bool
	links []pendingLink
}

type pendingLink struct {
	beat    ID
	chapter ID
}

func NewBuilder(name string) *Builder {
	return &Builder{s: New(name), seen: make(map[ID]bool)}
}

func (b *Builder) claim(id ID) (ID, bool) {
	if b.err != nil {
		return "", false
	}
	if id == "" {
		id = NewID()
	}
	if b.seen[id] {
		b.err = fmt.Errorf("%w: duplicate id %s", ErrInvariant, id)
		return "", false
	}
	b.seen[id] = true
	return id, true
}

// Chapter appends a chapter. An empty id is replaced by a fresh one.
func (b *Builder) Chapter(id ID, name string) *Builder {
	id, ok := b.claim(id)
	if !ok {
		return b
	}
	c := &Chapter{id: id, name: name}
	b.err = b.s.chapters.Insert(b.s.chapters.Len(), c)
	return b
}

// Thread appends a thread.
func (b *Builder) Thread(id ID, name, color string) *Builder {
	id, ok := b.claim(id)
	if !ok {
		return b
	}
	t := b.s.newThread(id, name, color)
	b.err = b.s.threads.Insert(b.s.threads.Len(), t)
	return b
}

// Beat appends a beat to an already added thread. chapter may be empty or
// name a chapter added before or after this call.
func (b *Builder) Beat(thread, id ID, name string, chapter ID) *Builder {
	if b.err != nil {
		return b
	}
	t, found := b.s.ThreadByID(thread)
	if !found {
		b.err = fmt.Errorf("%w: beat %q references unknown thread %s", ErrInvariant, name, thread)
		return b
	}
	id, ok := b.claim(id)
	if !ok {
		return b
	}
	beat := &Beat{id: id, name: name, thread: t.id}
	if b.err = t.beats.Insert(t.beats.Len(), beat); b.err != nil {
		return b
	}
	b.s.beats[id] = beat
	if chapter != "" {
		b.links = append(b.links, pendingLink{beat: id, chapter: chapter})
	}
	return b
}

// Build resolves chapter assignments and validates the result. On error
// no story is returned.
func (b *Builder) Build() (*Story, error) {
	if b.err != nil {
		return nil, b.err
	}
	for _, l := range b.links {
		if _, ok := b.s.ChapterByID(l.chapter); !ok {
			return nil, fmt.Errorf("%w: beat %s references unknown chapter %s", ErrInvariant, l.beat, l.chapter)
		}
		b.s.links.assign(l.beat, l.chapter)
	}
	if err := b.s.Validate(); err != nil {
		return nil, err
	}
	return b.s, nil
}

// Clone returns a deep copy that shares no mutable state with s. The copy
// is rebuilt element by element and its link maps are re-derived, so
// identifiers are preserved.
func (s *Story) Clone() *Story {
	b := NewBuilder(s.Name)
	for _, c := range s.chapters.items {
		b.Chapter(c.id, c.name)
	}
	for _, t := range s.threads.items {
		b.Thread(t.id, t.name, t.color)
		for _, beat := range t.beats.items {
			b.Beat(t.id, beat.id, beat.name, s.links.chapterOfBeat[beat.id])
		}
	}
	out, err := b.Build()
	if err != nil {
		// s itself violates an invariant; that is a bug in a mutation path.
		panic(fmt.Sprintf("story: clone: %v", err))
	}
	return out
}
