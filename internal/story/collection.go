package story

import "fmt"

// element is implemented by Chapter, Thread and Beat.
type element interface {
	ID() ID
	Name() string
	Position() int
	setName(name string)
	setPosition(pos int)
}

// OrderedCollection keeps its elements' stored positions equal to their
// list index after every operation. All operations validate their
// arguments before mutating anything.
type OrderedCollection[E element] struct {
	items []E
	// onDelete runs after an element has been removed and the remaining
	// elements renumbered. It never runs on Insert or Reorder.
	onDelete func(E)
}

func (c *OrderedCollection[E]) Len() int {
	return len(c.items)
}

// At returns the element at index i.
func (c *OrderedCollection[E]) At(i int) (E, error) {
	if i < 0 || i >= len(c.items) {
		var zero E
		return zero, fmt.Errorf("%w: index %d, length %d", ErrOutOfRange, i, len(c.items))
	}
	return c.items[i], nil
}

// Items returns a copy of the element slice in order.
func (c *OrderedCollection[E]) Items() []E {
	out := make([]E, len(c.items))
	copy(out, c.items)
	return out
}

// IndexOf returns the index of the element with the given ID, or -1.
func (c *OrderedCollection[E]) IndexOf(id ID) int {
	for i, e := range c.items {
		if e.ID() == id {
			return i
		}
	}
	return -1
}

// Insert splices e in at index, which may equal Len() to append.
func (c *OrderedCollection[E]) Insert(index int, e E) error {
	if index < 0 || index > len(c.items) {
		return fmt.Errorf("%w: insert %q at %d, length %d", ErrOutOfRange, e.Name(), index, len(c.items))
	}
	c.items = append(c.items, e)
	copy(c.items[index+1:], c.items[index:])
	c.items[index] = e
	c.renumber()
	return nil
}

// Reorder moves the element at from so that it ends up at absolute
// position to in the resulting list.
func (c *OrderedCollection[E]) Reorder(from, to int) error {
	n := len(c.items)
	if from < 0 || from >= n {
		return fmt.Errorf("%w: reorder from %d, length %d", ErrOutOfRange, from, n)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("%w: reorder to %d, length %d", ErrOutOfRange, to, n)
	}
	if from == to {
		return nil
	}
	e := c.items[from]
	if from < to {
		copy(c.items[from:to], c.items[from+1:to+1])
	} else {
		copy(c.items[to+1:from+1], c.items[to:from])
	}
	c.items[to] = e
	c.renumber()
	return nil
}

// Delete removes the element at index and runs the delete hook.
func (c *OrderedCollection[E]) Delete(index int) (E, error) {
	e, err := c.At(index)
	if err != nil {
		return e, err
	}
	copy(c.items[index:], c.items[index+1:])
	var zero E
	c.items[len(c.items)-1] = zero
	c.items = c.items[:len(c.items)-1]
	c.renumber()
	if c.onDelete != nil {
		c.onDelete(e)
	}
	return e, nil
}

func (c *OrderedCollection[E]) renumber() {
	for i, e := range c.items {
		e.setPosition(i)
	}
}

// checkPositions reports the first element whose stored position does not
// match its index.
func (c *OrderedCollection[E]) checkPositions(what string) error {
	for i, e := range c.items {
		if e.Position() != i {
			return fmt.Errorf("%w: %s %q at index %d has position %d", ErrInvariant, what, e.Name(), i, e.Position())
		}
	}
	return nil
}
