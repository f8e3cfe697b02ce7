package story

import "errors"

var (
	// ErrOutOfRange indicates an index outside a collection's valid bounds.
	ErrOutOfRange = errors.New("index out of range")

	// ErrNotFound indicates an ID that does not resolve to an element.
	ErrNotFound = errors.New("element not found")

	// ErrThreadHasBeats is returned when deleting a thread that still owns beats.
	ErrThreadHasBeats = errors.New("thread still has beats")

	// ErrInvariant indicates a broken structural invariant, such as a beat
	// whose chapter link is not mirrored in the chapter's beat set.
	ErrInvariant = errors.New("story invariant violated")
)
