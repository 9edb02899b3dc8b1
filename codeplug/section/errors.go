package section

import "errors"

var (
	// ErrLayout indicates a section violates a structural invariant: a zero
	// or non-dividing capacity, in-use above capacity, or an encoded region
	// that does not fit.
	ErrLayout = errors.New("section: layout invariant violated")
	// ErrNotFound indicates the directory lacks a required section type.
	ErrNotFound = errors.New("section: not found")
	// ErrNoMapping indicates a logical position has no mapping entry.
	ErrNoMapping = errors.New("section: no mapping for position")
)
