package codeplug

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacity indicates an insert into a section with no free slot.
	ErrCapacity = errors.New("codeplug: section capacity exhausted")
	// ErrPairMismatch indicates the halves of a paired collection differ in length.
	ErrPairMismatch = errors.New("codeplug: paired collections differ in length")
)

// RecordError locates a record that failed to decode or encode.
type RecordError struct {
	Section uint16
	Index   int
	Err     error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("section 0x%x record %d: %v", e.Section, e.Index, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
