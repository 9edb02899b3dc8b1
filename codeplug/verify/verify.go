// Package verify describes referential-integrity failures found when
// checking a codeplug before it is written.
package verify

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a verification failure.
type Kind string

const (
	// DanglingReference means a pointer or index names a record that does not exist.
	DanglingReference Kind = "DanglingReference"
	// PairMismatch means the two halves of a paired collection differ in length.
	PairMismatch Kind = "PairMismatch"
	// CountMismatch means a section's in-use count disagrees with its records.
	CountMismatch Kind = "CountMismatch"
	// ListShape means a list breaks a structural rule, such as a scan list
	// not starting with the selected channel.
	ListShape Kind = "ListShape"
)

// Error is a single verification failure. Collection and Index locate the
// offending record; Index is -1 when the failure concerns a whole collection.
type Error struct {
	Kind       Kind
	Collection string
	Index      int
	Message    string
	Details    map[string]any
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	if e.Collection != "" {
		sb.WriteString(" in ")
		sb.WriteString(e.Collection)
		if e.Index >= 0 {
			fmt.Fprintf(&sb, " #%d", e.Index)
		}
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, " %s=%v", k, e.Details[k])
		}
	}
	return sb.String()
}

// Dangling reports a reference to target[index] when only n records exist.
func Dangling(target string, index, n int) *Error {
	return &Error{
		Kind:    DanglingReference,
		Index:   -1,
		Message: fmt.Sprintf("%s %d does not exist", target, index),
		Details: map[string]any{"target": target, "index": index, "loaded": n},
	}
}

// At locates err in collection[index]. A *Error that is not yet located is
// updated in place; any other error is wrapped.
func At(err error, collection string, index int) error {
	if err == nil {
		return nil
	}
	var ve *Error
	if errors.As(err, &ve) && ve.Collection == "" {
		ve.Collection = collection
		ve.Index = index
		return err
	}
	return fmt.Errorf("%s #%d: %w", collection, index, err)
}

// AsError returns the *Error carried by err, if any.
func AsError(err error) (*Error, bool) {
	var ve *Error
	ok := errors.As(err, &ve)
	return ve, ok
}

// IsKind reports whether err carries a verification failure of kind k.
func IsKind(err error, k Kind) bool {
	ve, ok := AsError(err)
	return ok && ve.Kind == k
}
