package format

import "errors"

var (
	// ErrTruncated indicates the buffer or stream lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrInvalidData indicates a field held a value outside its documented domain.
	ErrInvalidData = errors.New("format: invalid data")
	// ErrReserved indicates a reserved field did not hold its required constant.
	ErrReserved = errors.New("format: reserved field mismatch")
	// ErrMagic indicates a section header lacked the 0x20 magic.
	ErrMagic = errors.New("format: section magic mismatch")
	// ErrCrossCheck indicates a section header's size cross-check disagreed with its region size.
	ErrCrossCheck = errors.New("format: section size cross-check mismatch")
	// ErrNameTooLong indicates a name does not fit in 16 UTF-16 code units.
	ErrNameTooLong = errors.New("format: name exceeds 16 UTF-16 code units")
)
