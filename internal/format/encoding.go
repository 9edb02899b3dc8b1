package format

import (
	"encoding/binary"
	"fmt"
)

// Little-endian field accessors used by the record codecs. Callers check the
// record length once up front (see Need), so the accessors index directly.

// PutU16 writes a uint16 value to the buffer at the specified offset in little-endian format.
func PutU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], v)
}

// PutU32 writes a uint32 value to the buffer at the specified offset in little-endian format.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// ReadU16 reads a uint16 value from the buffer at the specified offset in little-endian format.
func ReadU16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off : off+2])
}

// ReadU32 reads a uint32 value from the buffer at the specified offset in little-endian format.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// Need returns ErrTruncated, tagged with what, when b is shorter than n bytes.
func Need(b []byte, n int, what string) error {
	if len(b) < n {
		return fmt.Errorf("%s: need %d bytes, have %d: %w", what, n, len(b), ErrTruncated)
	}
	return nil
}

// Reserved reports ErrReserved when got differs from the required constant.
func Reserved(what string, off int, got, want uint32) error {
	if got != want {
		return fmt.Errorf("%s: reserved field at 0x%02x is 0x%x, want 0x%x: %w", what, off, got, want, ErrReserved)
	}
	return nil
}

// Invalid wraps ErrInvalidData with the record and field that held v.
func Invalid(what, field string, v any) error {
	return fmt.Errorf("%s: %s value %v: %w", what, field, v, ErrInvalidData)
}
