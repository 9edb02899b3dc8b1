// Package buf contains bounds helpers for the offset-driven parts of the
// image: mapping tables, pointer regions and record slots.
package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies two non-negative ints, returning ok = false on
// overflow or when either operand is negative.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// CheckListBounds validates that count elements of elementSize bytes fit in a
// buffer of bufLen bytes starting at offset, and returns the end offset.
//
//	end, err := buf.CheckListBounds(len(data), off, int(count), format.MappingSize)
//	if err != nil {
//	    return fmt.Errorf("mappings: %w", err)
//	}
func CheckListBounds(bufLen, offset, count, elementSize int) (int, error) {
	if offset < 0 {
		return 0, fmt.Errorf("negative offset: %d", offset)
	}
	total, ok := MulOverflowSafe(count, elementSize)
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * elemSize=%d", count, elementSize)
	}
	end, ok := AddOverflowSafe(offset, total)
	if !ok {
		return 0, fmt.Errorf("overflow: offset=%d + size=%d", offset, total)
	}
	if end > bufLen {
		return 0, fmt.Errorf("bounds: end=%d > len=%d", end, bufLen)
	}
	return end, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}

// SliceU32 is Slice for a 32-bit on-disk offset, which may not fit an int on
// 32-bit platforms.
func SliceU32(b []byte, off uint32, n int) ([]byte, bool) {
	if uint64(off) > math.MaxInt {
		return nil, false
	}
	return Slice(b, int(off), n)
}

// PadTo returns b extended with zero bytes to exactly n bytes. It returns
// ok = false when b is already longer than n.
func PadTo(b []byte, n int) ([]byte, bool) {
	if len(b) > n {
		return b, false
	}
	if len(b) == n {
		return b, true
	}
	out := make([]byte, n)
	copy(out, b)
	return out, true
}
