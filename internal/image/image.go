// Package image provides a seekable, growable byte buffer for codeplug
// images. Reads and in-place writes share one backing slice, so an image can
// be decoded, edited and re-encoded without touching the filesystem.
package image

import (
	"errors"
	"fmt"
	"io"
)

// ErrSeek indicates a seek to a negative position.
var ErrSeek = errors.New("image: invalid seek")

// Buffer is an io.ReadWriteSeeker over an in-memory image. Writes past the
// end grow the image; the gap is zero filled.
type Buffer struct {
	data []byte
	pos  int64
}

// New wraps data. The buffer takes ownership of the slice.
func New(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Clone copies data into a new Buffer, for read-only sources such as mapped files.
func Clone(data []byte) *Buffer {
	return New(append([]byte(nil), data...))
}

// Bytes returns the current image contents.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the image size.
func (b *Buffer) Len() int { return len(b.data) }

func (b *Buffer) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

func (b *Buffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.data)) {
		if end > int64(cap(b.data)) {
			grown := make([]byte, end, max(end, 2*int64(cap(b.data))))
			copy(grown, b.data)
			b.data = grown
		} else {
			old := len(b.data)
			b.data = b.data[:end]
			clear(b.data[old:])
		}
	}
	n := copy(b.data[b.pos:], p)
	b.pos += int64(n)
	return n, nil
}

func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = b.pos + offset
	case io.SeekEnd:
		abs = int64(len(b.data)) + offset
	default:
		return 0, fmt.Errorf("%w: whence %d", ErrSeek, whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("%w: position %d", ErrSeek, abs)
	}
	b.pos = abs
	return abs, nil
}
