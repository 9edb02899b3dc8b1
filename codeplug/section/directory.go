package section

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/yl3im/hyrps/internal/format"
	"github.com/yl3im/hyrps/internal/logger"
)

// Directory maps section type ids to their decoded sections.
type Directory map[uint16]*Section

// Load reads the directory anchor and decodes sections back to back until
// the anchored end address is reached. A later section with an already seen
// type replaces the earlier one.
func Load(r io.ReadSeeker) (Directory, error) {
	if _, err := r.Seek(format.DirectoryAnchorOffset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("directory: seek anchor: %w", err)
	}
	var ab [4]byte
	if err := readFull(r, ab[:]); err != nil {
		return nil, fmt.Errorf("directory: anchor: %w", err)
	}
	end := int64(format.ReadU32(ab[:], 0))

	dir := make(Directory)
	pos := int64(format.DirectoryStart)
	for pos < end {
		if _, err := r.Seek(pos, io.SeekStart); err != nil {
			return nil, fmt.Errorf("directory: seek 0x%x: %w", pos, err)
		}
		s, err := Read(r, pos)
		if err != nil {
			return nil, fmt.Errorf("directory: %w", err)
		}
		if prev, ok := dir[s.Header.Type]; ok {
			logger.L.Warn("duplicate section type", "type", s.Header.Type, "first", prev.Addr, "replaced_by", pos)
		}
		logger.L.Debug("section loaded", "type", s.Header.Type, "addr", pos,
			"capacity", s.Header.Capacity, "in_use", s.Header.InUse, "size", s.Header.ByteSize)
		dir[s.Header.Type] = s
		pos += s.Size()
	}
	return dir, nil
}

// Get returns the section with the given type id.
func (d Directory) Get(id uint16) (*Section, error) {
	s, ok := d[id]
	if !ok {
		return nil, fmt.Errorf("section 0x%x: %w", id, ErrNotFound)
	}
	return s, nil
}

// Sorted returns the sections in image order.
func (d Directory) Sorted() []*Section {
	out := make([]*Section, 0, len(d))
	for _, s := range d {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *Section) int {
		switch {
		case a.Addr < b.Addr:
			return -1
		case a.Addr > b.Addr:
			return 1
		}
		return 0
	})
	return out
}

// ReadModel returns the radio model string stored at the start of the image.
func ReadModel(r io.ReadSeeker) (string, error) {
	if _, err := r.Seek(format.ModelOffset, io.SeekStart); err != nil {
		return "", fmt.Errorf("model: %w", err)
	}
	var b [format.ModelSize]byte
	if err := readFull(r, b[:]); err != nil {
		return "", fmt.Errorf("model: %w", err)
	}
	if i := bytes.IndexByte(b[:], 0); i >= 0 {
		return string(b[:i]), nil
	}
	return string(b[:]), nil
}
