// Package section decodes the codeplug's section directory: a run of
// fixed-capacity regions, each with a header, a data region holding
// fixed-stride records and a table mapping logical positions to offsets.
//
// Image layout:
//
//	0x03c  model string
//	0x38e  u32 directory end
//	0x392  [header | region | capacity × mapping] ... until directory end
package section

import (
	"fmt"
	"io"

	"github.com/yl3im/hyrps/internal/buf"
	"github.com/yl3im/hyrps/internal/format"
	"github.com/yl3im/hyrps/internal/logger"
)

// Section is one decoded directory entry. Addr is the absolute offset of its
// header in the image, which is where it is written back.
type Section struct {
	Header   Header
	Addr     int64
	Data     []byte
	Mappings []Mapping
}

// Read decodes a section whose header starts at the reader's current
// position, recorded as addr.
func Read(r io.Reader, addr int64) (*Section, error) {
	var hb [format.SectionHeaderSize]byte
	if err := readFull(r, hb[:]); err != nil {
		return nil, fmt.Errorf("section at 0x%x: header: %w", addr, err)
	}
	h, err := ParseHeader(hb[:])
	if err != nil {
		return nil, fmt.Errorf("section at 0x%x: %w", addr, err)
	}
	if h.ByteSize > format.MaxImageSize {
		return nil, fmt.Errorf("section 0x%x at 0x%x: region 0x%x larger than image: %w",
			h.Type, addr, h.ByteSize, ErrLayout)
	}
	if h.InUse > h.Capacity {
		return nil, fmt.Errorf("section 0x%x at 0x%x: %d in use, capacity %d: %w",
			h.Type, addr, h.InUse, h.Capacity, ErrLayout)
	}

	s := &Section{Header: h, Addr: addr}
	// An empty section with no slots carries no stride.
	if h.Capacity != 0 || h.ByteSize != 0 {
		if _, err := s.ElementSize(); err != nil {
			return nil, fmt.Errorf("section at 0x%x: %w", addr, err)
		}
	}
	s.Data = make([]byte, h.ByteSize)
	if err := readFull(r, s.Data); err != nil {
		return nil, fmt.Errorf("section 0x%x at 0x%x: region: %w", h.Type, addr, err)
	}
	mb := make([]byte, int(h.Capacity)*format.MappingSize)
	if err := readFull(r, mb); err != nil {
		return nil, fmt.Errorf("section 0x%x at 0x%x: mappings: %w", h.Type, addr, err)
	}
	if s.Mappings, err = ParseMappings(mb, int(h.Capacity)); err != nil {
		return nil, fmt.Errorf("section 0x%x at 0x%x: %w", h.Type, addr, err)
	}
	return s, nil
}

// Size is the number of image bytes the section occupies.
func (s *Section) Size() int64 {
	return format.SectionHeaderSize + int64(s.Header.ByteSize) + int64(s.Header.Capacity)*format.MappingSize
}

// ElementSize is the stride of one record slot. The region must split into
// Capacity equal slots.
func (s *Section) ElementSize() (int, error) {
	if s.Header.Capacity == 0 {
		return 0, fmt.Errorf("section 0x%x: zero capacity: %w", s.Header.Type, ErrLayout)
	}
	if rem := s.Header.ByteSize % uint32(s.Header.Capacity); rem != 0 {
		return 0, fmt.Errorf("section 0x%x: region 0x%x not divisible by capacity %d: %w",
			s.Header.Type, s.Header.ByteSize, s.Header.Capacity, ErrLayout)
	}
	return int(s.Header.ByteSize / uint32(s.Header.Capacity)), nil
}

// Chunk returns the raw record bytes at logical position pos, located
// through the mapping table.
func (s *Section) Chunk(pos int) ([]byte, error) {
	if pos < 0 || pos >= len(s.Mappings) {
		return nil, fmt.Errorf("section 0x%x: position %d of %d: %w", s.Header.Type, pos, len(s.Mappings), ErrNoMapping)
	}
	stride, err := s.ElementSize()
	if err != nil {
		return nil, err
	}
	m := s.Mappings[pos]
	chunk, ok := buf.SliceU32(s.Data, m.Offset, stride)
	if !ok {
		return nil, fmt.Errorf("section 0x%x: position %d maps to 0x%x, region 0x%x: %w",
			s.Header.Type, pos, m.Offset, len(s.Data), format.ErrTruncated)
	}
	return chunk, nil
}

// PositionOf returns the logical position whose mapping carries the stored
// record index idx. Records referencing others by index resolve through it.
func (s *Section) PositionOf(idx uint16) (int, bool) {
	for pos, m := range s.Mappings {
		if m.Index == idx {
			return pos, true
		}
	}
	return 0, false
}

// Emit writes the section back at Addr with the given region and a
// regenerated mapping table {i, i*stride}. The in-memory section is updated
// to match what was written.
func (s *Section) Emit(w io.WriteSeeker, region []byte) error {
	if uint64(len(region)) != uint64(s.Header.ByteSize) {
		return fmt.Errorf("section 0x%x: region is %d bytes, want %d: %w", s.Header.Type, len(region), s.Header.ByteSize, ErrLayout)
	}
	stride, err := s.ElementSize()
	if err != nil {
		return err
	}
	hb, err := s.Header.MarshalBinary()
	if err != nil {
		return err
	}
	mappings := Synthetic(int(s.Header.Capacity), stride)
	mb := make([]byte, 0, len(mappings)*format.MappingSize)
	for _, m := range mappings {
		if mb, err = m.AppendBinary(mb); err != nil {
			return err
		}
	}

	if _, err := w.Seek(s.Addr, io.SeekStart); err != nil {
		return fmt.Errorf("section 0x%x: seek 0x%x: %w", s.Header.Type, s.Addr, err)
	}
	for _, part := range [][]byte{hb, region, mb} {
		if _, err := w.Write(part); err != nil {
			return fmt.Errorf("section 0x%x: write: %w", s.Header.Type, err)
		}
	}
	logger.L.Debug("section written", "type", s.Header.Type, "addr", s.Addr, "in_use", s.Header.InUse, "capacity", s.Header.Capacity)

	s.Data = region
	s.Mappings = mappings
	return nil
}

// Synthetic builds the identity mapping table written for every section.
func Synthetic(capacity, stride int) []Mapping {
	out := make([]Mapping, capacity)
	for i := range out {
		out[i] = Mapping{Index: uint16(i), Offset: uint32(i * stride)}
	}
	return out
}

func readFull(r io.Reader, p []byte) error {
	if _, err := io.ReadFull(r, p); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("%w: %w", format.ErrTruncated, io.ErrUnexpectedEOF)
		}
		return err
	}
	return nil
}
