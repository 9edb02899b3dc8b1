package pointer

import (
	"fmt"

	"github.com/yl3im/hyrps/codeplug/section"
	"github.com/yl3im/hyrps/internal/buf"
	"github.com/yl3im/hyrps/internal/format"
)

// ListHeader is the 14-byte header of a pointer list.
//
//	0x00  u16  Unk, reproduced
//	0x02  u16  Capacity, in pointers
//	0x04  u16  Count
//	0x06  u32  RegionSize
//	0x0a  u32  MappingOffset, RegionSize + 14 when built here
type ListHeader struct {
	Unk           uint16
	Capacity      uint16
	Count         uint16
	RegionSize    uint32
	MappingOffset uint32
}

// List is a miniature section embedded in a zone, scan or roam list record:
// a fixed region of pointers plus one mapping entry per pointer in use.
type List struct {
	Header   ListHeader
	Region   []byte
	Mappings []section.Mapping
}

// ParseList decodes a list from the start of b. Bytes after the mapping
// table are ignored.
func ParseList(b []byte) (*List, error) {
	if err := format.Need(b, format.ListHeaderSize, "pointer list"); err != nil {
		return nil, err
	}
	h := ListHeader{
		Unk:           format.ReadU16(b, format.ListUnkOffset),
		Capacity:      format.ReadU16(b, format.ListCapacityOffset),
		Count:         format.ReadU16(b, format.ListCountOffset),
		RegionSize:    format.ReadU32(b, format.ListRegionSizeOffset),
		MappingOffset: format.ReadU32(b, format.ListMappingOffsetOffset),
	}
	body := b[format.ListHeaderSize:]
	region, ok := buf.Slice(body, 0, int(h.RegionSize))
	if !ok {
		return nil, fmt.Errorf("pointer list: region 0x%x, have 0x%x: %w", h.RegionSize, len(body), format.ErrTruncated)
	}
	mappings, err := section.ParseMappings(body[len(region):], int(h.Count))
	if err != nil {
		return nil, fmt.Errorf("pointer list: %w", err)
	}
	return &List{Header: h, Region: region, Mappings: mappings}, nil
}

// MarshalBinary encodes the header, region and the Count mapping entries.
func (l *List) MarshalBinary() ([]byte, error) {
	if uint64(len(l.Region)) != uint64(l.Header.RegionSize) {
		return nil, fmt.Errorf("pointer list: region is %d bytes, header says %d: %w",
			len(l.Region), l.Header.RegionSize, format.ErrInvalidData)
	}
	if len(l.Mappings) != int(l.Header.Count) {
		return nil, fmt.Errorf("pointer list: %d mappings, count %d: %w",
			len(l.Mappings), l.Header.Count, format.ErrInvalidData)
	}
	out := make([]byte, format.ListHeaderSize, format.ListHeaderSize+len(l.Region)+len(l.Mappings)*format.MappingSize)
	format.PutU16(out, format.ListUnkOffset, l.Header.Unk)
	format.PutU16(out, format.ListCapacityOffset, l.Header.Capacity)
	format.PutU16(out, format.ListCountOffset, l.Header.Count)
	format.PutU32(out, format.ListRegionSizeOffset, l.Header.RegionSize)
	format.PutU32(out, format.ListMappingOffsetOffset, l.Header.MappingOffset)
	out = append(out, l.Region...)
	var err error
	for _, m := range l.Mappings {
		if out, err = m.AppendBinary(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Pointer is implemented by the pointer encodings a List can hold.
type Pointer[P any] interface {
	*P
	MarshalBinary() ([]byte, error)
	UnmarshalBinary([]byte) error
	Stride() int
}

// Deduce decodes the pointers in use, in mapping order.
func Deduce[P any, PP Pointer[P]](l *List) ([]P, error) {
	var zero P
	stride := PP(&zero).Stride()
	out := make([]P, 0, len(l.Mappings))
	for i, m := range l.Mappings {
		chunk, ok := buf.SliceU32(l.Region, m.Offset, stride)
		if !ok {
			return nil, fmt.Errorf("pointer list: entry %d at 0x%x, region 0x%x: %w",
				i, m.Offset, len(l.Region), format.ErrTruncated)
		}
		var p P
		if err := PP(&p).UnmarshalBinary(chunk); err != nil {
			return nil, fmt.Errorf("pointer list: entry %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// FromPointers lays ptrs out back to back in a region of regionSize bytes.
func FromPointers[P any, PP Pointer[P]](ptrs []P, regionSize uint32) (*List, error) {
	var zero P
	stride := PP(&zero).Stride()
	capacity := regionSize / uint32(stride)
	if capacity > 0xffff || uint64(regionSize)+format.ListHeaderSize > 0xffffffff {
		return nil, fmt.Errorf("pointer list: region 0x%x: %w", regionSize, format.ErrInvalidData)
	}
	if uint64(len(ptrs)) > uint64(capacity) {
		return nil, fmt.Errorf("pointer list: %d pointers, capacity %d: %w", len(ptrs), capacity, ErrListFull)
	}

	l := &List{
		Header: ListHeader{
			Capacity:      uint16(capacity),
			Count:         uint16(len(ptrs)),
			RegionSize:    regionSize,
			MappingOffset: regionSize + format.ListHeaderSize,
		},
		Region:   make([]byte, regionSize),
		Mappings: make([]section.Mapping, len(ptrs)),
	}
	for i := range ptrs {
		b, err := PP(&ptrs[i]).MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("pointer list: entry %d: %w", i, err)
		}
		copy(l.Region[i*stride:], b)
		l.Mappings[i] = section.Mapping{Index: uint16(i), Offset: uint32(i * stride)}
	}
	return l, nil
}
