package section

import (
	"fmt"

	"github.com/yl3im/hyrps/internal/buf"
	"github.com/yl3im/hyrps/internal/format"
)

// Header is the 22-byte descriptor that precedes every section region.
//
// Layout (little-endian):
//
//	0x00  u16  Type
//	0x02  u16  Capacity (bits 0-11) | Flags (bits 12-15)
//	0x04  u16  InUse
//	0x06  u32  0x20
//	0x0a  u32  Opaque
//	0x0e  u32  ByteSize
//	0x12  u32  ByteSize + 0x16
type Header struct {
	Type     uint16
	Capacity uint16
	Flags    uint8
	InUse    uint16
	Opaque   uint32
	ByteSize uint32
}

// ParseHeader decodes a section header, checking the magic and the size
// cross-check.
func ParseHeader(b []byte) (Header, error) {
	if err := format.Need(b, format.SectionHeaderSize, "section header"); err != nil {
		return Header{}, err
	}
	capFlags := format.ReadU16(b, format.SectionCapacityOffset)
	h := Header{
		Type:     format.ReadU16(b, format.SectionTypeOffset),
		Capacity: capFlags & format.CapacityMask,
		Flags:    uint8(capFlags >> format.CapacityShift),
		InUse:    format.ReadU16(b, format.SectionInUseOffset),
		Opaque:   format.ReadU32(b, format.SectionOpaqueOffset),
		ByteSize: format.ReadU32(b, format.SectionSizeOffset),
	}
	if magic := format.ReadU32(b, format.SectionMagicOffset); magic != format.SectionMagic {
		return Header{}, fmt.Errorf("section 0x%x: magic 0x%x: %w", h.Type, magic, format.ErrMagic)
	}
	check := format.ReadU32(b, format.SectionCheckOffset)
	if uint64(check) != uint64(h.ByteSize)+format.SectionHeaderSize {
		return Header{}, fmt.Errorf("section 0x%x: size 0x%x, check 0x%x: %w",
			h.Type, h.ByteSize, check, format.ErrCrossCheck)
	}
	return h, nil
}

// MarshalBinary encodes the header. Capacity and flags must fit their bit
// fields and the cross-check must fit in 32 bits.
func (h Header) MarshalBinary() ([]byte, error) {
	if h.Capacity > format.MaxCapacity || h.Flags > format.MaxFlags {
		return nil, fmt.Errorf("section 0x%x: capacity %d flags 0x%x out of range: %w",
			h.Type, h.Capacity, h.Flags, ErrLayout)
	}
	if uint64(h.ByteSize)+format.SectionHeaderSize > 0xffffffff {
		return nil, fmt.Errorf("section 0x%x: size 0x%x: %w", h.Type, h.ByteSize, ErrLayout)
	}
	b := make([]byte, format.SectionHeaderSize)
	format.PutU16(b, format.SectionTypeOffset, h.Type)
	format.PutU16(b, format.SectionCapacityOffset, h.Capacity|uint16(h.Flags)<<format.CapacityShift)
	format.PutU16(b, format.SectionInUseOffset, h.InUse)
	format.PutU32(b, format.SectionMagicOffset, format.SectionMagic)
	format.PutU32(b, format.SectionOpaqueOffset, h.Opaque)
	format.PutU32(b, format.SectionSizeOffset, h.ByteSize)
	format.PutU32(b, format.SectionCheckOffset, h.ByteSize+format.SectionHeaderSize)
	return b, nil
}

// Mapping translates a logical position into a byte offset within the
// section region.
type Mapping struct {
	Index  uint16
	Offset uint32
}

// ParseMapping decodes a 6-byte mapping entry.
func ParseMapping(b []byte) (Mapping, error) {
	if err := format.Need(b, format.MappingSize, "mapping"); err != nil {
		return Mapping{}, err
	}
	return Mapping{
		Index:  format.ReadU16(b, format.MappingIndexOffset),
		Offset: format.ReadU32(b, format.MappingOffsetOffset),
	}, nil
}

// AppendBinary appends the 6-byte encoding of m to b.
func (m Mapping) AppendBinary(b []byte) ([]byte, error) {
	var e [format.MappingSize]byte
	format.PutU16(e[:], format.MappingIndexOffset, m.Index)
	format.PutU32(e[:], format.MappingOffsetOffset, m.Offset)
	return append(b, e[:]...), nil
}

// ParseMappings decodes count consecutive mapping entries.
func ParseMappings(b []byte, count int) ([]Mapping, error) {
	if _, err := buf.CheckListBounds(len(b), 0, count, format.MappingSize); err != nil {
		return nil, fmt.Errorf("mappings: %w: %w", format.ErrTruncated, err)
	}
	out := make([]Mapping, count)
	for i := range out {
		m, err := ParseMapping(b[i*format.MappingSize:])
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}
