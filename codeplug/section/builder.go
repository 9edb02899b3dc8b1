package section

import (
	"fmt"

	"github.com/yl3im/hyrps/internal/format"
)

// Spec describes one section of a blank image.
type Spec struct {
	Type        uint16
	Capacity    uint16
	ElementSize int
}

// Builder lays out a blank image: the model string, the directory anchor and
// zeroed sections, each with an identity mapping table.
type Builder struct {
	Model    string
	Sections []Spec
}

// Build returns the encoded image.
func (b Builder) Build() ([]byte, error) {
	if len(b.Model) > format.ModelSize {
		return nil, fmt.Errorf("builder: model %q longer than %d bytes: %w", b.Model, format.ModelSize, format.ErrInvalidData)
	}
	seen := make(map[uint16]bool, len(b.Sections))
	size := int64(format.DirectoryStart)
	for _, spec := range b.Sections {
		if seen[spec.Type] {
			return nil, fmt.Errorf("builder: duplicate section 0x%x: %w", spec.Type, ErrLayout)
		}
		seen[spec.Type] = true
		if spec.Capacity == 0 || spec.Capacity > format.MaxCapacity || spec.ElementSize <= 0 {
			return nil, fmt.Errorf("builder: section 0x%x capacity %d element %d: %w",
				spec.Type, spec.Capacity, spec.ElementSize, ErrLayout)
		}
		region := int64(spec.Capacity) * int64(spec.ElementSize)
		if region > format.MaxImageSize {
			return nil, fmt.Errorf("builder: section 0x%x region 0x%x: %w", spec.Type, region, ErrLayout)
		}
		size += format.SectionHeaderSize + region + int64(spec.Capacity)*format.MappingSize
	}
	if size > 0xffffffff {
		return nil, fmt.Errorf("builder: image size 0x%x: %w", size, ErrLayout)
	}

	img := make([]byte, size)
	copy(img[format.ModelOffset:], b.Model)
	format.PutU32(img, format.DirectoryAnchorOffset, uint32(size))

	pos := int64(format.DirectoryStart)
	for _, spec := range b.Sections {
		h := Header{
			Type:     spec.Type,
			Capacity: spec.Capacity,
			ByteSize: uint32(spec.Capacity) * uint32(spec.ElementSize),
		}
		hb, err := h.MarshalBinary()
		if err != nil {
			return nil, err
		}
		pos += int64(copy(img[pos:], hb))
		pos += int64(h.ByteSize)
		for _, m := range Synthetic(int(spec.Capacity), spec.ElementSize) {
			var mb []byte
			if mb, err = m.AppendBinary(mb); err != nil {
				return nil, err
			}
			pos += int64(copy(img[pos:], mb))
		}
	}
	return img, nil
}
