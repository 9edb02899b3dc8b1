package codeplug

import (
	"fmt"

	"github.com/yl3im/hyrps/codeplug/pointer"
	"github.com/yl3im/hyrps/codeplug/verify"
	"github.com/yl3im/hyrps/internal/format"
)

// Zone layout:
//
//	0x00  name[32]
//	0x20  u16  channel count
//	0x22  [6]  first pointer, then the index half of the second
const (
	znCountOffset   = 0x20
	znPointerOffset = 0x22
	znPointerSize   = 6
)

// Zone is a record of section 0x24. Its channels live in the ZoneList at
// the same position; PointerData caches the first entries the way the radio
// expects and is kept verbatim.
type Zone struct {
	Name        string
	Channels    uint16
	PointerData [znPointerSize]byte
}

// NewZone builds a zone header for the given channel list.
func NewZone(name string, channels []pointer.Channel) (Zone, error) {
	if len(channels) > 0xffff {
		return Zone{}, format.Invalid("zone", "channel count", len(channels))
	}
	z := Zone{Name: name, Channels: uint16(len(channels))}
	var cache []byte
	for _, c := range channels[:min(2, len(channels))] {
		b, err := c.MarshalBinary()
		if err != nil {
			return Zone{}, fmt.Errorf("zone %q: %w", name, err)
		}
		cache = append(cache, b...)
	}
	copy(z.PointerData[:], cache)
	return z, nil
}

func (z Zone) MarshalBinary() ([]byte, error) {
	b := make([]byte, format.ZoneSize)
	if err := format.EncodeName(b, z.Name); err != nil {
		return nil, fmt.Errorf("zone: %w", err)
	}
	format.PutU16(b, znCountOffset, z.Channels)
	copy(b[znPointerOffset:], z.PointerData[:])
	return b, nil
}

func (z *Zone) UnmarshalBinary(b []byte) error {
	if err := format.Need(b, format.ZoneSize, "zone"); err != nil {
		return err
	}
	name, err := format.DecodeName(b)
	if err != nil {
		return fmt.Errorf("zone: %w", err)
	}
	*z = Zone{Name: name, Channels: format.ReadU16(b, znCountOffset)}
	copy(z.PointerData[:], b[znPointerOffset:znPointerOffset+znPointerSize])
	return nil
}

// ZoneList is a record of section 0x23: the channels of the zone at the
// same position.
type ZoneList struct {
	Channels []pointer.Channel
	Unk      uint16
}

func (l ZoneList) MarshalBinary() ([]byte, error) {
	if len(l.Channels) == 0 {
		return nil, fmt.Errorf("zone list: empty: %w", format.ErrInvalidData)
	}
	return marshalList(l.Channels, format.ZoneListRegion, l.Unk)
}

func (l *ZoneList) UnmarshalBinary(b []byte) error {
	chans, unk, err := unmarshalList[pointer.Channel](b, 0, "zone list")
	if err != nil {
		return err
	}
	*l = ZoneList{Channels: chans, Unk: unk}
	return nil
}

func (l ZoneList) verify(cp *Codeplug) error {
	if len(l.Channels) == 0 {
		return &verify.Error{Kind: verify.ListShape, Index: -1, Message: "zone list is empty"}
	}
	return verifyPointers(cp, l.Channels)
}

func marshalList[P any, PP pointer.Pointer[P]](ptrs []P, region uint32, unk uint16) ([]byte, error) {
	l, err := pointer.FromPointers[P, PP](ptrs, region)
	if err != nil {
		return nil, err
	}
	l.Header.Unk = unk
	return l.MarshalBinary()
}

// unmarshalList decodes a pointer list record and returns its pointers and
// the header's unknown word. A non-zero region asserts the list's region size.
func unmarshalList[P any, PP pointer.Pointer[P]](b []byte, region uint32, what string) ([]P, uint16, error) {
	l, err := pointer.ParseList(b)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", what, err)
	}
	if region != 0 && l.Header.RegionSize != region {
		return nil, 0, fmt.Errorf("%s: region 0x%x, want 0x%x: %w", what, l.Header.RegionSize, region, format.ErrInvalidData)
	}
	ptrs, err := pointer.Deduce[P, PP](l)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", what, err)
	}
	return ptrs, l.Header.Unk, nil
}

func verifyPointers[P interface{ Verify(pointer.Resolver) error }](cp *Codeplug, ptrs []P) error {
	for i, p := range ptrs {
		if err := p.Verify(cp); err != nil {
			if ve, ok := verify.AsError(err); ok {
				if ve.Details == nil {
					ve.Details = map[string]any{}
				}
				ve.Details["entry"] = i
			}
			return err
		}
	}
	return nil
}
