// Package pointer implements the compact channel references stored inside
// zone, scan and roam records, and the small indirection container that
// holds lists of them.
//
// A stored index is the target's position plus one; 0xffff means "the
// currently selected channel". Wide pointers also name the target
// collection:
//
//	0x00  u16  index+1, or 0xffff
//	0x02  u8   target (0 digital, 1 analog)
//	0x03  u8   flags (written 0, ignored on read)
//
// Narrow pointers only hold the u16 index and always target digital channels.
package pointer

import (
	"errors"
	"fmt"

	"github.com/yl3im/hyrps/codeplug/verify"
	"github.com/yl3im/hyrps/internal/format"
)

// MaxIndex is the largest position a pointer can encode; position+1 must
// stay below the selected sentinel.
const MaxIndex = format.PointerSelected - 2

var (
	// ErrIndexRange indicates a position too large to encode.
	ErrIndexRange = errors.New("pointer: index out of encodable range")
	// ErrNotDigital indicates an analog pointer where only digital channels are allowed.
	ErrNotDigital = errors.New("pointer: not a digital channel")
	// ErrListFull indicates more pointers than a list region can hold.
	ErrListFull = errors.New("pointer: list capacity exceeded")
)

// Kind is the target of a pointer.
type Kind uint8

const (
	KindSelected Kind = iota
	KindDigital
	KindAnalog
)

func (k Kind) String() string {
	switch k {
	case KindSelected:
		return "selected"
	case KindDigital:
		return "digital"
	case KindAnalog:
		return "analog"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

const (
	targetDigital = 0
	targetAnalog  = 1
)

// Resolver reports how many records a pointer can refer to.
type Resolver interface {
	DigitalChannels() int
	AnalogChannels() int
}

// Channel is a wide pointer to a digital or analog channel. The zero value
// is the selected channel.
type Channel struct {
	Kind  Kind
	Index uint16
}

// Selected refers to whatever channel the radio has selected.
var Selected = Channel{Kind: KindSelected}

// ToDigital points at digital channel i.
func ToDigital(i uint16) Channel { return Channel{Kind: KindDigital, Index: i} }

// ToAnalog points at analog channel i.
func ToAnalog(i uint16) Channel { return Channel{Kind: KindAnalog, Index: i} }

func (c Channel) String() string {
	if c.Kind == KindSelected {
		return c.Kind.String()
	}
	return fmt.Sprintf("%s#%d", c.Kind, c.Index)
}

// Stride is the encoded size of a wide pointer.
func (Channel) Stride() int { return format.WidePointerSize }

func (c Channel) MarshalBinary() ([]byte, error) {
	b := make([]byte, format.WidePointerSize)
	switch c.Kind {
	case KindSelected:
		if c.Index != 0 {
			return nil, fmt.Errorf("pointer: selected with index %d: %w", c.Index, format.ErrInvalidData)
		}
		format.PutU16(b, 0, format.PointerSelected)
		return b, nil
	case KindDigital:
		b[2] = targetDigital
	case KindAnalog:
		b[2] = targetAnalog
	default:
		return nil, fmt.Errorf("pointer: %s: %w", c.Kind, format.ErrInvalidData)
	}
	stored, err := storeIndex(c.Index)
	if err != nil {
		return nil, err
	}
	format.PutU16(b, 0, stored)
	return b, nil
}

func (c *Channel) UnmarshalBinary(b []byte) error {
	if err := format.Need(b, format.WidePointerSize, "channel pointer"); err != nil {
		return err
	}
	stored := format.ReadU16(b, 0)
	if stored == format.PointerSelected {
		*c = Selected
		return nil
	}
	idx, err := loadIndex(stored)
	if err != nil {
		return err
	}
	switch b[2] {
	case targetDigital:
		*c = ToDigital(idx)
	case targetAnalog:
		*c = ToAnalog(idx)
	default:
		return format.Invalid("channel pointer", "target", b[2])
	}
	return nil
}

// Narrow converts c to a digital-only pointer.
func (c Channel) Narrow() (Digital, error) {
	switch c.Kind {
	case KindSelected:
		return SelectedDigital, nil
	case KindDigital:
		return DigitalAt(c.Index), nil
	}
	return Digital{}, fmt.Errorf("pointer: %s: %w", c, ErrNotDigital)
}

// Verify checks that c names an existing channel.
func (c Channel) Verify(r Resolver) error {
	switch c.Kind {
	case KindDigital:
		if n := r.DigitalChannels(); int(c.Index) >= n {
			return verify.Dangling("digital channel", int(c.Index), n)
		}
	case KindAnalog:
		if n := r.AnalogChannels(); int(c.Index) >= n {
			return verify.Dangling("analog channel", int(c.Index), n)
		}
	}
	return nil
}

// Digital is a narrow pointer that can only refer to digital channels. The
// zero value is the selected channel.
type Digital struct {
	Kind  Kind
	Index uint16
}

// SelectedDigital is the narrow form of Selected.
var SelectedDigital = Digital{Kind: KindSelected}

// DigitalAt points at digital channel i.
func DigitalAt(i uint16) Digital { return Digital{Kind: KindDigital, Index: i} }

func (d Digital) String() string { return d.Wide().String() }

// Stride is the encoded size of a narrow pointer.
func (Digital) Stride() int { return format.NarrowPointerSize }

// Wide converts d to a wide pointer; it cannot fail.
func (d Digital) Wide() Channel {
	if d.Kind == KindSelected {
		return Selected
	}
	return ToDigital(d.Index)
}

func (d Digital) MarshalBinary() ([]byte, error) {
	b := make([]byte, format.NarrowPointerSize)
	switch d.Kind {
	case KindSelected:
		if d.Index != 0 {
			return nil, fmt.Errorf("pointer: selected with index %d: %w", d.Index, format.ErrInvalidData)
		}
		format.PutU16(b, 0, format.PointerSelected)
		return b, nil
	case KindDigital:
	default:
		return nil, fmt.Errorf("pointer: %s: %w", d.Kind, ErrNotDigital)
	}
	stored, err := storeIndex(d.Index)
	if err != nil {
		return nil, err
	}
	format.PutU16(b, 0, stored)
	return b, nil
}

func (d *Digital) UnmarshalBinary(b []byte) error {
	if err := format.Need(b, format.NarrowPointerSize, "digital pointer"); err != nil {
		return err
	}
	stored := format.ReadU16(b, 0)
	if stored == format.PointerSelected {
		*d = SelectedDigital
		return nil
	}
	idx, err := loadIndex(stored)
	if err != nil {
		return err
	}
	*d = DigitalAt(idx)
	return nil
}

// Verify checks that d names an existing digital channel.
func (d Digital) Verify(r Resolver) error {
	return d.Wide().Verify(r)
}

func storeIndex(i uint16) (uint16, error) {
	if i > MaxIndex {
		return 0, fmt.Errorf("pointer: index %d > %d: %w", i, MaxIndex, ErrIndexRange)
	}
	return i + 1, nil
}

func loadIndex(stored uint16) (uint16, error) {
	if stored == 0 {
		return 0, format.Invalid("pointer", "index", 0)
	}
	return stored - 1, nil
}
