package codeplug

import (
	"fmt"

	"github.com/yl3im/hyrps/internal/format"
)

// ChannelCommon layout, shared by both channel records:
//
//	0x00  name[32]
//	0x20  u8   channel type
//	0x21  u8   bit0 rx only, bit2 low power
//	0x22  u16  reserved, 0
//	0x24  u32  rx frequency, Hz
//	0x28  u32  tx frequency, Hz
const (
	chanTypeOffset     = 0x20
	chanFlagsOffset    = 0x21
	chanReservedOffset = 0x22
	chanRxFreqOffset   = 0x24
	chanTxFreqOffset   = 0x28

	chanFlagRxOnly   = 0x01
	chanFlagLowPower = 0x04
)

// ChannelCommon holds the fields every channel record starts with.
type ChannelCommon struct {
	Name   string
	Type   ChannelType
	RxOnly bool
	Power  PowerLevel
	RxFreq uint32
	TxFreq uint32
}

// Repeater reports whether the channel transmits off its receive frequency.
func (c ChannelCommon) Repeater() bool { return c.RxFreq != c.TxFreq }

func (c ChannelCommon) MarshalBinary() ([]byte, error) {
	b := make([]byte, format.ChannelCommonSize)
	if err := c.encode(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *ChannelCommon) UnmarshalBinary(b []byte) error {
	return c.decode(b)
}

func (c ChannelCommon) encode(b []byte) error {
	if !c.Type.valid() {
		return format.Invalid("channel", "type", c.Type)
	}
	if c.Power > PowerLow {
		return format.Invalid("channel", "power level", c.Power)
	}
	if err := format.EncodeName(b, c.Name); err != nil {
		return err
	}
	b[chanTypeOffset] = byte(c.Type)
	var flags byte
	if c.RxOnly {
		flags |= chanFlagRxOnly
	}
	if c.Power == PowerLow {
		flags |= chanFlagLowPower
	}
	b[chanFlagsOffset] = flags
	format.PutU16(b, chanReservedOffset, 0)
	format.PutU32(b, chanRxFreqOffset, c.RxFreq)
	format.PutU32(b, chanTxFreqOffset, c.TxFreq)
	return nil
}

func (c *ChannelCommon) decode(b []byte) error {
	if err := format.Need(b, format.ChannelCommonSize, "channel"); err != nil {
		return err
	}
	name, err := format.DecodeName(b)
	if err != nil {
		return fmt.Errorf("channel: %w", err)
	}
	t := ChannelType(b[chanTypeOffset])
	if !t.valid() {
		return format.Invalid("channel", "type", b[chanTypeOffset])
	}
	if err := format.Reserved("channel", chanReservedOffset, uint32(format.ReadU16(b, chanReservedOffset)), 0); err != nil {
		return err
	}
	flags := b[chanFlagsOffset]
	*c = ChannelCommon{
		Name:   name,
		Type:   t,
		RxOnly: flags&chanFlagRxOnly != 0,
		Power:  PowerHigh,
		RxFreq: format.ReadU32(b, chanRxFreqOffset),
		TxFreq: format.ReadU32(b, chanTxFreqOffset),
	}
	if flags&chanFlagLowPower != 0 {
		c.Power = PowerLow
	}
	return nil
}

// ListKind says which list collection a ListRef targets.
type ListKind uint8

const (
	ListNone ListKind = iota
	ListScan
	ListRoam
)

// MaxListIndex is the largest scan or roam list position a channel can
// reference; the stored byte is position+1.
const MaxListIndex = 0xfe

// ListRef is a channel's reference to a scan or roam list. The zero value
// references nothing; Index is meaningless then and must be 0.
type ListRef struct {
	Kind  ListKind
	Index uint8
}

// NoList references no list.
var NoList = ListRef{}

// ScanListAt references scan list i.
func ScanListAt(i uint8) ListRef { return ListRef{Kind: ListScan, Index: i} }

// RoamListAt references roam list i.
func RoamListAt(i uint8) ListRef { return ListRef{Kind: ListRoam, Index: i} }

func (r ListRef) String() string {
	switch r.Kind {
	case ListNone:
		return "none"
	case ListScan:
		return fmt.Sprintf("scan#%d", r.Index)
	case ListRoam:
		return fmt.Sprintf("roam#%d", r.Index)
	}
	return fmt.Sprintf("list(%d)#%d", r.Kind, r.Index)
}

// stored returns the on-disk index byte.
func (r ListRef) stored(what string) (byte, error) {
	switch r.Kind {
	case ListNone:
		if r.Index != 0 {
			return 0, format.Invalid(what, "list index without list", r.Index)
		}
		return 0, nil
	case ListScan, ListRoam:
		if r.Index > MaxListIndex {
			return 0, format.Invalid(what, "list index", r.Index)
		}
		return r.Index + 1, nil
	}
	return 0, format.Invalid(what, "list kind", r.Kind)
}

func loadListRef(what string, kind ListKind, stored byte) (ListRef, error) {
	if kind == ListNone {
		return NoList, nil
	}
	if stored == 0 {
		return ListRef{}, format.Invalid(what, "list index", 0)
	}
	return ListRef{Kind: kind, Index: stored - 1}, nil
}
