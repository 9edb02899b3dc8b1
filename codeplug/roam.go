package codeplug

import (
	"fmt"

	"github.com/yl3im/hyrps/codeplug/pointer"
	"github.com/yl3im/hyrps/codeplug/verify"
	"github.com/yl3im/hyrps/internal/format"
)

// Roam layout:
//
//	0x00  name[32]
//	0x20  u8   RSSI threshold, -dBm
//	0x21  [3]  reserved 0
//	0x24  u8   bit1 active site, bit2 return to selected, bit3 follow master, bit4 stay
//	0x25  u8   RSSI offset, dB
//	0x26  u8   interval, s
//	0x27  u8   reserved 0
const (
	rmThresholdOffset = 0x20
	rmReserved21      = 0x21
	rmFlagsOffset     = 0x24
	rmOffsetOffset    = 0x25
	rmIntervalOffset  = 0x26
	rmReserved27      = 0x27
)

// Roam is a record of section 0x7a. Its channels live in the RoamList at
// the same position.
type Roam struct {
	Name                string
	RSSIThreshold       uint8
	RSSIOffset          uint8
	Interval            uint8
	ActiveSiteRoam      bool
	ReturnToSelected    bool
	FollowMasterSiteCfg bool
	Stay                bool
}

// NewRoam returns a roam with the programming software's defaults.
func NewRoam(name string) Roam {
	return Roam{
		Name:           name,
		RSSIThreshold:  108,
		RSSIOffset:     5,
		Interval:       15,
		ActiveSiteRoam: true,
		Stay:           true,
	}
}

func (r Roam) MarshalBinary() ([]byte, error) {
	b := make([]byte, format.RoamSize)
	if err := format.EncodeName(b, r.Name); err != nil {
		return nil, fmt.Errorf("roam: %w", err)
	}
	b[rmThresholdOffset] = r.RSSIThreshold
	b[rmFlagsOffset] = bit(r.ActiveSiteRoam, 1) | bit(r.ReturnToSelected, 2) | bit(r.FollowMasterSiteCfg, 3) | bit(r.Stay, 4)
	b[rmOffsetOffset] = r.RSSIOffset
	b[rmIntervalOffset] = r.Interval
	return b, nil
}

func (r *Roam) UnmarshalBinary(b []byte) error {
	if err := format.Need(b, format.RoamSize, "roam"); err != nil {
		return err
	}
	name, err := format.DecodeName(b)
	if err != nil {
		return fmt.Errorf("roam: %w", err)
	}
	for _, off := range []int{rmReserved21, rmReserved21 + 1, rmReserved21 + 2, rmReserved27} {
		if err := format.Reserved("roam", off, uint32(b[off]), 0); err != nil {
			return err
		}
	}
	flags := b[rmFlagsOffset]
	*r = Roam{
		Name:                name,
		RSSIThreshold:       b[rmThresholdOffset],
		RSSIOffset:          b[rmOffsetOffset],
		Interval:            b[rmIntervalOffset],
		ActiveSiteRoam:      flags&0x02 != 0,
		ReturnToSelected:    flags&0x04 != 0,
		FollowMasterSiteCfg: flags&0x08 != 0,
		Stay:                flags&0x10 != 0,
	}
	return nil
}

// RoamList is a record of section 0x79. Roaming only hops between digital
// channels; the first entry is always the selected channel.
type RoamList struct {
	Channels []pointer.Digital
	Unk      uint16
}

// NewRoamList returns a list of Selected followed by channels.
func NewRoamList(channels ...pointer.Digital) RoamList {
	return RoamList{Channels: append([]pointer.Digital{pointer.SelectedDigital}, channels...)}
}

func (l RoamList) MarshalBinary() ([]byte, error) {
	return marshalList(l.Channels, format.RoamListRegion, l.Unk)
}

func (l *RoamList) UnmarshalBinary(b []byte) error {
	chans, unk, err := unmarshalList[pointer.Digital](b, format.RoamListRegion, "roam list")
	if err != nil {
		return err
	}
	*l = RoamList{Channels: chans, Unk: unk}
	return nil
}

func (l RoamList) verify(cp *Codeplug) error {
	if len(l.Channels) == 0 || l.Channels[0] != pointer.SelectedDigital {
		return &verify.Error{Kind: verify.ListShape, Index: -1, Message: "first channel of roam list is not <Selected>"}
	}
	return verifyPointers(cp, l.Channels)
}
