package codeplug

import (
	"fmt"

	"github.com/yl3im/hyrps/codeplug/verify"
	"github.com/yl3im/hyrps/internal/format"
)

// DigitalChannel layout after ChannelCommon:
//
//	0x2c  u8   tx admit (bits 0-1)
//	0x2d  u8   TOT, 0x2e pre-alert, 0x2f rekey, 0x30 reset
//	0x31  u8   colour code (bits 0-3), bit5 prio encode, bit6 prio decode
//	0x32  u16  tx contact slot+1, 0 none
//	0x34  u16  rx group list
//	0x36  u16  emergency system
//	0x38  u8   scan/roam list index+1
//	0x39  u8   bit7 always set, bit6 repeater, bit5 IP multi-site, bit0 auto scan
//	0x3a  u8   bits0-1 timeslot, bit2 auto roam, bits4-5 list kind, bit6 VOX, bit7 option board
//	0x3b  u8   repeater, 0 or 1
//	0x3c  u16  reserved 0
//	0x3e  u8   unknown, kept
//	0x3f  u16  location revert channel
//	0x41  u16  reserved 1
//	0x43  u16  phone system
//	0x45  u8   pseudo-trunk tx
//	0x46  u16  reserved 0
//	0x48  u16  RRS revert channel
const (
	dgTxAdmitOffset     = 0x2c
	dgTimeoutOffset     = 0x2d
	dgPreAlertOffset    = 0x2e
	dgRekeyOffset       = 0x2f
	dgResetOffset       = 0x30
	dgColourOffset      = 0x31
	dgContactOffset     = 0x32
	dgGroupListOffset   = 0x34
	dgEmergencyOffset   = 0x36
	dgListIndexOffset   = 0x38
	dgModeOffset        = 0x39
	dgSlotOffset        = 0x3a
	dgRepeaterOffset    = 0x3b
	dgReserved3C        = 0x3c
	dgUnk3EOffset       = 0x3e
	dgLocRevOffset      = 0x3f
	dgReserved41        = 0x41
	dgPhoneOffset       = 0x43
	dgPseudoTrunkOffset = 0x45
	dgReserved46        = 0x46
	dgRRSRevertOffset   = 0x48

	dgModeAlways      = 0x80
	dgModeRepeater    = 0x40
	dgModeMultiSite   = 0x20
	dgModeAutoScan    = 0x01
	dgSlotMask        = 0x03
	dgSlotAutoRoam    = 0x04
	dgSlotListMask    = 0x30
	dgSlotListShift   = 4
	dgSlotVOX         = 0x40
	dgSlotOptionBoard = 0x80

	// MaxColourCode is the largest DMR colour code.
	MaxColourCode = 15
)

// ContactRef is a digital channel's transmit contact. The zero value means
// no contact. In memory Index is the contact's position in the collection.
type ContactRef struct {
	Set   bool
	Index uint16
}

// NoContact references no contact.
var NoContact = ContactRef{}

// ContactAt references contact i.
func ContactAt(i uint16) ContactRef { return ContactRef{Set: true, Index: i} }

func (r ContactRef) stored() (uint16, error) {
	if !r.Set {
		if r.Index != 0 {
			return 0, format.Invalid("digital channel", "contact index without contact", r.Index)
		}
		return 0, nil
	}
	if r.Index == 0xffff {
		return 0, format.Invalid("digital channel", "contact index", r.Index)
	}
	return r.Index + 1, nil
}

// RevertKind classifies an RRS revert channel.
type RevertKind uint8

const (
	RevertSelf RevertKind = iota
	RevertNone
	RevertChannel
)

// Revert is the RRS revert channel: stored 0 for the channel itself, 0xffff
// for none, otherwise the channel index verbatim.
type Revert struct {
	Kind  RevertKind
	Index uint16
}

func (r Revert) stored() (uint16, error) {
	switch r.Kind {
	case RevertSelf:
		if r.Index == 0 {
			return 0, nil
		}
	case RevertNone:
		if r.Index == 0 {
			return 0xffff, nil
		}
	case RevertChannel:
		if r.Index != 0 && r.Index != 0xffff {
			return r.Index, nil
		}
	}
	return 0, format.Invalid("digital channel", "rrs revert", r)
}

func loadRevert(v uint16) Revert {
	switch v {
	case 0:
		return Revert{Kind: RevertSelf}
	case 0xffff:
		return Revert{Kind: RevertNone}
	}
	return Revert{Kind: RevertChannel, Index: v}
}

func (r Revert) String() string {
	switch r.Kind {
	case RevertSelf:
		return "self"
	case RevertNone:
		return "none"
	}
	return fmt.Sprintf("#%d", r.Index)
}

// DigitalChannel is a record of section 0x26.
type DigitalChannel struct {
	ChannelCommon
	TxAdmit                 DigitalTxAdmit
	TxTimeout               uint8
	TOTPreAlert             uint8
	TOTRekey                uint8
	TOTReset                uint8
	ColourCode              uint8
	PriorityInterruptEncode bool
	PriorityInterruptDecode bool
	TxContact               ContactRef
	RxGroupList             uint16
	EmergencySystem         uint16
	List                    ListRef
	Timeslot                Timeslot
	AutoStartScan           bool
	AutoStartRoam           bool
	IPMultiSite             bool
	VOX                     bool
	OptionBoard             bool
	Unk3E                   uint8
	LocRevChannel           uint16
	PhoneSystem             uint16
	PseudoTrunkTx           uint8
	RRSRevert               Revert
}

// NewDigitalChannel returns a digital channel with the radio's defaults.
func NewDigitalChannel(name string, rxFreq, txFreq uint32, rxOnly bool, power PowerLevel, colourCode uint8, contact ContactRef, slot Timeslot) DigitalChannel {
	return DigitalChannel{
		ChannelCommon: ChannelCommon{
			Name:   name,
			Type:   ChannelDigital,
			RxOnly: rxOnly,
			Power:  power,
			RxFreq: rxFreq,
			TxFreq: txFreq,
		},
		TxAdmit:    DigitalAdmitChannel,
		ColourCode: colourCode,
		TxContact:  contact,
		Timeslot:   slot,
		Unk3E:      0xff,
		RRSRevert:  Revert{Kind: RevertNone},
	}
}

func (d DigitalChannel) MarshalBinary() ([]byte, error) {
	const what = "digital channel"
	if d.Type != ChannelDigital {
		return nil, format.Invalid(what, "type", d.Type)
	}
	switch {
	case !d.TxAdmit.valid():
		return nil, format.Invalid(what, "tx admit", d.TxAdmit)
	case d.ColourCode > MaxColourCode:
		return nil, format.Invalid(what, "colour code", d.ColourCode)
	case !d.Timeslot.valid():
		return nil, format.Invalid(what, "timeslot", d.Timeslot)
	}
	contact, err := d.TxContact.stored()
	if err != nil {
		return nil, err
	}
	list, err := d.List.stored(what)
	if err != nil {
		return nil, err
	}
	revert, err := d.RRSRevert.stored()
	if err != nil {
		return nil, err
	}

	b := make([]byte, format.DigitalChannelSize)
	if err := d.ChannelCommon.encode(b); err != nil {
		return nil, err
	}
	repeater := bit(d.Repeater(), 0)

	b[dgTxAdmitOffset] = byte(d.TxAdmit)
	b[dgTimeoutOffset] = d.TxTimeout
	b[dgPreAlertOffset] = d.TOTPreAlert
	b[dgRekeyOffset] = d.TOTRekey
	b[dgResetOffset] = d.TOTReset
	b[dgColourOffset] = d.ColourCode | bit(d.PriorityInterruptEncode, 5) | bit(d.PriorityInterruptDecode, 6)
	format.PutU16(b, dgContactOffset, contact)
	format.PutU16(b, dgGroupListOffset, d.RxGroupList)
	format.PutU16(b, dgEmergencyOffset, d.EmergencySystem)
	b[dgListIndexOffset] = list
	b[dgModeOffset] = dgModeAlways | repeater<<6 | bit(d.IPMultiSite, 5) | bit(d.AutoStartScan, 0)
	b[dgSlotOffset] = byte(d.Timeslot) | bit(d.AutoStartRoam, 2) | byte(d.List.Kind)<<dgSlotListShift |
		bit(d.VOX, 6) | bit(d.OptionBoard, 7)
	b[dgRepeaterOffset] = repeater
	format.PutU16(b, dgReserved3C, 0)
	b[dgUnk3EOffset] = d.Unk3E
	format.PutU16(b, dgLocRevOffset, d.LocRevChannel)
	format.PutU16(b, dgReserved41, 1)
	format.PutU16(b, dgPhoneOffset, d.PhoneSystem)
	b[dgPseudoTrunkOffset] = d.PseudoTrunkTx
	format.PutU16(b, dgReserved46, 0)
	format.PutU16(b, dgRRSRevertOffset, revert)
	return b, nil
}

func (d *DigitalChannel) UnmarshalBinary(b []byte) error {
	const what = "digital channel"
	if err := format.Need(b, format.DigitalChannelSize, what); err != nil {
		return err
	}
	var common ChannelCommon
	if err := common.decode(b); err != nil {
		return err
	}
	if common.Type != ChannelDigital {
		return format.Invalid(what, "type", common.Type)
	}

	mode := b[dgModeOffset]
	if mode&dgModeAlways == 0 {
		return fmt.Errorf("%s: mode byte 0x%02x lacks bit 7: %w", what, mode, format.ErrReserved)
	}
	repeater := common.Repeater()
	if (mode&dgModeRepeater != 0) != repeater {
		return format.Invalid(what, "repeater mode bit", mode&dgModeRepeater)
	}
	if err := format.Reserved(what, dgRepeaterOffset, uint32(b[dgRepeaterOffset]), uint32(bit(repeater, 0))); err != nil {
		return err
	}
	for _, r := range []struct {
		off  int
		want uint16
	}{{dgReserved3C, 0}, {dgReserved41, 1}, {dgReserved46, 0}} {
		if err := format.Reserved(what, r.off, uint32(format.ReadU16(b, r.off)), uint32(r.want)); err != nil {
			return err
		}
	}

	slot := b[dgSlotOffset]
	ts := Timeslot(slot & dgSlotMask)
	if !ts.valid() {
		return format.Invalid(what, "timeslot", slot&dgSlotMask)
	}
	kind := ListKind((slot & dgSlotListMask) >> dgSlotListShift)
	if kind > ListRoam {
		return format.Invalid(what, "list kind", kind)
	}
	list, err := loadListRef(what, kind, b[dgListIndexOffset])
	if err != nil {
		return err
	}
	admit := DigitalTxAdmit(b[dgTxAdmitOffset] & 0x03)
	if !admit.valid() {
		return format.Invalid(what, "tx admit", b[dgTxAdmitOffset])
	}

	out := DigitalChannel{
		ChannelCommon:           common,
		TxAdmit:                 admit,
		TxTimeout:               b[dgTimeoutOffset],
		TOTPreAlert:             b[dgPreAlertOffset],
		TOTRekey:                b[dgRekeyOffset],
		TOTReset:                b[dgResetOffset],
		ColourCode:              b[dgColourOffset] & 0x0f,
		PriorityInterruptEncode: b[dgColourOffset]&0x20 != 0,
		PriorityInterruptDecode: b[dgColourOffset]&0x40 != 0,
		RxGroupList:             format.ReadU16(b, dgGroupListOffset),
		EmergencySystem:         format.ReadU16(b, dgEmergencyOffset),
		List:                    list,
		Timeslot:                ts,
		AutoStartScan:           mode&dgModeAutoScan != 0,
		AutoStartRoam:           slot&dgSlotAutoRoam != 0,
		IPMultiSite:             mode&dgModeMultiSite != 0,
		VOX:                     slot&dgSlotVOX != 0,
		OptionBoard:             slot&dgSlotOptionBoard != 0,
		Unk3E:                   b[dgUnk3EOffset],
		LocRevChannel:           format.ReadU16(b, dgLocRevOffset),
		PhoneSystem:             format.ReadU16(b, dgPhoneOffset),
		PseudoTrunkTx:           b[dgPseudoTrunkOffset],
		RRSRevert:               loadRevert(format.ReadU16(b, dgRRSRevertOffset)),
	}
	if c := format.ReadU16(b, dgContactOffset); c != 0 {
		out.TxContact = ContactAt(c - 1)
	}
	*d = out
	return nil
}

func (d DigitalChannel) verify(cp *Codeplug) error {
	if d.TxContact.Set {
		if n := cp.Contacts.Len(); int(d.TxContact.Index) >= n {
			return verify.Dangling("contact", int(d.TxContact.Index), n)
		}
	}
	switch d.List.Kind {
	case ListScan:
		if n := cp.Scans.Len(); int(d.List.Index) >= n {
			return danglingList("scan list", d.List.Index, n)
		}
	case ListRoam:
		if n := cp.Roams.Len(); int(d.List.Index) >= n {
			return danglingList("roam list", d.List.Index, n)
		}
	}
	return nil
}

func danglingList(target string, idx uint8, n int) error {
	return verify.Dangling(target, int(idx), n)
}
