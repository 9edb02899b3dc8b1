package codeplug

import "fmt"

// Small enumerations shared by the channel and list records. Each type's
// valid returns false for values the radio never writes; decoders reject
// those with format.ErrInvalidData.

// ChannelType distinguishes the two channel sections.
type ChannelType uint8

const (
	ChannelDigital ChannelType = 0
	ChannelAnalog  ChannelType = 1
)

func (t ChannelType) valid() bool { return t <= ChannelAnalog }

func (t ChannelType) String() string {
	switch t {
	case ChannelDigital:
		return "Digital"
	case ChannelAnalog:
		return "Analog"
	}
	return fmt.Sprintf("ChannelType(%d)", uint8(t))
}

// PowerLevel is the transmit power of a channel.
type PowerLevel uint8

const (
	PowerHigh PowerLevel = 0
	PowerLow  PowerLevel = 1
)

func (p PowerLevel) String() string {
	if p == PowerLow {
		return "Low"
	}
	return "High"
}

// Timeslot is the TDMA slot of a digital channel. Stored value 2 is unused.
type Timeslot uint8

const (
	Slot1       Timeslot = 0
	Slot2       Timeslot = 1
	PseudoTrunk Timeslot = 3
)

func (t Timeslot) valid() bool { return t == Slot1 || t == Slot2 || t == PseudoTrunk }

func (t Timeslot) String() string {
	switch t {
	case Slot1:
		return "Slot1"
	case Slot2:
		return "Slot2"
	case PseudoTrunk:
		return "PseudoTrunk"
	}
	return fmt.Sprintf("Timeslot(%d)", uint8(t))
}

// DigitalTxAdmit is the transmit admission criterion of a digital channel.
type DigitalTxAdmit uint8

const (
	DigitalAdmitAlways     DigitalTxAdmit = 0
	DigitalAdmitChannel    DigitalTxAdmit = 1
	DigitalAdmitColourCode DigitalTxAdmit = 2
)

func (a DigitalTxAdmit) valid() bool { return a <= DigitalAdmitColourCode }

// AnalogTxAdmit is the transmit admission criterion of an analog channel.
type AnalogTxAdmit uint8

const (
	AnalogAdmitAlways         AnalogTxAdmit = 0
	AnalogAdmitChannelFree    AnalogTxAdmit = 1
	AnalogAdmitCTCSSCorrect   AnalogTxAdmit = 2
	AnalogAdmitCTCSSIncorrect AnalogTxAdmit = 3
)

func (a AnalogTxAdmit) valid() bool { return a <= AnalogAdmitCTCSSIncorrect }

// SqlMode selects what opens the analog squelch.
type SqlMode uint8

const (
	SqlCarrier SqlMode = iota
	SqlCTCSS
	SqlOptSignalling
	SqlCTCSSAndOptSig
	SqlCTCSSOrOptSig
)

func (m SqlMode) valid() bool { return m <= SqlCTCSSOrOptSig }

// ChannelChangeSqlMode picks the squelch used right after a channel change.
type ChannelChangeSqlMode uint8

const (
	ChangeSqlRx      ChannelChangeSqlMode = 0
	ChangeSqlMonitor ChannelChangeSqlMode = 1
)

func (m ChannelChangeSqlMode) valid() bool { return m <= ChangeSqlMonitor }

// CarrierSqlLevel is the carrier squelch threshold.
type CarrierSqlLevel uint8

const (
	CarrierSqlOpen   CarrierSqlLevel = 0
	CarrierSqlNormal CarrierSqlLevel = 1
	CarrierSqlTight  CarrierSqlLevel = 2
)

func (l CarrierSqlLevel) valid() bool { return l <= CarrierSqlTight }

// AutoResetMode controls when an analog channel's monitor resets.
type AutoResetMode uint8

const (
	AutoResetDisable AutoResetMode = iota
	AutoResetCarrierOverride
	AutoResetCarrierIndependent
	AutoResetManualOverride
)

func (m AutoResetMode) valid() bool { return m <= AutoResetManualOverride }

// SignallingType is the optional analog signalling system.
type SignallingType uint8

const (
	SignallingNone    SignallingType = 0
	SignallingTwoTone SignallingType = 1
)

func (s SignallingType) valid() bool { return s <= SignallingTwoTone }

// CallType is the kind of call a contact places.
type CallType uint8

const (
	CallPrivate CallType = 0x00
	CallGroup   CallType = 0x01
	CallAll     CallType = 0x11
)

func (c CallType) valid() bool { return c == CallPrivate || c == CallGroup || c == CallAll }

func (c CallType) String() string {
	switch c {
	case CallPrivate:
		return "Private"
	case CallGroup:
		return "Group"
	case CallAll:
		return "All"
	}
	return fmt.Sprintf("CallType(0x%x)", uint8(c))
}

// ScanType selects how a scan walks its list.
type ScanType uint8

const (
	ScanNormal ScanType = iota
	ScanVote
	ScanDigitalChannel
)

func (s ScanType) valid() bool { return s <= ScanDigitalChannel }

func (s ScanType) String() string {
	switch s {
	case ScanNormal:
		return "Normal"
	case ScanVote:
		return "Vote"
	case ScanDigitalChannel:
		return "DigitalChannel"
	}
	return fmt.Sprintf("ScanType(%d)", uint8(s))
}

// CTCSSScanMode selects which channels are scanned for CTCSS.
type CTCSSScanMode uint8

const (
	CTCSSScanDisabled CTCSSScanMode = iota
	CTCSSScanNonPriority
	CTCSSScanPriority
	CTCSSScanBoth
)

// ScanTxMode picks the channel a scan transmits on.
type ScanTxMode uint8

const (
	ScanTxSelected ScanTxMode = iota
	ScanTxLastActive
	ScanTxDesignated
)

func (m ScanTxMode) valid() bool { return m <= ScanTxDesignated }

func (m ScanTxMode) String() string {
	switch m {
	case ScanTxSelected:
		return "Selected"
	case ScanTxLastActive:
		return "LastActive"
	case ScanTxDesignated:
		return "Designated"
	}
	return fmt.Sprintf("ScanTxMode(%d)", uint8(m))
}
