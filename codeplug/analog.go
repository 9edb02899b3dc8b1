package codeplug

import (
	"fmt"

	"github.com/yl3im/hyrps/internal/format"
)

// AnalogChannel layout after ChannelCommon:
//
//	0x2c  rx tone       0x37  TOT pre-alert    0x3f  emergency system
//	0x2e  tx tone       0x38  TOT rekey        0x40  emergency flags
//	0x30  rx sql mode   0x39  TOT reset        0x41  scan list, index+1
//	0x31  monitor sql   0x3a  auto reset mode  0x42  scan/audio flags
//	0x32  change sql    0x3b  auto reset time  0x43  bit7 VOX
//	0x33  reserved 0    0x3c  reserved 10
//	0x34  carrier sql   0x3d  signalling
//	0x35  tx admit      0x3e  reserved 0
//	0x36  tx timeout
const (
	anRxToneOffset     = 0x2c
	anTxToneOffset     = 0x2e
	anRxSqlOffset      = 0x30
	anMonSqlOffset     = 0x31
	anChangeSqlOffset  = 0x32
	anReserved33       = 0x33
	anCarrierSqlOffset = 0x34
	anTxAdmitOffset    = 0x35
	anTimeoutOffset    = 0x36
	anPreAlertOffset   = 0x37
	anRekeyOffset      = 0x38
	anResetOffset      = 0x39
	anAutoResetOffset  = 0x3a
	anAutoTimeOffset   = 0x3b
	anReserved3C       = 0x3c
	anSignalOffset     = 0x3d
	anReserved3E       = 0x3e
	anEmergencyOffset  = 0x3f
	anEmerFlagsOffset  = 0x40
	anScanListOffset   = 0x41
	anFlagsOffset      = 0x42
	anVOXOffset        = 0x43

	anReserved3CValue = 10
)

// ToneKind is the sub-audible signalling type of a Tone.
type ToneKind uint8

const (
	ToneNone ToneKind = iota
	ToneCTCSS
	ToneCDCSS
	ToneCDCSSInvert
)

// MaxToneFreq is the widest value the 12-bit tone field holds.
const MaxToneFreq = 0xfff

// Tone is a CTCSS/CDCSS setting. Stored in two bytes: the low 8 bits of
// Freq, then the high nibble of Freq in bits 0-3 and Kind in bits 6-7.
type Tone struct {
	Kind ToneKind
	Freq uint16
}

func (t Tone) String() string {
	switch t.Kind {
	case ToneNone:
		return "<None>"
	case ToneCTCSS:
		return fmt.Sprintf("CTCSS (%d)", t.Freq)
	case ToneCDCSS:
		return fmt.Sprintf("CDCSS (%d)", t.Freq)
	case ToneCDCSSInvert:
		return fmt.Sprintf("CDCSS Invert (%d)", t.Freq)
	}
	return fmt.Sprintf("Tone(%d, %d)", t.Kind, t.Freq)
}

func (t Tone) encode(b []byte) error {
	if t.Freq > MaxToneFreq || t.Kind > ToneCDCSSInvert {
		return format.Invalid("tone", "value", t)
	}
	b[0] = byte(t.Freq)
	b[1] = byte(t.Freq>>8) | byte(t.Kind)<<6
	return nil
}

func decodeTone(b []byte) Tone {
	return Tone{
		Kind: ToneKind(b[1] >> 6),
		Freq: uint16(b[0]) | uint16(b[1]&0x0f)<<8,
	}
}

// Emergency is an analog channel's emergency system binding.
type Emergency struct {
	System          uint8
	AlarmIndication bool
	AlarmAck        bool
	CallIndication  bool
}

// AnalogChannel is a record of section 0x27.
type AnalogChannel struct {
	ChannelCommon
	RxTone        Tone
	TxTone        Tone
	RxSql         SqlMode
	MonitorSql    SqlMode
	ChangeSql     ChannelChangeSqlMode
	CarrierSql    CarrierSqlLevel
	TxAdmit       AnalogTxAdmit
	TxTimeout     uint8
	TOTPreAlert   uint8
	TOTRekey      uint8
	TOTReset      uint8
	AutoReset     AutoResetMode
	AutoResetTime uint8
	Signalling    SignallingType
	Emergency     Emergency
	ScanList      ListRef
	AutoStartScan bool
	Emphasis      bool
	Compandor     bool
	Scrambler     bool
	VOX           bool
}

// NewAnalogChannel returns an analog channel with the radio's defaults.
func NewAnalogChannel(name string, rxFreq, txFreq uint32, rxOnly bool, power PowerLevel, rxTone, txTone Tone) AnalogChannel {
	return AnalogChannel{
		ChannelCommon: ChannelCommon{
			Name:   name,
			Type:   ChannelAnalog,
			RxOnly: rxOnly,
			Power:  power,
			RxFreq: rxFreq,
			TxFreq: txFreq,
		},
		RxTone:     rxTone,
		TxTone:     txTone,
		RxSql:      SqlCarrier,
		MonitorSql: SqlCarrier,
		ChangeSql:  ChangeSqlRx,
		CarrierSql: CarrierSqlNormal,
		TxAdmit:    AnalogAdmitChannelFree,
		Emphasis:   true,
	}
}

func (a AnalogChannel) MarshalBinary() ([]byte, error) {
	const what = "analog channel"
	if a.Type != ChannelAnalog {
		return nil, format.Invalid(what, "type", a.Type)
	}
	switch {
	case !a.RxSql.valid():
		return nil, format.Invalid(what, "rx sql mode", a.RxSql)
	case !a.MonitorSql.valid():
		return nil, format.Invalid(what, "monitor sql mode", a.MonitorSql)
	case !a.ChangeSql.valid():
		return nil, format.Invalid(what, "channel change sql mode", a.ChangeSql)
	case !a.CarrierSql.valid():
		return nil, format.Invalid(what, "carrier sql level", a.CarrierSql)
	case !a.TxAdmit.valid():
		return nil, format.Invalid(what, "tx admit", a.TxAdmit)
	case !a.AutoReset.valid():
		return nil, format.Invalid(what, "auto reset mode", a.AutoReset)
	case !a.Signalling.valid():
		return nil, format.Invalid(what, "signalling", a.Signalling)
	case a.ScanList.Kind == ListRoam:
		return nil, format.Invalid(what, "scan list", a.ScanList)
	}
	scan, err := a.ScanList.stored(what)
	if err != nil {
		return nil, err
	}

	b := make([]byte, format.AnalogChannelSize)
	if err := a.ChannelCommon.encode(b); err != nil {
		return nil, err
	}
	if err := a.RxTone.encode(b[anRxToneOffset:]); err != nil {
		return nil, fmt.Errorf("%s: rx %w", what, err)
	}
	if err := a.TxTone.encode(b[anTxToneOffset:]); err != nil {
		return nil, fmt.Errorf("%s: tx %w", what, err)
	}
	b[anRxSqlOffset] = byte(a.RxSql)
	b[anMonSqlOffset] = byte(a.MonitorSql)
	b[anChangeSqlOffset] = byte(a.ChangeSql)
	b[anReserved33] = 0
	b[anCarrierSqlOffset] = byte(a.CarrierSql)
	b[anTxAdmitOffset] = byte(a.TxAdmit)
	b[anTimeoutOffset] = a.TxTimeout
	b[anPreAlertOffset] = a.TOTPreAlert
	b[anRekeyOffset] = a.TOTRekey
	b[anResetOffset] = a.TOTReset
	b[anAutoResetOffset] = byte(a.AutoReset)
	b[anAutoTimeOffset] = a.AutoResetTime
	b[anReserved3C] = anReserved3CValue
	b[anSignalOffset] = byte(a.Signalling)
	b[anReserved3E] = 0
	b[anEmergencyOffset] = a.Emergency.System
	b[anEmerFlagsOffset] = bit(a.Emergency.AlarmIndication, 0) | bit(a.Emergency.AlarmAck, 1) | bit(a.Emergency.CallIndication, 2)
	b[anScanListOffset] = scan
	b[anFlagsOffset] = bit(a.AutoStartScan, 0) | bit(a.Emphasis, 4) | bit(a.Compandor, 5) | bit(a.Scrambler, 6)
	b[anVOXOffset] = bit(a.VOX, 7)
	return b, nil
}

func (a *AnalogChannel) UnmarshalBinary(b []byte) error {
	const what = "analog channel"
	if err := format.Need(b, format.AnalogChannelSize, what); err != nil {
		return err
	}
	var common ChannelCommon
	if err := common.decode(b); err != nil {
		return err
	}
	if common.Type != ChannelAnalog {
		return format.Invalid(what, "type", common.Type)
	}
	for _, r := range []struct {
		off  int
		want byte
	}{{anReserved33, 0}, {anReserved3C, anReserved3CValue}, {anReserved3E, 0}} {
		if err := format.Reserved(what, r.off, uint32(b[r.off]), uint32(r.want)); err != nil {
			return err
		}
	}

	out := AnalogChannel{
		ChannelCommon: common,
		RxTone:        decodeTone(b[anRxToneOffset:]),
		TxTone:        decodeTone(b[anTxToneOffset:]),
		RxSql:         SqlMode(b[anRxSqlOffset]),
		MonitorSql:    SqlMode(b[anMonSqlOffset]),
		ChangeSql:     ChannelChangeSqlMode(b[anChangeSqlOffset]),
		CarrierSql:    CarrierSqlLevel(b[anCarrierSqlOffset]),
		TxAdmit:       AnalogTxAdmit(b[anTxAdmitOffset]),
		TxTimeout:     b[anTimeoutOffset],
		TOTPreAlert:   b[anPreAlertOffset],
		TOTRekey:      b[anRekeyOffset],
		TOTReset:      b[anResetOffset],
		AutoReset:     AutoResetMode(b[anAutoResetOffset]),
		AutoResetTime: b[anAutoTimeOffset],
		Signalling:    SignallingType(b[anSignalOffset]),
		Emergency: Emergency{
			System:          b[anEmergencyOffset],
			AlarmIndication: b[anEmerFlagsOffset]&0x01 != 0,
			AlarmAck:        b[anEmerFlagsOffset]&0x02 != 0,
			CallIndication:  b[anEmerFlagsOffset]&0x04 != 0,
		},
		AutoStartScan: b[anFlagsOffset]&0x01 != 0,
		Emphasis:      b[anFlagsOffset]&0x10 != 0,
		Compandor:     b[anFlagsOffset]&0x20 != 0,
		Scrambler:     b[anFlagsOffset]&0x40 != 0,
		VOX:           b[anVOXOffset]&0x80 != 0,
	}
	switch {
	case !out.RxSql.valid():
		return format.Invalid(what, "rx sql mode", out.RxSql)
	case !out.MonitorSql.valid():
		return format.Invalid(what, "monitor sql mode", out.MonitorSql)
	case !out.ChangeSql.valid():
		return format.Invalid(what, "channel change sql mode", out.ChangeSql)
	case !out.CarrierSql.valid():
		return format.Invalid(what, "carrier sql level", out.CarrierSql)
	case !out.TxAdmit.valid():
		return format.Invalid(what, "tx admit", out.TxAdmit)
	case !out.AutoReset.valid():
		return format.Invalid(what, "auto reset mode", out.AutoReset)
	case !out.Signalling.valid():
		return format.Invalid(what, "signalling", out.Signalling)
	}
	if s := b[anScanListOffset]; s != 0 {
		out.ScanList = ScanListAt(s - 1)
	}
	*a = out
	return nil
}

func (a AnalogChannel) verify(cp *Codeplug) error {
	if a.ScanList.Kind == ListScan {
		if n := cp.Scans.Len(); int(a.ScanList.Index) >= n {
			return danglingList("scan list", a.ScanList.Index, n)
		}
	}
	return nil
}

func bit(v bool, n uint) byte {
	if v {
		return 1 << n
	}
	return 0
}
