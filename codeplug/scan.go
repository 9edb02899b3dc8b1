package codeplug

import (
	"fmt"

	"github.com/yl3im/hyrps/codeplug/pointer"
	"github.com/yl3im/hyrps/codeplug/verify"
	"github.com/yl3im/hyrps/internal/format"
)

// Scan layout:
//
//	0x00  name[32]
//	0x20  u16  bits0-1 scan type, bits2-3 CTCSS scan mode, bits6-7 tx mode
//	0x22  wide pointer, designated tx channel
//	0x26  [11] timing parameters, kept
const (
	scFlagsOffset   = 0x20
	scPointerOffset = 0x22
	scTailOffset    = 0x26
	scTailSize      = format.ScanSize - scTailOffset
)

// DefaultScanTail is what the programming software writes for the timing
// parameters of a new scan.
var DefaultScanTail = [scTailSize]byte{0x00, 0x00, 0x05, 0x00, 0x00, 0x00, 0x05, 0x08, 0x06, 0x14, 0x06}

// Scan is a record of section 0x6d. Its channels live in the ScanList at
// the same position.
type Scan struct {
	Name         string
	Type         ScanType
	CTCSSMode    CTCSSScanMode
	TxMode       ScanTxMode
	DesignatedTx pointer.Channel
	Tail         [scTailSize]byte
}

// NewScan returns a normal scan transmitting on the selected channel.
func NewScan(name string) Scan {
	return Scan{
		Name:         name,
		Type:         ScanNormal,
		CTCSSMode:    CTCSSScanDisabled,
		TxMode:       ScanTxSelected,
		DesignatedTx: pointer.ToDigital(0),
		Tail:         DefaultScanTail,
	}
}

func (s Scan) MarshalBinary() ([]byte, error) {
	switch {
	case !s.Type.valid():
		return nil, format.Invalid("scan", "type", s.Type)
	case s.CTCSSMode > CTCSSScanBoth:
		return nil, format.Invalid("scan", "ctcss mode", s.CTCSSMode)
	case !s.TxMode.valid():
		return nil, format.Invalid("scan", "tx mode", s.TxMode)
	}
	ptr, err := s.DesignatedTx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("scan: designated tx: %w", err)
	}
	b := make([]byte, format.ScanSize)
	if err := format.EncodeName(b, s.Name); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	format.PutU16(b, scFlagsOffset, uint16(s.Type)|uint16(s.CTCSSMode)<<2|uint16(s.TxMode)<<6)
	copy(b[scPointerOffset:], ptr)
	copy(b[scTailOffset:], s.Tail[:])
	return b, nil
}

func (s *Scan) UnmarshalBinary(b []byte) error {
	if err := format.Need(b, format.ScanSize, "scan"); err != nil {
		return err
	}
	name, err := format.DecodeName(b)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	flags := format.ReadU16(b, scFlagsOffset)
	out := Scan{
		Name:      name,
		Type:      ScanType(flags & 0x3),
		CTCSSMode: CTCSSScanMode((flags >> 2) & 0x3),
		TxMode:    ScanTxMode((flags >> 6) & 0x3),
	}
	if !out.Type.valid() {
		return format.Invalid("scan", "type", out.Type)
	}
	if !out.TxMode.valid() {
		return format.Invalid("scan", "tx mode", out.TxMode)
	}
	if err := out.DesignatedTx.UnmarshalBinary(b[scPointerOffset:]); err != nil {
		return fmt.Errorf("scan: designated tx: %w", err)
	}
	copy(out.Tail[:], b[scTailOffset:format.ScanSize])
	*s = out
	return nil
}

func (s Scan) verify(cp *Codeplug) error {
	if s.TxMode != ScanTxDesignated {
		return nil
	}
	return s.DesignatedTx.Verify(cp)
}

// ScanList is a record of section 0x4d. The first entry is always the
// selected channel.
type ScanList struct {
	Channels []pointer.Channel
	Unk      uint16
}

// NewScanList returns a list of Selected followed by channels.
func NewScanList(channels ...pointer.Channel) ScanList {
	return ScanList{Channels: append([]pointer.Channel{pointer.Selected}, channels...)}
}

func (l ScanList) MarshalBinary() ([]byte, error) {
	return marshalList(l.Channels, format.ScanListRegion, l.Unk)
}

func (l *ScanList) UnmarshalBinary(b []byte) error {
	chans, unk, err := unmarshalList[pointer.Channel](b, format.ScanListRegion, "scan list")
	if err != nil {
		return err
	}
	*l = ScanList{Channels: chans, Unk: unk}
	return nil
}

func (l ScanList) verify(cp *Codeplug) error {
	if len(l.Channels) == 0 || l.Channels[0] != pointer.Selected {
		return &verify.Error{Kind: verify.ListShape, Index: -1, Message: "first channel of scan list is not <Selected>"}
	}
	return verifyPointers(cp, l.Channels)
}
