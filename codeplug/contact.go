package codeplug

import (
	"fmt"

	"github.com/yl3im/hyrps/internal/format"
)

// Contact layout:
//
//	0x00  u16  unknown, kept
//	0x02  u16  unknown, kept
//	0x04  name[32]
//	0x24  u8   call type
//	0x25  u8   is reference
//	0x26  u16  reserved 0
//	0x28  u32  DMR id
//	0x2c  u32  reserved 0
const (
	ctUnk1Offset     = 0x00
	ctUnk2Offset     = 0x02
	ctNameOffset     = 0x04
	ctCallTypeOffset = 0x24
	ctIsRefOffset    = 0x25
	ctReserved26     = 0x26
	ctIDOffset       = 0x28
	ctReserved2C     = 0x2c
)

// Contact is a record of section 0x2a.
type Contact struct {
	Unk1     uint16
	Unk2     uint16
	Name     string
	CallType CallType
	IsRef    bool
	ID       uint32
}

// NewContact returns a referenced contact.
func NewContact(name string, callType CallType, id uint32) Contact {
	return Contact{Name: name, CallType: callType, IsRef: true, ID: id}
}

func (c Contact) MarshalBinary() ([]byte, error) {
	if !c.CallType.valid() {
		return nil, format.Invalid("contact", "call type", c.CallType)
	}
	b := make([]byte, format.ContactSize)
	if err := format.EncodeName(b[ctNameOffset:], c.Name); err != nil {
		return nil, fmt.Errorf("contact: %w", err)
	}
	format.PutU16(b, ctUnk1Offset, c.Unk1)
	format.PutU16(b, ctUnk2Offset, c.Unk2)
	b[ctCallTypeOffset] = byte(c.CallType)
	b[ctIsRefOffset] = bit(c.IsRef, 0)
	format.PutU32(b, ctIDOffset, c.ID)
	return b, nil
}

func (c *Contact) UnmarshalBinary(b []byte) error {
	if err := format.Need(b, format.ContactSize, "contact"); err != nil {
		return err
	}
	name, err := format.DecodeName(b[ctNameOffset:])
	if err != nil {
		return fmt.Errorf("contact: %w", err)
	}
	ct := CallType(b[ctCallTypeOffset])
	if !ct.valid() {
		return format.Invalid("contact", "call type", b[ctCallTypeOffset])
	}
	if err := format.Reserved("contact", ctReserved26, uint32(format.ReadU16(b, ctReserved26)), 0); err != nil {
		return err
	}
	if err := format.Reserved("contact", ctReserved2C, format.ReadU32(b, ctReserved2C), 0); err != nil {
		return err
	}
	*c = Contact{
		Unk1:     format.ReadU16(b, ctUnk1Offset),
		Unk2:     format.ReadU16(b, ctUnk2Offset),
		Name:     name,
		CallType: ct,
		IsRef:    b[ctIsRefOffset] != 0,
		ID:       format.ReadU32(b, ctIDOffset),
	}
	return nil
}
