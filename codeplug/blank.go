package codeplug

import (
	"fmt"

	"github.com/yl3im/hyrps/codeplug/section"
	"github.com/yl3im/hyrps/internal/format"
	"github.com/yl3im/hyrps/internal/image"
)

// Capacities sizes the sections of a blank image. Paired collections share
// one capacity. Record slots are exactly as wide as the encoded records.
type Capacities struct {
	Contacts uint16
	Digital  uint16
	Analog   uint16
	Zones    uint16
	Scans    uint16
	Roams    uint16
}

// DefaultCapacities is a small layout suitable for tests and tooling.
var DefaultCapacities = Capacities{
	Contacts: 1024,
	Digital:  1024,
	Analog:   1024,
	Zones:    64,
	Scans:    64,
	Roams:    32,
}

// listSlot is the largest encoded size of a pointer list with the given
// region.
func listSlot(region, stride int) int {
	return format.ListHeaderSize + region + region/stride*format.MappingSize
}

func (c Capacities) specs() []section.Spec {
	return []section.Spec{
		{Type: format.SectionZoneLists, Capacity: c.Zones, ElementSize: listSlot(format.ZoneListRegion, format.WidePointerSize)},
		{Type: format.SectionZones, Capacity: c.Zones, ElementSize: format.ZoneSize},
		{Type: format.SectionDigital, Capacity: c.Digital, ElementSize: format.DigitalChannelSize},
		{Type: format.SectionAnalog, Capacity: c.Analog, ElementSize: format.AnalogChannelSize},
		{Type: format.SectionContacts, Capacity: c.Contacts, ElementSize: format.ContactSize},
		{Type: format.SectionScanLists, Capacity: c.Scans, ElementSize: listSlot(format.ScanListRegion, format.WidePointerSize)},
		{Type: format.SectionScans, Capacity: c.Scans, ElementSize: format.ScanSize},
		{Type: format.SectionRoamLists, Capacity: c.Roams, ElementSize: listSlot(format.RoamListRegion, format.NarrowPointerSize)},
		{Type: format.SectionRoams, Capacity: c.Roams, ElementSize: format.RoamSize},
	}
}

// NewBlank builds an empty image for model and decodes it. The returned
// buffer is the image the codeplug writes back to.
func NewBlank(model string, caps Capacities) (*Codeplug, *image.Buffer, error) {
	raw, err := section.Builder{Model: model, Sections: caps.specs()}.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("codeplug: blank image: %w", err)
	}
	img := image.New(raw)
	cp, err := Read(img)
	if err != nil {
		return nil, nil, err
	}
	return cp, img, nil
}
