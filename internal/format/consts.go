// Package format houses the low-level layout of the codeplug image: fixed
// offsets, section type identifiers, record sizes and the primitive codecs
// (little-endian integers, UTF-16 names) shared by the record decoders. It is
// kept independent from the public API so higher-level packages can
// orchestrate the data in a more ergonomic form.
package format

// Image header.
//
// The first bytes of the image are vendor metadata the codec does not touch,
// except for the model string and the directory anchor:
//
//	0x03c  model string, ASCII, zero padded to 27 bytes
//	0x38e  u32 LE absolute end address of the section directory
//	0x392  first section header
const (
	ModelOffset = 0x3c
	ModelSize   = 27

	DirectoryAnchorOffset = 0x38e
	DirectoryStart        = DirectoryAnchorOffset + 4

	// MaxImageSize is the size of the radio's codeplug memory. No section
	// region can be larger than the image itself.
	MaxImageSize = 0x1A5B00
)

// Section header layout (22 bytes, little-endian):
//
//	0x00  u16  type id
//	0x02  u16  capacity (low 12 bits) | flags (high 4 bits)
//	0x04  u16  elements in use
//	0x06  u32  magic, always 0x20
//	0x0a  u32  opaque, reproduced verbatim
//	0x0e  u32  region size in bytes
//	0x12  u32  region size + header size
const (
	SectionHeaderSize = 0x16

	SectionTypeOffset     = 0x00
	SectionCapacityOffset = 0x02
	SectionInUseOffset    = 0x04
	SectionMagicOffset    = 0x06
	SectionOpaqueOffset   = 0x0a
	SectionSizeOffset     = 0x0e
	SectionCheckOffset    = 0x12

	SectionMagic = 0x20

	CapacityMask  = 0x0fff
	CapacityShift = 12
	MaxCapacity   = CapacityMask
	MaxFlags      = 0xf
)

// Mapping entries follow the region: u16 index, u32 offset into the region.
const (
	MappingSize         = 6
	MappingIndexOffset  = 0
	MappingOffsetOffset = 2
)

// Section type identifiers.
const (
	SectionZoneLists    = 0x23
	SectionZones        = 0x24
	SectionDigital      = 0x26
	SectionAnalog       = 0x27
	SectionContacts     = 0x2a
	SectionScanLists    = 0x4d
	SectionScans        = 0x6d
	SectionRoamLists    = 0x79
	SectionRoams        = 0x7a
)

// Names are 16 UTF-16LE code units, zero padded.
const (
	NameSize  = 0x20
	NameUnits = NameSize / 2
)

// Encoded record sizes. A section's element size may be larger; the
// remainder of each slot is zero padded on write.
const (
	ChannelCommonSize  = 0x2c
	AnalogChannelSize  = 0x44
	DigitalChannelSize = 0x4a
	ContactSize        = 0x30
	ZoneSize           = 0x28
	ScanSize           = 0x31
	RoamSize           = 0x28
)

// Channel pointer sub-container (zone, scan and roam lists):
//
//	0x00  u16  unknown, reproduced
//	0x02  u16  capacity in pointers
//	0x04  u16  pointers in use
//	0x06  u32  region size
//	0x0a  u32  mapping table offset, region size + header size
//	0x0e  region, then `count` mapping entries
const (
	ListHeaderSize          = 0x0e
	ListUnkOffset           = 0x00
	ListCapacityOffset      = 0x02
	ListCountOffset         = 0x04
	ListRegionSizeOffset    = 0x06
	ListMappingOffsetOffset = 0x0a

	ZoneListRegion = 0x800
	ScanListRegion = 0x80
	RoamListRegion = 0x40
)

// Pointer encodings.
const (
	WidePointerSize   = 4
	NarrowPointerSize = 2

	// PointerSelected is the stored index meaning "the currently selected
	// channel". Stored indices are otherwise position+1.
	PointerSelected = 0xffff
)
