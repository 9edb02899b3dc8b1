package codeplug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yl3im/hyrps/codeplug/pointer"
	"github.com/yl3im/hyrps/codeplug/section"
	"github.com/yl3im/hyrps/codeplug/verify"
	"github.com/yl3im/hyrps/internal/format"
	"github.com/yl3im/hyrps/internal/image"
)

var testCapacities = Capacities{Contacts: 8, Digital: 8, Analog: 8, Zones: 4, Scans: 4, Roams: 4}

func newBlank(t testing.TB, model string) (*Codeplug, *image.Buffer) {
	t.Helper()
	cp, img, err := NewBlank(model, testCapacities)
	require.NoError(t, err)
	return cp, img
}

// reload writes cp to img and decodes the result from a copy.
func reload(t *testing.T, cp *Codeplug, img *image.Buffer) *Codeplug {
	t.Helper()
	require.NoError(t, cp.Write(img))
	got, err := Read(image.Clone(img.Bytes()))
	require.NoError(t, err)
	return got
}

func TestBlank_Empty(t *testing.T) {
	cp, _ := newBlank(t, "TEST")
	assert.Equal(t, "TEST", cp.Model())
	assert.Equal(t, Portable, cp.DeviceType())
	for _, n := range []int{cp.Contacts.Len(), cp.Digital.Len(), cp.Analog.Len(), cp.Zones.Len(), cp.Scans.Len(), cp.Roams.Len()} {
		assert.Zero(t, n)
	}
	require.NoError(t, cp.Verify())
}

func TestDeviceType(t *testing.T) {
	cp, _ := newBlank(t, "m-radio")
	assert.Equal(t, Mobile, cp.DeviceType())
	assert.Equal(t, "mobile", cp.DeviceType().String())

	cp, _ = newBlank(t, "Mradio")
	assert.Equal(t, Portable, cp.DeviceType())
}

func TestMinimalRoundTrip(t *testing.T) {
	cp, img := newBlank(t, "TEST")
	n, err := cp.AddContact(NewContact("TEST", CallGroup, 100))
	require.NoError(t, err)
	assert.Zero(t, n)

	got := reload(t, cp, img)
	require.Equal(t, 1, got.Contacts.Len())
	assert.Equal(t, Contact{Name: "TEST", CallType: CallGroup, IsRef: true, ID: 100}, *got.Contacts.At(0))
	assert.Equal(t, uint16(1), got.Contacts.Section().Header.InUse)
}

func populate(t *testing.T, cp *Codeplug) {
	t.Helper()
	_, err := cp.AddContact(NewContact("TG 91", CallGroup, 91))
	require.NoError(t, err)
	_, err = cp.AddContact(NewContact("Local", CallGroup, 9))
	require.NoError(t, err)

	d1, err := cp.AddDigitalChannel(NewDigitalChannel("DMR A", 438_500_000, 431_100_000, false, PowerHigh, 1, ContactAt(1), Slot2))
	require.NoError(t, err)
	dch := NewDigitalChannel("DMR B", 433_450_000, 433_450_000, true, PowerLow, 3, ContactAt(0), Slot1)
	dch.List = RoamListAt(0)
	d2, err := cp.AddDigitalChannel(dch)
	require.NoError(t, err)

	ach := NewAnalogChannel("FM", 145_500_000, 145_500_000, false, PowerHigh, Tone{}, Tone{Kind: ToneCTCSS, Freq: 885})
	ach.ScanList = ScanListAt(0)
	a1, err := cp.AddAnalogChannel(ach)
	require.NoError(t, err)

	_, err = cp.AddZone("Home", []pointer.Channel{d1, d2, a1})
	require.NoError(t, err)

	scan := NewScan("All")
	scan.TxMode = ScanTxDesignated
	scan.DesignatedTx = a1
	_, err = cp.AddScan(scan, NewScanList(d1, a1))
	require.NoError(t, err)

	n1, err := d1.Narrow()
	require.NoError(t, err)
	n2, err := d2.Narrow()
	require.NoError(t, err)
	_, err = cp.AddRoam(NewRoam("Roam"), NewRoamList(n1, n2))
	require.NoError(t, err)
}

func TestFullRoundTrip(t *testing.T) {
	cp, img := newBlank(t, "TEST")
	populate(t, cp)
	require.NoError(t, cp.Verify())

	got := reload(t, cp, img)
	assert.Equal(t, cp.Contacts.All(), got.Contacts.All())
	assert.Equal(t, cp.Digital.All(), got.Digital.All())
	assert.Equal(t, cp.Analog.All(), got.Analog.All())
	assert.Equal(t, cp.Zones.Records.All(), got.Zones.Records.All())
	assert.Equal(t, cp.Zones.Lists.All(), got.Zones.Lists.All())
	assert.Equal(t, cp.Scans.Records.All(), got.Scans.Records.All())
	assert.Equal(t, cp.Scans.Lists.All(), got.Scans.Lists.All())
	assert.Equal(t, cp.Roams.Records.All(), got.Roams.Records.All())
	assert.Equal(t, cp.Roams.Lists.All(), got.Roams.Lists.All())
	require.NoError(t, got.Verify())

	// A second write of an unchanged codeplug is byte-identical.
	again := image.Clone(img.Bytes())
	require.NoError(t, got.Write(again))
	assert.True(t, bytes.Equal(img.Bytes(), again.Bytes()))
}

func TestWrite_KeepsAddressesAndSize(t *testing.T) {
	cp, img := newBlank(t, "TEST")
	before := img.Len()
	addrs := map[uint16]int64{}
	for id, s := range cp.Directory {
		addrs[id] = s.Addr
	}
	populate(t, cp)
	got := reload(t, cp, img)

	assert.Equal(t, before, img.Len())
	for id, s := range got.Directory {
		assert.Equal(t, addrs[id], s.Addr, "section 0x%x", id)
	}
}

func TestWrite_DanglingPointerFailsClosed(t *testing.T) {
	cp, img := newBlank(t, "TEST")
	_, err := cp.AddZone("Z", []pointer.Channel{pointer.ToDigital(5)})
	require.NoError(t, err)

	snapshot := append([]byte(nil), img.Bytes()...)
	err = cp.Write(img)
	require.Error(t, err)
	assert.True(t, verify.IsKind(err, verify.DanglingReference))
	assert.Equal(t, snapshot, img.Bytes(), "sink must be untouched")

	ve, ok := verify.AsError(err)
	require.True(t, ok)
	assert.Equal(t, NameZoneLists, ve.Collection)
	assert.Equal(t, 0, ve.Index)
	assert.Equal(t, 0, ve.Details["entry"])
	assert.Equal(t, 5, ve.Details["index"])
}

func TestVerify_References(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*testing.T, *Codeplug)
		kind       verify.Kind
		collection string
	}{
		{
			name: "digital contact",
			setup: func(t *testing.T, cp *Codeplug) {
				_, err := cp.AddDigitalChannel(NewDigitalChannel("D", 1, 1, false, PowerHigh, 0, ContactAt(0), Slot1))
				require.NoError(t, err)
			},
			kind:       verify.DanglingReference,
			collection: NameDigital,
		},
		{
			name: "digital roam list",
			setup: func(t *testing.T, cp *Codeplug) {
				d := NewDigitalChannel("D", 1, 1, false, PowerHigh, 0, NoContact, Slot1)
				d.List = RoamListAt(0)
				_, err := cp.AddDigitalChannel(d)
				require.NoError(t, err)
			},
			kind:       verify.DanglingReference,
			collection: NameDigital,
		},
		{
			name: "analog scan list",
			setup: func(t *testing.T, cp *Codeplug) {
				a := NewAnalogChannel("A", 1, 1, false, PowerHigh, Tone{}, Tone{})
				a.ScanList = ScanListAt(2)
				_, err := cp.AddAnalogChannel(a)
				require.NoError(t, err)
			},
			kind:       verify.DanglingReference,
			collection: NameAnalog,
		},
		{
			name: "scan designated tx",
			setup: func(t *testing.T, cp *Codeplug) {
				s := NewScan("S")
				s.TxMode = ScanTxDesignated
				_, err := cp.AddScan(s, NewScanList())
				require.NoError(t, err)
			},
			kind:       verify.DanglingReference,
			collection: NameScans,
		},
		{
			name: "scan list not starting with selected",
			setup: func(t *testing.T, cp *Codeplug) {
				p, err := cp.AddDigitalChannel(NewDigitalChannel("D", 1, 1, false, PowerHigh, 0, NoContact, Slot1))
				require.NoError(t, err)
				_, err = cp.AddScan(NewScan("S"), ScanList{Channels: []pointer.Channel{p}})
				require.NoError(t, err)
			},
			kind:       verify.ListShape,
			collection: NameScanLists,
		},
		{
			name: "roam list not starting with selected",
			setup: func(t *testing.T, cp *Codeplug) {
				_, err := cp.AddDigitalChannel(NewDigitalChannel("D", 1, 1, false, PowerHigh, 0, NoContact, Slot1))
				require.NoError(t, err)
				_, err = cp.AddRoam(NewRoam("R"), RoamList{Channels: []pointer.Digital{pointer.DigitalAt(0)}})
				require.NoError(t, err)
			},
			kind:       verify.ListShape,
			collection: NameRoamLists,
		},
		{
			name: "roam list dangling",
			setup: func(t *testing.T, cp *Codeplug) {
				_, err := cp.AddRoam(NewRoam("R"), NewRoamList(pointer.DigitalAt(3)))
				require.NoError(t, err)
			},
			kind:       verify.DanglingReference,
			collection: NameRoamLists,
		},
		{
			name: "empty zone list",
			setup: func(t *testing.T, cp *Codeplug) {
				_, err := cp.Zones.Insert(Zone{Name: "Z"}, ZoneList{})
				require.NoError(t, err)
			},
			kind:       verify.ListShape,
			collection: NameZoneLists,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp, _ := newBlank(t, "TEST")
			tt.setup(t, cp)
			err := cp.Verify()
			require.Error(t, err)
			ve, ok := verify.AsError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.kind, ve.Kind)
			assert.Equal(t, tt.collection, ve.Collection)
			assert.Equal(t, 0, ve.Index)
		})
	}
}

func TestVerify_ScanSelectedTxIgnoresPointer(t *testing.T) {
	cp, _ := newBlank(t, "TEST")
	s := NewScan("S")
	s.DesignatedTx = pointer.ToAnalog(7)
	_, err := cp.AddScan(s, NewScanList())
	require.NoError(t, err)
	require.NoError(t, cp.Verify())
}

func TestPaired_Mismatch(t *testing.T) {
	cp, img := newBlank(t, "TEST")
	p, err := cp.AddDigitalChannel(NewDigitalChannel("D", 1, 1, false, PowerHigh, 0, NoContact, Slot1))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := cp.Zones.Records.Insert(Zone{Name: "Z", Channels: 1})
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := cp.Zones.Lists.Insert(ZoneList{Channels: []pointer.Channel{p}})
		require.NoError(t, err)
	}

	err = cp.Verify()
	assert.True(t, verify.IsKind(err, verify.PairMismatch), "got %v", err)

	snapshot := append([]byte(nil), img.Bytes()...)
	require.Error(t, cp.Write(img))
	assert.Equal(t, snapshot, img.Bytes())

	_, err = cp.AddZone("Z", []pointer.Channel{p})
	require.ErrorIs(t, err, ErrPairMismatch)
	require.ErrorIs(t, cp.Zones.Write(img), ErrPairMismatch)
}

func TestInsert_Capacity(t *testing.T) {
	cp, _ := newBlank(t, "TEST")
	for i := 0; i < int(testCapacities.Contacts)-1; i++ {
		_, err := cp.AddContact(NewContact("C", CallPrivate, uint32(i)))
		require.NoError(t, err)
	}
	assert.Zero(t, cp.Contacts.Free())

	_, err := cp.AddContact(NewContact("over", CallPrivate, 99))
	require.ErrorIs(t, err, ErrCapacity)
	assert.Equal(t, int(testCapacities.Contacts)-1, cp.Contacts.Len())
	assert.Equal(t, testCapacities.Contacts-1, cp.Contacts.Section().Header.InUse)
}

func TestPairedInsert_NoPartialInsert(t *testing.T) {
	cp, _ := newBlank(t, "TEST")
	p, err := cp.AddAnalogChannel(NewAnalogChannel("A", 1, 1, false, PowerHigh, Tone{}, Tone{}))
	require.NoError(t, err)
	for i := 0; i < int(testCapacities.Zones)-1; i++ {
		_, err := cp.AddZone("Z", []pointer.Channel{p})
		require.NoError(t, err)
	}
	_, err = cp.AddZone("full", []pointer.Channel{p})
	require.ErrorIs(t, err, ErrCapacity)
	assert.Equal(t, cp.Zones.Records.Len(), cp.Zones.Lists.Len())
	require.NoError(t, cp.Verify())
}

func TestClear(t *testing.T) {
	cp, img := newBlank(t, "TEST")
	populate(t, cp)
	require.NoError(t, cp.Write(img))

	cp.Clear()
	got := reload(t, cp, img)
	for _, n := range []int{got.Contacts.Len(), got.Digital.Len(), got.Analog.Len(), got.Zones.Len(), got.Scans.Len(), got.Roams.Len()} {
		assert.Zero(t, n)
	}
}

func TestRead_ContactSlotTranslation(t *testing.T) {
	cp, img := newBlank(t, "TEST")
	_, err := cp.AddContact(NewContact("A", CallGroup, 1))
	require.NoError(t, err)
	_, err = cp.AddContact(NewContact("B", CallGroup, 2))
	require.NoError(t, err)
	_, err = cp.AddDigitalChannel(NewDigitalChannel("D", 1, 1, false, PowerHigh, 0, ContactAt(1), Slot1))
	require.NoError(t, err)
	require.NoError(t, cp.Write(img))

	// Swap the first two mapping entries: position 0 now holds slot 1.
	sec := cp.Contacts.Section()
	stride, err := sec.ElementSize()
	require.NoError(t, err)
	raw := img.Bytes()
	mapAt := int(sec.Addr) + format.SectionHeaderSize + int(sec.Header.ByteSize)
	format.PutU16(raw, mapAt, 1)
	format.PutU32(raw, mapAt+2, uint32(stride))
	format.PutU16(raw, mapAt+format.MappingSize, 0)
	format.PutU32(raw, mapAt+format.MappingSize+2, 0)

	got, err := Read(image.New(raw))
	require.NoError(t, err)
	assert.Equal(t, "B", got.Contacts.At(0).Name)
	assert.Equal(t, "A", got.Contacts.At(1).Name)
	assert.Equal(t, ContactAt(0), got.Digital.At(0).TxContact)
	require.NoError(t, got.Verify())
}

func TestRead_ContactSlotNotInUse(t *testing.T) {
	cp, img := newBlank(t, "TEST")
	_, err := cp.AddContact(NewContact("A", CallGroup, 1))
	require.NoError(t, err)
	_, err = cp.AddDigitalChannel(NewDigitalChannel("D", 1, 1, false, PowerHigh, 0, ContactAt(0), Slot1))
	require.NoError(t, err)
	require.NoError(t, cp.Write(img))

	// Point the channel at slot 4, which is past the in-use count.
	dsec := cp.Digital.Section()
	format.PutU16(img.Bytes(), int(dsec.Addr)+format.SectionHeaderSize+dgContactOffset, 5)

	got, err := Read(image.Clone(img.Bytes()))
	require.NoError(t, err)
	assert.True(t, verify.IsKind(got.Verify(), verify.DanglingReference))
}

// readWithContactSlot builds an image whose contact slots are stride bytes
// wide and decodes it.
func readWithContactSlot(t *testing.T, stride int) (*Codeplug, *image.Buffer) {
	t.Helper()
	specs := testCapacities.specs()
	for i := range specs {
		if specs[i].Type == format.SectionContacts {
			specs[i].ElementSize = stride
		}
	}
	raw, err := section.Builder{Model: "TEST", Sections: specs}.Build()
	require.NoError(t, err)
	img := image.New(raw)
	cp, err := Read(img)
	require.NoError(t, err)
	return cp, img
}

func TestWrite_PadsShortRecords(t *testing.T) {
	const stride = 0x40
	cp, img := readWithContactSlot(t, stride)
	_, err := cp.AddContact(NewContact("A", CallGroup, 1))
	require.NoError(t, err)
	_, err = cp.AddContact(NewContact("B", CallPrivate, 2))
	require.NoError(t, err)

	got := reload(t, cp, img)
	require.Equal(t, 2, got.Contacts.Len())
	assert.Equal(t, *cp.Contacts.At(0), *got.Contacts.At(0))
	assert.Equal(t, *cp.Contacts.At(1), *got.Contacts.At(1))

	sec := got.Contacts.Section()
	assert.Equal(t, section.Synthetic(int(sec.Header.Capacity), stride), sec.Mappings)
	slot := img.Bytes()[int(sec.Addr)+format.SectionHeaderSize:]
	assert.Equal(t, make([]byte, stride-format.ContactSize), slot[format.ContactSize:stride])
}

func TestWrite_RecordWiderThanSlot(t *testing.T) {
	cp, img := readWithContactSlot(t, format.ContactSize-4)
	_, err := cp.AddContact(NewContact("A", CallGroup, 1))
	require.NoError(t, err)

	before := append([]byte(nil), img.Bytes()...)
	err = cp.Write(img)
	require.ErrorIs(t, err, section.ErrLayout)
	var re *RecordError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, uint16(format.SectionContacts), re.Section)
	assert.Equal(t, 0, re.Index)
	assert.Equal(t, before, img.Bytes())
}

func TestRead_Errors(t *testing.T) {
	raw, err := section.Builder{
		Model:    "TEST",
		Sections: []section.Spec{{Type: format.SectionContacts, Capacity: 4, ElementSize: format.ContactSize}},
	}.Build()
	require.NoError(t, err)
	_, err = Read(image.New(raw))
	require.ErrorIs(t, err, section.ErrNotFound)

	cp, img := newBlank(t, "TEST")
	_, err = cp.AddContact(NewContact("A", CallGroup, 1))
	require.NoError(t, err)
	require.NoError(t, cp.Write(img))
	csec := cp.Contacts.Section()
	img.Bytes()[int(csec.Addr)+format.SectionHeaderSize+0x24] = 0x05

	_, err = Read(image.Clone(img.Bytes()))
	require.ErrorIs(t, err, format.ErrInvalidData)
	var re *RecordError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, uint16(format.SectionContacts), re.Section)
	assert.Equal(t, 0, re.Index)
}

func FuzzRead(f *testing.F) {
	cp, img := newBlank(f, "TEST")
	f.Add(append([]byte(nil), img.Bytes()...))
	_, err := cp.AddContact(NewContact("A", CallGroup, 1))
	require.NoError(f, err)
	require.NoError(f, cp.Write(img))
	f.Add(img.Bytes())

	f.Fuzz(func(t *testing.T, data []byte) {
		cp, err := Read(image.Clone(data))
		if err != nil {
			return
		}
		_ = cp.Verify()
	})
}
