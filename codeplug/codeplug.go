// Package codeplug decodes, edits and re-encodes the codeplug image of a
// family of DMR radios.
//
// A Codeplug is read once from an image, edited through insert-only
// collections, verified and written back in place: every section keeps its
// original address, capacity and size, only its records, in-use count and
// mapping table change.
//
//	img, _ := mmfile.Load("radio.bin")
//	cp, err := codeplug.Read(img)
//	...
//	cp.AddContact(codeplug.NewContact("TG 91", codeplug.CallGroup, 91))
//	err = cp.Write(img)
package codeplug

import (
	"fmt"
	"io"
	"strings"

	"github.com/yl3im/hyrps/codeplug/pointer"
	"github.com/yl3im/hyrps/codeplug/section"
	"github.com/yl3im/hyrps/internal/format"
	"github.com/yl3im/hyrps/internal/logger"
)

// DeviceType is the radio's form factor, derived from its model string.
type DeviceType uint8

const (
	Portable DeviceType = iota
	Mobile
)

func (d DeviceType) String() string {
	if d == Mobile {
		return "mobile"
	}
	return "portable"
}

// Collection names, used in errors and printed output.
const (
	NameContacts  = "contacts"
	NameDigital   = "digital channels"
	NameAnalog    = "analog channels"
	NameZones     = "zones"
	NameZoneLists = "zone lists"
	NameScans     = "scans"
	NameScanLists = "scan lists"
	NameRoams     = "roams"
	NameRoamLists = "roam lists"
)

var sectionNames = map[uint16]string{
	format.SectionContacts:  NameContacts,
	format.SectionDigital:   NameDigital,
	format.SectionAnalog:    NameAnalog,
	format.SectionZones:     NameZones,
	format.SectionZoneLists: NameZoneLists,
	format.SectionScans:     NameScans,
	format.SectionScanLists: NameScanLists,
	format.SectionRoams:     NameRoams,
	format.SectionRoamLists: NameRoamLists,
}

// SectionName returns the collection stored in section id, or "" for
// sections the codec does not decode.
func SectionName(id uint16) string { return sectionNames[id] }

// Codeplug is a decoded image.
type Codeplug struct {
	Contacts *Collection[Contact]
	Digital  *Collection[DigitalChannel]
	Analog   *Collection[AnalogChannel]
	Zones    *PairedCollection[Zone, ZoneList]
	Scans    *PairedCollection[Scan, ScanList]
	Roams    *PairedCollection[Roam, RoamList]

	Directory section.Directory
	model     string
}

// Read decodes the model string, the section directory and every
// collection from r.
func Read(r io.ReadSeeker) (*Codeplug, error) {
	model, err := section.ReadModel(r)
	if err != nil {
		return nil, err
	}
	dir, err := section.Load(r)
	if err != nil {
		return nil, err
	}
	return fromDirectory(model, dir)
}

func fromDirectory(model string, dir section.Directory) (*Codeplug, error) {
	cp := &Codeplug{Directory: dir, model: model}
	var err error
	if cp.Contacts, err = fetch[Contact](dir, format.SectionContacts, NameContacts); err != nil {
		return nil, err
	}
	if cp.Digital, err = fetch[DigitalChannel](dir, format.SectionDigital, NameDigital); err != nil {
		return nil, err
	}
	if cp.Analog, err = fetch[AnalogChannel](dir, format.SectionAnalog, NameAnalog); err != nil {
		return nil, err
	}
	if cp.Zones, err = fetchPaired[Zone, ZoneList](dir, NameZones,
		format.SectionZones, NameZones, format.SectionZoneLists, NameZoneLists); err != nil {
		return nil, err
	}
	if cp.Scans, err = fetchPaired[Scan, ScanList](dir, NameScans,
		format.SectionScans, NameScans, format.SectionScanLists, NameScanLists); err != nil {
		return nil, err
	}
	if cp.Roams, err = fetchPaired[Roam, RoamList](dir, NameRoams,
		format.SectionRoams, NameRoams, format.SectionRoamLists, NameRoamLists); err != nil {
		return nil, err
	}
	cp.resolveContacts()
	return cp, nil
}

func fetchPaired[T Record, L Record, PT decoder[T], PL decoder[L]](dir section.Directory, name string,
	recID uint16, recName string, listID uint16, listName string) (*PairedCollection[T, L], error) {
	recs, err := fetch[T, PT](dir, recID, recName)
	if err != nil {
		return nil, err
	}
	lists, err := fetch[L, PL](dir, listID, listName)
	if err != nil {
		return nil, err
	}
	return &PairedCollection[T, L]{name: name, Records: recs, Lists: lists}, nil
}

// resolveContacts turns the contact slots stored in digital channels into
// positions in the contact collection. A slot no in-use position maps to is
// left out of range so that Verify reports it.
func (cp *Codeplug) resolveContacts() {
	sec := cp.Contacts.Section()
	for i := range cp.Digital.items {
		ref := &cp.Digital.items[i].TxContact
		if !ref.Set {
			continue
		}
		pos, ok := sec.PositionOf(ref.Index)
		if !ok || pos >= cp.Contacts.Len() {
			logger.L.Warn("digital channel contact not in use", "channel", i, "slot", ref.Index)
			ref.Index = 0xffff
			continue
		}
		ref.Index = uint16(pos)
	}
}

// Model returns the radio model string.
func (cp *Codeplug) Model() string { return cp.model }

// DeviceType classifies the radio by its model string.
func (cp *Codeplug) DeviceType() DeviceType {
	if strings.HasPrefix(cp.model, "m") {
		return Mobile
	}
	return Portable
}

// DigitalChannels returns the number of digital channels.
func (cp *Codeplug) DigitalChannels() int { return cp.Digital.Len() }

// AnalogChannels returns the number of analog channels.
func (cp *Codeplug) AnalogChannels() int { return cp.Analog.Len() }

// Verify checks every cross reference and returns the first failure as a
// *verify.Error.
func (cp *Codeplug) Verify() error {
	checks := []func(*Codeplug) error{
		cp.Contacts.Verify,
		cp.Analog.Verify,
		cp.Digital.Verify,
		cp.Zones.Verify,
		cp.Scans.Verify,
		cp.Roams.Verify,
	}
	for _, check := range checks {
		if err := check(cp); err != nil {
			return err
		}
	}
	return nil
}

// Write verifies the codeplug and, only if it is consistent, writes every
// section back to its original address in w.
func (cp *Codeplug) Write(w io.WriteSeeker) error {
	if err := cp.Verify(); err != nil {
		return fmt.Errorf("codeplug: not written: %w", err)
	}
	writes := []func(io.WriteSeeker) error{
		cp.Contacts.Write,
		cp.Digital.Write,
		cp.Analog.Write,
		cp.Zones.Write,
		cp.Scans.Write,
		cp.Roams.Write,
	}
	for _, write := range writes {
		if err := write(w); err != nil {
			return err
		}
	}
	logger.L.Info("codeplug written", "model", cp.model,
		"contacts", cp.Contacts.Len(), "digital", cp.Digital.Len(), "analog", cp.Analog.Len(),
		"zones", cp.Zones.Len(), "scans", cp.Scans.Len(), "roams", cp.Roams.Len())
	return nil
}

// Clear empties every collection.
func (cp *Codeplug) Clear() {
	cp.Contacts.Clear()
	cp.Digital.Clear()
	cp.Analog.Clear()
	cp.Zones.Clear()
	cp.Scans.Clear()
	cp.Roams.Clear()
}

// AddContact inserts c and returns its position.
func (cp *Codeplug) AddContact(c Contact) (int, error) { return cp.Contacts.Insert(c) }

// AddDigitalChannel inserts ch and returns a pointer to it.
func (cp *Codeplug) AddDigitalChannel(ch DigitalChannel) (pointer.Channel, error) {
	n, err := cp.Digital.Insert(ch)
	if err != nil {
		return pointer.Selected, err
	}
	return pointer.ToDigital(uint16(n)), nil
}

// AddAnalogChannel inserts ch and returns a pointer to it.
func (cp *Codeplug) AddAnalogChannel(ch AnalogChannel) (pointer.Channel, error) {
	n, err := cp.Analog.Insert(ch)
	if err != nil {
		return pointer.Selected, err
	}
	return pointer.ToAnalog(uint16(n)), nil
}

// AddZone inserts a zone holding channels and returns its position.
func (cp *Codeplug) AddZone(name string, channels []pointer.Channel) (int, error) {
	z, err := NewZone(name, channels)
	if err != nil {
		return -1, err
	}
	return cp.Zones.Insert(z, ZoneList{Channels: channels})
}

// AddScan inserts a scan and its channel list and returns their position.
func (cp *Codeplug) AddScan(s Scan, list ScanList) (int, error) {
	return cp.Scans.Insert(s, list)
}

// AddRoam inserts a roam and its channel list and returns their position.
func (cp *Codeplug) AddRoam(r Roam, list RoamList) (int, error) {
	return cp.Roams.Insert(r, list)
}
