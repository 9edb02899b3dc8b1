package printer

import (
	"fmt"

	"github.com/yl3im/hyrps/codeplug"
	"github.com/yl3im/hyrps/codeplug/pointer"
)

type contactView struct {
	Name     string `json:"name" yaml:"name"`
	CallType string `json:"call_type" yaml:"call_type"`
	ID       uint32 `json:"id" yaml:"id"`
}

type channelView struct {
	Name    string `json:"name" yaml:"name"`
	Kind    string `json:"kind" yaml:"kind"`
	RxFreq  uint32 `json:"rx_hz" yaml:"rx_hz"`
	TxFreq  uint32 `json:"tx_hz" yaml:"tx_hz"`
	RxOnly  bool   `json:"rx_only,omitempty" yaml:"rx_only,omitempty"`
	Power   string `json:"power" yaml:"power"`
	Detail  string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Contact string `json:"contact,omitempty" yaml:"contact,omitempty"`
	List    string `json:"list,omitempty" yaml:"list,omitempty"`
}

type listView struct {
	Name     string   `json:"name" yaml:"name"`
	Detail   string   `json:"detail,omitempty" yaml:"detail,omitempty"`
	Channels []string `json:"channels" yaml:"channels"`
}

type codeplugView struct {
	Model    string        `json:"model" yaml:"model"`
	Device   string        `json:"device" yaml:"device"`
	Contacts []contactView `json:"contacts" yaml:"contacts"`
	Channels []channelView `json:"channels" yaml:"channels"`
	Zones    []listView    `json:"zones" yaml:"zones"`
	Scans    []listView    `json:"scans" yaml:"scans"`
	Roams    []listView    `json:"roams" yaml:"roams"`
}

// names resolves references to human-readable labels. Dangling references
// render with a '?' instead of failing, so broken images can be inspected.
type names struct{ cp *codeplug.Codeplug }

func (n names) channel(c pointer.Channel) string {
	switch c.Kind {
	case pointer.KindDigital:
		if int(c.Index) < n.cp.Digital.Len() {
			return n.cp.Digital.At(int(c.Index)).Name
		}
	case pointer.KindAnalog:
		if int(c.Index) < n.cp.Analog.Len() {
			return n.cp.Analog.At(int(c.Index)).Name
		}
	default:
		return "<Selected>"
	}
	return c.String() + "?"
}

func (n names) contact(r codeplug.ContactRef) string {
	if !r.Set {
		return ""
	}
	if int(r.Index) < n.cp.Contacts.Len() {
		return n.cp.Contacts.At(int(r.Index)).Name
	}
	return fmt.Sprintf("contact#%d?", r.Index)
}

func (n names) list(r codeplug.ListRef) string {
	switch r.Kind {
	case codeplug.ListScan:
		if int(r.Index) < n.cp.Scans.Len() {
			s, _ := n.cp.Scans.At(int(r.Index))
			return "scan: " + s.Name
		}
	case codeplug.ListRoam:
		if int(r.Index) < n.cp.Roams.Len() {
			rm, _ := n.cp.Roams.At(int(r.Index))
			return "roam: " + rm.Name
		}
	default:
		return ""
	}
	return r.String() + "?"
}

func buildView(cp *codeplug.Codeplug) codeplugView {
	n := names{cp}
	v := codeplugView{
		Model:    cp.Model(),
		Device:   cp.DeviceType().String(),
		Contacts: make([]contactView, 0, cp.Contacts.Len()),
		Channels: make([]channelView, 0, cp.Digital.Len()+cp.Analog.Len()),
		Zones:    make([]listView, 0, cp.Zones.Len()),
		Scans:    make([]listView, 0, cp.Scans.Len()),
		Roams:    make([]listView, 0, cp.Roams.Len()),
	}
	for _, c := range cp.Contacts.All() {
		v.Contacts = append(v.Contacts, contactView{Name: c.Name, CallType: c.CallType.String(), ID: c.ID})
	}
	for _, d := range cp.Digital.All() {
		v.Channels = append(v.Channels, channelView{
			Name:    d.Name,
			Kind:    "digital",
			RxFreq:  d.RxFreq,
			TxFreq:  d.TxFreq,
			RxOnly:  d.RxOnly,
			Power:   d.Power.String(),
			Detail:  fmt.Sprintf("CC%d %s", d.ColourCode, d.Timeslot),
			Contact: n.contact(d.TxContact),
			List:    n.list(d.List),
		})
	}
	for _, a := range cp.Analog.All() {
		v.Channels = append(v.Channels, channelView{
			Name:   a.Name,
			Kind:   "analog",
			RxFreq: a.RxFreq,
			TxFreq: a.TxFreq,
			RxOnly: a.RxOnly,
			Power:  a.Power.String(),
			Detail: fmt.Sprintf("rx %s tx %s", a.RxTone, a.TxTone),
			List:   n.list(a.ScanList),
		})
	}
	for i := 0; i < cp.Zones.Len(); i++ {
		z, l := cp.Zones.At(i)
		v.Zones = append(v.Zones, listView{Name: z.Name, Channels: resolve(l.Channels, n.channel)})
	}
	for i := 0; i < cp.Scans.Len(); i++ {
		s, l := cp.Scans.At(i)
		detail := fmt.Sprintf("%s, tx %s", s.Type, s.TxMode)
		if s.TxMode == codeplug.ScanTxDesignated {
			detail += " " + n.channel(s.DesignatedTx)
		}
		v.Scans = append(v.Scans, listView{Name: s.Name, Detail: detail, Channels: resolve(l.Channels, n.channel)})
	}
	for i := 0; i < cp.Roams.Len(); i++ {
		r, l := cp.Roams.At(i)
		narrow := func(d pointer.Digital) string { return n.channel(d.Wide()) }
		v.Roams = append(v.Roams, listView{
			Name:     r.Name,
			Detail:   fmt.Sprintf("-%d dBm, every %ds", r.RSSIThreshold, r.Interval),
			Channels: resolve(l.Channels, narrow),
		})
	}
	return v
}

func resolve[P any](ptrs []P, name func(P) string) []string {
	out := make([]string, len(ptrs))
	for i, p := range ptrs {
		out[i] = name(p)
	}
	return out
}
