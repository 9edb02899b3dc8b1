package printer

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

func (p *Printer) table() *tabwriter.Writer {
	return tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
}

func (p *Printer) sectionsText(views []sectionView) error {
	tw := p.table()
	header := "TYPE\tNAME\tADDR\tCAPACITY\tIN USE\tSIZE\tELEMENT\tFLAGS\tOPAQUE"
	if p.opts.ShowDigest {
		header += "\tDIGEST"
	}
	fmt.Fprintln(tw, header)
	for _, v := range views {
		name := v.Name
		if name == "" {
			name = "-"
		}
		element := fmt.Sprintf("0x%x", v.ElementSize)
		if v.Error != "" {
			element = "invalid"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t0x%x\t%s\t%d\t%s",
			v.Type, name, v.Addr, v.Capacity, v.InUse, v.ByteSize, element, v.Flags, v.Opaque)
		if p.opts.ShowDigest {
			fmt.Fprintf(tw, "\t%s", v.Digest)
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, v := range views {
		if v.Error != "" {
			fmt.Fprintf(p.writer, "%s: %s\n", v.Type, v.Error)
		}
	}
	return nil
}

func mhz(hz uint32) string {
	return fmt.Sprintf("%d.%06d", hz/1_000_000, hz%1_000_000)
}

func (p *Printer) codeplugText(v codeplugView) error {
	fmt.Fprintf(p.writer, "Model: %s (%s)\n", v.Model, v.Device)

	fmt.Fprintf(p.writer, "\nContacts (%d):\n", len(v.Contacts))
	tw := p.table()
	fmt.Fprintln(tw, "#\tNAME\tCALL TYPE\tID")
	for i, c := range v.Contacts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", i, c.Name, c.CallType, c.ID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(p.writer, "\nChannels (%d):\n", len(v.Channels))
	tw = p.table()
	fmt.Fprintln(tw, "#\tNAME\tKIND\tRX MHZ\tTX MHZ\tPOWER\tDETAIL\tCONTACT\tLIST")
	for i, c := range v.Channels {
		power := c.Power
		if c.RxOnly {
			power = "RX only"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i, c.Name, c.Kind, mhz(c.RxFreq), mhz(c.TxFreq), power, c.Detail, dash(c.Contact), dash(c.List))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, group := range []struct {
		title string
		lists []listView
	}{{"Zones", v.Zones}, {"Scans", v.Scans}, {"Roams", v.Roams}} {
		fmt.Fprintf(p.writer, "\n%s (%d):\n", group.title, len(group.lists))
		for i, l := range group.lists {
			fmt.Fprintf(p.writer, "  %d %s", i, l.Name)
			if l.Detail != "" {
				fmt.Fprintf(p.writer, " [%s]", l.Detail)
			}
			fmt.Fprintf(p.writer, ": %s\n", strings.Join(l.Channels, ", "))
		}
	}
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
