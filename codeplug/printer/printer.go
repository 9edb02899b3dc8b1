// Package printer renders a codeplug and its section directory for people
// and scripts: aligned text tables, JSON or YAML.
package printer

import (
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/yl3im/hyrps/codeplug"
	"github.com/yl3im/hyrps/codeplug/section"
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs aligned, human-readable tables.
	FormatText Format = "text"

	// FormatJSON outputs indented JSON.
	FormatJSON Format = "json"

	// FormatYAML outputs YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("printer: unknown format %q", s)
}

// Options controls printing behavior.
type Options struct {
	// Format specifies the output format.
	// Default: FormatText
	Format Format

	// ShowDigest adds an xxhash64 digest of every section's region to the
	// directory listing, so two images can be compared section by section.
	// Default: false
	ShowDigest bool
}

// DefaultOptions returns text output without digests.
func DefaultOptions() Options {
	return Options{Format: FormatText}
}

// Printer writes codeplug views to an io.Writer.
type Printer struct {
	opts   Options
	writer io.Writer
}

// New creates a Printer writing to w.
//
// Example:
//
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.Codeplug(cp)
func New(w io.Writer, opts Options) *Printer {
	if opts.Format == "" {
		opts.Format = FormatText
	}
	return &Printer{writer: w, opts: opts}
}

// Sections prints the section directory in image order.
func (p *Printer) Sections(dir section.Directory) error {
	views := make([]sectionView, 0, len(dir))
	for _, s := range dir.Sorted() {
		views = append(views, p.section(s))
	}
	switch p.opts.Format {
	case FormatJSON:
		return p.printJSON(views)
	case FormatYAML:
		return p.printYAML(views)
	default:
		return p.sectionsText(views)
	}
}

// Codeplug prints every collection with pointers resolved to channel names.
func (p *Printer) Codeplug(cp *codeplug.Codeplug) error {
	v := buildView(cp)
	switch p.opts.Format {
	case FormatJSON:
		return p.printJSON(v)
	case FormatYAML:
		return p.printYAML(v)
	default:
		return p.codeplugText(v)
	}
}

// Digest returns the xxhash64 of a section's region.
func Digest(s *section.Section) uint64 {
	return xxhash.Sum64(s.Data)
}

type sectionView struct {
	Type        string `json:"type" yaml:"type"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Addr        string `json:"addr" yaml:"addr"`
	Capacity    uint16 `json:"capacity" yaml:"capacity"`
	InUse       uint16 `json:"in_use" yaml:"in_use"`
	ByteSize    uint32 `json:"byte_size" yaml:"byte_size"`
	ElementSize int    `json:"element_size" yaml:"element_size"`
	Flags       uint8  `json:"flags" yaml:"flags"`
	Opaque      string `json:"opaque" yaml:"opaque"`
	Digest      string `json:"digest,omitempty" yaml:"digest,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

func (p *Printer) section(s *section.Section) sectionView {
	v := sectionView{
		Type:     fmt.Sprintf("0x%04x", s.Header.Type),
		Name:     codeplug.SectionName(s.Header.Type),
		Addr:     fmt.Sprintf("0x%06x", s.Addr),
		Capacity: s.Header.Capacity,
		InUse:    s.Header.InUse,
		ByteSize: s.Header.ByteSize,
		Flags:    s.Header.Flags,
		Opaque:   fmt.Sprintf("0x%08x", s.Header.Opaque),
	}
	// An empty zero-capacity section shows element size 0. Any other layout
	// fault is reported in the row.
	if es, err := s.ElementSize(); err == nil {
		v.ElementSize = es
	} else if s.Header.Capacity != 0 || s.Header.ByteSize != 0 {
		v.Error = err.Error()
	}
	if p.opts.ShowDigest {
		v.Digest = fmt.Sprintf("%016x", Digest(s))
	}
	return v
}
