package printer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yl3im/hyrps/codeplug"
	"github.com/yl3im/hyrps/codeplug/pointer"
	"github.com/yl3im/hyrps/codeplug/section"
	"github.com/yl3im/hyrps/internal/format"
)

func sample(t *testing.T) *codeplug.Codeplug {
	t.Helper()
	cp, img, err := codeplug.NewBlank("TEST", codeplug.Capacities{Contacts: 4, Digital: 4, Analog: 4, Zones: 2, Scans: 2, Roams: 2})
	require.NoError(t, err)

	_, err = cp.AddContact(codeplug.NewContact("TG 91", codeplug.CallGroup, 91))
	require.NoError(t, err)
	d, err := cp.AddDigitalChannel(codeplug.NewDigitalChannel("DMR A", 438_500_000, 431_100_000, false,
		codeplug.PowerHigh, 1, codeplug.ContactAt(0), codeplug.Slot2))
	require.NoError(t, err)
	a, err := cp.AddAnalogChannel(codeplug.NewAnalogChannel("FM", 145_500_000, 145_500_000, true,
		codeplug.PowerLow, codeplug.Tone{}, codeplug.Tone{}))
	require.NoError(t, err)
	_, err = cp.AddZone("Home", []pointer.Channel{d, a})
	require.NoError(t, err)
	_, err = cp.AddScan(codeplug.NewScan("All"), codeplug.NewScanList(d, a))
	require.NoError(t, err)
	require.NoError(t, cp.Write(img))
	return cp
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "json", "yaml"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, Format(s), f)
	}
	_, err := ParseFormat("reg")
	require.Error(t, err)
}

func TestPrinter_Sections_Text(t *testing.T) {
	cp := sample(t)
	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{ShowDigest: true}).Sections(cp.Directory))

	out := buf.String()
	assert.Contains(t, out, "DIGEST")
	assert.Contains(t, out, codeplug.NameContacts)
	assert.Contains(t, out, fmt.Sprintf("0x%04x", format.SectionRoamLists))
	// header + one row per section
	assert.Equal(t, len(cp.Directory)+1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestPrinter_Sections_LayoutFault(t *testing.T) {
	dir := section.Directory{
		format.SectionRoams: {Header: section.Header{Type: format.SectionRoams, Capacity: 3, ByteSize: 13}, Addr: format.DirectoryStart},
		0x99:                {Header: section.Header{Type: 0x99}, Addr: format.DirectoryStart + 0x100},
	}

	var text bytes.Buffer
	require.NoError(t, New(&text, Options{}).Sections(dir))
	assert.Contains(t, text.String(), "invalid")
	assert.Contains(t, text.String(), "not divisible by capacity 3")
	assert.Equal(t, 1, strings.Count(text.String(), "invalid"))

	var js bytes.Buffer
	require.NoError(t, New(&js, Options{Format: FormatJSON}).Sections(dir))
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Contains(t, rows[0]["error"], "not divisible")
	assert.NotContains(t, rows[1], "error")
}

func TestPrinter_Sections_JSON(t *testing.T) {
	cp := sample(t)
	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{Format: FormatJSON, ShowDigest: true}).Sections(cp.Directory))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, len(cp.Directory))

	contacts, err := cp.Directory.Get(format.SectionContacts)
	require.NoError(t, err)
	var found bool
	for _, r := range rows {
		if r["name"] == codeplug.NameContacts {
			found = true
			assert.Equal(t, float64(1), r["in_use"])
			assert.Equal(t, fmt.Sprintf("%016x", Digest(contacts)), r["digest"])
		}
	}
	assert.True(t, found)
}

func TestPrinter_Codeplug_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).Codeplug(sample(t)))

	out := buf.String()
	t.Logf("Text output:\n%s", out)
	assert.Contains(t, out, "Model: TEST (portable)")
	assert.Contains(t, out, "TG 91")
	assert.Contains(t, out, "438.500000")
	assert.Contains(t, out, "RX only")
	assert.Contains(t, out, "Home: DMR A, FM")
	assert.Contains(t, out, "All [Normal, tx Selected]: <Selected>, DMR A, FM")
}

func TestPrinter_Codeplug_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{Format: FormatJSON}).Codeplug(sample(t)))

	var got codeplugView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "TEST", got.Model)
	require.Len(t, got.Channels, 2)
	assert.Equal(t, "TG 91", got.Channels[0].Contact)
	assert.Equal(t, []string{"DMR A", "FM"}, got.Zones[0].Channels)
	assert.Empty(t, got.Roams)
}

func TestPrinter_Codeplug_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{Format: FormatYAML}).Codeplug(sample(t)))

	var got codeplugView
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "portable", got.Device)
	require.Len(t, got.Contacts, 1)
	assert.Equal(t, uint32(91), got.Contacts[0].ID)
	assert.Equal(t, []string{"<Selected>", "DMR A", "FM"}, got.Scans[0].Channels)
}

func TestPrinter_DanglingNames(t *testing.T) {
	cp := sample(t)
	_, err := cp.AddZone("Broken", []pointer.Channel{pointer.ToDigital(3)})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).Codeplug(cp))
	assert.Contains(t, buf.String(), "Broken: ")
	assert.Contains(t, buf.String(), "?")
}
