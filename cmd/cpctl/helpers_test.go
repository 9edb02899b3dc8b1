package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yl3im/hyrps/codeplug"
	"github.com/yl3im/hyrps/codeplug/pointer"
)

var testCaps = codeplug.Capacities{Contacts: 4, Digital: 4, Analog: 4, Zones: 2, Scans: 2, Roams: 2}

// testImage writes a small populated image to a temp dir and returns its path.
func testImage(t *testing.T) string {
	t.Helper()
	cp, img, err := codeplug.NewBlank("TEST", testCaps)
	require.NoError(t, err)

	_, err = cp.AddContact(codeplug.NewContact("TG 91", codeplug.CallGroup, 91))
	require.NoError(t, err)
	d, err := cp.AddDigitalChannel(codeplug.NewDigitalChannel("DMR A", 438_500_000, 431_100_000, false,
		codeplug.PowerHigh, 1, codeplug.ContactAt(0), codeplug.Slot2))
	require.NoError(t, err)
	a, err := cp.AddAnalogChannel(codeplug.NewAnalogChannel("FM", 145_500_000, 145_500_000, false,
		codeplug.PowerLow, codeplug.Tone{}, codeplug.Tone{}))
	require.NoError(t, err)
	_, err = cp.AddZone("Home", []pointer.Channel{d, a})
	require.NoError(t, err)
	require.NoError(t, cp.Write(img))

	path := filepath.Join(t.TempDir(), "radio.bin")
	require.NoError(t, os.WriteFile(path, img.Bytes(), 0o644))
	return path
}

// brokenImage writes an image whose zone list points at a missing channel.
// The image is assembled by hand because Write refuses to produce it.
func brokenImage(t *testing.T) string {
	t.Helper()
	cp, img, err := codeplug.NewBlank("TEST", testCaps)
	require.NoError(t, err)
	_, err = cp.AddDigitalChannel(codeplug.NewDigitalChannel("D", 1, 1, false, codeplug.PowerHigh, 0, codeplug.NoContact, codeplug.Slot1))
	require.NoError(t, err)
	_, err = cp.AddZone("Z", []pointer.Channel{pointer.ToDigital(0)})
	require.NoError(t, err)
	require.NoError(t, cp.Write(img))

	// Drop the channel: the zone list now dangles.
	cp.Digital.Clear()
	require.NoError(t, cp.Digital.Write(img))

	path := filepath.Join(t.TempDir(), "broken.bin")
	require.NoError(t, os.WriteFile(path, img.Bytes(), 0o644))
	return path
}

// run executes the root command with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	verbose, quiet, jsonOut, outFormat, logFile = false, false, false, "text", ""
	sectionsDigest, rewriteDryRun = false, false
	blankModel, blankCaps = "", codeplug.DefaultCapacities

	var out, errOut bytes.Buffer
	stdout, stderr = &out, &errOut
	t.Cleanup(func() { stdout, stderr = os.Stdout, os.Stderr })

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}
