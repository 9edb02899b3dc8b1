package section

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yl3im/hyrps/internal/format"
)

func TestHeader_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		h := Header{
			Type:     uint16(rng.Intn(0x10000)),
			Capacity: uint16(rng.Intn(format.MaxCapacity + 1)),
			Flags:    uint8(rng.Intn(format.MaxFlags + 1)),
			InUse:    uint16(rng.Intn(0x10000)),
			Opaque:   rng.Uint32(),
			ByteSize: uint32(rng.Intn(format.MaxImageSize)),
		}
		b, err := h.MarshalBinary()
		require.NoError(t, err)
		require.Len(t, b, format.SectionHeaderSize)

		got, err := ParseHeader(b)
		require.NoError(t, err)
		require.Equal(t, h, got)
	}
}

func TestHeader_WireLayout(t *testing.T) {
	h := Header{Type: 0x2a, Capacity: 0x3e8, Flags: 0x9, InUse: 3, Opaque: 0xdeadbeef, ByteSize: 0xbb80}
	b, err := h.MarshalBinary()
	require.NoError(t, err)
	want := []byte{
		0x2a, 0x00,
		0xe8, 0x93,
		0x03, 0x00,
		0x20, 0x00, 0x00, 0x00,
		0xef, 0xbe, 0xad, 0xde,
		0x80, 0xbb, 0x00, 0x00,
		0x96, 0xbb, 0x00, 0x00,
	}
	assert.Equal(t, want, b)
}

func TestParseHeader_Errors(t *testing.T) {
	good, err := Header{Type: 0x26, Capacity: 4, ByteSize: 0x128}.MarshalBinary()
	require.NoError(t, err)

	t.Run("magic", func(t *testing.T) {
		b := append([]byte(nil), good...)
		format.PutU32(b, format.SectionMagicOffset, 0x21)
		_, err := ParseHeader(b)
		require.ErrorIs(t, err, format.ErrMagic)
	})
	t.Run("cross-check", func(t *testing.T) {
		b := append([]byte(nil), good...)
		format.PutU32(b, format.SectionCheckOffset, 0x128)
		_, err := ParseHeader(b)
		require.ErrorIs(t, err, format.ErrCrossCheck)
	})
	t.Run("truncated", func(t *testing.T) {
		_, err := ParseHeader(good[:format.SectionHeaderSize-1])
		require.ErrorIs(t, err, format.ErrTruncated)
	})
}

func TestHeader_MarshalRejectsOverflow(t *testing.T) {
	_, err := Header{Capacity: format.MaxCapacity + 1}.MarshalBinary()
	require.ErrorIs(t, err, ErrLayout)
	_, err = Header{Flags: 0x10}.MarshalBinary()
	require.ErrorIs(t, err, ErrLayout)
	_, err = Header{ByteSize: 0xffffffff}.MarshalBinary()
	require.ErrorIs(t, err, ErrLayout)
}

func TestMapping_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var all []Mapping
	var b []byte
	for i := 0; i < 200; i++ {
		m := Mapping{Index: uint16(rng.Intn(0x10000)), Offset: rng.Uint32()}
		all = append(all, m)
		var err error
		b, err = m.AppendBinary(b)
		require.NoError(t, err)
	}
	require.Len(t, b, 200*format.MappingSize)

	got, err := ParseMappings(b, len(all))
	require.NoError(t, err)
	assert.Equal(t, all, got)

	_, err = ParseMappings(b[:len(b)-1], len(all))
	require.ErrorIs(t, err, format.ErrTruncated)
}
