package pointer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yl3im/hyrps/codeplug/verify"
	"github.com/yl3im/hyrps/internal/format"
)

type counts struct{ digital, analog int }

func (c counts) DigitalChannels() int { return c.digital }
func (c counts) AnalogChannels() int  { return c.analog }

func randomChannel(rng *rand.Rand) Channel {
	switch rng.Intn(3) {
	case 0:
		return Selected
	case 1:
		return ToDigital(uint16(rng.Intn(MaxIndex + 1)))
	}
	return ToAnalog(uint16(rng.Intn(MaxIndex + 1)))
}

func TestChannel_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		c := randomChannel(rng)
		b, err := c.MarshalBinary()
		require.NoError(t, err)
		require.Len(t, b, format.WidePointerSize)

		var got Channel
		require.NoError(t, got.UnmarshalBinary(b))
		require.Equal(t, c, got)
	}
}

func TestChannel_WireLayout(t *testing.T) {
	tests := []struct {
		ptr  Channel
		want []byte
	}{
		{Selected, []byte{0xff, 0xff, 0, 0}},
		{ToDigital(0), []byte{1, 0, 0, 0}},
		{ToAnalog(2), []byte{3, 0, 1, 0}},
		{ToDigital(MaxIndex), []byte{0xfe, 0xff, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.ptr.String(), func(t *testing.T) {
			b, err := tt.ptr.MarshalBinary()
			require.NoError(t, err)
			assert.Equal(t, tt.want, b)
		})
	}
}

func TestChannel_SentinelIgnoresTarget(t *testing.T) {
	var c Channel
	require.NoError(t, c.UnmarshalBinary([]byte{0xff, 0xff, 1, 0x80}))
	assert.Equal(t, Selected, c)
}

func TestChannel_IndexRange(t *testing.T) {
	for _, idx := range []uint16{MaxIndex + 1, 0xffff} {
		_, err := ToDigital(idx).MarshalBinary()
		require.ErrorIs(t, err, ErrIndexRange, "digital %d", idx)
		_, err = ToAnalog(idx).MarshalBinary()
		require.ErrorIs(t, err, ErrIndexRange, "analog %d", idx)
		_, err = DigitalAt(idx).MarshalBinary()
		require.ErrorIs(t, err, ErrIndexRange, "narrow %d", idx)
	}
}

func TestChannel_DecodeErrors(t *testing.T) {
	var c Channel
	require.ErrorIs(t, c.UnmarshalBinary([]byte{0, 0, 0, 0}), format.ErrInvalidData)
	require.ErrorIs(t, c.UnmarshalBinary([]byte{1, 0, 2, 0}), format.ErrInvalidData)
	require.ErrorIs(t, c.UnmarshalBinary([]byte{1, 0, 0}), format.ErrTruncated)

	_, err := Channel{Kind: KindSelected, Index: 3}.MarshalBinary()
	require.ErrorIs(t, err, format.ErrInvalidData)
}

func TestDigital_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		d := SelectedDigital
		if rng.Intn(4) > 0 {
			d = DigitalAt(uint16(rng.Intn(MaxIndex + 1)))
		}
		b, err := d.MarshalBinary()
		require.NoError(t, err)
		require.Len(t, b, format.NarrowPointerSize)

		var got Digital
		require.NoError(t, got.UnmarshalBinary(b))
		require.Equal(t, d, got)
	}

	var d Digital
	require.ErrorIs(t, d.UnmarshalBinary([]byte{0, 0}), format.ErrInvalidData)
	_, err := Digital{Kind: KindAnalog}.MarshalBinary()
	require.ErrorIs(t, err, ErrNotDigital)
}

func TestConversions(t *testing.T) {
	n, err := ToDigital(5).Narrow()
	require.NoError(t, err)
	assert.Equal(t, DigitalAt(5), n)
	assert.Equal(t, ToDigital(5), n.Wide())

	n, err = Selected.Narrow()
	require.NoError(t, err)
	assert.Equal(t, SelectedDigital, n)
	assert.Equal(t, Selected, SelectedDigital.Wide())

	_, err = ToAnalog(1).Narrow()
	require.ErrorIs(t, err, ErrNotDigital)
}

func TestVerify(t *testing.T) {
	r := counts{digital: 3, analog: 1}

	assert.NoError(t, Selected.Verify(r))
	assert.NoError(t, ToDigital(2).Verify(r))
	assert.NoError(t, ToAnalog(0).Verify(r))
	assert.NoError(t, DigitalAt(0).Verify(r))

	err := ToDigital(3).Verify(r)
	require.True(t, verify.IsKind(err, verify.DanglingReference))
	assert.Contains(t, err.Error(), "digital channel 3")

	err = ToAnalog(1).Verify(r)
	require.True(t, verify.IsKind(err, verify.DanglingReference))
	assert.Contains(t, err.Error(), "analog channel 1")

	require.Error(t, DigitalAt(7).Verify(r))
}
