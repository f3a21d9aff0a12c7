package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vgmstream/vgmstream-go/internal/sbuf"
)

type byteSource []byte

func (b byteSource) ReadAt(buf []byte, offset int64) (int, error) {
	if offset >= int64(len(b)) {
		return 0, nil
	}
	n := copy(buf, b[offset:])
	return n, nil
}

func TestRegistryKnownAndUnknown(t *testing.T) {
	assert.True(t, Known(TagPCM16))
	assert.True(t, Known(TagDSP))
	assert.False(t, Known("NOT_A_REAL_CODEC"))

	_, err := New("NOT_A_REAL_CODEC", 1)
	assert.ErrorIs(t, err, ErrUnsupportedCodec)
}

func TestPCM16DecodeBuf(t *testing.T) {
	raw := byteSource{100, 0, 200, 0, 44, 1, 0, 0}
	ctx := &Context{
		Source:   raw,
		Channels: []ChannelState{{Offset: 0}},
	}

	c, err := New(TagPCM16, 1)
	require.NoError(t, err)

	dst := sbuf.New(sbuf.FormatS16, make([]float64, 4), 1, 4)
	require.NoError(t, c.DecodeBuf(ctx, &dst))

	assert.Equal(t, []float64{100, 200, 300, 0}, dst.Buf)
	assert.Equal(t, 4, dst.Filled)
}

func TestDSPDecodeFrameSilentOnShortRead(t *testing.T) {
	c := newDSP(1)
	ctx := &Context{Source: byteSource{}, Channels: []ChannelState{{Offset: 0}}}

	dst := sbuf.New(sbuf.FormatS16, make([]float64, dspSamplesPerFrame), 1, dspSamplesPerFrame)
	require.NoError(t, c.DecodeFrame(ctx, &dst, dspSamplesPerFrame))

	for _, v := range dst.Buf {
		assert.Equal(t, float64(0), v)
	}
}

func TestDSPZeroCoefsProducesZeroSamples(t *testing.T) {
	// An all-zero frame (header byte 0, all data bytes 0) with a zero
	// coefficient table must decode to silence: nibble 0 predicts 0 and
	// the running history never departs from 0.
	raw := byteSource(make([]byte, dspBytesPerFrame))
	c := newDSP(1)
	ctx := &Context{Source: raw, Channels: []ChannelState{{Offset: 0}}}

	dst := sbuf.New(sbuf.FormatS16, make([]float64, dspSamplesPerFrame), 1, dspSamplesPerFrame)
	require.NoError(t, c.DecodeFrame(ctx, &dst, dspSamplesPerFrame))

	for _, v := range dst.Buf {
		assert.Equal(t, float64(0), v)
	}
}

func TestMSIMACapabilitiesInternalOffsetUpdates(t *testing.T) {
	c := newMSIMA(1)
	assert.True(t, c.Capabilities().InternalOffsetUpdates)

	dsp := newDSP(1)
	assert.False(t, dsp.Capabilities().InternalOffsetUpdates)
}

func TestPSXPreservesHistoryCapability(t *testing.T) {
	c := newPSX(2)
	assert.True(t, c.Capabilities().PreservesHistory)
	assert.Equal(t, psxSamplesPerBlock, c.Capabilities().SamplesPerFrame)
}
