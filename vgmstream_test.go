package vgmstream

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeRawPCMFixture builds a minimal "VSPC" container (see probe.go's
// rawPCMProber) with numSamples samples of a rising ramp per channel, so
// tests can assert on exact decoded values.
func writeRawPCMFixture(t *testing.T, channels, rate, numSamples int) string {
	t.Helper()
	hdr := make([]byte, 16)
	copy(hdr[0:4], "VSPC")
	binary.BigEndian.PutUint16(hdr[4:6], uint16(channels))
	binary.BigEndian.PutUint32(hdr[6:10], uint32(rate))
	binary.BigEndian.PutUint32(hdr[10:14], uint32(numSamples))

	data := make([]byte, numSamples*channels*2)
	for s := 0; s < numSamples; s++ {
		for c := 0; c < channels; c++ {
			off := (s*channels + c) * 2
			binary.LittleEndian.PutUint16(data[off:], uint16(int16(s)))
		}
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.vspc")
	require.NoError(t, os.WriteFile(path, append(hdr, data...), 0o644))
	return path
}

func TestOpenAndRenderRawPCM(t *testing.T) {
	path := writeRawPCMFixture(t, 2, 44100, 50)
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	f := s.Format()
	assert.Equal(t, 2, f.Channels)
	assert.Equal(t, 44100, f.SampleRate)
	assert.Equal(t, 50, f.NumSamples)
	assert.Equal(t, "flat", f.LayoutName)
	assert.Equal(t, uint32(0x56535043), f.FormatID) // "VSPC"

	dst := make([]float64, 2*10)
	n, err := s.Render(dst, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, 0.0, dst[0])
	assert.Equal(t, 9.0, dst[2*9])
}

func TestSeekRelocatesPlayPosition(t *testing.T) {
	path := writeRawPCMFixture(t, 1, 44100, 100)
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Seek(30))
	dst := make([]float64, 5)
	n, err := s.Render(dst, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 30.0, dst[0])
}

func TestConfigurePadBeginProducesSilenceThenBody(t *testing.T) {
	path := writeRawPCMFixture(t, 1, 44100, 20)
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Configure(PlayConfig{PadBeginSamples: 4}, nil))

	dst := make([]float64, 4)
	n, err := s.Render(dst, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	for _, v := range dst {
		assert.Equal(t, 0.0, v)
	}

	dst2 := make([]float64, 3)
	n, err = s.Render(dst2, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 0.0, dst2[0])
}

func TestConfigureVolumeMixOpScalesOutput(t *testing.T) {
	path := writeRawPCMFixture(t, 1, 44100, 10)
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Configure(PlayConfig{}, []MixOp{{Kind: "volume", ChannelDst: -1, Volume: 0.0}}))

	dst := make([]float64, 5)
	n, err := s.Render(dst, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	for _, v := range dst {
		assert.Equal(t, 0.0, v, "volume 0 should silence every sample")
	}
}

func TestFillDeliversExactCountAcrossMultipleCalls(t *testing.T) {
	path := writeRawPCMFixture(t, 1, 44100, 10)
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	dst := make([]float64, 3)
	require.NoError(t, s.Fill(dst, 3))
	assert.Equal(t, []float64{0, 1, 2}, dst)

	require.NoError(t, s.Fill(dst, 3))
	assert.Equal(t, []float64{3, 4, 5}, dst)
}

func TestFillPadsSilenceAndSetsDoneAtStreamEnd(t *testing.T) {
	path := writeRawPCMFixture(t, 1, 44100, 5)
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	dst := make([]float64, 8)
	require.NoError(t, s.Fill(dst, 8))
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 0, 0, 0}, dst)
	assert.True(t, s.Done())

	for i := range dst {
		dst[i] = -1
	}
	require.NoError(t, s.Fill(dst, 8))
	for _, v := range dst {
		assert.Equal(t, 0.0, v, "Fill after Done must return silence, not error or the stale buffer")
	}
}

func TestOpenUnrecognisedContainerReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "junk.bin")
	require.NoError(t, os.WriteFile(path, []byte("not a container"), 0o644))

	_, err := Open(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
