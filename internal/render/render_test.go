package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vgmstream/vgmstream-go/internal/layout"
	"github.com/vgmstream/vgmstream-go/internal/mixer"
	"github.com/vgmstream/vgmstream-go/internal/sbuf"
)

// fakeLayout emits a deterministic ramp (sample index as a float, per
// channel) and silences once its total sample budget is exhausted; its
// Reset rewinds the internal cursor.
type fakeLayout struct {
	total    int
	channels int
	pos      int
}

func (f *fakeLayout) Render(dst *sbuf.Buffer, sampleCount int) (int, error) {
	n := sampleCount
	if n > f.total-f.pos {
		n = f.total - f.pos
	}
	if n < 0 {
		n = 0
	}
	for s := 0; s < n; s++ {
		for c := 0; c < f.channels; c++ {
			dst.Buf[s*f.channels+c] = float64(f.pos + s)
		}
	}
	dst.Filled = n
	f.pos += n
	return n, nil
}
func (f *fakeLayout) Reset() { f.pos = 0 }

func TestSimpleRenderPassesThroughLayout(t *testing.T) {
	fl := &fakeLayout{total: 100, channels: 1}
	p := New(fl, nil, 1, 44100, sbuf.FormatFLT, 100, false, 64)

	out := make([]float64, 10)
	n, err := p.Render(out, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, 0.0, out[0])
	assert.Equal(t, 9.0, out[9])
}

func TestConfigModePadsBeginAndEnd(t *testing.T) {
	fl := &fakeLayout{total: 100, channels: 1}
	p := New(fl, nil, 1, 44100, sbuf.FormatFLT, 100, false, 64)
	p.Config = Config{
		Enabled: true, PadBeginSamples: 5, TrimBeginSamples: 0,
		BodySamples: 100, PadEndSamples: 5,
	}

	out := make([]float64, 5)
	n, err := p.Render(out, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	for _, v := range out {
		assert.Equal(t, 0.0, v, "pad-begin region must be silent")
	}

	out2 := make([]float64, 3)
	n, err = p.Render(out2, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 0.0, out2[0], "body should start decoding from sample 0")

	rest := make([]float64, 102)
	n, err = p.Render(rest, 102)
	require.NoError(t, err)
	assert.Equal(t, 102, n)
	assert.Equal(t, 99.0, rest[96], "last body sample")
	for _, v := range rest[97:] {
		assert.Equal(t, 0.0, v, "pad-end region must be silent")
	}
}

func TestConfigModeTrimsBeginWithoutEmittingTrimmedSamples(t *testing.T) {
	fl := &fakeLayout{total: 100, channels: 1}
	p := New(fl, nil, 1, 44100, sbuf.FormatFLT, 100, false, 64)
	p.Config = Config{
		Enabled: true, TrimBeginSamples: 20, BodySamples: 80,
	}

	out := make([]float64, 5)
	n, err := p.Render(out, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 20.0, out[0], "first emitted sample should be post-trim sample 20")
}

func TestSeekWithoutConfigResetsAndDiscards(t *testing.T) {
	fl := &fakeLayout{total: 100, channels: 1}
	p := New(fl, nil, 1, 44100, sbuf.FormatFLT, 100, false, 64)

	require.NoError(t, p.SeekTo(40))
	out := make([]float64, 1)
	n, err := p.Render(out, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 40.0, out[0])
}

func TestSeekIntoPadBeginNeedsNoDecode(t *testing.T) {
	fl := &fakeLayout{total: 100, channels: 1}
	p := New(fl, nil, 1, 44100, sbuf.FormatFLT, 100, false, 64)
	p.Config = Config{Enabled: true, PadBeginSamples: 10, BodySamples: 90}

	require.NoError(t, p.SeekTo(3))
	assert.Equal(t, 3, p.PlayPosition())
	assert.Equal(t, 0, fl.pos, "pad-begin seek must not touch the layout")
}

func TestSeekFoldsIntoLoopRegion(t *testing.T) {
	fl := &fakeLayout{total: 1000, channels: 1}
	p := New(fl, nil, 1, 44100, sbuf.FormatFLT, 1000, true, 64)
	p.Config = Config{
		Enabled: true, BodySamples: 1000,
		LoopStartSample: 100, LoopEndSample: 200,
	}

	// target 350 lies 150 samples (one and a half loop lengths of 100) past
	// loop_end (200); should fold
	// to loop_start + (350-100)%100 = 100 + 50 = 150, not decode 350 samples.
	require.NoError(t, p.SeekTo(350))
	assert.Equal(t, 150, fl.pos)
}

func TestMixerAppliesDuringRender(t *testing.T) {
	fl := &fakeLayout{total: 100, channels: 1}
	m := mixer.New(1)
	m.PushVolume(0, 0.5)
	p := New(fl, m, 1, 44100, sbuf.FormatFLT, 100, false, 64)

	out := make([]float64, 4)
	n, err := p.Render(out, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.InDelta(t, 0.0, out[0], 1e-9)
	assert.InDelta(t, 1.5, out[3], 1e-9) // sample 3 scaled by 0.5
}

var _ layout.Layout = (*fakeLayout)(nil)
