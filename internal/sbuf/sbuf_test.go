package sbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopySegmentsPlain(t *testing.T) {
	src := New(FormatS16, []float64{1, 2, 3, 4, 5, 6}, 2, 3)
	src.Filled = 3
	dst := New(FormatS16, make([]float64, 6), 2, 3)

	n := GetCopyMax(&dst, &src)
	require.Equal(t, 3, n)

	CopySegments(&dst, &src, n)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, dst.Buf)
	assert.Equal(t, 3, dst.Filled)
	assert.Equal(t, 0, src.Filled)
}

func TestCopySegmentsF16ToFLT(t *testing.T) {
	src := New(FormatF16, []float64{32767, -32767}, 1, 1)
	src.Filled = 1
	dst := New(FormatFLT, make([]float64, 1), 1, 1)

	CopySegments(&dst, &src, 1)
	assert.InDelta(t, 1.0, dst.Buf[0], 1e-9)
}

func TestSilenceRest(t *testing.T) {
	b := New(FormatS16, []float64{1, 1, 1, 1}, 2, 2)
	b.Filled = 1
	b.SilenceRest()
	assert.Equal(t, []float64{1, 1, 0, 0}, b.Buf)
}

func TestConsume(t *testing.T) {
	b := New(FormatS16, []float64{1, 2, 3, 4, 5, 6}, 2, 3)
	b.Filled = 3
	b.Consume(1)
	assert.Equal(t, []float64{3, 4, 5, 6}, b.Buf)
	assert.Equal(t, 2, b.Samples)
	assert.Equal(t, 2, b.Filled)
}

func TestFadeoutLinear(t *testing.T) {
	b := New(FormatFLT, []float64{1, 1, 1, 1}, 1, 4)
	b.Filled = 4
	Fadeout(&b, 0, 4, 0, 4)
	assert.InDelta(t, 1.0, b.Buf[0], 1e-9)
	assert.InDelta(t, 0.75, b.Buf[1], 1e-9)
	assert.InDelta(t, 0.5, b.Buf[2], 1e-9)
	assert.InDelta(t, 0.25, b.Buf[3], 1e-9)
}

func TestCopyLayersStitchesChannels(t *testing.T) {
	dst := New(FormatFLT, make([]float64, 4*4), 4, 4)
	a := New(FormatFLT, []float64{1, 1, 2, 2, 3, 3, 4, 4}, 2, 4)
	a.Filled = 4
	b := New(FormatFLT, []float64{9, 9, 8, 8, 7, 7, 6, 6}, 2, 4)
	b.Filled = 4

	CopyLayers(&dst, &a, 0, 4)
	CopyLayers(&dst, &b, 2, 4)

	assert.Equal(t, []float64{1, 1, 9, 9, 2, 2, 8, 8, 3, 3, 7, 7, 4, 4, 6, 6}, dst.Buf)
}
