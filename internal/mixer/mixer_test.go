package mixer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vgmstream/vgmstream-go/internal/sbuf"
)

func TestFadeCurveShortcuts(t *testing.T) {
	assert.Equal(t, 0.00001, fadeCurve('T', 0.00001))
	assert.Equal(t, 0.99999, fadeCurve('T', 0.99999))
}

func TestFadeCurveShapes(t *testing.T) {
	assert.InDelta(t, 0.5, fadeCurve('T', 0.5), 1e-9)
	assert.InDelta(t, (1-math.Cos(math.Pi/2))/2, fadeCurve('H', 0.5), 1e-9)
	assert.InDelta(t, math.Sin(math.Pi/4), fadeCurve('Q', 0.5), 1e-9)
	assert.InDelta(t, 1-math.Sqrt(0.5), fadeCurve('p', 0.5), 1e-9)
	assert.InDelta(t, 0.75, fadeCurve('P', 0.5), 1e-9)
}

func TestFadeShapeShortcutAliases(t *testing.T) {
	m := New(1)
	m.PushFade(0, 1, 0, '{', 0, 10, 20, 30)
	assert.Equal(t, byte('E'), m.chain[0].Shape)
	m2 := New(1)
	m2.PushFade(0, 1, 0, '(', 0, 10, 20, 30)
	assert.Equal(t, byte('H'), m2.chain[0].Shape)
}

func TestVolumeNoOpRejected(t *testing.T) {
	m := New(2)
	m.PushVolume(0, 1.0)
	assert.Equal(t, 0, m.chainCount)
}

func TestSwapRejectsSameChannel(t *testing.T) {
	m := New(2)
	m.PushSwap(0, 0)
	assert.Equal(t, 0, m.chainCount)
}

func TestUpmixIncreasesOutputChannels(t *testing.T) {
	m := New(2)
	m.PushUpmix(0)
	assert.Equal(t, 3, m.OutputChannels)
	assert.Equal(t, 3, m.MixingChannels)
}

func TestKillmixRejectsChannelZero(t *testing.T) {
	m := New(2)
	m.PushKillmix(0)
	assert.Equal(t, 0, m.chainCount)
}

func TestUpmixThenVolumeAppliesToInsertedChannel(t *testing.T) {
	m := New(1)
	m.PushUpmix(0) // insert silent channel 0, pushing original data to channel 1
	m.PushVolume(0, 2.0)
	m.Setup(4)

	dst := sbuf.New(sbuf.FormatFLT, []float64{1, 1, 1, 1}, 1, 4)
	dst.Filled = 4
	m.Process(&dst, 0)

	assert.Equal(t, 2, dst.Channels)
	for s := 0; s < 4; s++ {
		assert.InDelta(t, 0.0, dst.Buf[s*2+0], 1e-9, "inserted channel stays silent through volume scale")
		assert.InDelta(t, 1.0, dst.Buf[s*2+1], 1e-9)
	}
}

func TestFadeOutLinearMonotonicallyDecreases(t *testing.T) {
	m := New(1)
	m.PushFade(ChannelAll, 1.0, 0.0, 'T', 0, 0, 10, -1)
	m.Setup(10)

	buf := make([]float64, 10)
	for i := range buf {
		buf[i] = 1.0
	}
	dst := sbuf.New(sbuf.FormatFLT, buf, 1, 10)
	dst.Filled = 10
	m.Process(&dst, 0)

	for s := 1; s < 10; s++ {
		assert.LessOrEqual(t, dst.Buf[s], dst.Buf[s-1])
	}
}

func TestFadeGateSkipsUntouchedRangeWhenOnlyFadePresent(t *testing.T) {
	m := New(1)
	m.PushFade(ChannelAll, 1.0, 0.0, 'T', 100, 100, 110, -1)
	m.Setup(10)

	buf := []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5}
	dst := sbuf.New(sbuf.FormatFLT, append([]float64{}, buf...), 1, 10)
	dst.Filled = 10
	m.Process(&dst, 0) // current range [0,10) is before the fade window

	assert.Equal(t, buf, dst.Buf)
}
