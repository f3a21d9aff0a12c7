package decodeengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vgmstream/vgmstream-go/internal/codec"
	"github.com/vgmstream/vgmstream-go/internal/sbuf"
)

// noopCodec is a minimal codec.Codec fixture used to exercise the loop
// engine in isolation from any real codec arithmetic.
type noopCodec struct {
	seekCalls []int
}

func (n *noopCodec) Tag() string                          { return "NOOP" }
func (n *noopCodec) SampleType(*codec.Context) sbuf.Format { return sbuf.FormatS16 }
func (n *noopCodec) Capabilities() codec.Capabilities {
	return codec.Capabilities{HasDecodeFrame: true, PreservesHistory: true}
}
func (n *noopCodec) DecodeFrame(*codec.Context, *sbuf.Buffer, int) error { return nil }
func (n *noopCodec) DecodeBuf(*codec.Context, *sbuf.Buffer) error        { return nil }
func (n *noopCodec) Reset(*codec.Context)                                {}
func (n *noopCodec) Seek(ctx *codec.Context, sample int) error {
	n.seekCalls = append(n.seekCalls, sample)
	return nil
}
func (n *noopCodec) Close() {}

func TestDoLoopSnapshotsAndRestoresChannelState(t *testing.T) {
	ctx := &codec.Context{
		Channels: []codec.ChannelState{
			{Offset: 100, StartOffset: 0, Hist1: 0, Hist2: 0},
		},
	}

	e := NewEngine(&noopCodec{}, ctx, true, 10, 20)

	// Reach loop start: snapshot taken, hit_loop set.
	e.CurrentSample = 10
	looped := e.DoLoop(nil)
	assert.False(t, looped)
	assert.True(t, e.HitLoop)

	// Mutate channel state as if decoding happened past loop_start.
	ctx.Channels[0].Offset = 999
	ctx.Channels[0].Hist1 = 42

	// Reach loop end: restore from snapshot. noopCodec is PreservesHistory,
	// so the loop-end history (42) carries over while the offset is restored.
	e.CurrentSample = 20
	layoutNotified := false
	looped = e.DoLoop(func() { layoutNotified = true })

	require.True(t, looped)
	assert.True(t, layoutNotified)
	assert.Equal(t, int64(100), ctx.Channels[0].Offset)
	assert.Equal(t, int16(42), ctx.Channels[0].Hist1)
	assert.Equal(t, 10, e.CurrentSample)
	assert.Equal(t, 1, e.LoopCount)
}

func TestLoopTargetClearsLoopFlagWithoutRestoring(t *testing.T) {
	ctx := &codec.Context{Channels: []codec.ChannelState{{Offset: 5}}}
	e := NewEngine(&noopCodec{}, ctx, true, 10, 20)
	e.SetLoopTarget(1)

	e.CurrentSample = 10
	e.DoLoop(nil)
	e.CurrentSample = 20
	looped := e.DoLoop(nil)

	assert.False(t, looped)
	assert.False(t, e.LoopFlag)
	assert.Equal(t, int64(5), ctx.Channels[0].Offset) // untouched: no restore on target hit
}

func TestResetRestoresOriginalLoopFlag(t *testing.T) {
	ctx := &codec.Context{Channels: []codec.ChannelState{{}}}
	e := NewEngine(&noopCodec{}, ctx, true, 10, 20)
	e.SetLoopTarget(1)
	e.CurrentSample = 10
	e.DoLoop(nil)
	e.CurrentSample = 20
	e.DoLoop(nil)
	require.False(t, e.LoopFlag)

	e.Reset()
	assert.True(t, e.LoopFlag)
	assert.False(t, e.HitLoop)
	assert.Equal(t, 0, e.LoopCount)
}

func TestSamplesToDoClampsToLoopEnd(t *testing.T) {
	ctx := &codec.Context{Channels: []codec.ChannelState{{}}}
	e := NewEngine(&noopCodec{}, ctx, true, 10, 20)
	e.CurrentSample = 18
	got := e.SamplesToDo(100, 1)
	assert.Equal(t, 2, got)
}

func TestSamplesToDoClampsToFrameBoundary(t *testing.T) {
	ctx := &codec.Context{Channels: []codec.ChannelState{{}}}
	e := NewEngine(&noopCodec{}, ctx, false, 0, 0)
	e.SamplesIntoBlock = 12
	got := e.SamplesToDo(100, 14)
	assert.Equal(t, 2, got)
}
