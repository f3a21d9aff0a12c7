// Package layout implements the flat / interleave / blocked / segmented /
// layered walkers described in SPEC_FULL.md §4.4: the engines that feed
// codec calls and move channel offsets to stitch a container into a
// playable stream.
package layout

import (
	"github.com/vgmstream/vgmstream-go/internal/codec"
	"github.com/vgmstream/vgmstream-go/internal/decodeengine"
	"github.com/vgmstream/vgmstream-go/internal/sbuf"
)

// Layout is the uniform contract every walker implements: Render fills dst
// up to its capacity and returns samples produced, possibly zero-padding on
// decode failure; Reset returns the layout to its just-opened state.
type Layout interface {
	Render(dst *sbuf.Buffer, sampleCount int) (int, error)
	Reset()
}

// Child is what segmented/layered layouts need from a sub-stream: the full
// render-pipeline contract (decode + mix), not just a bare layout. This lets
// a segmented/layered child itself be an arbitrarily nested pipeline
// (flat, blocked, or another segmented/layered) without this package
// importing the render package -- render.Pipeline implements Child instead.
type Child interface {
	Render(dst []float64, sampleCount int) (int, error)
	Reset()
	NumSamples() int
	OutputChannels() int
	SampleRate() int
	LoopFlag() bool
	SetLoopFlag(bool)
}

// Common holds the fields every concrete layout needs to drive the codec
// dispatch + loop engine; embedded by Flat/Interleave/Blocked.
type Common struct {
	Engine   *decodeengine.Engine
	Codec    codec.Codec
	State    *decodeengine.State
	Channels int
}

// NewCommon builds the shared engine/codec/state/channel bundle every
// concrete layout constructor (NewFlat, NewInterleave, NewBlocked) takes as
// their first argument.
func NewCommon(engine *decodeengine.Engine, c codec.Codec, state *decodeengine.State, channels int) *Common {
	return &Common{Engine: engine, Codec: c, State: state, Channels: channels}
}

func (c *Common) decodeStep(dst *sbuf.Buffer, samplesThisBlock, samplesPerFrame int) int {
	samplesToDo := c.Engine.SamplesToDo(samplesThisBlock, samplesPerFrame)
	if room := dst.Samples - dst.Filled; samplesToDo > room {
		samplesToDo = room
	}
	if samplesToDo <= 0 {
		return 0
	}

	before := dst.Filled
	c.Engine.Decode(dst, samplesToDo, c.State)
	// A HasDecodeFrame codec may fill fewer samples than requested in a
	// single call (frame size smaller than samplesToDo, e.g. a
	// samplesPerFrame-less caller asking across several DSP-ADPCM frames
	// at once) -- advance position by what was actually produced, not by
	// what was asked for, so CurrentSample/SamplesIntoBlock never outrun
	// dst.Filled and loop-end/frame-boundary comparisons stay exact.
	produced := dst.Filled - before
	c.Engine.CurrentSample += produced
	c.Engine.SamplesIntoBlock += produced
	return produced
}
