package vgmstream

import "github.com/vgmstream/vgmstream-go/internal/layout"

// buildLayout picks the layout walker a probe result calls for: interleave
// when the prober reported a fixed interleave block size, flat otherwise,
// and returns the picked layout alongside its name (for StreamFormat's
// LayoutName). Blocked containers are wired directly by a prober that needs
// one (none of this module's representative probers emit blocked output
// today -- see DESIGN.md).
//
// samplesPerFrame is always the codec's own Capabilities().SamplesPerFrame,
// never a hard-coded 0: a frame-based codec (e.g. DSP-ADPCM's 14
// samples/frame) needs the decode engine's SamplesToDo to pre-clamp to its
// frame boundary, or a single decodeStep call can ask for more samples than
// one DecodeFrame call produces.
func buildLayout(com *layout.Common, res *ProbeResult) (layout.Layout, string) {
	samplesPerFrame := com.Codec.Capabilities().SamplesPerFrame
	if res.InterleaveBlockSamples > 0 {
		return layout.NewInterleave(com, res.NumSamples, samplesPerFrame, res.InterleaveBlockSamples, res.InterleaveBlockBytes, res.DataOffset), "interleave"
	}
	return layout.NewFlat(com, res.NumSamples, samplesPerFrame), "flat"
}
