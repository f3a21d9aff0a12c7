package layout

import "github.com/vgmstream/vgmstream-go/internal/sbuf"

// Flat is the simplest layout: one continuous codec stream, no block
// headers, no interleave gaps. Grounded on layout/flat.c's
// render_vgmstream_flat, which just loops decode+loop-check until the
// requested sample count is filled.
type Flat struct {
	Common
	NumSamples      int
	SamplesPerFrame int
}

// NewFlat builds a Flat layout bound to the engine/codec/state triple and
// the stream's total (unlooped) sample count.
func NewFlat(c *Common, numSamples, samplesPerFrame int) *Flat {
	return &Flat{Common: *c, NumSamples: numSamples, SamplesPerFrame: samplesPerFrame}
}

func (f *Flat) Render(dst *sbuf.Buffer, sampleCount int) (int, error) {
	done := 0
	for done < sampleCount {
		samplesToDo := f.decodeStep(dst, f.NumSamples, f.SamplesPerFrame)
		if samplesToDo == 0 {
			dst.SilencePart(dst.Filled, sampleCount-done)
			dst.Filled += sampleCount - done
			done = sampleCount
			break
		}
		done += samplesToDo
		f.Engine.DoLoop(nil)
	}
	return done, nil
}

func (f *Flat) Reset() {
	f.Engine.Reset()
}
