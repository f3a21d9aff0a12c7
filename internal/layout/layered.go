package layout

import "github.com/vgmstream/vgmstream-go/internal/sbuf"

// Layered plays a fixed ordered list of child streams in lockstep, each
// contributing its own channel(s) to the combined output (e.g. a mono voice
// layer plus a mono music layer producing 2-channel output). Grounded on
// layout/layered.c's render_vgmstream_layered, which renders every layer for
// the same sample_count and stitches their channels together with
// concat_samples_to_copy (this package's sbuf.CopyLayers).
type Layered struct {
	Children []Child
}

// NewLayered builds a Layered layout over children, in output-channel order.
func NewLayered(children []Child) *Layered {
	return &Layered{Children: children}
}

func (l *Layered) Render(dst *sbuf.Buffer, sampleCount int) (int, error) {
	minDone := sampleCount
	dstChStart := 0

	for _, child := range l.Children {
		chN := child.OutputChannels()
		buf := make([]float64, sampleCount*chN)
		n, _ := child.Render(buf, sampleCount)

		childBuf := sbuf.New(sbuf.FormatFLT, buf, chN, sampleCount)
		childBuf.Filled = n
		sbuf.CopyLayers(dst, &childBuf, dstChStart, n)

		dstChStart += chN
		if n < minDone {
			minDone = n
		}
	}

	if minDone < 0 {
		minDone = 0
	}
	dst.Filled = minDone
	return minDone, nil
}

func (l *Layered) Reset() {
	for _, c := range l.Children {
		c.Reset()
	}
}
