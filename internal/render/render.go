// Package render implements the per-stream render pipeline described in
// SPEC_FULL.md §4.6: pad-begin, trim-begin, decode+mix, fade-out, pad-end,
// wired around one layout.Layout and one mixer.Mixer. Grounded on
// base/render.c's render_vgmstream / render_free_vgmstream split between a
// "simple" direct decode and a "config" mode that layers padding/trim/fade
// around it.
package render

import (
	"github.com/vgmstream/vgmstream-go/internal/layout"
	"github.com/vgmstream/vgmstream-go/internal/logging"
	"github.com/vgmstream/vgmstream-go/internal/mixer"
	"github.com/vgmstream/vgmstream-go/internal/sbuf"
)

// Config holds the play-region parameters that switch a Pipeline from
// simple direct decode into the padded/trimmed/faded config mode, mirroring
// play_config_t in base/render.c.
type Config struct {
	Enabled bool

	PadBeginSamples  int
	TrimBeginSamples int
	BodySamples      int // samples to actually decode from the layout, after trim
	FadeStartSample  int
	FadeSamples      int
	PadEndSamples    int

	// LoopStartSample/LoopEndSample mirror the decode engine's own loop
	// bounds (in underlying-decode sample space, i.e. excluding pad-begin)
	// so the seek engine can fold a deep seek target back into the loop
	// region via modular arithmetic instead of decoding every repeat.
	LoopStartSample int
	LoopEndSample   int
}

// totalSamples is the play-position domain size in config mode: pad-begin +
// body + pad-end (trim-begin is consumed internally and does not occupy
// play-position space).
func (c *Config) totalSamples() int {
	return c.PadBeginSamples + c.BodySamples + c.PadEndSamples
}

// Pipeline is one stream's full render chain: a layout walker plus a mixer,
// optionally wrapped in a Config region. It implements layout.Child so a
// Pipeline can itself be a segmented/layered child (nested streams).
type Pipeline struct {
	Layout   layout.Layout
	Mixer    *mixer.Mixer
	Channels int
	Rate     int
	Fmt      sbuf.Format

	TotalSamples int // unlooped body length, used by segmented/layered parents
	Loop         bool

	Config Config

	playPosition int
	scratch      sbuf.Buffer
	maxBlock     int
}

// New builds a Pipeline; scratch is the internal float decode buffer, sized
// maxBlock samples (callers typically pass the largest single Render request
// they expect, e.g. VGMSTREAM_LAYER_SAMPLE_BUFFER-sized chunks). The mixer,
// if any, is left inactive so a caller can still push ops onto it (see
// Mixer.Active's "reject once active" rule in internal/mixer) between New
// and the first Render call; it is lazily activated on first use.
func New(l layout.Layout, m *mixer.Mixer, channels, rate int, fmt sbuf.Format, numSamples int, loop bool, maxBlock int) *Pipeline {
	p := &Pipeline{
		Layout: l, Mixer: m, Channels: channels, Rate: rate, Fmt: fmt,
		TotalSamples: numSamples, Loop: loop, maxBlock: maxBlock,
	}
	p.scratch = sbuf.New(sbuf.FormatFLT, make([]float64, maxBlock*channels), channels, maxBlock)
	return p
}

// Render fills dst (interleaved, p.Channels-wide) with up to sampleCount
// samples, advancing playPosition. Returns samples actually produced (less
// than sampleCount only at true stream end).
func (p *Pipeline) Render(dst []float64, sampleCount int) (int, error) {
	if p.Mixer != nil && !p.Mixer.IsActive() {
		p.Mixer.Setup(p.maxBlock)
	}
	out := sbuf.New(p.Fmt, dst, p.Channels, sampleCount)
	if !p.Config.Enabled {
		return p.renderSimple(&out, sampleCount)
	}
	return p.renderConfig(&out, sampleCount)
}

func (p *Pipeline) renderSimple(dst *sbuf.Buffer, sampleCount int) (int, error) {
	done := 0
	for done < sampleCount {
		n, err := p.decodeAndMix(dst, sampleCount-done)
		done += n
		p.playPosition += n
		if err != nil || n == 0 {
			return done, err
		}
	}
	return done, nil
}

// renderConfig walks the pad-begin / trim-begin / body+fade / pad-end
// regions in play-position order, matching render.c's render_vgmstream loop
// over play_config_t.
func (p *Pipeline) renderConfig(dst *sbuf.Buffer, sampleCount int) (int, error) {
	done := 0
	for done < sampleCount {
		pos := p.playPosition
		switch {
		case pos < p.Config.PadBeginSamples:
			n := p.Config.PadBeginSamples - pos
			if n > sampleCount-done {
				n = sampleCount - done
			}
			dst.SilencePart(dst.Filled, n)
			dst.Filled += n
			done += n
			p.playPosition += n

		case pos < p.Config.PadBeginSamples+p.Config.BodySamples:
			bodyPos := pos - p.Config.PadBeginSamples
			remainingBody := p.Config.BodySamples - bodyPos
			n := remainingBody
			if n > sampleCount-done {
				n = sampleCount - done
			}
			if n > p.scratch.Samples {
				n = p.scratch.Samples
			}
			if n <= 0 {
				continue
			}

			tmp := sbuf.New(p.Fmt, make([]float64, n*p.Channels), p.Channels, n)
			got, err := p.decodeAndMix(&tmp, n)
			if err != nil {
				return done, err
			}

			if p.Config.FadeSamples > 0 {
				fadeStart := p.Config.FadeStartSample
				if bodyPos+got > fadeStart {
					overlapStart := fadeStart - bodyPos
					if overlapStart < 0 {
						overlapStart = 0
					}
					fadePos := bodyPos + overlapStart - fadeStart
					sbuf.Fadeout(&tmp, overlapStart, got-overlapStart, fadePos, p.Config.FadeSamples)
				}
			}

			copy(dst.Buf[dst.Filled*dst.Channels:(dst.Filled+got)*dst.Channels], tmp.Buf[:got*tmp.Channels])
			dst.Filled += got
			done += got
			p.playPosition += got

			if got < n {
				// stream ended early: treat the rest of the body as pad-end.
				p.playPosition = p.Config.PadBeginSamples + p.Config.BodySamples
			}

		case pos < p.Config.totalSamples():
			n := p.Config.totalSamples() - pos
			if n > sampleCount-done {
				n = sampleCount - done
			}
			dst.SilencePart(dst.Filled, n)
			dst.Filled += n
			done += n
			p.playPosition += n

		default:
			return done, nil
		}
	}
	return done, nil
}

// decodeAndMix pulls n samples from the layout into p.scratch, trimming the
// stream's own trim-begin region first whenever decoding starts at the
// body's first sample (play position equal to the pad-begin length), then
// applies the mixer (if active) before copying into dst.
func (p *Pipeline) decodeAndMix(dst *sbuf.Buffer, n int) (int, error) {
	if p.Config.Enabled && p.Config.TrimBeginSamples > 0 && p.playPosition == p.Config.PadBeginSamples {
		if err := p.discard(p.Config.TrimBeginSamples); err != nil {
			logging.L.Warn("trim-begin discard failed", "err", err)
		}
	}

	if n > p.scratch.Samples {
		n = p.scratch.Samples
	}
	scratch := p.scratch
	scratch.Filled = 0
	scratch.Samples = n
	scratch.Buf = scratch.Buf[:n*p.Channels]
	got, err := p.Layout.Render(&scratch, n)
	if err != nil {
		return 0, err
	}

	if p.Mixer != nil && p.Mixer.IsActive() {
		p.Mixer.Process(&scratch, int32(p.playPosition))
	}

	sbuf.CopySegments(dst, &scratch, got)
	return got, nil
}

// discard decodes and throws away n samples, used for trim-begin and for
// the non-config seek fallback (internal/render/seek.go).
func (p *Pipeline) discard(n int) error {
	buf := make([]float64, min(n, 4096)*p.Channels)
	remaining := n
	for remaining > 0 {
		chunk := remaining
		if chunk > 4096 {
			chunk = 4096
		}
		scratch := sbuf.New(sbuf.FormatFLT, buf, p.Channels, chunk)
		got, err := p.Layout.Render(&scratch, chunk)
		if err != nil {
			return err
		}
		if got == 0 {
			break
		}
		remaining -= got
	}
	return nil
}

// Reset returns the pipeline to its just-opened state: layout/codec state
// cleared and play position zeroed.
func (p *Pipeline) Reset() {
	p.Layout.Reset()
	p.playPosition = 0
}

func (p *Pipeline) NumSamples() int     { return p.TotalSamples }
func (p *Pipeline) OutputChannels() int { return p.Channels }
func (p *Pipeline) SampleRate() int     { return p.Rate }
func (p *Pipeline) LoopFlag() bool      { return p.Loop }
func (p *Pipeline) SetLoopFlag(v bool)  { p.Loop = v }

// PlayPosition returns the current play-position sample index.
func (p *Pipeline) PlayPosition() int { return p.playPosition }
