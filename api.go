package vgmstream

import (
	"github.com/vgmstream/vgmstream-go/internal/mixer"
)

// Configure applies a play configuration and an ordered list of mixer ops.
// Must be called before the first Render/Fill call (mixer ops are rejected
// once the mixer activates, matching internal/mixer's add-while-inactive
// rule) -- calling it again later is a no-op for the mixer half, but still
// updates the pad/trim/fade region.
func (s *Stream) Configure(cfg PlayConfig, ops []MixOp) error {
	if cfg.PadBeginSamples < 0 || cfg.TrimBeginSamples < 0 || cfg.PadEndSamples < 0 || cfg.FadeSamples < 0 {
		return ErrBadConfig
	}

	s.pipe.Config.Enabled = true
	s.pipe.Config.PadBeginSamples = cfg.PadBeginSamples
	s.pipe.Config.TrimBeginSamples = cfg.TrimBeginSamples
	s.pipe.Config.PadEndSamples = cfg.PadEndSamples
	s.pipe.Config.BodySamples = s.format.NumSamples

	if cfg.LoopFlag != nil {
		s.pipe.Loop = *cfg.LoopFlag
	}
	if cfg.LoopCount > 0 {
		s.engine.SetLoopTarget(cfg.LoopCount)
		if s.engine.LoopFlag && s.format.LoopEnd > s.format.LoopStart {
			s.pipe.Config.BodySamples = s.format.LoopStart + cfg.LoopCount*(s.format.LoopEnd-s.format.LoopStart) + (s.format.NumSamples - s.format.LoopEnd)
		}
	}
	if cfg.FadeSamples > 0 {
		s.pipe.Config.FadeSamples = cfg.FadeSamples
		s.pipe.Config.FadeStartSample = s.pipe.Config.BodySamples - cfg.FadeSamples - cfg.FadeDelaySamples
		if s.pipe.Config.FadeStartSample < 0 {
			s.pipe.Config.FadeStartSample = 0
		}
	}

	for _, op := range ops {
		if err := applyMixOp(s.pipe.Mixer, op); err != nil {
			return err
		}
	}
	return nil
}

func applyMixOp(m *mixer.Mixer, op MixOp) error {
	switch op.Kind {
	case "volume":
		m.PushVolume(op.ChannelDst, op.Volume)
	case "limit":
		m.PushLimit(op.ChannelDst, op.Volume)
	case "swap":
		m.PushSwap(op.ChannelDst, op.ChannelSrc)
	case "add":
		m.PushAdd(op.ChannelDst, op.ChannelSrc, op.Volume)
	case "upmix":
		m.PushUpmix(op.ChannelDst)
	case "downmix":
		m.PushDownmix(op.ChannelDst)
	case "killmix":
		m.PushKillmix(op.ChannelDst)
	case "fade":
		m.PushFade(op.ChannelDst, op.FadeVolStart, op.FadeVolEnd, op.FadeShape, op.FadeTimePre, op.FadeTimeStart, op.FadeTimeEnd, op.FadeTimePost)
	default:
		return ErrBadConfig
	}
	return nil
}

// Render decodes up to sampleCount samples (interleaved, s.Format().Channels
// wide) into dst, returning samples actually produced. Returns fewer than
// requested only at true stream end (pad-end exhausted, or -- in simple
// mode -- the underlying layout itself ending).
func (s *Stream) Render(dst []float64, sampleCount int) (int, error) {
	n, err := s.pipe.Render(dst, sampleCount)
	if err != nil {
		return n, &DecodeError{Sample: s.pipe.PlayPosition(), Err: err}
	}
	return n, nil
}

// Fill is the exact-count render variant: every call delivers sampleCount
// samples into dst (the layout itself zero-pads a partial final frame, same
// as Render), but Fill additionally latches Done once decoding has run past
// the stream's natural end, so a caller driving a fixed playback buffer can
// tell a genuinely decoded frame from a padded one without inspecting
// sample content itself. Once Done, further calls skip decoding entirely
// and hand back silence.
func (s *Stream) Fill(dst []float64, sampleCount int) error {
	width := sampleCount * s.format.Channels
	if s.done {
		for i := 0; i < width && i < len(dst); i++ {
			dst[i] = 0
		}
		return nil
	}

	if _, err := s.Render(dst, sampleCount); err != nil {
		return err
	}

	if !s.engine.LoopFlag && s.engine.CurrentSample >= s.format.NumSamples {
		s.done = true
	}
	return nil
}

// Done reports whether a prior Fill call ran the stream to its natural end
// (a partial final frame it had to zero-pad). Render alone never sets this;
// only Fill's exact-count contract needs a sticky end indicator.
func (s *Stream) Done() bool { return s.done }

// Seek relocates play position to sample, per SPEC_FULL.md §4.7's seek
// engine (pad/trim/loop-fold aware when Configure has been called).
func (s *Stream) Seek(sample int) error {
	return s.pipe.SeekTo(sample)
}

// Reset returns the stream to its just-opened state (play position zero,
// loop state restored to the container's own value).
func (s *Stream) Reset() error {
	s.pipe.Reset()
	s.done = false
	return nil
}
