package render

import "github.com/vgmstream/vgmstream-go/internal/logging"

// SeekTo relocates play position to target (clamped into the valid play-
// position range), grounded on base/seek.c's seek_vgmstream. Three cases:
//
//   - Config disabled: the "not config enabled" slow path -- reset the
//     whole pipeline and decode-and-discard up to target.
//   - Config enabled, target inside pad-begin or pad-end: no underlying
//     decode needed, playPosition moves for free.
//   - Config enabled, target inside the body: translate to underlying
//     decode-sample space (subtracting pad-begin, adding trim-begin back),
//     fold it into the loop region with modular arithmetic when the target
//     lies past loop_end and looping is active (so seeking near the end of
//     a long looped track doesn't require decoding every repeat), then
//     reset + discard up to that point.
func (p *Pipeline) SeekTo(target int) error {
	if target < 0 {
		target = 0
	}
	limit := p.TotalSamples
	if p.Config.Enabled {
		limit = p.Config.totalSamples()
	}
	if target > limit {
		target = limit
	}

	if !p.Config.Enabled {
		p.Layout.Reset()
		if err := p.discard(target); err != nil {
			logging.L.Warn("seek discard failed", "err", err)
		}
		p.playPosition = target
		return nil
	}

	switch {
	case target < p.Config.PadBeginSamples:
		p.Layout.Reset()
		p.playPosition = target
		return nil

	case target < p.Config.PadBeginSamples+p.Config.BodySamples:
		bodyTarget := target - p.Config.PadBeginSamples
		decodeTarget := bodyTarget + p.Config.TrimBeginSamples
		if bodyTarget == 0 {
			// decodeAndMix discards trim-begin itself on the next render
			// from the body start.
			decodeTarget = 0
		}

		if p.Loop && p.Config.LoopEndSample > p.Config.LoopStartSample && decodeTarget > p.Config.LoopEndSample {
			loopLen := p.Config.LoopEndSample - p.Config.LoopStartSample
			decodeTarget = p.Config.LoopStartSample + (decodeTarget-p.Config.LoopStartSample)%loopLen
		}

		p.Layout.Reset()
		if err := p.discard(decodeTarget); err != nil {
			logging.L.Warn("seek discard failed", "err", err)
		}
		p.playPosition = target
		return nil

	default: // pad-end region, or exactly at end: nothing to decode
		p.playPosition = target
		return nil
	}
}
