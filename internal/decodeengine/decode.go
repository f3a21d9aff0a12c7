// Package decodeengine implements the decode state and loop engine: the
// per-stream decode buffer, discard counter, and the loop detection /
// save / restore machinery (including codec history) that every layout
// walker drives through.
package decodeengine

import (
	"github.com/mitchellh/copystructure"

	"github.com/vgmstream/vgmstream-go/internal/codec"
	"github.com/vgmstream/vgmstream-go/internal/logging"
	"github.com/vgmstream/vgmstream-go/internal/sbuf"
)

// MaxEmptyFrames mirrors the C source's max_empty: a decode producing zero
// samples this many consecutive attempts is treated as a deadlock.
const MaxEmptyFrames = 1000

// State is the decode-state owned sbuf plus the bookkeeping pair layouts
// that need frame-granularity accounting read: samples left in the current
// block/frame, and samples already consumed into it.
type State struct {
	Buf              sbuf.Buffer
	Discard          int
	SamplesLeft      int
	SamplesIntoBlock int
}

// Engine drives one stream's codec through loop-aware decoding. It owns the
// primary and loop channel-descriptor arrays and the hit_loop/loop_count
// bookkeeping described in SPEC_FULL.md §4.3.
type Engine struct {
	Codec codec.Codec
	Ctx   *codec.Context

	LoopFlag         bool // runtime flag, may be cleared by a loop-target hit
	LoopFlagOriginal bool // immutable copy, restored verbatim by Reset
	LoopStartSample  int
	LoopEndSample    int
	HasLoopTarget    bool
	LoopTarget       int

	CurrentSample    int
	SamplesIntoBlock int
	LoopCount        int
	HitLoop          bool

	loopChannels         []codec.ChannelState
	loopSamplesIntoBlock int

	emptyStreak int
}

// NewEngine builds an Engine bound to c/ctx, with the given loop bounds.
// loopFlag is both the initial runtime flag and the "original" copy Reset
// restores to, per SPEC_FULL.md §9's hit_loop/loop_flag separation note.
func NewEngine(c codec.Codec, ctx *codec.Context, loopFlag bool, loopStart, loopEnd int) *Engine {
	return &Engine{
		Codec:            c,
		Ctx:              ctx,
		LoopFlag:         loopFlag,
		LoopFlagOriginal: loopFlag,
		LoopStartSample:  loopStart,
		LoopEndSample:    loopEnd,
	}
}

// SetLoopTarget configures the loop-target outro behaviour: after LoopCount
// reaches target, DoLoop clears LoopFlag and lets decoding continue past
// loop_end into the natural file end instead of looping again.
func (e *Engine) SetLoopTarget(target int) {
	e.HasLoopTarget = true
	e.LoopTarget = target
}

// Reset restores runtime loop state to the fresh-open equivalent: hit_loop
// clears, loop_count clears, loop_flag is restored from the original
// (independent of whatever a loop-target event mutated at runtime), and
// every channel's Offset returns to its StartOffset.
func (e *Engine) Reset() {
	e.LoopFlag = e.LoopFlagOriginal
	e.HitLoop = false
	e.LoopCount = 0
	e.CurrentSample = 0
	e.SamplesIntoBlock = 0
	e.loopChannels = nil
	e.emptyStreak = 0
	for i := range e.Ctx.Channels {
		e.Ctx.Channels[i].Offset = e.Ctx.Channels[i].StartOffset
	}
	e.Codec.Reset(e.Ctx)
}

// DoLoop implements decode.c's decode_do_loop: on crossing loop_end it
// restores the snapshot taken at loop_start and reports looped=true (for
// PreservesHistory codecs the current ADPCM history is first copied into
// the snapshot, so it carries over the loop); on
// first crossing loop_start it takes that snapshot. onLoopLayout, if
// non-nil, is invoked after a successful loop-end restore so a
// segmented/layered parent layout can rewind its own child index.
func (e *Engine) DoLoop(onLoopLayout func()) bool {
	if !e.LoopFlag {
		return false
	}

	if e.CurrentSample == e.LoopEndSample {
		e.LoopCount++
		logging.L.Debug("loop end reached", "count", e.LoopCount, "sample", e.CurrentSample)

		if e.HasLoopTarget && e.LoopCount >= e.LoopTarget {
			e.LoopFlag = false
			return false
		}

		if err := e.Codec.Seek(e.Ctx, e.LoopStartSample); err != nil {
			logging.L.Warn("codec seek on loop failed, continuing without relocation", "err", err)
		}

		if e.loopChannels != nil && e.Codec.Capabilities().PreservesHistory {
			for i := range e.loopChannels {
				if i < len(e.Ctx.Channels) {
					e.loopChannels[i].Hist1 = e.Ctx.Channels[i].Hist1
					e.loopChannels[i].Hist2 = e.Ctx.Channels[i].Hist2
					e.loopChannels[i].HistInt1 = e.Ctx.Channels[i].HistInt1
					e.loopChannels[i].HistInt2 = e.Ctx.Channels[i].HistInt2
				}
			}
		}

		if e.loopChannels != nil {
			restored, err := copystructure.Copy(e.loopChannels)
			if err != nil {
				logging.L.Warn("loop channel restore failed", "err", err)
			} else {
				e.Ctx.Channels = restored.([]codec.ChannelState)
			}
		}

		e.CurrentSample = e.LoopStartSample
		e.SamplesIntoBlock = e.loopSamplesIntoBlock

		if onLoopLayout != nil {
			onLoopLayout()
		}
		return true
	}

	if e.CurrentSample == e.LoopStartSample && !e.HitLoop {
		snapshot, err := copystructure.Copy(e.Ctx.Channels)
		if err != nil {
			logging.L.Warn("loop channel snapshot failed", "err", err)
		} else {
			e.loopChannels = snapshot.([]codec.ChannelState)
		}
		e.loopSamplesIntoBlock = e.SamplesIntoBlock
		e.HitLoop = true
	}

	return false
}

// SamplesToDo clamps samplesThisBlock-e.SamplesIntoBlock (the samples
// remaining in the current block) down to: one frame boundary (if
// samplesPerFrame > 1), the loop-end boundary (if looped and not past
// start), and the loop-start boundary (if looped and start not yet hit).
func (e *Engine) SamplesToDo(samplesThisBlock, samplesPerFrame int) int {
	samplesToDo := samplesThisBlock - e.SamplesIntoBlock
	if samplesToDo < 0 {
		samplesToDo = 0
	}

	if samplesPerFrame > 1 {
		intoFrame := e.SamplesIntoBlock % samplesPerFrame
		toBoundary := samplesPerFrame - intoFrame
		if toBoundary < samplesToDo {
			samplesToDo = toBoundary
		}
	}

	if e.LoopFlag {
		if e.CurrentSample < e.LoopEndSample && e.CurrentSample+samplesToDo > e.LoopEndSample {
			samplesToDo = e.LoopEndSample - e.CurrentSample
		}
		if !e.HitLoop && e.CurrentSample < e.LoopStartSample && e.CurrentSample+samplesToDo > e.LoopStartSample {
			samplesToDo = e.LoopStartSample - e.CurrentSample
		}
	}

	if samplesToDo < 0 {
		samplesToDo = 0
	}
	return samplesToDo
}

// Decode drives the codec for samplesToDo samples into dst, starting at
// dst.Filled. For sample-by-sample codecs this is a single DecodeFrame
// call; for internal-buffer codecs (DecodeBuf only) it loops, discarding
// the configured State.Discard count first, and trips MaxEmptyFrames
// deadlock detection by falling back to silence.
func (e *Engine) Decode(dst *sbuf.Buffer, samplesToDo int, st *State) error {
	if samplesToDo <= 0 {
		return nil
	}

	caps := e.Codec.Capabilities()
	switch {
	case caps.HasDecodeFrame:
		before := dst.Filled
		if err := e.Codec.DecodeFrame(e.Ctx, dst, samplesToDo); err != nil {
			logging.L.Warn("decode frame failed, silencing", "err", err)
			dst.SilencePart(before, samplesToDo)
			dst.Filled = before + samplesToDo
		}
		if dst.Filled == before {
			e.emptyStreak++
		} else {
			e.emptyStreak = 0
		}

	case caps.HasDecodeBuf:
		e.decodeViaInternalBuffer(dst, samplesToDo, st)

	default:
		dst.SilencePart(dst.Filled, samplesToDo)
		dst.Filled += samplesToDo
	}

	if e.emptyStreak > MaxEmptyFrames {
		logging.L.Warn("decode deadlock detected, silencing remainder", "streak", e.emptyStreak)
		dst.SilenceRest()
		dst.Filled = dst.Samples
	}

	return nil
}

// decodeViaInternalBuffer pulls from the codec's own buffer (st.Buf),
// discarding st.Discard samples first, copying the rest into dst through
// sbuf.CopySegments (which also performs any needed format conversion).
func (e *Engine) decodeViaInternalBuffer(dst *sbuf.Buffer, samplesToDo int, st *State) {
	remaining := samplesToDo
	for remaining > 0 {
		if st.Buf.Filled == 0 {
			st.Buf.Filled = 0
			st.Buf.Buf = st.Buf.Buf[:0]
			fresh := sbuf.New(st.Buf.Fmt, make([]float64, st.Buf.Channels*st.Buf.Samples), st.Buf.Channels, st.Buf.Samples)
			if err := e.Codec.DecodeBuf(e.Ctx, &fresh); err != nil {
				logging.L.Warn("decode buf failed", "err", err)
			}
			st.Buf = fresh
		}

		if st.Discard > 0 {
			drop := st.Discard
			if drop > st.Buf.Filled {
				drop = st.Buf.Filled
			}
			st.Buf.Consume(drop)
			st.Discard -= drop
			if st.Buf.Filled == 0 {
				e.emptyStreak++
				if e.emptyStreak > MaxEmptyFrames {
					return
				}
				continue
			}
		}

		n := sbuf.GetCopyMax(dst, &st.Buf)
		if n > remaining {
			n = remaining
		}
		if n == 0 {
			e.emptyStreak++
			if e.emptyStreak > MaxEmptyFrames {
				return
			}
			continue
		}
		e.emptyStreak = 0

		sbuf.CopySegments(dst, &st.Buf, n)
		remaining -= n
	}
}
