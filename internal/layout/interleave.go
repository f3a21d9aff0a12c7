package layout

import "github.com/vgmstream/vgmstream-go/internal/sbuf"

// Interleave walks a stream whose channels are stored as fixed-size,
// per-channel byte blocks laid end to end (channel 0's block, then channel
// 1's, ...), repeating. Grounded on layout/interleave.c's
// render_vgmstream_interleave, which re-derives each channel's start offset
// at every block boundary instead of trusting the codec to track it -- except
// for the internal-offset-updating codec family (MS-IMA), which advances its
// own ctx.Channels[i].Offset and must not be second-guessed here (the same
// InternalOffsetUpdates capability flag decode.c and here both branch on).
//
// Simplification: only the stream's last block may be short (fewer samples
// than BlockSamples); every other block -- including the first -- is assumed
// BlockBytes wide per channel, matching the common case in practice.
type Interleave struct {
	Common
	NumSamples      int
	SamplesPerFrame int
	BlockSamples    int
	BlockBytes      int64
	StartOffset     int64
}

// NewInterleave builds an Interleave layout.
func NewInterleave(c *Common, numSamples, samplesPerFrame, blockSamples int, blockBytes, startOffset int64) *Interleave {
	return &Interleave{
		Common: *c, NumSamples: numSamples, SamplesPerFrame: samplesPerFrame,
		BlockSamples: blockSamples, BlockBytes: blockBytes, StartOffset: startOffset,
	}
}

func (l *Interleave) updatesOwnOffsets() bool {
	return l.Codec.Capabilities().InternalOffsetUpdates
}

func (l *Interleave) setBlockOffsets(blockIndex int) {
	if l.updatesOwnOffsets() {
		return
	}
	base := l.StartOffset + int64(blockIndex)*l.BlockBytes*int64(l.Channels)
	for i := range l.Engine.Ctx.Channels {
		l.Engine.Ctx.Channels[i].Offset = base + int64(i)*l.BlockBytes
	}
}

func (l *Interleave) Render(dst *sbuf.Buffer, sampleCount int) (int, error) {
	done := 0
	for done < sampleCount {
		if l.Engine.SamplesIntoBlock == 0 {
			blockIndex := l.Engine.CurrentSample / l.BlockSamples
			l.setBlockOffsets(blockIndex)
		}

		blockRemaining := l.NumSamples - l.Engine.CurrentSample
		if blockRemaining > l.BlockSamples-l.Engine.SamplesIntoBlock {
			blockRemaining = l.BlockSamples - l.Engine.SamplesIntoBlock
		}
		samplesThisBlock := l.Engine.SamplesIntoBlock + blockRemaining

		samplesToDo := l.decodeStep(dst, samplesThisBlock, l.SamplesPerFrame)
		if samplesToDo == 0 {
			dst.SilencePart(dst.Filled, sampleCount-done)
			dst.Filled += sampleCount - done
			done = sampleCount
			break
		}
		done += samplesToDo

		if l.Engine.SamplesIntoBlock >= l.BlockSamples {
			l.Engine.SamplesIntoBlock = 0
		}

		l.Engine.DoLoop(func() {
			l.Engine.SamplesIntoBlock = 0
		})
	}
	return done, nil
}

func (l *Interleave) Reset() {
	l.Engine.Reset()
}
