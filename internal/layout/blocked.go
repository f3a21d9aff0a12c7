package layout

import (
	"encoding/binary"

	"github.com/vgmstream/vgmstream-go/internal/logging"
	"github.com/vgmstream/vgmstream-go/internal/sbuf"
)

// Family names one of the block-header conventions blocked.c dispatches on
// through its block_update function pointer. Only a representative subset
// of vgmstream's two dozen block families is implemented, per SPEC_FULL.md
// §4.4's scoping note -- enough to exercise every shape block_update takes
// (fixed-size no header, length-prefixed header, per-block last-block flag).
type Family int

const (
	// FamilyFixed: constant-size blocks, channels packed consecutively with
	// no per-block header at all (the simplest case blocked.c supports).
	FamilyFixed Family = iota
	// FamilyAST: each block starts with an 8-byte header (4-byte block size,
	// 4-byte per-channel data size) shared by every channel, grounded on
	// meta/ast.c + layout/blocked_ast.c.
	FamilyAST
	// FamilyHALPST: each block starts with a 4-byte sample count followed by
	// a 4-byte "is last block" flag, grounded on layout/blocked_halpst.c.
	FamilyHALPST
)

// Blocked walks a stream made of discrete blocks, each carrying one frame's
// worth of every channel's data plus (depending on Family) a header. It
// mirrors layout/blocked.c's render_vgmstream_blocked: decode within the
// current block's sample budget, and once that budget is exhausted, run the
// family's block_update to locate the next block and reset per-channel
// offsets.
type Blocked struct {
	Common
	Family          Family
	NumSamples      int
	SamplesPerFrame int

	ChannelDataSize int64 // FamilyFixed: fixed per-channel bytes/block

	currentBlockOffset int64
	currentBlockSamples int
	started             bool
}

// NewBlocked builds a Blocked layout starting its block walk at startOffset.
func NewBlocked(c *Common, family Family, numSamples, samplesPerFrame int, channelDataSize, startOffset int64) *Blocked {
	return &Blocked{
		Common: *c, Family: family, NumSamples: numSamples, SamplesPerFrame: samplesPerFrame,
		ChannelDataSize: channelDataSize, currentBlockOffset: startOffset,
	}
}

// blockUpdate parses the block header (if any) at b.currentBlockOffset,
// populates per-channel offsets for this block, sets
// b.currentBlockSamples, and advances b.currentBlockOffset to the next
// block's start. An invalid offset (negative, or the 0xFFFFFFFF sentinel)
// is logged at Warn and ends the stream: the remainder is silenced.
func (b *Blocked) blockUpdate() {
	if b.currentBlockOffset < 0 || b.currentBlockOffset == 0xFFFFFFFF {
		logging.L.Warn("blocked layout: invalid block offset, silencing remainder", "offset", b.currentBlockOffset)
		b.currentBlockSamples = 0
		return
	}
	switch b.Family {
	case FamilyAST:
		var hdr [8]byte
		n, _ := b.Engine.Ctx.Source.ReadAt(hdr[:], b.currentBlockOffset)
		if n < 8 {
			b.currentBlockSamples = 0
			return
		}
		blockSize := int64(binary.BigEndian.Uint32(hdr[0:4]))
		chunkSize := int64(binary.BigEndian.Uint32(hdr[4:8]))
		dataStart := b.currentBlockOffset + 8
		for i := range b.Engine.Ctx.Channels {
			b.Engine.Ctx.Channels[i].Offset = dataStart + int64(i)*chunkSize
		}
		b.currentBlockSamples = int(chunkSize) * 14 / 8 // DSP-ADPCM-style frames/chunk
		b.currentBlockOffset = dataStart + blockSize

	case FamilyHALPST:
		var hdr [8]byte
		n, _ := b.Engine.Ctx.Source.ReadAt(hdr[:], b.currentBlockOffset)
		if n < 8 {
			b.currentBlockSamples = 0
			return
		}
		blockSamples := int32(binary.LittleEndian.Uint32(hdr[0:4]))
		isLast := binary.LittleEndian.Uint32(hdr[4:8])
		if blockSamples <= 0 || isLast != 0 {
			b.currentBlockSamples = 0
			return
		}
		dataStart := b.currentBlockOffset + 32 // fixed HALPST header size
		perChannel := (int64(blockSamples)*4 + 7) / 8
		for i := range b.Engine.Ctx.Channels {
			b.Engine.Ctx.Channels[i].Offset = dataStart + int64(i)*perChannel
		}
		b.currentBlockSamples = int(blockSamples)
		b.currentBlockOffset = dataStart + perChannel*int64(len(b.Engine.Ctx.Channels))

	default: // FamilyFixed
		for i := range b.Engine.Ctx.Channels {
			b.Engine.Ctx.Channels[i].Offset = b.currentBlockOffset + int64(i)*b.ChannelDataSize
		}
		b.currentBlockSamples = int(b.ChannelDataSize) * 14 / 8
		b.currentBlockOffset += b.ChannelDataSize * int64(len(b.Engine.Ctx.Channels))
	}
}

func (b *Blocked) Render(dst *sbuf.Buffer, sampleCount int) (int, error) {
	done := 0
	for done < sampleCount {
		if !b.started || b.Engine.SamplesIntoBlock >= b.currentBlockSamples {
			b.blockUpdate()
			b.Engine.SamplesIntoBlock = 0
			b.started = true
			if b.currentBlockSamples == 0 {
				dst.SilencePart(dst.Filled, sampleCount-done)
				dst.Filled += sampleCount - done
				done = sampleCount
				break
			}
		}

		samplesToDo := b.decodeStep(dst, b.currentBlockSamples, b.SamplesPerFrame)
		if samplesToDo == 0 {
			dst.SilencePart(dst.Filled, sampleCount-done)
			dst.Filled += sampleCount - done
			done = sampleCount
			break
		}
		done += samplesToDo

		b.Engine.DoLoop(func() {
			b.started = false
		})
	}
	return done, nil
}

func (b *Blocked) Reset() {
	b.Engine.Reset()
	b.started = false
	b.currentBlockSamples = 0
}
