package codec

import (
	"encoding/binary"

	"github.com/vgmstream/vgmstream-go/internal/sbuf"
)

func init() {
	Register(TagMSIMA, func(channels int) Codec { return newMSIMA(channels) })
}

// imaStepTable and imaIndexTable are the standard IMA-ADPCM step size and
// index adjustment tables.
var imaStepTable = [89]int32{
	7, 8, 9, 10, 11, 12, 13, 14, 16, 17, 19, 21, 23, 25, 28, 31, 34, 37, 41, 45,
	50, 55, 60, 66, 73, 80, 88, 97, 107, 118, 130, 143, 157, 173, 190, 209, 230,
	253, 279, 307, 337, 371, 408, 449, 494, 544, 598, 658, 724, 796, 876, 963,
	1060, 1166, 1282, 1411, 1552, 1707, 1878, 2066, 2272, 2499, 2749, 3024,
	3327, 3660, 4026, 4428, 4871, 5358, 5894, 6484, 7132, 7845, 8630, 9493,
	10442, 11487, 12635, 13899, 15289, 16818, 18500, 20350, 22385, 24623,
	27086, 29794, 32767,
}

var imaIndexTable = [16]int32{-1, -1, -1, -1, 2, 4, 6, 8, -1, -1, -1, -1, 2, 4, 6, 8}

// msima implements Microsoft IMA-ADPCM in its whole-block interleaved form:
// a per-channel 4-byte header (predictor sample, step index) at the start
// of each block, followed by nibbles interleaved channel-by-channel across
// the block. Because the codec itself must walk across all channels'
// nibbles to decode any one channel's samples, it advances
// ctx.Channels[i].Offset directly instead of leaving that to the
// interleave layout -- the only codec in this implementation with
// Capabilities().InternalOffsetUpdates == true (see SPEC_FULL.md §9).
type msima struct {
	channels  int
	predictor []int32
	stepIndex []int32
}

func newMSIMA(channels int) *msima {
	return &msima{channels: channels, predictor: make([]int32, channels), stepIndex: make([]int32, channels)}
}

const msimaBlockHeaderBytes = 4

func (m *msima) Tag() string                    { return TagMSIMA }
func (m *msima) SampleType(*Context) sbuf.Format { return sbuf.FormatS16 }
func (m *msima) Close()                         {}

func (m *msima) Capabilities() Capabilities {
	return Capabilities{
		HasDecodeFrame:        true,
		InternalOffsetUpdates: true,
		SamplesPerFrame:       0, // variable: block size depends on container-declared block align
	}
}

func (m *msima) Reset(ctx *Context) {
	for i := range m.predictor {
		m.predictor[i] = 0
		m.stepIndex[i] = 0
	}
}

func (m *msima) Seek(*Context, int) error { return nil }

// DecodeFrame reads one block header (if at a block boundary) then decodes
// samplesToDo nibbles per channel, advancing offsets itself.
func (m *msima) DecodeFrame(ctx *Context, dst *sbuf.Buffer, samplesToDo int) error {
	hdr := make([]byte, msimaBlockHeaderBytes)
	for c := 0; c < m.channels && c < len(ctx.Channels); c++ {
		ch := &ctx.Channels[c]

		if ch.Offset == ch.StartOffset {
			n, err := ctx.Source.ReadAt(hdr, ch.Offset)
			if n < msimaBlockHeaderBytes || err != nil {
				dst.SilencePart(dst.Filled, samplesToDo)
				continue
			}
			m.predictor[c] = int32(int16(binary.LittleEndian.Uint16(hdr[0:2])))
			m.stepIndex[c] = int32(hdr[2])
			ch.Offset += msimaBlockHeaderBytes
		}

		nibbleBuf := make([]byte, 1)
		pred, idx := m.predictor[c], m.stepIndex[c]

		for s := 0; s < samplesToDo; s++ {
			n, err := ctx.Source.ReadAt(nibbleBuf, ch.Offset)
			if n < 1 || err != nil {
				dst.Buf[(dst.Filled+s)*dst.Channels+c] = float64(pred)
				continue
			}

			step := imaStepTable[idx]
			code := int32(nibbleBuf[0] & 0x0F)

			diff := step >> 3
			if code&4 != 0 {
				diff += step
			}
			if code&2 != 0 {
				diff += step >> 1
			}
			if code&1 != 0 {
				diff += step >> 2
			}
			if code&8 != 0 {
				pred -= diff
			} else {
				pred += diff
			}
			pred = clampS16(pred)

			idx += imaIndexTable[code]
			if idx < 0 {
				idx = 0
			}
			if idx > 88 {
				idx = 88
			}

			dst.Buf[(dst.Filled+s)*dst.Channels+c] = float64(pred)
			ch.Offset++
		}

		m.predictor[c], m.stepIndex[c] = pred, idx
	}

	dst.Filled += samplesToDo
	return nil
}

func (m *msima) DecodeBuf(*Context, *sbuf.Buffer) error { return nil }
