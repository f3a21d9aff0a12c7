package codec

import (
	"github.com/vgmstream/vgmstream-go/internal/sbuf"
)

func init() {
	Register(TagPSX, func(channels int) Codec { return newPSX(channels) })
}

const (
	psxBytesPerBlock   = 16
	psxSamplesPerBlock = 28
)

// psxFilterCoefs are the five fixed-point predictor pairs (numerator/64)
// Sony's ADPCM uses; unlike DSP-ADPCM the table is a codec constant, not
// per-file header data.
var psxFilterCoefs = [5][2]int32{
	{0, 0},
	{60, 0},
	{115, -52},
	{98, -55},
	{122, -60},
}

// psx implements PlayStation (VAG) ADPCM: 16-byte blocks of one header byte
// (predictor nibble, shift nibble), one flag byte (loop markers, unused by
// the decode arithmetic itself), and 14 bytes of packed 4-bit samples
// producing 28 samples/channel/block. Part of the preserve-history set: the
// loop engine snapshots Hist1/Hist2 explicitly rather than relying on the
// stream cursor alone (the PSX-badflags variant shares this decoder but
// treats the flag byte's loop bits differently, which the layout layer,
// not the codec, is responsible for).
type psx struct {
	channels int
}

func newPSX(channels int) *psx { return &psx{channels: channels} }

func (p *psx) Tag() string                    { return TagPSX }
func (p *psx) SampleType(*Context) sbuf.Format { return sbuf.FormatS16 }
func (p *psx) Close()                         {}

func (p *psx) Capabilities() Capabilities {
	return Capabilities{
		HasDecodeFrame:   true,
		PreservesHistory: true,
		SamplesPerFrame:  psxSamplesPerBlock,
		FrameSize:        psxBytesPerBlock,
	}
}

func (p *psx) Reset(ctx *Context) {
	for i := range ctx.Channels {
		ctx.Channels[i].Hist1 = 0
		ctx.Channels[i].Hist2 = 0
	}
}

func (p *psx) Seek(*Context, int) error { return nil }

func (p *psx) DecodeFrame(ctx *Context, dst *sbuf.Buffer, samplesToDo int) error {
	if samplesToDo > psxSamplesPerBlock {
		samplesToDo = psxSamplesPerBlock
	}

	block := make([]byte, psxBytesPerBlock)
	for c := 0; c < p.channels && c < len(ctx.Channels); c++ {
		ch := &ctx.Channels[c]
		n, err := ctx.Source.ReadAt(block, ch.Offset)
		if n < psxBytesPerBlock || err != nil {
			for s := 0; s < samplesToDo; s++ {
				dst.Buf[(dst.Filled+s)*dst.Channels+c] = 0
			}
			continue
		}

		predictor := int(block[0]>>4) % len(psxFilterCoefs)
		shift := int(block[0] & 0x0F)
		coef1, coef2 := psxFilterCoefs[predictor][0], psxFilterCoefs[predictor][1]

		hist1, hist2 := int32(ch.Hist1), int32(ch.Hist2)

		for s := 0; s < samplesToDo; s++ {
			byteIdx := 2 + s/2
			var nibble int32
			if s%2 == 0 {
				nibble = int32(int8(block[byteIdx]<<4) >> 4)
			} else {
				nibble = int32(int8(block[byteIdx]) >> 4)
			}

			sample := (nibble << uint(12-shift))
			sample = (sample + coef1*hist1 + coef2*hist2) >> 6
			sample = clampS16(sample)

			dst.Buf[(dst.Filled+s)*dst.Channels+c] = float64(sample)

			hist2 = hist1
			hist1 = sample
		}

		ch.Hist1 = int16(hist1)
		ch.Hist2 = int16(hist2)
		ch.Offset += psxBytesPerBlock
	}

	dst.Filled += samplesToDo
	return nil
}

func (p *psx) DecodeBuf(*Context, *sbuf.Buffer) error { return nil }
