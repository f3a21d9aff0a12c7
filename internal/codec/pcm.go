package codec

import (
	"encoding/binary"

	"github.com/vgmstream/vgmstream-go/internal/sbuf"
)

func init() {
	Register(TagPCM16, func(channels int) Codec { return &pcm16{channels: channels} })
	Register(TagPCM8, func(channels int) Codec { return &pcm8{channels: channels} })
}

// Codec tags for the representative codecs this implementation registers.
// The full vgmstream source dispatches ~80 tags through the same mechanism;
// this is the subset needed to exercise every layout/loop-engine path named
// by the specification.
const (
	TagPCM16 = "PCM16"
	TagPCM8  = "PCM8"
	TagDSP   = "NGC_DSP"
	TagPSX   = "PSX"
	TagMSIMA = "MS_IMA"
)

// pcm16 is the simplest "block codec with an internal buffer" family member:
// it reads raw little-endian int16 directly into an external sbuf in one
// DecodeBuf call, performing no conversion beyond byte order.
type pcm16 struct {
	channels int
}

func (p *pcm16) Tag() string                          { return TagPCM16 }
func (p *pcm16) SampleType(*Context) sbuf.Format       { return sbuf.FormatS16 }
func (p *pcm16) Reset(*Context)                        {}
func (p *pcm16) Seek(ctx *Context, sample int) error   { return seekByByteOffset(ctx, sample, 2) }
func (p *pcm16) Close()                                {}
func (p *pcm16) Capabilities() Capabilities {
	return Capabilities{HasDecodeBuf: true, Seekable: true, FrameSize: 2, SamplesPerFrame: 1}
}

func (p *pcm16) DecodeFrame(*Context, *sbuf.Buffer, int) error { return nil }

func (p *pcm16) DecodeBuf(ctx *Context, dst *sbuf.Buffer) error {
	want := dst.Samples - dst.Filled
	buf := make([]byte, 2)
	for s := 0; s < want; s++ {
		for c := 0; c < p.channels && c < len(ctx.Channels); c++ {
			ch := &ctx.Channels[c]
			n, err := ctx.Source.ReadAt(buf, ch.Offset)
			if n < 2 || err != nil {
				dst.SilenceRest()
				dst.Filled = dst.Samples
				return nil
			}
			v := int16(binary.LittleEndian.Uint16(buf))
			dst.Buf[(dst.Filled)*dst.Channels+c] = float64(v)
			ch.Offset += 2
		}
		dst.Filled++
	}
	return nil
}

// pcm8 is pcm16's 8-bit sibling. With unsigned set it follows the source's
// coding_PCM8_U_int handling (stored 0..255, centred to -128..127); the
// registered TagPCM8 factory leaves unsigned false, so it decodes signed
// 8-bit samples.
type pcm8 struct {
	channels int
	unsigned bool
}

func (p *pcm8) Tag() string                        { return TagPCM8 }
func (p *pcm8) SampleType(*Context) sbuf.Format     { return sbuf.FormatS16 }
func (p *pcm8) Reset(*Context)                      {}
func (p *pcm8) Seek(ctx *Context, sample int) error { return seekByByteOffset(ctx, sample, 1) }
func (p *pcm8) Close()                              {}
func (p *pcm8) Capabilities() Capabilities {
	return Capabilities{HasDecodeBuf: true, Seekable: true, FrameSize: 1, SamplesPerFrame: 1}
}

func (p *pcm8) DecodeFrame(*Context, *sbuf.Buffer, int) error { return nil }

func (p *pcm8) DecodeBuf(ctx *Context, dst *sbuf.Buffer) error {
	want := dst.Samples - dst.Filled
	buf := make([]byte, 1)
	for s := 0; s < want; s++ {
		for c := 0; c < p.channels && c < len(ctx.Channels); c++ {
			ch := &ctx.Channels[c]
			n, err := ctx.Source.ReadAt(buf, ch.Offset)
			if n < 1 || err != nil {
				dst.SilenceRest()
				dst.Filled = dst.Samples
				return nil
			}
			var v int16
			if p.unsigned {
				v = int16(int(buf[0])-128) << 8
			} else {
				v = int16(int8(buf[0])) << 8
			}
			dst.Buf[(dst.Filled)*dst.Channels+c] = float64(v)
			ch.Offset++
		}
		dst.Filled++
	}
	return nil
}

// seekByByteOffset relocates every channel's cursor to StartOffset plus
// sample*frameBytes, the simple case for constant-bitrate PCM where the
// byte position is an affine function of the sample index. Codecs with
// compressed/variable framing (ADPCM, etc) cannot use this and instead
// report Seekable: false so the engine falls back to reset+discard.
func seekByByteOffset(ctx *Context, sample, frameBytes int) error {
	for i := range ctx.Channels {
		ctx.Channels[i].Offset = ctx.Channels[i].StartOffset + int64(sample*frameBytes)
	}
	return nil
}
