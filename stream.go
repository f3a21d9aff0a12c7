package vgmstream

import (
	"github.com/vgmstream/vgmstream-go/internal/codec"
	"github.com/vgmstream/vgmstream-go/internal/decodeengine"
	"github.com/vgmstream/vgmstream-go/internal/layout"
	"github.com/vgmstream/vgmstream-go/internal/mixer"
	"github.com/vgmstream/vgmstream-go/internal/render"
	"github.com/vgmstream/vgmstream-go/internal/sbuf"
	"github.com/vgmstream/vgmstream-go/streamfile"
)

// maxBlockSamples bounds the internal scratch/mix buffer size, matching
// VGMSTREAM_LAYER_SAMPLE_BUFFER's role as the source's default internal
// chunk size.
const maxBlockSamples = 8192

// Stream is an opened, playable audio stream: the public handle returned by
// Open, wrapping the internal codec/decode-engine/layout/mixer/render stack
// described in SPEC_FULL.md §2.
type Stream struct {
	sf     streamfile.StreamFile
	ctx    *codec.Context
	c      codec.Codec
	engine *decodeengine.Engine
	pipe   *render.Pipeline
	format StreamFormat

	done bool // set by Fill once the underlying stream has run dry
}

// Open probes path's container, builds the matching codec/layout stack, and
// returns a ready-to-render Stream. Callers must Close it.
func Open(path string) (*Stream, error) {
	codec.InitOnce(func() {})

	sf, err := streamfile.OpenFile(path)
	if err != nil {
		return nil, &DecodeError{Err: ErrIO}
	}

	res, err := probeFormat(sf)
	if err != nil {
		sf.Close()
		return nil, err
	}

	if !codec.Known(res.CodecTag) {
		sf.Close()
		return nil, ErrUnsupportedCodec
	}
	c, err := codec.New(res.CodecTag, res.Channels)
	if err != nil {
		sf.Close()
		return nil, err
	}

	channels := make([]codec.ChannelState, res.Channels)
	for i := range channels {
		channels[i].Offset = res.DataOffset
		channels[i].StartOffset = res.DataOffset
	}
	ctx := &codec.Context{
		Source: sf, Channels: channels, SampleRate: res.SampleRate, FrameSize: res.FrameSize,
	}

	engine := decodeengine.NewEngine(c, ctx, res.LoopFlag, res.LoopStart, res.LoopEnd)

	sampleFmt := c.SampleType(ctx)
	state := &decodeengine.State{
		Buf: sbuf.New(sampleFmt, make([]float64, res.Channels*maxBlockSamples), res.Channels, maxBlockSamples),
	}
	com := layout.NewCommon(engine, c, state, res.Channels)
	l, layoutName := buildLayout(com, res)

	m := mixer.New(res.Channels)
	pipe := render.New(l, m, res.Channels, res.SampleRate, sbuf.FormatFLT, res.NumSamples, res.LoopFlag, maxBlockSamples)
	pipe.Config.LoopStartSample = res.LoopStart
	pipe.Config.LoopEndSample = res.LoopEnd

	s := &Stream{
		sf: sf, ctx: ctx, c: c, engine: engine, pipe: pipe,
		format: StreamFormat{
			Channels: res.Channels, SampleRate: res.SampleRate, NumSamples: res.NumSamples,
			LoopFlag: res.LoopFlag, LoopStart: res.LoopStart, LoopEnd: res.LoopEnd,
			CodecTag: res.CodecTag, LayoutName: layoutName, FormatID: res.FormatID,
		},
	}
	return s, nil
}

// Close releases the codec and underlying file resources.
func (s *Stream) Close() error {
	s.c.Close()
	return s.sf.Close()
}

// Format returns the stream's static metadata.
func (s *Stream) Format() StreamFormat { return s.format }

// PlayPosition returns the current play-position sample index.
func (s *Stream) PlayPosition() int { return s.pipe.PlayPosition() }
