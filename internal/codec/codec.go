// Package codec implements the per-codec decode trait and the tag-keyed
// dispatch registry. Each codec exposes at most six entry points mirroring
// the C source's function-pointer table: SampleType, DecodeFrame/DecodeBuf
// (at most one implemented), Reset, Seek, Close.
package codec

import (
	"errors"
	"sync"

	"github.com/vgmstream/vgmstream-go/internal/sbuf"
)

// ErrUnsupportedCodec is returned when a codec tag has no registration, or a
// registration rejects the stream's sample format/channel combination.
var ErrUnsupportedCodec = errors.New("vgmstream: unsupported codec")

// ChannelState is a per-channel cursor into the container plus any ADPCM
// running history a sample-by-sample codec needs. It is snapshotted by the
// decode/loop engine (internal/decodeengine) into a parallel loop-channel
// array on entering the loop region, and restored from it on loop-end.
type ChannelState struct {
	Offset      int64 // current byte offset
	StartOffset int64 // channel-start byte offset, restored on Reset
	Hist1       int16
	Hist2       int16
	HistInt1    int32
	HistInt2    int32
}

// ByteSource is the minimal read contract a codec needs from the container;
// satisfied by streamfile.File (kept separate to avoid codec depending on
// the streamfile package).
type ByteSource interface {
	ReadAt(buf []byte, offset int64) (int, error)
}

// Context is the per-stream state a codec decodes against: the backing byte
// source, one ChannelState per channel, and stream-level parameters a codec
// needs to interpret its bytes (frame size in this container, sample rate).
// Layouts mutate Channels' Offset fields as they walk the container;
// codecs read current Offset and may advance it (block/frame codecs with an
// internal buffer) or leave offset movement entirely to the layout
// (sample-by-sample codecs, the common case).
type Context struct {
	Source     ByteSource
	Channels   []ChannelState
	SampleRate int
	FrameSize  int // codec/container-specific: bytes per channel per frame
}

// Codec is the per-codec decode trait. A concrete codec implements either
// DecodeFrame or DecodeBuf, never both; the other is a no-op that returns
// nil, and Capabilities reports which of the two is real.
type Codec interface {
	// Tag identifies the codec in the registry and in stream-info surfaces.
	Tag() string

	// SampleType returns the codec's intrinsic sample format. May depend on
	// ctx (some codecs emit float only for certain channel configurations).
	SampleType(ctx *Context) sbuf.Format

	// Capabilities reports which optional entry points this codec provides.
	Capabilities() Capabilities

	// DecodeFrame decodes exactly one frame's samples per channel into
	// dst (the decode state's owned sbuf), using and updating per-channel
	// state in ctx.Channels. Used by sample-by-sample codecs; the outer
	// layout has already clamped samplesToDo to one frame.
	DecodeFrame(ctx *Context, dst *sbuf.Buffer, samplesToDo int) error

	// DecodeBuf fully populates dst in one shot from ctx's current channel
	// offsets, for codecs with an internal decode buffer (e.g. block
	// transform codecs). Mutually exclusive with DecodeFrame.
	DecodeBuf(ctx *Context, dst *sbuf.Buffer) error

	// Reset clears any internal decode state (but not ChannelState, which
	// the layout/decode engine owns) back to a fresh-open equivalent.
	Reset(ctx *Context)

	// Seek relocates codec-internal state to sample. Only meaningful for
	// codecs whose Capabilities().Seekable is true; others are driven via
	// reset + decode-and-discard by the decode engine.
	Seek(ctx *Context, sample int) error

	// Close releases codec-private resources (lookup tables, etc).
	Close()
}

// Capabilities describes which optional entry points and behavioural flags
// a codec declares.
type Capabilities struct {
	HasDecodeFrame bool
	HasDecodeBuf   bool
	// Seekable, if true, means Seek accepts an arbitrary sample position;
	// otherwise the decode engine degrades seeking to reset + decode-and-
	// discard.
	Seekable bool
	// PreservesHistory marks the short allow-list of codecs (DSP family,
	// PSX family, PSX-with-bad-flags) whose ADPCM history must be
	// explicitly snapshotted into loop-channel descriptors by the loop
	// engine, because history is not otherwise implicit in the stream
	// cursor alone.
	PreservesHistory bool
	// InternalOffsetUpdates marks codecs that move ctx.Channels[i].Offset
	// themselves during DecodeFrame/DecodeBuf (today only MS-IMA). When this
	// is true the interleave layout sets no channel offsets at block
	// boundaries and leaves them entirely to the codec. Default false:
	// "layout moves offsets".
	InternalOffsetUpdates bool
	// SamplesPerFrame is the codec's fixed samples-per-frame, or 0 meaning
	// "variable / ask the codec" -- the decode loop must not pre-clamp
	// samplesToDo to a frame boundary when this is 0.
	SamplesPerFrame int
	// FrameSize is the fixed compressed bytes per channel per frame, used
	// by layouts to compute samples-per-block; 0 has the same "ask the
	// codec" meaning as SamplesPerFrame == 0.
	FrameSize int
}

// Factory builds a fresh Codec instance bound to channels many channels.
// Codecs are re-instantiated per stream (and per segmented/layered child)
// so none may hold cross-stream state.
type Factory func(channels int) Codec

var (
	registryMu sync.Mutex
	registry   = map[string]Factory{}
)

// Register adds tag to the dispatch registry. Re-registering an existing
// tag replaces it; used by tests to install fixture codecs.
func Register(tag string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[tag] = f
}

// New builds a codec for tag via its registered factory. Returns
// ErrUnsupportedCodec if tag was never registered.
func New(tag string, channels int) (Codec, error) {
	registryMu.Lock()
	f, ok := registry[tag]
	registryMu.Unlock()
	if !ok {
		return nil, ErrUnsupportedCodec
	}
	return f(channels), nil
}

// Known reports whether tag has a registered factory, without constructing
// a codec; used by format probes to validate a container's codec tag early.
func Known(tag string) bool {
	registryMu.Lock()
	defer registryMu.Unlock()
	_, ok := registry[tag]
	return ok
}

var initOnce sync.Once

// InitOnce runs the one legitimate process-wide side effect the spec
// permits: lazy one-time initialisation of any optional third-party codec
// library global tables. Safe to call repeatedly; only the first call's
// fn runs. Called by the root package's Open on first invocation.
func InitOnce(fn func()) {
	initOnce.Do(fn)
}
