// Package sbuf implements the typed interleaved sample buffer shared by the
// codec, layout, and mixer layers. A Buffer is a non-owning view over a
// caller-provided slice: it never allocates on its own, so a single
// descriptor can be passed by reference between layout, codec and mixer
// without a per-frame allocation.
package sbuf

import (
	"math"

	"golang.org/x/exp/slices"
)

// Format tags the sample representation held by a Buffer.
type Format int

const (
	// FormatNone marks an unbound Buffer.
	FormatNone Format = iota
	// FormatS16 is little-endian int16, interleaved.
	FormatS16
	// FormatF16 is float scaled to the S16 range (±32767); internal only.
	FormatF16
	// FormatFLT is standard IEEE float, ±1.0 nominal.
	FormatFLT
	// FormatS24 is 24-bit signed PCM held in a 32-bit lane, sign-extended.
	FormatS24
	// FormatS32 is 32-bit signed PCM.
	FormatS32
	// FormatO24 is 24-bit signed PCM packed 3 bytes per sample, for output.
	FormatO24
)

// SampleSize returns the in-memory width, in bytes, of one channel sample in
// the given format. O24 is the packed-output exception at 3 bytes.
func (f Format) SampleSize() int {
	switch f {
	case FormatS16, FormatF16:
		return 2
	case FormatO24:
		return 3
	case FormatFLT, FormatS24, FormatS32:
		return 4
	default:
		return 0
	}
}

// Buffer is a typed, interleaved sample view: (format, raw backing slice,
// channel count, sample capacity, filled count). Invariants: Filled <=
// Samples; Channels >= 1.
//
// The backing storage is held as a float64 slice regardless of Format so a
// single Go type can represent every format the codecs and mixer touch;
// Format only changes how values are interpreted when copying/converting.
// No byte-packed view is provided: every layer, the public API included,
// exchanges float64 samples.
type Buffer struct {
	Fmt      Format
	Buf      []float64
	Channels int
	Samples  int
	Filled   int
}

// New binds buf (len >= channels*samples) as a Buffer of the given format.
func New(fmt Format, buf []float64, channels, samples int) Buffer {
	return Buffer{Fmt: fmt, Buf: buf, Channels: channels, Samples: samples}
}

// NewFilled is like New but marks the buffer as already holding filled
// samples (used when a codec hands back a fully decoded internal buffer).
func NewFilled(fmt Format, buf []float64, channels, samples, filled int) Buffer {
	return Buffer{Fmt: fmt, Buf: buf, Channels: channels, Samples: samples, Filled: filled}
}

// Consume advances the buffer's base pointer by n samples, losing the
// original base (the caller is expected to have kept it), and decrements
// Filled by n. It is the Go analogue of pointer arithmetic on sbuf_t.buf.
func (b *Buffer) Consume(n int) {
	if n <= 0 {
		return
	}
	off := n * b.Channels
	if off > len(b.Buf) {
		off = len(b.Buf)
	}
	b.Buf = b.Buf[off:]
	b.Samples -= n
	b.Filled -= n
	if b.Filled < 0 {
		b.Filled = 0
	}
}

// SilenceRest zero-fills the unfilled tail of the buffer, from Filled to
// Samples, and does not change Filled (callers update Filled separately when
// the silence is meant to count as produced samples).
func (b *Buffer) SilenceRest() {
	start := b.Filled * b.Channels
	end := b.Samples * b.Channels
	if start < 0 {
		start = 0
	}
	if end > len(b.Buf) {
		end = len(b.Buf)
	}
	for i := start; i < end; i++ {
		b.Buf[i] = 0
	}
}

// SilencePart zero-fills [from, from+n) samples (per channel), regardless of
// Filled, used by the render pipeline's pad-begin/pad-end steps.
func (b *Buffer) SilencePart(from, n int) {
	start := from * b.Channels
	end := (from + n) * b.Channels
	if start < 0 {
		start = 0
	}
	if end > len(b.Buf) {
		end = len(b.Buf)
	}
	for i := start; i < end; i++ {
		b.Buf[i] = 0
	}
}

// GetCopyMax returns min(dst.Samples-dst.Filled, src.Filled): the largest
// number of samples a CopySegments call between dst and src can move.
func GetCopyMax(dst, src *Buffer) int {
	room := dst.Samples - dst.Filled
	return min(room, src.Filled)
}

// CopySegments copies n samples from src into dst, converting between
// formats when their sample widths match (S16<->F16, S24<->S32) and scaling
// F16<->FLT (by 32767) and S32<->O24 (by 8 bits). Every other pair, S16->FLT
// and S16<->S24 included, is copied unscaled.
// dst.Filled increases by n, src.Filled decreases by n.
func CopySegments(dst, src *Buffer, n int) {
	if n <= 0 {
		return
	}
	ch := min(dst.Channels, src.Channels)
	dstOff := dst.Filled * dst.Channels
	srcOff := 0

	conv := convertFunc(src.Fmt, dst.Fmt)
	for s := 0; s < n; s++ {
		for c := 0; c < ch; c++ {
			v := src.Buf[srcOff+s*src.Channels+c]
			dst.Buf[dstOff+s*dst.Channels+c] = conv(v)
		}
	}

	dst.Filled += n
	src.Consume(n)
}

// CopyLayers places n samples of src's channels into dst starting at channel
// dstChStart, used by the layered layout to stitch per-layer buffers into
// the combined output. dst.Filled is not modified by this call; the caller
// (layout/layered.go) advances it once after all layers have been copied.
func CopyLayers(dst, src *Buffer, dstChStart, n int) {
	conv := convertFunc(src.Fmt, dst.Fmt)
	for s := 0; s < n; s++ {
		for c := 0; c < src.Channels; c++ {
			v := src.Buf[s*src.Channels+c]
			dst.Buf[s*dst.Channels+dstChStart+c] = conv(v)
		}
	}
}

// Fadeout multiplies to_do samples, starting at sample index `start` within
// the buffer, by a linear gain `(fadeDuration-fadePos)/fadeDuration` that
// decreases across the call -- used by the render pipeline's final fade-out
// pass over already-mixed output (the mixer's fade op computes its own
// gains).
func Fadeout(b *Buffer, start, toDo int, fadePos, fadeDuration int) {
	if fadeDuration <= 0 {
		return
	}
	for s := 0; s < toDo; s++ {
		gain := float64(fadeDuration-(fadePos+s)) / float64(fadeDuration)
		if gain < 0 {
			gain = 0
		}
		off := (start + s) * b.Channels
		for c := 0; c < b.Channels; c++ {
			b.Buf[off+c] *= gain
		}
	}
}

// Clone returns a deep copy of the buffer's backing storage. Nothing in the
// module calls it; the render pipeline's trim-begin discard allocates its
// own buffer.
func (b Buffer) Clone() Buffer {
	out := b
	out.Buf = slices.Clone(b.Buf)
	return out
}

func convertFunc(from, to Format) func(float64) float64 {
	if from == to {
		return func(v float64) float64 { return v }
	}
	switch {
	case from == FormatF16 && to == FormatFLT:
		return func(v float64) float64 { return v / 32767.0 }
	case from == FormatFLT && to == FormatF16:
		return func(v float64) float64 { return v * 32767.0 }
	case from == FormatS32 && to == FormatO24:
		return func(v float64) float64 { return math.Trunc(v / 256.0) }
	case from == FormatO24 && to == FormatS32:
		return func(v float64) float64 { return v * 256.0 }
	case from == FormatS16 && to == FormatS24, from == FormatS24 && to == FormatS16:
		return func(v float64) float64 { return v }
	default:
		return func(v float64) float64 { return v }
	}
}
