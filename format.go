package vgmstream

// ChannelLayout is a bitmask of named speaker positions, one bit per
// position, matching the source's channel_mask_t convention and the
// WAVEFORMATEXTENSIBLE speaker mask it mirrors (see `channel_mappings.h`).
type ChannelLayout uint32

const (
	ChannelFrontLeft ChannelLayout = 1 << iota
	ChannelFrontRight
	ChannelFrontCenter
	ChannelLFE
	ChannelBackLeft
	ChannelBackRight
	ChannelFrontLeftOfCenter
	ChannelFrontRightOfCenter
	ChannelBackCenter
	ChannelSideLeft
	ChannelSideRight
	ChannelTopCenter
)

// StreamFormat is the read-only metadata describing an opened stream:
// channel/rate/sample-count facts plus the loop region a caller may want to
// display, independent of whatever PlayConfig is currently applied.
//
// get_format's full contract (SPEC_FULL.md §4.8/§6) also lists meta_name,
// stream_name, and bitrate; this module's representative probers parse only
// the minimal header their synthetic container needs and never populate a
// metadata-source name, free-form stream name, or bitrate, so those three
// are intentionally left off rather than surfaced as always-empty/always-zero
// fields. LayoutName and FormatID are cheap to derive from what Open already
// resolves, so they are kept.
type StreamFormat struct {
	Channels      int
	ChannelLayout ChannelLayout
	SampleRate    int
	NumSamples    int // unlooped body length
	LoopFlag      bool
	LoopStart     int
	LoopEnd       int
	CodecTag      string

	// LayoutName names the layout walker buildLayout picked ("flat" or
	// "interleave").
	LayoutName string
	// FormatID is the container magic buildLayout's prober matched, packed
	// big-endian into a uint32 (e.g. "VSPC" -> 0x56535043), standing in for
	// the source's per-format integer identifier.
	FormatID uint32
}
