package vgmstream

// PlayConfig is the public play-region configuration: pad/trim/fade/loop
// settings expressed in samples, translated into an internal
// render.Config by Stream.Configure. Mirrors play_config_t's public fields
// (base/render.c), minus the txtp-only modifiers out of this spec's scope.
type PlayConfig struct {
	// LoopFlag overrides the stream's own loop flag when non-nil (true
	// forces looping on even for a non-looping stream with LoopStart/
	// LoopEnd set manually; false disables an inherent loop).
	LoopFlag *bool

	// LoopCount stops looping after this many passes through the loop
	// region and continues decoding into the stream's natural outro,
	// instead of looping forever or fading inside the loop.
	LoopCount int // 0: use FadeSamples/ignore (loop forever until fade)

	PadBeginSamples  int
	TrimBeginSamples int
	PadEndSamples    int

	FadeSamples     int // 0: no fade
	FadeDelaySamples int // additional samples to play, post loop-target, before fade starts
}

// MixOp is one mixer directive applied in order when Configure runs, using
// the same op vocabulary as internal/mixer (exported here as plain data so
// callers don't need to import the internal package).
type MixOp struct {
	Kind string // "volume", "limit", "swap", "add", "upmix", "downmix", "killmix", "fade"

	ChannelDst int
	ChannelSrc int
	Volume     float64

	FadeVolStart, FadeVolEnd float64
	FadeShape                byte
	FadeTimePre, FadeTimeStart, FadeTimeEnd, FadeTimePost int32
}
