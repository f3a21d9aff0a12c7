// Package mixer implements the float mixbuf and ordered op chain (swap,
// add, volume, limit, upmix, downmix, killmix, fade) described in
// SPEC_FULL.md §4.5, grounded on vgmstream's mixer.c/mixer_priv.h family.
package mixer

import (
	"github.com/vgmstream/vgmstream-go/internal/logging"
	"github.com/vgmstream/vgmstream-go/internal/sbuf"
)

// MaxMixing is the fixed capacity of the op chain, matching
// VGMSTREAM_MAX_MIXING in the source: a hard cap sufficient for all
// observed workloads, enforced instead of growing the chain dynamically
// once the mixer is active.
const MaxMixing = 512

// ChannelAll is the distinguished negative channel index meaning "all
// channels", used by Volume/Limit/Fade ops.
const ChannelAll = -1

// OpType tags one entry of the mix op chain.
type OpType int

const (
	OpSwap OpType = iota
	OpAdd
	OpVolume
	OpLimit
	OpUpmix
	OpDownmix
	OpKillmix
	OpFade
)

// Op is one entry of the fixed-capacity chain. Fields beyond Type/ChDst are
// only meaningful for some op types: ChSrc for Swap/Add, Vol for Add/Volume/
// Limit, and the Vol*/Shape/Time* fields for Fade.
type Op struct {
	Type OpType
	ChDst int
	ChSrc int
	Vol   float64

	VolStart, VolEnd float64
	Shape            byte
	TimePre          int32 // -1: "from the beginning"
	TimeStart        int32
	TimeEnd          int32
	TimePost         int32 // -1: "to the end"
}

// Mixer holds the op chain and the float work buffer it operates over.
// Ops are appended via the Push* methods while Active is false; the first
// call to Setup activates it and freezes the chain.
type Mixer struct {
	InputChannels  int
	OutputChannels int
	MixingChannels int

	Active bool

	chain      [MaxMixing]Op
	chainCount int

	HasFade    bool
	HasNonFade bool

	smix           sbuf.Buffer
	CurrentSubpos  int32
	ForceType      sbuf.Format
}

// New builds an inactive Mixer for a stream with the given input channel
// count; OutputChannels starts equal to inputChannels and is adjusted as
// Upmix/Downmix/Killmix ops are pushed.
func New(inputChannels int) *Mixer {
	return &Mixer{
		InputChannels:  inputChannels,
		OutputChannels: inputChannels,
		MixingChannels: inputChannels,
	}
}

// addMixing appends op to the chain, matching mixing_commands.c's
// add_mixing: rejected once Active, or once the chain is full.
func (m *Mixer) addMixing(op Op) bool {
	if m.Active {
		logging.L.Warn("mixer: ignoring new op, already active")
		return false
	}
	if m.chainCount+1 > MaxMixing {
		logging.L.Warn("mixer: op chain full")
		return false
	}

	m.chain[m.chainCount] = op
	m.chainCount++

	if op.Type == OpFade {
		m.HasFade = true
	} else {
		m.HasNonFade = true
	}
	return true
}

// Setup freezes the chain and allocates the float work buffer sized
// maxSamples*MixingChannels, mirroring the source's lazy activation on
// first render call.
func (m *Mixer) Setup(maxSamples int) {
	if m.Active {
		return
	}
	m.Active = true
	m.smix = sbuf.New(sbuf.FormatFLT, make([]float64, maxSamples*m.MixingChannels), m.MixingChannels, maxSamples)
}

// IsActive reports whether Setup has been called.
func (m *Mixer) IsActive() bool { return m.Active }

// Process applies the op chain to dst in place, over dst.Filled samples
// (dst is assumed already upgraded to a float-bearing format by the
// caller's decode/render step -- this mirrors mixer_process's own
// S16->F32 upgrade, performed here via sbuf.CopySegments into the internal
// smix buffer and back). If the chain leaves more channels than dst.Buf can
// hold, dst.Buf is replaced by a new slice of the needed size.
func (m *Mixer) Process(dst *sbuf.Buffer, startPos int32) {
	if !m.Active {
		return
	}

	count := dst.Filled
	if m.HasFade && !m.HasNonFade {
		if !m.fadeIsActive(startPos, startPos+int32(count)) {
			return
		}
	}

	base, samples := dst.Buf, dst.Samples
	work := m.smix.Buf
	m.smix.Channels = dst.Channels
	m.smix.Samples = count
	m.smix.Filled = 0
	sbuf.CopySegments(&m.smix, dst, count)
	dst.Buf, dst.Samples = base, samples
	dst.Filled = 0

	m.CurrentSubpos = startPos
	for i := 0; i < m.chainCount; i++ {
		op := &m.chain[i]
		switch op.Type {
		case OpSwap:
			m.opSwap(op)
		case OpAdd:
			m.opAdd(op)
		case OpVolume:
			m.opVolume(op)
		case OpLimit:
			m.opLimit(op)
		case OpUpmix:
			m.opUpmix(op)
		case OpDownmix:
			m.opDownmix(op)
		case OpKillmix:
			m.opKillmix(op)
		case OpFade:
			m.opFade(op)
		}
	}

	outFmt := dst.Fmt
	if m.ForceType != sbuf.FormatNone {
		outFmt = m.ForceType
	}
	dst.Channels = m.smix.Channels
	dst.Fmt = outFmt
	if need := count * dst.Channels; len(dst.Buf) < need {
		dst.Buf = make([]float64, need)
	}
	m.smix.Filled = count
	sbuf.CopySegments(dst, &m.smix, count)
	m.smix.Buf = work
}
