package vgmstream

import (
	"encoding/binary"
	"errors"

	"github.com/vgmstream/vgmstream-go/internal/codec"
	"github.com/vgmstream/vgmstream-go/streamfile"
)

// ProbeResult is what a format prober extracts from a container header: just
// enough for Open to build a codec.Context, pick a layout, and populate
// StreamFormat.
type ProbeResult struct {
	CodecTag   string
	Channels   int
	SampleRate int
	NumSamples int
	DataOffset int64
	FrameSize  int

	// FormatID is the container's magic, packed big-endian into a uint32;
	// StreamFormat surfaces it as the source's integer format identifier.
	FormatID uint32

	LoopFlag  bool
	LoopStart int
	LoopEnd   int

	// InterleaveBlockSamples, when > 0, signals the interleave layout should
	// be used instead of flat, with this many samples per channel block.
	InterleaveBlockSamples int
	InterleaveBlockBytes   int64
}

// Prober recognises one container format from its header and extracts a
// ProbeResult. Grounded on meta/*.c's one-function-per-format convention,
// generalised to a registry the same shape as the codec one.
type Prober interface {
	// Probe inspects sf's header and returns a result, or (nil, nil) if this
	// prober doesn't recognise the container (not an error: Open tries the
	// next registered prober).
	Probe(sf streamfile.StreamFile) (*ProbeResult, error)
}

var probers []Prober

// RegisterProber adds p to the probe chain, tried in registration order by
// Open. Used by tests to install fixture formats, and by callers embedding
// this module to add their own container support without forking it.
func RegisterProber(p Prober) {
	probers = append(probers, p)
}

func init() {
	RegisterProber(rawPCMProber{})
	RegisterProber(blockedADPCMProber{})
}

var errNotRecognised = errors.New("vgmstream: container not recognised by this prober")

// rawPCMProber recognises a minimal self-describing raw-PCM container:
// magic "VSPC", then big-endian uint16 channels, uint32 sample rate, uint32
// sample count, all followed immediately by interleaved S16LE data. This
// plays the role meta/raw_wav.c or similar simple-header formats play in the
// source: a format with (almost) no layout logic, just a header to read.
type rawPCMProber struct{}

func (rawPCMProber) Probe(sf streamfile.StreamFile) (*ProbeResult, error) {
	hdr := make([]byte, 16)
	n, err := sf.ReadAt(hdr, 0)
	if n < 16 || err != nil {
		return nil, nil
	}
	if string(hdr[0:4]) != "VSPC" {
		return nil, nil
	}
	channels := int(binary.BigEndian.Uint16(hdr[4:6]))
	rate := int(binary.BigEndian.Uint32(hdr[6:10]))
	samples := int(binary.BigEndian.Uint32(hdr[10:14]))
	if channels <= 0 || rate <= 0 {
		return nil, ErrBadData
	}
	return &ProbeResult{
		CodecTag: codec.TagPCM16, Channels: channels, SampleRate: rate,
		NumSamples: samples, DataOffset: 16, FrameSize: 2,
		FormatID: binary.BigEndian.Uint32(hdr[0:4]),
	}, nil
}

// blockedADPCMProber recognises a minimal self-describing DSP-ADPCM
// container: magic "VSDB", channels/rate/samples/loop fields, then DSP-ADPCM
// frames from offset 32. It describes no blocks or interleave, so
// buildLayout walks the data flat with every channel starting at offset 32.
type blockedADPCMProber struct{}

func (blockedADPCMProber) Probe(sf streamfile.StreamFile) (*ProbeResult, error) {
	hdr := make([]byte, 32)
	n, err := sf.ReadAt(hdr, 0)
	if n < 32 || err != nil {
		return nil, nil
	}
	if string(hdr[0:4]) != "VSDB" {
		return nil, nil
	}
	channels := int(binary.BigEndian.Uint16(hdr[4:6]))
	rate := int(binary.BigEndian.Uint32(hdr[6:10]))
	samples := int(binary.BigEndian.Uint32(hdr[10:14]))
	loopFlag := hdr[14] != 0
	loopStart := int(binary.BigEndian.Uint32(hdr[16:20]))
	loopEnd := int(binary.BigEndian.Uint32(hdr[20:24]))
	if channels <= 0 || rate <= 0 {
		return nil, ErrBadData
	}
	return &ProbeResult{
		CodecTag: codec.TagDSP, Channels: channels, SampleRate: rate,
		NumSamples: samples, DataOffset: 32, FrameSize: 8,
		LoopFlag: loopFlag, LoopStart: loopStart, LoopEnd: loopEnd,
		FormatID: binary.BigEndian.Uint32(hdr[0:4]),
	}, nil
}

// probeFormat tries every registered prober in order, returning the first
// match, mirroring init_vgmstream's linear scan over its format table.
func probeFormat(sf streamfile.StreamFile) (*ProbeResult, error) {
	for _, p := range probers {
		res, err := p.Probe(sf)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, ErrUnsupportedFormat
}
