// Package streamfile implements the backing-storage abstraction described in
// SPEC_FULL.md §2.9: a small io.ReaderAt-shaped interface with the extra
// Size/Close/Clone operations the codec and format-probe layers need, plus
// concrete backends (plain file, memory-mapped file, HTTP range reads).
// Grounded on the teacher's buffer.go, which wraps a raw byte source behind
// a narrow read-oriented interface for the demuxer to consume.
package streamfile

import "io"

// StreamFile is the byte source every codec.Context and format probe reads
// through. It satisfies codec.ByteSource (ReadAt) directly, so a
// *streamfile.File (etc) can be assigned straight to codec.Context.Source.
type StreamFile interface {
	io.ReaderAt
	// Size returns the total readable length, used by format probes to
	// bounds-check header reads and by codecs computing "samples to end of
	// data".
	Size() int64
	// Close releases the backing resource (fd, mapping, HTTP connection).
	Close() error
	// Clone returns an independent StreamFile over the same underlying data,
	// with its own read cursor/connection state, used when a segmented
	// layout opens N child streams against the same container file.
	Clone() (StreamFile, error)
}
