package streamfile

import "os"

// File is the plain os.File-backed StreamFile, the default backend for
// local paths.
type File struct {
	f    *os.File
	path string
	size int64
}

// OpenFile opens path for reading and wraps it as a StreamFile.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &File{f: f, path: path, size: info.Size()}, nil
}

func (sf *File) ReadAt(buf []byte, offset int64) (int, error) {
	return sf.f.ReadAt(buf, offset)
}

func (sf *File) Size() int64 { return sf.size }

func (sf *File) Close() error { return sf.f.Close() }

// Clone reopens the same path as an independent *os.File with its own
// cursor/fd, matching the source's streamfile refcounting but without
// sharing the underlying fd (simpler, and safe for concurrent segment
// children).
func (sf *File) Clone() (StreamFile, error) {
	return OpenFile(sf.path)
}
