package composer

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// FileHandle is a file picked for attachment.
// Handles that also implement io.Closer are closed when the selection is
// replaced or the form resets.
type FileHandle interface {
	Name() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// BytesFile returns an in-memory file handle.
func BytesFile(name string, data []byte) FileHandle {
	return bytesFile{name: name, data: data}
}

type bytesFile struct {
	name string
	data []byte
}

func (f bytesFile) Name() string { return f.name }
func (f bytesFile) Size() int64  { return int64(len(f.data)) }

func (f bytesFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

// LocalFile returns a handle for a file on disk. The size is read once, when
// the file is picked, the same way a browser snapshots a selection.
func LocalFile(path string) (FileHandle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return localFile{path: path, size: info.Size()}, nil
}

type localFile struct {
	path string
	size int64
}

func (f localFile) Name() string { return filepath.Base(f.path) }
func (f localFile) Size() int64  { return f.size }

func (f localFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

func release(files []FileHandle) {
	for _, f := range files {
		if c, ok := f.(io.Closer); ok {
			_ = c.Close()
		}
	}
}

func readAll(f FileHandle) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
