package drm

import (
	"os"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// File is an open DRM device node.
type File struct {
	f      *os.File
	closed atomic.Bool
}

// Open opens a DRM node read-write with close-on-exec.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return &File{f: f}, nil
}

// NewFile wraps an already open node. The File takes ownership of f.
func NewFile(f *os.File) *File {
	return &File{f: f}
}

// Name returns the path the node was opened with.
func (f *File) Name() string {
	return f.f.Name()
}

// Fd returns the raw descriptor.
func (f *File) Fd() uintptr {
	return f.f.Fd()
}

// Close releases the descriptor. Buffer objects still owned by the
// descriptor are released by the kernel.
func (f *File) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return f.f.Close()
}

// Mmap maps length bytes of a buffer object at the fake offset returned by
// a driver's map request. The mapping is shared with the object.
func (f *File) Mmap(offset uint64, length int, prot int) ([]byte, error) {
	return unix.Mmap(int(f.Fd()), int64(offset), length, prot, unix.MAP_SHARED)
}

// Munmap releases a mapping created by Mmap.
func Munmap(b []byte) error {
	return unix.Munmap(b)
}
