package gbm

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/gogpu/gbm/fourcc"
)

// ImportData describes a buffer shared as one dma-buf descriptor per plane.
type ImportData struct {
	Width    uint32
	Height   uint32
	Format   fourcc.Format
	Modifier fourcc.Modifier
	Usage    Usage

	FDs     [MaxPlanes]int
	Strides [MaxPlanes]uint32
	Offsets [MaxPlanes]uint32
}

// PrimeImporter is the kernel surface ImportPrime needs.
type PrimeImporter interface {
	PrimeFDToHandle(fd int) (uint32, error)
	CloseHandle(handle uint32) error
}

// ImportPrime is the generic import path backends delegate to. It turns
// every plane descriptor into a handle and derives plane sizes from the
// next plane's offset, or from the end of the dma-buf for the last plane.
// On failure every handle obtained so far is closed.
func ImportPrime(k PrimeImporter, data *ImportData) (*Allocation, error) {
	n := fourcc.NumPlanes(data.Format)
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, data.Format)
	}

	a := &Allocation{Meta: Meta{
		Width:     data.Width,
		Height:    data.Height,
		Format:    data.Format,
		Usage:     data.Usage,
		NumPlanes: n,
		Modifier:  data.Modifier,
	}}

	for p := 0; p < n; p++ {
		h, err := k.PrimeFDToHandle(data.FDs[p])
		if err != nil {
			closeHandles(k, a.Handles[:p])
			return nil, err
		}
		a.Handles[p] = h
	}

	for p := 0; p < n; p++ {
		end, err := unix.Seek(data.FDs[p], 0, unix.SEEK_END)
		if err != nil {
			closeHandles(k, a.Handles[:n])
			return nil, fmt.Errorf("gbm: import plane %d: lseek: %w", p, err)
		}
		_, _ = unix.Seek(data.FDs[p], 0, unix.SEEK_SET)

		offset := uint64(data.Offsets[p])
		var size uint64
		if p == n-1 || data.Offsets[p+1] == 0 {
			if uint64(end) < offset {
				closeHandles(k, a.Handles[:n])
				return nil, fmt.Errorf("%w: plane %d offset %d beyond end %d", ErrBufferTooLarge, p, offset, end)
			}
			size = uint64(end) - offset
		} else {
			size = uint64(data.Offsets[p+1]) - offset
		}
		if offset+size > uint64(end) || size > 1<<32-1 {
			closeHandles(k, a.Handles[:n])
			return nil, fmt.Errorf("%w: plane %d", ErrBufferTooLarge, p)
		}

		a.Meta.Strides[p] = data.Strides[p]
		a.Meta.Offsets[p] = data.Offsets[p]
		a.Meta.Sizes[p] = uint32(size)
		a.Meta.TotalSize += size
	}

	return a, nil
}

// closeHandles releases each distinct handle once. Failures are logged:
// the caller is already returning the error that caused the cleanup.
func closeHandles(k PrimeImporter, handles []uint32) {
	seen := make(map[uint32]bool, len(handles))
	for _, h := range handles {
		if seen[h] {
			continue
		}
		seen[h] = true
		if err := k.CloseHandle(h); err != nil {
			Logger().Warn("gbm: releasing imported handle failed", "handle", h, "err", err)
		}
	}
}
