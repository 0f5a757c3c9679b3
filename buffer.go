package gbm

import (
	"fmt"

	"github.com/gogpu/gbm/fourcc"
)

// Buffer is a kernel buffer object with a fixed layout.
//
// A Buffer is not safe for concurrent use: at most one Destroy or Map
// may run on it at a time. Mapped views are independent of each other.
type Buffer struct {
	dev   *Device
	alloc *Allocation
}

// Device returns the device the buffer was created on.
func (b *Buffer) Device() *Device { return b.dev }

// Meta returns a copy of the buffer layout.
func (b *Buffer) Meta() Meta { return b.alloc.Meta }

// Width returns the requested width in pixels.
func (b *Buffer) Width() uint32 { return b.alloc.Meta.Width }

// Height returns the requested height in pixels.
func (b *Buffer) Height() uint32 { return b.alloc.Meta.Height }

// Format returns the pixel format.
func (b *Buffer) Format() fourcc.Format { return b.alloc.Meta.Format }

// Modifier returns the layout modifier the kernel accepted.
func (b *Buffer) Modifier() fourcc.Modifier { return b.alloc.Meta.Modifier }

// NumPlanes returns the number of planes.
func (b *Buffer) NumPlanes() int { return b.alloc.Meta.NumPlanes }

// Size returns the total size of the buffer in bytes.
func (b *Buffer) Size() uint64 { return b.alloc.Meta.TotalSize }

// Handle returns the kernel handle of a plane.
func (b *Buffer) Handle(plane int) uint32 {
	return b.alloc.Handles[b.checkPlane(plane)]
}

// Stride returns the byte stride of a plane.
func (b *Buffer) Stride(plane int) uint32 {
	return b.alloc.Meta.Strides[b.checkPlane(plane)]
}

// Offset returns the byte offset of a plane from the start of the buffer.
func (b *Buffer) Offset(plane int) uint32 {
	return b.alloc.Meta.Offsets[b.checkPlane(plane)]
}

func (b *Buffer) checkPlane(plane int) int {
	if plane < 0 || plane >= b.alloc.Meta.NumPlanes {
		panic(fmt.Sprintf("gbm: plane %d out of range [0,%d)", plane, b.alloc.Meta.NumPlanes))
	}
	return plane
}

// Destroy releases the kernel object. Destroy must be called exactly once;
// kernel errors are returned unchanged.
func (b *Buffer) Destroy() error {
	return b.dev.backend.Destroy(b.alloc)
}

// Map maps the whole buffer for CPU access. plane must exist but does not
// change what is mapped: the view always starts at offset 0 and covers
// Size bytes, so plane data lives at Offset(plane) inside it.
//
// Every failure matches ErrMapFailed. A failed Map leaves the buffer intact.
func (b *Buffer) Map(plane int, flags MapFlags) (*MappedView, error) {
	data, err := b.dev.backend.Map(b.alloc, plane, flags)
	if err != nil {
		return nil, err
	}
	return &MappedView{data: data, plane: plane, flags: flags, backend: b.dev.backend}, nil
}

// MappedView is a CPU mapping of a Buffer. Writes through a view are
// visible to the kernel object. A view is released with Unmap,
// independently of the buffer.
type MappedView struct {
	data    []byte
	plane   int
	flags   MapFlags
	backend Backend
}

// Bytes returns the mapped memory. The slice is invalid after Unmap.
func (v *MappedView) Bytes() []byte { return v.data }

// Len returns the mapped length, which is the buffer's total size.
func (v *MappedView) Len() int { return len(v.data) }

// Plane returns the plane index the view was requested for.
func (v *MappedView) Plane() int { return v.plane }

// Flags returns the map flags the view was created with.
func (v *MappedView) Flags() MapFlags { return v.flags }

// Unmap releases the mapping.
func (v *MappedView) Unmap() error {
	if v.data == nil {
		return ErrNotMapped
	}
	if err := v.backend.Unmap(v.data); err != nil {
		return err
	}
	v.data = nil
	return nil
}
