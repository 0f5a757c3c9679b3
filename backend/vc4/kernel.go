package vc4

import (
	"unsafe"

	"github.com/gogpu/gbm/drm"
	"github.com/gogpu/gbm/fourcc"
)

// VC4 driver request numbers, relative to drm.CommandBase.
const (
	cmdCreateBO  = 0x03
	cmdMmapBO    = 0x04
	cmdSetTiling = 0x08
)

// VC4 requests. Layouts follow include/uapi/drm/vc4_drm.h.
var (
	// DRM_IOWR(DRM_COMMAND_BASE + 0x03, struct drm_vc4_create_bo)
	IOCTLCreateBO = drm.IOWR(drm.CommandBase+cmdCreateBO, unsafe.Sizeof(sysCreateBO{}))

	// DRM_IOWR(DRM_COMMAND_BASE + 0x04, struct drm_vc4_mmap_bo)
	IOCTLMmapBO = drm.IOWR(drm.CommandBase+cmdMmapBO, unsafe.Sizeof(sysMmapBO{}))

	// DRM_IOWR(DRM_COMMAND_BASE + 0x08, struct drm_vc4_set_tiling)
	IOCTLSetTiling = drm.IOWR(drm.CommandBase+cmdSetTiling, unsafe.Sizeof(sysSetTiling{}))
)

type (
	sysCreateBO struct {
		size   uint32
		flags  uint32
		handle uint32 // out
		pad    uint32
	}

	sysMmapBO struct {
		handle uint32
		flags  uint32
		offset uint64 // out
	}

	sysSetTiling struct {
		handle   uint32
		flags    uint32
		modifier uint64
	}
)

// Kernel is the part of the device descriptor the backend talks to.
// The production implementation issues ioctls on a drm.File; tests
// substitute a fake.
type Kernel interface {
	// CreateBO allocates a buffer object of size bytes.
	CreateBO(size uint32) (uint32, error)

	// SetTiling records the layout modifier of a buffer object.
	SetTiling(handle uint32, modifier fourcc.Modifier) error

	// MmapBO returns the fake offset to mmap a buffer object at.
	MmapBO(handle uint32) (uint64, error)

	// CloseHandle releases a GEM handle.
	CloseHandle(handle uint32) error

	// PrimeFDToHandle imports a dma-buf descriptor.
	PrimeFDToHandle(fd int) (uint32, error)

	// Mmap maps length bytes at offset, shared with the buffer object.
	Mmap(offset uint64, length int, prot int) ([]byte, error)

	// Munmap releases a mapping.
	Munmap(b []byte) error
}

// fileKernel implements Kernel on an open DRM node.
type fileKernel struct {
	f *drm.File
}

func (k *fileKernel) CreateBO(size uint32) (uint32, error) {
	req := &sysCreateBO{size: size}
	if err := k.f.Ioctl("DRM_IOCTL_VC4_CREATE_BO", IOCTLCreateBO, unsafe.Pointer(req)); err != nil {
		return 0, err
	}
	return req.handle, nil
}

func (k *fileKernel) SetTiling(handle uint32, modifier fourcc.Modifier) error {
	req := &sysSetTiling{handle: handle, modifier: uint64(modifier)}
	return k.f.Ioctl("DRM_IOCTL_VC4_SET_TILING", IOCTLSetTiling, unsafe.Pointer(req))
}

func (k *fileKernel) MmapBO(handle uint32) (uint64, error) {
	req := &sysMmapBO{handle: handle}
	if err := k.f.Ioctl("DRM_IOCTL_VC4_MMAP_BO", IOCTLMmapBO, unsafe.Pointer(req)); err != nil {
		return 0, err
	}
	return req.offset, nil
}

func (k *fileKernel) CloseHandle(handle uint32) error {
	return k.f.GemClose(handle)
}

func (k *fileKernel) PrimeFDToHandle(fd int) (uint32, error) {
	return k.f.PrimeFDToHandle(fd)
}

func (k *fileKernel) Mmap(offset uint64, length int, prot int) ([]byte, error) {
	return k.f.Mmap(offset, length, prot)
}

func (k *fileKernel) Munmap(b []byte) error {
	return drm.Munmap(b)
}
