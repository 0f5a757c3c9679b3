package drm

import "unsafe"

// Generic GEM requests.
var (
	// DRM_IOW(0x09, struct drm_gem_close)
	IOCTLGemClose = IOW(0x09, unsafe.Sizeof(sysGemClose{}))

	// DRM_IOWR(0x2e, struct drm_prime_handle)
	IOCTLPrimeFDToHandle = IOWR(0x2e, unsafe.Sizeof(sysPrimeHandle{}))
)

type (
	sysGemClose struct {
		handle uint32
		pad    uint32
	}

	sysPrimeHandle struct {
		handle uint32
		flags  uint32
		fd     int32
	}
)

// GemClose releases a GEM handle.
func (f *File) GemClose(handle uint32) error {
	req := &sysGemClose{handle: handle}
	return f.Ioctl("DRM_IOCTL_GEM_CLOSE", IOCTLGemClose, unsafe.Pointer(req))
}

// PrimeFDToHandle turns a dma-buf descriptor into a GEM handle local to
// this File. Importing the same dma-buf twice yields the same handle.
func (f *File) PrimeFDToHandle(fd int) (uint32, error) {
	req := &sysPrimeHandle{fd: int32(fd)}
	err := f.Ioctl("DRM_IOCTL_PRIME_FD_TO_HANDLE", IOCTLPrimeFDToHandle, unsafe.Pointer(req))
	if err != nil {
		return 0, err
	}
	return req.handle, nil
}
