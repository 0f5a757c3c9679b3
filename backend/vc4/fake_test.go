package vc4

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/gogpu/gbm/drm"
	"github.com/gogpu/gbm/fourcc"
)

// fakeKernel records requests and serves mappings from plain memory.
type fakeKernel struct {
	mu sync.Mutex

	next    uint32
	live    map[uint32]uint32 // handle -> size
	tiling  map[uint32]fourcc.Modifier
	maps    int
	created []uint32 // sizes passed to CreateBO, in order
	calls   []string

	failCreate  error
	failTiling  error
	failClose   error
	failMmapBO  error
	failMmap    error
	primeFail   map[int]error
	primeHandle map[int]uint32
}

func newFakeKernel() *fakeKernel {
	return &fakeKernel{
		next:   1,
		live:   make(map[uint32]uint32),
		tiling: make(map[uint32]fourcc.Modifier),
	}
}

func errno(name string, e unix.Errno) error {
	return &drm.RequestError{Request: name, Err: e}
}

func (k *fakeKernel) CreateBO(size uint32) (uint32, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.calls = append(k.calls, "create")
	k.created = append(k.created, size)
	if k.failCreate != nil {
		return 0, k.failCreate
	}
	h := k.next
	k.next++
	k.live[h] = size
	return h, nil
}

func (k *fakeKernel) SetTiling(handle uint32, modifier fourcc.Modifier) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.calls = append(k.calls, "tiling")
	if k.failTiling != nil {
		return k.failTiling
	}
	if _, ok := k.live[handle]; !ok {
		return errno("DRM_IOCTL_VC4_SET_TILING", unix.ENOENT)
	}
	k.tiling[handle] = modifier
	return nil
}

func (k *fakeKernel) MmapBO(handle uint32) (uint64, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.calls = append(k.calls, "mmap_bo")
	if k.failMmapBO != nil {
		return 0, k.failMmapBO
	}
	if _, ok := k.live[handle]; !ok {
		return 0, errno("DRM_IOCTL_VC4_MMAP_BO", unix.ENOENT)
	}
	return uint64(handle) << 12, nil
}

func (k *fakeKernel) CloseHandle(handle uint32) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.calls = append(k.calls, "close")
	if k.failClose != nil {
		return k.failClose
	}
	if _, ok := k.live[handle]; !ok {
		return errno("DRM_IOCTL_GEM_CLOSE", unix.EINVAL)
	}
	delete(k.live, handle)
	delete(k.tiling, handle)
	return nil
}

func (k *fakeKernel) PrimeFDToHandle(fd int) (uint32, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.calls = append(k.calls, "prime")
	if err := k.primeFail[fd]; err != nil {
		return 0, err
	}
	if h, ok := k.primeHandle[fd]; ok {
		k.live[h] = 0
		return h, nil
	}
	h := k.next
	k.next++
	k.live[h] = 0
	return h, nil
}

func (k *fakeKernel) Mmap(offset uint64, length int, prot int) ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.calls = append(k.calls, "mmap")
	if k.failMmap != nil {
		return nil, k.failMmap
	}
	if length <= 0 {
		return nil, fmt.Errorf("mmap: invalid length %d", length)
	}
	k.maps++
	return make([]byte, length), nil
}

func (k *fakeKernel) Munmap(b []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.calls = append(k.calls, "munmap")
	if k.maps == 0 {
		return unix.EINVAL
	}
	k.maps--
	return nil
}

func (k *fakeKernel) liveHandles() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.live)
}

func (k *fakeKernel) callLog() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]string, len(k.calls))
	copy(out, k.calls)
	return out
}

func (k *fakeKernel) mappings() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.maps
}

var _ Kernel = (*fakeKernel)(nil)
