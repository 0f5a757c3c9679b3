package gbm

import (
	"github.com/gogpu/gbm/fourcc"
)

// MaxPlanes is the largest number of planes a buffer can have.
const MaxPlanes = fourcc.MaxPlanes

// Meta is the computed layout of a buffer. It is set once at creation and
// never changes afterwards.
type Meta struct {
	Width  uint32
	Height uint32
	Format fourcc.Format
	Usage  Usage

	// Tiling is the backend-specific tiling mode the layout was computed for.
	Tiling uint32

	NumPlanes int
	Strides   [MaxPlanes]uint32
	Sizes     [MaxPlanes]uint32
	Offsets   [MaxPlanes]uint32

	// TotalSize is the size of the kernel object and of every CPU mapping.
	// It equals the sum of the plane sizes.
	TotalSize uint64

	Modifier fourcc.Modifier
}

// Allocation is what a backend hands back for a created or imported
// buffer: one kernel handle per plane and the layout.
type Allocation struct {
	Handles [MaxPlanes]uint32
	Meta    Meta
}

// SingleHandle reports whether every plane shares the handle of plane 0.
func (a *Allocation) SingleHandle() bool {
	for p := 1; p < a.Meta.NumPlanes; p++ {
		if a.Handles[p] != a.Handles[0] {
			return false
		}
	}
	return true
}

// Backend is the operation table a hardware family implements.
// One Backend instance serves one Device; it is chosen when the device is
// opened by matching the kernel driver name against the registry.
//
// Backends perform no locking. Callers must not run two operations on the
// same Allocation at once; distinct allocations may be used concurrently.
type Backend interface {
	// Name returns the backend identifier, which is also the kernel driver
	// name it serves (e.g., "vc4").
	Name() string

	// Init registers the combinations the hardware supports. The registry
	// is sealed by the caller once Init returns.
	Init(combos *Combinations) error

	// Create allocates a buffer using the combination registered for
	// (format, usage).
	Create(width, height uint32, format fourcc.Format, usage Usage) (*Allocation, error)

	// CreateWithModifiers allocates a buffer using the backend's preferred
	// modifier among the candidates.
	CreateWithModifiers(width, height uint32, format fourcc.Format, modifiers []fourcc.Modifier) (*Allocation, error)

	// Import wraps buffers allocated elsewhere and shared as dma-buf
	// descriptors.
	Import(data *ImportData) (*Allocation, error)

	// Destroy releases the kernel object. It must be called exactly once.
	Destroy(a *Allocation) error

	// Map maps the whole buffer into the process. The returned slice always
	// has Meta.TotalSize bytes.
	Map(a *Allocation, plane int, flags MapFlags) ([]byte, error)

	// Unmap releases a mapping returned by Map.
	Unmap(data []byte) error
}
