package gbm

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/gogpu/gbm/drm"
)

// ErrInvalidArgument is the root of every error reported before a request
// reaches the kernel.
var ErrInvalidArgument = errors.New("gbm: invalid argument")

// Invalid-argument errors. All of them match ErrInvalidArgument with errors.Is.
var (
	// ErrUnsupportedModifier is returned when a backend cannot lay out a
	// buffer with the requested modifier.
	ErrUnsupportedModifier = fmt.Errorf("%w: unsupported modifier", ErrInvalidArgument)

	// ErrUnsupportedFormat is returned for formats whose bytes per pixel the
	// backend cannot tile.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported format", ErrInvalidArgument)

	// ErrNoCombination is returned when no combination was registered for
	// a (format, usage) pair.
	ErrNoCombination = fmt.Errorf("%w: no combination for format and usage", ErrInvalidArgument)

	// ErrNoCommonModifier is returned when none of the caller's candidate
	// modifiers is one the backend can produce.
	ErrNoCommonModifier = fmt.Errorf("%w: no supported modifier among candidates", ErrInvalidArgument)

	// ErrInvalidDimensions is returned when width or height is zero.
	ErrInvalidDimensions = fmt.Errorf("%w: invalid dimensions", ErrInvalidArgument)

	// ErrBufferTooLarge is returned when a layout exceeds what one kernel
	// buffer object can hold.
	ErrBufferTooLarge = fmt.Errorf("%w: buffer too large", ErrInvalidArgument)
)

// Other errors.
var (
	// ErrMapFailed is the single value every mapping failure matches.
	// The underlying cause, if any, is wrapped alongside it.
	ErrMapFailed = errors.New("gbm: map failed")

	// ErrNotMapped is returned when unmapping a view twice.
	ErrNotMapped = errors.New("gbm: view not mapped")

	// ErrSealed is returned when modifying a combination registry after
	// backend initialization.
	ErrSealed = errors.New("gbm: combinations sealed")

	// ErrMultipleHandles is returned by backends that require every plane of
	// a buffer to share one kernel handle.
	ErrMultipleHandles = errors.New("gbm: planes do not share one handle")
)

// ErrorCode translates err into the negative errno convention of C buffer
// managers: 0 for nil, -EINVAL for invalid arguments, the kernel's errno
// for failed requests, and -EIO for anything else.
func ErrorCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, ErrInvalidArgument) {
		return -int(unix.EINVAL)
	}
	var re *drm.RequestError
	if errors.As(err, &re) {
		return re.Code()
	}
	var errno unix.Errno
	if errors.As(err, &errno) {
		return -int(errno)
	}
	return -int(unix.EIO)
}
