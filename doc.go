// Package gbm allocates GPU buffers on Linux DRM devices.
//
// # Overview
//
// gbm is a Pure Go buffer manager. It opens a DRM device node, selects the
// allocation backend for the node's kernel driver and creates buffer
// objects whose memory layout (stride, plane offsets, tiling) suits the
// requested pixel format and usage. Buffers can be mapped for CPU access,
// imported from dma-buf descriptors and destroyed.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/gbm"
//	    "github.com/gogpu/gbm/fourcc"
//	    _ "github.com/gogpu/gbm/backend/vc4"
//	)
//
//	dev, err := gbm.Open("/dev/dri/card0")
//	if err != nil {
//	    return err
//	}
//	defer dev.Close()
//
//	buf, err := dev.CreateBuffer(1920, 1080, fourcc.XRGB8888, gbm.UseScanout)
//	if err != nil {
//	    return err
//	}
//	defer buf.Destroy()
//
//	view, err := buf.Map(0, gbm.MapWrite)
//	if err != nil {
//	    return err
//	}
//	clear(view.Bytes())
//	view.Unmap()
//
// # Backends
//
// Backends register themselves with Register from an init function and are
// linked in with a blank import. Open reads the driver name of the node and
// picks the highest-priority backend whose match function accepts it;
// WithBackend skips the match.
//
// Each backend declares its supported (format, layout, usage) combinations
// once, when the device is opened. CreateBuffer picks the highest-priority
// combination covering every requested usage flag, so a GPU-only render
// target may be tiled while a scanout buffer of the same format is linear.
// CreateBufferWithModifiers lets the caller name acceptable layouts
// directly.
//
// # Errors
//
// Requests rejected before reaching the kernel match ErrInvalidArgument.
// Kernel failures are *drm.RequestError values naming the request and
// wrapping the errno. Every mapping failure matches ErrMapFailed.
// ErrorCode converts any of these to a negative errno.
//
// # Logging
//
// The package is silent by default. SetLogger installs a *slog.Logger used
// by gbm and its backends.
//
// # Thread Safety
//
// A Device may be shared between goroutines. A Buffer must not be used by
// two goroutines at once; distinct buffers are independent.
package gbm
