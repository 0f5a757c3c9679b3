// Package vc4 is the buffer allocation backend for the Broadcom VideoCore IV
// GPU (Raspberry Pi 0-3), driven by the "vc4" kernel driver.
//
// # Registration
//
// The backend registers itself for the "vc4" driver on import:
//
//	import _ "github.com/gogpu/gbm/backend/vc4"
//
//	dev, err := gbm.Open("/dev/dri/card0")
//
// # Layouts
//
// Buffers are either linear, with the stride rounded up to 64 bytes, or
// T-tiled (DRM_FORMAT_MOD_BROADCOM_VC4_T_TILED). The tiling engine works on
// 64-byte micro-tiles whose pixel dimensions depend on bytes per pixel.
// Small buffers use the linear-tile (LT) ordering, aligned to one
// micro-tile; larger ones use T tiles, aligned to 8 micro-tiles in each
// direction. [ComputeLayout] performs the same computation without a device.
//
// # Kernel requests
//
// Creation is CREATE_BO followed, for tiled buffers, by SET_TILING. If
// SET_TILING fails the new handle is closed before the error is returned,
// so no half-configured buffer survives. Every plane of a VC4 buffer shares
// one handle.
package vc4
