package fourcc

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// FromTextureFormat converts a WebGPU texture format to the DRM format
// with the same byte order in memory. DRM codes name channels from the
// most significant bit of a little-endian word, so RGBA bytes are ABGR8888.
func FromTextureFormat(tf gputypes.TextureFormat) (Format, error) {
	switch tf {
	case gputypes.TextureFormatRGBA8Unorm:
		return ABGR8888, nil
	case gputypes.TextureFormatBGRA8Unorm:
		return ARGB8888, nil
	case gputypes.TextureFormatR8Unorm:
		return R8, nil
	default:
		return 0, fmt.Errorf("%w: texture format %v has no DRM equivalent", ErrUnknownFormat, tf)
	}
}

// TextureFormat is the inverse of FromTextureFormat. Formats without a
// WebGPU counterpart return gputypes.TextureFormatUndefined.
func (f Format) TextureFormat() gputypes.TextureFormat {
	switch f {
	case ABGR8888, XBGR8888:
		return gputypes.TextureFormatRGBA8Unorm
	case ARGB8888, XRGB8888:
		return gputypes.TextureFormatBGRA8Unorm
	case R8:
		return gputypes.TextureFormatR8Unorm
	default:
		return gputypes.TextureFormatUndefined
	}
}
