package vc4

import (
	"fmt"
	"math"

	"github.com/gogpu/gbm"
	"github.com/gogpu/gbm/fourcc"
)

// TilingMode is the VC4 tiling format of a buffer (VC4_TILING_FORMAT_*).
type TilingMode uint32

// Tiling modes.
const (
	TilingLinear TilingMode = 0
	TilingT      TilingMode = 1
	TilingLT     TilingMode = 2
)

func (m TilingMode) String() string {
	switch m {
	case TilingLinear:
		return "linear"
	case TilingT:
		return "T"
	case TilingLT:
		return "LT"
	default:
		return fmt.Sprintf("TilingMode(%d)", uint32(m))
	}
}

// linearStrideAlign is the row alignment of linear buffers, one ARM L1
// cache line.
const linearStrideAlign = 64

// MicroTile returns the pixel dimensions of a micro-tile for the given
// bytes per pixel.
func MicroTile(bytesPerPixel uint32) (width, height uint32, err error) {
	switch bytesPerPixel {
	case 1, 2:
		return 8, 8, nil
	case 4:
		return 4, 4, nil
	case 8:
		return 2, 4, nil
	default:
		return 0, 0, fmt.Errorf("%w: %d bytes per pixel cannot be tiled", gbm.ErrUnsupportedFormat, bytesPerPixel)
	}
}

// smallTiles reports whether a surface uses LT ordering: either dimension
// is at most four micro-tiles.
func smallTiles(width, height, tileW, tileH uint32) bool {
	return width <= 4*tileW || height <= 4*tileH
}

// ComputeLayout returns the layout of a buffer without allocating it.
// Only ModLinear and ModBroadcomVC4TTiled are accepted.
func ComputeLayout(width, height uint32, format fourcc.Format, modifier fourcc.Modifier) (gbm.Meta, error) {
	meta := gbm.Meta{
		Width:    width,
		Height:   height,
		Format:   format,
		Modifier: modifier,
	}

	var stride, alignedHeight uint64
	switch modifier {
	case fourcc.ModLinear:
		// Plane 0 is never horizontally subsampled.
		bpp, err := fourcc.BytesPerPixel(format, 0)
		if err != nil {
			return gbm.Meta{}, fmt.Errorf("%w: %w", gbm.ErrUnsupportedFormat, err)
		}
		meta.Tiling = uint32(TilingLinear)
		stride = alignUp(uint64(width)*uint64(bpp), linearStrideAlign)
		alignedHeight = uint64(height)

	case fourcc.ModBroadcomVC4TTiled:
		bpp, err := fourcc.BytesPerPixel(format, 0)
		if err != nil {
			return gbm.Meta{}, fmt.Errorf("%w: %w", gbm.ErrUnsupportedFormat, err)
		}
		tileW, tileH, err := MicroTile(bpp)
		if err != nil {
			return gbm.Meta{}, err
		}

		levelWidth, levelHeight := uint64(width), uint64(height)
		if smallTiles(width, height, tileW, tileH) {
			meta.Tiling = uint32(TilingLT)
			levelWidth = alignUp(levelWidth, uint64(tileW))
			levelHeight = alignUp(levelHeight, uint64(tileH))
		} else {
			// Four tiles of two sub-tiles per dimension.
			meta.Tiling = uint32(TilingT)
			levelWidth = alignUp(levelWidth, uint64(4*2*tileW))
			levelHeight = alignUp(levelHeight, uint64(4*2*tileH))
		}
		stride = levelWidth * uint64(bpp)
		alignedHeight = levelHeight

	default:
		return gbm.Meta{}, fmt.Errorf("%w: %s", gbm.ErrUnsupportedModifier, modifier)
	}

	if stride > math.MaxUint32 || alignedHeight > math.MaxUint32 {
		return gbm.Meta{}, fmt.Errorf("%w: %dx%d %s", gbm.ErrBufferTooLarge, width, height, format)
	}

	g, err := fourcc.Fill(format, uint32(stride), uint32(alignedHeight))
	if err != nil {
		return gbm.Meta{}, fmt.Errorf("%w: %w", gbm.ErrUnsupportedFormat, err)
	}
	if g.TotalSize > math.MaxUint32 {
		return gbm.Meta{}, fmt.Errorf("%w: %d bytes", gbm.ErrBufferTooLarge, g.TotalSize)
	}

	meta.NumPlanes = len(g.Planes)
	for p, pl := range g.Planes {
		meta.Strides[p] = pl.Stride
		meta.Sizes[p] = uint32(pl.Size)
		meta.Offsets[p] = uint32(pl.Offset)
	}
	meta.TotalSize = g.TotalSize
	return meta, nil
}

func alignUp(v, a uint64) uint64 {
	return (v + a - 1) / a * a
}
