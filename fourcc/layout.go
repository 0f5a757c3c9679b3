package fourcc

import "fmt"

// MaxPlanes is the largest plane count of any format.
const MaxPlanes = 4

// planarLayout describes how a format splits into planes.
type planarLayout struct {
	numPlanes         int
	hSubsampling      [MaxPlanes]uint32
	vSubsampling      [MaxPlanes]uint32
	bytesPerComponent [MaxPlanes]uint32
}

var (
	packed1bpp = planarLayout{1, [4]uint32{1}, [4]uint32{1}, [4]uint32{1}}
	packed2bpp = planarLayout{1, [4]uint32{1}, [4]uint32{1}, [4]uint32{2}}
	packed3bpp = planarLayout{1, [4]uint32{1}, [4]uint32{1}, [4]uint32{3}}
	packed4bpp = planarLayout{1, [4]uint32{1}, [4]uint32{1}, [4]uint32{4}}
	packed8bpp = planarLayout{1, [4]uint32{1}, [4]uint32{1}, [4]uint32{8}}

	biplanarYUV420 = planarLayout{
		numPlanes:         2,
		hSubsampling:      [4]uint32{1, 2},
		vSubsampling:      [4]uint32{1, 2},
		bytesPerComponent: [4]uint32{1, 2},
	}

	triplanarYUV420 = planarLayout{
		numPlanes:         3,
		hSubsampling:      [4]uint32{1, 2, 2},
		vSubsampling:      [4]uint32{1, 2, 2},
		bytesPerComponent: [4]uint32{1, 1, 1},
	}
)

var layouts = map[Format]*planarLayout{
	C8:            &packed1bpp,
	R8:            &packed1bpp,
	GR88:          &packed2bpp,
	RGB565:        &packed2bpp,
	BGR565:        &packed2bpp,
	RGB888:        &packed3bpp,
	XRGB8888:      &packed4bpp,
	ARGB8888:      &packed4bpp,
	XBGR8888:      &packed4bpp,
	ABGR8888:      &packed4bpp,
	ABGR16161616F: &packed8bpp,
	NV12:          &biplanarYUV420,
	YVU420:        &triplanarYUV420,
}

func lookup(f Format) (*planarLayout, error) {
	l, ok := layouts[f]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
	return l, nil
}

// NumPlanes returns the plane count of f, or 0 if f is unknown.
func NumPlanes(f Format) int {
	l, ok := layouts[f]
	if !ok {
		return 0
	}
	return l.numPlanes
}

// BytesPerPixel returns the bytes per component of the given plane.
func BytesPerPixel(f Format, plane int) (uint32, error) {
	l, err := lookup(f)
	if err != nil {
		return 0, err
	}
	if plane < 0 || plane >= l.numPlanes {
		return 0, fmt.Errorf("fourcc: plane %d out of range for %s", plane, f)
	}
	return l.bytesPerComponent[plane], nil
}

// Stride returns the minimum byte stride of a plane for the given width.
func Stride(f Format, width uint32, plane int) (uint32, error) {
	l, err := lookup(f)
	if err != nil {
		return 0, err
	}
	if plane < 0 || plane >= l.numPlanes {
		return 0, fmt.Errorf("fourcc: plane %d out of range for %s", plane, f)
	}
	return divRoundUp(width, l.hSubsampling[plane]) * l.bytesPerComponent[plane], nil
}

// PlaneLayout is the placement of one plane inside a buffer.
type PlaneLayout struct {
	Stride uint32
	Size   uint64
	Offset uint64
}

// Geometry is the per-plane placement of a whole buffer.
type Geometry struct {
	Planes    []PlaneLayout
	TotalSize uint64
}

// Fill derives the per-plane strides, sizes and offsets of a buffer whose
// first plane has the given stride and whose luma height is alignedHeight.
// Planes are packed back to back starting at offset 0.
func Fill(f Format, stride, alignedHeight uint32) (Geometry, error) {
	l, err := lookup(f)
	if err != nil {
		return Geometry{}, err
	}

	g := Geometry{Planes: make([]PlaneLayout, l.numPlanes)}
	var offset uint64
	for p := 0; p < l.numPlanes; p++ {
		s := subsampleStride(f, stride, p)
		size := uint64(s) * uint64(divRoundUp(alignedHeight, l.vSubsampling[p]))
		g.Planes[p] = PlaneLayout{Stride: s, Size: size, Offset: offset}
		offset += size
	}
	g.TotalSize = offset
	return g, nil
}

// subsampleStride halves the chroma stride of fully planar 4:2:0 formats.
// Interleaved chroma (NV12) keeps the luma stride.
func subsampleStride(f Format, stride uint32, plane int) uint32 {
	if plane != 0 && f == YVU420 {
		return divRoundUp(stride, 2)
	}
	return stride
}

func divRoundUp(n, d uint32) uint32 {
	return uint32((uint64(n) + uint64(d) - 1) / uint64(d))
}
