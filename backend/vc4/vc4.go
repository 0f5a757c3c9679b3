// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vc4

import (
	"fmt"

	"github.com/gogpu/gbm"
	"github.com/gogpu/gbm/drm"
	"github.com/gogpu/gbm/fourcc"
)

// Name is the backend name and the kernel driver it serves.
const Name = "vc4"

// Formats the 3D core can render to.
var renderTargetFormats = []fourcc.Format{
	fourcc.ARGB8888,
	fourcc.RGB565,
	fourcc.XRGB8888,
}

// Formats only the texture unit and video blocks handle.
var textureOnlyFormats = []fourcc.Format{
	fourcc.NV12,
	fourcc.YVU420,
}

// tiledMetadata outranks gbm.LinearMetadata so GPU-only render targets
// default to T tiling.
var tiledMetadata = gbm.Metadata{
	Priority: 2,
	Tiling:   uint32(TilingT),
	Modifier: fourcc.ModBroadcomVC4TTiled,
}

// Backend allocates VC4 buffer objects.
//
// Backend holds no mutable state after Init and may serve buffers on
// several goroutines; individual buffers are not synchronized.
type Backend struct {
	kernel Kernel
	combos *gbm.Combinations
}

func init() {
	gbm.Register(Name, 100, func(f *drm.File) gbm.Backend { return New(f) }, nil)
}

// New creates a backend issuing requests on f.
func New(f *drm.File) *Backend {
	return NewWithKernel(&fileKernel{f: f})
}

// NewWithKernel creates a backend on an arbitrary Kernel implementation.
func NewWithKernel(k Kernel) *Backend {
	return &Backend{kernel: k}
}

// Name returns "vc4".
func (b *Backend) Name() string {
	return Name
}

// Init registers the supported combinations.
//
// GPU-only render targets get T tiling; anything the CPU, display or video
// blocks touch stays linear. YV12 is written by the CPU through dma-buf
// mmap and read by the video encoder; NV12 comes out of the decoder and can
// be scanned out directly.
func (b *Backend) Init(combos *gbm.Combinations) error {
	steps := []func() error{
		func() error {
			return combos.Add(renderTargetFormats, tiledMetadata, gbm.UseRenderTarget|gbm.UseTexture)
		},
		func() error { return combos.Add(renderTargetFormats, gbm.LinearMetadata, gbm.UseRenderMask) },
		func() error { return combos.Add(textureOnlyFormats, gbm.LinearMetadata, gbm.UseTextureMask) },
		func() error {
			return combos.Modify(fourcc.YVU420, gbm.LinearMetadata, gbm.UseHWVideoEncoder)
		},
		func() error {
			return combos.Modify(fourcc.NV12, gbm.LinearMetadata,
				gbm.UseHWVideoDecoder|gbm.UseScanout|gbm.UseHWVideoEncoder)
		},
		combos.ModifyLinear,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	b.combos = combos
	return nil
}

// Create allocates a buffer with the modifier registered for
// (format, usage).
func (b *Backend) Create(width, height uint32, format fourcc.Format, usage gbm.Usage) (*gbm.Allocation, error) {
	if b.combos == nil {
		return nil, fmt.Errorf("%w: backend not initialized", gbm.ErrNoCombination)
	}
	combo, err := b.combos.Lookup(format, usage)
	if err != nil {
		return nil, err
	}
	return b.createForModifier(width, height, format, usage, combo.Metadata.Modifier)
}

// CreateWithModifiers allocates a buffer with the most preferred modifier
// among the candidates.
func (b *Backend) CreateWithModifiers(width, height uint32, format fourcc.Format, modifiers []fourcc.Modifier) (*gbm.Allocation, error) {
	modifier, err := PickModifier(modifiers)
	if err != nil {
		return nil, err
	}
	return b.createForModifier(width, height, format, gbm.UseNone, modifier)
}

// createForModifier runs validate, compute, allocate, configure. The only
// compensating step is closing the handle when configuration fails.
func (b *Backend) createForModifier(width, height uint32, format fourcc.Format, usage gbm.Usage, modifier fourcc.Modifier) (*gbm.Allocation, error) {
	switch modifier {
	case fourcc.ModLinear, fourcc.ModBroadcomVC4TTiled:
	default:
		return nil, fmt.Errorf("%w: %s", gbm.ErrUnsupportedModifier, modifier)
	}

	meta, err := ComputeLayout(width, height, format, modifier)
	if err != nil {
		return nil, err
	}
	meta.Usage = usage

	log := gbm.Logger()
	handle, err := b.kernel.CreateBO(uint32(meta.TotalSize))
	if err != nil {
		log.Error("vc4: DRM_IOCTL_VC4_CREATE_BO failed", "size", meta.TotalSize, "err", err)
		return nil, err
	}

	if modifier == fourcc.ModBroadcomVC4TTiled {
		if err := b.kernel.SetTiling(handle, modifier); err != nil {
			if cerr := b.kernel.CloseHandle(handle); cerr != nil {
				log.Warn("vc4: rollback after failed SET_TILING failed", "handle", handle, "err", cerr)
			}
			log.Error("vc4: DRM_IOCTL_VC4_SET_TILING failed", "handle", handle, "err", err)
			return nil, err
		}
	}

	a := &gbm.Allocation{Meta: meta}
	for p := 0; p < meta.NumPlanes; p++ {
		a.Handles[p] = handle
	}

	log.Debug("vc4: buffer created",
		"handle", handle,
		"size", fmt.Sprintf("%dx%d", width, height),
		"format", format.String(),
		"modifier", modifier.String(),
		"tiling", TilingMode(meta.Tiling).String(),
		"stride", meta.Strides[0],
		"bytes", meta.TotalSize)
	return a, nil
}

// Import delegates to the generic PRIME import path. The tiling mode of
// T-tiled imports is derived the same way ComputeLayout derives it.
func (b *Backend) Import(data *gbm.ImportData) (*gbm.Allocation, error) {
	a, err := gbm.ImportPrime(b.kernel, data)
	if err != nil {
		return nil, err
	}
	if data.Modifier == fourcc.ModBroadcomVC4TTiled {
		if meta, err := ComputeLayout(data.Width, data.Height, data.Format, data.Modifier); err == nil {
			a.Meta.Tiling = meta.Tiling
		}
	}
	return a, nil
}

// Destroy closes the buffer's handle. Kernel errors are returned unchanged.
func (b *Backend) Destroy(a *gbm.Allocation) error {
	return b.kernel.CloseHandle(a.Handles[0])
}

// Map maps the whole buffer through plane 0's handle. The plane index is
// only checked for existence.
func (b *Backend) Map(a *gbm.Allocation, plane int, flags gbm.MapFlags) ([]byte, error) {
	if plane < 0 || plane >= a.Meta.NumPlanes {
		return nil, fmt.Errorf("%w: plane %d out of range", gbm.ErrMapFailed, plane)
	}
	if !a.SingleHandle() {
		return nil, fmt.Errorf("%w: %w", gbm.ErrMapFailed, gbm.ErrMultipleHandles)
	}

	offset, err := b.kernel.MmapBO(a.Handles[0])
	if err != nil {
		gbm.Logger().Error("vc4: DRM_IOCTL_VC4_MMAP_BO failed", "handle", a.Handles[0], "err", err)
		return nil, fmt.Errorf("%w: %w", gbm.ErrMapFailed, err)
	}

	data, err := b.kernel.Mmap(offset, int(a.Meta.TotalSize), flags.Prot())
	if err != nil {
		gbm.Logger().Error("vc4: mmap failed", "handle", a.Handles[0], "bytes", a.Meta.TotalSize, "err", err)
		return nil, fmt.Errorf("%w: %w", gbm.ErrMapFailed, err)
	}
	return data, nil
}

// Unmap releases a mapping returned by Map.
func (b *Backend) Unmap(data []byte) error {
	return b.kernel.Munmap(data)
}

var _ gbm.Backend = (*Backend)(nil)
