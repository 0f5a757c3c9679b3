// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gbm

import (
	"errors"
	"fmt"

	"github.com/gogpu/gbm/drm"
	"github.com/gogpu/gbm/fourcc"
)

// ErrNoDevice is returned by OpenDefault when no node has a backend.
var ErrNoDevice = errors.New("gbm: no supported device")

// Device is an open DRM node together with the backend serving it.
//
// A Device may be shared by goroutines: it holds no mutable state after
// creation, and every backend call is a self-contained kernel request.
type Device struct {
	file    *drm.File // nil when the backend was injected
	driver  *drm.Version
	backend Backend
	combos  *Combinations
}

// Open opens the DRM node at path and selects its backend.
func Open(path string, opts ...DeviceOption) (*Device, error) {
	f, err := drm.Open(path)
	if err != nil {
		return nil, err
	}
	d, err := NewDevice(f, opts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return d, nil
}

// OpenDefault probes the nodes under /dev/dri and returns the first one a
// registered backend drives. Render nodes are tried before primary nodes.
func OpenDefault(opts ...DeviceOption) (*Device, error) {
	nodes, err := drm.Nodes(drm.DefaultDir)
	if err != nil {
		return nil, err
	}

	lastErr := ErrNoDevice
	for _, node := range nodes {
		d, err := Open(node, opts...)
		if err == nil {
			return d, nil
		}
		Logger().Debug("gbm: skipping node", "node", node, "err", err)
		lastErr = err
	}
	return nil, lastErr
}

// NewDevice wraps an open node. On success the Device owns f.
func NewDevice(f *drm.File, opts ...DeviceOption) (*Device, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var (
		entry  *RegistryEntry
		driver *drm.Version
	)
	if o.backend != "" {
		e, ok := o.registry.Get(o.backend)
		if !ok {
			return nil, &BackendNotFoundError{Driver: o.backend}
		}
		entry = e
	} else {
		v, err := f.Version()
		if err != nil {
			return nil, err
		}
		e, err := o.registry.ForDriver(v.Name)
		if err != nil {
			return nil, err
		}
		entry, driver = e, v
		Logger().Info("gbm: probed driver", "node", f.Name(), "driver", v.Name,
			"version", fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch))
	}

	d, err := newDevice(f, entry.Factory(f))
	if err != nil {
		return nil, err
	}
	d.driver = driver
	return d, nil
}

// NewDeviceWithBackend creates a Device around an already constructed
// backend, bypassing probing.
func NewDeviceWithBackend(b Backend) (*Device, error) {
	return newDevice(nil, b)
}

func newDevice(f *drm.File, b Backend) (*Device, error) {
	combos := NewCombinations()
	if err := b.Init(combos); err != nil {
		return nil, fmt.Errorf("gbm: %s init: %w", b.Name(), err)
	}
	combos.Seal()

	Logger().Info("gbm: backend ready", "backend", b.Name(), "combinations", len(combos.combos))
	return &Device{file: f, backend: b, combos: combos}, nil
}

// Close releases the device node. Kernel objects of buffers that were
// never destroyed are freed with it.
func (d *Device) Close() error {
	if d.file == nil {
		return nil
	}
	return d.file.Close()
}

// Node returns the path of the device node, or "" when the backend was
// injected with NewDeviceWithBackend.
func (d *Device) Node() string {
	if d.file == nil {
		return ""
	}
	return d.file.Name()
}

// Driver returns the kernel driver version read while probing. ok is false
// when the backend was forced or injected.
func (d *Device) Driver() (v drm.Version, ok bool) {
	if d.driver == nil {
		return drm.Version{}, false
	}
	return *d.driver, true
}

// BackendName returns the name of the backend serving the device.
func (d *Device) BackendName() string {
	return d.backend.Name()
}

// Combinations returns the sealed combination registry of the device.
func (d *Device) Combinations() *Combinations {
	return d.combos
}

// IsFormatSupported reports whether buffers of format can be created for
// usage without an explicit modifier.
func (d *Device) IsFormatSupported(format fourcc.Format, usage Usage) bool {
	return d.combos.Supports(format, usage)
}

// CreateBuffer allocates a buffer laid out for usage.
func (d *Device) CreateBuffer(width, height uint32, format fourcc.Format, usage Usage) (*Buffer, error) {
	if width == 0 || height == 0 {
		return nil, ErrInvalidDimensions
	}
	a, err := d.backend.Create(width, height, format, usage)
	if err != nil {
		return nil, err
	}
	return &Buffer{dev: d, alloc: a}, nil
}

// CreateBufferWithModifiers allocates a buffer using one of the candidate
// modifiers, chosen by the backend's preference order.
func (d *Device) CreateBufferWithModifiers(width, height uint32, format fourcc.Format, modifiers []fourcc.Modifier) (*Buffer, error) {
	if width == 0 || height == 0 {
		return nil, ErrInvalidDimensions
	}
	if len(modifiers) == 0 {
		return nil, ErrNoCommonModifier
	}
	a, err := d.backend.CreateWithModifiers(width, height, format, modifiers)
	if err != nil {
		return nil, err
	}
	return &Buffer{dev: d, alloc: a}, nil
}

// ImportBuffer wraps dma-buf descriptors exported by another device or
// process. The descriptors remain owned by the caller.
func (d *Device) ImportBuffer(data *ImportData) (*Buffer, error) {
	if data == nil || data.Width == 0 || data.Height == 0 {
		return nil, ErrInvalidDimensions
	}
	a, err := d.backend.Import(data)
	if err != nil {
		return nil, err
	}
	return &Buffer{dev: d, alloc: a}, nil
}
