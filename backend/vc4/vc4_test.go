package vc4

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/gogpu/gbm"
	"github.com/gogpu/gbm/fourcc"
)

func newTestDevice(t *testing.T) (*gbm.Device, *fakeKernel) {
	t.Helper()
	k := newFakeKernel()
	dev, err := gbm.NewDeviceWithBackend(NewWithKernel(k))
	require.NoError(t, err)
	t.Cleanup(func() { _ = dev.Close() })
	return dev, k
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	gbm.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { gbm.SetLogger(nil) })
	return &buf
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, gbm.Backends(), Name)
}

func TestInitCombinations(t *testing.T) {
	dev, _ := newTestDevice(t)
	combos := dev.Combinations()
	require.True(t, combos.Sealed())

	tests := []struct {
		name     string
		format   fourcc.Format
		usage    gbm.Usage
		want     fourcc.Modifier
		wantFail bool
	}{
		{"gpu render target tiles", fourcc.XRGB8888, gbm.UseRenderTarget, fourcc.ModBroadcomVC4TTiled, false},
		{"texture tiles", fourcc.ARGB8888, gbm.UseTexture, fourcc.ModBroadcomVC4TTiled, false},
		{"sw access stays linear", fourcc.XRGB8888, gbm.UseRenderTarget | gbm.UseSWReadOften, fourcc.ModLinear, false},
		{"scanout linear", fourcc.XRGB8888, gbm.UseScanout, fourcc.ModLinear, false},
		{"cursor linear", fourcc.ARGB8888, gbm.UseCursor | gbm.UseScanout, fourcc.ModLinear, false},
		{"nv12 decoder scanout", fourcc.NV12, gbm.UseHWVideoDecoder | gbm.UseScanout, fourcc.ModLinear, false},
		{"yv12 encoder", fourcc.YVU420, gbm.UseHWVideoEncoder | gbm.UseSWWriteOften, fourcc.ModLinear, false},
		{"rgb565 render", fourcc.RGB565, gbm.UseRenderTarget, fourcc.ModBroadcomVC4TTiled, false},
		{"rgb565 no scanout", fourcc.RGB565, gbm.UseScanout, 0, true},
		{"nv12 not renderable", fourcc.NV12, gbm.UseRenderTarget, 0, true},
		{"yv12 no scanout", fourcc.YVU420, gbm.UseScanout, 0, true},
		{"rgb888 unknown", fourcc.RGB888, gbm.UseTexture, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := combos.Lookup(tt.format, tt.usage)
			if tt.wantFail {
				assert.ErrorIs(t, err, gbm.ErrNoCombination)
				assert.False(t, dev.IsFormatSupported(tt.format, tt.usage))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Metadata.Modifier)
		})
	}
}

func TestCreateTiledRenderTarget(t *testing.T) {
	dev, k := newTestDevice(t)

	buf, err := dev.CreateBuffer(1920, 1080, fourcc.XRGB8888, gbm.UseRenderTarget)
	require.NoError(t, err)

	assert.Equal(t, fourcc.ModBroadcomVC4TTiled, buf.Modifier())
	assert.Equal(t, uint32(7680), buf.Stride(0))
	assert.Equal(t, uint64(8355840), buf.Size())
	assert.Equal(t, uint32(TilingT), buf.Meta().Tiling)
	assert.Equal(t, gbm.UseRenderTarget, buf.Meta().Usage)
	assert.Equal(t, []string{"create", "tiling"}, k.callLog())
	assert.Equal(t, []uint32{8355840}, k.created)
	assert.Equal(t, fourcc.ModBroadcomVC4TTiled, k.tiling[buf.Handle(0)])

	require.NoError(t, buf.Destroy())
	assert.Zero(t, k.liveHandles())
}

func TestCreateLinearSkipsTiling(t *testing.T) {
	dev, k := newTestDevice(t)

	buf, err := dev.CreateBuffer(1920, 1080, fourcc.XRGB8888, gbm.UseScanout)
	require.NoError(t, err)

	assert.Equal(t, fourcc.ModLinear, buf.Modifier())
	assert.Equal(t, uint32(7680), buf.Stride(0))
	assert.Equal(t, uint64(8294400), buf.Size())
	assert.Equal(t, []string{"create"}, k.callLog())
}

func TestCreateMultiPlaneSharesHandle(t *testing.T) {
	dev, k := newTestDevice(t)

	buf, err := dev.CreateBuffer(64, 64, fourcc.NV12, gbm.UseTexture)
	require.NoError(t, err)

	require.Equal(t, 2, buf.NumPlanes())
	assert.Equal(t, buf.Handle(0), buf.Handle(1))
	assert.Equal(t, uint32(4096), buf.Offset(1))
	assert.Equal(t, 1, k.liveHandles())
	assert.Panics(t, func() { buf.Handle(2) })
}

func TestCreateWithModifiers(t *testing.T) {
	tests := []struct {
		name      string
		format    fourcc.Format
		modifiers []fourcc.Modifier
		want      fourcc.Modifier
		wantErr   error
	}{
		{"linear only", fourcc.XRGB8888, []fourcc.Modifier{fourcc.ModLinear}, fourcc.ModLinear, nil},
		{"tiled wins", fourcc.XRGB8888, []fourcc.Modifier{fourcc.ModLinear, fourcc.ModBroadcomVC4TTiled}, fourcc.ModBroadcomVC4TTiled, nil},
		{"empty list", fourcc.XRGB8888, nil, 0, gbm.ErrNoCommonModifier},
		{"no common modifier", fourcc.XRGB8888, []fourcc.Modifier{fourcc.ModBroadcomSAND64}, 0, gbm.ErrNoCommonModifier},
		{"untileable format", fourcc.RGB888, []fourcc.Modifier{fourcc.ModBroadcomVC4TTiled}, 0, gbm.ErrUnsupportedFormat},
		{"rgb888 linear", fourcc.RGB888, []fourcc.Modifier{fourcc.ModLinear}, fourcc.ModLinear, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, k := newTestDevice(t)

			buf, err := dev.CreateBufferWithModifiers(640, 480, tt.format, tt.modifiers)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, -int(unix.EINVAL), gbm.ErrorCode(err))
				assert.Empty(t, k.callLog(), "rejected requests must not reach the kernel")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.Modifier())
			require.NoError(t, buf.Destroy())
		})
	}
}

func TestCreateInvalidDimensions(t *testing.T) {
	dev, k := newTestDevice(t)

	_, err := dev.CreateBuffer(0, 16, fourcc.XRGB8888, gbm.UseScanout)
	assert.ErrorIs(t, err, gbm.ErrInvalidDimensions)
	_, err = dev.CreateBufferWithModifiers(16, 0, fourcc.XRGB8888, []fourcc.Modifier{fourcc.ModLinear})
	assert.ErrorIs(t, err, gbm.ErrInvalidDimensions)
	assert.Empty(t, k.callLog())
}

func TestCreateKernelFailure(t *testing.T) {
	dev, k := newTestDevice(t)
	k.failCreate = errno("DRM_IOCTL_VC4_CREATE_BO", unix.ENOMEM)
	logs := captureLogs(t)

	_, err := dev.CreateBuffer(256, 256, fourcc.ARGB8888, gbm.UseTexture)
	require.Error(t, err)
	assert.ErrorIs(t, err, unix.ENOMEM)
	assert.Equal(t, -int(unix.ENOMEM), gbm.ErrorCode(err))
	assert.Zero(t, k.liveHandles())
	assert.Contains(t, logs.String(), "DRM_IOCTL_VC4_CREATE_BO failed")
}

func TestCreateTilingFailureRollsBack(t *testing.T) {
	dev, k := newTestDevice(t)
	k.failTiling = errno("DRM_IOCTL_VC4_SET_TILING", unix.EINVAL)

	_, err := dev.CreateBuffer(1920, 1080, fourcc.XRGB8888, gbm.UseRenderTarget)
	require.Error(t, err)
	assert.Equal(t, k.failTiling, err)
	assert.Equal(t, []string{"create", "tiling", "close"}, k.callLog())
	assert.Zero(t, k.liveHandles(), "handle must be released after a failed SET_TILING")
}

func TestCreateRollbackFailureReturnsTilingError(t *testing.T) {
	dev, k := newTestDevice(t)
	k.failTiling = errno("DRM_IOCTL_VC4_SET_TILING", unix.EINVAL)
	k.failClose = errno("DRM_IOCTL_GEM_CLOSE", unix.EBADF)
	logs := captureLogs(t)

	_, err := dev.CreateBuffer(1920, 1080, fourcc.XRGB8888, gbm.UseRenderTarget)
	require.Error(t, err)
	assert.ErrorIs(t, err, unix.EINVAL)
	assert.NotErrorIs(t, err, unix.EBADF)
	assert.Contains(t, logs.String(), "rollback")
}

func TestMap(t *testing.T) {
	dev, k := newTestDevice(t)

	buf, err := dev.CreateBuffer(100, 100, fourcc.YVU420, gbm.UseSWWriteOften)
	require.NoError(t, err)

	// Any existing plane maps the whole buffer from offset 0.
	for p := 0; p < buf.NumPlanes(); p++ {
		view, err := buf.Map(p, gbm.MapReadWrite)
		require.NoError(t, err)
		assert.Equal(t, int(buf.Size()), view.Len())
		assert.Equal(t, p, view.Plane())
		assert.Equal(t, gbm.MapReadWrite, view.Flags())

		view.Bytes()[buf.Offset(p)] = 0xff
		require.NoError(t, view.Unmap())
		assert.ErrorIs(t, view.Unmap(), gbm.ErrNotMapped)
	}
	assert.Zero(t, k.mappings())
	require.NoError(t, buf.Destroy())
}

func TestMapFailures(t *testing.T) {
	tests := []struct {
		name  string
		plane int
		setup func(k *fakeKernel)
		cause error
		calls []string
	}{
		{name: "plane out of range", plane: 1, calls: []string{"create"}},
		{name: "negative plane", plane: -1, calls: []string{"create"}},
		{
			name:  "mmap_bo refused",
			setup: func(k *fakeKernel) { k.failMmapBO = errno("DRM_IOCTL_VC4_MMAP_BO", unix.EINVAL) },
			cause: unix.EINVAL,
			calls: []string{"create", "mmap_bo"},
		},
		{
			name:  "mmap refused",
			setup: func(k *fakeKernel) { k.failMmap = unix.ENOMEM },
			cause: unix.ENOMEM,
			calls: []string{"create", "mmap_bo", "mmap"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, k := newTestDevice(t)
			buf, err := dev.CreateBuffer(64, 64, fourcc.XRGB8888, gbm.UseLinear)
			require.NoError(t, err)
			if tt.setup != nil {
				tt.setup(k)
			}

			view, err := buf.Map(tt.plane, gbm.MapRead)
			assert.Nil(t, view)
			assert.ErrorIs(t, err, gbm.ErrMapFailed)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
			assert.Equal(t, tt.calls, k.callLog())

			// The buffer survives a failed map.
			require.NoError(t, buf.Destroy())
		})
	}
}

func TestMapRequiresSingleHandle(t *testing.T) {
	k := newFakeKernel()
	b := NewWithKernel(k)

	meta, err := ComputeLayout(64, 64, fourcc.NV12, fourcc.ModLinear)
	require.NoError(t, err)
	a := &gbm.Allocation{Handles: [gbm.MaxPlanes]uint32{1, 2}, Meta: meta}

	_, err = b.Map(a, 0, gbm.MapRead)
	assert.ErrorIs(t, err, gbm.ErrMapFailed)
	assert.ErrorIs(t, err, gbm.ErrMultipleHandles)
	assert.Empty(t, k.callLog())
}

func TestDestroyTwice(t *testing.T) {
	dev, _ := newTestDevice(t)

	buf, err := dev.CreateBuffer(32, 32, fourcc.ARGB8888, gbm.UseCursor)
	require.NoError(t, err)
	require.NoError(t, buf.Destroy())

	err = buf.Destroy()
	require.Error(t, err)
	assert.ErrorIs(t, err, unix.EINVAL)
}

func TestCreateBeforeInit(t *testing.T) {
	b := NewWithKernel(newFakeKernel())
	_, err := b.Create(16, 16, fourcc.XRGB8888, gbm.UseScanout)
	assert.ErrorIs(t, err, gbm.ErrNoCombination)
}

func TestInitSealed(t *testing.T) {
	combos := gbm.NewCombinations()
	combos.Seal()
	err := NewWithKernel(newFakeKernel()).Init(combos)
	assert.ErrorIs(t, err, gbm.ErrSealed)
}

func TestConcurrentBuffers(t *testing.T) {
	dev, k := newTestDevice(t)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			usage := gbm.UseRenderTarget
			if i%2 == 0 {
				usage = gbm.UseScanout
			}
			buf, err := dev.CreateBuffer(uint32(64+i), 64, fourcc.XRGB8888, usage)
			if err != nil {
				errs <- err
				return
			}
			view, err := buf.Map(0, gbm.MapWrite)
			if err != nil {
				errs <- err
				return
			}
			view.Bytes()[0] = byte(i)
			if err := view.Unmap(); err != nil {
				errs <- err
				return
			}
			errs <- buf.Destroy()
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Zero(t, k.liveHandles())
	assert.Zero(t, k.mappings())
}

func dmabufFile(t *testing.T, size int) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "dmabuf"))
	require.NoError(t, err)
	require.NoError(t, f.Truncate(int64(size)))
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestImport(t *testing.T) {
	dev, k := newTestDevice(t)
	f := dmabufFile(t, 8355840)

	data := &gbm.ImportData{
		Width:    1920,
		Height:   1080,
		Format:   fourcc.XRGB8888,
		Modifier: fourcc.ModBroadcomVC4TTiled,
		Usage:    gbm.UseTexture,
	}
	data.FDs[0] = int(f.Fd())
	data.Strides[0] = 7680

	buf, err := dev.ImportBuffer(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(8355840), buf.Size())
	assert.Equal(t, uint32(TilingT), buf.Meta().Tiling)
	assert.Equal(t, fourcc.ModBroadcomVC4TTiled, buf.Modifier())

	view, err := buf.Map(0, gbm.MapRead)
	require.NoError(t, err)
	assert.Equal(t, 8355840, view.Len())
	require.NoError(t, view.Unmap())

	require.NoError(t, buf.Destroy())
	assert.Zero(t, k.liveHandles())
}

func TestImportFailureReleasesHandles(t *testing.T) {
	dev, k := newTestDevice(t)
	y := dmabufFile(t, 4096)
	uv := dmabufFile(t, 2048)

	k.primeFail = map[int]error{int(uv.Fd()): errno("DRM_IOCTL_PRIME_FD_TO_HANDLE", unix.EBADF)}

	data := &gbm.ImportData{Width: 64, Height: 64, Format: fourcc.NV12}
	data.FDs[0], data.FDs[1] = int(y.Fd()), int(uv.Fd())
	data.Strides[0], data.Strides[1] = 64, 64

	_, err := dev.ImportBuffer(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, unix.EBADF)
	assert.Zero(t, k.liveHandles())
	assert.True(t, slices.Contains(k.callLog(), "close"))
}

func TestErrorCodes(t *testing.T) {
	dev, k := newTestDevice(t)

	_, err := dev.CreateBufferWithModifiers(64, 64, fourcc.XRGB8888, []fourcc.Modifier{fourcc.ModBroadcomUIF})
	assert.Equal(t, -int(unix.EINVAL), gbm.ErrorCode(err))

	k.failCreate = errors.New("driver gone")
	_, err = dev.CreateBuffer(64, 64, fourcc.XRGB8888, gbm.UseScanout)
	assert.Equal(t, -int(unix.EIO), gbm.ErrorCode(err))
}

func TestCreateSmallRenderTargetUsesLT(t *testing.T) {
	dev, _ := newTestDevice(t)

	buf, err := dev.CreateBuffer(4, 4, fourcc.XRGB8888, gbm.UseRenderTarget)
	require.NoError(t, err)
	assert.Equal(t, fourcc.ModBroadcomVC4TTiled, buf.Modifier())
	assert.Equal(t, uint32(TilingLT), buf.Meta().Tiling)
	assert.Equal(t, uint64(64), buf.Size())
}

func TestConcurrentMapsOfOneBuffer(t *testing.T) {
	dev, k := newTestDevice(t)

	buf, err := dev.CreateBuffer(1920, 1080, fourcc.XRGB8888, gbm.UseRenderTarget)
	require.NoError(t, err)

	views := make([]*gbm.MappedView, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range views {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			views[i], errs[i] = buf.Map(0, gbm.MapRead)
		}(i)
	}
	wg.Wait()

	for i, v := range views {
		require.NoError(t, errs[i])
		assert.Equal(t, int(buf.Size()), v.Len())
	}
	assert.Equal(t, 2, k.mappings())
	for _, v := range views {
		require.NoError(t, v.Unmap())
	}
	assert.Zero(t, k.mappings())
	assert.Equal(t, 1, k.liveHandles())
}
