package gbm

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// Usage is a bitmask specifying how a buffer will be used.
type Usage uint64

// Buffer usage flags.
const (
	// UseScanout indicates the buffer can be presented by a display controller.
	UseScanout Usage = 1 << 0

	// UseCursor indicates the buffer can be used as a hardware cursor image.
	UseCursor Usage = 1 << 1

	// UseRenderTarget indicates the GPU renders into the buffer.
	UseRenderTarget Usage = 1 << 2

	// UseLinear requires a linear layout.
	UseLinear Usage = 1 << 4

	// UseTexture indicates the GPU samples from the buffer.
	UseTexture Usage = 1 << 5

	// UseCameraWrite indicates a camera pipeline writes the buffer.
	UseCameraWrite Usage = 1 << 6

	// UseCameraRead indicates a camera pipeline reads the buffer.
	UseCameraRead Usage = 1 << 7

	// UseProtected requests protected (secure) memory.
	UseProtected Usage = 1 << 8

	// UseSWReadOften indicates frequent CPU reads.
	UseSWReadOften Usage = 1 << 9

	// UseSWReadRarely indicates occasional CPU reads.
	UseSWReadRarely Usage = 1 << 10

	// UseSWWriteOften indicates frequent CPU writes.
	UseSWWriteOften Usage = 1 << 11

	// UseSWWriteRarely indicates occasional CPU writes.
	UseSWWriteRarely Usage = 1 << 12

	// UseHWVideoDecoder indicates a video decoder writes the buffer.
	UseHWVideoDecoder Usage = 1 << 13

	// UseHWVideoEncoder indicates a video encoder reads the buffer.
	UseHWVideoEncoder Usage = 1 << 14

	// UseTestAlloc marks a probe allocation that is never used.
	UseTestAlloc Usage = 1 << 15

	// UseRenderscript indicates compute access.
	UseRenderscript Usage = 1 << 16
)

// Usage masks shared by backends when registering combinations.
const (
	UseNone Usage = 0

	UseSWMask = UseSWReadOften | UseSWReadRarely | UseSWWriteOften | UseSWWriteRarely

	UseRenderMask = UseLinear | UseRenderTarget | UseRenderscript | UseSWMask | UseTexture

	UseTextureMask = UseLinear | UseRenderscript | UseSWMask | UseTexture
)

var usageNames = []struct {
	flag Usage
	name string
}{
	{UseScanout, "scanout"},
	{UseCursor, "cursor"},
	{UseRenderTarget, "render-target"},
	{UseLinear, "linear"},
	{UseTexture, "texture"},
	{UseCameraWrite, "camera-write"},
	{UseCameraRead, "camera-read"},
	{UseProtected, "protected"},
	{UseSWReadOften, "sw-read-often"},
	{UseSWReadRarely, "sw-read-rarely"},
	{UseSWWriteOften, "sw-write-often"},
	{UseSWWriteRarely, "sw-write-rarely"},
	{UseHWVideoDecoder, "video-decoder"},
	{UseHWVideoEncoder, "video-encoder"},
	{UseTestAlloc, "test-alloc"},
	{UseRenderscript, "renderscript"},
}

// String returns the set flags joined by "|", or "none".
func (u Usage) String() string {
	if u == UseNone {
		return "none"
	}
	var parts []string
	for _, n := range usageNames {
		if u&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseUsage parses a "|" or "," separated list of flag names as printed
// by Usage.String.
func ParseUsage(s string) (Usage, error) {
	var u Usage
	for _, field := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		field = strings.TrimSpace(field)
		if field == "none" {
			continue
		}
		found := false
		for _, n := range usageNames {
			if strings.EqualFold(n.name, field) {
				u |= n.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: unknown usage %q", ErrInvalidArgument, field)
		}
	}
	return u, nil
}

// MapFlags states what the CPU intends to do with a mapping.
type MapFlags uint32

// Map flags.
const (
	MapRead      MapFlags = 1 << 0
	MapWrite     MapFlags = 1 << 1
	MapReadWrite          = MapRead | MapWrite
)

// Prot returns the page protection for a mapping: read-write when writes
// are intended, read-only otherwise.
func (f MapFlags) Prot() int {
	if f&MapWrite != 0 {
		return unix.PROT_READ | unix.PROT_WRITE
	}
	return unix.PROT_READ
}
