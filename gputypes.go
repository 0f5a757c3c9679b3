package gbm

import (
	"github.com/gogpu/gputypes"
)

// UsageFromTexture converts WebGPU texture usage to buffer usage.
// Copy usages need CPU-visible memory, so they request linear,
// software-accessible buffers.
func UsageFromTexture(usage gputypes.TextureUsage) Usage {
	var result Usage

	if usage&gputypes.TextureUsageRenderAttachment != 0 {
		result |= UseRenderTarget
	}
	if usage&gputypes.TextureUsageTextureBinding != 0 {
		result |= UseTexture
	}
	if usage&gputypes.TextureUsageCopySrc != 0 {
		result |= UseSWReadOften | UseLinear
	}
	if usage&gputypes.TextureUsageCopyDst != 0 {
		result |= UseSWWriteOften | UseLinear
	}

	return result
}

// MapFlagsFromMode converts a WebGPU buffer map mode to map flags.
func MapFlagsFromMode(mode gputypes.MapMode) MapFlags {
	var flags MapFlags
	if mode&gputypes.MapModeRead != 0 {
		flags |= MapRead
	}
	if mode&gputypes.MapModeWrite != 0 {
		flags |= MapWrite
	}
	return flags
}
