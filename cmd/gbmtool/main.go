// Command gbmtool inspects DRM devices and allocates buffers through gbm.
//
// Usage:
//
//	gbmtool probe
//	gbmtool formats --usage scanout
//	gbmtool layout 1920 1080 --format XRGB8888 --modifier BROADCOM_VC4_T_TILED
//	gbmtool alloc 1920 1080 --usage render-target --map
package main

import (
	"os"

	"github.com/gogpu/gbm/cmd/gbmtool/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
