package commands

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/gbm/backend/vc4"
	"github.com/gogpu/gbm/fourcc"
)

var (
	layoutFormat   string
	layoutModifier string
)

var layoutCmd = &cobra.Command{
	Use:   "layout WIDTH HEIGHT",
	Short: "Print the VC4 layout of a buffer without allocating it",
	Args:  cobra.ExactArgs(2),

	// No device or config is needed.
	PersistentPreRun: func(*cobra.Command, []string) { applyColor() },
	RunE:             runLayout,
}

func init() {
	layoutCmd.Flags().StringVarP(&layoutFormat, "format", "f", "XRGB8888", "pixel format name or fourcc")
	layoutCmd.Flags().StringVarP(&layoutModifier, "modifier", "m", "BROADCOM_VC4_T_TILED", "format modifier")
	rootCmd.AddCommand(layoutCmd)
}

func runLayout(cmd *cobra.Command, args []string) error {
	width, height, err := parseDims(args)
	if err != nil {
		return err
	}
	format, err := fourcc.ParseFormat(layoutFormat)
	if err != nil {
		return err
	}
	modifier, err := fourcc.ParseModifier(layoutModifier)
	if err != nil {
		return err
	}

	meta, err := vc4.ComputeLayout(width, height, format, modifier)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printTitle(w, "Layout")
	printMeta(w, meta)
	return nil
}
