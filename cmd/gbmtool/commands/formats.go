package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/gbm"
	"github.com/gogpu/gbm/backend/vc4"
)

var formatsUsage string

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the format, modifier and usage combinations of a device",
	Args:  cobra.NoArgs,
	RunE:  runFormats,
}

func init() {
	formatsCmd.Flags().StringVarP(&formatsUsage, "usage", "u", "", "only show combinations supporting these usage flags")
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, args []string) error {
	usage, err := gbm.ParseUsage(formatsUsage)
	if err != nil {
		return err
	}

	dev, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	w := cmd.OutOrStdout()
	printTitle(w, fmt.Sprintf("Combinations (%s)", dev.BackendName()))
	for _, c := range dev.Combinations().All() {
		if c.Usage&usage != usage {
			continue
		}
		fmt.Fprintf(w, "%-10s %-22s %-6s %s %s\n",
			c.Format.Name(),
			c.Metadata.Modifier,
			vc4.TilingMode(c.Metadata.Tiling),
			dimStyle.Render(fmt.Sprintf("prio %d", c.Metadata.Priority)),
			c.Usage)
	}
	return nil
}
