package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/gbm"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Open a device and show the selected backend",
	Args:  cobra.NoArgs,
	RunE:  runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	dev, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	w := cmd.OutOrStdout()
	printTitle(w, "Device")
	printField(w, "node", dev.Node())
	if v, ok := dev.Driver(); ok {
		printField(w, "driver", fmt.Sprintf("%s %d.%d.%d", v.Name, v.Major, v.Minor, v.Patch))
		if v.Desc != "" {
			printField(w, "", dimStyle.Render(v.Desc))
		}
	}
	printField(w, "backend", dev.BackendName())
	printField(w, "registered", strings.Join(gbm.Backends(), ", "))
	printField(w, "combos", len(dev.Combinations().All()))
	return nil
}
