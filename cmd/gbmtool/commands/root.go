// Package commands implements the gbmtool subcommands.
package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/gogpu/gbm"
	"github.com/gogpu/gbm/internal/config"
)

var (
	cfgFile     string
	devicePath  string
	backendName string
	verbose     bool
	noColor     bool

	cfg *config.Config
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "gbmtool",
	Short: "Inspect DRM devices and allocate GPU buffers",
	Long: `gbmtool opens a DRM device node, selects the buffer allocation backend
for its kernel driver and reports what the device can allocate.

The layout command works without hardware: it prints the memory layout a
VC4 buffer would get.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command and prints any error.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
	}
	return err
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/gbm/gbm.yaml)")
	flags.StringVarP(&devicePath, "device", "d", "", "DRM node to open (default: probe /dev/dri)")
	flags.StringVarP(&backendName, "backend", "b", "", "force a backend instead of matching the driver")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")
}

// loadConfig merges the config file, GBM_* variables and flags, then
// installs the logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	applyColor()

	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("device") {
		c.Device.Path = devicePath
	}
	if flags.Changed("backend") {
		c.Device.Backend = backendName
	}
	if verbose {
		c.Logging.Level = "debug"
	}
	if err := c.Validate(); err != nil {
		return err
	}

	gbm.SetLogger(c.NewLogger(os.Stderr))
	cfg = c
	return nil
}

func applyColor() {
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// openDevice opens the configured node, or probes /dev/dri.
func openDevice() (*gbm.Device, error) {
	var opts []gbm.DeviceOption
	if cfg.Device.Backend != "" {
		opts = append(opts, gbm.WithBackend(cfg.Device.Backend))
	}
	if cfg.Device.Path != "" {
		return gbm.Open(cfg.Device.Path, opts...)
	}
	return gbm.OpenDefault(opts...)
}
