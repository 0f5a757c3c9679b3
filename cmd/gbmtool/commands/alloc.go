package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/gbm"
	"github.com/gogpu/gbm/fourcc"
)

var (
	allocFormat    string
	allocUsage     string
	allocModifiers []string
	allocMap       bool
)

var allocCmd = &cobra.Command{
	Use:   "alloc WIDTH HEIGHT",
	Short: "Allocate a buffer, print its layout and free it",
	Long: `Allocate a buffer on the device and print the layout the kernel accepted.

Without --modifier the combination registered for --usage decides the
layout. With one or more --modifier flags the backend picks its preferred
modifier among them. --map additionally maps the buffer read-write and
clears it.`,
	Args: cobra.ExactArgs(2),
	RunE: runAlloc,
}

func init() {
	flags := allocCmd.Flags()
	flags.StringVarP(&allocFormat, "format", "f", "XRGB8888", "pixel format name or fourcc")
	flags.StringVarP(&allocUsage, "usage", "u", "render-target", "usage flags separated by | or ,")
	flags.StringSliceVarP(&allocModifiers, "modifier", "m", nil, "candidate modifier (repeatable)")
	flags.BoolVar(&allocMap, "map", false, "map and clear the buffer")
	rootCmd.AddCommand(allocCmd)
}

func runAlloc(cmd *cobra.Command, args []string) (err error) {
	width, height, err := parseDims(args)
	if err != nil {
		return err
	}
	format, err := fourcc.ParseFormat(allocFormat)
	if err != nil {
		return err
	}

	var modifiers []fourcc.Modifier
	for _, s := range allocModifiers {
		m, err := fourcc.ParseModifier(s)
		if err != nil {
			return err
		}
		modifiers = append(modifiers, m)
	}

	dev, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	var buf *gbm.Buffer
	if len(modifiers) > 0 {
		buf, err = dev.CreateBufferWithModifiers(width, height, format, modifiers)
	} else {
		usage, perr := gbm.ParseUsage(allocUsage)
		if perr != nil {
			return perr
		}
		buf, err = dev.CreateBuffer(width, height, format, usage)
	}
	if err != nil {
		return fmt.Errorf("allocation failed (%d): %w", gbm.ErrorCode(err), err)
	}
	defer func() {
		err = errors.Join(err, buf.Destroy())
	}()

	w := cmd.OutOrStdout()
	printTitle(w, fmt.Sprintf("Buffer on %s (%s)", dev.Node(), dev.BackendName()))
	printField(w, "handle", buf.Handle(0))
	printMeta(w, buf.Meta())

	if !allocMap {
		return nil
	}
	view, err := buf.Map(0, gbm.MapReadWrite)
	if err != nil {
		return err
	}
	clear(view.Bytes())
	printField(w, "mapped", fmt.Sprintf("%d bytes cleared", view.Len()))
	return view.Unmap()
}
