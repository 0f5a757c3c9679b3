package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/gogpu/gbm"
	"github.com/gogpu/gbm/backend/vc4"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7B68EE"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Width(12)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
}

func printField(w io.Writer, key string, value any) {
	fmt.Fprintln(w, keyStyle.Render(key)+valueStyle.Render(fmt.Sprint(value)))
}

// printMeta prints a buffer layout.
func printMeta(w io.Writer, m gbm.Meta) {
	printField(w, "size", fmt.Sprintf("%dx%d", m.Width, m.Height))
	printField(w, "format", fmt.Sprintf("%s (%s)", m.Format.Name(), m.Format))
	printField(w, "modifier", m.Modifier)
	printField(w, "tiling", vc4.TilingMode(m.Tiling))
	if m.Usage != gbm.UseNone {
		printField(w, "usage", m.Usage)
	}
	for p := 0; p < m.NumPlanes; p++ {
		printField(w, "plane "+strconv.Itoa(p),
			fmt.Sprintf("stride %d  offset %d  size %s", m.Strides[p], m.Offsets[p], humanize.Bytes(uint64(m.Sizes[p]))))
	}
	printField(w, "total", fmt.Sprintf("%s %s", humanize.Bytes(m.TotalSize),
		dimStyle.Render("("+humanize.Comma(int64(m.TotalSize))+" bytes)")))
}

// parseDims parses WIDTH HEIGHT arguments.
func parseDims(args []string) (width, height uint32, err error) {
	w, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width %q", args[0])
	}
	h, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height %q", args[1])
	}
	return uint32(w), uint32(h), nil
}
