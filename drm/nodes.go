package drm

import (
	"path/filepath"
	"sort"
)

// DefaultDir is where device nodes live on Linux.
const DefaultDir = "/dev/dri"

// Nodes lists the DRM nodes under dir: render nodes first, then primary
// nodes, each group in numeric order.
func Nodes(dir string) ([]string, error) {
	var nodes []string
	for _, pattern := range []string{"renderD*", "card*"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		sort.Slice(matches, func(i, j int) bool {
			if len(matches[i]) != len(matches[j]) {
				return len(matches[i]) < len(matches[j])
			}
			return matches[i] < matches[j]
		})
		nodes = append(nodes, matches...)
	}
	return nodes, nil
}
