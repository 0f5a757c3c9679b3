package vc4

import (
	"fmt"

	"github.com/gogpu/gbm"
	"github.com/gogpu/gbm/fourcc"
)

// modifierOrder lists the modifiers the backend can produce, most capable
// first.
var modifierOrder = []fourcc.Modifier{
	fourcc.ModBroadcomVC4TTiled,
	fourcc.ModLinear,
}

// PickModifier returns the most preferred modifier present in candidates.
// Candidates the backend cannot produce are ignored. If none is left the
// result is ErrNoCommonModifier; there is no silent fallback to linear.
func PickModifier(candidates []fourcc.Modifier) (fourcc.Modifier, error) {
	for _, want := range modifierOrder {
		for _, m := range candidates {
			if m == want {
				return m, nil
			}
		}
	}
	return fourcc.ModInvalid, fmt.Errorf("%w: %v", gbm.ErrNoCommonModifier, candidates)
}
