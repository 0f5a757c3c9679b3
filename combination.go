package gbm

import (
	"fmt"

	"github.com/gogpu/gbm/fourcc"
)

// Metadata is the layout half of a combination.
type Metadata struct {
	// Priority orders combinations matching the same request; the highest
	// priority wins.
	Priority uint32

	// Tiling is a backend-specific tiling mode.
	Tiling uint32

	// Modifier is the layout token buffers created from this combination get.
	Modifier fourcc.Modifier
}

// LinearMetadata describes an untiled layout with the default priority.
var LinearMetadata = Metadata{Priority: 1, Tiling: 0, Modifier: fourcc.ModLinear}

// Combination is one supported (format, layout, usage) triple.
type Combination struct {
	Format   fourcc.Format
	Metadata Metadata
	Usage    Usage
}

// Combinations records what a backend supports. A backend fills it during
// Init; the Device then seals it and shares it read-only.
//
// Combinations is not safe for concurrent modification. Once sealed it is
// safe for concurrent reads.
type Combinations struct {
	combos []Combination
	sealed bool
}

// NewCombinations creates an empty registry.
func NewCombinations() *Combinations {
	return &Combinations{}
}

// Add registers every format with the same metadata and usage.
func (c *Combinations) Add(formats []fourcc.Format, meta Metadata, usage Usage) error {
	if c.sealed {
		return ErrSealed
	}
	for _, f := range formats {
		c.combos = append(c.combos, Combination{Format: f, Metadata: meta, Usage: usage})
	}
	return nil
}

// Modify adds usage flags to the combinations of format whose tiling and
// modifier equal meta's. It fails if nothing matched.
func (c *Combinations) Modify(format fourcc.Format, meta Metadata, usage Usage) error {
	if c.sealed {
		return ErrSealed
	}
	matched := false
	for i := range c.combos {
		combo := &c.combos[i]
		if combo.Format == format &&
			combo.Metadata.Tiling == meta.Tiling &&
			combo.Metadata.Modifier == meta.Modifier {
			combo.Usage |= usage
			matched = true
		}
	}
	if !matched {
		return fmt.Errorf("%w: %s with %s", ErrNoCombination, format, meta.Modifier)
	}
	return nil
}

// ModifyLinear lets linear XRGB8888 and ARGB8888 buffers act as scanout
// and cursor images, which every display controller supports.
func (c *Combinations) ModifyLinear() error {
	for _, f := range []fourcc.Format{fourcc.XRGB8888, fourcc.ARGB8888} {
		if err := c.Modify(f, LinearMetadata, UseCursor|UseScanout); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the combination a buffer of format with the requested
// usage should be created from: the format must match, every requested flag
// must be supported, and the highest priority wins. Ties go to the
// combination registered first.
func (c *Combinations) Lookup(format fourcc.Format, usage Usage) (Combination, error) {
	var best *Combination
	for i := range c.combos {
		combo := &c.combos[i]
		if combo.Format != format || combo.Usage&usage != usage {
			continue
		}
		if best == nil || combo.Metadata.Priority > best.Metadata.Priority {
			best = combo
		}
	}
	if best == nil {
		return Combination{}, fmt.Errorf("%w: %s usage %s", ErrNoCombination, format, usage)
	}
	return *best, nil
}

// Supports reports whether Lookup would succeed.
func (c *Combinations) Supports(format fourcc.Format, usage Usage) bool {
	_, err := c.Lookup(format, usage)
	return err == nil
}

// All returns a copy of the registered combinations in registration order.
func (c *Combinations) All() []Combination {
	out := make([]Combination, len(c.combos))
	copy(out, c.combos)
	return out
}

// Seal forbids further changes.
func (c *Combinations) Seal() {
	c.sealed = true
}

// Sealed reports whether Seal was called.
func (c *Combinations) Sealed() bool {
	return c.sealed
}
