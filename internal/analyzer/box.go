package analyzer

import (
	"fmt"
	"math"
)

// Box is an inclusive pixel rectangle found by BoundingBox.
//
// Empty is set when no foreground pixel was found. The numeric fields of an
// empty box still carry the scan result ({W, H, 0, 0} for a W×H image), so
// callers comparing against older tooling get the same numbers.
type Box struct {
	MinX  int  `yaml:"min_x"`
	MinY  int  `yaml:"min_y"`
	MaxX  int  `yaml:"max_x"`
	MaxY  int  `yaml:"max_y"`
	Empty bool `yaml:"empty,omitempty"`
}

// Predicate reports whether a non-premultiplied RGBA pixel is background.
type Predicate func(r, g, b, a uint8) bool

// Transparent treats fully transparent black as background.
func Transparent(r, g, b, a uint8) bool {
	return r == 0 && g == 0 && b == 0 && a == 0
}

// Sentinel returns the running box used before any frame is accumulated:
// the first real box always wins both the min and the max comparison.
func Sentinel() Box {
	return Box{
		MinX:  math.MaxInt,
		MinY:  math.MaxInt,
		MaxX:  math.MinInt,
		MaxY:  math.MinInt,
		Empty: true,
	}
}

// Union widens a by b coordinate-wise. The result is empty only if both are.
func Union(a, b Box) Box {
	return Box{
		MinX:  min(a.MinX, b.MinX),
		MinY:  min(a.MinY, b.MinY),
		MaxX:  max(a.MaxX, b.MaxX),
		MaxY:  max(a.MaxY, b.MaxY),
		Empty: a.Empty && b.Empty,
	}
}

// Width is the canvas width a trim to this box produces.
func (b Box) Width() int {
	return b.MaxX - b.MinX
}

// Height is the canvas height a trim to this box produces.
func (b Box) Height() int {
	return b.MaxY - b.MinY
}

// Expand grows a non-empty box by margin pixels on every side, clamped to a
// w×h canvas. Empty boxes are returned unchanged.
func (b Box) Expand(margin, w, h int) Box {
	if b.Empty || margin <= 0 {
		return b
	}
	return Box{
		MinX: max(b.MinX-margin, 0),
		MinY: max(b.MinY-margin, 0),
		MaxX: min(b.MaxX+margin, max(w-1, 0)),
		MaxY: min(b.MaxY+margin, max(h-1, 0)),
	}
}

func (b Box) String() string {
	if b.Empty {
		return fmt.Sprintf("[%d %d %d %d] (empty)", b.MinX, b.MinY, b.MaxX, b.MaxY)
	}
	return fmt.Sprintf("[%d %d %d %d]", b.MinX, b.MinY, b.MaxX, b.MaxY)
}
