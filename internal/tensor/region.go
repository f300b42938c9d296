package tensor

import "fmt"

// Region is an axis-aligned rectangle in canvas coordinates, half-open on
// the high end: the covered pixels are x in [X0, X1) and y in [Y0, Y1).
// Backends slice and accumulate 4D canvases by Region, so the type lives
// here rather than in the tiling layer.
type Region struct {
	X0, Y0, X1, Y1 int
}

// NewRegion creates a Region from corner coordinates.
func NewRegion(x0, y0, x1, y1 int) Region {
	return Region{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Width returns the horizontal extent of the region.
func (r Region) Width() int {
	return r.X1 - r.X0
}

// Height returns the vertical extent of the region.
func (r Region) Height() int {
	return r.Y1 - r.Y0
}

// Validate checks the region invariants against a canvas of the given
// spatial size: 0 <= x0 < x1 <= width and 0 <= y0 < y1 <= height.
// Out-of-bounds regions fail fast and are never clamped.
func (r Region) Validate(width, height int) error {
	if r.X0 < 0 || r.X0 >= r.X1 || r.X1 > width {
		return fmt.Errorf("invalid region x range [%d, %d) for canvas width %d", r.X0, r.X1, width)
	}
	if r.Y0 < 0 || r.Y0 >= r.Y1 || r.Y1 > height {
		return fmt.Errorf("invalid region y range [%d, %d) for canvas height %d", r.Y0, r.Y1, height)
	}
	return nil
}

// Shape returns the spatial shape {height, width} of the region.
func (r Region) Shape() Shape {
	return Shape{r.Height(), r.Width()}
}

// String returns a human-readable representation of the region.
func (r Region) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.X0, r.Y0, r.X1, r.Y1)
}
