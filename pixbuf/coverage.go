package pixbuf

import "fmt"

// Coverage is a rectangular anti-aliasing mask, typically the output of
// a font rasterizer. Values are row-major, one per cell, in [0, 1].
type Coverage struct {
	Width, Height int
	Values        []float64
	// Baseline is the distance in cells from the top of the mask to the
	// text baseline. It does not affect compositing.
	Baseline int
}

// NewCoverage allocates an empty (fully transparent) mask.
func NewCoverage(width, height int) Coverage {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Coverage{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

// Validate reports whether the mask dimensions agree with its values.
func (c Coverage) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("negative coverage size %dx%d", c.Width, c.Height)
	}
	if n := c.Width * c.Height; len(c.Values) != n {
		return fmt.Errorf("coverage has %d values, want %d", len(c.Values), n)
	}
	return nil
}

// At returns the coverage of the cell, or 0 outside the mask.
func (c Coverage) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return 0
	}
	i := y*c.Width + x
	if i >= len(c.Values) {
		return 0
	}
	return c.Values[i]
}

// IsEmpty reports whether no cell has positive coverage.
func (c Coverage) IsEmpty() bool {
	for _, v := range c.Values {
		if v > 0 {
			return false
		}
	}
	return true
}
