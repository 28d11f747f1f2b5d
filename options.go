package textmark

import "fmt"

type Option func(*Overlay) error

// WithPadding sets the distance between the text box and the nearest
// canvas edges. Negative values are rejected.
func WithPadding(padding int) Option {
	return func(o *Overlay) error {
		if padding < 0 {
			return fmt.Errorf("negative padding %d", padding)
		}
		o.padding = padding
		return nil
	}
}

// WithRasterizer replaces the bundled font rasterizer, for example with
// a glyph.Rasterizer built from a custom font file.
func WithRasterizer(r Rasterizer) Option {
	return func(o *Overlay) error {
		if r == nil {
			return fmt.Errorf("nil rasterizer")
		}
		o.rasterizer = r
		return nil
	}
}
