package pixbuf

import "github.com/yyyoichi/textmark/internal/blend"

// CompositeRegion blends c over the buffer through the coverage mask,
// with the mask's top-left cell placed at (originX, originY).
//
// Each cell contributes alpha = coverage * opacity, both clamped to
// [0, 1]. Cells that fall outside the canvas are skipped. Calling it
// twice blends twice.
func (b *Buffer) CompositeRegion(originX, originY int, cov Coverage, c RGB, opacity float64) {
	opacity = blend.Clamp01(opacity)
	if opacity == 0 {
		return
	}
	w, h := b.Width(), b.Height()

	// intersect the mask rectangle with the canvas
	x0, y0 := max(0, -originX), max(0, -originY)
	x1, y1 := min(cov.Width, w-originX), min(cov.Height, h-originY)
	for cy := y0; cy < y1; cy++ {
		row := b.img.PixOffset(originX, originY+cy)
		for cx := x0; cx < x1; cx++ {
			a := blend.Clamp01(cov.At(cx, cy)) * opacity
			if a == 0 {
				continue
			}
			i := row + 4*cx
			blend.Pixel(b.img.Pix[i:i+4:i+4], c.R, c.G, c.B, a)
		}
	}
}
