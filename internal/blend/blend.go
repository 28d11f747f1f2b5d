package blend

import "math"

// Straight (non-premultiplied) alpha blending on 8-bit channels.
//   dst' = dst*(1-a) + src*a

// Clamp01 clamps v to [0, 1]. NaN is treated as 0.
func Clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Channel blends a single channel value. a must already be in [0, 1].
func Channel(dst, src uint8, a float64) uint8 {
	return clip8(float64(dst)*(1-a) + float64(src)*a)
}

// Pixel blends src over the 4 channel values of dst in place.
// The source is treated as fully opaque, so the alpha channel moves
// towards 255 by the same factor as the color channels.
func Pixel(dst []uint8, r, g, b uint8, a float64) {
	if a == 0 {
		return
	}
	dst[0] = Channel(dst[0], r, a)
	dst[1] = Channel(dst[1], g, a)
	dst[2] = Channel(dst[2], b, a)
	dst[3] = Channel(dst[3], 0xff, a)
}

func clip8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
