// Package quality measures how far a processed image drifted from its source.
package quality

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/yyyoichi/textmark/pixbuf"
)

var ErrSizeMismatch = errors.New("images differ in size")

type Report struct {
	// MSE is the mean squared error over all RGBA channels.
	MSE float64
	// PSNR in dB; +Inf for identical images.
	PSNR float64
	// Changed is the fraction of pixels with at least one differing channel.
	Changed float64
}

// Compare reports the difference between a and b.
func Compare(a, b *pixbuf.Buffer) (Report, error) {
	if !a.Bounds().Eq(b.Bounds()) {
		return Report{}, ErrSizeMismatch
	}
	pa, pb := a.Image().Pix, b.Image().Pix
	diff := make([]float64, len(pa))
	other := make([]float64, len(pb))
	for i := range pa {
		diff[i] = float64(pa[i])
		other[i] = float64(pb[i])
	}
	floats.Sub(diff, other)

	changed := make([]float64, len(pa)/4)
	for i := range changed {
		if floats.Norm(diff[4*i:4*i+4], math.Inf(1)) > 0 {
			changed[i] = 1
		}
	}

	mse := floats.Dot(diff, diff) / float64(len(diff))
	return Report{
		MSE:     mse,
		PSNR:    psnr(mse),
		Changed: stat.Mean(changed, nil),
	}, nil
}

func psnr(mse float64) float64 {
	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(255*255/mse)
}
