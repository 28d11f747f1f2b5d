package bench_test

import (
	"image/color"
	"testing"

	"github.com/yyyoichi/textmark"
	"github.com/yyyoichi/textmark/codec"
	"github.com/yyyoichi/textmark/glyph"
	"github.com/yyyoichi/textmark/pixbuf"
)

func createBuffer(b *testing.B, width, height int) *pixbuf.Buffer {
	buf, err := pixbuf.New(width, height)
	if err != nil {
		b.Fatalf("Failed to create buffer: %v", err)
	}
	for y := range height {
		for x := range width {
			buf.Set(x, y, color.NRGBA{uint8(x * 255 / width), uint8(y * 255 / height), 128, 255})
		}
	}
	return buf
}

// BenchmarkApply_FHD overlays text of growing size on a 1920x1080 image.
func BenchmarkApply_FHD(b *testing.B) {
	test := []struct {
		name string
		size float64
		bold bool
	}{
		{name: "36px", size: 36},
		{name: "36px_bold", size: 36, bold: true},
		{name: "128px_bold", size: 128, bold: true},
		{name: "256px_bold", size: 256, bold: true},
	}

	src := createBuffer(b, 1920, 1080)
	ctx := b.Context()

	o, err := textmark.New()
	if err != nil {
		b.Fatalf("Failed to create Overlay: %v", err)
	}
	for _, tt := range test {
		b.Run(tt.name, func(b *testing.B) {
			req := textmark.NewWatermarkRequest("Sample watermark")
			req.FontSize = tt.size
			req.Bold = tt.bold
			for b.Loop() {
				buf := src.Clone()
				if err := o.Apply(ctx, buf, req); err != nil {
					b.Fatalf("Apply failed (%s): %v", tt.name, err)
				}
			}
		})
	}
}

func BenchmarkRasterize(b *testing.B) {
	r, err := glyph.Default()
	if err != nil {
		b.Fatal(err)
	}
	ctx := b.Context()
	for b.Loop() {
		if _, err := r.Rasterize(ctx, glyph.Request{Text: "Sample watermark", Size: 128, Bold: true}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompositeRegion(b *testing.B) {
	buf := createBuffer(b, 1920, 1080)
	cov := pixbuf.NewCoverage(800, 160)
	for i := range cov.Values {
		cov.Values[i] = float64(i%256) / 255
	}
	for b.Loop() {
		buf.CompositeRegion(1000, 900, cov, pixbuf.RGB{R: 128, G: 128, B: 128}, 0.9)
	}
}

func BenchmarkCodec(b *testing.B) {
	src := createBuffer(b, 1920, 1080)
	for _, f := range []codec.Format{codec.PXB, codec.PNG, codec.JPEG} {
		b.Run(string(f), func(b *testing.B) {
			for b.Loop() {
				data, err := codec.EncodeBytes(src, f)
				if err != nil {
					b.Fatal(err)
				}
				if _, _, err := codec.DecodeBytes(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
