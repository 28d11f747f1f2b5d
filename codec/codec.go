// Package codec converts between encoded image files and pixbuf.Buffer.
//
// Decoding keeps the EXIF block of JPEG, PNG and WebP files as the
// buffer metadata, so stripping it is an explicit step. Encoding writes
// the metadata back for the formats that can carry it.
package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/yyyoichi/textmark/internal/exif"
	"github.com/yyyoichi/textmark/pixbuf"
)

// Decode reads a complete image from r.
func Decode(r io.Reader) (*pixbuf.Buffer, Format, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", pixbuf.ErrIO, err)
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes an image held in memory.
func DecodeBytes(data []byte) (*pixbuf.Buffer, Format, error) {
	if pixbuf.IsContainer(data) {
		b, err := pixbuf.Decode(data)
		if err != nil {
			return nil, "", err
		}
		return b, PXB, nil
	}
	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", pixbuf.ErrFormat, err)
	}
	f, err := ParseFormat(name)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", pixbuf.ErrFormat, err)
	}
	b, err := pixbuf.FromImage(img, exif.Extract(data))
	if err != nil {
		return nil, "", err
	}
	return b, f, nil
}

type encodeConfig struct {
	jpegQuality int
}

type EncodeOption func(*encodeConfig)

// WithJPEGQuality sets the JPEG quality (1-100). The default is 95.
func WithJPEGQuality(q int) EncodeOption {
	return func(c *encodeConfig) {
		c.jpegQuality = min(max(q, 1), 100)
	}
}

// Encode writes b to w in format f with a single Write call. Nothing is
// written when encoding fails.
func Encode(w io.Writer, b *pixbuf.Buffer, f Format, opts ...EncodeOption) error {
	data, err := EncodeBytes(b, f, opts...)
	if err != nil {
		return err
	}
	return pixbuf.WriteAll(w, data)
}

// EncodeBytes encodes b in memory.
func EncodeBytes(b *pixbuf.Buffer, f Format, opts ...EncodeOption) ([]byte, error) {
	cfg := encodeConfig{jpegQuality: 95}
	for _, opt := range opts {
		opt(&cfg)
	}
	if f == PXB {
		return b.Encode(), nil
	}

	var buf bytes.Buffer
	var err error
	switch f {
	case PNG:
		err = png.Encode(&buf, b.Image())
	case JPEG:
		err = jpeg.Encode(&buf, b.Image(), &jpeg.Options{Quality: cfg.jpegQuality})
	case GIF:
		err = gif.Encode(&buf, b.Image(), nil)
	case BMP:
		err = bmp.Encode(&buf, b.Image())
	case TIFF:
		err = tiff.Encode(&buf, b.Image(), &tiff.Options{Compression: tiff.Deflate})
	default:
		return nil, fmt.Errorf("%w: cannot encode %q", pixbuf.ErrFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", f, err)
	}

	data := buf.Bytes()
	if !b.HasMetadata() || !f.KeepsMetadata() {
		return data, nil
	}
	switch f {
	case PNG:
		data, err = exif.InjectPNG(data, b.Metadata())
	case JPEG:
		data, err = exif.InjectJPEG(data, b.Metadata())
	}
	if err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}
	return data, nil
}
