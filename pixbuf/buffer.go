package pixbuf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// maxPixelBytes bounds the pixel payload so its length fits the
// container's 32-bit length field.
const maxPixelBytes = math.MaxUint32

// Buffer is a decoded raster image with an optional opaque metadata block.
//
// Width and height never change after construction. Pixels are stored
// row-major as straight (non-premultiplied) RGBA and are only modified
// by Set and CompositeRegion. A Buffer must not be shared between
// goroutines while it is being mutated.
type Buffer struct {
	img      *image.NRGBA
	metadata []byte
}

// New returns a fully transparent buffer of the given size.
func New(width, height int) (*Buffer, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	return &Buffer{img: image.NewNRGBA(image.Rect(0, 0, width, height))}, nil
}

// FromImage copies img into a new buffer. metadata may be nil.
func FromImage(img image.Image, metadata []byte) (*Buffer, error) {
	b := img.Bounds()
	if err := checkSize(b.Dx(), b.Dy()); err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if src, ok := img.(*image.NRGBA); ok && src.Stride == 4*b.Dx() {
		copy(dst.Pix, src.Pix[src.PixOffset(b.Min.X, b.Min.Y):])
	} else {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	}
	return &Buffer{img: dst, metadata: cloneBytes(metadata)}, nil
}

func checkSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", ErrFormat, width, height)
	}
	if uint64(width)*uint64(height)*4 > maxPixelBytes {
		return fmt.Errorf("%w: dimensions %dx%d too large", ErrFormat, width, height)
	}
	return nil
}

func (b *Buffer) Width() int { return b.img.Rect.Dx() }

func (b *Buffer) Height() int { return b.img.Rect.Dy() }

func (b *Buffer) Bounds() image.Rectangle { return b.img.Rect }

// Image exposes the pixels as an image. Writes through the returned
// image modify the buffer.
func (b *Buffer) Image() *image.NRGBA { return b.img }

// At returns the pixel at (x, y), or the zero color outside the canvas.
func (b *Buffer) At(x, y int) color.NRGBA {
	return b.img.NRGBAAt(x, y)
}

// Set overwrites the pixel at (x, y). Out of bounds writes are ignored.
func (b *Buffer) Set(x, y int, c color.NRGBA) {
	b.img.SetNRGBA(x, y, c)
}

// HasMetadata reports whether a metadata block is attached.
func (b *Buffer) HasMetadata() bool { return b.metadata != nil }

// Metadata returns a copy of the metadata block, or nil when absent.
func (b *Buffer) Metadata() []byte { return cloneBytes(b.metadata) }

// SetMetadata attaches a copy of data. A nil slice detaches it.
func (b *Buffer) SetMetadata(data []byte) { b.metadata = cloneBytes(data) }

// StripMetadata discards the metadata block. Calling it on a buffer
// without metadata is a no-op.
func (b *Buffer) StripMetadata() { b.metadata = nil }

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	img := *b.img
	img.Pix = bytes.Clone(b.img.Pix)
	return &Buffer{img: &img, metadata: cloneBytes(b.metadata)}
}

// Equal reports whether both buffers have identical size and pixels.
// Metadata is not compared.
func (b *Buffer) Equal(o *Buffer) bool {
	return b.img.Rect.Eq(o.img.Rect) && bytes.Equal(b.img.Pix, o.img.Pix)
}

func cloneBytes(data []byte) []byte {
	if data == nil {
		return nil
	}
	return append(make([]byte, 0, len(data)), data...)
}
