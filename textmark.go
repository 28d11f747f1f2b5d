package textmark

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yyyoichi/textmark/glyph"
	"github.com/yyyoichi/textmark/pixbuf"
)

var (
	// ErrRender reports an invalid watermark request or a rasterizer failure.
	ErrRender = errors.New("cannot render watermark")

	ErrFormat = pixbuf.ErrFormat
	ErrIO     = pixbuf.ErrIO
)

type (
	// GlyphRequest is what the overlay asks a Rasterizer to draw.
	GlyphRequest = glyph.Request

	// Rasterizer produces the coverage mask of a line of text.
	Rasterizer interface {
		Rasterize(ctx context.Context, req GlyphRequest) (pixbuf.Coverage, error)
	}
)

// Apply overlays req on buf with the specified options.
// This is a convenience function that creates an Overlay instance and calls its Apply method.
func Apply(ctx context.Context, buf *pixbuf.Buffer, req WatermarkRequest, opts ...Option) error {
	o, err := New(opts...)
	if err != nil {
		return err
	}
	return o.Apply(ctx, buf, req)
}

type Overlay struct {
	padding    int
	rasterizer Rasterizer
}

// New initializes an overlay. Without options the padding is
// DefaultPadding and text is drawn with the bundled Go fonts.
func New(opts ...Option) (*Overlay, error) {
	o := new(Overlay)
	if err := o.init(opts...); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Overlay) init(opts ...Option) error {
	o.padding = DefaultPadding
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return err
		}
	}
	if o.rasterizer == nil {
		r, err := glyph.Default()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRender, err)
		}
		o.rasterizer = r
	}
	return nil
}

// Padding returns the distance kept between the text box and the canvas edges.
func (o *Overlay) Padding() int { return o.padding }

// Apply draws the watermark text onto buf.
//
// Process:
//  1. Validates the request.
//  2. Rasterizes the text into a coverage mask.
//  3. Places the mask box with ComputeAnchor.
//  4. Blends the request color through the mask at the request opacity.
//
// Every failure happens before step 4, so buf is left untouched when an
// error is returned. Errors wrap ErrRender and the underlying cause.
func (o *Overlay) Apply(ctx context.Context, buf *pixbuf.Buffer, req WatermarkRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	cov, err := o.rasterizer.Rasterize(ctx, GlyphRequest{
		Text: req.Text,
		Size: req.FontSize,
		Bold: req.Bold,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	if err := cov.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	at := ComputeAnchor(req.Position, buf.Width(), buf.Height(), cov.Width, cov.Height, o.padding)
	buf.CompositeRegion(at.X, at.Y, cov, req.Color, req.Opacity)
	return nil
}

// Process strips the metadata of buf and, when req carries visible text,
// overlays the watermark. A nil request only strips.
func (o *Overlay) Process(ctx context.Context, buf *pixbuf.Buffer, req *WatermarkRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	buf.StripMetadata()
	if req == nil || strings.TrimSpace(req.Text) == "" {
		return nil
	}
	return o.Apply(ctx, buf, *req)
}
