package glyph

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"
	"slices"
	"sync"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"golang.org/x/text/unicode/norm"

	"github.com/yyyoichi/textmark/pixbuf"
)

// maxMaskArea bounds the mask allocation for absurd sizes or texts.
const maxMaskArea = 1 << 28

var (
	ErrEmptyText   = errors.New("text has nothing to draw")
	ErrInvalidSize = errors.New("invalid font size")
	ErrTooLarge    = errors.New("text mask too large")
)

// Request describes the text to rasterize. Size is in pixels per em.
type Request struct {
	Text string
	Size float64
	Bold bool
}

// Rasterizer renders text with a regular and a bold face.
// It is safe for concurrent use.
type Rasterizer struct {
	regular, bold *sfnt.Font
}

var defaultRasterizer struct {
	once sync.Once
	r    *Rasterizer
	err  error
}

// Default returns a shared Rasterizer using the Go fonts.
func Default() (*Rasterizer, error) {
	defaultRasterizer.once.Do(func() {
		defaultRasterizer.r, defaultRasterizer.err = New(goregular.TTF, gobold.TTF)
	})
	return defaultRasterizer.r, defaultRasterizer.err
}

// New parses the given font files. bold may be nil, in which case the
// regular face is used for bold requests as well.
func New(regular, bold []byte) (*Rasterizer, error) {
	var r Rasterizer
	var err error
	if r.regular, err = sfnt.Parse(regular); err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	r.bold = r.regular
	if bold != nil {
		if r.bold, err = sfnt.Parse(bold); err != nil {
			return nil, fmt.Errorf("parse bold font: %w", err)
		}
	}
	return &r, nil
}

// Rasterize renders req.Text into a coverage mask.
func (r *Rasterizer) Rasterize(ctx context.Context, req Request) (pixbuf.Coverage, error) {
	if err := ctx.Err(); err != nil {
		return pixbuf.Coverage{}, err
	}
	l, err := r.layout(req)
	if err != nil {
		return pixbuf.Coverage{}, err
	}
	return l.rasterize()
}

// Measure returns the size of the mask Rasterize would produce.
func (r *Rasterizer) Measure(req Request) (width, height int, err error) {
	l, err := r.layout(req)
	if err != nil {
		return 0, 0, err
	}
	return l.width, l.height, nil
}

type placed struct {
	index sfnt.GlyphIndex
	x     fixed.Int26_6
}

type layout struct {
	f        *sfnt.Font
	buf      sfnt.Buffer
	ppem     fixed.Int26_6
	glyphs   []placed
	width    int
	height   int
	baseline int
}

func (r *Rasterizer) layout(req Request) (*layout, error) {
	if math.IsNaN(req.Size) || math.IsInf(req.Size, 0) || req.Size <= 0 || req.Size > 1<<16 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, req.Size)
	}
	l := &layout{
		f:    r.regular,
		ppem: fixed.Int26_6(math.Round(req.Size * 64)),
	}
	if req.Bold {
		l.f = r.bold
	}
	if l.ppem <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, req.Size)
	}

	m, err := l.f.Metrics(&l.buf, l.ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("font metrics: %w", err)
	}

	var (
		pen  fixed.Int26_6
		prev sfnt.GlyphIndex
		seen bool
	)
	for _, c := range norm.NFC.String(req.Text) {
		if unicode.IsControl(c) {
			continue
		}
		idx, err := l.f.GlyphIndex(&l.buf, c)
		if err != nil {
			return nil, fmt.Errorf("glyph index %q: %w", c, err)
		}
		if seen {
			// fonts without a kern table report ErrNotFound
			if k, err := l.f.Kern(&l.buf, prev, idx, l.ppem, font.HintingNone); err == nil {
				pen += k
			}
		}
		adv, err := l.f.GlyphAdvance(&l.buf, idx, l.ppem, font.HintingNone)
		if err != nil {
			return nil, fmt.Errorf("glyph advance %q: %w", c, err)
		}
		l.glyphs = append(l.glyphs, placed{index: idx, x: pen})
		pen += adv
		prev, seen = idx, true
	}
	if len(l.glyphs) == 0 {
		return nil, ErrEmptyText
	}

	l.width = pen.Ceil()
	l.baseline = m.Ascent.Ceil()
	l.height = l.baseline + m.Descent.Ceil()
	if l.width <= 0 || l.height <= 0 {
		return nil, fmt.Errorf("%w: extent %dx%d", ErrEmptyText, l.width, l.height)
	}
	if l.width*l.height > maxMaskArea {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, l.width, l.height)
	}
	return l, nil
}

func (l *layout) rasterize() (pixbuf.Coverage, error) {
	// Outlines may poke out of the advance box (negative bearings,
	// accents above the ascent), so rasterize on the union of both
	// and crop afterwards.
	type outline struct {
		segments sfnt.Segments
		x        fixed.Int26_6
	}
	var (
		outlines = make([]outline, 0, len(l.glyphs))
		area     = image.Rect(0, 0, l.width, l.height)
		baseline = fixed.I(l.baseline)
	)
	for _, g := range l.glyphs {
		segments, err := l.f.LoadGlyph(&l.buf, g.index, l.ppem, nil)
		if err != nil {
			return pixbuf.Coverage{}, fmt.Errorf("load glyph %d: %w", g.index, err)
		}
		if len(segments) == 0 {
			continue
		}
		b := segments.Bounds()
		area = area.Union(image.Rect(
			(g.x + b.Min.X).Floor(), (baseline + b.Min.Y).Floor(),
			(g.x + b.Max.X).Ceil(), (baseline + b.Max.Y).Ceil(),
		))
		// the buffer reuses the segment storage on the next call
		outlines = append(outlines, outline{segments: slices.Clone(segments), x: g.x})
	}
	if area.Dx()*area.Dy() > 4*maxMaskArea {
		return pixbuf.Coverage{}, fmt.Errorf("%w: outline bounds %v", ErrTooLarge, area)
	}

	z := vector.NewRasterizer(area.Dx(), area.Dy())
	z.DrawOp = draw.Src
	for _, o := range outlines {
		trace(z, o.segments, float32(o.x)/64-float32(area.Min.X), float32(l.baseline-area.Min.Y))
	}
	mask := image.NewAlpha(image.Rect(0, 0, area.Dx(), area.Dy()))
	// the source is uniform, so the sample point is irrelevant
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	cov := pixbuf.NewCoverage(l.width, l.height)
	cov.Baseline = l.baseline
	for y := range l.height {
		row := mask.PixOffset(-area.Min.X, y-area.Min.Y)
		for x := range l.width {
			cov.Values[y*l.width+x] = float64(mask.Pix[row+x]) / 0xff
		}
	}
	return cov, nil
}

// trace feeds the outline to z with the glyph origin at (dx, dy).
func trace(z *vector.Rasterizer, segments sfnt.Segments, dx, dy float32) {
	pt := func(p fixed.Point26_6) (float32, float32) {
		return dx + float32(p.X)/64, dy + float32(p.Y)/64
	}
	open := false
	for _, s := range segments {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(pt(s.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			z.LineTo(pt(s.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			z.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			ex, ey := pt(s.Args[2])
			z.CubeTo(bx, by, cx, cy, ex, ey)
		}
	}
	if open {
		z.ClosePath()
	}
}
