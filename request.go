package textmark

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/yyyoichi/textmark/pixbuf"
)

// Position selects the canvas corner the watermark is anchored to.
type Position int

const (
	BottomRight Position = iota
	BottomLeft
	TopRight
	TopLeft
)

var positionNames = [...]string{
	BottomRight: "BottomRight",
	BottomLeft:  "BottomLeft",
	TopRight:    "TopRight",
	TopLeft:     "TopLeft",
}

// Positions lists every valid position.
func Positions() []Position {
	return []Position{BottomRight, BottomLeft, TopRight, TopLeft}
}

func (p Position) Valid() bool {
	return p >= BottomRight && p <= TopLeft
}

func (p Position) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Position(%d)", int(p))
	}
	return positionNames[p]
}

// ParsePosition accepts names like "BottomRight", "bottom-right" or
// "bottom_right", case-insensitively.
func ParsePosition(s string) (Position, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	for _, p := range Positions() {
		if strings.ToLower(p.String()) == key {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown position %q", s)
}

// WatermarkRequest describes a text watermark.
type WatermarkRequest struct {
	Text     string
	Color    pixbuf.RGB
	Position Position
	// FontSize is in pixels per em.
	FontSize float64
	// Opacity is clamped to [0, 1] when blending.
	Opacity float64
	Bold    bool
}

// NewWatermarkRequest returns a request for text with the defaults of the
// desktop application: gray, bold, 128px, 90% opaque, bottom right.
func NewWatermarkRequest(text string) WatermarkRequest {
	return WatermarkRequest{
		Text:     text,
		Color:    Gray,
		Position: BottomRight,
		FontSize: 128,
		Opacity:  0.9,
		Bold:     true,
	}
}

var (
	errBlankText = errors.New("watermark text is blank")
	errFontSize  = errors.New("font size must be a positive number")
	errPosition  = errors.New("invalid position")
)

// Validate checks the request without rendering anything.
func (r WatermarkRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errBlankText
	}
	if math.IsNaN(r.FontSize) || math.IsInf(r.FontSize, 0) || r.FontSize <= 0 {
		return fmt.Errorf("%w: %v", errFontSize, r.FontSize)
	}
	if !r.Position.Valid() {
		return fmt.Errorf("%w: %v", errPosition, r.Position)
	}
	return nil
}
