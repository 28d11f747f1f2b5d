package textmark

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/yyyoichi/textmark/pixbuf"
)

var (
	Red    = pixbuf.RGB{R: 0xff}
	Green  = pixbuf.RGB{G: 0x80}
	Blue   = pixbuf.RGB{B: 0xff}
	Black  = pixbuf.RGB{}
	White  = pixbuf.RGB{R: 0xff, G: 0xff, B: 0xff}
	Yellow = pixbuf.RGB{R: 0xff, G: 0xff}
	Orange = pixbuf.RGB{R: 0xff, G: 0xa5}
	Purple = pixbuf.RGB{R: 0x80, B: 0x80}
	Gray   = pixbuf.RGB{R: 0x80, G: 0x80, B: 0x80}
)

// NamedColor pairs a palette entry with its display name.
type NamedColor struct {
	Name  string
	Color pixbuf.RGB
}

// Palette is the list of colors offered for watermarks, in display order.
var Palette = []NamedColor{
	{"Red", Red},
	{"Green", Green},
	{"Blue", Blue},
	{"Black", Black},
	{"White", White},
	{"Yellow", Yellow},
	{"Orange", Orange},
	{"Purple", Purple},
	{"Gray", Gray},
}

// ParseColor accepts a palette name (case-insensitive) or a "#rrggbb" hex value.
func ParseColor(s string) (pixbuf.RGB, error) {
	s = strings.TrimSpace(s)
	if h, ok := strings.CutPrefix(s, "#"); ok {
		b, err := hex.DecodeString(h)
		if err != nil || len(b) != 3 {
			return pixbuf.RGB{}, fmt.Errorf("invalid hex color %q", s)
		}
		return pixbuf.RGB{R: b[0], G: b[1], B: b[2]}, nil
	}
	for _, c := range Palette {
		if strings.EqualFold(c.Name, s) {
			return c.Color, nil
		}
	}
	return pixbuf.RGB{}, fmt.Errorf("unknown color %q", s)
}
