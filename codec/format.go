package codec

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format names an encoded image format.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	WebP Format = "webp"
	// PXB is the lossless pixbuf container.
	PXB Format = "pxb"
)

var extensions = map[string]Format{
	".png":  PNG,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".jpe":  JPEG,
	".gif":  GIF,
	".bmp":  BMP,
	".tif":  TIFF,
	".tiff": TIFF,
	".webp": WebP,
	".pxb":  PXB,
}

// FormatFromPath guesses the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unknown image extension %q", ext)
}

// ParseFormat accepts a format name or a file extension, e.g. "jpg" or ".tif".
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(s, ".") {
		s = "." + s
	}
	if f, ok := extensions[s]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unknown image format %q", s)
}

// CanEncode reports whether Encode supports the format.
func (f Format) CanEncode() bool {
	switch f {
	case PNG, JPEG, GIF, BMP, TIFF, PXB:
		return true
	}
	return false
}

// KeepsMetadata reports whether Encode writes the metadata block of a
// buffer in this format. Other formats silently drop it.
func (f Format) KeepsMetadata() bool {
	return f == PNG || f == JPEG || f == PXB
}
