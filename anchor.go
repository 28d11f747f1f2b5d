package textmark

import "image"

// DefaultPadding is the margin between the watermark and the canvas edges.
const DefaultPadding = 20

// ComputeAnchor returns the top-left corner of a textW x textH box placed
// in the given corner of the canvas, padding away from both edges.
//
// Coordinates may be negative when the box does not fit; the caller's
// compositing clips whatever falls outside the canvas.
func ComputeAnchor(pos Position, canvasW, canvasH, textW, textH, padding int) image.Point {
	switch pos {
	case TopLeft:
		return image.Pt(padding, padding)
	case TopRight:
		return image.Pt(canvasW-textW-padding, padding)
	case BottomLeft:
		return image.Pt(padding, canvasH-textH-padding)
	default: // BottomRight
		return image.Pt(canvasW-textW-padding, canvasH-textH-padding)
	}
}
