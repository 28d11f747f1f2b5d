// Package glyph turns a line of text into a coverage mask that can be
// composited onto a pixbuf.Buffer.
//
// Outlines come from OpenType/TrueType fonts parsed with
// golang.org/x/image/font/sfnt and are filled with the anti-aliasing
// rasterizer from golang.org/x/image/vector. Without explicit fonts the
// Go fonts bundled with golang.org/x/image are used.
//
// Text is laid out on a single line: the mask is as wide as the sum of
// the glyph advances (plus kerning) and as tall as the font's ascent
// plus descent, with the baseline at the ascent.
package glyph
