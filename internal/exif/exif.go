// Package exif locates and re-inserts raw EXIF blocks in encoded image
// streams without interpreting their contents.
//
// A blob is always the TIFF-structured EXIF payload, without the
// "Exif\x00\x00" identifier JPEG files put in front of it.
package exif

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
)

var (
	ErrNotJPEG  = errors.New("not a jpeg stream")
	ErrNotPNG   = errors.New("not a png stream")
	ErrTooLarge = errors.New("exif block too large for a jpeg segment")
)

var (
	jpegSOI       = []byte{0xff, 0xd8}
	pngSignature  = []byte("\x89PNG\r\n\x1a\n")
	exifHeader    = []byte("Exif\x00\x00")
	riffSignature = []byte("RIFF")
	webpSignature = []byte("WEBP")
)

const (
	markerAPP1 = 0xe1
	markerSOS  = 0xda
	markerEOI  = 0xd9
)

// Extract returns the EXIF blob of a JPEG, PNG or WebP stream, or nil
// when the stream carries none or is not one of those formats.
func Extract(data []byte) []byte {
	switch {
	case bytes.HasPrefix(data, jpegSOI):
		return fromJPEG(data)
	case bytes.HasPrefix(data, pngSignature):
		return fromPNG(data)
	case len(data) >= 12 && bytes.Equal(data[:4], riffSignature) && bytes.Equal(data[8:12], webpSignature):
		return fromWebP(data)
	}
	return nil
}

func fromJPEG(data []byte) []byte {
	off := len(jpegSOI)
	for off+4 <= len(data) {
		if data[off] != 0xff {
			return nil
		}
		marker := data[off+1]
		switch {
		case marker == 0xff:
			// fill byte
			off++
			continue
		case marker == 0x01 || (marker >= 0xd0 && marker <= 0xd7):
			off += 2
			continue
		case marker == markerSOS || marker == markerEOI:
			return nil
		}
		n := int(binary.BigEndian.Uint16(data[off+2:]))
		if n < 2 || off+2+n > len(data) {
			return nil
		}
		payload := data[off+4 : off+2+n]
		if marker == markerAPP1 && bytes.HasPrefix(payload, exifHeader) {
			return bytes.Clone(payload[len(exifHeader):])
		}
		off += 2 + n
	}
	return nil
}

func fromPNG(data []byte) []byte {
	off := len(pngSignature)
	for off+12 <= len(data) {
		n := int(binary.BigEndian.Uint32(data[off:]))
		typ := string(data[off+4 : off+8])
		if n < 0 || off+12+n > len(data) {
			return nil
		}
		switch typ {
		case "eXIf":
			return bytes.Clone(data[off+8 : off+8+n])
		case "IDAT", "IEND":
			// eXIf must precede the image data
			return nil
		}
		off += 12 + n
	}
	return nil
}

func fromWebP(data []byte) []byte {
	off := 12
	for off+8 <= len(data) {
		typ := string(data[off : off+4])
		n := int(binary.LittleEndian.Uint32(data[off+4:]))
		if n < 0 || off+8+n > len(data) {
			return nil
		}
		if typ == "EXIF" {
			payload := data[off+8 : off+8+n]
			return bytes.Clone(bytes.TrimPrefix(payload, exifHeader))
		}
		off += 8 + n + n&1
	}
	return nil
}

// InjectJPEG returns a copy of data with an APP1 EXIF segment holding
// blob placed right after the start-of-image marker.
func InjectJPEG(data, blob []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, jpegSOI) {
		return nil, ErrNotJPEG
	}
	n := 2 + len(exifHeader) + len(blob)
	if n > 0xffff {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(blob))
	}
	out := make([]byte, 0, len(data)+2+n)
	out = append(out, jpegSOI...)
	out = append(out, 0xff, markerAPP1)
	out = binary.BigEndian.AppendUint16(out, uint16(n))
	out = append(out, exifHeader...)
	out = append(out, blob...)
	return append(out, data[len(jpegSOI):]...), nil
}

// InjectPNG returns a copy of data with an eXIf chunk holding blob
// placed right after the IHDR chunk.
func InjectPNG(data, blob []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, ErrNotPNG
	}
	ihdr := len(pngSignature)
	if ihdr+12 > len(data) || string(data[ihdr+4:ihdr+8]) != "IHDR" {
		return nil, fmt.Errorf("%w: missing IHDR", ErrNotPNG)
	}
	at := ihdr + 12 + int(binary.BigEndian.Uint32(data[ihdr:]))
	if at > len(data) {
		return nil, fmt.Errorf("%w: truncated IHDR", ErrNotPNG)
	}

	chunk := make([]byte, 0, 12+len(blob))
	chunk = binary.BigEndian.AppendUint32(chunk, uint32(len(blob)))
	chunk = append(chunk, "eXIf"...)
	chunk = append(chunk, blob...)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(chunk[4:]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:at]...)
	out = append(out, chunk...)
	return append(out, data[at:]...), nil
}
