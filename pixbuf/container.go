package pixbuf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"io"
)

// Container layout, all integers big-endian:
//
//	magic    [4]byte  "PXB1"
//	flags    uint8    bit0: metadata section present
//	width    uint32
//	height   uint32
//	metaLen  uint32   \ only when bit0 is set
//	metadata []byte   /
//	pixLen   uint32   must equal width*height*4
//	pixels   []byte   RGBA, row-major
const (
	magic        = "PXB1"
	flagMetadata = 1 << 0
	headerSize   = len(magic) + 1 + 4 + 4
)

// Magic is the signature every container starts with.
func Magic() []byte { return []byte(magic) }

// IsContainer reports whether data starts with the container signature.
func IsContainer(data []byte) bool {
	return bytes.HasPrefix(data, []byte(magic))
}

// Decode parses a container produced by Encode.
func Decode(data []byte) (*Buffer, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: truncated header (%d bytes)", ErrFormat, len(data))
	}
	if !IsContainer(data) {
		return nil, fmt.Errorf("%w: bad magic %q", ErrFormat, data[:len(magic)])
	}
	r := reader{data: data, off: len(magic)}
	flags := r.uint8()
	if flags&^flagMetadata != 0 {
		return nil, fmt.Errorf("%w: unknown flags %#02x", ErrFormat, flags)
	}
	width, height := r.uint32(), r.uint32()
	if err := checkSize(int(width), int(height)); err != nil {
		return nil, err
	}

	var metadata []byte
	if flags&flagMetadata != 0 {
		n, ok := r.length()
		if !ok {
			return nil, fmt.Errorf("%w: truncated metadata length", ErrFormat)
		}
		if metadata, ok = r.bytes(n); !ok {
			return nil, fmt.Errorf("%w: metadata section declares %d bytes, %d left", ErrFormat, n, r.left())
		}
	}

	pixLen, ok := r.length()
	if !ok {
		return nil, fmt.Errorf("%w: truncated pixel length", ErrFormat)
	}
	if want := int(width) * int(height) * 4; pixLen != want {
		return nil, fmt.Errorf("%w: pixel data declares %d bytes, %dx%d needs %d", ErrFormat, pixLen, width, height, want)
	}
	pix, ok := r.bytes(pixLen)
	if !ok {
		return nil, fmt.Errorf("%w: pixel data truncated, %d of %d bytes", ErrFormat, r.left(), pixLen)
	}
	if r.left() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrFormat, r.left())
	}

	img := image.NewNRGBA(image.Rect(0, 0, int(width), int(height)))
	copy(img.Pix, pix)
	return &Buffer{img: img, metadata: cloneBytes(metadata)}, nil
}

// Encode serializes the pixels, and the metadata block when present.
func (b *Buffer) Encode() []byte {
	size := headerSize + 4 + len(b.img.Pix)
	var flags byte
	if b.metadata != nil {
		flags |= flagMetadata
		size += 4 + len(b.metadata)
	}
	out := make([]byte, 0, size)
	out = append(out, magic...)
	out = append(out, flags)
	out = binary.BigEndian.AppendUint32(out, uint32(b.Width()))
	out = binary.BigEndian.AppendUint32(out, uint32(b.Height()))
	if b.metadata != nil {
		out = binary.BigEndian.AppendUint32(out, uint32(len(b.metadata)))
		out = append(out, b.metadata...)
	}
	out = binary.BigEndian.AppendUint32(out, uint32(len(b.img.Pix)))
	return append(out, b.img.Pix...)
}

// EncodeTo writes the complete container to w with a single Write call.
// Nothing is written if the stream cannot be produced.
func (b *Buffer) EncodeTo(w io.Writer) error {
	return WriteAll(w, b.Encode())
}

// WriteAll writes data with one call and reports failures as ErrIO.
func WriteAll(w io.Writer, data []byte) error {
	n, err := w.Write(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if n != len(data) {
		return fmt.Errorf("%w: %w", ErrIO, io.ErrShortWrite)
	}
	return nil
}

type reader struct {
	data []byte
	off  int
}

func (r *reader) left() int { return len(r.data) - r.off }

func (r *reader) uint8() uint8 {
	v := r.data[r.off]
	r.off++
	return v
}

func (r *reader) uint32() uint32 {
	v := binary.BigEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *reader) length() (int, bool) {
	if r.left() < 4 {
		return 0, false
	}
	return int(r.uint32()), true
}

func (r *reader) bytes(n int) ([]byte, bool) {
	if n < 0 || r.left() < n {
		return nil, false
	}
	v := r.data[r.off : r.off+n]
	r.off += n
	return v, true
}
