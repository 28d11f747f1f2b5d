package pixbuf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(t *testing.T, w, h int) *Buffer {
	t.Helper()
	b, err := New(w, h)
	require.NoError(t, err)
	for y := range h {
		for x := range w {
			b.Set(x, y, color.NRGBA{uint8(x * 255 / w), uint8(y * 255 / h), uint8((x + y) % 256), 255})
		}
	}
	return b
}

func container(flags byte, w, h uint32, meta []byte, pixLen uint32, pix []byte) []byte {
	out := []byte(magic)
	out = append(out, flags)
	out = binary.BigEndian.AppendUint32(out, w)
	out = binary.BigEndian.AppendUint32(out, h)
	if flags&flagMetadata != 0 {
		out = binary.BigEndian.AppendUint32(out, uint32(len(meta)))
		out = append(out, meta...)
	}
	out = binary.BigEndian.AppendUint32(out, pixLen)
	return append(out, pix...)
}

func TestRoundTrip(t *testing.T) {
	t.Run("without metadata", func(t *testing.T) {
		src := gradient(t, 7, 5).Encode()
		first, err := Decode(src)
		require.NoError(t, err)
		assert.False(t, first.HasMetadata())

		encoded := first.Encode()
		assert.Equal(t, src, encoded)

		second, err := Decode(encoded)
		require.NoError(t, err)
		if diff := cmp.Diff(first.Image().Pix, second.Image().Pix); diff != "" {
			t.Errorf("pixel mismatch (-first +second):\n%s", diff)
		}
	})

	t.Run("with metadata", func(t *testing.T) {
		b := gradient(t, 3, 4)
		b.SetMetadata([]byte("Exif\x00\x00camera=test"))
		src := b.Encode()

		first, err := Decode(src)
		require.NoError(t, err)
		assert.True(t, first.HasMetadata())
		assert.Equal(t, []byte("Exif\x00\x00camera=test"), first.Metadata())
		assert.Equal(t, src, first.Encode())

		second, err := Decode(first.Encode())
		require.NoError(t, err)
		assert.True(t, first.Equal(second))
	})

	t.Run("empty metadata section", func(t *testing.T) {
		src := container(flagMetadata, 1, 1, []byte{}, 4, []byte{1, 2, 3, 4})
		b, err := Decode(src)
		require.NoError(t, err)
		assert.True(t, b.HasMetadata())
		assert.Equal(t, src, b.Encode())
	})
}

func TestStripMetadata(t *testing.T) {
	b := gradient(t, 4, 4)
	plain := b.Encode()
	b.SetMetadata([]byte("secret gps"))

	decoded, err := Decode(b.Encode())
	require.NoError(t, err)
	require.True(t, decoded.HasMetadata())

	decoded.StripMetadata()
	assert.False(t, decoded.HasMetadata())
	assert.Nil(t, decoded.Metadata())
	once := decoded.Encode()

	decoded.StripMetadata()
	assert.False(t, decoded.HasMetadata())
	twice := decoded.Encode()

	assert.Equal(t, once, twice)
	assert.Equal(t, plain, once)
	assert.False(t, bytes.Contains(once, []byte("secret gps")))
}

func TestDecodeErrors(t *testing.T) {
	pix := make([]byte, 2*2*4)
	test := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", []byte("PXB1\x00")},
		{"bad magic", container(0, 2, 2, nil, 16, pix)[1:]},
		{"png signature", append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)},
		{"unknown flags", container(0x80, 2, 2, nil, 16, pix)},
		{"zero width", container(0, 0, 2, nil, 0, nil)},
		{"zero height", container(0, 2, 0, nil, 0, nil)},
		{"too large", container(0, 1<<16, 1<<16, nil, 0, nil)},
		{"pixel length mismatch", container(0, 2, 2, nil, 12, pix[:12])},
		{"pixel data truncated", container(0, 2, 2, nil, 16, pix[:10])},
		{"missing pixel length", container(0, 2, 2, nil, 16, pix)[:headerSize+2]},
		{"metadata overruns", container(flagMetadata, 2, 2, []byte("abc"), 16, pix)[:headerSize+5]},
		{"trailing bytes", append(container(0, 2, 2, nil, 16, pix), 0)},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Decode(tt.data)
			assert.Nil(t, b)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFormat), "error should wrap ErrFormat: %v", err)
		})
	}
}

type failWriter struct {
	n     int
	err   error
	calls int
}

func (w *failWriter) Write(p []byte) (int, error) {
	w.calls++
	return w.n, w.err
}

func TestEncodeTo(t *testing.T) {
	b := gradient(t, 2, 2)

	var buf bytes.Buffer
	require.NoError(t, b.EncodeTo(&buf))
	assert.Equal(t, b.Encode(), buf.Bytes())

	w := &failWriter{err: errors.New("disk full")}
	err := b.EncodeTo(w)
	assert.ErrorIs(t, err, ErrIO)
	assert.Equal(t, 1, w.calls)

	w = &failWriter{n: 3}
	err = b.EncodeTo(w)
	assert.ErrorIs(t, err, ErrIO)
}

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 13, 12))
	src.Set(10, 10, color.RGBA{255, 0, 0, 255})
	src.Set(12, 11, color.RGBA{0, 0, 255, 255})

	b, err := FromImage(src, []byte("meta"))
	require.NoError(t, err)
	assert.Equal(t, 3, b.Width())
	assert.Equal(t, 2, b.Height())
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, b.At(0, 0))
	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, b.At(2, 1))
	assert.Equal(t, []byte("meta"), b.Metadata())

	_, err = FromImage(image.NewRGBA(image.Rect(0, 0, 0, 4)), nil)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestClone(t *testing.T) {
	b := gradient(t, 3, 3)
	b.SetMetadata([]byte{1})
	c := b.Clone()
	c.Set(0, 0, color.NRGBA{1, 2, 3, 4})
	c.StripMetadata()
	assert.False(t, b.Equal(c))
	assert.True(t, b.HasMetadata())
}
