package main

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyyoichi/textmark"
	"github.com/yyyoichi/textmark/codec"
	"github.com/yyyoichi/textmark/pixbuf"
)

func writeSample(t *testing.T, path string) *pixbuf.Buffer {
	t.Helper()
	b, err := pixbuf.New(300, 200)
	require.NoError(t, err)
	for y := range 200 {
		for x := range 300 {
			b.Set(x, y, color.NRGBA{20, 40, 60, 255})
		}
	}
	b.SetMetadata([]byte("MM\x00\x2aGPS"))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, codec.Encode(f, b, codec.PNG))
	require.NoError(t, f.Close())
	return b
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "photo.png")
	src := writeSample(t, in)

	t.Run("strip only", func(t *testing.T) {
		out := filepath.Join(dir, "stripped.png")
		require.NoError(t, run(context.Background(), job{in: in, out: out, padding: 20, jpegQuality: 90}))

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		got, _, err := codec.DecodeBytes(data)
		require.NoError(t, err)
		assert.False(t, got.HasMetadata())
		assert.True(t, src.Equal(got))
	})

	t.Run("watermark", func(t *testing.T) {
		out := filepath.Join(dir, "marked.pxb")
		req := textmark.NewWatermarkRequest("Sample")
		req.FontSize = 32
		req.Color = textmark.White
		require.NoError(t, run(context.Background(), job{in: in, out: out, req: &req, padding: 20}))

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		got, f, err := codec.DecodeBytes(data)
		require.NoError(t, err)
		assert.Equal(t, codec.PXB, f)
		assert.False(t, got.HasMetadata())
		assert.False(t, src.Equal(got))
		assert.Equal(t, src.At(0, 0), got.At(0, 0))
	})

	t.Run("in place", func(t *testing.T) {
		path := filepath.Join(dir, "inplace.png")
		writeSample(t, path)
		require.NoError(t, run(context.Background(), job{in: path, out: path, padding: 20}))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		got, _, err := codec.DecodeBytes(data)
		require.NoError(t, err)
		assert.False(t, got.HasMetadata())
	})

	t.Run("unwritable format", func(t *testing.T) {
		err := run(context.Background(), job{in: in, out: filepath.Join(dir, "x.webp")})
		assert.ErrorIs(t, err, pixbuf.ErrFormat)
	})

	t.Run("missing input", func(t *testing.T) {
		err := run(context.Background(), job{in: filepath.Join(dir, "absent.png"), out: filepath.Join(dir, "y.png")})
		assert.ErrorIs(t, err, pixbuf.ErrIO)
	})

	t.Run("render error leaves no output", func(t *testing.T) {
		out := filepath.Join(dir, "bad.png")
		req := textmark.NewWatermarkRequest("x")
		req.FontSize = -1
		err := run(context.Background(), job{in: in, out: out, req: &req})
		assert.ErrorIs(t, err, textmark.ErrRender)
		_, statErr := os.Stat(out)
		assert.True(t, os.IsNotExist(statErr))
	})
}
