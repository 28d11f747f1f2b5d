// Command imagefornet strips the metadata of an image and optionally
// stamps a text watermark on one of its corners.
//
// Defaults come from IMAGEFORNET_* environment variables or a .env file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/yyyoichi/textmark"
	"github.com/yyyoichi/textmark/codec"
	"github.com/yyyoichi/textmark/glyph"
	"github.com/yyyoichi/textmark/internal/config"
	"github.com/yyyoichi/textmark/internal/fileio"
	"github.com/yyyoichi/textmark/internal/quality"
	"github.com/yyyoichi/textmark/pixbuf"
)

type job struct {
	in, out     string
	req         *textmark.WatermarkRequest
	padding     int
	fontPath    string
	jpegQuality int
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	in := flag.String("in", "", "input image path (required)")
	out := flag.String("out", "", "output path (default: processed_<name> next to the input)")
	text := flag.String("text", cfg.Text, "watermark text; empty only strips metadata")
	colorName := flag.String("color", cfg.Color, "watermark color: palette name or #rrggbb")
	position := flag.String("position", cfg.Position, "TopLeft, TopRight, BottomLeft or BottomRight")
	size := flag.Float64("size", cfg.FontSize, "font size in pixels")
	opacity := flag.Float64("opacity", cfg.Opacity, "watermark opacity between 0 and 1")
	bold := flag.Bool("bold", cfg.Bold, "use the bold face")
	padding := flag.Int("padding", cfg.Padding, "distance from the canvas edges in pixels")
	fontPath := flag.String("font", cfg.FontPath, "TTF/OTF font file (default: Go fonts)")
	jpegQuality := flag.Int("quality", cfg.JPEGQuality, "JPEG quality (1-100)")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	j := job{
		in:          *in,
		out:         *out,
		padding:     *padding,
		fontPath:    *fontPath,
		jpegQuality: *jpegQuality,
	}
	if j.out == "" {
		j.out = filepath.Join(filepath.Dir(j.in), "processed_"+filepath.Base(j.in))
	}
	if strings.TrimSpace(*text) != "" {
		c, err := textmark.ParseColor(*colorName)
		if err != nil {
			log.Fatalf("Invalid color: %v", err)
		}
		p, err := textmark.ParsePosition(*position)
		if err != nil {
			log.Fatalf("Invalid position: %v", err)
		}
		j.req = &textmark.WatermarkRequest{
			Text:     *text,
			Color:    c,
			Position: p,
			FontSize: *size,
			Opacity:  *opacity,
			Bold:     *bold,
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, j)
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		log.Println("Interrupted, waiting for the current step to finish...")
		err = <-done
	}
	if err != nil {
		switch {
		case errors.Is(err, pixbuf.ErrFormat):
			log.Fatalf("Unsupported image format: %s: %v", j.in, err)
		case errors.Is(err, textmark.ErrRender):
			log.Fatalf("Watermark error: %v", err)
		default:
			log.Fatalf("Error: %v", err)
		}
	}
	log.Printf("Saved processed image to %s (%v)", j.out, time.Since(start).Round(time.Millisecond))
}

func run(ctx context.Context, j job) error {
	format, err := codec.FormatFromPath(j.out)
	if err != nil {
		return fmt.Errorf("%w: %w", pixbuf.ErrFormat, err)
	}
	if !format.CanEncode() {
		return fmt.Errorf("%w: cannot write %s files", pixbuf.ErrFormat, format)
	}

	opts := []textmark.Option{textmark.WithPadding(j.padding)}
	if j.fontPath != "" {
		data, err := fileio.ReadFile(j.fontPath)
		if err != nil {
			return err
		}
		r, err := glyph.New(data, nil)
		if err != nil {
			return fmt.Errorf("%w: %w", textmark.ErrRender, err)
		}
		opts = append(opts, textmark.WithRasterizer(r))
	}
	o, err := textmark.New(opts...)
	if err != nil {
		return err
	}

	data, err := fileio.ReadFile(j.in)
	if err != nil {
		return err
	}
	buf, srcFormat, err := codec.DecodeBytes(data)
	if err != nil {
		return err
	}
	log.Printf("Loaded %s (%s, %dx%d)", j.in, srcFormat, buf.Width(), buf.Height())
	if buf.HasMetadata() {
		log.Printf("Found %d bytes of metadata, removing", len(buf.Metadata()))
	} else {
		log.Println("No metadata found")
	}

	original := buf.Clone()
	if err := o.Process(ctx, buf, j.req); err != nil {
		return err
	}
	if j.req != nil {
		if r, err := quality.Compare(original, buf); err == nil {
			log.Printf("Watermark %q changed %.2f%% of pixels (PSNR %.2f dB)", j.req.Text, r.Changed*100, r.PSNR)
		}
	}

	encoded, err := codec.EncodeBytes(buf, format, codec.WithJPEGQuality(j.jpegQuality))
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fileio.WriteFile(j.out, encoded, 0o644)
}
