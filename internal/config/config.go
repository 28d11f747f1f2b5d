package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config stores the defaults of the command line shell.
type Config struct {
	Text        string
	Color       string
	Position    string
	FontSize    float64
	Opacity     float64
	Bold        bool
	Padding     int
	FontPath    string
	JPEGQuality int
}

const prefix = "IMAGEFORNET_"

// Load reads configuration from environment variables, falling back to
// the given dotenv files (".env" when none are given) and then to the
// built-in defaults. A missing default ".env" is not an error.
func Load(files ...string) (*Config, error) {
	dotenv, err := godotenv.Read(files...)
	if err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read dotenv: %w", err)
		}
		dotenv = map[string]string{}
	}
	l := lookup(dotenv)

	cfg := &Config{
		Text:     l.str("TEXT", "Sample"),
		Color:    l.str("COLOR", "Gray"),
		Position: l.str("POSITION", "BottomRight"),
		FontPath: l.str("FONT", ""),
	}
	if cfg.FontSize, err = l.float("FONT_SIZE", 128); err != nil {
		return nil, err
	}
	if cfg.Opacity, err = l.float("OPACITY", 0.9); err != nil {
		return nil, err
	}
	if cfg.Bold, err = l.bool("BOLD", true); err != nil {
		return nil, err
	}
	if cfg.Padding, err = l.int("PADDING", 20); err != nil {
		return nil, err
	}
	if cfg.JPEGQuality, err = l.int("JPEG_QUALITY", 95); err != nil {
		return nil, err
	}
	return cfg, nil
}

type lookup map[string]string

func (l lookup) get(key string) (string, bool) {
	key = prefix + key
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	v, ok := l[key]
	return v, ok
}

func (l lookup) str(key, def string) string {
	if v, ok := l.get(key); ok {
		return v
	}
	return def
}

func (l lookup) float(key string, def float64) (float64, error) {
	v, ok := l.get(key)
	if !ok || v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", prefix, key, err)
	}
	return f, nil
}

func (l lookup) int(key string, def int) (int, error) {
	v, ok := l.get(key)
	if !ok || v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", prefix, key, err)
	}
	return i, nil
}

func (l lookup) bool(key string, def bool) (bool, error) {
	v, ok := l.get(key)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s%s: %w", prefix, key, err)
	}
	return b, nil
}
