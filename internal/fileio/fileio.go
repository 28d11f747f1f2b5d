// Package fileio reads and writes whole image files.
package fileio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yyyoichi/textmark/pixbuf"
)

// ReadFile reads path, reporting failures as pixbuf.ErrIO.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pixbuf.ErrIO, err)
	}
	return data, nil
}

// WriteFile replaces path with data. The data goes to a temporary file
// in the same directory that is renamed over path once complete, so
// readers never observe a partial file. Input and output may be the
// same path.
func WriteFile(path string, data []byte, perm os.FileMode) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", pixbuf.ErrIO, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = pixbuf.WriteAll(tmp, data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: %w", pixbuf.ErrIO, err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("%w: %w", pixbuf.ErrIO, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", pixbuf.ErrIO, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", pixbuf.ErrIO, err)
	}
	return nil
}
