package pixbuf

import "errors"

var (
	// ErrFormat reports a malformed or unsupported image container.
	ErrFormat = errors.New("unrecognized image format")
	// ErrIO reports a failure of the underlying reader or writer.
	ErrIO = errors.New("image i/o failure")
)
