// Package stream provides the byte transports an archive reads from and
// writes to. Streams move uninterpreted bytes: a memory stream owns a growable
// buffer, a file stream owns an OS file handle.
//
// Reads never fail because too few bytes are left. If fewer than len(p) bytes
// remain, Read copies what is there and reports the shorter count. Once a
// reader is exhausted, Read returns io.EOF so readers can be used with the io
// helpers.
package stream

import (
	"io"

	"github.com/cockroachdb/errors"
)

// ErrMoved is returned by streams whose content was transferred to another
// stream.
var ErrMoved = errors.New("stream: moved")

// Reader is a byte source.
type Reader interface {
	io.Reader

	// Available returns the number of bytes that can still be read.
	// The value never increases while reading.
	Available() int
}

// Writer is a byte sink.
type Writer interface {
	io.Writer

	// Flush forces buffered bytes to their final destination.
	Flush() error
}

// ReadAvailable reads up to len(p) bytes from r and stops early once r has
// nothing left. It returns the number of bytes read; io.EOF is not reported.
func ReadAvailable(r io.Reader, p []byte) (int, error) {
	var total int
	for total < len(p) {
		n, err := r.Read(p[total:])
		total += n

		switch {
		case errors.Is(err, io.EOF):
			return total, nil
		case err != nil:
			return total, err
		case n == 0:
			// no progress and no error, treat as exhausted
			return total, nil
		}
	}

	return total, nil
}
