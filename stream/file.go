package stream

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Mode selects how CreateFileWriter opens its file.
type Mode int

const (
	// ModeTruncate creates the file or truncates an existing one.
	ModeTruncate Mode = iota
	// ModeAppend creates the file or appends to an existing one.
	ModeAppend
)

func (m Mode) String() string {
	switch m {
	case ModeTruncate:
		return "truncate"
	case ModeAppend:
		return "append"
	default:
		return "unknown"
	}
}

// FileReader is a Reader over an OS file opened for reading.
type FileReader struct {
	file      *os.File
	available int
}

var _ Reader = (*FileReader)(nil)

// OpenFileReader opens path for reading. It fails immediately if the file can
// not be opened. The byte count is computed once here and decremented on each
// read.
func OpenFileReader(path string) (*FileReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "stream: open %q for reading", path)
	}

	size, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrapf(err, "stream: seek end of %q", path)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		_ = file.Close()
		return nil, errors.Wrapf(err, "stream: seek start of %q", path)
	}

	Logger().Debug("opened file reader",
		zap.String("path", path),
		zap.Int64("size", size),
	)

	return &FileReader{file: file, available: int(size)}, nil
}

func (f *FileReader) Read(p []byte) (int, error) {
	if f.file == nil {
		return 0, os.ErrClosed
	}

	if len(p) > f.available {
		p = p[:f.available]
	}

	if len(p) == 0 {
		if f.available == 0 {
			return 0, io.EOF
		}
		return 0, nil
	}

	n, err := f.file.Read(p)
	f.available -= n
	return n, err
}

func (f *FileReader) Available() int {
	return f.available
}

// Close releases the file handle. Reads after Close return os.ErrClosed.
func (f *FileReader) Close() error {
	if f.file == nil {
		return nil
	}

	err := f.file.Close()
	f.file = nil
	f.available = 0
	return err
}

// FileWriter is a Writer over an OS file opened for writing. Writes go to the
// file directly without buffering.
type FileWriter struct {
	file *os.File
	path string
}

var _ Writer = (*FileWriter)(nil)

// CreateFileWriter opens path for writing according to mode. It fails
// immediately if the file can not be opened.
func CreateFileWriter(path string, mode Mode) (*FileWriter, error) {
	flags := os.O_WRONLY | os.O_CREATE
	switch mode {
	case ModeTruncate:
		flags |= os.O_TRUNC
	case ModeAppend:
		flags |= os.O_APPEND
	default:
		return nil, errors.Newf("stream: invalid file mode %d", int(mode))
	}

	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "stream: open %q for writing (%s)", path, mode)
	}

	Logger().Debug("opened file writer",
		zap.String("path", path),
		zap.Stringer("mode", mode),
	)

	return &FileWriter{file: file, path: path}, nil
}

func (f *FileWriter) Write(p []byte) (int, error) {
	if f.file == nil {
		return 0, os.ErrClosed
	}

	return f.file.Write(p)
}

// Flush commits the written bytes to stable storage.
func (f *FileWriter) Flush() error {
	if f.file == nil {
		return os.ErrClosed
	}

	if err := f.file.Sync(); err != nil {
		return errors.Wrapf(err, "stream: sync %q", f.path)
	}

	return nil
}

// Close releases the file handle. Writes after Close return os.ErrClosed.
func (f *FileWriter) Close() error {
	if f.file == nil {
		return nil
	}

	err := f.file.Close()
	f.file = nil

	if err != nil {
		Logger().Warn("close file writer", zap.String("path", f.path), zap.Error(err))
		return errors.Wrapf(err, "stream: close %q", f.path)
	}

	return nil
}
