package archive

import (
	"io"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/go-gum/archive/stream"
)

// BinaryWriter saves values as raw bytes. Labels are dropped.
type BinaryWriter struct {
	w        stream.Writer
	registry *Registry
}

var _ Archive = (*BinaryWriter)(nil)

// NewBinaryWriter returns a binary writer using the default registry.
func NewBinaryWriter(w stream.Writer) *BinaryWriter {
	return codec.NewBinaryWriter(w)
}

func (b *BinaryWriter) Kind() Kind {
	return KindBinary
}

func (b *BinaryWriter) Mode() Mode {
	return Saving
}

func (b *BinaryWriter) Registry() *Registry {
	return b.registry
}

func (b *BinaryWriter) Label(string) error {
	return nil
}

func (b *BinaryWriter) Packet(p Packet) error {
	if p.err != nil {
		return p.err
	}

	if len(p.data) == 0 {
		return nil
	}

	n, err := b.w.Write(p.data)
	if err != nil {
		return errors.Wrap(err, "archive: write packet")
	}

	if n < len(p.data) {
		return errors.Wrapf(io.ErrShortWrite, "archive: wrote %d of %d bytes", n, len(p.data))
	}

	return nil
}

func (b *BinaryWriter) Sequence(s Sequence) error {
	return processSequence(b, s)
}

func (b *BinaryWriter) Value(ptr any) error {
	return processValue(b, ptr)
}

// Encode saves the value ptr points to.
func (b *BinaryWriter) Encode(ptr any) error {
	return b.Value(ptr)
}

// Flush flushes the underlying stream.
func (b *BinaryWriter) Flush() error {
	return b.w.Flush()
}

// BinaryReader loads values saved by a BinaryWriter. By default a stream that
// ends early leaves the remaining bytes of the value untouched and is not an
// error. A strict reader fails with ErrShortRead instead.
type BinaryReader struct {
	r        stream.Reader
	registry *Registry
	strict   bool
}

var _ Archive = (*BinaryReader)(nil)

// NewBinaryReader returns a lenient binary reader using the default registry.
func NewBinaryReader(r stream.Reader) *BinaryReader {
	return codec.NewBinaryReader(r)
}

func (b *BinaryReader) Kind() Kind {
	return KindBinary
}

func (b *BinaryReader) Mode() Mode {
	return Loading
}

func (b *BinaryReader) Registry() *Registry {
	return b.registry
}

func (b *BinaryReader) Label(string) error {
	return nil
}

func (b *BinaryReader) Packet(p Packet) error {
	if p.err != nil {
		return p.err
	}

	if len(p.data) == 0 {
		return nil
	}

	n, err := stream.ReadAvailable(b.r, p.data)
	if err != nil {
		return errors.Wrap(err, "archive: read packet")
	}

	if n < len(p.data) && b.strict {
		return errors.Wrapf(ErrShortRead, "read %d of %d bytes", n, len(p.data))
	}

	return nil
}

func (b *BinaryReader) Sequence(s Sequence) error {
	return processSequence(b, s)
}

func (b *BinaryReader) Value(ptr any) error {
	return processValue(b, ptr)
}

// Decode loads the value ptr points to.
func (b *BinaryReader) Decode(ptr any) error {
	return b.Value(ptr)
}

// Available returns the number of bytes left in the stream.
func (b *BinaryReader) Available() int {
	return b.r.Available()
}

// limitCount caps a stored element count by the elements the rest of the
// stream can hold.
func (b *BinaryReader) limitCount(count uint64, elemSize int) (int, error) {
	limit := uint64(math.MaxInt32)
	if elemSize > 0 {
		limit = uint64(b.r.Available() / elemSize)
	}

	if count <= limit {
		return int(count), nil
	}

	if b.strict {
		return 0, errors.Wrapf(ErrShortRead, "%d elements stored, room for %d", count, limit)
	}

	return int(limit), nil
}
