package archive

import (
	"encoding/base64"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/go-gum/archive/stream"
	jsoniter "github.com/json-iterator/go"
)

const textBufferSize = 512

// TextWriter saves values as a human readable token stream. Every value is a
// JSON literal on its own line, labels precede the value they name.
// Packets are written as base64 strings.
type TextWriter struct {
	w        stream.Writer
	out      *jsoniter.Stream
	registry *Registry
}

var _ Archive = (*TextWriter)(nil)

// NewTextWriter returns a text writer using the default registry.
func NewTextWriter(w stream.Writer) *TextWriter {
	return codec.NewTextWriter(w)
}

func (t *TextWriter) Kind() Kind {
	return KindText
}

func (t *TextWriter) Mode() Mode {
	return Saving
}

func (t *TextWriter) Registry() *Registry {
	return t.registry
}

func (t *TextWriter) Label(name string) error {
	t.out.WriteString(name)
	t.out.WriteRaw(" ")
	return t.failure()
}

func (t *TextWriter) Packet(p Packet) error {
	if p.err != nil {
		return p.err
	}

	return t.token(func(out *jsoniter.Stream) {
		out.WriteString(base64.StdEncoding.EncodeToString(p.data))
	})
}

func (t *TextWriter) Sequence(s Sequence) error {
	return processSequence(t, s)
}

func (t *TextWriter) Value(ptr any) error {
	return processValue(t, ptr)
}

// Encode saves the value ptr points to and flushes the writer.
func (t *TextWriter) Encode(ptr any) error {
	if err := t.Value(ptr); err != nil {
		return err
	}

	return t.Flush()
}

// Flush writes buffered tokens to the stream and flushes it.
func (t *TextWriter) Flush() error {
	if err := t.out.Flush(); err != nil {
		return errors.Wrap(err, "archive: flush text")
	}

	return t.w.Flush()
}

func (t *TextWriter) token(write func(out *jsoniter.Stream)) error {
	write(t.out)
	t.out.WriteRaw("\n")

	if t.out.Buffered() > textBufferSize {
		if err := t.out.Flush(); err != nil {
			return errors.Wrap(err, "archive: flush text")
		}
	}

	return t.failure()
}

func (t *TextWriter) failure() error {
	if t.out.Error != nil {
		return errors.Wrap(t.out.Error, "archive: write text")
	}

	return nil
}

// TextReader loads values saved by a TextWriter. Labels are verified, a
// stream that ends early fails with ErrShortRead.
type TextReader struct {
	r        stream.Reader
	in       *jsoniter.Iterator
	registry *Registry
}

var _ Archive = (*TextReader)(nil)

// NewTextReader returns a text reader using the default registry.
func NewTextReader(r stream.Reader) *TextReader {
	return codec.NewTextReader(r)
}

func (t *TextReader) Kind() Kind {
	return KindText
}

func (t *TextReader) Mode() Mode {
	return Loading
}

func (t *TextReader) Registry() *Registry {
	return t.registry
}

func (t *TextReader) Label(name string) error {
	return t.token(func(in *jsoniter.Iterator) error {
		got := in.ReadString()
		if in.Error == nil && got != name {
			return LabelMismatchError{Want: name, Got: got}
		}

		return nil
	})
}

func (t *TextReader) Packet(p Packet) error {
	if p.err != nil {
		return p.err
	}

	return t.token(func(in *jsoniter.Iterator) error {
		encoded := in.ReadString()
		if in.Error != nil {
			return nil
		}

		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return errors.Wrap(err, "archive: decode packet")
		}

		if len(decoded) != len(p.data) {
			return errors.Newf("archive: packet holds %d bytes, expected %d", len(decoded), len(p.data))
		}

		copy(p.data, decoded)
		return nil
	})
}

func (t *TextReader) Sequence(s Sequence) error {
	return processSequence(t, s)
}

func (t *TextReader) Value(ptr any) error {
	return processValue(t, ptr)
}

// Decode loads the value ptr points to.
func (t *TextReader) Decode(ptr any) error {
	return t.Value(ptr)
}

// limitCount rejects counts larger than the rest of the input can hold. Every
// element takes at least one byte, the iterator buffers at most
// textBufferSize bytes the stream no longer reports.
func (t *TextReader) limitCount(count uint64, _ int) (int, error) {
	limit := uint64(t.r.Available() + textBufferSize)
	if count > limit {
		return 0, errors.Wrapf(ErrShortRead, "%d elements stored, room for at most %d", count, limit)
	}

	return int(count), nil
}

func (t *TextReader) token(read func(in *jsoniter.Iterator) error) error {
	if t.in.WhatIsNext() == jsoniter.InvalidValue && errors.Is(t.in.Error, io.EOF) {
		return errors.Wrap(ErrShortRead, "text stream ended")
	}

	err := read(t.in)

	// numbers end at the end of input
	if t.in.Error != nil && !errors.Is(t.in.Error, io.EOF) {
		return errors.Wrap(t.in.Error, "archive: parse text")
	}

	return err
}
