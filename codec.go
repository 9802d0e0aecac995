package archive

import (
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/go-gum/archive/stream"
	jsoniter "github.com/json-iterator/go"
)

// The default Codec instance.
var codec = NewCodec()

// Codec creates archives bound to a registry. A Codec is immutable, the
// With methods return modified copies.
type Codec struct {
	registry *Registry

	// strict readers fail with ErrShortRead on truncated input
	strict bool
}

// NewCodec returns a lenient codec using the default registry.
func NewCodec() *Codec {
	return &Codec{registry: DefaultRegistry()}
}

func (c *Codec) WithRegistry(r *Registry) *Codec {
	if c.registry == r {
		return c
	}

	return &Codec{registry: r, strict: c.strict}
}

// Strict returns a codec whose binary readers fail with ErrShortRead when
// the stream ends before a value is complete.
func (c *Codec) Strict() *Codec {
	if c.strict {
		return c
	}

	return &Codec{registry: c.registry, strict: true}
}

func (c *Codec) Registry() *Registry {
	return c.registry
}

func (c *Codec) NewBinaryWriter(w stream.Writer) *BinaryWriter {
	return &BinaryWriter{w: w, registry: c.registry}
}

func (c *Codec) NewBinaryReader(r stream.Reader) *BinaryReader {
	return &BinaryReader{r: r, registry: c.registry, strict: c.strict}
}

func (c *Codec) NewTextWriter(w stream.Writer) *TextWriter {
	return &TextWriter{
		w:        w,
		out:      jsoniter.NewStream(jsoniter.ConfigCompatibleWithStandardLibrary, w, textBufferSize),
		registry: c.registry,
	}
}

func (c *Codec) NewTextReader(r stream.Reader) *TextReader {
	return &TextReader{
		r:        r,
		in:       jsoniter.Parse(jsoniter.ConfigCompatibleWithStandardLibrary, r, textBufferSize),
		registry: c.registry,
	}
}

// Marshal returns the binary encoding of v. If v is a pointer, the value it
// points to is encoded.
func (c *Codec) Marshal(v any) ([]byte, error) {
	w := stream.NewMemoryWriter()
	if err := c.NewBinaryWriter(w).Encode(pointerTo(v)); err != nil {
		return nil, err
	}

	return w.Bytes(), nil
}

// Unmarshal decodes the binary encoding in data into the value target points to.
func (c *Codec) Unmarshal(data []byte, target any) error {
	return c.NewBinaryReader(stream.NewMemoryReader(data)).Decode(target)
}

// EncodeText returns the text encoding of v. If v is a pointer, the value it
// points to is encoded.
func (c *Codec) EncodeText(v any) ([]byte, error) {
	w := stream.NewMemoryWriter()
	if err := c.NewTextWriter(w).Encode(pointerTo(v)); err != nil {
		return nil, err
	}

	return w.Bytes(), nil
}

// DecodeText decodes the text encoding in data into the value target points to.
func (c *Codec) DecodeText(data []byte, target any) error {
	return c.NewTextReader(stream.NewMemoryReader(data)).Decode(target)
}

// SaveFile writes the binary encoding of v to a file, replacing its content.
func (c *Codec) SaveFile(path string, v any) (err error) {
	w, err := stream.CreateFileWriter(path, stream.ModeTruncate)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := c.NewBinaryWriter(w).Encode(pointerTo(v)); err != nil {
		return errors.Wrapf(err, "save %q", path)
	}

	return w.Flush()
}

// LoadFile decodes the binary encoding in a file into the value target points to.
func (c *Codec) LoadFile(path string, target any) error {
	r, err := stream.OpenFileReader(path)
	if err != nil {
		return err
	}

	defer r.Close()

	if err := c.NewBinaryReader(r).Decode(target); err != nil {
		return errors.Wrapf(err, "load %q", path)
	}

	return nil
}

func Marshal(v any) ([]byte, error) {
	return codec.Marshal(v)
}

func Unmarshal(data []byte, target any) error {
	return codec.Unmarshal(data, target)
}

func UnmarshalNew[T any](data []byte) (T, error) {
	return UnmarshalNewWith[T](codec, data)
}

func UnmarshalNewWith[T any](c *Codec, data []byte) (T, error) {
	var target T
	err := c.Unmarshal(data, &target)
	return target, err
}

func SaveFile(path string, v any) error {
	return codec.SaveFile(path, v)
}

func LoadFile(path string, target any) error {
	return codec.LoadFile(path, target)
}

// pointerTo returns v if it is a pointer, or a pointer to a copy of v.
func pointerTo(v any) any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() == reflect.Pointer {
		return v
	}

	if _, ok := v.(Primitive); ok {
		return v
	}

	ptr := reflect.New(rv.Type())
	ptr.Elem().Set(rv)

	return ptr.Interface()
}
