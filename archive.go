package archive

import (
	"reflect"

	"github.com/cockroachdb/errors"
)

// Archive moves values between Go memory and a stream. Hooks receive the
// archive they run in and describe their layout with its primitives.
type Archive interface {
	// Kind returns the wire format of the archive.
	Kind() Kind

	// Mode reports whether the archive is saving or loading.
	Mode() Mode

	// Registry returns the registry strategies are resolved from.
	Registry() *Registry

	// Label names the next value. Binary archives ignore labels.
	Label(name string) error

	// Packet copies a contiguous run of trivially serializable elements.
	Packet(p Packet) error

	// Sequence processes each element of s with the strategy of its element type.
	Sequence(s Sequence) error

	// Value processes the value ptr points to. Primitives such as Label,
	// NamedValue, Packet and Sequence are accepted directly.
	Value(ptr any) error
}

// Primitive values are handled by an archive without a trait lookup.
type Primitive interface {
	processArchive(a Archive) error
}

// Process saves or loads the value v points to, depending on the archive's mode.
func Process[T any](a Archive, v *T) error {
	return a.Value(v)
}

// IsTrivial reports whether values of type T are copied as raw bytes by archives
// of a's kind.
func IsTrivial[T any](a Archive) bool {
	return a.Registry().IsTrivial(reflect.TypeFor[T](), a.Kind())
}

func processValue(a Archive, ptr any) error {
	if p, ok := ptr.(Primitive); ok {
		return p.processArchive(a)
	}

	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return InvalidValueError{Type: reflect.TypeOf(ptr)}
	}

	target := rv.Elem()

	st, err := a.Registry().strategyFor(target.Type(), a.Kind())
	if err != nil {
		return err
	}

	return st.run(a, target)
}

func processSequence(a Archive, s Sequence) error {
	if s.elems == nil {
		return nil
	}

	st, err := a.Registry().strategyFor(s.elem, a.Kind())
	if err != nil {
		return err
	}

	var idx int
	for elem := range s.elems {
		if err := st.run(a, elem); err != nil {
			return errors.Wrapf(err, "element %d", idx)
		}

		idx++
	}

	return nil
}
