package archive

import (
	"fmt"
	"reflect"

	"github.com/cockroachdb/errors"
)

// ErrShortRead is returned by strict readers when the stream ends before a
// value is complete.
var ErrShortRead = errors.New("archive: short read")

// NotSupportedError is returned when no strategy exists for a type.
type NotSupportedError struct {
	Type reflect.Type
	Kind Kind
}

func (n NotSupportedError) Error() string {
	return fmt.Sprintf("archive: type %q is not supported by the %s archive", n.Type, n.Kind)
}

// AmbiguousTraitError is returned when a type defines both a bidirectional
// serialize hook and explicit save/load hooks for the same kind.
type AmbiguousTraitError struct {
	Type reflect.Type
	Kind Kind
}

func (a AmbiguousTraitError) Error() string {
	return fmt.Sprintf("archive: type %q defines both serialize and save/load hooks for the %s archive", a.Type, a.Kind)
}

// IncompleteTraitError is returned when only one of the save/load hooks is defined.
type IncompleteTraitError struct {
	Type    reflect.Type
	Kind    Kind
	Missing string
}

func (i IncompleteTraitError) Error() string {
	return fmt.Sprintf("archive: type %q misses %s for the %s archive", i.Type, i.Missing, i.Kind)
}

// NotTrivialError is returned when a type without a fixed, pointer free
// layout is used for a raw byte copy.
type NotTrivialError struct {
	Type   reflect.Type
	Reason string
}

func (n NotTrivialError) Error() string {
	return fmt.Sprintf("archive: type %q is not trivially serializable: %s", n.Type, n.Reason)
}

// LabelMismatchError is returned by the text archive when the label in the
// stream differs from the expected one.
type LabelMismatchError struct {
	Want string
	Got  string
}

func (l LabelMismatchError) Error() string {
	return fmt.Sprintf("archive: expected label %q, got %q", l.Want, l.Got)
}

// InvalidValueError is returned when a value passed to an archive is not a
// non-nil pointer.
type InvalidValueError struct {
	Type reflect.Type
}

func (i InvalidValueError) Error() string {
	if i.Type == nil {
		return "archive: value is nil"
	}
	return fmt.Sprintf("archive: value of type %q is not a non-nil pointer", i.Type)
}
