package archive

import (
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Serializer is implemented by types that describe their layout once for
// both directions. The hook reads the archive's mode only when the two
// directions really differ.
type Serializer interface {
	Serialize(a Archive) error
}

// Saver is implemented by types with an explicit save hook. A type
// implementing Saver must implement Loader too.
type Saver interface {
	SaveArchive(a Archive) error
}

// Loader is implemented by types with an explicit load hook.
type Loader interface {
	LoadArchive(a Archive) error
}

var (
	tySerializer = reflect.TypeFor[Serializer]()
	tySaver      = reflect.TypeFor[Saver]()
	tyLoader     = reflect.TypeFor[Loader]()
)

// Trait holds the hooks of a type the caller does not own. Set either
// Serialize or both Save and Load.
type Trait[T any] struct {
	Serialize func(a Archive, v *T) error
	Save      func(a Archive, v *T) error
	Load      func(a Archive, v *T) error
}

// Register adds the hooks of trait for type T to the registry. Without kinds
// the hooks apply to all archive kinds. Hooks registered for a type replace
// the methods of the same shape the type defines.
func Register[T any](r *Registry, trait Trait[T], kinds ...Kind) error {
	h := hooks{
		serialize: hookOf(trait.Serialize),
		save:      hookOf(trait.Save),
		load:      hookOf(trait.Load),
	}

	return r.register(reflect.TypeFor[T](), h, kinds)
}

// MarkTrivial marks values of type T as trivially serializable: they are
// copied as raw bytes in host byte order. T must not contain pointers or
// reference types. Without kinds the mark applies to all archive kinds.
func MarkTrivial[T any](r *Registry, kinds ...Kind) error {
	return r.markTrivial(reflect.TypeFor[T](), kinds)
}

func hookOf[T any](fn func(a Archive, v *T) error) codecFunc {
	if fn == nil {
		return nil
	}

	return func(a Archive, v reflect.Value) error {
		return fn(a, v.Addr().Interface().(*T))
	}
}

type hooks struct {
	serialize codecFunc
	save      codecFunc
	load      codecFunc
}

func (h hooks) empty() bool {
	return h.serialize == nil && h.save == nil && h.load == nil
}

func (h hooks) validate(ty reflect.Type, kind Kind) error {
	switch {
	case h.serialize != nil && (h.save != nil || h.load != nil):
		return AmbiguousTraitError{Type: ty, Kind: kind}

	case h.save != nil && h.load == nil:
		return IncompleteTraitError{Type: ty, Kind: kind, Missing: "a load hook"}

	case h.load != nil && h.save == nil:
		return IncompleteTraitError{Type: ty, Kind: kind, Missing: "a save hook"}
	}

	return nil
}

// methodHooks returns the hooks a type defines as methods on its pointer type.
func methodHooks(ty reflect.Type, kind Kind) (hooks, error) {
	ptr := reflect.PointerTo(ty)

	var h hooks

	if ptr.Implements(tySerializer) {
		h.serialize = func(a Archive, v reflect.Value) error {
			return v.Addr().Interface().(Serializer).Serialize(a)
		}
	}

	if ptr.Implements(tySaver) {
		h.save = func(a Archive, v reflect.Value) error {
			return v.Addr().Interface().(Saver).SaveArchive(a)
		}
	}

	if ptr.Implements(tyLoader) {
		h.load = func(a Archive, v reflect.Value) error {
			return v.Addr().Interface().(Loader).LoadArchive(a)
		}
	}

	return h, h.validate(ty, kind)
}

// mergeHooks combines the registered hooks with the method hooks of a type.
// Registered hooks win over methods of the same shape.
func mergeHooks(ty reflect.Type, kind Kind, registered, methods hooks) (hooks, error) {
	if registered.empty() {
		return methods, nil
	}

	if registered.serialize != nil && methods.save != nil || registered.save != nil && methods.serialize != nil {
		return hooks{}, AmbiguousTraitError{Type: ty, Kind: kind}
	}

	return registered, nil
}

func normalizeKinds(kinds []Kind) ([]Kind, error) {
	if len(kinds) == 0 {
		return allKinds, nil
	}

	unknown := lo.Without(kinds, allKinds...)
	if len(unknown) > 0 {
		return nil, errors.Newf("archive: unknown archive kind %d", int(unknown[0]))
	}

	return lo.Uniq(kinds), nil
}
