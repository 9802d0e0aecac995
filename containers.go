package archive

import (
	"cmp"
	"math"
	"reflect"
	"slices"
	"unsafe"

	"github.com/cockroachdb/errors"
)

// countLimiter is implemented by archives that know how many bytes are left to read.
type countLimiter interface {
	limitCount(count uint64, elemSize int) (int, error)
}

// containerSize converts the stored element count of a container into a length.
// elemSize is the minimum encoded size of one element. Zero means elements
// take no space in the stream.
func containerSize(a Archive, count uint64, elemSize int) (int, error) {
	if limiter, ok := a.(countLimiter); ok {
		return limiter.limitCount(count, elemSize)
	}

	if count > math.MaxInt32 {
		return 0, errors.Newf("archive: element count %d too large", count)
	}

	return int(count), nil
}

// minEncodedSize returns a lower bound for the bytes one value of type ty
// takes in a binary stream. Values written by hooks are assumed to take at
// least one byte.
func minEncodedSize(st *strategy, ty reflect.Type) int {
	if st.resolution == ResolvedTrivial {
		return int(ty.Size())
	}

	switch ty.Kind() {
	case reflect.String, reflect.Slice, reflect.Map:
		// the element count
		return int(unsafe.Sizeof(uint64(0)))

	default:
		return 1
	}
}

func saveSize(a Archive, n int) error {
	size := uint64(n)
	return a.Value(Named("size", &size))
}

func loadSize(a Archive, elemSize int) (int, error) {
	var size uint64
	if err := a.Value(Named("size", &size)); err != nil {
		return 0, err
	}

	return containerSize(a, size, elemSize)
}

func stringStrategy() *strategy {
	save := func(a Archive, v reflect.Value) error {
		str := v.String()
		if err := saveSize(a, len(str)); err != nil {
			return err
		}

		if len(str) == 0 {
			return nil
		}

		return a.Packet(BytesPacket(unsafe.Slice(unsafe.StringData(str), len(str))))
	}

	load := func(a Archive, v reflect.Value) error {
		n, err := loadSize(a, 1)
		if err != nil {
			return err
		}

		if n == 0 {
			v.SetString("")
			return nil
		}

		buf := make([]byte, n)
		if err := a.Packet(BytesPacket(buf)); err != nil {
			return err
		}

		// buf is owned by the string from here on
		v.SetString(unsafe.String(unsafe.SliceData(buf), len(buf)))
		return nil
	}

	return &strategy{resolution: ResolvedContainer, save: save, load: load}
}

func (r *Registry) makeSliceStrategy(inConstruction typeSet, ty reflect.Type, kind Kind) (*strategy, error) {
	elemStrategy, err := r.strategyOf(inConstruction, ty.Elem(), kind)
	if err != nil {
		return nil, errors.Wrapf(err, "strategy for element type of %q", ty)
	}

	// elements that are plain data are moved in one packet
	trivial := elemStrategy.resolution == ResolvedTrivial
	elemSize := minEncodedSize(elemStrategy, ty.Elem())

	save := func(a Archive, v reflect.Value) error {
		if err := saveSize(a, v.Len()); err != nil {
			return err
		}

		if v.Len() == 0 {
			return nil
		}

		if trivial {
			return a.Packet(packetOfValue(v))
		}

		return a.Sequence(sequenceOfValue(v))
	}

	load := func(a Archive, v reflect.Value) error {
		n, err := loadSize(a, elemSize)
		if err != nil {
			return err
		}

		v.Set(reflect.MakeSlice(ty, n, n))

		if n == 0 {
			return nil
		}

		if trivial {
			return a.Packet(packetOfValue(v))
		}

		return a.Sequence(sequenceOfValue(v))
	}

	return &strategy{resolution: ResolvedContainer, save: save, load: load}, nil
}

func (r *Registry) makeArrayStrategy(inConstruction typeSet, ty reflect.Type, kind Kind) (*strategy, error) {
	elemStrategy, err := r.strategyOf(inConstruction, ty.Elem(), kind)
	if err != nil {
		return nil, errors.Wrapf(err, "strategy for element type of %q", ty)
	}

	trivial := elemStrategy.resolution == ResolvedTrivial

	// the length is part of the type, arrays are stored without a count
	process := func(a Archive, v reflect.Value) error {
		if ty.Len() == 0 {
			return nil
		}

		if trivial {
			return a.Packet(packetOfValue(v))
		}

		return a.Sequence(sequenceOfValue(v))
	}

	return &strategy{resolution: ResolvedContainer, save: process, load: process}, nil
}

func (r *Registry) makeMapStrategy(inConstruction typeSet, ty reflect.Type, kind Kind) (*strategy, error) {
	keyStrategy, err := r.strategyOf(inConstruction, ty.Key(), kind)
	if err != nil {
		return nil, errors.Wrapf(err, "strategy for key type of %q", ty)
	}

	valueStrategy, err := r.strategyOf(inConstruction, ty.Elem(), kind)
	if err != nil {
		return nil, errors.Wrapf(err, "strategy for value type of %q", ty)
	}

	keyType := ty.Key()
	valueType := ty.Elem()

	// a map holds at most one entry with a zero size key
	entrySize := max(1, minEncodedSize(keyStrategy, keyType)+minEncodedSize(valueStrategy, valueType))

	save := func(a Archive, v reflect.Value) error {
		if err := saveSize(a, v.Len()); err != nil {
			return err
		}

		keys := v.MapKeys()
		sortMapKeys(keys)

		for _, key := range keys {
			keyValue := reflect.New(keyType).Elem()
			keyValue.Set(key)

			valueValue := reflect.New(valueType).Elem()
			valueValue.Set(v.MapIndex(key))

			if err := processEntry(a, keyStrategy, valueStrategy, keyValue, valueValue); err != nil {
				return err
			}
		}

		return nil
	}

	load := func(a Archive, v reflect.Value) error {
		n, err := loadSize(a, entrySize)
		if err != nil {
			return err
		}

		mapValue := reflect.MakeMapWithSize(ty, n)

		for range n {
			keyValue := reflect.New(keyType).Elem()
			valueValue := reflect.New(valueType).Elem()

			if err := processEntry(a, keyStrategy, valueStrategy, keyValue, valueValue); err != nil {
				return err
			}

			mapValue.SetMapIndex(keyValue, valueValue)
		}

		v.Set(mapValue)

		return nil
	}

	return &strategy{resolution: ResolvedContainer, save: save, load: load}, nil
}

func processEntry(a Archive, keyStrategy, valueStrategy *strategy, key, value reflect.Value) error {
	if err := a.Label("key"); err != nil {
		return err
	}

	if err := keyStrategy.run(a, key); err != nil {
		return errors.Wrap(err, "map key")
	}

	if err := a.Label("value"); err != nil {
		return err
	}

	if err := valueStrategy.run(a, value); err != nil {
		return errors.Wrapf(err, "map value for key %v", key)
	}

	return nil
}

// sortMapKeys orders keys of ordered kinds, so equal maps produce equal bytes.
func sortMapKeys(keys []reflect.Value) {
	if len(keys) == 0 {
		return
	}

	switch keys[0].Kind() {
	case reflect.String:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) })

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.Int(), b.Int()) })

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.Uint(), b.Uint()) })

	case reflect.Float32, reflect.Float64:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.Float(), b.Float()) })

	case reflect.Bool:
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			switch {
			case a.Bool() == b.Bool():
				return 0
			case b.Bool():
				return -1
			default:
				return 1
			}
		})
	}
}

// A pointer is stored like an Optional: an engaged flag, then the pointee.
func (r *Registry) makePointerStrategy(inConstruction typeSet, ty reflect.Type, kind Kind) (*strategy, error) {
	pointeeType := ty.Elem()

	pointeeStrategy, err := r.strategyOf(inConstruction, pointeeType, kind)
	if err != nil {
		return nil, err
	}

	save := func(a Archive, v reflect.Value) error {
		engaged := !v.IsNil()
		if err := a.Value(Named("engaged", &engaged)); err != nil {
			return err
		}

		if !engaged {
			return nil
		}

		return pointeeStrategy.run(a, v.Elem())
	}

	load := func(a Archive, v reflect.Value) error {
		var engaged bool
		if err := a.Value(Named("engaged", &engaged)); err != nil {
			return err
		}

		if !engaged {
			v.SetZero()
			return nil
		}

		// newValue is now a pointer to an instance of the pointeeType
		newValue := reflect.New(pointeeType)
		if err := pointeeStrategy.run(a, newValue.Elem()); err != nil {
			return err
		}

		v.Set(newValue)

		return nil
	}

	return &strategy{resolution: ResolvedContainer, save: save, load: load}, nil
}
