package archive

import (
	"math"
	"reflect"
	"strconv"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/exp/constraints"
)

// textStrategyOf returns the strategy for the scalar types a text archive
// writes as literals, or nil for any other type.
func textStrategyOf(ty reflect.Type) *strategy {
	switch ty.Kind() {
	case reflect.Bool:
		return textStrategy(
			func(out *jsoniter.Stream, v reflect.Value) { out.WriteBool(v.Bool()) },
			func(in *jsoniter.Iterator, v reflect.Value) error {
				v.SetBool(in.ReadBool())
				return nil
			},
		)

	case reflect.Int:
		return makeTextInt[int]()

	case reflect.Int8:
		return makeTextInt[int8]()

	case reflect.Int16:
		return makeTextInt[int16]()

	case reflect.Int32:
		return makeTextInt[int32]()

	case reflect.Int64:
		return makeTextInt[int64]()

	case reflect.Uint:
		return makeTextUint[uint]()

	case reflect.Uint8:
		return makeTextUint[uint8]()

	case reflect.Uint16:
		return makeTextUint[uint16]()

	case reflect.Uint32:
		return makeTextUint[uint32]()

	case reflect.Uint64:
		return makeTextUint[uint64]()

	case reflect.Float32:
		return makeTextFloat[float32](func(out *jsoniter.Stream, f float64) { out.WriteFloat32(float32(f)) })

	case reflect.Float64:
		return makeTextFloat[float64]((*jsoniter.Stream).WriteFloat64)

	case reflect.Complex64:
		return makeTextComplex[float32](func(out *jsoniter.Stream, f float64) { out.WriteFloat32(float32(f)) })

	case reflect.Complex128:
		return makeTextComplex[float64]((*jsoniter.Stream).WriteFloat64)

	case reflect.String:
		return textStrategy(
			func(out *jsoniter.Stream, v reflect.Value) { out.WriteString(v.String()) },
			func(in *jsoniter.Iterator, v reflect.Value) error {
				v.SetString(in.ReadString())
				return nil
			},
		)

	default:
		return nil
	}
}

func textStrategy(
	write func(out *jsoniter.Stream, v reflect.Value),
	read func(in *jsoniter.Iterator, v reflect.Value) error,
) *strategy {
	save := func(a Archive, v reflect.Value) error {
		w, ok := a.(*TextWriter)
		if !ok {
			return errors.Newf("archive: %T is not a text writer", a)
		}

		return w.token(func(out *jsoniter.Stream) { write(out, v) })
	}

	load := func(a Archive, v reflect.Value) error {
		r, ok := a.(*TextReader)
		if !ok {
			return errors.Newf("archive: %T is not a text reader", a)
		}

		return r.token(func(in *jsoniter.Iterator) error { return read(in, v) })
	}

	return &strategy{resolution: ResolvedSaveLoad, save: save, load: load}
}

func makeTextInt[T constraints.Signed]() *strategy {
	return textStrategy(
		func(out *jsoniter.Stream, v reflect.Value) { out.WriteInt64(v.Int()) },
		func(in *jsoniter.Iterator, v reflect.Value) error {
			parsedValue, err := checkedInt[T](in.ReadInt64())
			if err != nil {
				return err
			}

			v.SetInt(int64(parsedValue))
			return nil
		},
	)
}

func makeTextUint[T constraints.Unsigned]() *strategy {
	return textStrategy(
		func(out *jsoniter.Stream, v reflect.Value) { out.WriteUint64(v.Uint()) },
		func(in *jsoniter.Iterator, v reflect.Value) error {
			parsedValue, err := checkedUint[T](in.ReadUint64())
			if err != nil {
				return err
			}

			v.SetUint(uint64(parsedValue))
			return nil
		},
	)
}

func makeTextFloat[T constraints.Float](write func(out *jsoniter.Stream, f float64)) *strategy {
	return textStrategy(
		func(out *jsoniter.Stream, v reflect.Value) { write(out, v.Float()) },
		func(in *jsoniter.Iterator, v reflect.Value) error {
			parsedValue, err := checkedFloat[T](in.ReadFloat64())
			if err != nil {
				return err
			}

			v.SetFloat(float64(parsedValue))
			return nil
		},
	)
}

// complex values are written as the real part followed by the imaginary part
func makeTextComplex[T constraints.Float](write func(out *jsoniter.Stream, f float64)) *strategy {
	return textStrategy(
		func(out *jsoniter.Stream, v reflect.Value) {
			write(out, real(v.Complex()))
			out.WriteRaw(" ")
			write(out, imag(v.Complex()))
		},
		func(in *jsoniter.Iterator, v reflect.Value) error {
			re, err := checkedFloat[T](in.ReadFloat64())
			if err != nil {
				return err
			}

			im, err := checkedFloat[T](in.ReadFloat64())
			if err != nil {
				return err
			}

			v.SetComplex(complex(float64(re), float64(im)))
			return nil
		},
	)
}

func checkedInt[T constraints.Signed](value int64) (T, error) {
	converted := T(value)
	if int64(converted) != value {
		return 0, errors.Wrapf(strconv.ErrRange, "invalid %T value %d", converted, value)
	}

	return converted, nil
}

func checkedUint[T constraints.Unsigned](value uint64) (T, error) {
	converted := T(value)
	if uint64(converted) != value {
		return 0, errors.Wrapf(strconv.ErrRange, "invalid %T value %d", converted, value)
	}

	return converted, nil
}

func checkedFloat[T constraints.Float](value float64) (T, error) {
	converted := T(value)
	if math.IsInf(float64(converted), 0) && !math.IsInf(value, 0) {
		return 0, errors.Wrapf(strconv.ErrRange, "invalid %T value %g", converted, value)
	}

	return converted, nil
}
