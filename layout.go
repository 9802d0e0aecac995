package archive

import (
	"fmt"
	"reflect"
	"sync"
)

var typeOfByte = reflect.TypeFor[byte]()

// cache of layout checks, maps reflect.Type to error
var layoutCache sync.Map

// checkTrivialLayout verifies that values of type ty may be copied as raw bytes:
// they must not contain pointers or reference types.
func checkTrivialLayout(ty reflect.Type) error {
	if cached, ok := layoutCache.Load(ty); ok {
		err, _ := cached.(error)
		return err
	}

	err := trivialLayout(ty, ty)
	layoutCache.Store(ty, err)

	return err
}

func trivialLayout(root, ty reflect.Type) error {
	switch {
	case isNumericKind(ty.Kind()):
		return nil

	case ty.Kind() == reflect.Array:
		return trivialLayout(root, ty.Elem())

	case ty.Kind() == reflect.Struct:
		for idx := range ty.NumField() {
			field := ty.Field(idx)
			if err := trivialLayout(root, field.Type); err != nil {
				if ty != root {
					return err
				}

				return NotTrivialError{
					Type:   root,
					Reason: fmt.Sprintf("field %s: %s", field.Name, err.(NotTrivialError).Reason),
				}
			}
		}

		return nil

	default:
		return NotTrivialError{
			Type:   root,
			Reason: fmt.Sprintf("%s values are not plain data", ty.Kind()),
		}
	}
}

func isNumericKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}
