package archive

import (
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// FieldTag is the struct tag RegisterFields reads field labels from.
// A label of "-" excludes the field.
const FieldTag = "archive"

// RegisterFields registers a serialize hook for the struct type T that
// processes its exported fields in declaration order, each labeled with its
// name. Fields of embedded structs are promoted following the rules of
// encoding/json.
func RegisterFields[T any](r *Registry, kinds ...Kind) error {
	ty := reflect.TypeFor[T]()
	if ty.Kind() != reflect.Struct {
		return errors.Newf("archive: RegisterFields needs a struct type, got %q", ty)
	}

	fields := fieldsToSerialize(ty, FieldTag)

	serialize := func(a Archive, v reflect.Value) error {
		for _, field := range fields {
			if err := a.Label(field.Name); err != nil {
				return err
			}

			fieldValue := v.FieldByIndex(field.Index)
			if err := a.Value(fieldValue.Addr().Interface()); err != nil {
				return errors.Wrapf(err, "field %q of %q", field.Name, ty)
			}
		}

		return nil
	}

	return r.register(ty, hooks{serialize: serialize}, kinds)
}

type field struct {
	Name  string
	Type  reflect.Type
	Index []int
}

// fieldsToSerialize lists the fields of a struct type, including the promoted
// fields of embedded structs.
func fieldsToSerialize(ty reflect.Type, structTag string) []field {
	type queued struct {
		Type        reflect.Type
		ParentIndex []int
	}

	type candidate struct {
		Explicit bool
		Field    field
	}

	queue := []queued{{Type: ty}}

	candidates := map[string][]candidate{}

	var order []string

	// walk breadth first, so candidates of one name are sorted by depth
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		for idx := range item.Type.NumField() {
			fi := item.Type.Field(idx)
			if !fi.IsExported() && !fi.Anonymous {
				continue
			}

			name, explicit := labelOf(fi, structTag)
			if name == "" {
				continue
			}

			parent := item.ParentIndex
			index := append(parent[:len(parent):len(parent)], fi.Index...)

			if fi.Anonymous && !explicit {
				if fi.Type.Kind() == reflect.Struct {
					queue = append(queue, queued{fi.Type, index})
				}

				continue
			}

			if !fi.IsExported() {
				continue
			}

			if len(candidates[name]) == 0 {
				order = append(order, name)
			}

			candidates[name] = append(candidates[name], candidate{
				Explicit: explicit,
				Field:    field{Name: name, Type: fi.Type, Index: index},
			})
		}
	}

	var fields []field

	for _, name := range order {
		byName := candidates[name]

		// only the shallowest candidates are visible
		depth := len(byName[0].Field.Index)
		visible := lo.Filter(byName, func(c candidate, _ int) bool { return len(c.Field.Index) == depth })

		if len(visible) == 1 {
			fields = append(fields, visible[0].Field)
			continue
		}

		explicit := lo.Filter(visible, func(c candidate, _ int) bool { return c.Explicit })
		if len(explicit) == 1 {
			fields = append(fields, explicit[0].Field)
		}

		// conflicting names are dropped
	}

	return fields
}

func labelOf(fi reflect.StructField, structTag string) (name string, explicit bool) {
	tag := fi.Tag.Get(structTag)

	switch {
	case tag == "":
		return fi.Name, false

	case tag == "-":
		return "", true
	}

	alias, _, _ := strings.Cut(tag, ",")
	if alias == "" {
		return fi.Name, false
	}

	return alias, true
}
