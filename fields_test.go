package archive

import (
	"reflect"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func fieldNames[T any]() []string {
	fields := fieldsToSerialize(reflect.TypeFor[T](), FieldTag)
	return lo.Map(fields, func(f field, _ int) string { return f.Name })
}

func TestRegisterFieldsRoundTrip(t *testing.T) {
	type Address struct {
		City    string
		ZipCode int32 `archive:"zip,omitempty"`
	}

	//goland:noinspection ALL
	type Student struct {
		Name       string
		AgeInYears int64  `archive:"age"`
		SkipThis   string `archive:"-"`
		Tags       []string
		Address    *Address
		Height     float32
		Accepted   bool

		// not exported, must not be set
		note string
	}

	r := NewRegistry()
	require.NoError(t, RegisterFields[Address](r))
	require.NoError(t, RegisterFields[Student](r))

	student := Student{
		Name:       "Albert",
		AgeInYears: 21,
		SkipThis:   "FOOBAR",
		Tags:       []string{"foo", "bar"},
		Address:    &Address{City: "Zürich", ZipCode: 8015},
		Height:     1.76,
		Accepted:   true,
		note:       "private",
	}

	expected := Student{
		Name:       "Albert",
		AgeInYears: 21,
		Tags:       []string{"foo", "bar"},
		Address:    &Address{City: "Zürich", ZipCode: 8015},
		Height:     1.76,
		Accepted:   true,
	}

	roundTrip(t, NewCodec().WithRegistry(r), student, expected)
}

func TestRegisterFieldsNeedsStruct(t *testing.T) {
	require.Error(t, RegisterFields[[]int](NewRegistry()))
}

func TestRegisterFieldsUnsupportedField(t *testing.T) {
	type Struct struct{ A chan int }

	r := NewRegistry()
	require.NoError(t, RegisterFields[Struct](r))

	_, err := NewCodec().WithRegistry(r).Marshal(Struct{})
	require.ErrorIs(t, err, NotSupportedError{Type: reflect.TypeFor[chan int](), Kind: KindBinary})
}

func TestNaming_TagExplicit(t *testing.T) {
	type Struct struct {
		A string
		B string `archive:"A"`
	}

	require.Equal(t, []string{"A"}, fieldNames[Struct]())
	require.Equal(t, []int{1}, fieldsToSerialize(reflect.TypeFor[Struct](), FieldTag)[0].Index)
}

func TestNaming_TagSkip(t *testing.T) {
	type Struct struct {
		A string
		B string `archive:"-"`
	}

	require.Equal(t, []string{"A"}, fieldNames[Struct]())
}

func TestNaming_TagNoName(t *testing.T) {
	type Struct struct {
		A string
		B string `archive:",omitempty"` // same as no tag
	}

	require.Equal(t, []string{"A", "B"}, fieldNames[Struct]())
}

func TestNaming_EmbeddedNamingConflict(t *testing.T) {
	type First struct{ A string }
	type Second struct{ A string }

	type Struct struct {
		First
		Second
	}

	// naming conflict, nothing is serialized
	require.Empty(t, fieldNames[Struct]())
}

func TestNaming_EmbeddedNamingExplicitWinsOnSameNesting(t *testing.T) {
	type First struct {
		A string
	}
	type Second struct {
		A string `archive:"A"` // this one wins
	}

	type Struct struct {
		First
		Second
	}

	fields := fieldsToSerialize(reflect.TypeFor[Struct](), FieldTag)
	require.Len(t, fields, 1)
	require.Equal(t, []int{1, 0}, fields[0].Index)
}

func TestNaming_EmbeddedLowerNestingWins(t *testing.T) {
	type First struct{ A string }

	type Struct struct {
		First
		A string // this one wins
	}

	fields := fieldsToSerialize(reflect.TypeFor[Struct](), FieldTag)
	require.Len(t, fields, 1)
	require.Equal(t, []int{1}, fields[0].Index)
}

func TestNaming_NoEmbeddingWithExplicitTag(t *testing.T) {
	type First struct{ A string }

	type Struct struct {
		First `archive:"First"`
		A     string
	}

	require.Equal(t, []string{"First", "A"}, fieldNames[Struct]())
}

func TestNaming_NoEmbeddingWithPointer(t *testing.T) {
	type First struct{ A string }

	type Struct struct {
		*First
	}

	require.Empty(t, fieldNames[Struct]())
}

func TestNaming_MultipleEmbeddedTypes(t *testing.T) {
	type First struct {
		A string
		B string
		D string `archive:"D"`
	}

	type Second struct {
		A string // neither First.A, nor Second.A are serialized
		B string `archive:"C"` // First.B and Second.B are both serialized
		D string // Only First.D is serialized
	}

	type Struct struct {
		First
		Second
	}

	require.Equal(t, []string{"B", "D", "C"}, fieldNames[Struct]())

	r := NewRegistry()
	require.NoError(t, RegisterFields[Struct](r))

	value := Struct{
		First:  First{A: "FirstA", B: "FirstB", D: "FirstD"},
		Second: Second{A: "SecondA", B: "SecondB", D: "SecondD"},
	}

	roundTrip(t, NewCodec().WithRegistry(r), value, Struct{
		First:  First{B: "FirstB", D: "FirstD"},
		Second: Second{B: "SecondB"},
	})
}

func TestNaming_UnexportedEmbeddedStruct(t *testing.T) {
	type inner struct{ A string }

	type Struct struct {
		inner
		B string
	}

	require.Equal(t, []string{"B", "A"}, fieldNames[Struct]())

	r := NewRegistry()
	require.NoError(t, RegisterFields[Struct](r))

	value := Struct{inner: inner{A: "a"}, B: "b"}
	roundTrip(t, NewCodec().WithRegistry(r), value, value)
}
