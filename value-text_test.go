package archive

import (
	"fmt"
	"math"
	"strconv"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestTextLiterals(t *testing.T) {
	if unsafe.Sizeof(int(0)) == 8 {
		parseTest(t, textTestValues[int]{
			MinIn:   "-9223372036854775808",
			MinOut:  math.MinInt64,
			MaxIn:   "9223372036854775807",
			MaxOut:  math.MaxInt64,
			Invalid: []string{"foobar", "", "true", "9223372036854775808"},
		})

		parseTest(t, textTestValues[uint]{
			MinIn:   "0",
			MinOut:  0,
			MaxIn:   "18446744073709551615",
			MaxOut:  math.MaxUint64,
			Invalid: []string{"foobar", "", "-1", "18446744073709551616"},
		})
	}

	parseTest(t, textTestValues[int8]{
		MinIn:      "-128",
		MinOut:     -128,
		MaxIn:      "127",
		MaxOut:     127,
		OutOfRange: []string{"-129", "128"},
		Invalid:    []string{"foobar", "", "true"},
	})

	parseTest(t, textTestValues[int16]{
		MinIn:      "-32768",
		MinOut:     -32768,
		MaxIn:      "32767",
		MaxOut:     32767,
		OutOfRange: []string{"-32769", "32768"},
		Invalid:    []string{"foobar", "", "true"},
	})

	parseTest(t, textTestValues[int32]{
		MinIn:      "-2147483648",
		MinOut:     -2147483648,
		MaxIn:      "2147483647",
		MaxOut:     2147483647,
		OutOfRange: []string{"-2147483649", "2147483648"},
		Invalid:    []string{"foobar", "", "true"},
	})

	parseTest(t, textTestValues[int64]{
		MinIn:   "-9223372036854775808",
		MinOut:  math.MinInt64,
		MaxIn:   "9223372036854775807",
		MaxOut:  math.MaxInt64,
		Invalid: []string{"foobar", "", "true", "-9223372036854775809", "9223372036854775808"},
	})

	parseTest(t, textTestValues[uint8]{
		MinIn:      "0",
		MinOut:     0,
		MaxIn:      "255",
		MaxOut:     255,
		OutOfRange: []string{"256"},
		Invalid:    []string{"foobar", "", "-1"},
	})

	parseTest(t, textTestValues[uint16]{
		MinIn:      "0",
		MinOut:     0,
		MaxIn:      "65535",
		MaxOut:     65535,
		OutOfRange: []string{"65536"},
		Invalid:    []string{"foobar", "", "-1"},
	})

	parseTest(t, textTestValues[uint32]{
		MinIn:      "0",
		MinOut:     0,
		MaxIn:      "4294967295",
		MaxOut:     4294967295,
		OutOfRange: []string{"4294967296"},
		Invalid:    []string{"foobar", "", "-1"},
	})

	parseTest(t, textTestValues[uint64]{
		MinIn:   "0",
		MinOut:  0,
		MaxIn:   strconv.FormatUint(math.MaxUint64, 10),
		MaxOut:  math.MaxUint64,
		Invalid: []string{"foobar", "", "-1", "18446744073709551616"},
	})

	parseTest(t, textTestValues[bool]{
		MinIn:   "true",
		MinOut:  true,
		MaxIn:   "false",
		MaxOut:  false,
		Invalid: []string{"foobar", "", "1"},
	})

	parseTest(t, textTestValues[float32]{
		MinIn:      "-1234.5",
		MinOut:     -1234.5,
		MaxIn:      "3.4028235e38",
		MaxOut:     math.MaxFloat32,
		OutOfRange: []string{"1e39", "-1e39"},
		Valid:      []string{"1e4", "-1", "0.0024"},
		Invalid:    []string{"foobar", ""},
	})

	parseTest(t, textTestValues[float64]{
		MinIn:   "-1234.5",
		MinOut:  -1234.5,
		MaxIn:   "1235.5",
		MaxOut:  1235.5,
		Valid:   []string{"1e4", "-1", "0.0024", "1e39"},
		Invalid: []string{"foobar", ""},
	})

	parseTest(t, textTestValues[string]{
		MinIn:   `""`,
		MinOut:  "",
		MaxIn:   `"line\nbreak ü"`,
		MaxOut:  "line\nbreak ü",
		Invalid: []string{"foobar", "", "12"},
	})
}

type textTestValues[T any] struct {
	MinIn  string
	MinOut T

	MaxIn  string
	MaxOut T

	OutOfRange []string
	Invalid    []string
	Valid      []string
}

func parseTest[T any](t *testing.T, v textTestValues[T]) {
	var tZero T

	t.Run(fmt.Sprintf("parse to %T", tZero), func(t *testing.T) {
		var actual T
		require.NoError(t, codec.DecodeText([]byte(v.MinIn), &actual))
		require.Equal(t, v.MinOut, actual)

		require.NoError(t, codec.DecodeText([]byte(v.MaxIn), &actual))
		require.Equal(t, v.MaxOut, actual)

		for _, value := range v.OutOfRange {
			err := codec.DecodeText([]byte(value), &actual)
			require.ErrorIs(t, err, strconv.ErrRange, "value %q", value)
		}

		for _, value := range v.Invalid {
			err := codec.DecodeText([]byte(value), &actual)
			require.Error(t, err, "value %q", value)
		}

		for _, value := range v.Valid {
			require.NoError(t, codec.DecodeText([]byte(value), &actual), "value %q", value)
		}
	})
}

type textStudent struct {
	Name   string
	Age    uint8 `archive:"age"`
	Tags   []string
	Secret string `archive:"-"`
}

func textRegistry(t *testing.T) *Codec {
	r := NewRegistry()
	require.NoError(t, RegisterFields[textStudent](r))
	return NewCodec().WithRegistry(r)
}

func TestTextWritesLabels(t *testing.T) {
	c := textRegistry(t)

	text, err := c.EncodeText(textStudent{Name: "Albert", Age: 21, Tags: []string{"a"}, Secret: "x"})
	require.NoError(t, err)

	expected := `"Name" "Albert"
"age" 21
"Tags" "size" 1
"a"
`
	require.Equal(t, expected, string(text))

	var decoded textStudent
	require.NoError(t, c.DecodeText(text, &decoded))
	require.Equal(t, textStudent{Name: "Albert", Age: 21, Tags: []string{"a"}}, decoded)
}

func TestTextLabelMismatch(t *testing.T) {
	c := textRegistry(t)

	text := []byte(`"Name" "Albert" "years" 21`)

	var decoded textStudent
	err := c.DecodeText(text, &decoded)
	require.ErrorIs(t, err, LabelMismatchError{Want: "age", Got: "years"})
}

func TestTextShortRead(t *testing.T) {
	c := textRegistry(t)

	var decoded textStudent
	err := c.DecodeText([]byte(`"Name" "Albert"`), &decoded)
	require.ErrorIs(t, err, ErrShortRead)
}

func TestTextCorruptCount(t *testing.T) {
	var strs []string
	err := NewCodec().DecodeText([]byte("\"size\" 2147483647\n\"a\"\n"), &strs)
	require.ErrorIs(t, err, ErrShortRead)

	var entries map[string]string
	err = NewCodec().DecodeText([]byte("\"size\" 268435456\n"), &entries)
	require.ErrorIs(t, err, ErrShortRead)

	// counts the input can hold still decode
	err = NewCodec().DecodeText([]byte("\"size\" 1\n\"key\" \"k\"\n\"value\" \"v\"\n"), &entries)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"k": "v"}, entries)
}

func TestTextSameBytesForBinary(t *testing.T) {
	c := textRegistry(t)

	student := textStudent{Name: "Albert", Age: 21}

	// one hook, two formats
	buf, err := c.Marshal(student)
	require.NoError(t, err)
	require.Len(t, buf, 8+6+1+8)

	decoded, err := UnmarshalNewWith[textStudent](c, buf)
	require.NoError(t, err)
	require.Equal(t, textStudent{Name: "Albert", Age: 21, Tags: []string{}}, decoded)
}

func TestTextPacketIsBase64(t *testing.T) {
	type Color struct{ R, G, B uint8 }

	r := NewRegistry()
	require.NoError(t, MarkTrivial[Color](r))

	c := NewCodec().WithRegistry(r)

	text, err := c.EncodeText([]Color{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	require.Equal(t, "\"size\" 2\n\"AQIDBAUG\"\n", string(text))

	var decoded []Color
	require.NoError(t, c.DecodeText(text, &decoded))
	require.Equal(t, []Color{{1, 2, 3}, {4, 5, 6}}, decoded)

	// packet size differs from the destination
	err = c.DecodeText([]byte("\"size\" 1\n\"AQIDBAUG\"\n"), &decoded)
	require.Error(t, err)
}

func TestTextRejectsNaN(t *testing.T) {
	_, err := codec.EncodeText(math.NaN())
	require.Error(t, err)
}
