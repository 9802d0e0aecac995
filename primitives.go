package archive

import (
	"iter"
	"reflect"
	"unsafe"
)

// Label names the next value in the archive.
type Label string

func (l Label) processArchive(a Archive) error {
	return a.Label(string(l))
}

// NamedValue is a value paired with its label. Use Named to create one.
type NamedValue[T any] struct {
	Name  string
	Value *T
}

// Named pairs a label with a pointer to the value it names.
func Named[T any](name string, value *T) NamedValue[T] {
	return NamedValue[T]{Name: name, Value: value}
}

func (n NamedValue[T]) processArchive(a Archive) error {
	if err := a.Label(n.Name); err != nil {
		return err
	}

	return a.Value(n.Value)
}

// Packet is a view on a contiguous run of trivially serializable elements.
// The archive copies its bytes verbatim.
type Packet struct {
	data  []byte
	count int
	elem  reflect.Type
	fixed bool
	err   error
}

// PacketOf returns a packet over the elements of the slice. T must have a
// fixed, pointer free layout.
func PacketOf[T any](elems []T) Packet {
	ty := reflect.TypeFor[T]()
	if err := checkTrivialLayout(ty); err != nil {
		return Packet{elem: ty, err: err}
	}

	return Packet{
		data:  bytesOf(unsafe.Pointer(unsafe.SliceData(elems)), len(elems)*int(ty.Size())),
		count: len(elems),
		elem:  ty,
	}
}

// FixedPacketOf returns a packet over the single value v points to.
func FixedPacketOf[T any](v *T) Packet {
	ty := reflect.TypeFor[T]()
	if err := checkTrivialLayout(ty); err != nil {
		return Packet{elem: ty, err: err, fixed: true}
	}

	return Packet{
		data:  bytesOf(unsafe.Pointer(v), int(ty.Size())),
		count: 1,
		elem:  ty,
		fixed: true,
	}
}

// BytesPacket returns a packet over b.
func BytesPacket(b []byte) Packet {
	return Packet{data: b, count: len(b), elem: typeOfByte}
}

// Bytes returns the memory the packet refers to.
func (p Packet) Bytes() []byte {
	return p.data
}

// Len returns the size of the packet in bytes.
func (p Packet) Len() int {
	return len(p.data)
}

// Count returns the number of elements in the packet.
func (p Packet) Count() int {
	return p.count
}

// Fixed reports whether the packet covers a single value rather than a run of
// slice elements.
func (p Packet) Fixed() bool {
	return p.fixed
}

// Err returns the error recorded while creating the packet.
func (p Packet) Err() error {
	return p.err
}

func (p Packet) processArchive(a Archive) error {
	return a.Packet(p)
}

// packetOfValue returns a packet over the elements of a slice or an addressable array.
func packetOfValue(v reflect.Value) Packet {
	elem := v.Type().Elem()

	var ptr unsafe.Pointer
	switch v.Kind() {
	case reflect.Slice:
		ptr = v.UnsafePointer()
	case reflect.Array:
		ptr = v.Addr().UnsafePointer()
	}

	return Packet{
		data:  bytesOf(ptr, v.Len()*int(elem.Size())),
		count: v.Len(),
		elem:  elem,
	}
}

func bytesOf(ptr unsafe.Pointer, size int) []byte {
	if ptr == nil || size == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(ptr), size)
}

// Sequence is an ordered run of elements of one type. Each element is
// processed with the strategy of the element type.
type Sequence struct {
	elem  reflect.Type
	len   int
	elems iter.Seq[reflect.Value]
}

// SequenceOf returns a sequence over the elements of the slice.
func SequenceOf[T any](elems []T) Sequence {
	return sequenceOfValue(reflect.ValueOf(elems))
}

// Len returns the number of elements in the sequence.
func (s Sequence) Len() int {
	return s.len
}

func (s Sequence) processArchive(a Archive) error {
	return a.Sequence(s)
}

// sequenceOfValue returns a sequence over the elements of a slice or an
// addressable array. The elements are addressable.
func sequenceOfValue(v reflect.Value) Sequence {
	return Sequence{
		elem: v.Type().Elem(),
		len:  v.Len(),
		elems: func(yield func(reflect.Value) bool) {
			for idx := range v.Len() {
				if !yield(v.Index(idx)) {
					return
				}
			}
		},
	}
}
