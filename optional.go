package archive

// Optional holds a value that may be absent. It is stored as an engaged flag
// followed by the value if present.
type Optional[T any] struct {
	value   T
	engaged bool
}

// Some returns an engaged Optional holding value.
func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, engaged: true}
}

// None returns an empty Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// HasValue reports whether a value is present.
func (o Optional[T]) HasValue() bool {
	return o.engaged
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.engaged
}

// ValueOr returns the value if present, fallback otherwise.
func (o Optional[T]) ValueOr(fallback T) T {
	if o.engaged {
		return o.value
	}

	return fallback
}

// Set stores value and marks the Optional engaged.
func (o *Optional[T]) Set(value T) {
	o.value = value
	o.engaged = true
}

// Reset drops the value.
func (o *Optional[T]) Reset() {
	var zero T
	o.value = zero
	o.engaged = false
}

func (o *Optional[T]) Serialize(a Archive) error {
	if err := a.Value(Named("engaged", &o.engaged)); err != nil {
		return err
	}

	if !o.engaged {
		if a.Mode() == Loading {
			o.Reset()
		}

		return nil
	}

	return a.Value(Named("value", &o.value))
}
