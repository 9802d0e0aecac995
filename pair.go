package archive

// Pair holds two values. Pairs of plain data are stored as a single packet,
// other pairs field by field.
type Pair[A, B any] struct {
	First  A
	Second B
}

// MakePair returns a Pair of first and second.
func MakePair[A, B any](first A, second B) Pair[A, B] {
	return Pair[A, B]{First: first, Second: second}
}

func (p *Pair[A, B]) Serialize(a Archive) error {
	if IsTrivial[A](a) && IsTrivial[B](a) {
		return a.Packet(FixedPacketOf(p))
	}

	if err := a.Value(Named("first", &p.First)); err != nil {
		return err
	}

	return a.Value(Named("second", &p.Second))
}

// Tuple3 holds three values and is stored like a Pair.
type Tuple3[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// MakeTuple3 returns a Tuple3 of the three values.
func MakeTuple3[A, B, C any](first A, second B, third C) Tuple3[A, B, C] {
	return Tuple3[A, B, C]{First: first, Second: second, Third: third}
}

func (t *Tuple3[A, B, C]) Serialize(a Archive) error {
	if IsTrivial[A](a) && IsTrivial[B](a) && IsTrivial[C](a) {
		return a.Packet(FixedPacketOf(t))
	}

	if err := a.Value(Named("first", &t.First)); err != nil {
		return err
	}

	if err := a.Value(Named("second", &t.Second)); err != nil {
		return err
	}

	return a.Value(Named("third", &t.Third))
}
