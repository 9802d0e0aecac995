package archive

// Kind identifies the wire format of an archive. Strategies are resolved per
// type and Kind.
type Kind int

const (
	KindBinary Kind = iota
	KindText
)

var allKinds = []Kind{KindBinary, KindText}

func (k Kind) String() string {
	switch k {
	case KindBinary:
		return "binary"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Mode is the direction an archive moves values in.
type Mode int

const (
	Saving Mode = iota
	Loading
)

func (m Mode) String() string {
	if m == Loading {
		return "loading"
	}
	return "saving"
}
