package stream

import "io"

// MemoryWriter is a Writer backed by a growable byte buffer.
type MemoryWriter struct {
	buf   []byte
	moved bool
}

var _ Writer = (*MemoryWriter)(nil)

// NewMemoryWriter returns an empty MemoryWriter.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{}
}

// NewMemoryWriterSize returns an empty MemoryWriter with room for size bytes.
func NewMemoryWriterSize(size int) *MemoryWriter {
	return &MemoryWriter{buf: make([]byte, 0, size)}
}

func (m *MemoryWriter) Write(p []byte) (int, error) {
	if m.moved {
		return 0, ErrMoved
	}

	m.buf = append(m.buf, p...)
	return len(p), nil
}

// Flush is a no-op, the bytes already live in memory.
func (m *MemoryWriter) Flush() error {
	return nil
}

// Len returns the number of bytes written.
func (m *MemoryWriter) Len() int {
	return len(m.buf)
}

// Bytes returns the written bytes. The slice aliases the internal buffer and
// is valid until the next write.
func (m *MemoryWriter) Bytes() []byte {
	return m.buf
}

// Reader transfers the written bytes into a new MemoryReader without copying.
// The writer stays usable but empty: further writes return ErrMoved.
func (m *MemoryWriter) Reader() *MemoryReader {
	buf := m.buf
	m.buf = nil
	m.moved = true
	return NewMemoryReader(buf)
}

// MemoryReader is a Reader over an in-memory byte slice.
type MemoryReader struct {
	buf   []byte
	pos   int
	moved bool
}

var _ Reader = (*MemoryReader)(nil)

// NewMemoryReader returns a reader over buf. The reader takes ownership of
// buf; the caller must not modify it afterwards.
func NewMemoryReader(buf []byte) *MemoryReader {
	return &MemoryReader{buf: buf}
}

func (m *MemoryReader) Read(p []byte) (int, error) {
	if m.moved {
		return 0, ErrMoved
	}

	if len(p) == 0 {
		return 0, nil
	}

	if m.pos >= len(m.buf) {
		return 0, io.EOF
	}

	n := copy(p, m.buf[m.pos:])
	m.pos += n
	return n, nil
}

func (m *MemoryReader) Available() int {
	return len(m.buf) - m.pos
}

// Take transfers the unread bytes into a new MemoryReader without copying.
// The receiver is left empty: Available returns 0 and reads return ErrMoved.
func (m *MemoryReader) Take() *MemoryReader {
	rest := m.buf[m.pos:]
	m.buf = nil
	m.pos = 0
	m.moved = true
	return NewMemoryReader(rest)
}
