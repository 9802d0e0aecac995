package stream

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryWriterMoveToReader(t *testing.T) {
	w := NewMemoryWriter()

	n, err := w.Write([]byte("hello world"))
	require.NoError(t, err)
	require.Equal(t, 11, n)

	r := w.Reader()
	require.Equal(t, 11, r.Available())

	buf := make([]byte, 11)
	n, err = r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 11, n)
	require.Equal(t, "hello world", string(buf))
	require.Equal(t, 0, r.Available())
}

func TestMemoryWriterMovedIsEmpty(t *testing.T) {
	w := NewMemoryWriter()
	_, _ = w.Write([]byte{1, 2, 3})
	_ = w.Reader()

	require.Equal(t, 0, w.Len())

	n, err := w.Write([]byte{4})
	require.ErrorIs(t, err, ErrMoved)
	require.Equal(t, 0, n)
}

func TestMemoryReaderShortRead(t *testing.T) {
	r := NewMemoryReader([]byte{1, 2, 3})

	buf := make([]byte, 8)
	n, err := r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []byte{1, 2, 3}, buf[:n])

	n, err = r.Read(buf)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 0, n)
}

func TestMemoryReaderAvailableDecreases(t *testing.T) {
	r := NewMemoryReader(make([]byte, 10))

	previous := r.Available()
	buf := make([]byte, 3)
	for r.Available() > 0 {
		_, err := r.Read(buf)
		require.NoError(t, err)
		require.LessOrEqual(t, r.Available(), previous)
		previous = r.Available()
	}

	require.Equal(t, 0, r.Available())
}

func TestMemoryReaderTake(t *testing.T) {
	r := NewMemoryReader([]byte("abcdef"))

	buf := make([]byte, 2)
	_, _ = r.Read(buf)

	rest := r.Take()
	require.Equal(t, 4, rest.Available())
	require.Equal(t, 0, r.Available())

	n, err := r.Read(buf)
	require.ErrorIs(t, err, ErrMoved)
	require.Equal(t, 0, n)

	all, err := io.ReadAll(rest)
	require.NoError(t, err)
	require.Equal(t, "cdef", string(all))
}

func TestReadAvailable(t *testing.T) {
	r := NewMemoryReader([]byte{1, 2, 3, 4})

	buf := make([]byte, 6)
	n, err := ReadAvailable(r, buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	n, err = ReadAvailable(r, buf)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}
