package stream

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"
)

// ZstdWriter collects written bytes in memory and writes them as a single
// zstd frame to the underlying Writer on Close.
type ZstdWriter struct {
	dst Writer
	buf MemoryWriter
	enc *zstd.Encoder
}

var _ Writer = (*ZstdWriter)(nil)

// NewZstdWriter returns a ZstdWriter that compresses into dst.
func NewZstdWriter(dst Writer) (*ZstdWriter, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithZeroFrames(true))
	if err != nil {
		return nil, errors.Wrap(err, "stream: create zstd encoder")
	}

	return &ZstdWriter{dst: dst, enc: enc}, nil
}

func (z *ZstdWriter) Write(p []byte) (int, error) {
	if z.enc == nil {
		return 0, zstd.ErrEncoderClosed
	}

	return z.buf.Write(p)
}

// Flush is a no-op until Close: a zstd frame is written once all bytes are known.
func (z *ZstdWriter) Flush() error {
	return nil
}

// Close compresses the collected bytes, writes them to the underlying Writer
// and flushes it.
func (z *ZstdWriter) Close() error {
	if z.enc == nil {
		return nil
	}

	packet := z.enc.EncodeAll(z.buf.Bytes(), nil)

	_ = z.enc.Close()
	z.enc = nil
	z.buf = MemoryWriter{}

	if _, err := z.dst.Write(packet); err != nil {
		return errors.Wrap(err, "stream: write zstd frame")
	}

	return z.dst.Flush()
}

// OpenZstdReader decompresses everything left in src and returns a reader
// over the plain bytes.
func OpenZstdReader(src Reader) (*MemoryReader, error) {
	compressed := make([]byte, src.Available())
	n, err := ReadAvailable(src, compressed)
	if err != nil {
		return nil, errors.Wrap(err, "stream: read zstd frame")
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errors.Wrap(err, "stream: create zstd decoder")
	}
	defer dec.Close()

	plain, err := dec.DecodeAll(compressed[:n], nil)
	if err != nil {
		return nil, errors.Wrap(err, "stream: decompress zstd frame")
	}

	return NewMemoryReader(plain), nil
}

var _ io.Closer = (*ZstdWriter)(nil)
