package asset

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-gum/archive"
	"github.com/go-gum/archive/stream"
	"go.uber.org/zap"
)

type Format string

const (
	FormatBinary Format = "binary"
	FormatText   Format = "text"
)

func (f Format) Validate() error {
	switch f {
	case FormatBinary, FormatText:
		return nil
	default:
		return errors.Newf("unknown format %q", string(f))
	}
}

type Options struct {
	Format   Format
	Compress bool
	Strict   bool
}

// Registry returns the registry holding the asset types.
var Registry = sync.OnceValues(func() (*archive.Registry, error) {
	r := archive.NewRegistry()
	if err := Register(r); err != nil {
		return nil, err
	}

	return r, nil
})

func codecOf(opts Options) (*archive.Codec, error) {
	if err := opts.Format.Validate(); err != nil {
		return nil, err
	}

	r, err := Registry()
	if err != nil {
		return nil, errors.Wrap(err, "register asset types")
	}

	c := archive.NewCodec().WithRegistry(r)
	if opts.Strict {
		c = c.Strict()
	}

	return c, nil
}

// Pack writes the manifest to dst and flushes it.
func Pack(dst stream.Writer, m *Manifest, opts Options) error {
	c, err := codecOf(opts)
	if err != nil {
		return err
	}

	if !opts.Compress {
		return encode(c, dst, m, opts.Format)
	}

	zw, err := stream.NewZstdWriter(dst)
	if err != nil {
		return err
	}

	if err := encode(c, zw, m, opts.Format); err != nil {
		return err
	}

	return zw.Close()
}

func encode(c *archive.Codec, w stream.Writer, m *Manifest, format Format) error {
	archive.Logger().Debug("packing manifest",
		zap.String("name", m.Name),
		zap.Int("assets", len(m.Assets)),
		zap.String("format", string(format)),
	)

	if format == FormatText {
		return c.NewTextWriter(w).Encode(m)
	}

	a := c.NewBinaryWriter(w)
	if err := a.Encode(m); err != nil {
		return err
	}

	return a.Flush()
}

// Unpack reads a manifest written by Pack with the same options.
func Unpack(src stream.Reader, opts Options) (Manifest, error) {
	c, err := codecOf(opts)
	if err != nil {
		return Manifest{}, err
	}

	if opts.Compress {
		src, err = stream.OpenZstdReader(src)
		if err != nil {
			return Manifest{}, err
		}
	}

	var m Manifest

	if opts.Format == FormatText {
		err = c.NewTextReader(src).Decode(&m)
	} else {
		err = c.NewBinaryReader(src).Decode(&m)
	}

	if err != nil {
		return Manifest{}, errors.Wrap(err, "decode manifest")
	}

	return m, nil
}
