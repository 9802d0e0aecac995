// Command assetpack packs asset manifests into archives and back.
//
//	assetpack [-config assetpack.toml] pack <manifest.toml> <out>
//	assetpack [-config assetpack.toml] unpack <in> [out.toml]
//	assetpack [-config assetpack.toml] inspect <in>
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/go-gum/archive/internal/asset"
	"github.com/go-gum/archive/stream"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "assetpack: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("assetpack", flag.ContinueOnError)
	configPath := flags.String("config", "", "path to assetpack.toml")
	format := flags.String("format", "", "archive format, overrides the config (binary or text)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	if *format != "" {
		cfg.Options.Format = asset.Format(*format)
		if err := cfg.validate(); err != nil {
			return err
		}
	}

	logger := cfg.logger()
	defer func() { _ = logger.Sync() }()

	rest := flags.Args()
	if len(rest) == 0 {
		return errors.New("missing command, expected pack, unpack or inspect")
	}

	cmd, rest := rest[0], rest[1:]
	switch cmd {
	case "pack":
		if len(rest) != 2 {
			return errors.New("usage: pack <manifest.toml> <out>")
		}
		return pack(logger, cfg.Options, rest[0], rest[1], stdout)

	case "unpack":
		if len(rest) < 1 || len(rest) > 2 {
			return errors.New("usage: unpack <in> [out.toml]")
		}
		out := ""
		if len(rest) == 2 {
			out = rest[1]
		}
		return unpack(logger, cfg.Options, rest[0], out, stdout)

	case "inspect":
		if len(rest) != 1 {
			return errors.New("usage: inspect <in>")
		}
		return inspect(cfg.Options, rest[0], stdout)

	default:
		return errors.Newf("unknown command %q", cmd)
	}
}

func pack(logger *zap.Logger, opts asset.Options, manifestPath, out string, stdout io.Writer) (err error) {
	manifest, err := asset.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	w, err := stream.CreateFileWriter(out, stream.ModeTruncate)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, w.Close()) }()

	if err := asset.Pack(w, &manifest, opts); err != nil {
		return errors.Wrapf(err, "pack %q", out)
	}

	logger.Info("packed manifest",
		zap.String("manifest", manifestPath),
		zap.String("out", out),
		zap.Int("assets", len(manifest.Assets)),
	)

	_, err = fmt.Fprintf(stdout, "packed %d assets into %s (%s)\n", len(manifest.Assets), out, opts.Format)
	return err
}

func load(opts asset.Options, in string) (asset.Manifest, error) {
	r, err := stream.OpenFileReader(in)
	if err != nil {
		return asset.Manifest{}, err
	}
	defer func() { _ = r.Close() }()

	manifest, err := asset.Unpack(r, opts)
	if err != nil {
		return asset.Manifest{}, errors.Wrapf(err, "unpack %q", in)
	}

	return manifest, nil
}

func unpack(logger *zap.Logger, opts asset.Options, in, out string, stdout io.Writer) (err error) {
	manifest, err := load(opts, in)
	if err != nil {
		return err
	}

	if out == "" {
		return asset.WriteManifest(stdout, manifest)
	}

	w, err := stream.CreateFileWriter(out, stream.ModeTruncate)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, w.Close()) }()

	if err := asset.WriteManifest(w, manifest); err != nil {
		return errors.Wrapf(err, "write %q", out)
	}

	logger.Info("unpacked manifest", zap.String("in", in), zap.String("out", out))
	return w.Flush()
}

func inspect(opts asset.Options, in string, stdout io.Writer) error {
	manifest, err := load(opts, in)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(stdout, "%s v%d: %d assets\n", manifest.Name, manifest.Version, len(manifest.Assets)); err != nil {
		return err
	}

	counts := manifest.CountByKind()
	kinds := lo.Keys(counts)
	slices.Sort(kinds)

	for _, kind := range kinds {
		if _, err := fmt.Fprintf(stdout, "  %-8s %d\n", kind, counts[kind]); err != nil {
			return err
		}
	}

	return nil
}
