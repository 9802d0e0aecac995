// Package asset defines the asset manifest persisted by assetpack.
package asset

import (
	"github.com/cockroachdb/errors"
	"github.com/go-gum/archive"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindMesh
	KindTexture
	KindSound
	KindScript
)

var kindNames = map[Kind]string{
	KindUnknown: "unknown",
	KindMesh:    "mesh",
	KindTexture: "texture",
	KindSound:   "sound",
	KindScript:  "script",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}

	return errors.Newf("asset: unknown kind %q", text)
}

type Vec3 struct {
	X float32 `toml:"x" archive:"x"`
	Y float32 `toml:"y" archive:"y"`
	Z float32 `toml:"z" archive:"z"`
}

type Quat struct {
	X float32 `toml:"x" archive:"x"`
	Y float32 `toml:"y" archive:"y"`
	Z float32 `toml:"z" archive:"z"`
	W float32 `toml:"w" archive:"w"`
}

type Transform struct {
	Position Vec3 `toml:"position" archive:"position"`
	Rotation Quat `toml:"rotation" archive:"rotation"`
	Scale    Vec3 `toml:"scale" archive:"scale"`
}

// Bounds is an axis aligned bounding box.
type Bounds struct {
	Min Vec3 `toml:"min" archive:"min"`
	Max Vec3 `toml:"max" archive:"max"`
}

type Asset struct {
	ID        uint64            `toml:"id"`
	Path      string            `toml:"path"`
	Kind      Kind              `toml:"kind"`
	Tags      []string          `toml:"tags"`
	Transform Transform         `toml:"transform"`
	Bounds    *Bounds           `toml:"bounds"`
	Meta      map[string]string `toml:"meta"`
}

func (a *Asset) Serialize(ar archive.Archive) error {
	if err := ar.Value(archive.Named("id", &a.ID)); err != nil {
		return err
	}

	if err := ar.Value(archive.Named("path", &a.Path)); err != nil {
		return err
	}

	if err := ar.Value(archive.Named("kind", &a.Kind)); err != nil {
		return err
	}

	if err := ar.Value(archive.Named("tags", &a.Tags)); err != nil {
		return err
	}

	if err := ar.Value(archive.Named("transform", &a.Transform)); err != nil {
		return err
	}

	if err := ar.Value(archive.Named("bounds", &a.Bounds)); err != nil {
		return err
	}

	return ar.Value(archive.Named("meta", &a.Meta))
}

type Manifest struct {
	Name    string  `toml:"name" archive:"name"`
	Version uint32  `toml:"version" archive:"version"`
	Assets  []Asset `toml:"assets" archive:"assets"`
}

// Register adds the asset types to a registry. The math types are copied as
// raw bytes in binary archives and written field by field in text archives.
func Register(r *archive.Registry) error {
	return errors.Join(
		archive.MarkTrivial[Vec3](r, archive.KindBinary),
		archive.MarkTrivial[Quat](r, archive.KindBinary),
		archive.MarkTrivial[Transform](r, archive.KindBinary),
		archive.MarkTrivial[Bounds](r, archive.KindBinary),

		archive.RegisterFields[Vec3](r, archive.KindText),
		archive.RegisterFields[Quat](r, archive.KindText),
		archive.RegisterFields[Transform](r, archive.KindText),
		archive.RegisterFields[Bounds](r, archive.KindText),

		archive.RegisterFields[Manifest](r),
	)
}
