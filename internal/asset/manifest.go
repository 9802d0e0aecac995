package asset

import (
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// LoadManifest reads a manifest from a TOML file.
func LoadManifest(path string) (Manifest, error) {
	var m Manifest

	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return Manifest{}, errors.Wrapf(err, "decode manifest %q", path)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := lo.Map(undecoded, func(key toml.Key, _ int) string { return key.String() })
		return Manifest{}, errors.Newf("manifest %q: unknown keys %s", path, strings.Join(keys, ", "))
	}

	if err := m.Validate(); err != nil {
		return Manifest{}, errors.Wrapf(err, "manifest %q", path)
	}

	return m, nil
}

// WriteManifest writes the manifest as TOML.
func WriteManifest(w io.Writer, m Manifest) error {
	return toml.NewEncoder(w).Encode(m)
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return errors.New("name is empty")
	}

	for idx, a := range m.Assets {
		if a.Path == "" {
			return errors.Newf("asset %d: path is empty", idx)
		}
	}

	duplicates := lo.FindDuplicatesBy(m.Assets, func(a Asset) uint64 { return a.ID })
	if len(duplicates) > 0 {
		return errors.Newf("asset id %d is used more than once", duplicates[0].ID)
	}

	return nil
}

// CountByKind returns the number of assets per kind.
func (m Manifest) CountByKind() map[Kind]int {
	return lo.CountValuesBy(m.Assets, func(a Asset) Kind { return a.Kind })
}
