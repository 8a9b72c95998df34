package settings

import (
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/teranos/efmig/errors"
)

// Check decodes a settings file strictly and returns the keys efmig does not
// know, sorted. Viper ignores unknown keys, so a misspelt marker list would
// otherwise fall back to the defaults without notice.
func Check(path string) ([]string, error) {
	var s Settings
	meta, err := toml.DecodeFile(path, &s)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to parse %s", path), errors.ErrConfiguration)
	}

	var unknown []string
	for _, key := range meta.Undecoded() {
		unknown = append(unknown, key.String())
	}
	sort.Strings(unknown)
	return unknown, nil
}
