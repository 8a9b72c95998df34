package settings

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/efmig/errors"
)

// WriteDefaults writes a settings file with every default spelled out.
// An existing file is left untouched unless overwrite is set.
func WriteDefaults(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return errors.WithHint(
			errors.Newf("settings file %s already exists", path),
			"pass --force to overwrite it")
	}

	data, err := toml.Marshal(Defaults())
	if err != nil {
		return errors.Wrap(err, "failed to encode default settings")
	}

	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
