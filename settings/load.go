package settings

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/efmig/errors"
)

// Load reads settings from defaults, settings files and the environment.
func Load() (*Settings, error) {
	v := newViper()

	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		file := viper.New()
		file.SetConfigFile(path)
		file.SetConfigType("toml")
		if err := file.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read settings file %s", path)
		}
		if err := v.MergeConfigMap(file.AllSettings()); err != nil {
			return nil, errors.Wrapf(err, "failed to merge settings file %s", path)
		}
	}

	return LoadWithViper(v)
}

// LoadFromFile loads settings from a specific file path on top of the defaults.
func LoadFromFile(path string) (*Settings, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read settings file %s", path)
	}
	return LoadWithViper(v)
}

// LoadWithViper decodes and validates settings from a prepared Viper instance.
func LoadWithViper(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal settings")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// UserPath returns ~/.efmig/efmig.toml.
func UserPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to locate home directory")
	}
	return filepath.Join(home, DirName, FileName), nil
}

// ProjectPath returns efmig.toml in the working directory.
func ProjectPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "failed to get working directory")
	}
	return filepath.Join(wd, FileName), nil
}

// SearchPaths lists settings files in increasing precedence: user, then project.
func SearchPaths() []string {
	var paths []string
	if p, err := UserPath(); err == nil {
		paths = append(paths, p)
	}
	if p, err := ProjectPath(); err == nil {
		paths = append(paths, p)
	}
	return paths
}
