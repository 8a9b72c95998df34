package commands

import (
	"encoding/json"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/efmig/errors"
)

// marshal encodes v as toml, json or yaml.
func marshal(v interface{}, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal to JSON")
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal to YAML")
		}
		return data, nil
	case "toml":
		data, err := toml.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal to TOML")
		}
		return data, nil
	default:
		return nil, errors.WithHint(
			errors.NewValidation("unsupported format: %s", format),
			"supported formats: toml, json, yaml")
	}
}
