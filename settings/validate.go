package settings

import (
	"strings"

	"github.com/teranos/efmig/errors"
)

// Validate checks that the settings are usable
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Tool.Command) == "" {
		return errors.NewConfiguration("tool.command cannot be empty")
	}

	// 0 = no timeout, negative = invalid
	if s.Tool.TimeoutSeconds < 0 {
		return errors.NewConfiguration("tool.timeout_seconds must be >= 0, got %d", s.Tool.TimeoutSeconds)
	}

	if strings.TrimSpace(s.Migrations.DefaultOutputDir) == "" {
		return errors.NewConfiguration("migrations.default_output_dir cannot be empty")
	}
	if strings.TrimSpace(s.Migrations.FolderName) == "" {
		return errors.NewConfiguration("migrations.folder_name cannot be empty")
	}
	if strings.TrimSpace(s.Migrations.ManifestPattern) == "" {
		return errors.NewConfiguration("migrations.manifest_pattern cannot be empty")
	}

	markers := map[string][]string{
		"markers.add_done":   s.Markers.AddDone,
		"markers.applied":    s.Markers.Applied,
		"markers.up_to_date": s.Markers.UpToDate,
		"markers.removed":    s.Markers.Removed,
	}
	for key, list := range markers {
		if !hasNonBlank(list) {
			return errors.NewConfiguration("%s must list at least one marker", key)
		}
	}

	return nil
}

func hasNonBlank(list []string) bool {
	for _, s := range list {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}
