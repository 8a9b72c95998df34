package settings

import (
	"github.com/spf13/viper"
)

// Default values, also written by WriteDefaults
const (
	DefaultToolCommand       = "dotnet ef"
	DefaultToolUpdateCommand = "dotnet tool update --global dotnet-ef"
	DefaultOutputDir         = "Migrations"
	DefaultFolderName        = "Migrations"
	DefaultManifestPattern   = "*.csproj"
)

// SetDefaults configures default values for all settings
func SetDefaults(v *viper.Viper) {
	// Tool invocation
	v.SetDefault("tool.command", DefaultToolCommand)
	v.SetDefault("tool.update_command", DefaultToolUpdateCommand)
	v.SetDefault("tool.timeout_seconds", 0) // unbounded, like a plain terminal run

	// Project layout
	v.SetDefault("migrations.default_output_dir", DefaultOutputDir)
	v.SetDefault("migrations.folder_name", DefaultFolderName)
	v.SetDefault("migrations.manifest_pattern", DefaultManifestPattern)

	// Output markers
	v.SetDefault("markers.add_done", []string{"Done."})
	v.SetDefault("markers.applied", []string{"Applying migration", "Reverting migration"})
	v.SetDefault("markers.up_to_date", []string{"No migrations were applied"})
	v.SetDefault("markers.removed", []string{"Removing migration", "Done."})

	v.SetDefault("config.path", "")
}

// Defaults returns the settings with nothing but defaults applied.
func Defaults() *Settings {
	v := viper.New()
	SetDefaults(v)
	s, err := LoadWithViper(v)
	if err != nil {
		// defaults always decode
		panic(err)
	}
	return s
}
