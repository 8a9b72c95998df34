// Package settings loads efmig's tool settings: how the migration tool is invoked
// and which marker phrases in its output mean what.
//
// Sources, lowest to highest precedence: built-in defaults, ~/.efmig/efmig.toml,
// ./efmig.toml, EFMIG_* environment variables (e.g. EFMIG_TOOL_COMMAND).
package settings

import "time"

// Settings is the full efmig settings tree
type Settings struct {
	Tool       ToolSettings      `mapstructure:"tool" toml:"tool" json:"tool" yaml:"tool"`
	Migrations MigrationSettings `mapstructure:"migrations" toml:"migrations" json:"migrations" yaml:"migrations"`
	Markers    MarkerSettings    `mapstructure:"markers" toml:"markers" json:"markers" yaml:"markers"`
	Config     ConfigSettings    `mapstructure:"config" toml:"config" json:"config" yaml:"config"`
}

// ToolSettings configures the external migration tool
type ToolSettings struct {
	// shell-style command line, e.g. "dotnet ef"
	Command string `mapstructure:"command" toml:"command" json:"command" yaml:"command"`
	// command that updates the tool itself
	UpdateCommand string `mapstructure:"update_command" toml:"update_command" json:"update_command" yaml:"update_command"`
	// 0 = wait for the tool indefinitely
	TimeoutSeconds int `mapstructure:"timeout_seconds" toml:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"`
}

// Timeout returns the per-invocation timeout, 0 meaning none.
func (t ToolSettings) Timeout() time.Duration {
	if t.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// MigrationSettings configures project layout conventions
type MigrationSettings struct {
	// output dir of the first migration
	DefaultOutputDir string `mapstructure:"default_output_dir" toml:"default_output_dir" json:"default_output_dir" yaml:"default_output_dir"`
	// folder discovery looks for
	FolderName string `mapstructure:"folder_name" toml:"folder_name" json:"folder_name" yaml:"folder_name"`
	// project manifest glob
	ManifestPattern string `mapstructure:"manifest_pattern" toml:"manifest_pattern" json:"manifest_pattern" yaml:"manifest_pattern"`
}

// MarkerSettings lists the phrases the tool prints on specific outcomes.
// The vocabulary differs between tool versions, so it is configuration, not code.
type MarkerSettings struct {
	AddDone  []string `mapstructure:"add_done" toml:"add_done" json:"add_done" yaml:"add_done"`
	Applied  []string `mapstructure:"applied" toml:"applied" json:"applied" yaml:"applied"`
	UpToDate []string `mapstructure:"up_to_date" toml:"up_to_date" json:"up_to_date" yaml:"up_to_date"`
	Removed  []string `mapstructure:"removed" toml:"removed" json:"removed" yaml:"removed"`
}

// ConfigSettings locates the persisted project configuration
type ConfigSettings struct {
	// empty = efmig.json next to the executable
	Path string `mapstructure:"path" toml:"path" json:"path" yaml:"path"`
}

// Settings file constants
const (
	FileName              = "efmig.toml"
	DirName               = ".efmig"
	EnvPrefix             = "EFMIG"
	DefaultDirPermissions = 0o750
)
