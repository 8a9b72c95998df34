package commands

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/efmig/errors"
	"github.com/teranos/efmig/settings"
)

// SettingsCmd manages efmig.toml
var SettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage efmig settings",
	Long: `Inspect or initialise efmig settings.

Settings sources (in order of precedence):
1. Environment variables (EFMIG_* prefix, e.g. EFMIG_TOOL_COMMAND)
2. Project settings (./efmig.toml)
3. User settings (~/.efmig/efmig.toml)
4. Default values

Examples:
  efmig settings show                  # Effective settings as TOML
  efmig settings show --format yaml
  efmig settings where                 # Which files are read
  efmig settings check                 # Report misspelt keys
  efmig settings init --global         # Write ~/.efmig/efmig.toml`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with every default",
	Args:  cobra.NoArgs,
	RunE:  runSettingsInit,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Report unknown keys in settings files",
	Long: `Decode settings files strictly and list keys efmig does not know.

Without an argument every settings file that exists is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsCheck,
}

var settingsWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show which settings files are read",
	Args:  cobra.NoArgs,
	RunE:  runSettingsWhere,
}

var (
	settingsFormat string
	initForce      bool
	initGlobal     bool
)

func init() {
	settingsShowCmd.Flags().StringVar(&settingsFormat, "format", "toml", "Output format: toml, json, yaml")
	settingsInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")
	settingsInitCmd.Flags().BoolVar(&initGlobal, "global", false, "Write ~/.efmig/efmig.toml instead of ./efmig.toml")

	SettingsCmd.AddCommand(settingsShowCmd)
	SettingsCmd.AddCommand(settingsInitCmd)
	SettingsCmd.AddCommand(settingsCheckCmd)
	SettingsCmd.AddCommand(settingsWhereCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	data, err := marshal(s, settingsFormat)
	if err != nil {
		return err
	}
	if settingsFormat == "toml" {
		fmt.Fprintln(cmd.OutOrStdout(), "# efmig settings")
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runSettingsInit(cmd *cobra.Command, args []string) error {
	path, err := settings.ProjectPath()
	if initGlobal {
		path, err = settings.UserPath()
	}
	if err != nil {
		return err
	}
	if err := settings.WriteDefaults(path, initForce); err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), pterm.Success.Sprintfln("Wrote %s", path))
	return nil
}

func runSettingsCheck(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		if path, _ := cmd.Flags().GetString("settings"); path != "" {
			paths = []string{path}
		} else {
			for _, path := range settings.SearchPaths() {
				if _, err := os.Stat(path); err == nil {
					paths = append(paths, path)
				}
			}
		}
	}

	out := cmd.OutOrStdout()
	if len(paths) == 0 {
		fmt.Fprint(out, pterm.Info.Sprintln("No settings files found; defaults apply."))
		return nil
	}

	problems := 0
	for _, path := range paths {
		unknown, err := settings.Check(path)
		if err != nil {
			return err
		}
		if len(unknown) == 0 {
			fmt.Fprint(out, pterm.Success.Sprintfln("%s", path))
			continue
		}
		problems += len(unknown)
		fmt.Fprint(out, pterm.Warning.Sprintfln("%s: %d unknown key(s)", path, len(unknown)))
		for _, key := range unknown {
			fmt.Fprintf(out, "  %s\n", key)
		}
	}
	if problems > 0 {
		return errors.Mark(errors.Newf("%d unknown settings key(s)", problems), ErrReported)
	}
	return nil
}

func runSettingsWhere(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("settings"); path != "" {
		fmt.Fprintf(out, "%s %s (--settings)\n", pterm.Green("✓"), path)
		return nil
	}
	for _, path := range settings.SearchPaths() {
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(out, "%s %s\n", pterm.Green("✓"), path)
		} else {
			fmt.Fprintf(out, "%s %s %s\n", pterm.Gray("✗"), path, pterm.Gray("(not found)"))
		}
	}
	fmt.Fprintf(out, "  environment: %s_*\n", settings.EnvPrefix)
	return nil
}
