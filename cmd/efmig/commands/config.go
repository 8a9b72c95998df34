package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// ConfigCmd manages the persisted project configuration
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the project configuration",
	Long: `Show or reset the startup and data projects efmig operates on.

The configuration is created by a first-run scan of the working directory and
validated on every start. A configuration naming a missing project is
discarded and rediscovered.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the project configuration, running setup if needed",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the project configuration and rediscover projects",
	Args:  cobra.NoArgs,
	RunE:  runConfigReset,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print where the project configuration is stored",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configFormat string

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "json", "Output format: json, yaml, toml")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configResetCmd)
	ConfigCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	projects, err := a.projects()
	if err != nil {
		return err
	}
	data, err := marshal(projects, configFormat)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	projects, err := a.setup().Reset()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), pterm.Success.Sprintfln("Saved %s", a.store.Path))
	fmt.Fprintf(cmd.OutOrStdout(), "  startup: %s\n  data:    %s\n", projects.StartupProjectPath, projects.DataProjectPath)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), a.store.Path)
	return nil
}
