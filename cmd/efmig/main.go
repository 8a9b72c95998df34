package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/efmig/cmd/efmig/commands"
	"github.com/teranos/efmig/errors"
	"github.com/teranos/efmig/logger"
	"github.com/teranos/efmig/session"
)

var rootCmd = &cobra.Command{
	Use:   "efmig",
	Short: "efmig - Entity Framework migration console",
	Long: `efmig - Manage Entity Framework Core migrations from an interactive menu.

Run without arguments to open the menu. On first run efmig scans the working
directory for the project owning the Migrations folder and the startup
project, and remembers them in efmig.json next to the executable.

Menu:
  1  List migrations
  2  Add migration
  3  Update database (to latest, or to a chosen migration)
  4  Remove last migration
  8  Update the dotnet-ef tool
  9  Reset project configuration
  0  Exit

Examples:
  efmig                          # Open the menu
  efmig list                     # List migrations
  efmig add AddOrders            # Add a migration
  efmig rollback 20240101_Init   # Revert and remove newer migrations
  efmig settings init            # Write ./efmig.toml with defaults`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLog, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(verbosity, jsonLog); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		logger.Logger.Debugw("Logger initialized", "verbosity", logger.LevelName(verbosity), "command", cmd.CommandPath())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
	RunE: commands.RunMenu,
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().String("config", "", "Project configuration file (default: efmig.json next to the executable)")
	rootCmd.PersistentFlags().String("settings", "", "Settings file (default: ~/.efmig/efmig.toml and ./efmig.toml)")

	rootCmd.AddCommand(commands.ListCmd)
	rootCmd.AddCommand(commands.AddCmd)
	rootCmd.AddCommand(commands.UpdateCmd)
	rootCmd.AddCommand(commands.RemoveCmd)
	rootCmd.AddCommand(commands.RollbackCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.SettingsCmd)
	rootCmd.AddCommand(commands.ToolCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, commands.ErrReported) {
			session.RenderError(os.Stderr, err)
		}
		os.Exit(1)
	}
}
