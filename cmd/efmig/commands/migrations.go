package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/efmig/config"
	"github.com/teranos/efmig/errors"
	"github.com/teranos/efmig/parse"
	"github.com/teranos/efmig/workflow"
)

// ListCmd lists migrations
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List migrations, oldest first",
	Long: `List every migration known to the tool with its status.

Pending migrations exist in the project but are not applied to the database.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// AddCmd adds a migration
var AddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a migration",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

// UpdateCmd updates the database
var UpdateCmd = &cobra.Command{
	Use:   "update [target]",
	Short: "Update the database to the latest or a target migration",
	Long: `Apply migrations up to target, or all when no target is given.

A target older than the current database state reverts newer migrations in the
database but keeps them in the project. Use rollback to remove them as well.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdate,
}

// RemoveCmd removes the last migration
var RemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the last migration",
	Args:  cobra.NoArgs,
	RunE:  runRemove,
}

// RollbackCmd reverts to a target and removes newer migrations
var RollbackCmd = &cobra.Command{
	Use:   "rollback <target>",
	Short: "Revert the database to target and remove every newer migration",
	Long: `Revert the database to target, then remove each newer migration, newest first.

Removal continues past individual failures and reports every step. Nothing is
removed when reverting the database fails.

Examples:
  efmig rollback 20240101120000_Init
  efmig rollback 20240101120000_init --yes   # no confirmation`,
	Args: cobra.ExactArgs(1),
	RunE: runRollback,
}

var (
	listJSON     bool
	addOutputDir string
	assumeYes    bool
)

func init() {
	ListCmd.Flags().BoolVar(&listJSON, "json", false, "Output migrations as JSON")
	AddCmd.Flags().StringVarP(&addOutputDir, "output-dir", "o", "", "Output directory, used for the first migration only")
	RemoveCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	RollbackCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

// withOrchestrator runs setup, builds an orchestrator and hands both to op.
func withOrchestrator(cmd *cobra.Command, prompts answers, op func(o *workflow.Orchestrator, p config.Projects) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	projects, err := a.projects()
	if err != nil {
		return err
	}
	prompts.Prompter = a.prompt
	orch, err := a.orchestrator(prompts)
	if err != nil {
		return err
	}
	return op(orch, projects)
}

func runList(cmd *cobra.Command, args []string) error {
	return withOrchestrator(cmd, answers{}, func(o *workflow.Orchestrator, p config.Projects) error {
		out := o.List(cmd.Context(), p)
		if !listJSON || (out.Kind != workflow.Success && out.Kind != workflow.Empty) {
			return report(cmd, out)
		}

		migrations := out.Migrations
		if migrations == nil {
			migrations = []parse.Migration{}
		}
		data, err := json.MarshalIndent(migrations, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode migrations")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	})
}

func runAdd(cmd *cobra.Command, args []string) error {
	return withOrchestrator(cmd, answers{outputDir: addOutputDir}, func(o *workflow.Orchestrator, p config.Projects) error {
		return report(cmd, o.Add(cmd.Context(), p, args[0]))
	})
}

func runUpdate(cmd *cobra.Command, args []string) error {
	target := ""
	if len(args) == 1 {
		target = args[0]
	}
	return withOrchestrator(cmd, answers{}, func(o *workflow.Orchestrator, p config.Projects) error {
		return report(cmd, o.Update(cmd.Context(), p, target))
	})
}

func runRemove(cmd *cobra.Command, args []string) error {
	return withOrchestrator(cmd, answers{yes: assumeYes}, func(o *workflow.Orchestrator, p config.Projects) error {
		return report(cmd, o.RemoveLast(cmd.Context(), p))
	})
}

func runRollback(cmd *cobra.Command, args []string) error {
	return withOrchestrator(cmd, answers{yes: assumeYes}, func(o *workflow.Orchestrator, p config.Projects) error {
		return report(cmd, o.Rollback(cmd.Context(), p, args[0]))
	})
}
