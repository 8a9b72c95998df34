package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/efmig/session"
	"github.com/teranos/efmig/settings"
	"github.com/teranos/efmig/tool"
)

// ToolCmd manages the external migration tool
var ToolCmd = &cobra.Command{
	Use:   "tool",
	Short: "Inspect or update the migration tool",
}

var toolUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the migration tool and report the version change",
	Args:  cobra.NoArgs,
	RunE:  runToolUpdate,
}

var toolVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the installed migration tool version",
	Args:  cobra.NoArgs,
	RunE:  runToolVersion,
}

func init() {
	ToolCmd.AddCommand(toolUpdateCmd)
	ToolCmd.AddCommand(toolVersionCmd)
}

func newUpdater(cmd *cobra.Command) (*tool.Updater, *settings.Settings, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, nil, err
	}
	u, err := tool.NewUpdater(s.Tool, nil)
	return u, s, err
}

func runToolUpdate(cmd *cobra.Command, args []string) error {
	u, _, err := newUpdater(cmd)
	if err != nil {
		return err
	}
	report, err := u.Update(cmd.Context())
	if err != nil {
		return err
	}
	session.RenderUpdate(cmd.OutOrStdout(), report)
	return nil
}

func runToolVersion(cmd *cobra.Command, args []string) error {
	u, s, err := newUpdater(cmd)
	if err != nil {
		return err
	}
	v, err := u.Version(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", s.Tool.Command, v)
	return nil
}
