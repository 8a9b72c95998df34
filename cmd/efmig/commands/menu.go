package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/efmig/logger"
	"github.com/teranos/efmig/session"
	"github.com/teranos/efmig/tool"
)

// RunMenu runs setup and the interactive menu.
func RunMenu(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	projects, err := a.projects()
	if err != nil {
		return err
	}
	orch, err := a.orchestrator(nil)
	if err != nil {
		return err
	}
	updater, err := a.updater()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if logger.Enabled(logger.OutputConfig) {
		fmt.Fprintf(out, "config:  %s\nstartup: %s\ndata:    %s\n",
			a.store.Path, projects.StartupProjectPath, projects.DataProjectPath)
	}
	if logger.Enabled(logger.OutputToolCalls) {
		gateway, err := a.gateway()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "list:    %s\n", gateway.CommandLine(tool.VerbList, projects))
	}

	s := session.New(a.prompt, out, orch, updater, a.setup(), projects)
	return s.Run(cmd.Context())
}
