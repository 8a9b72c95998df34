package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/efmig/config"
	"github.com/teranos/efmig/discover"
	"github.com/teranos/efmig/session"
	"github.com/teranos/efmig/watch"
	"github.com/teranos/efmig/workflow"
)

// WatchCmd re-lists migrations whenever the migrations folder changes
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "List migrations again whenever the migrations folder changes",
	Long: `Watch the data project's migrations folder and list migrations after
every change, until interrupted with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var watchDebounce time.Duration

func init() {
	WatchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before listing again")
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	return withOrchestrator(cmd, answers{}, func(o *workflow.Orchestrator, p config.Projects) error {
		dir, err := discover.FindFolder(filepath.Dir(p.DataProjectPath), s.Migrations.FolderName)
		if err != nil {
			return err
		}
		w, err := watch.New(dir, watchDebounce)
		if err != nil {
			return err
		}
		defer w.Close()

		out := cmd.OutOrStdout()
		session.Render(out, o.List(cmd.Context(), p))
		fmt.Fprint(out, pterm.Info.Sprintfln("Watching %s (Ctrl+C to stop)", dir))

		return w.Run(cmd.Context(), func() {
			fmt.Fprintln(out, pterm.Gray(time.Now().Format(time.TimeOnly)+" change detected"))
			session.Render(out, o.List(cmd.Context(), p))
		})
	})
}
