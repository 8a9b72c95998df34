// Package session runs the interactive menu: it reads a selection, dispatches
// it to the workflow orchestrator and renders the outcome, until the user exits.
//
// Operation failures are reported and the menu shown again. Only setup
// failures end the session with an error.
package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/teranos/efmig/config"
	"github.com/teranos/efmig/errors"
	"github.com/teranos/efmig/logger"
	"github.com/teranos/efmig/parse"
	"github.com/teranos/efmig/tool"
	"github.com/teranos/efmig/workflow"
)

// Orchestrator is the workflow surface the menu drives.
type Orchestrator interface {
	List(ctx context.Context, p config.Projects) workflow.Outcome
	Add(ctx context.Context, p config.Projects, name string) workflow.Outcome
	Update(ctx context.Context, p config.Projects, target string) workflow.Outcome
	RemoveLast(ctx context.Context, p config.Projects) workflow.Outcome
	Rollback(ctx context.Context, p config.Projects, target string) workflow.Outcome
}

// Updater updates the external tool.
type Updater interface {
	Update(ctx context.Context) (tool.UpdateReport, error)
}

// Resetter discards the persisted configuration and rediscovers projects.
type Resetter interface {
	Reset() (config.Projects, error)
}

// Menu selections
const (
	SelectList   = "1"
	SelectAdd    = "2"
	SelectUpdate = "3"
	SelectRemove = "4"
	SelectTool   = "8"
	SelectReset  = "9"
	SelectExit   = "0"
)

const (
	// latestChoice selects the newest migration as update target
	latestChoice  = 0
	menuSeparator = "----------------------------------------"
)

var menu = []struct {
	key, label string
}{
	{SelectList, "List migrations"},
	{SelectAdd, "Add migration"},
	{SelectUpdate, "Update database"},
	{SelectRemove, "Remove last migration"},
	{SelectTool, "Update migration tool"},
	{SelectReset, "Reset project configuration"},
	{SelectExit, "Exit"},
}

// Session is one interactive run.
type Session struct {
	prompt   *Prompt
	out      io.Writer
	orch     Orchestrator
	updater  Updater
	resetter Resetter
	projects config.Projects
	logger   *zap.SugaredLogger
}

// New creates a session operating on projects.
func New(prompt *Prompt, out io.Writer, orch Orchestrator, updater Updater, resetter Resetter, projects config.Projects) *Session {
	return &Session{
		prompt:   prompt,
		out:      out,
		orch:     orch,
		updater:  updater,
		resetter: resetter,
		projects: projects,
		logger:   logger.Named("session"),
	}
}

// Projects returns the projects the session currently operates on.
func (s *Session) Projects() config.Projects {
	return s.projects
}

// Interactive reports whether f is a terminal. Colors and spinners are for
// terminals only.
func Interactive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		s.renderMenu()

		line, err := s.prompt.Line("Select")
		if err == io.EOF {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to read selection")
		}

		choice := strings.TrimSpace(line)
		s.logger.Debugw("Menu selection", logger.FieldOperation, choice)

		switch choice {
		case SelectList:
			Render(s.out, s.orch.List(ctx, s.projects))
		case SelectAdd:
			s.add(ctx)
		case SelectUpdate:
			s.update(ctx)
		case SelectRemove:
			Render(s.out, s.orch.RemoveLast(ctx, s.projects))
		case SelectTool:
			s.updateTool(ctx)
		case SelectReset:
			if err := s.reset(); err != nil {
				return err
			}
		case SelectExit:
			return nil
		default:
			RenderError(s.out, errors.NewValidation("Invalid selection %q.", choice))
		}
	}
}

func (s *Session) renderMenu() {
	fmt.Fprintln(s.out, pterm.Gray(menuSeparator))
	for _, item := range menu {
		fmt.Fprintf(s.out, "  %s  %s\n", pterm.Yellow(item.key), item.label)
	}
}

func (s *Session) add(ctx context.Context) {
	name, err := s.prompt.Line("Migration name")
	if err != nil {
		RenderError(s.out, errors.Wrap(err, "failed to read migration name"))
		return
	}
	Render(s.out, s.orch.Add(ctx, s.projects, name))
}

// update lists migrations, asks for a target by number and applies it. A
// target with newer migrations may instead be rolled back to.
func (s *Session) update(ctx context.Context) {
	listing := s.orch.List(ctx, s.projects)
	if listing.Kind != workflow.Success {
		Render(s.out, listing)
		return
	}
	migrations := listing.Migrations
	RenderMigrations(s.out, migrations)

	answer, err := s.prompt.Line(fmt.Sprintf("Target (%d = latest, 1-%d)", latestChoice, len(migrations)))
	if err != nil {
		RenderError(s.out, errors.Wrap(err, "failed to read target"))
		return
	}
	target, err := selectTarget(strings.TrimSpace(answer), migrations)
	if err != nil {
		RenderError(s.out, err)
		return
	}
	if target == nil {
		Render(s.out, s.orch.Update(ctx, s.projects, ""))
		return
	}

	if newer := countNewer(*target, migrations); newer > 0 {
		rollback, err := s.prompt.Confirm(fmt.Sprintf("Also remove the %d migration(s) newer than %s?", newer, target.ID))
		if err != nil {
			RenderError(s.out, errors.Wrap(err, "failed to read answer"))
			return
		}
		if rollback {
			Render(s.out, s.orch.Rollback(ctx, s.projects, target.ID))
			return
		}
	}
	Render(s.out, s.orch.Update(ctx, s.projects, target.ID))
}

// selectTarget maps a numeric answer to a migration; nil means latest.
func selectTarget(answer string, migrations []parse.Migration) (*parse.Migration, error) {
	n, err := strconv.Atoi(answer)
	if err != nil {
		return nil, errors.NewValidation("%q is not a number.", answer)
	}
	if n == latestChoice {
		return nil, nil
	}
	if n < 1 || n > len(migrations) {
		return nil, errors.NewValidation("%d is out of range (0-%d).", n, len(migrations))
	}
	m := migrations[n-1]
	return &m, nil
}

func countNewer(target parse.Migration, migrations []parse.Migration) int {
	n := 0
	for _, m := range migrations {
		if m.Key > target.Key {
			n++
		}
	}
	return n
}

func (s *Session) updateTool(ctx context.Context) {
	if s.updater == nil {
		RenderError(s.out, errors.New("tool updates are not configured"))
		return
	}
	report, err := s.updater.Update(ctx)
	if err != nil {
		RenderError(s.out, err)
		if report.Output != "" {
			fmt.Fprintln(s.out, strings.TrimRight(report.Output, "\n"))
		}
		return
	}
	RenderUpdate(s.out, report)
}

func (s *Session) reset() error {
	if s.resetter == nil {
		RenderError(s.out, errors.New("configuration reset is not available"))
		return nil
	}
	projects, err := s.resetter.Reset()
	if err != nil {
		return err
	}
	s.projects = projects
	fmt.Fprint(s.out, pterm.Success.Sprintfln("Using startup project %s and data project %s",
		projects.StartupProjectPath, projects.DataProjectPath))
	return nil
}
