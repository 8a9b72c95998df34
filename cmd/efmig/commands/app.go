package commands

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/efmig/config"
	"github.com/teranos/efmig/discover"
	"github.com/teranos/efmig/errors"
	"github.com/teranos/efmig/session"
	"github.com/teranos/efmig/settings"
	"github.com/teranos/efmig/tool"
	"github.com/teranos/efmig/workflow"
)

// ErrReported marks a failure already rendered to the user.
var ErrReported = errors.New("operation failed")

// app wires settings, the project configuration and the tool for one command.
type app struct {
	settings    *settings.Settings
	store       *config.Store
	prompt      *session.Prompt
	interactive bool
}

func newApp(cmd *cobra.Command) (*app, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = s.Config.Path
	}
	store, err := config.NewStore(path)
	if err != nil {
		return nil, err
	}

	interactive := session.Interactive(os.Stdout)
	if !interactive {
		pterm.DisableColor()
	}

	return &app{
		settings:    s,
		store:       store,
		prompt:      session.NewPrompt(cmd.InOrStdin(), cmd.OutOrStdout()),
		interactive: interactive,
	}, nil
}

func loadSettings(cmd *cobra.Command) (*settings.Settings, error) {
	if path, _ := cmd.Flags().GetString("settings"); path != "" {
		return settings.LoadFromFile(path)
	}
	return settings.Load()
}

func (a *app) setup() *session.Setup {
	return &session.Setup{
		Store:   a.store,
		Root:    ".",
		Scan:    discover.OptionsFrom(a.settings.Migrations),
		Chooser: a.prompt,
	}
}

// projects runs setup; its failures end the process with status 1.
func (a *app) projects() (config.Projects, error) {
	return a.setup().Run()
}

func (a *app) gateway() (*tool.Gateway, error) {
	return tool.NewGateway(a.settings.Tool, nil)
}

func (a *app) orchestrator(prompter workflow.Prompter) (*workflow.Orchestrator, error) {
	gateway, err := a.gateway()
	if err != nil {
		return nil, err
	}
	if prompter == nil {
		prompter = a.prompt
	}
	return workflow.New(session.WithSpinner(gateway, a.interactive), prompter, workflow.Options{
		Markers:          a.settings.Markers,
		DefaultOutputDir: a.settings.Migrations.DefaultOutputDir,
	}), nil
}

func (a *app) updater() (*tool.Updater, error) {
	return tool.NewUpdater(a.settings.Tool, nil)
}

// answers pre-fills prompts from command-line flags.
type answers struct {
	workflow.Prompter
	yes       bool
	outputDir string
}

func (a answers) Confirm(message string) (bool, error) {
	if a.yes {
		return true, nil
	}
	return a.Prompter.Confirm(message)
}

func (a answers) OutputDir(defaultDir string) (string, error) {
	if a.outputDir != "" {
		return a.outputDir, nil
	}
	return a.Prompter.OutputDir(defaultDir)
}

// report renders an outcome and turns unsuccessful kinds into ErrReported.
// Empty and cancelled outcomes are not failures.
func report(cmd *cobra.Command, out workflow.Outcome) error {
	session.Render(cmd.OutOrStdout(), out)
	switch out.Kind {
	case workflow.Success, workflow.UpToDate, workflow.Empty, workflow.Cancelled:
		return nil
	default:
		return errors.Mark(errors.Newf("%s: %s", out.Operation, out.Kind), ErrReported)
	}
}
