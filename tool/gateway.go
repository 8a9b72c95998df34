// Package tool invokes the external migration tool.
//
// Gateway turns the four verbs efmig needs (list, add, update, remove) into
// command lines, runs them one at a time and hands the captured output to
// parse.Parse. Updater updates the tool itself.
package tool

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/teranos/efmig/config"
	"github.com/teranos/efmig/errors"
	"github.com/teranos/efmig/logger"
	"github.com/teranos/efmig/parse"
	"github.com/teranos/efmig/settings"
)

// Verb names one kind of tool invocation.
type Verb string

const (
	VerbList   Verb = "list"
	VerbAdd    Verb = "add"
	VerbUpdate Verb = "update"
	VerbRemove Verb = "remove"
)

// Gateway runs migration tool commands against a pair of projects.
// Invocations are serialized: the tool is never run concurrently.
type Gateway struct {
	runner  Runner
	command []string
	timeout time.Duration
	logger  *zap.SugaredLogger

	mu sync.Mutex
}

// NewGateway builds a gateway from tool settings.
func NewGateway(s settings.ToolSettings, runner Runner) (*Gateway, error) {
	command, err := SplitCommand(s.Command)
	if err != nil {
		return nil, err
	}
	if runner == nil {
		runner = NewExecRunner()
	}
	return &Gateway{
		runner:  runner,
		command: command,
		timeout: s.Timeout(),
		logger:  logger.Named("gateway"),
	}, nil
}

// SplitCommand splits a shell-style command line into argv.
func SplitCommand(line string) ([]string, error) {
	argv, err := shellquote.Split(line)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "invalid tool command %q", line), errors.ErrConfiguration)
	}
	if len(argv) == 0 {
		return nil, errors.NewConfiguration("tool command is empty")
	}
	return argv, nil
}

// Args returns the argument list for a verb, without the tool command itself.
func Args(verb Verb, p config.Projects, operands ...string) []string {
	var args []string
	switch verb {
	case VerbList:
		args = []string{"migrations", "list"}
	case VerbAdd:
		args = []string{"migrations", "add"}
		if len(operands) > 0 {
			args = append(args, operands[0])
		}
		if len(operands) > 1 && operands[1] != "" {
			args = append(args, "--output-dir", operands[1])
		}
	case VerbUpdate:
		args = []string{"database", "update"}
		if len(operands) > 0 && operands[0] != "" {
			args = append(args, operands[0])
		}
	case VerbRemove:
		args = []string{"migrations", "remove"}
	}

	return append(args,
		"--project", p.DataProjectPath,
		"--startup-project", p.StartupProjectPath,
		"--prefix-output",
		"--no-color",
	)
}

// List runs "migrations list".
func (g *Gateway) List(ctx context.Context, p config.Projects) (parse.Result, error) {
	return g.invoke(ctx, VerbList, Args(VerbList, p))
}

// Add runs "migrations add <name>", with --output-dir when outputDir is set.
func (g *Gateway) Add(ctx context.Context, p config.Projects, name, outputDir string) (parse.Result, error) {
	return g.invoke(ctx, VerbAdd, Args(VerbAdd, p, name, outputDir))
}

// Update runs "database update", to the latest migration when target is empty.
func (g *Gateway) Update(ctx context.Context, p config.Projects, target string) (parse.Result, error) {
	return g.invoke(ctx, VerbUpdate, Args(VerbUpdate, p, target))
}

// Remove runs "migrations remove", which drops whatever the tool considers the
// last migration.
func (g *Gateway) Remove(ctx context.Context, p config.Projects) (parse.Result, error) {
	return g.invoke(ctx, VerbRemove, Args(VerbRemove, p))
}

// CommandLine renders the full command line of a verb for display.
func (g *Gateway) CommandLine(verb Verb, p config.Projects, operands ...string) string {
	argv := append(append([]string{}, g.command...), Args(verb, p, operands...)...)
	return shellquote.Join(argv...)
}

func (g *Gateway) invoke(ctx context.Context, verb Verb, args []string) (parse.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	argv := append(append([]string{}, g.command[1:]...), args...)
	g.logger.Debugw("Invoking tool",
		logger.FieldVerb, string(verb),
		logger.FieldBinary, g.command[0],
		logger.FieldArgs, strings.Join(argv, " "))

	out, exitCode, err := g.runner.Run(ctx, g.command[0], argv)
	if err != nil {
		g.logger.Warnw("Tool invocation failed", logger.FieldVerb, string(verb), logger.FieldError, err)
		return parse.Failed(err), errors.MarkTool(err)
	}

	result := parse.Parse(out)
	result.ExitCode = exitCode
	g.logger.Debugw("Tool output parsed",
		logger.FieldVerb, string(verb),
		logger.FieldDataLines, len(result.Data),
		logger.FieldErrorLine, len(result.Errors))
	if logger.Enabled(logger.OutputRawToolOutput) {
		g.logger.Debugw("Raw tool output", logger.FieldVerb, string(verb), logger.FieldRaw, out)
	}

	if !result.Succeeded {
		g.logger.Infow("Tool reported errors",
			logger.FieldVerb, string(verb),
			logger.FieldExitCode, exitCode,
			logger.FieldErrorLine, len(result.Errors))
	} else if exitCode != 0 {
		// text markers decide; a bare non-zero exit is only worth a warning
		g.logger.Warnw("Tool exited non-zero without error lines",
			logger.FieldVerb, string(verb),
			logger.FieldExitCode, exitCode)
	}

	return result, nil
}
