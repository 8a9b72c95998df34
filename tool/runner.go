package tool

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/efmig/errors"
	"github.com/teranos/efmig/logger"
)

const waitDelay = 2 * time.Second

// Runner starts a process and waits for it to exit.
type Runner interface {
	// Run returns the combined stdout and stderr and the exit code. A non-zero
	// exit is not an error; err is only set when the process could not be run
	// to completion (missing binary, cancelled context).
	Run(ctx context.Context, name string, args []string) (output string, exitCode int, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Dir is the working directory, empty for the current one
	Dir    string
	Logger *zap.SugaredLogger
}

// NewExecRunner returns a runner logging through the global logger.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Logger: logger.Named("exec")}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args []string) (string, int, error) {
	log := r.Logger
	if log == nil {
		log = logger.Named("exec")
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	// children that outlive a killed tool must not hold the output pipe open
	cmd.WaitDelay = waitDelay

	start := time.Now()
	out, err := cmd.CombinedOutput()
	elapsed := time.Since(start)

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case ctx.Err() != nil:
			log.Warnw("Tool invocation cancelled",
				logger.FieldBinary, name,
				logger.FieldDurationMS, elapsed.Milliseconds(),
				logger.FieldError, ctx.Err())
			return string(out), -1, errors.Wrapf(ctx.Err(), "%s did not finish", name)
		case errors.As(err, &exitErr):
			exitCode = exitErr.ExitCode()
		default:
			return "", -1, errors.WithHintf(
				errors.Wrapf(err, "failed to run %s", name),
				"make sure %s is installed and on PATH", name)
		}
	}

	log.Debugw("Tool invocation finished",
		logger.FieldBinary, name,
		logger.FieldArgs, strings.Join(args, " "),
		logger.FieldExitCode, exitCode,
		logger.FieldDurationMS, elapsed.Milliseconds())

	return string(out), exitCode, nil
}
