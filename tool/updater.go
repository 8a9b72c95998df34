package tool

import (
	"context"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/efmig/errors"
	"github.com/teranos/efmig/logger"
	"github.com/teranos/efmig/settings"
)

var versionPattern = regexp.MustCompile(`\b\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?\b`)

// UpdateReport describes one tool update run.
type UpdateReport struct {
	// Before is nil when the tool was not installed or its version unreadable
	Before *semver.Version
	After  *semver.Version
	Output string
}

// Changed reports whether the installed version moved.
func (r UpdateReport) Changed() bool {
	switch {
	case r.After == nil:
		return false
	case r.Before == nil:
		return true
	default:
		return !r.Before.Equal(r.After)
	}
}

// Updater updates the migration tool and reports the version change.
type Updater struct {
	runner        Runner
	command       []string
	updateCommand []string
}

// NewUpdater builds an updater from tool settings.
func NewUpdater(s settings.ToolSettings, runner Runner) (*Updater, error) {
	command, err := SplitCommand(s.Command)
	if err != nil {
		return nil, err
	}
	update, err := SplitCommand(s.UpdateCommand)
	if err != nil {
		return nil, errors.Wrap(err, "tool.update_command")
	}
	if runner == nil {
		runner = NewExecRunner()
	}
	return &Updater{runner: runner, command: command, updateCommand: update}, nil
}

// Version asks the tool for its version.
func (u *Updater) Version(ctx context.Context) (*semver.Version, error) {
	args := append(append([]string{}, u.command[1:]...), "--version")
	out, exitCode, err := u.runner.Run(ctx, u.command[0], args)
	if err != nil {
		return nil, err
	}
	if exitCode != 0 {
		return nil, errors.Newf("%s --version exited with status %d", u.command[0], exitCode)
	}
	return ParseVersion(out)
}

// Update runs the update command and compares versions before and after.
func (u *Updater) Update(ctx context.Context) (UpdateReport, error) {
	log := logger.Named("updater")
	var report UpdateReport

	before, err := u.Version(ctx)
	if err != nil {
		log.Infow("Could not read tool version before update", logger.FieldError, err)
	}
	report.Before = before

	out, exitCode, err := u.runner.Run(ctx, u.updateCommand[0], u.updateCommand[1:])
	report.Output = out
	if err != nil {
		return report, err
	}
	if exitCode != 0 {
		return report, errors.MarkTool(errors.WithDetail(
			errors.Newf("tool update exited with status %d", exitCode),
			strings.TrimSpace(out)))
	}

	after, err := u.Version(ctx)
	if err != nil {
		return report, errors.Wrap(err, "tool version after update")
	}
	report.After = after
	return report, nil
}

// ParseVersion extracts the last semantic version printed in out.
// Tools often print a banner line before the version.
func ParseVersion(out string) (*semver.Version, error) {
	matches := versionPattern.FindAllString(out, -1)
	if len(matches) == 0 {
		return nil, errors.Newf("no version found in %q", strings.TrimSpace(out))
	}
	v, err := semver.NewVersion(matches[len(matches)-1])
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse tool version")
	}
	return v, nil
}
