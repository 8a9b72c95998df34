// Package workflow sequences migration tool invocations into the operations
// offered to the user: list, add, update, remove-last and rollback-to-target.
//
// Every operation that depends on current state lists migrations first and
// works from that fresh snapshot. Tool calls are issued strictly one after
// another.
package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/efmig/config"
	"github.com/teranos/efmig/errors"
	"github.com/teranos/efmig/inventory"
	"github.com/teranos/efmig/logger"
	"github.com/teranos/efmig/parse"
	"github.com/teranos/efmig/settings"
)

// Gateway is the subset of tool.Gateway the orchestrator drives.
type Gateway interface {
	List(ctx context.Context, p config.Projects) (parse.Result, error)
	Add(ctx context.Context, p config.Projects, name, outputDir string) (parse.Result, error)
	Update(ctx context.Context, p config.Projects, target string) (parse.Result, error)
	Remove(ctx context.Context, p config.Projects) (parse.Result, error)
}

// Prompter asks the user for input operations cannot proceed without.
type Prompter interface {
	// OutputDir asks where the first migration goes; "" accepts defaultDir
	OutputDir(defaultDir string) (string, error)
	// Confirm asks a yes/no question
	Confirm(message string) (bool, error)
}

// ResolverFunc builds the source-file resolver for a pair of projects.
type ResolverFunc func(p config.Projects) parse.Resolver

// Options tunes an Orchestrator. Zero values fall back to the default settings.
type Options struct {
	Markers          settings.MarkerSettings
	DefaultOutputDir string
	// Resolver locates migration source files; nil searches the data project
	Resolver ResolverFunc
}

// Orchestrator runs the migration workflows.
type Orchestrator struct {
	gateway  Gateway
	prompter Prompter
	opts     Options
	logger   *zap.SugaredLogger

	// one operation at a time, so tool calls never overlap
	mu sync.Mutex
}

// New creates an orchestrator.
func New(gateway Gateway, prompter Prompter, opts Options) *Orchestrator {
	defaults := settings.Defaults()
	if len(opts.Markers.AddDone) == 0 {
		opts.Markers.AddDone = defaults.Markers.AddDone
	}
	if len(opts.Markers.Applied) == 0 {
		opts.Markers.Applied = defaults.Markers.Applied
	}
	if len(opts.Markers.UpToDate) == 0 {
		opts.Markers.UpToDate = defaults.Markers.UpToDate
	}
	if len(opts.Markers.Removed) == 0 {
		opts.Markers.Removed = defaults.Markers.Removed
	}
	if opts.DefaultOutputDir == "" {
		opts.DefaultOutputDir = defaults.Migrations.DefaultOutputDir
	}
	if opts.Resolver == nil {
		opts.Resolver = SourceResolver
	}

	return &Orchestrator{
		gateway:  gateway,
		prompter: prompter,
		opts:     opts,
		logger:   logger.Named("workflow"),
	}
}

// SourceResolver indexes the data project's directory tree.
func SourceResolver(p config.Projects) parse.Resolver {
	root := projectRoot(p.DataProjectPath)
	idx := parse.IndexFiles(root)
	logger.Named("workflow").Debugw("Indexed source files", logger.FieldPath, root, logger.FieldCount, idx.Len())
	return idx.Lookup
}

func projectRoot(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return filepath.Dir(path)
}

// List reports every migration, oldest first.
func (o *Orchestrator) List(ctx context.Context, p config.Projects) Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	log := o.begin("list", p)

	inv, failed := o.snapshot(ctx, p, "list")
	if failed != nil {
		return o.finish(log, *failed)
	}
	if inv.Empty() {
		return o.finish(log, emptyOutcome("list"))
	}
	return o.finish(log, Outcome{
		Operation:  "list",
		Kind:       Success,
		Messages:   []string{fmt.Sprintf("%d migrations: %d applied, %d pending.", inv.Len(), len(inv.Applied()), len(inv.Pending()))},
		Migrations: inv.Ascending(),
	})
}

// Add creates a migration named name.
func (o *Orchestrator) Add(ctx context.Context, p config.Projects, name string) Outcome {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("add", errors.NewValidation("Migration name must not be empty."))
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	log := o.begin("add", p)

	inv, failed := o.snapshot(ctx, p, "add")
	if failed != nil {
		return o.finish(log, *failed)
	}

	outputDir := ""
	if inv.Empty() {
		dir, err := o.prompter.OutputDir(o.opts.DefaultOutputDir)
		if err != nil {
			return o.finish(log, promptFailure("add", err))
		}
		outputDir = strings.TrimSpace(dir)
		if outputDir == "" {
			outputDir = o.opts.DefaultOutputDir
		}
		log.Infow("First migration, using output directory", logger.FieldPath, outputDir)
	}

	res, err := o.gateway.Add(ctx, p, name, outputDir)
	if out, failed := toolFailure("add", res, err); failed {
		return o.finish(log, out)
	}

	if res.ContainsAny(o.opts.Markers.AddDone) {
		return o.finish(log, Outcome{
			Operation: "add",
			Kind:      Success,
			Messages:  []string{fmt.Sprintf("Migration %s added.", name)},
			Lines:     res.Data,
		})
	}
	return o.finish(log, ambiguous("add", res))
}

// Update applies migrations up to target, or all of them when target is empty.
// Targets older than the current state revert the store, keeping the migrations.
func (o *Orchestrator) Update(ctx context.Context, p config.Projects, target string) Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	log := o.begin("update", p)

	inv, failed := o.snapshot(ctx, p, "update")
	if failed != nil {
		return o.finish(log, *failed)
	}
	if inv.Empty() {
		return o.finish(log, emptyOutcome("update"))
	}

	var resolved *parse.Migration
	if strings.TrimSpace(target) != "" {
		m, ok := inv.Resolve(target)
		if !ok {
			return o.finish(log, invalid("update", errors.NewValidation("Migration %q not found.", strings.TrimSpace(target))))
		}
		resolved = &m
		log.Debugw("Resolved target", logger.FieldTarget, m.ID)
	}

	out := o.update(ctx, p, resolved)
	return o.finish(log, out)
}

// update issues the update call and classifies its output.
func (o *Orchestrator) update(ctx context.Context, p config.Projects, target *parse.Migration) Outcome {
	id := ""
	if target != nil {
		id = target.ID
	}

	res, err := o.gateway.Update(ctx, p, id)
	if out, failed := toolFailure("update", res, err); failed {
		out.Target = target
		return out
	}

	out := Outcome{Operation: "update", Target: target, Lines: res.Data}
	switch {
	case res.ContainsAny(o.opts.Markers.UpToDate):
		out.Kind = UpToDate
		out.Messages = []string{"The database is already up to date."}
	case res.ContainsAny(o.opts.Markers.Applied):
		out.Kind = Success
		if target != nil {
			out.Messages = []string{fmt.Sprintf("Database updated to %s.", target.ID)}
		} else {
			out.Messages = []string{"Database updated to the latest migration."}
		}
	default:
		out = ambiguous("update", res)
		out.Target = target
	}
	return out
}

// RemoveLast removes the tool's last migration after confirmation.
// The newest migration in the listing is only shown to the user; the tool
// decides which migration it removes.
func (o *Orchestrator) RemoveLast(ctx context.Context, p config.Projects) Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	log := o.begin("remove", p)

	inv, failed := o.snapshot(ctx, p, "remove")
	if failed != nil {
		return o.finish(log, *failed)
	}
	latest, ok := inv.Latest()
	if !ok {
		return o.finish(log, emptyOutcome("remove"))
	}

	question := fmt.Sprintf("Remove migration %s?", latest.ID)
	if !latest.Pending {
		question = fmt.Sprintf("Remove migration %s? It is applied to the database; the tool refuses unless it is reverted first.", latest.ID)
	}
	confirmed, err := o.prompter.Confirm(question)
	if err != nil {
		return o.finish(log, promptFailure("remove", err))
	}
	if !confirmed {
		return o.finish(log, Outcome{
			Operation:  "remove",
			Kind:       Cancelled,
			Messages:   []string{"Removal cancelled."},
			Migrations: []parse.Migration{latest},
		})
	}

	out := o.remove(ctx, p)
	out.Migrations = []parse.Migration{latest}
	if out.Kind == Success {
		out.Messages = []string{fmt.Sprintf("Migration %s removed.", latest.ID)}
	}
	return o.finish(log, out)
}

func (o *Orchestrator) remove(ctx context.Context, p config.Projects) Outcome {
	res, err := o.gateway.Remove(ctx, p)
	if out, failed := toolFailure("remove", res, err); failed {
		return out
	}
	if res.ContainsAny(o.opts.Markers.Removed) {
		return Outcome{Operation: "remove", Kind: Success, Lines: res.Data}
	}
	return ambiguous("remove", res)
}

// Rollback reverts the store to target and then removes every newer migration,
// newest first. Removals continue past individual failures; each step is
// reported in Outcome.Steps.
func (o *Orchestrator) Rollback(ctx context.Context, p config.Projects, target string) Outcome {
	if strings.TrimSpace(target) == "" {
		return invalid("rollback", errors.NewValidation("Rollback target must not be empty."))
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	log := o.begin("rollback", p)

	// the pre-update snapshot decides what gets removed
	inv, failed := o.snapshot(ctx, p, "rollback")
	if failed != nil {
		return o.finish(log, *failed)
	}
	if inv.Empty() {
		return o.finish(log, emptyOutcome("rollback"))
	}
	m, ok := inv.Resolve(target)
	if !ok {
		return o.finish(log, invalid("rollback", errors.NewValidation("Migration %q not found.", strings.TrimSpace(target))))
	}

	log.Debugw("Resolved target", logger.FieldTarget, m.ID)

	removals := inventory.New(inv.NewerThan(m.Key)).Descending()

	if len(removals) > 0 {
		confirmed, err := o.prompter.Confirm(rollbackQuestion(m, removals))
		if err != nil {
			return o.finish(log, promptFailure("rollback", err))
		}
		if !confirmed {
			return o.finish(log, Outcome{
				Operation:  "rollback",
				Kind:       Cancelled,
				Messages:   []string{"Rollback cancelled."},
				Target:     &m,
				Migrations: removals,
			})
		}
	}

	out := Outcome{Operation: "rollback", Target: &m, Migrations: removals}

	upd := o.update(ctx, p, &m)
	out.Steps = append(out.Steps, Step{Verb: "update", Migration: m, Kind: upd.Kind, Result: stepResult(upd)})
	if upd.Kind == Failure {
		out.Kind = Failure
		out.Err = upd.Err
		out.Messages = append([]string{fmt.Sprintf("Update to %s failed; no migrations were removed.", m.ID)}, upd.Messages...)
		return o.finish(log, out)
	}

	removed := 0
	for _, r := range removals {
		step := o.remove(ctx, p)
		out.Steps = append(out.Steps, Step{Verb: "remove", Migration: r, Kind: step.Kind, Result: stepResult(step)})
		if step.Kind == Success {
			removed++
			continue
		}
		log.Warnw("Removal did not succeed, continuing",
			logger.FieldMigration, r.ID,
			logger.FieldOutcome, step.Kind.String())
		for _, msg := range step.Messages {
			out.Messages = append(out.Messages, fmt.Sprintf("%s: %s", r.ID, msg))
		}
	}

	out.Kind = Success
	if !upd.Kind.OK() || removed != len(removals) {
		out.Kind = Failure
	}
	summary := fmt.Sprintf("Rolled back to %s; removed %d of %d newer migrations.", m.ID, removed, len(removals))
	out.Messages = append([]string{summary}, out.Messages...)
	return o.finish(log, out)
}

func rollbackQuestion(target parse.Migration, removals []parse.Migration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Revert the database to %s and remove %d newer migration(s)?", target.ID, len(removals))
	for _, r := range removals {
		fmt.Fprintf(&b, "\n  - %s", r.ID)
	}
	return b.String()
}

// snapshot lists migrations and builds a fresh inventory.
// A non-nil Outcome means the listing failed.
func (o *Orchestrator) snapshot(ctx context.Context, p config.Projects, op string) (*inventory.Inventory, *Outcome) {
	res, err := o.gateway.List(ctx, p)
	if out, failed := toolFailure(op, res, err); failed {
		return nil, &out
	}
	return inventory.FromListing(res.Data, o.opts.Resolver(p)), nil
}

func (o *Orchestrator) begin(op string, p config.Projects) *zap.SugaredLogger {
	log := o.logger.With(logger.FieldOperationID, uuid.NewString(), logger.FieldOperation, op)
	log.Infow("Operation started",
		logger.FieldStartupProject, p.StartupProjectPath,
		logger.FieldDataProject, p.DataProjectPath)
	return log
}

func (o *Orchestrator) finish(log *zap.SugaredLogger, out Outcome) Outcome {
	log.Infow("Operation finished", logger.FieldOutcome, out.Kind.String(), logger.FieldCount, len(out.Steps))
	return out
}

func toolFailure(op string, res parse.Result, err error) (Outcome, bool) {
	if err == nil && res.Succeeded {
		return Outcome{}, false
	}
	if err == nil {
		err = res.Err()
	}
	messages := res.Errors
	if len(messages) == 0 {
		messages = []string{err.Error()}
	}
	return Outcome{
		Operation: op,
		Kind:      Failure,
		Messages:  messages,
		Lines:     res.Data,
		Err:       err,
	}, true
}

func ambiguous(op string, res parse.Result) Outcome {
	return Outcome{
		Operation: op,
		Kind:      Ambiguous,
		Messages:  []string{"The tool finished without confirming the result; its output follows."},
		Lines:     res.Data,
		Err:       errors.Mark(errors.Newf("%s: no success marker in tool output", op), errors.ErrAmbiguous),
	}
}

func emptyOutcome(op string) Outcome {
	return Outcome{Operation: op, Kind: Empty, Messages: []string{"No migrations found."}}
}

func invalid(op string, err error) Outcome {
	return Outcome{Operation: op, Kind: Invalid, Messages: []string{err.Error()}, Err: err}
}

func promptFailure(op string, err error) Outcome {
	err = errors.Wrap(err, "failed to read answer")
	return Outcome{Operation: op, Kind: Failure, Messages: []string{err.Error()}, Err: err}
}

// stepResult returns the tool output behind an outcome for Step reporting.
func stepResult(out Outcome) parse.Result {
	return parse.Result{
		Succeeded: out.Kind != Failure,
		Errors:    failureMessages(out),
		Data:      out.Lines,
	}
}

func failureMessages(out Outcome) []string {
	if out.Kind != Failure {
		return nil
	}
	return out.Messages
}
