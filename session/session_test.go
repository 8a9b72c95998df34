package session

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/efmig/config"
	"github.com/teranos/efmig/errors"
	"github.com/teranos/efmig/parse"
	"github.com/teranos/efmig/tool"
	"github.com/teranos/efmig/workflow"
)

func TestMain(m *testing.M) {
	pterm.DisableColor()
	os.Exit(m.Run())
}

type orchCall struct {
	op, arg string
}

type fakeOrchestrator struct {
	calls   []orchCall
	listing workflow.Outcome
}

func (f *fakeOrchestrator) List(ctx context.Context, p config.Projects) workflow.Outcome {
	f.calls = append(f.calls, orchCall{"list", ""})
	return f.listing
}

func (f *fakeOrchestrator) Add(ctx context.Context, p config.Projects, name string) workflow.Outcome {
	f.calls = append(f.calls, orchCall{"add", name})
	return workflow.Outcome{Operation: "add", Kind: workflow.Success, Messages: []string{"Migration " + name + " added."}}
}

func (f *fakeOrchestrator) Update(ctx context.Context, p config.Projects, target string) workflow.Outcome {
	f.calls = append(f.calls, orchCall{"update", target})
	return workflow.Outcome{Operation: "update", Kind: workflow.UpToDate, Messages: []string{"The database is already up to date."}}
}

func (f *fakeOrchestrator) RemoveLast(ctx context.Context, p config.Projects) workflow.Outcome {
	f.calls = append(f.calls, orchCall{"remove", ""})
	return workflow.Outcome{Operation: "remove", Kind: workflow.Failure, Messages: []string{"Build failed."}}
}

func (f *fakeOrchestrator) Rollback(ctx context.Context, p config.Projects, target string) workflow.Outcome {
	f.calls = append(f.calls, orchCall{"rollback", target})
	return workflow.Outcome{Operation: "rollback", Kind: workflow.Success, Messages: []string{"Rolled back."}}
}

type fakeUpdater struct {
	report tool.UpdateReport
	err    error
}

func (u *fakeUpdater) Update(ctx context.Context) (tool.UpdateReport, error) {
	return u.report, u.err
}

type fakeResetter struct {
	calls    int
	projects config.Projects
	err      error
}

func (r *fakeResetter) Reset() (config.Projects, error) {
	r.calls++
	return r.projects, r.err
}

var projects = config.Projects{StartupProjectPath: "/src/Api/Api.csproj", DataProjectPath: "/src/Data/Data.csproj"}

func threeMigrations() workflow.Outcome {
	return workflow.Outcome{
		Operation: "list",
		Kind:      workflow.Success,
		Migrations: []parse.Migration{
			{ID: "20240101000000_A", Key: "20240101000000", Name: "A"},
			{ID: "20240102000000_B", Key: "20240102000000", Name: "B"},
			{ID: "20240103000000_C", Key: "20240103000000", Name: "C", Pending: true},
		},
	}
}

func run(t *testing.T, input string, orch Orchestrator, updater Updater, resetter Resetter) (string, error) {
	t.Helper()
	var out bytes.Buffer
	s := New(NewPrompt(strings.NewReader(input), &out), &out, orch, updater, resetter, projects)
	err := s.Run(context.Background())
	return out.String(), err
}

func TestRunExit(t *testing.T) {
	orch := &fakeOrchestrator{}
	out, err := run(t, "0\n", orch, nil, nil)

	require.NoError(t, err)
	assert.Contains(t, out, "List migrations")
	assert.Contains(t, out, "Reset project configuration")
	assert.Empty(t, orch.calls)
}

func TestRunEndsOnEOF(t *testing.T) {
	_, err := run(t, "", &fakeOrchestrator{}, nil, nil)
	assert.NoError(t, err)
}

func TestRunInvalidSelectionRePrompts(t *testing.T) {
	orch := &fakeOrchestrator{listing: threeMigrations()}
	out, err := run(t, "7\nabc\n1\n0\n", orch, nil, nil)

	require.NoError(t, err)
	assert.Contains(t, out, `Invalid selection "7".`)
	assert.Contains(t, out, `Invalid selection "abc".`)
	assert.Equal(t, []orchCall{{"list", ""}}, orch.calls)
	assert.Contains(t, out, "20240103000000_C")
	assert.Contains(t, out, "pending")
}

func TestRunContinuesAfterFailure(t *testing.T) {
	orch := &fakeOrchestrator{}
	out, err := run(t, "4\n2\nAddOrders\n0\n", orch, nil, nil)

	require.NoError(t, err)
	assert.Contains(t, out, "Build failed.")
	assert.Contains(t, out, "Migration AddOrders added.")
	assert.Equal(t, []orchCall{{"remove", ""}, {"add", "AddOrders"}}, orch.calls)
}

func TestUpdateSelection(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []orchCall
		text  string
	}{
		{"latest", "3\n0\n0\n", []orchCall{{"list", ""}, {"update", ""}}, "already up to date"},
		{"newest by number", "3\n3\n0\n", []orchCall{{"list", ""}, {"update", "20240103000000_C"}}, "already up to date"},
		{"older without rollback", "3\n1\nn\n0\n", []orchCall{{"list", ""}, {"update", "20240101000000_A"}}, "2 migration(s) newer"},
		{"older with rollback", "3\n1\ny\n0\n", []orchCall{{"list", ""}, {"rollback", "20240101000000_A"}}, "Rolled back."},
		{"out of range", "3\n9\n0\n", []orchCall{{"list", ""}}, "9 is out of range (0-3)."},
		{"not a number", "3\nlatest\n0\n", []orchCall{{"list", ""}}, `"latest" is not a number.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orch := &fakeOrchestrator{listing: threeMigrations()}
			out, err := run(t, tt.input, orch, nil, nil)

			require.NoError(t, err)
			assert.Equal(t, tt.want, orch.calls)
			assert.Contains(t, out, tt.text)
		})
	}
}

func TestUpdateOnEmptyListing(t *testing.T) {
	orch := &fakeOrchestrator{listing: workflow.Outcome{Operation: "list", Kind: workflow.Empty, Messages: []string{"No migrations found."}}}
	out, err := run(t, "3\n0\n", orch, nil, nil)

	require.NoError(t, err)
	assert.Contains(t, out, "No migrations found.")
	assert.Equal(t, []orchCall{{"list", ""}}, orch.calls)
}

func TestUpdateTool(t *testing.T) {
	before := semver.MustParse("8.0.1")
	after := semver.MustParse("9.0.0")

	out, err := run(t, "8\n0\n", &fakeOrchestrator{}, &fakeUpdater{report: tool.UpdateReport{Before: before, After: after}}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Tool updated 8.0.1 → 9.0.0")

	out, err = run(t, "8\n0\n", &fakeOrchestrator{}, &fakeUpdater{report: tool.UpdateReport{Before: after, After: after}}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Tool already at 9.0.0")

	failing := &fakeUpdater{err: errors.WithHint(errors.New("update failed"), "check your network")}
	out, err = run(t, "8\n0\n", &fakeOrchestrator{}, failing, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "update failed")
	assert.Contains(t, out, "check your network")
}

func TestReset(t *testing.T) {
	resetter := &fakeResetter{projects: config.Projects{StartupProjectPath: "/new/Web.csproj", DataProjectPath: "/new/Db.csproj"}}
	var out bytes.Buffer
	s := New(NewPrompt(strings.NewReader("9\n0\n"), &out), &out, &fakeOrchestrator{}, nil, resetter, projects)

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 1, resetter.calls)
	assert.Equal(t, "/new/Db.csproj", s.Projects().DataProjectPath)
	assert.Contains(t, out.String(), "/new/Web.csproj")
}

func TestResetFailureEndsSession(t *testing.T) {
	resetter := &fakeResetter{err: errors.NewSetup("no Migrations folder found")}
	_, err := run(t, "9\n0\n", &fakeOrchestrator{}, nil, resetter)

	require.Error(t, err)
	assert.True(t, errors.IsSetup(err))
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	orch := &fakeOrchestrator{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	s := New(NewPrompt(strings.NewReader("1\n"), &out), &out, orch, nil, nil, projects)
	require.NoError(t, s.Run(ctx))
	assert.Empty(t, orch.calls)
}

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompt(strings.NewReader("yes\nN\n\n  Data/Migrations \nlast"), &out)

	ok, err := p.Confirm("Remove?")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Confirm("Remove?")
	require.NoError(t, err)
	assert.False(t, ok)

	dir, err := p.OutputDir("Migrations")
	require.NoError(t, err)
	assert.Equal(t, "", dir)

	dir, err = p.OutputDir("Migrations")
	require.NoError(t, err)
	assert.Equal(t, "Data/Migrations", dir)

	line, err := p.Line("")
	require.NoError(t, err)
	assert.Equal(t, "last", line, "final line without newline")

	_, err = p.Line("")
	assert.Error(t, err)
	assert.Contains(t, out.String(), "[Migrations]")
}

func TestPromptChoose(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompt(strings.NewReader("5\nx\n2\n"), &out)

	i, err := p.Choose("Select the startup project:", []string{"Api/Api.csproj", "Worker/Worker.csproj"})
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Contains(t, out.String(), "Worker/Worker.csproj")
	assert.Contains(t, out.String(), `"5" is not between 1 and 2`)
}

func TestRenderRollbackSteps(t *testing.T) {
	var out bytes.Buffer
	Render(&out, workflow.Outcome{
		Operation: "rollback",
		Kind:      workflow.Failure,
		Messages:  []string{"Rolled back to A; removed 1 of 2 newer migrations."},
		Steps: []workflow.Step{
			{Verb: "update", Migration: parse.Migration{ID: "A"}, Kind: workflow.Success},
			{Verb: "remove", Migration: parse.Migration{ID: "C"}, Kind: workflow.Failure},
			{Verb: "remove", Migration: parse.Migration{ID: "B"}, Kind: workflow.Success},
		},
		Err: errors.WithHint(errors.New("remove failed"), "close the IDE"),
	})

	text := out.String()
	assert.Contains(t, text, "removed 1 of 2")
	assert.Contains(t, text, "✗ remove C failure")
	assert.Contains(t, text, "✓ remove B success")
	assert.Contains(t, text, "close the IDE")
}

func TestRenderAmbiguousShowsLines(t *testing.T) {
	var out bytes.Buffer
	Render(&out, workflow.Outcome{
		Operation: "update",
		Kind:      workflow.Ambiguous,
		Messages:  []string{"The tool finished without confirming the result; its output follows."},
		Lines:     []string{"Something odd happened"},
	})
	assert.Contains(t, out.String(), "Something odd happened")
}

type scriptedChooser struct {
	pick  int
	asked []string
}

func (c *scriptedChooser) Choose(title string, options []string) (int, error) {
	c.asked = options
	return c.pick, nil
}

func writeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if strings.HasSuffix(p, "/") {
			require.NoError(t, os.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("<Project />"), 0o644))
	}
}

func newSetup(t *testing.T, root string, chooser Chooser) *Setup {
	t.Helper()
	store, err := config.NewStore(filepath.Join(t.TempDir(), config.FileName))
	require.NoError(t, err)
	return &Setup{Store: store, Root: root, Chooser: chooser}
}

func TestSetupFirstRun(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "Api/Api.csproj", "Worker/Worker.csproj", "Data/Data.csproj", "Data/Migrations/")

	chooser := &scriptedChooser{pick: 1}
	s := newSetup(t, root, chooser)
	p, err := s.Run()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "Worker", "Worker.csproj"), p.StartupProjectPath)
	assert.Equal(t, filepath.Join(root, "Data", "Data.csproj"), p.DataProjectPath)
	assert.Equal(t, []string{filepath.Join("Api", "Api.csproj"), filepath.Join("Worker", "Worker.csproj")}, chooser.asked)

	saved, err := s.Store.Load()
	require.NoError(t, err)
	assert.Equal(t, p, saved)
}

func TestSetupUsesValidConfiguration(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "Data/Data.csproj", "Api/Api.csproj")
	s := newSetup(t, t.TempDir(), nil)
	want := config.Projects{
		StartupProjectPath: filepath.Join(root, "Api", "Api.csproj"),
		DataProjectPath:    filepath.Join(root, "Data", "Data.csproj"),
	}
	require.NoError(t, s.Store.Save(want))

	p, err := s.Run()
	require.NoError(t, err)
	assert.Equal(t, want, p)
}

func TestSetupReplacesStaleConfiguration(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "Data/Data.csproj", "Data/Migrations/")
	s := newSetup(t, root, nil)
	require.NoError(t, s.Store.Save(config.Projects{StartupProjectPath: "/gone/A.csproj", DataProjectPath: "/gone/B.csproj"}))

	p, err := s.Run()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Data", "Data.csproj"), p.DataProjectPath)
	assert.Equal(t, p.DataProjectPath, p.StartupProjectPath)
}

func TestSetupGivesUpAfterBoundedRetries(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "Data/Data.csproj", "Data/Migrations/")
	s := newSetup(t, root, nil)
	s.Probe = func(string) bool { return false }

	_, err := s.Run()
	require.Error(t, err)
	assert.True(t, errors.IsSetup(err))
	assert.Contains(t, err.Error(), "still invalid after 2 attempts")
}

func TestSetupDiscoveryFailure(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "Api/Api.csproj")
	s := newSetup(t, root, nil)

	_, err := s.Run()
	require.Error(t, err)
	assert.True(t, errors.IsSetup(err))
	assert.Contains(t, err.Error(), "no Migrations folder")
}

func TestSetupReset(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "Data/Data.csproj", "Data/Migrations/")
	s := newSetup(t, root, nil)
	require.NoError(t, s.Store.Save(config.Projects{StartupProjectPath: root, DataProjectPath: root}))

	p, err := s.Reset()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Data", "Data.csproj"), p.DataProjectPath)
}
