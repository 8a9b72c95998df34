package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/efmig/errors"
	"github.com/teranos/efmig/settings"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		out     string
		want    string
		wantErr bool
	}{
		{"8.0.1\n", "8.0.1", false},
		{"Entity Framework Core .NET Command-line Tools\n9.0.0-preview.3.24172.4\n", "9.0.0-preview.3.24172.4", false},
		{"Tool 'dotnet-ef' was successfully updated from 7.0.5 to 8.0.1.", "8.0.1", false},
		{"no version here", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.out, func(t *testing.T) {
			v, err := ParseVersion(tt.out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Original())
		})
	}
}

func TestUpdaterReportsVersionChange(t *testing.T) {
	runner := &scriptedRunner{outputs: []string{
		"Entity Framework Core .NET Command-line Tools\n7.0.5\n",
		"Tool 'dotnet-ef' was successfully updated from version '7.0.5' to version '8.0.1'.\n",
		"Entity Framework Core .NET Command-line Tools\n8.0.1\n",
	}}
	u, err := NewUpdater(settings.Defaults().Tool, runner)
	require.NoError(t, err)

	report, err := u.Update(context.Background())
	require.NoError(t, err)

	require.Len(t, runner.calls, 3)
	assert.Equal(t, []string{"ef", "--version"}, runner.calls[0].args)
	assert.Equal(t, []string{"tool", "update", "--global", "dotnet-ef"}, runner.calls[1].args)
	assert.Equal(t, "7.0.5", report.Before.String())
	assert.Equal(t, "8.0.1", report.After.String())
	assert.True(t, report.Changed())
}

func TestUpdaterAlreadyCurrent(t *testing.T) {
	runner := &scriptedRunner{outputs: []string{"8.0.1", "Tool 'dotnet-ef' is up to date.", "8.0.1"}}
	u, err := NewUpdater(settings.Defaults().Tool, runner)
	require.NoError(t, err)

	report, err := u.Update(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Changed())
}

func TestUpdaterFreshInstall(t *testing.T) {
	runner := &scriptedRunner{
		outputs: []string{"Could not execute because the specified command or file was not found.", "installed", "8.0.1"},
		codes:   []int{1, 0, 0},
	}
	u, err := NewUpdater(settings.Defaults().Tool, runner)
	require.NoError(t, err)

	report, err := u.Update(context.Background())
	require.NoError(t, err)
	assert.Nil(t, report.Before)
	assert.True(t, report.Changed())
}

func TestUpdaterUpdateCommandFails(t *testing.T) {
	runner := &scriptedRunner{outputs: []string{"8.0.1", "error NU1101: Unable to find package"}, codes: []int{0, 1}}
	u, err := NewUpdater(settings.Defaults().Tool, runner)
	require.NoError(t, err)

	_, err = u.Update(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsTool(err))
	assert.Len(t, runner.calls, 2)
}

func TestUpdateReportChanged(t *testing.T) {
	assert.False(t, UpdateReport{}.Changed())
}
