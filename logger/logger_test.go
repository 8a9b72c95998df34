package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityTrace, zapcore.DebugLevel},
		{9, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestInitializeToFiltersByVerbosity(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeTo(&buf, VerbosityUser, false))
	defer func() { _ = InitializeTo(&bytes.Buffer{}, VerbosityUser, false) }()

	Infow("hidden at default verbosity")
	Warnw("visible warning", FieldVerb, "remove")
	Cleanup()

	out := stripANSI(buf.String())
	assert.NotContains(t, out, "hidden at default verbosity")
	assert.Contains(t, out, "visible warning")
	assert.Contains(t, out, "verb=remove")
}

func TestInitializeToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeTo(&buf, VerbosityInfo, true))
	defer func() { _ = InitializeTo(&bytes.Buffer{}, VerbosityUser, false) }()
	assert.True(t, JSONOutput)

	Named("workflow").Infow("Operation finished", FieldOutcome, "success")
	Cleanup()

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Operation finished", entry["msg"])
	assert.Equal(t, "workflow", entry["logger"])
	assert.Equal(t, "success", entry["outcome"])
}

func TestShouldOutput(t *testing.T) {
	assert.True(t, ShouldOutput(VerbosityUser, OutputResults))
	assert.True(t, ShouldOutput(VerbosityUser, OutputErrors))
	assert.False(t, ShouldOutput(VerbosityUser, OutputToolCalls))
	assert.True(t, ShouldOutput(VerbosityDebug, OutputToolCalls))
	assert.False(t, ShouldOutput(VerbosityDebug, OutputRawToolOutput))
	assert.True(t, ShouldOutput(VerbosityTrace, OutputRawToolOutput))
	assert.False(t, ShouldOutput(VerbosityDebug, OutputCategory(99)))
}

func TestEnabledFollowsInitializedVerbosity(t *testing.T) {
	require.NoError(t, InitializeTo(&bytes.Buffer{}, VerbosityTrace, false))
	defer func() { _ = InitializeTo(&bytes.Buffer{}, VerbosityUser, false) }()

	assert.Equal(t, VerbosityTrace, Verbosity)
	assert.True(t, Enabled(OutputRawToolOutput))

	require.NoError(t, InitializeTo(&bytes.Buffer{}, VerbosityInfo, false))
	assert.True(t, Enabled(OutputProgress))
	assert.False(t, Enabled(OutputConfig))
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "default", LevelName(0))
	assert.Equal(t, "debug (-vv)", LevelName(2))
	assert.Equal(t, "trace (-vvv+)", LevelName(7))
	assert.Equal(t, "unknown", LevelName(-1))
}
