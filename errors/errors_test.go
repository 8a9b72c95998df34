package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestNewValidation(t *testing.T) {
	err := NewValidation("migration name %q is empty", " ")

	assert.Equal(t, `migration name " " is empty`, err.Error())
	assert.True(t, IsValidation(err))
	assert.False(t, IsConfiguration(err))
	assert.False(t, IsTool(err))
}

func TestMarksSurviveWrapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"validation", NewValidation("bad input"), IsValidation},
		{"configuration", NewConfiguration("path %s missing", "/x"), IsConfiguration},
		{"setup", NewSetup("no project manifest found"), IsSetup},
		{"tool", MarkTool(New("exit status 1")), IsTool},
		{"not found", NewNotFoundError("migration %s", "A"), IsNotFoundError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(tt.err, "layer")
			assert.True(t, tt.check(wrapped))
			assert.Contains(t, wrapped.Error(), "layer")
		})
	}
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, MarkTool(nil))
	assert.False(t, IsValidation(nil))
	assert.False(t, IsConfiguration(nil))
	assert.False(t, IsSetup(nil))
	assert.False(t, IsTool(nil))
	assert.False(t, IsNotFoundError(nil))
}

func TestErrorChaining(t *testing.T) {
	base := NewConfiguration("startup project no longer exists")

	err := Wrap(base, "load project configuration")
	err = WithHint(err, "choose reset from the menu")
	err = WithDetail(err, "path: /tmp/App.csproj")

	assert.True(t, IsConfiguration(err))
	assert.Contains(t, err.Error(), "load project configuration")
	assert.Contains(t, GetAllHints(err), "choose reset from the menu")
	assert.Contains(t, GetAllDetails(err), "path: /tmp/App.csproj")
}

func ExampleWithHint() {
	err := New("dotnet: executable file not found")
	err = WithHint(err, "install the .NET SDK")

	hints := GetAllHints(err)
	fmt.Println(hints[0])
	// Output: install the .NET SDK
}
