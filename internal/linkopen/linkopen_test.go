package linkopen

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenHandsURLToPlatformOpener(t *testing.T) {
	var gotName string
	var gotArgs []string
	o := NewWithRunner(func(name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	})

	require.NoError(t, o.Open("https://example.com/doc"))

	if runtime.GOOS == "linux" {
		assert.Equal(t, "xdg-open", gotName)
	}
	assert.Contains(t, gotArgs, "https://example.com/doc")
}

func TestOpenRefusesUnsupportedSchemes(t *testing.T) {
	called := false
	o := NewWithRunner(func(string, ...string) error {
		called = true
		return nil
	})

	assert.Error(t, o.Open("javascript:alert(1)"))
	assert.Error(t, o.Open("../relative/path.md"))
	assert.Error(t, o.Open("#anchor"))
	assert.False(t, called)
}

func TestOpenable(t *testing.T) {
	assert.True(t, Openable("http://example.com"))
	assert.True(t, Openable("https://example.com"))
	assert.True(t, Openable("mailto:dev@example.com"))
	assert.True(t, Openable("file:///tmp/readme.md"))
	assert.False(t, Openable("ftp://example.com"))
	assert.False(t, Openable(""))
}
