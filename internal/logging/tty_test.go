package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}

func TestSupportsColor(t *testing.T) {
	t.Run("non-tty writer", func(t *testing.T) {
		assert.False(t, SupportsColor(&bytes.Buffer{}))
	})

	t.Run("NO_COLOR overrides tty", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		assert.False(t, supportsColor(&bytes.Buffer{}, true))
	})

	t.Run("dumb terminal", func(t *testing.T) {
		t.Setenv("TERM", "dumb")
		assert.False(t, supportsColor(&bytes.Buffer{}, true))
	})

	t.Run("tty without overrides", func(t *testing.T) {
		t.Setenv("TERM", "xterm-256color")
		// NO_COLOR must be unset for this case.
		t.Setenv("NO_COLOR", "")
		assert.False(t, supportsColor(&bytes.Buffer{}, false))
	})
}
