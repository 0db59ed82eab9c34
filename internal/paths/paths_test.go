package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "bare tilde",
			path: "~",
			want: home,
		},
		{
			name: "tilde with path",
			path: "~/borg-helper.json",
			want: filepath.Join(home, "borg-helper.json"),
		},
		{
			name: "absolute path unchanged",
			path: "/etc/borg-helper.json",
			want: "/etc/borg-helper.json",
		},
		{
			name: "relative path unchanged",
			path: "borg-helper.json",
			want: "borg-helper.json",
		},
		{
			name: "tilde user form unchanged",
			path: "~other/config.json",
			want: "~other/config.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandTilde(tt.path))
		})
	}
}

func TestResolveHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ResolveHome()
	require.NoError(t, err)
	assert.Equal(t, home, got)
}
