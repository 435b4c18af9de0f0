package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "flag with separate value",
			args:         []string{"-d", "vault.db", "-x", "1"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d", "vault.db"},
		},
		{
			name:         "flag with equals",
			args:         []string{"-b=backups", "-x", "1"},
			allowedFlags: []string{"-b"},
			want:         []string{"-b=backups"},
		},
		{
			name:         "multiple allowed flags keep their order",
			args:         []string{"-d", "vault.db", "backup", "-b", "backups"},
			allowedFlags: []string{"-b", "-d"},
			want:         []string{"-d", "vault.db", "-b", "backups"},
		},
		{
			name:         "unknown flags and positionals dropped",
			args:         []string{"-x", "1", "--y=2", "restore"},
			allowedFlags: []string{"-d"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept as-is",
			args:         []string{"-d"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d"},
		},
		{
			name:         "next dash-starting token is not a value",
			args:         []string{"-d", "-b=backups"},
			allowedFlags: []string{"-d", "-b"},
			want:         []string{"-d", "-b=backups"},
		},
		{
			name:         "repeated flag preserved in order",
			args:         []string{"-c", "one.json", "-c", "two.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:         "path value stays a single argument",
			args:         []string{"-c", "/home/user/passvault.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "/home/user/passvault.json"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-d"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c with value", func(t *testing.T) {
		os.Args = []string{"passvault", "-c", "/etc/passvault.json", "backup"}
		assert.Equal(t, "/etc/passvault.json", JsonConfigFlags())
	})

	t.Run("long -config with value", func(t *testing.T) {
		os.Args = []string{"passvault", "-config", "conf.json", "list"}
		assert.Equal(t, "conf.json", JsonConfigFlags())
	})

	t.Run("absent", func(t *testing.T) {
		os.Args = []string{"passvault", "list"}
		assert.Empty(t, JsonConfigFlags())
	})

	t.Run("last occurrence wins", func(t *testing.T) {
		os.Args = []string{"passvault", "-c", "a.json", "-config", "b.json"}
		assert.Equal(t, "b.json", JsonConfigFlags())
	})
}
