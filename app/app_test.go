package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a sqlite based main.toml into a temp dir and returns the dir.
func writeConfig(t *testing.T) string {
	t.Helper()

	raw, err := os.ReadFile("../etc/main.toml")
	require.NoError(t, err)

	dir := t.TempDir()
	db := filepath.ToSlash(filepath.Join(dir, "console.db"))
	content := strings.Replace(string(raw), `Name = "./admin-console.db"`, `Name = "`+db+`"`, 1)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(content), 0o600))

	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return out.String(), err
}

func TestCommands(t *testing.T) {
	dir := writeConfig(t)

	testCases := []struct {
		name     string
		args     []string
		wantErr  bool
		contains []string
	}{
		{
			name:     "settings show theme",
			args:     []string{"--config", dir, "settings", "show", "theme"},
			contains: []string{`"group": "theme"`, `"strategy": "incremental"`, `"isDarkMode": true`},
		},
		{
			name:     "settings show system",
			args:     []string{"--config", dir, "settings", "show", "system"},
			contains: []string{`"group": "system"`, `"maintenanceMode": false`},
		},
		{
			name:    "settings show unknown group",
			args:    []string{"--config", dir, "settings", "show", "nope"},
			wantErr: true,
		},
		{
			name:     "activity export to stdout",
			args:     []string{"--config", dir, "activity", "export", "--year", "0", "--out", "-"},
			contains: []string{"Date,User,Action,Description,IP Address"},
		},
		{
			name:     "config dump json",
			args:     []string{"--config", dir, "config", "dump", "--json"},
			contains: []string{`"GormEngine": "sqlite"`},
		},
		{
			name:    "missing config dir",
			args:    []string{"--config", filepath.Join(dir, "missing"), "config", "dump"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, tc.args...)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)

			for _, s := range tc.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestActivityExportWritesFile(t *testing.T) {
	dir := writeConfig(t)
	file := filepath.Join(dir, "export.csv")

	_, err := run(t, "--config", dir, "activity", "export", "--year", "2024", "--month", "3", "--out", file)
	require.NoError(t, err)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Date,User,Action,Description,IP Address"))
}
