package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/sled/internal/flags"
	"github.com/zjrosen/sled/internal/output"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	require.Equal(t, 1024, d.Editor.Capacity)
	require.Equal(t, 3, d.Editor.TabWidth)
	require.Equal(t, 20*time.Millisecond, d.Editor.EscapeTimeout)
	require.True(t, d.Output.Print)
	require.True(t, d.Output.Newline)
	require.True(t, d.Output.FileNewline)
	require.False(t, d.Output.Append)
	require.False(t, d.Bypass)
	require.Equal(t, DefaultLogFile, d.LogFile)
	require.NoError(t, Validate(d))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "minimum capacity", modify: func(c *Config) { c.Editor.Capacity = 2 }},
		{name: "capacity too small", modify: func(c *Config) { c.Editor.Capacity = 1 }, wantErr: "editor.capacity"},
		{name: "zero tab width", modify: func(c *Config) { c.Editor.TabWidth = 0 }, wantErr: "editor.tab_width"},
		{name: "huge tab width", modify: func(c *Config) { c.Editor.TabWidth = 17 }, wantErr: "editor.tab_width"},
		{name: "zero timeout", modify: func(c *Config) { c.Editor.EscapeTimeout = 0 }, wantErr: "editor.escape_timeout"},
		{name: "long timeout", modify: func(c *Config) { c.Editor.EscapeTimeout = 2 * time.Second }, wantErr: "editor.escape_timeout"},
		{name: "one second timeout", modify: func(c *Config) { c.Editor.EscapeTimeout = time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.modify(&c)
			err := Validate(c)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	c := Defaults()
	c.Editor.Capacity = 0
	c.Editor.TabWidth = 0

	err := Validate(c)
	require.ErrorContains(t, err, "editor.capacity")
	require.ErrorContains(t, err, "editor.tab_width")
}

func TestOutputOptions(t *testing.T) {
	c := Defaults()
	c.Output.Newline = false
	c.Output.Append = true
	c.Output.File = "out.txt"

	require.Equal(t, output.Options{
		Print:         true,
		NoNewline:     true,
		NoFileNewline: false,
		Append:        true,
		File:          "out.txt",
	}, c.OutputOptions())
}

func TestFlagRegistry(t *testing.T) {
	c := Defaults()
	c.Flags = map[string]bool{flags.FlagClearOnExit: false}

	r := c.FlagRegistry()
	require.False(t, r.Enabled(flags.FlagClearOnExit))
	require.True(t, r.Enabled(flags.FlagForwardDelete))
}

func TestDefaultConfigTemplate_LoadsAsDefaults(t *testing.T) {
	tmpl, err := DefaultConfigTemplate()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(tmpl, "# sled configuration"))
	require.Contains(t, tmpl, "# maximum line length in bytes")

	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(tmpl)))

	var got Config
	require.NoError(t, v.Unmarshal(&got))
	require.Equal(t, Defaults(), got)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	tmpl, err := DefaultConfigTemplate()
	require.NoError(t, err)
	require.Equal(t, tmpl, string(data))
}

func TestWriteDefaultConfig_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("editor:\n  capacity: 8\n"), 0o600))

	err := WriteDefaultConfig(path)

	require.ErrorIs(t, err, ErrConfigExists)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "editor:\n  capacity: 8\n", string(data))
}
