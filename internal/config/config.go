// Package config provides configuration types and defaults for sled.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/sled/internal/flags"
	"github.com/zjrosen/sled/internal/key"
	"github.com/zjrosen/sled/internal/linebuf"
	"github.com/zjrosen/sled/internal/output"
	"github.com/zjrosen/sled/internal/render"
)

// Limits enforced by Validate.
const (
	MinCapacity      = 2
	MaxTabWidth      = 16
	MaxEscapeTimeout = time.Second
)

// DefaultLogFile is where debug logs are written.
const DefaultLogFile = "sled-debug.log"

// Config holds all configuration options for sled.
type Config struct {
	Editor  EditorConfig    `mapstructure:"editor"`
	UI      UIConfig        `mapstructure:"ui"`
	Output  OutputConfig    `mapstructure:"output"`
	Bypass  bool            `mapstructure:"bypass"`   // skip editing, emit the first line as read
	Debug   bool            `mapstructure:"debug"`    // enable the debug log
	LogFile string          `mapstructure:"log_file"` // debug log path
	Flags   map[string]bool `mapstructure:"flags"`
}

// EditorConfig holds the line editor knobs.
type EditorConfig struct {
	Capacity      int           `mapstructure:"capacity"`       // maximum line length in bytes
	TabWidth      int           `mapstructure:"tab_width"`      // columns per displayed tab
	EscapeTimeout time.Duration `mapstructure:"escape_timeout"` // wait for escape sequence continuation
}

// UIConfig holds display options.
type UIConfig struct {
	Color bool `mapstructure:"color"` // colour the mode indicator
}

// OutputConfig selects where the final line is written.
type OutputConfig struct {
	Print       bool   `mapstructure:"print"`
	Newline     bool   `mapstructure:"newline"`
	FileNewline bool   `mapstructure:"file_newline"`
	Append      bool   `mapstructure:"append"`
	File        string `mapstructure:"file"`
}

// Defaults returns a Config with the built-in defaults.
func Defaults() Config {
	return Config{
		Editor: EditorConfig{
			Capacity:      linebuf.DefaultCapacity,
			TabWidth:      render.DefaultTabWidth,
			EscapeTimeout: key.DefaultEscapeTimeout,
		},
		UI: UIConfig{
			Color: false,
		},
		Output: OutputConfig{
			Print:       true,
			Newline:     true,
			FileNewline: true,
		},
		LogFile: DefaultLogFile,
		Flags:   flags.Defaults(),
	}
}

// Validate checks the editor settings.
func Validate(c Config) error {
	var errs []error
	if c.Editor.Capacity < MinCapacity {
		errs = append(errs, fmt.Errorf("editor.capacity must be at least %d, got %d", MinCapacity, c.Editor.Capacity))
	}
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > MaxTabWidth {
		errs = append(errs, fmt.Errorf("editor.tab_width must be between 1 and %d, got %d", MaxTabWidth, c.Editor.TabWidth))
	}
	if c.Editor.EscapeTimeout <= 0 || c.Editor.EscapeTimeout > MaxEscapeTimeout {
		errs = append(errs, fmt.Errorf("editor.escape_timeout must be in (0, %s], got %s", MaxEscapeTimeout, c.Editor.EscapeTimeout))
	}
	return errors.Join(errs...)
}

// OutputOptions converts the output section for the output stage.
func (c Config) OutputOptions() output.Options {
	return output.Options{
		Print:         c.Output.Print,
		NoNewline:     !c.Output.Newline,
		NoFileNewline: !c.Output.FileNewline,
		Append:        c.Output.Append,
		File:          c.Output.File,
	}
}

// FlagRegistry builds the feature flag registry from the flags section.
func (c Config) FlagRegistry() *flags.Registry {
	return flags.New(c.Flags)
}
