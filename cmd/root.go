package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/zjrosen/sled/internal/config"
	"github.com/zjrosen/sled/internal/key"
	"github.com/zjrosen/sled/internal/linebuf"
	"github.com/zjrosen/sled/internal/log"
	"github.com/zjrosen/sled/internal/output"
	"github.com/zjrosen/sled/internal/render"
	"github.com/zjrosen/sled/internal/session"
)

var (
	version = "dev"
	rootCmd = newRootCmd()

	// openTerminal is swapped out in tests.
	openTerminal = session.OpenControllingTerminal
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "sled [flags] [file]",
		Short: "Edit a single line of text in the terminal",
		Long: `sled reads the first line of a file (or standard input), lets you edit it
in place on the terminal and writes the result to standard output and/or a file.

Keys:
  Left/Right     move the cursor
  Down           load the next input line (before editing); past the last
                 line, switch to append mode
  Backspace/Del  delete before/under the cursor
  Enter          accept the line
  Escape         cancel without output

To edit a file named "config", pass it as ./config; a bare "config" runs the
config subcommand.`,
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, v, cfgFile, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./.sled.yaml, then ~/.config/sled/config.yaml)")
	pf.Bool("debug", false, "write a debug log")
	pf.String("log-file", config.DefaultLogFile, "debug log path")

	f := cmd.Flags()
	f.BoolP("bypass", "b", false, "skip editing and emit the first line unchanged")
	f.BoolP("print", "p", true, "write the line to stdout")
	f.BoolP("no-newline", "n", false, "omit the trailing newline on stdout")
	f.BoolP("no-file-newline", "N", false, "omit the trailing newline in the output file")
	f.BoolP("append", "a", false, "append to the output file instead of truncating it")
	f.StringP("file", "f", "", "also write the line to this file")
	f.IntP("tab-width", "t", render.DefaultTabWidth, "columns per displayed tab")
	f.Int("capacity", linebuf.DefaultCapacity, "maximum line length in bytes")
	f.Duration("escape-timeout", key.DefaultEscapeTimeout, "wait for the rest of an escape sequence")
	f.Bool("color", false, "colour the mode indicator")

	cmd.SetVersionTemplate("sled {{.Version}}\n")
	cmd.AddCommand(newConfigCmd())
	return cmd
}

// bindFlags maps command-line flags onto config keys.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	return errors.Join(
		bindFlagSet(v, cmd.PersistentFlags(), map[string]string{
			"debug":    "debug",
			"log_file": "log-file",
		}),
		bindFlagSet(v, cmd.Flags(), map[string]string{
			"bypass":                "bypass",
			"output.print":          "print",
			"output.append":         "append",
			"output.file":           "file",
			"editor.tab_width":      "tab-width",
			"editor.capacity":       "capacity",
			"editor.escape_timeout": "escape-timeout",
			"ui.color":              "color",
		}),
	)
}

func bindFlagSet(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	var errs []error
	for k, name := range keys {
		if err := v.BindPFlag(k, fs.Lookup(name)); err != nil {
			errs = append(errs, fmt.Errorf("binding --%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// loadConfig layers defaults, the config file and SLED_* environment
// variables into v.
func loadConfig(v *viper.Viper, cfgFile string) error {
	defaults := config.Defaults()
	v.SetDefault("editor.capacity", defaults.Editor.Capacity)
	v.SetDefault("editor.tab_width", defaults.Editor.TabWidth)
	v.SetDefault("editor.escape_timeout", defaults.Editor.EscapeTimeout)
	v.SetDefault("ui.color", defaults.UI.Color)
	v.SetDefault("output.print", defaults.Output.Print)
	v.SetDefault("output.newline", defaults.Output.Newline)
	v.SetDefault("output.file_newline", defaults.Output.FileNewline)
	v.SetDefault("output.append", defaults.Output.Append)
	v.SetDefault("output.file", defaults.Output.File)
	v.SetDefault("bypass", defaults.Bypass)
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("log_file", defaults.LogFile)
	// Feature flags need defaults so SLED_FLAGS_* can override them.
	for name, enabled := range defaults.Flags {
		v.SetDefault("flags."+name, enabled)
	}

	// SLED_FLAGS_CLEAR_ON_EXIT sets flags.clear-on-exit.
	v.SetEnvPrefix("SLED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .sled.yaml (current directory)
		// 2. ~/.config/sled/config.yaml (user config)
		if _, err := os.Stat(".sled.yaml"); err == nil {
			v.SetConfigFile(".sled.yaml")
		} else {
			home, _ := os.UserHomeDir()
			v.AddConfigPath(filepath.Join(home, ".config", "sled"))
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

func runEdit(cmd *cobra.Command, v *viper.Viper, cfgFile string, args []string) error {
	if err := bindFlags(cmd, v); err != nil {
		return err
	}
	if err := loadConfig(v, cfgFile); err != nil {
		return err
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	// Negated flags override the positive config keys.
	if noNewline, _ := cmd.Flags().GetBool("no-newline"); noNewline {
		cfg.Output.Newline = false
	}
	if noFileNewline, _ := cmd.Flags().GetBool("no-file-newline"); noFileNewline {
		cfg.Output.FileNewline = false
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Debug {
		cleanup, err := log.InitWithTeaLog(cfg.LogFile, "sled")
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		defer cleanup()
		log.Info(log.CatConfig, "sled starting", "version", version, "config", v.ConfigFileUsed())
	}

	var input io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer func() { _ = f.Close() }()
		input = f
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := session.Run(ctx, session.Options{
		Input:         input,
		OpenTerminal:  openTerminal,
		Capacity:      cfg.Editor.Capacity,
		TabWidth:      cfg.Editor.TabWidth,
		EscapeTimeout: cfg.Editor.EscapeTimeout,
		Color:         cfg.UI.Color,
		Bypass:        cfg.Bypass,
		Flags:         cfg.FlagRegistry(),
	})
	if err != nil {
		return err
	}
	return output.Write(cmd.OutOrStdout(), res.Line(), cfg.OutputOptions())
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
