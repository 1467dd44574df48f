package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/sled/internal/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the sled configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration file",
		Long: `Write the default configuration, with comments, to path
(default: ~/.config/sled/config.yaml). An existing file is left untouched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigPath()
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefaultConfig(path); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	printCmd := &cobra.Command{
		Use:   "print",
		Short: "Print the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tmpl, err := config.DefaultConfigTemplate()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), tmpl)
			return err
		},
	}

	configCmd.AddCommand(initCmd, printCmd)
	return configCmd
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sled.yaml"
	}
	return filepath.Join(home, ".config", "sled", "config.yaml")
}
