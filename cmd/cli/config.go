// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"errors"
	"fmt"
	"os"

	"cv-terminal/internal/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// dimColor is used for less important/secondary text in the CLI output
var dimColor = color.New(color.Faint)

// configCmd is the parent command for all configuration-related subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the CV file",
	Long: `Provides subcommands to locate, create and check the CV file.
The file is YAML with 'commands', 'cv_sections', 'cv', 'prompt' and optional
'welcome' and 'terminal' blocks.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show which CV file is used",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := activeConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			dimColor.Fprintln(cmd.OutOrStdout(), "(file does not exist; the built-in CV is used)")
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the example CV to the config file",
	Long: `Writes the built-in example CV to the config path so it can be edited.
An existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		path, err := config.InitConfig(configPath, force)
		if err != nil {
			return err
		}
		successColor.Fprintf(cmd.OutOrStdout(), "Wrote example CV to %s\n", path)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the CV file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadCV()
		if err != nil {
			var cfgErr *config.ConfigurationError
			if errors.As(err, &cfgErr) {
				return fmt.Errorf("field %q: %s", cfgErr.Field, cfgErr.Reason)
			}
			return err
		}
		successColor.Fprintf(cmd.OutOrStdout(), "CV is valid: %d commands, %d sections\n", len(cfg.Commands), len(cfg.Sections))
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolP("force", "f", false, "overwrite an existing file")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	// Add the config command to root
	rootCmd.AddCommand(configCmd)
}

// activeConfigPath is the file loadCV reads.
func activeConfigPath() (string, error) {
	if configPath != "" {
		return config.ResolvePath(configPath)
	}
	return config.DefaultConfigPath()
}
