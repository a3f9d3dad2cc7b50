// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"fmt"
	"io"
	"strings"

	"cv-terminal/internal/config"
	"cv-terminal/internal/session"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [command...]",
	Short: "Print CV sections without animation",
	Long: `Prints the output of terminal commands straight away. Arguments are section
names, 'help' or 'fullcv'; with none the full CV is printed.`,
	Example:           "  cvt show\n  cvt show about experience\n  cvt show help",
	ValidArgsFunction: commandCompletionFunc,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadCV()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			args = []string{config.FullCVCommand}
		}
		for _, name := range args {
			if err := printCommand(cmd.OutOrStdout(), cfg, name); err != nil {
				return err
			}
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the commands the terminal understands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadCV()
		if err != nil {
			return err
		}
		printCommandList(cmd.OutOrStdout(), cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
}

// printCommand prints what the terminal would type for name, with colored headers.
func printCommand(w io.Writer, cfg *config.CV, name string) error {
	action := session.Resolve(cfg, name)
	switch action.Kind {
	case session.ActionHelp:
		printCommandList(w, cfg)
	case session.ActionFullCV:
		for i, id := range cfg.Sections {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := printSection(w, cfg, id); err != nil {
				return err
			}
		}
	case session.ActionSection:
		return printSection(w, cfg, action.Section)
	default:
		return fmt.Errorf("command not recognized: %q (see 'cvt list')", action.Input)
	}
	return nil
}

func printSection(w io.Writer, cfg *config.CV, id string) error {
	lines, ok := cfg.Section(id)
	if !ok {
		return &config.ConfigurationError{Field: "cv", Reason: fmt.Sprintf("section %q is not defined", id)}
	}
	headerColor.Fprintln(w, strings.ToUpper(id))
	for _, line := range lines {
		fmt.Fprintf(w, "  %s\n", line)
	}
	return nil
}

func printCommandList(w io.Writer, cfg *config.CV) {
	for _, name := range cfg.Commands {
		desc := "built-in"
		if lines, ok := cfg.Section(name); ok {
			desc = fmt.Sprintf("section, %d lines", len(lines))
		}
		switch name {
		case config.HelpCommand:
			desc = "list commands"
		case config.FullCVCommand:
			desc = fmt.Sprintf("all %d sections in order", len(cfg.Sections))
		}
		fmt.Fprintf(w, "- %s %s\n", identifierColor.Sprint(name), dimColor.Sprintf("(%s)", desc))
	}
}
