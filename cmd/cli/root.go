// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cv-terminal/cmd/tui"
	"cv-terminal/internal/config"
	"cv-terminal/internal/logger"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	configPath string

	statusColor     = color.New(color.FgCyan)
	errorColor      = color.New(color.FgRed)
	successColor    = color.New(color.FgGreen)
	headerColor     = color.New(color.FgYellow, color.Bold)
	identifierColor = color.New(color.FgBlue)
)

var rootCmd = &cobra.Command{
	Use:   "cvt",
	Short: "CV terminal",
	Long: `Shows a CV through a fake terminal: type 'help', a section name or 'fullcv'
and the text is typed out one character at a time.

Without a subcommand the terminal runs locally. 'cvt serve' and 'cvt ssh' put the
same terminal on the web and behind an SSH server.

The CV is read from ~/.config/cv-terminal/config.yaml (or --config); a built-in
example CV is used when no file exists.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// The TUI owns the terminal, so it only logs to the file.
		logger.InitLogger(cmd == cmd.Root())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadCV()
		if err != nil {
			return err
		}
		interval, err := cmd.Flags().GetDuration("frame-interval")
		if err != nil {
			return err
		}
		return tui.RunTUI(cfg, interval)
	},
}

// RunCLI executes the root command and exits non-zero on error.
func RunCLI() {
	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the CV file (default ~/.config/cv-terminal/config.yaml)")
	rootCmd.Flags().Duration("frame-interval", tui.DefaultFrameInterval, "delay between typed characters")
}

// loadCV loads the CV selected by --config.
func loadCV() (*config.CV, error) {
	cfg, err := config.LoadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load CV: %w", err)
	}
	return cfg, nil
}

// runUntilSignal runs serve until SIGINT or SIGTERM cancels its context. A
// spinner shows while serve drains open sessions.
func runUntilSignal(parent context.Context, out io.Writer, serve func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.Color("cyan")
	s.Suffix = " Closing open sessions..."

	finished := make(chan struct{})
	spun := make(chan struct{})
	go func() {
		defer close(spun)
		select {
		case <-finished:
			return
		case <-ctx.Done():
		}
		s.Start()
		<-finished
		s.Stop()
	}()

	err := serve(ctx)
	close(finished)
	<-spun
	return err
}
