// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package logger wraps a process-wide slog JSON logger. The TUI logs only to a
// file so the terminal stays clean; the CLI and servers also log to stderr.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LevelEnvVar selects the minimum log level: debug, info, warn or error.
const LevelEnvVar = "CVT_LOG_LEVEL"

var defaultLogger *slog.Logger

// levelFromEnv parses LevelEnvVar, defaulting to info for empty or unknown values.
func levelFromEnv() slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(LevelEnvVar))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// logFilePath returns $XDG_STATE_HOME/cv-terminal/app.log.
func logFilePath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get user home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "cv-terminal", "app.log"), nil
}

// openLogFile creates the state directory if needed and opens the log for appending.
func openLogFile() (*os.File, string, error) {
	path, err := logFilePath()
	if err != nil {
		return nil, "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, path, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return nil, path, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, path, nil
}

// newLogger builds the JSON logger over the file and, outside the TUI, stderr.
// It falls back to stderr when the file cannot be opened.
func newLogger(isTUI bool) (*slog.Logger, string) {
	var writers []io.Writer
	file, path, err := openLogFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "File logging disabled: %v\n", err)
		path = ""
	} else {
		writers = append(writers, file)
	}
	if !isTUI || len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	handler := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: levelFromEnv()})
	return slog.New(handler), path
}

// InitLogger sets up the default logger for the TUI or for the CLI and servers.
// It must run before the first log call.
func InitLogger(isTUI bool) {
	l, path := newLogger(isTUI)
	defaultLogger = l
	if path == "" {
		return
	}
	if isTUI {
		fmt.Fprintf(os.Stderr, "Logging to file: %s\n", path)
		return
	}
	defaultLogger.Debug("Logging configured", "file", path)
}

// Logger returns the underlying logger, initializing it with CLI defaults if needed.
func Logger() *slog.Logger {
	checkLogger()
	return defaultLogger
}

// With returns a child logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	checkLogger()
	return defaultLogger.With(args...)
}

func checkLogger() {
	if defaultLogger == nil {
		InitLogger(false)
	}
}

// Info logs at info level on the default logger.
func Info(msg string, args ...any) {
	checkLogger()
	defaultLogger.Info(msg, args...)
}

// Warn logs at warn level on the default logger.
func Warn(msg string, args ...any) {
	checkLogger()
	defaultLogger.Warn(msg, args...)
}

// Debug logs at debug level on the default logger.
func Debug(msg string, args ...any) {
	checkLogger()
	defaultLogger.Debug(msg, args...)
}
