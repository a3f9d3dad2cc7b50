// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package config

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a CV that breaks one of its invariants. It is a
// defect in the configuration, never a user error.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the invariants a session relies on:
//   - commands are non-empty, untrimmed-whitespace free and unique
//   - help and fullcv are recognized commands
//   - every other command and every cv_sections entry has content in cv
func (c *CV) Validate() error {
	seen := make(map[string]bool, len(c.Commands))
	for i, cmd := range c.Commands {
		if cmd == "" {
			return configErrorf("commands", "entry %d is empty", i)
		}
		if strings.TrimSpace(cmd) != cmd {
			return configErrorf("commands", "%q has surrounding whitespace and can never be typed", cmd)
		}
		if seen[cmd] {
			return configErrorf("commands", "%q is listed more than once", cmd)
		}
		seen[cmd] = true
	}

	for _, required := range []string{HelpCommand, FullCVCommand} {
		if !seen[required] {
			return configErrorf("commands", "missing built-in command %q", required)
		}
	}

	for _, cmd := range c.SectionCommands() {
		if _, ok := c.Content[cmd]; !ok {
			return configErrorf("cv", "command %q has no section content", cmd)
		}
	}

	for _, id := range c.Sections {
		if _, ok := c.Content[id]; !ok {
			return configErrorf("cv_sections", "section %q is not defined in cv", id)
		}
	}

	return nil
}
