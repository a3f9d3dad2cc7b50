// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package config handles application configuration: reading and writing the CV
// file, validating it, and providing the embedded default CV and the server
// settings taken from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Names of the commands with a built-in meaning. Every other command is a
// section identifier.
const (
	HelpCommand   = "help"
	FullCVCommand = "fullcv"
)

// Terminal holds presentation settings for the terminal surface. The browser
// page and the local TUI both read them.
type Terminal struct {
	// Title is shown above the terminal in the TUI and as the page title
	Title string `yaml:"title,omitempty" json:"title"`

	// Foreground, Background and Cursor are hex colors like "#00ff00"
	Foreground string `yaml:"foreground,omitempty" json:"foreground"`
	Background string `yaml:"background,omitempty" json:"background"`
	Cursor     string `yaml:"cursor,omitempty" json:"cursor"`

	// FontFamily and FontSize only apply to the browser page
	FontFamily string `yaml:"font_family,omitempty" json:"fontFamily"`
	FontSize   int    `yaml:"font_size,omitempty" json:"fontSize"`

	// Cols and Rows are the initial size of the browser terminal before fitting
	Cols int `yaml:"cols,omitempty" json:"cols"`
	Rows int `yaml:"rows,omitempty" json:"rows"`
}

// CV is the session configuration: recognized commands, section order,
// section content and the prompt. It is treated as immutable once a session
// has been built from it.
type CV struct {
	// Commands is the ordered list of recognized commands (help listing order)
	Commands []string `yaml:"commands" json:"commands"`

	// Sections is the order in which fullcv prints sections
	Sections []string `yaml:"cv_sections" json:"cvSections"`

	// Content maps a section identifier to its display lines
	Content map[string][]string `yaml:"cv" json:"cv"`

	// Prompt is written before user input on every new line
	Prompt string `yaml:"prompt" json:"prompt"`

	// Welcome lines are written once when a session starts. Nil means the default banner.
	Welcome []string `yaml:"welcome,omitempty" json:"welcome"`

	Terminal Terminal `yaml:"terminal,omitempty" json:"terminal"`
}

var defaultWelcome = []string{
	"Hello There...",
	"Type 'help' to see available commands.",
}

var defaultTerminal = Terminal{
	Title:      "cv-terminal",
	Foreground: "#00ff00",
	Background: "#000000",
	Cursor:     "#00ff00",
	FontFamily: "'VT323', monospace",
	FontSize:   16,
	Cols:       80,
	Rows:       24,
}

// Section returns the lines of a section.
func (c *CV) Section(id string) ([]string, bool) {
	lines, ok := c.Content[id]
	return lines, ok
}

// PromptLength is the prompt length in characters.
func (c *CV) PromptLength() int {
	return utf8.RuneCountInString(c.Prompt)
}

// HasCommand reports whether name is a recognized command.
func (c *CV) HasCommand(name string) bool {
	for _, cmd := range c.Commands {
		if cmd == name {
			return true
		}
	}
	return false
}

// SectionCommands returns the recognized commands that name sections, in
// configured order.
func (c *CV) SectionCommands() []string {
	var out []string
	for _, cmd := range c.Commands {
		if cmd != HelpCommand && cmd != FullCVCommand {
			out = append(out, cmd)
		}
	}
	return out
}

func (c *CV) applyDefaults() {
	if c.Welcome == nil {
		c.Welcome = append([]string(nil), defaultWelcome...)
	}
	t := &c.Terminal
	if t.Title == "" {
		t.Title = defaultTerminal.Title
	}
	if t.Foreground == "" {
		t.Foreground = defaultTerminal.Foreground
	}
	if t.Background == "" {
		t.Background = defaultTerminal.Background
	}
	if t.Cursor == "" {
		t.Cursor = t.Foreground
	}
	if t.FontFamily == "" {
		t.FontFamily = defaultTerminal.FontFamily
	}
	if t.FontSize <= 0 {
		t.FontSize = defaultTerminal.FontSize
	}
	if t.Cols <= 0 {
		t.Cols = defaultTerminal.Cols
	}
	if t.Rows <= 0 {
		t.Rows = defaultTerminal.Rows
	}
}

func DefaultConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "cv-terminal"), nil
}

func DefaultConfigPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Parse decodes and validates a CV from YAML.
func Parse(data []byte) (*CV, error) {
	var cv CV
	if err := yaml.Unmarshal(data, &cv); err != nil {
		return nil, fmt.Errorf("failed to parse CV: %w", err)
	}
	cv.applyDefaults()
	if err := cv.Validate(); err != nil {
		return nil, err
	}
	return &cv, nil
}

// LoadConfig loads the CV from the default path, falling back to the embedded
// default CV when no file exists.
func LoadConfig() (*CV, error) {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return loadConfigFile(configPath, true)
}

// LoadConfigFile loads the CV from path. An empty path means the default
// location. A missing explicit file is an error.
func LoadConfigFile(path string) (*CV, error) {
	if path == "" {
		return LoadConfig()
	}
	resolved, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}
	return loadConfigFile(resolved, false)
}

func loadConfigFile(configPath string, allowMissing bool) (*CV, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cv, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	}
	return cv, nil
}

func EnsureConfigDir() error {
	configDir, err := DefaultConfigDir()
	if err != nil {
		return err
	}
	err = os.MkdirAll(configDir, 0750) // rwxr-x---
	if err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}
	return nil
}

func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("could not get user home directory to resolve path '%s': %w", path, err)
	}

	return filepath.Join(homeDir, path[2:]), nil
}

// InitConfig writes the embedded default CV to path, or to the default
// location when path is empty, and returns the path written. An existing
// file is only replaced when force is set.
func InitConfig(path string, force bool) (string, error) {
	if path == "" {
		if err := EnsureConfigDir(); err != nil {
			return "", err
		}
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return "", err
		}
	} else {
		resolved, err := ResolvePath(path)
		if err != nil {
			return "", err
		}
		path = resolved
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return "", fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if _, err := os.Stat(path); err == nil && !force {
		return path, fmt.Errorf("config file %s already exists", path)
	}

	if err := os.WriteFile(path, DefaultYAML(), 0640); err != nil {
		return "", fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return path, nil
}
