// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package tui

import (
	"fmt"
	"time"

	"cv-terminal/internal/config"
	"cv-terminal/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultFrameInterval is the typing speed used when none is given.
const DefaultFrameInterval = ui.DefaultFrameInterval

// RunTUI initializes and runs the Bubble Tea TUI application.
func RunTUI(cfg *config.CV, frameInterval time.Duration) error {
	m, err := ui.NewModel(cfg, nil, ui.WithFrameInterval(frameInterval))
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return m.Err()
}
