// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// --- Message Handlers ---
// These functions handle specific message types received by the model's Update function.

func handleWindowSizeMsg(m *Model, msg tea.WindowSizeMsg) tea.Cmd {
	m.width = msg.Width
	m.height = msg.Height

	vpHeight := m.height - headerHeight - footerHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if m.currentState == stateWaitingForSize {
		m.viewport = viewport.New(m.width, vpHeight)
		m.currentState = stateTerminal
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vpHeight
	}

	// Wrap new output at the window width; the cursor cell needs one column.
	m.screen.Resize(m.width - 1)
	m.syncViewport()
	return nil
}

func handleFrameMsg(m *Model, msg frameMsg) tea.Cmd {
	if !m.frames.run(msg.handle) {
		return nil // cancelled or stale frame
	}
	if err := m.sess.Err(); err != nil {
		return m.fail(err)
	}
	m.syncViewport()
	return nil
}
