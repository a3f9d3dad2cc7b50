// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"cv-terminal/internal/session"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// --- Update Handlers ---

// handleKeys handles the TUI's own bindings and feeds every other key to the
// session.
func (m *Model) handleKeys(msg tea.KeyMsg) []tea.Cmd {
	if m.currentState == stateFailed {
		return []tea.Cmd{tea.Quit}
	}

	keys := translateKey(msg)
	switch {
	case key.Matches(msg, m.keymap.Interrupt):
		keys = []session.Key{session.CtrlKey('c')}
	case key.Matches(msg, m.keymap.Quit):
		return []tea.Cmd{tea.Quit}
	case key.Matches(msg, m.keymap.ScrollUp):
		m.viewport.ViewUp()
		return nil
	case key.Matches(msg, m.keymap.ScrollDown):
		m.viewport.ViewDown()
		return nil
	}

	for _, k := range keys {
		if err := m.sess.HandleKey(k); err != nil {
			return []tea.Cmd{m.fail(err)}
		}
	}
	m.syncViewport()
	return nil
}
