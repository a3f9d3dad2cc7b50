// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// syncViewport copies the screen buffer into the viewport and follows the
// cursor to the bottom.
func (m *Model) syncViewport() {
	if m.currentState == stateWaitingForSize {
		return
	}
	m.viewport.SetContent(m.renderScreen())
	m.viewport.GotoBottom()
}

// renderScreen renders the buffer with the cursor drawn as a block.
func (m *Model) renderScreen() string {
	lines := m.screen.Lines()
	row, _ := m.screen.Cursor()
	before, at, after := m.screen.SplitAtCursor()
	if at == "" {
		at = " "
	}

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		if i == row {
			b.WriteString(m.theme.text.Render(before))
			b.WriteString(m.theme.cursor.Render(at))
			b.WriteString(m.theme.text.Render(after))
			continue
		}
		b.WriteString(m.theme.text.Render(line))
	}
	return b.String()
}

func (m *Model) renderTerminalView() string {
	header := titleStyle.Render(m.cfg.Terminal.Title)
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), m.renderFooter())
}

func (m *Model) renderFooter() string {
	var parts []string
	for _, b := range m.keymap.footerBindings() {
		h := b.Help()
		parts = append(parts, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, footerSeparatorStyle.Render(" | "))
}

func (m *Model) renderFailedView() string {
	return errorStyle.Render(fmt.Sprintf("Error: %v", m.lastError)) + "\n"
}
