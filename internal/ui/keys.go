// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// This file defines the keyboard bindings for the TUI and the translation of
// Bubble Tea key messages into session keys.

package ui

import (
	"cv-terminal/internal/session"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines the keys the TUI handles itself. Everything else goes to
// the session.
type KeyMap struct {
	Interrupt  key.Binding // Cancel the running animation
	Quit       key.Binding // Leave the TUI
	ScrollUp   key.Binding // Page up through scrollback
	ScrollDown key.Binding // Page down through scrollback
}

// DefaultKeyMap provides the default keybindings.
var DefaultKeyMap = KeyMap{
	Interrupt: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "interrupt"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "scroll down"),
	),
}

// footerBindings are listed in the status bar, in order.
func (k KeyMap) footerBindings() []key.Binding {
	return []key.Binding{k.Interrupt, k.ScrollUp, k.ScrollDown, k.Quit}
}

// translateKey converts a Bubble Tea key message into session keys. Pasted
// text arrives as one message with many runes. Interrupt comes from the
// KeyMap, so ctrl+c is not special here.
func translateKey(msg tea.KeyMsg) []session.Key {
	switch msg.Type {
	case tea.KeyEnter:
		return []session.Key{{Type: session.KeyEnter}}
	case tea.KeyBackspace, tea.KeyCtrlH:
		return []session.Key{{Type: session.KeyBackspace}}
	case tea.KeyUp:
		return []session.Key{{Type: session.KeyUp}}
	case tea.KeyDown:
		return []session.Key{{Type: session.KeyDown}}
	case tea.KeyLeft:
		return []session.Key{{Type: session.KeyLeft}}
	case tea.KeyRight:
		return []session.Key{{Type: session.KeyRight}}
	case tea.KeySpace:
		return []session.Key{{Type: session.KeyRune, Rune: ' ', Alt: msg.Alt}}
	case tea.KeyRunes:
		keys := make([]session.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			keys = append(keys, session.Key{Type: session.KeyRune, Rune: r, Alt: msg.Alt})
		}
		return keys
	default:
		return []session.Key{{Type: session.KeyOther}}
	}
}
