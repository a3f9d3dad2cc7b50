// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"time"

	"cv-terminal/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// frameCmd delivers a frameMsg for handle after interval.
func frameCmd(handle session.FrameHandle, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return frameMsg{handle: handle}
	})
}
