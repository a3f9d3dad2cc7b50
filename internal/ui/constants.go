// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import "time"

// state represents the different views of the TUI.
type state int

const (
	stateWaitingForSize state = iota // no WindowSizeMsg yet
	stateTerminal
	stateFailed // the session stopped on a configuration error
)

const (
	headerHeight = 1 // Title line.
	footerHeight = 1 // Key help line.

	// DefaultFrameInterval approximates one display refresh at 60 Hz.
	DefaultFrameInterval = 16 * time.Millisecond
)
