// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import "cv-terminal/internal/session"

// frameMsg is one animation frame. handle says which frame request it
// answers, so frames for a cancelled request are dropped.
type frameMsg struct {
	handle session.FrameHandle
}
