// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import "cv-terminal/internal/session"

// teaScheduler records the session's frame request. The model turns it into
// a tea.Tick after each update and runs the step when the tick comes back.
type teaScheduler struct {
	next    session.FrameHandle
	pending session.FrameHandle
	step    func()
	ticking session.FrameHandle // request a tick was already issued for
}

func (t *teaScheduler) RequestFrame(step func()) session.FrameHandle {
	t.next++
	t.pending = t.next
	t.step = step
	return t.pending
}

func (t *teaScheduler) CancelFrame(h session.FrameHandle) {
	if h == t.pending {
		t.pending = 0
		t.step = nil
	}
}

// needsTick returns the handle a tick must be issued for, or 0.
func (t *teaScheduler) needsTick() session.FrameHandle {
	if t.pending == 0 || t.pending == t.ticking {
		return 0
	}
	t.ticking = t.pending
	return t.pending
}

// run executes the step for h if it is still the pending request.
func (t *teaScheduler) run(h session.FrameHandle) bool {
	if h == 0 || h != t.pending {
		return false
	}
	step := t.step
	t.pending = 0
	t.step = nil
	step()
	return true
}
