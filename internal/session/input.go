// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package session

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// HandleKey routes one keystroke. While an animation runs only Ctrl+C is
// honored. The returned error is a configuration error surfaced by dispatch.
func (s *Session) HandleKey(k Key) error {
	if s.st.animating {
		if k.IsInterrupt() {
			s.Interrupt()
		}
		return nil
	}

	switch k.Type {
	case KeyBackspace:
		s.handleBackspace()
	case KeyEnter:
		return s.handleReturn()
	case KeyUp, KeyDown, KeyLeft, KeyRight:
		// no history or cursor movement
	case KeyRune:
		if k.IsPrintable() {
			s.handleInput(k.Rune)
		}
	}
	return nil
}

func (s *Session) handleInput(r rune) {
	s.out.Write(string(r))
	s.st.input = append(s.st.input, r)
	s.st.cursorColumn++
}

func (s *Session) handleBackspace() {
	if s.st.cursorColumn <= s.promptLen || len(s.st.input) == 0 {
		return
	}
	last := s.st.input[len(s.st.input)-1]
	s.st.input = s.st.input[:len(s.st.input)-1]
	s.st.cursorColumn--

	cells := runewidth.RuneWidth(last)
	if cells < 1 {
		cells = 1
	}
	back := strings.Repeat("\b", cells)
	s.out.Write(back + strings.Repeat(" ", cells) + back)
}

func (s *Session) handleReturn() error {
	s.out.WriteLine("")
	err := s.dispatch(strings.TrimSpace(string(s.st.input)))
	s.st.input = nil
	s.st.cursorColumn = s.promptLen
	if !s.st.animating {
		s.writePrompt()
	}
	return err
}
