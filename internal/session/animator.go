// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package session

// typingTask is the text being typed and what to run once it is all out.
type typingTask struct {
	text []rune
	pos  int
	done func()
}

// InterruptedNotice is written when Ctrl+C cancels an animation.
const InterruptedNotice = "\r\n\nInterrupted\r\n\n"

func (s *Session) animate(text string, done func()) {
	s.st.animating = true
	s.task = &typingTask{text: []rune(text), done: done}
	s.scheduleStep()
}

func (s *Session) scheduleStep() {
	s.st.pending = s.sched.RequestFrame(s.step)
}

// step runs on one frame: it writes a single rune, or finishes the task.
func (s *Session) step() {
	s.st.pending = 0
	if s.st.interrupted {
		s.abortAnimation()
		return
	}
	t := s.task
	if t == nil {
		return
	}

	if t.pos < len(t.text) {
		r := t.text[t.pos]
		t.pos++
		s.out.Write(string(r))
		if r == '\n' {
			s.out.Write("\r")
		}
		s.scheduleStep()
		return
	}

	s.out.WriteLine("")
	s.task = nil
	s.st.animating = false
	if t.done != nil {
		t.done()
	}
}

// Interrupt cancels the running animation. The pending frame is revoked and
// the animator observes the flag immediately instead of on the next frame.
func (s *Session) Interrupt() {
	if !s.st.animating {
		return
	}
	s.st.interrupted = true
	if s.st.pending != 0 {
		s.sched.CancelFrame(s.st.pending)
		s.st.pending = 0
	}
	s.step()
}

func (s *Session) abortAnimation() {
	s.st.interrupted = false
	s.st.animating = false
	s.task = nil
	s.resetFullCV()
	s.out.Write(InterruptedNotice)
	s.writePrompt()
	s.observer.AnimationInterrupted()
}
