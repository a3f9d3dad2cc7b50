// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package session implements the CV terminal interaction: the line input
// buffer and key router, the command dispatcher, the typing animator and the
// full-CV sequencer. It owns no goroutines; the host delivers keys and runs
// scheduled frame steps on a single goroutine.
package session

import (
	"errors"

	"cv-terminal/internal/config"
)

// state is everything a session mutates. It lives for the whole session.
type state struct {
	input         []rune
	cursorColumn  int
	animating     bool
	interrupted   bool
	fullCV        bool
	sectionCursor int
	pending       FrameHandle
}

// State is a read-only snapshot of a session's state.
type State struct {
	InputBuffer   string
	CursorColumn  int
	IsAnimating   bool
	Interrupted   bool
	FullCVActive  bool
	SectionCursor int
	PendingFrame  FrameHandle
}

// Session is one visitor's terminal. It is not safe for concurrent use.
type Session struct {
	cfg       *config.CV
	out       Surface
	sched     Scheduler
	observer  Observer
	promptLen int

	st      state
	task    *typingTask
	lastErr error
}

// Option configures a Session.
type Option func(*Session)

// WithObserver registers an observer for dispatch and interrupt events.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		if o != nil {
			s.observer = o
		}
	}
}

// New builds a session. The configuration is validated first so a bad CV is
// refused before anything is written.
func New(cfg *config.CV, out Surface, sched Scheduler, opts ...Option) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("session: nil configuration")
	}
	if out == nil || sched == nil {
		return nil, errors.New("session: surface and scheduler are required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:       cfg,
		out:       out,
		sched:     sched,
		observer:  nopObserver{},
		promptLen: cfg.PromptLength(),
	}
	s.st.cursorColumn = s.promptLen
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start writes the welcome banner and the first prompt.
func (s *Session) Start() {
	for _, line := range s.cfg.Welcome {
		s.out.WriteLine(line)
	}
	s.writePrompt()
}

// State returns a snapshot of the session state.
func (s *Session) State() State {
	return State{
		InputBuffer:   string(s.st.input),
		CursorColumn:  s.st.cursorColumn,
		IsAnimating:   s.st.animating,
		Interrupted:   s.st.interrupted,
		FullCVActive:  s.st.fullCV,
		SectionCursor: s.st.sectionCursor,
		PendingFrame:  s.st.pending,
	}
}

// IsAnimating reports whether the typing animator is producing output.
func (s *Session) IsAnimating() bool {
	return s.st.animating
}

// Err returns the configuration error that aborted a full-CV run inside a
// frame step, if any. Hosts check it after running frames.
func (s *Session) Err() error {
	return s.lastErr
}

func (s *Session) writePrompt() {
	s.out.Write(s.cfg.Prompt)
}

func (s *Session) fail(err error) {
	s.lastErr = err
	s.resetFullCV()
	s.writePrompt()
}
