// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package ui is the local terminal host for a CV session, built on Bubble
// Tea. The session writes into a screen buffer which the model renders in a
// scrollable viewport; animation frames are tea.Tick messages.
package ui

import (
	"log/slog"
	"time"

	"cv-terminal/internal/config"
	"cv-terminal/internal/logger"
	"cv-terminal/internal/screen"
	"cv-terminal/internal/session"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the Bubble Tea model of the CV terminal.
type Model struct {
	cfg    *config.CV
	sess   *session.Session
	screen *screen.Buffer
	frames *teaScheduler

	keymap   KeyMap
	theme    theme
	viewport viewport.Model

	currentState  state
	width         int
	height        int
	frameInterval time.Duration
	lastError     error
	log           *slog.Logger
}

// Option configures a Model.
type Option func(*Model)

// WithFrameInterval sets the delay between animation frames.
func WithFrameInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.frameInterval = d
		}
	}
}

// WithLogger sets the logger for session events. The default is the
// application logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.log = l }
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keymap = k }
}

// NewModel creates the model and starts its session, so the welcome banner
// is already on screen.
func NewModel(cfg *config.CV, obs session.Observer, opts ...Option) (*Model, error) {
	m := &Model{
		cfg:           cfg,
		frames:        &teaScheduler{},
		keymap:        DefaultKeyMap,
		frameInterval: DefaultFrameInterval,
		currentState:  stateWaitingForSize,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.log == nil {
		m.log = logger.With("host", "tui")
	}
	m.screen = screen.New(cfg.Terminal.Cols, 0)
	m.theme = newTheme(cfg.Terminal)

	observers := session.Observers{session.LogObserver{Logger: m.log}}
	if obs != nil {
		observers = append(observers, obs)
	}
	sess, err := session.New(cfg, m.screen, m.frames, session.WithObserver(observers))
	if err != nil {
		return nil, err
	}
	m.sess = sess
	m.sess.Start()
	return m, nil
}

// Err returns the error that stopped the session, if any.
func (m *Model) Err() error {
	return m.lastError
}

func (m *Model) Init() tea.Cmd {
	return tea.SetWindowTitle(m.cfg.Terminal.Title)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cmds = append(cmds, handleWindowSizeMsg(m, msg))

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeys(msg)...)

	case frameMsg:
		cmds = append(cmds, handleFrameMsg(m, msg))
	}

	if m.currentState != stateFailed {
		if h := m.frames.needsTick(); h != 0 {
			cmds = append(cmds, frameCmd(h, m.frameInterval))
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) View() string {
	switch m.currentState {
	case stateWaitingForSize:
		return "Initializing..."
	case stateFailed:
		return m.renderFailedView()
	default:
		return m.renderTerminalView()
	}
}

// fail stops the session on a configuration error and quits.
func (m *Model) fail(err error) tea.Cmd {
	m.log.Error("session stopped on configuration error", "error", err)
	m.lastError = err
	m.currentState = stateFailed
	return tea.Quit
}
