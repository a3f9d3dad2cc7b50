// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package session

import (
	"fmt"
	"strings"

	"cv-terminal/internal/config"
)

// ActionKind is the resolved meaning of a submitted command.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionHelp
	ActionFullCV
	ActionSection
)

func (k ActionKind) String() string {
	switch k {
	case ActionHelp:
		return "help"
	case ActionFullCV:
		return "fullcv"
	case ActionSection:
		return "section"
	default:
		return "unknown"
	}
}

// Action is a submitted command resolved against the configuration.
type Action struct {
	Kind    ActionKind
	Input   string // trimmed text as typed
	Section string // set for ActionSection
}

// Resolve maps submitted text to an action. Surrounding whitespace is ignored.
func Resolve(cfg *config.CV, text string) Action {
	text = strings.TrimSpace(text)
	if !cfg.HasCommand(text) {
		return Action{Kind: ActionUnknown, Input: text}
	}
	switch text {
	case config.HelpCommand:
		return Action{Kind: ActionHelp, Input: text}
	case config.FullCVCommand:
		return Action{Kind: ActionFullCV, Input: text}
	default:
		return Action{Kind: ActionSection, Input: text, Section: text}
	}
}

// HelpText is the listing the help command types out.
func HelpText(cfg *config.CV) string {
	var b strings.Builder
	b.WriteString("\n  AVAILABLE COMMANDS:\n\n")
	for _, cmd := range cfg.Commands {
		b.WriteString("- ")
		b.WriteString(cmd)
		b.WriteString("\n")
	}
	return b.String()
}

// SectionHeader is the line written before a section is typed.
func SectionHeader(id string) string {
	return "\n  " + strings.ToUpper(id)
}

// SectionBody is the text typed for a section.
func SectionBody(lines []string) string {
	return "\r\n" + strings.Join(lines, "\n")
}

func (s *Session) dispatch(text string) error {
	action := Resolve(s.cfg, text)
	s.observer.CommandDispatched(action)

	switch action.Kind {
	case ActionHelp:
		s.animate(HelpText(s.cfg), s.writePrompt)
	case ActionFullCV:
		return s.startFullCV()
	case ActionSection:
		return s.writeSection(action.Section)
	default:
		s.writeUnknown(action.Input)
	}
	return nil
}

func (s *Session) writeUnknown(text string) {
	s.out.WriteLine(" ERROR: Command not recognized: " + text + "!")
	s.out.WriteLine("Type 'help' to see available commands.")
}

func (s *Session) writeSection(id string) error {
	lines, ok := s.cfg.Section(id)
	if !ok {
		return &config.ConfigurationError{Field: "cv", Reason: fmt.Sprintf("section %q is not defined", id)}
	}
	s.out.WriteLine(SectionHeader(id))
	s.animate(SectionBody(lines), s.sectionDone)
	return nil
}

func (s *Session) sectionDone() {
	if s.st.fullCV {
		s.advanceFullCV()
		return
	}
	s.writePrompt()
}
