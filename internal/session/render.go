// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package session

import (
	"errors"
	"fmt"
	"strings"

	"cv-terminal/internal/config"
)

// typedText is what the animator writes for text once every frame has run.
func typedText(text string) string {
	return strings.ReplaceAll(text, "\n", "\n\r") + "\r\n"
}

// RenderSection returns the output of a section command without animation,
// byte for byte what the animator would have written.
func RenderSection(cfg *config.CV, id string) (string, error) {
	lines, ok := cfg.Section(id)
	if !ok {
		return "", &config.ConfigurationError{Field: "cv", Reason: fmt.Sprintf("section %q is not defined", id)}
	}
	return SectionHeader(id) + "\r\n" + typedText(SectionBody(lines)), nil
}

// RenderFullCV returns every section in fullcv order without animation.
func RenderFullCV(cfg *config.CV) (string, error) {
	var b strings.Builder
	for _, id := range cfg.Sections {
		out, err := RenderSection(cfg, id)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// RenderHelp returns the help listing without animation.
func RenderHelp(cfg *config.CV) string {
	return typedText(HelpText(cfg))
}

// ErrUnknownCommand is returned by RenderCommand for text that matches no command.
var ErrUnknownCommand = errors.New("command not recognized")

// RenderCommand resolves text like the dispatcher does and returns the
// finished output of that command.
func RenderCommand(cfg *config.CV, text string) (string, error) {
	a := Resolve(cfg, text)
	switch a.Kind {
	case ActionHelp:
		return RenderHelp(cfg), nil
	case ActionFullCV:
		return RenderFullCV(cfg)
	case ActionSection:
		return RenderSection(cfg, a.Section)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, a.Input)
	}
}
