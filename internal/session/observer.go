// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package session

import "log/slog"

// Observer is told about session events. Hosts use it for logging and metrics.
type Observer interface {
	CommandDispatched(a Action)
	AnimationInterrupted()
}

type nopObserver struct{}

func (nopObserver) CommandDispatched(Action) {}
func (nopObserver) AnimationInterrupted()    {}

// Observers fans events out to several observers.
type Observers []Observer

func (o Observers) CommandDispatched(a Action) {
	for _, obs := range o {
		obs.CommandDispatched(a)
	}
}

func (o Observers) AnimationInterrupted() {
	for _, obs := range o {
		obs.AnimationInterrupted()
	}
}

// LogObserver logs dispatched commands at debug level and interruptions at info.
type LogObserver struct {
	Logger *slog.Logger
}

func (l LogObserver) CommandDispatched(a Action) {
	l.Logger.Debug("command dispatched", "kind", a.Kind.String(), "input", a.Input)
}

func (l LogObserver) AnimationInterrupted() {
	l.Logger.Info("animation interrupted")
}
