// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package session

import "unicode"

// Surface is the text terminal a session writes to. Text may contain \r, \n
// and \b, which the host interprets like a VT terminal would.
type Surface interface {
	Write(text string)
	WriteLine(text string)
}

// FrameHandle identifies a pending frame request. The zero value means none.
type FrameHandle uint64

// Scheduler runs steps on the host's animation frames, one step per frame.
// Steps run on the same goroutine that delivers keys to the session.
type Scheduler interface {
	RequestFrame(step func()) FrameHandle
	CancelFrame(h FrameHandle)
}

// KeyType classifies a key event.
type KeyType int

const (
	KeyRune KeyType = iota
	KeyEnter
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyOther
)

// Key is one discrete keystroke as decoded by the host.
type Key struct {
	Type  KeyType
	Rune  rune
	Ctrl  bool
	Alt   bool
	Meta  bool
	Shift bool
}

// RuneKey is a plain character key.
func RuneKey(r rune) Key {
	return Key{Type: KeyRune, Rune: r}
}

// CtrlKey is Ctrl plus a character, e.g. CtrlKey('c').
func CtrlKey(r rune) Key {
	return Key{Type: KeyRune, Rune: r, Ctrl: true}
}

// IsInterrupt reports whether k is Ctrl+C.
func (k Key) IsInterrupt() bool {
	return k.Type == KeyRune && k.Ctrl && unicode.ToLower(k.Rune) == 'c'
}

// IsPrintable reports whether k inserts a character. Shift is the only
// modifier allowed.
func (k Key) IsPrintable() bool {
	return k.Type == KeyRune && !k.Ctrl && !k.Alt && !k.Meta && unicode.IsPrint(k.Rune)
}
