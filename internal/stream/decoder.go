// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package stream

import (
	"unicode/utf8"

	"cv-terminal/internal/session"
)

const (
	esc = 0x1b
	del = 0x7f

	// maxCSIParams bounds the parameter and intermediate bytes of one
	// escape sequence. Longer sequences are dropped as a single KeyOther.
	maxCSIParams = 32
)

// Decoder turns raw terminal input bytes into key events. It keeps partial
// UTF-8 sequences and escape sequences split across reads.
type Decoder struct {
	pending []byte
	afterCR bool // the last read ended with a CR Enter
}

// Feed decodes as many complete keys as data (plus leftovers) contains.
func (d *Decoder) Feed(data []byte) []session.Key {
	if len(data) == 0 {
		return nil
	}
	if d.afterCR && len(d.pending) == 0 && data[0] == '\n' {
		// second half of a CRLF split across reads
		data = data[1:]
	}
	d.afterCR = false

	buf := append(d.pending, data...)
	d.pending = nil

	var keys []session.Key
	for len(buf) > 0 {
		k, n, ok := decodeOne(buf)
		if !ok {
			d.pending = append([]byte(nil), buf...)
			break
		}
		if n == len(buf) && buf[n-1] == '\r' {
			d.afterCR = true
		}
		buf = buf[n:]
		if k != nil {
			keys = append(keys, *k)
		}
	}
	return keys
}

// Flush gives up on an escape sequence left unfinished by the last read and
// reports it as one key. A partial UTF-8 rune is kept, since the rest may
// still arrive.
func (d *Decoder) Flush() []session.Key {
	if len(d.pending) == 0 || d.pending[0] != esc {
		return nil
	}
	d.pending = nil
	return []session.Key{{Type: session.KeyOther}}
}

// decodeOne decodes the key at the start of buf. ok is false when more bytes
// are needed. A nil key consumes bytes without producing an event.
func decodeOne(buf []byte) (*session.Key, int, bool) {
	b := buf[0]
	switch {
	case b == '\r':
		// CRLF from some clients is a single Enter.
		if len(buf) > 1 && buf[1] == '\n' {
			return &session.Key{Type: session.KeyEnter}, 2, true
		}
		return &session.Key{Type: session.KeyEnter}, 1, true
	case b == '\n':
		return &session.Key{Type: session.KeyEnter}, 1, true
	case b == del || b == '\b':
		return &session.Key{Type: session.KeyBackspace}, 1, true
	case b == esc:
		return decodeEscape(buf)
	case b < 0x20:
		k := session.CtrlKey(rune('a' + b - 1))
		return &k, 1, true
	}

	if !utf8.FullRune(buf) {
		return nil, 0, false
	}
	r, n := utf8.DecodeRune(buf)
	if r == utf8.RuneError && n == 1 {
		return nil, 1, true
	}
	k := session.RuneKey(r)
	return &k, n, true
}

func decodeEscape(buf []byte) (*session.Key, int, bool) {
	if len(buf) < 2 {
		return nil, 0, false
	}
	switch buf[1] {
	case '[', 'O':
		return decodeCSI(buf)
	case esc:
		// Double escape: report the first one alone.
		return &session.Key{Type: session.KeyOther}, 1, true
	}

	// Alt+key arrives as ESC followed by the key.
	k, n, ok := decodeOne(buf[1:])
	if !ok {
		return nil, 0, false
	}
	if k == nil {
		return nil, n + 1, true
	}
	k.Alt = true
	return k, n + 1, true
}

// decodeCSI handles ESC [ ... final and ESC O final sequences. A sequence
// interrupted by a byte outside the CSI range, or longer than maxCSIParams,
// is dropped up to that point and reported as KeyOther.
func decodeCSI(buf []byte) (*session.Key, int, bool) {
	for i := 2; i < len(buf); i++ {
		c := buf[i]
		if c < 0x20 || c > 0x7e {
			return &session.Key{Type: session.KeyOther}, i, true
		}
		if c < 0x40 {
			// parameter or intermediate byte
			if i-2 >= maxCSIParams {
				return &session.Key{Type: session.KeyOther}, i, true
			}
			continue
		}
		k := &session.Key{Type: session.KeyOther}
		switch c {
		case 'A':
			k.Type = session.KeyUp
		case 'B':
			k.Type = session.KeyDown
		case 'C':
			k.Type = session.KeyRight
		case 'D':
			k.Type = session.KeyLeft
		}
		return k, i + 1, true
	}
	return nil, 0, false
}
