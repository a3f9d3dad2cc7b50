// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package stream runs a CV session over a raw byte stream, such as an SSH
// channel or a websocket. The remote terminal does the rendering; this side
// decodes keys, runs animation frames on a ticker and writes VT text back.
package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"cv-terminal/internal/config"
	"cv-terminal/internal/logger"
	"cv-terminal/internal/session"
)

// DefaultFrameInterval approximates a 60 Hz display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// Options tune a stream session.
type Options struct {
	FrameInterval time.Duration
	Observer      session.Observer
	Logger        *slog.Logger
}

// bufferedSurface collects a burst of writes so each key or frame becomes a
// single write on the connection.
type bufferedSurface struct {
	buf bytes.Buffer
}

func (b *bufferedSurface) Write(text string)     { b.buf.WriteString(text) }
func (b *bufferedSurface) WriteLine(text string) { b.buf.WriteString(text + "\r\n") }

func (b *bufferedSurface) flush(w io.Writer) error {
	if b.buf.Len() == 0 {
		return nil
	}
	_, err := w.Write(b.buf.Bytes())
	b.buf.Reset()
	return err
}

// frameScheduler holds at most one pending step, which is all a session
// ever requests.
type frameScheduler struct {
	next   session.FrameHandle
	handle session.FrameHandle
	step   func()
}

func (f *frameScheduler) RequestFrame(step func()) session.FrameHandle {
	f.next++
	f.handle = f.next
	f.step = step
	return f.handle
}

func (f *frameScheduler) CancelFrame(h session.FrameHandle) {
	if h == f.handle {
		f.handle = 0
		f.step = nil
	}
}

// runFrame runs the pending step, if any.
func (f *frameScheduler) runFrame() bool {
	if f.step == nil {
		return false
	}
	step := f.step
	f.handle = 0
	f.step = nil
	step()
	return true
}

type readResult struct {
	data []byte
	err  error
}

// Run drives one session over rw until ctx ends, the peer closes the stream
// or the visitor presses Ctrl+D. Closing the underlying connection is the
// caller's job; it also releases the reader goroutine.
func Run(ctx context.Context, cfg *config.CV, rw io.ReadWriter, opts Options) error {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	log := opts.Logger
	if log == nil {
		log = logger.Logger()
	}

	out := &bufferedSurface{}
	sched := &frameScheduler{}
	s, err := session.New(cfg, out, sched, session.WithObserver(opts.Observer))
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	s.Start()
	if err := out.flush(rw); err != nil {
		return fmt.Errorf("failed to write welcome: %w", err)
	}

	reads := make(chan readResult)
	go func() {
		buf := make([]byte, 1024)
		for {
			n, err := rw.Read(buf)
			if n > 0 {
				data := append([]byte(nil), buf[:n]...)
				select {
				case reads <- readResult{data: data}:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				select {
				case reads <- readResult{err: err}:
				case <-ctx.Done():
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(opts.FrameInterval)
	defer ticker.Stop()

	var dec Decoder
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case res := <-reads:
			if res.err != nil {
				if errors.Is(res.err, io.EOF) {
					log.Debug("stream closed by peer")
					return nil
				}
				return fmt.Errorf("failed to read input: %w", res.err)
			}
			for _, k := range dec.Feed(res.data) {
				if k.Type == session.KeyRune && k.Ctrl && (k.Rune == 'd' || k.Rune == 'D') {
					out.WriteLine("")
					return out.flush(rw)
				}
				if err := s.HandleKey(k); err != nil {
					log.Error("session stopped on configuration error", "error", err)
					_ = out.flush(rw)
					return err
				}
			}
			if err := out.flush(rw); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}

		case <-ticker.C:
			for _, k := range dec.Flush() {
				if err := s.HandleKey(k); err != nil {
					return err
				}
			}
			if !sched.runFrame() {
				continue
			}
			if err := s.Err(); err != nil {
				log.Error("full CV aborted on configuration error", "error", err)
				_ = out.flush(rw)
				return err
			}
			if err := out.flush(rw); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}
}
