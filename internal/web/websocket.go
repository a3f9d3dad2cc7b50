// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package web

import (
	"errors"
	"io"
	"net/http"
	"time"

	"cv-terminal/internal/session"
	"cv-terminal/internal/stream"

	"github.com/gorilla/websocket"
)

const transport = "websocket"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// wsConn presents a websocket as a byte stream. Keystrokes arrive as text or
// binary messages; output goes out as one text message per write.
type wsConn struct {
	conn *websocket.Conn
	r    io.Reader
}

func (c *wsConn) Read(p []byte) (int, error) {
	for {
		if c.r == nil {
			mt, r, err := c.conn.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
					return 0, io.EOF
				}
				return 0, err
			}
			if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
				continue
			}
			c.r = r
		}
		n, err := c.r.Read(p)
		if errors.Is(err, io.EOF) {
			c.r = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (c *wsConn) Write(p []byte) (int, error) {
	if err := c.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// handleWebsocket runs one CV session per websocket connection.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	if !s.acquire() {
		if s.opts.Metrics != nil {
			s.opts.Metrics.SessionRejected(transport)
		}
		s.log.Warn("Websocket session rejected, server at capacity", "max", s.opts.MaxSessions)
		http.Error(w, "too many sessions", http.StatusServiceUnavailable)
		return
	}
	defer s.release()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("Websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	log := s.log.With("remote", r.RemoteAddr)
	observers := session.Observers{session.LogObserver{Logger: log}}
	if m := s.opts.Metrics; m != nil {
		done := m.SessionStarted(transport)
		defer done()
		observers = append(observers, m)
	}

	log.Info("Websocket session started")
	err = stream.Run(r.Context(), s.cfg, &wsConn{conn: conn}, stream.Options{
		FrameInterval: s.opts.FrameInterval,
		Observer:      observers,
		Logger:        log,
	})
	if err != nil && r.Context().Err() == nil {
		log.Error("Websocket session failed", "error", err)
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	log.Info("Websocket session ended")
}
