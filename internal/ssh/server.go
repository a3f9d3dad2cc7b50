// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package ssh serves the CV terminal over SSH. Every session channel gets its
// own CV session: a shell request runs the animated terminal, an exec request
// prints the named sections and exits.
package ssh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"cv-terminal/internal/config"
	"cv-terminal/internal/logger"
	"cv-terminal/internal/metrics"
	"cv-terminal/internal/session"
	"cv-terminal/internal/stream"

	"golang.org/x/crypto/ssh"
)

const transport = "ssh"

// handshakeTimeout bounds how long a client may take to finish the SSH handshake.
const handshakeTimeout = 10 * time.Second

// Options tune a Server. The zero value is usable.
type Options struct {
	FrameInterval time.Duration
	MaxSessions   int // 0 means unlimited
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
}

// Server accepts SSH connections and runs CV sessions on them.
// Authentication is not required; every visitor sees the same CV.
type Server struct {
	cfg    *config.CV
	config *ssh.ServerConfig
	opts   Options
	log    *slog.Logger
	slots  chan struct{}

	conns map[*ssh.ServerConn]struct{} // open connections, closed on shutdown
	mu    sync.Mutex
	wg    sync.WaitGroup
}

// NewServer creates a server presenting hostKey to clients.
func NewServer(cfg *config.CV, hostKey ssh.Signer, opts Options) *Server {
	sc := &ssh.ServerConfig{
		NoClientAuth:  true,
		ServerVersion: "SSH-2.0-cv-terminal",
	}
	sc.AddHostKey(hostKey)

	log := opts.Logger
	if log == nil {
		log = logger.With("host", transport)
	}

	s := &Server{
		cfg:    cfg,
		config: sc,
		opts:   opts,
		log:    log,
		conns:  make(map[*ssh.ServerConn]struct{}),
	}
	if opts.MaxSessions > 0 {
		s.slots = make(chan struct{}, opts.MaxSessions)
	}
	return s
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.log.Info("SSH server listening", "addr", ln.Addr().String())
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done. On shutdown every open
// connection is closed and Serve waits for its sessions to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	defer s.wg.Wait()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.CloseAll()
				return nil
			}
			return fmt.Errorf("failed to accept connection: %w", err)
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

// CloseAll closes every open connection.
func (s *Server) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.log.Debug("Error closing SSH connection", "remote", conn.RemoteAddr().String(), "error", err)
		}
		delete(s.conns, conn)
	}
}

func (s *Server) track(conn *ssh.ServerConn, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if open {
		s.conns[conn] = struct{}{}
	} else {
		delete(s.conns, conn)
	}
}

func (s *Server) acquire() bool {
	if s.slots == nil {
		return true
	}
	select {
	case s.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *Server) release() {
	if s.slots != nil {
		<-s.slots
	}
}

func (s *Server) handleConn(ctx context.Context, nConn net.Conn) {
	// Shutdown must reach connections still in the handshake, which are not
	// tracked yet.
	stop := context.AfterFunc(ctx, func() { nConn.Close() })
	defer stop()

	_ = nConn.SetDeadline(time.Now().Add(handshakeTimeout))
	sconn, chans, reqs, err := ssh.NewServerConn(nConn, s.config)
	if err != nil {
		s.log.Debug("SSH handshake failed", "remote", nConn.RemoteAddr().String(), "error", err)
		nConn.Close()
		return
	}
	_ = nConn.SetDeadline(time.Time{})
	s.track(sconn, true)
	defer s.track(sconn, false)
	defer sconn.Close()
	if ctx.Err() != nil {
		return
	}

	log := s.log.With("remote", sconn.RemoteAddr().String(), "user", sconn.User())
	log.Info("SSH connection opened", "client", string(sconn.ClientVersion()))
	go ssh.DiscardRequests(reqs)

	var wg sync.WaitGroup
	for nc := range chans {
		if nc.ChannelType() != "session" {
			_ = nc.Reject(ssh.UnknownChannelType, "only session channels are supported")
			continue
		}
		if !s.acquire() {
			if s.opts.Metrics != nil {
				s.opts.Metrics.SessionRejected(transport)
			}
			log.Warn("Session rejected, server at capacity", "max", s.opts.MaxSessions)
			_ = nc.Reject(ssh.ResourceShortage, "too many sessions")
			continue
		}
		ch, requests, err := nc.Accept()
		if err != nil {
			s.release()
			log.Warn("Failed to accept session channel", "error", err)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer s.release()
			s.handleSession(ctx, ch, requests, log)
		}()
	}
	wg.Wait()
	log.Info("SSH connection closed")
}

// handleSession answers setup requests until the client asks for a shell or
// an exec, then serves that and closes the channel.
func (s *Server) handleSession(ctx context.Context, ch ssh.Channel, reqs <-chan *ssh.Request, log *slog.Logger) {
	defer ch.Close()

	for req := range reqs {
		switch req.Type {
		case "pty-req", "window-change":
			// The stream runner emits plain \r\n text, so the size is only informative.
			reply(req, true)
		case "env":
			var kv struct{ Name, Value string }
			if err := ssh.Unmarshal(req.Payload, &kv); err == nil {
				log.Debug("Client environment", "name", kv.Name)
			}
			reply(req, true)
		case "shell":
			reply(req, true)
			go drainRequests(reqs)
			sendExitStatus(ch, s.runShell(ctx, ch, log))
			return
		case "exec":
			var payload struct{ Command string }
			if err := ssh.Unmarshal(req.Payload, &payload); err != nil {
				reply(req, false)
				continue
			}
			reply(req, true)
			go drainRequests(reqs)
			sendExitStatus(ch, s.runExec(ch, payload.Command, log))
			return
		default:
			reply(req, false)
		}
	}
}

func (s *Server) runShell(ctx context.Context, ch ssh.Channel, log *slog.Logger) uint32 {
	observers := session.Observers{session.LogObserver{Logger: log}}
	if m := s.opts.Metrics; m != nil {
		done := m.SessionStarted(transport)
		defer done()
		observers = append(observers, m)
	}

	log.Info("Shell session started")
	err := stream.Run(ctx, s.cfg, ch, stream.Options{
		FrameInterval: s.opts.FrameInterval,
		Observer:      observers,
		Logger:        log,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Shell session failed", "error", err)
		return 1
	}
	log.Info("Shell session ended")
	return 0
}

// runExec prints each named command without animation. No arguments prints
// the help listing.
func (s *Server) runExec(ch ssh.Channel, command string, log *slog.Logger) uint32 {
	names := strings.Fields(command)
	if len(names) == 0 {
		names = []string{config.HelpCommand}
	}
	log.Info("Exec request", "command", command)

	var status uint32
	for _, name := range names {
		out, err := session.RenderCommand(s.cfg, name)
		if err != nil {
			status = 1
			if errors.Is(err, session.ErrUnknownCommand) {
				fmt.Fprintf(ch.Stderr(), " ERROR: Command not recognized: %s!\r\nType 'help' to see available commands.\r\n", name)
				continue
			}
			log.Error("Exec failed", "command", name, "error", err)
			fmt.Fprintf(ch.Stderr(), "error: %v\r\n", err)
			continue
		}
		if _, err := io.WriteString(ch, out); err != nil {
			log.Debug("Exec output dropped", "error", err)
			return 1
		}
	}
	return status
}

func reply(req *ssh.Request, ok bool) {
	if req.WantReply {
		_ = req.Reply(ok, nil)
	}
}

// drainRequests keeps answering requests that arrive after the session started.
func drainRequests(reqs <-chan *ssh.Request) {
	for req := range reqs {
		reply(req, req.Type == "window-change")
	}
}

func sendExitStatus(ch ssh.Channel, status uint32) {
	payload := ssh.Marshal(struct{ Status uint32 }{status})
	_, _ = ch.SendRequest("exit-status", false, payload)
}
