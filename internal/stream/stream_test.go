package stream

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"cv-terminal/internal/config"
	"cv-terminal/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pipeConn struct {
	io.Reader
	io.Writer
}

type syncBuffer struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

type client struct {
	in     *io.PipeWriter
	output *syncBuffer
	done   chan error
	cancel context.CancelFunc
}

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testCV() *config.CV {
	return &config.CV{
		Commands: []string{"about", "fullcv", "help"},
		Sections: []string{"about"},
		Content:  map[string][]string{"about": {"Line1", "Line2"}},
		Prompt:   "root > ",
		Welcome:  []string{"Hello There..."},
	}
}

func startSession(t *testing.T, cfg *config.CV, obs session.Observer) *client {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	c := &client{in: inW, output: &syncBuffer{}, done: make(chan error, 1)}

	go func() { _, _ = io.Copy(c.output, outR) }()

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go func() {
		c.done <- Run(ctx, cfg, pipeConn{Reader: inR, Writer: outW}, Options{
			FrameInterval: time.Millisecond,
			Observer:      obs,
			Logger:        quietLogger,
		})
		outW.Close()
	}()

	t.Cleanup(func() {
		cancel()
		inW.Close()
	})
	return c
}

func (c *client) send(t *testing.T, s string) {
	t.Helper()
	_, err := c.in.Write([]byte(s))
	require.NoError(t, err)
}

func (c *client) waitFor(t *testing.T, substr string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return strings.Contains(c.output.String(), substr)
	}, 5*time.Second, 2*time.Millisecond, "output never contained %q; got %q", substr, c.output.String())
}

func (c *client) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-c.done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop")
		return nil
	}
}

type recordingObserver struct {
	mu      sync.Mutex
	actions []session.Action
}

func (r *recordingObserver) CommandDispatched(a session.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
}

func (r *recordingObserver) AnimationInterrupted() {}

func TestRun_TypesSectionAndQuits(t *testing.T) {
	obs := &recordingObserver{}
	c := startSession(t, testCV(), obs)
	c.waitFor(t, "Hello There...\r\nroot > ")

	c.send(t, "about\r")
	c.waitFor(t, "Line2\r\nroot > ")

	out := c.output.String()
	assert.Contains(t, out, "root > about\r\n\n  ABOUT\r\n\r\n\rLine1\n\rLine2\r\nroot > ")

	c.send(t, "\x04")
	assert.NoError(t, c.wait(t))

	obs.mu.Lock()
	defer obs.mu.Unlock()
	require.Len(t, obs.actions, 1)
	assert.Equal(t, session.ActionSection, obs.actions[0].Kind)
}

func TestRun_InterruptStopsTyping(t *testing.T) {
	cfg := testCV()
	cfg.Content["about"] = []string{strings.Repeat("x", 5000)}
	c := startSession(t, cfg, nil)
	c.waitFor(t, "root > ")

	c.send(t, "about\r")
	c.waitFor(t, "xxx")
	c.send(t, "\x03")
	c.waitFor(t, "Interrupted\r\n\nroot > ")

	assert.NotContains(t, c.output.String(), strings.Repeat("x", 5000))
}

func TestRun_UnknownCommand(t *testing.T) {
	c := startSession(t, testCV(), nil)
	c.waitFor(t, "root > ")
	c.send(t, "xyz\r")
	c.waitFor(t, " ERROR: Command not recognized: xyz!\r\nType 'help' to see available commands.\r\nroot > ")
}

func TestRun_PeerCloseEndsSession(t *testing.T) {
	c := startSession(t, testCV(), nil)
	c.waitFor(t, "root > ")
	require.NoError(t, c.in.Close())
	assert.NoError(t, c.wait(t))
}

func TestRun_ContextCancel(t *testing.T) {
	c := startSession(t, testCV(), nil)
	c.waitFor(t, "root > ")
	c.cancel()
	assert.ErrorIs(t, c.wait(t), context.Canceled)
}

func TestRun_InvalidConfiguration(t *testing.T) {
	cfg := testCV()
	cfg.Commands = []string{"about"}
	err := Run(context.Background(), cfg, pipeConn{Reader: strings.NewReader(""), Writer: io.Discard}, Options{Logger: quietLogger})
	var cfgErr *config.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestFrameScheduler(t *testing.T) {
	var f frameScheduler
	assert.False(t, f.runFrame())

	ran := 0
	h := f.RequestFrame(func() { ran++ })
	f.CancelFrame(h + 1)
	assert.True(t, f.runFrame())
	assert.Equal(t, 1, ran)

	h = f.RequestFrame(func() { ran++ })
	f.CancelFrame(h)
	assert.False(t, f.runFrame())
	assert.Equal(t, 1, ran)
}
