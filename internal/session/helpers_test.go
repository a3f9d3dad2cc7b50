package session

import (
	"strings"
	"testing"

	"cv-terminal/internal/config"

	"github.com/stretchr/testify/require"
)

// recordingSurface keeps everything written, plus each Write call separately.
type recordingSurface struct {
	b      strings.Builder
	writes []string
}

func (r *recordingSurface) Write(text string) {
	r.b.WriteString(text)
	r.writes = append(r.writes, text)
}

func (r *recordingSurface) WriteLine(text string) {
	r.Write(text + "\r\n")
}

func (r *recordingSurface) String() string { return r.b.String() }

// since returns the output written after mark.
func (r *recordingSurface) since(mark int) string { return r.b.String()[mark:] }

func (r *recordingSurface) mark() int { return r.b.Len() }

// manualScheduler runs frames only when the test ticks it.
type manualScheduler struct {
	next      FrameHandle
	pending   map[FrameHandle]func()
	order     []FrameHandle
	requested int
	cancelled int
	ran       int
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{pending: make(map[FrameHandle]func())}
}

func (m *manualScheduler) RequestFrame(step func()) FrameHandle {
	m.next++
	m.pending[m.next] = step
	m.order = append(m.order, m.next)
	m.requested++
	return m.next
}

func (m *manualScheduler) CancelFrame(h FrameHandle) {
	if _, ok := m.pending[h]; ok {
		delete(m.pending, h)
		m.cancelled++
	}
}

// Tick runs the oldest pending step. It reports false when nothing is pending.
func (m *manualScheduler) Tick() bool {
	for len(m.order) > 0 {
		h := m.order[0]
		m.order = m.order[1:]
		step, ok := m.pending[h]
		if !ok {
			continue
		}
		delete(m.pending, h)
		m.ran++
		step()
		return true
	}
	return false
}

// Drain ticks until no frame is pending and returns the number of frames run.
func (m *manualScheduler) Drain(t *testing.T) int {
	t.Helper()
	n := 0
	for m.Tick() {
		n++
		require.Less(t, n, 100000, "animation never finished")
	}
	return n
}

func (m *manualScheduler) Pending() int { return len(m.pending) }

type countingObserver struct {
	actions     []Action
	interrupted int
}

func (c *countingObserver) CommandDispatched(a Action) { c.actions = append(c.actions, a) }
func (c *countingObserver) AnimationInterrupted()      { c.interrupted++ }

func testCV() *config.CV {
	return &config.CV{
		Commands: []string{"about", "fullcv", "help"},
		Sections: []string{"about"},
		Content:  map[string][]string{"about": {"Line1", "Line2"}},
		Prompt:   "root > ",
	}
}

type harness struct {
	s     *Session
	out   *recordingSurface
	sched *manualScheduler
	obs   *countingObserver
}

func newHarness(t *testing.T, cfg *config.CV) *harness {
	t.Helper()
	h := &harness{out: &recordingSurface{}, sched: newManualScheduler(), obs: &countingObserver{}}
	s, err := New(cfg, h.out, h.sched, WithObserver(h.obs))
	require.NoError(t, err)
	h.s = s
	s.Start()
	return h
}

func (h *harness) typeText(t *testing.T, text string) {
	t.Helper()
	for _, r := range text {
		require.NoError(t, h.s.HandleKey(RuneKey(r)))
	}
}

func (h *harness) submit(t *testing.T, text string) {
	t.Helper()
	h.typeText(t, text)
	require.NoError(t, h.s.HandleKey(Key{Type: KeyEnter}))
}
