package session

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	"cv-terminal/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsInvalidConfiguration(t *testing.T) {
	cfg := testCV()
	cfg.Sections = append(cfg.Sections, "Zane about")

	_, err := New(cfg, &recordingSurface{}, newManualScheduler())
	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "cv_sections", cfgErr.Field)
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(nil, &recordingSurface{}, newManualScheduler())
	assert.Error(t, err)
	_, err = New(testCV(), nil, newManualScheduler())
	assert.Error(t, err)
	_, err = New(testCV(), &recordingSurface{}, nil)
	assert.Error(t, err)
}

func TestStart_WritesWelcomeThenPrompt(t *testing.T) {
	cfg := testCV()
	cfg.Welcome = []string{"Hello There...", "Type 'help' to see available commands."}
	h := newHarness(t, cfg)

	assert.Equal(t, "Hello There...\r\nType 'help' to see available commands.\r\nroot > ", h.out.String())
	st := h.s.State()
	assert.Equal(t, 7, st.CursorColumn)
	assert.False(t, st.IsAnimating)
}

func TestSection_AboutExample(t *testing.T) {
	h := newHarness(t, testCV())
	h.submit(t, "about")

	// Header is written immediately; the body waits for frames.
	assert.Equal(t, "root > about\r\n\n  ABOUT\r\n", h.out.String())
	assert.True(t, h.s.IsAnimating())

	frames := h.sched.Drain(t)
	body := "\r\nLine1\nLine2"
	assert.Equal(t, len([]rune(body))+1, frames, "one frame per rune plus the completion frame")

	assert.Equal(t, "root > about\r\n\n  ABOUT\r\n\r\n\rLine1\n\rLine2\r\nroot > ", h.out.String())
	assert.Equal(t, 1, strings.Count(h.out.String(), "Line1"))
	assert.Equal(t, 1, strings.Count(h.out.String(), "Line2"))
	assert.True(t, strings.HasSuffix(h.out.String(), "root > "))

	st := h.s.State()
	assert.False(t, st.IsAnimating)
	assert.Empty(t, st.InputBuffer)
	assert.Equal(t, 7, st.CursorColumn)
	assert.Equal(t, FrameHandle(0), st.PendingFrame)
}

func TestSection_MatchesStaticRender(t *testing.T) {
	h := newHarness(t, testCV())
	h.typeText(t, "about")
	mark := h.out.mark()
	require.NoError(t, h.s.HandleKey(Key{Type: KeyEnter}))
	h.sched.Drain(t)

	want, err := RenderSection(testCV(), "about")
	require.NoError(t, err)
	assert.Equal(t, "\r\n"+want+"root > ", h.out.since(mark))
}

func TestDispatch_TrimsSurroundingWhitespace(t *testing.T) {
	for _, cmd := range []string{"about", "help", "fullcv"} {
		t.Run(cmd, func(t *testing.T) {
			plain := newHarness(t, testCV())
			plain.typeText(t, cmd)
			plainMark := plain.out.mark()
			require.NoError(t, plain.s.HandleKey(Key{Type: KeyEnter}))
			plain.sched.Drain(t)

			padded := newHarness(t, testCV())
			padded.typeText(t, "  "+cmd+"\t ")
			paddedMark := padded.out.mark()
			require.NoError(t, padded.s.HandleKey(Key{Type: KeyEnter}))
			padded.sched.Drain(t)

			assert.Equal(t, plain.out.since(plainMark), padded.out.since(paddedMark))
			assert.Equal(t, plain.obs.actions, padded.obs.actions)
		})
	}
}

func TestDispatch_UnknownCommand(t *testing.T) {
	h := newHarness(t, testCV())
	before := h.s.State()
	h.typeText(t, "xyz")
	mark := h.out.mark()
	require.NoError(t, h.s.HandleKey(Key{Type: KeyEnter}))

	assert.Equal(t,
		"\r\n ERROR: Command not recognized: xyz!\r\nType 'help' to see available commands.\r\nroot > ",
		h.out.since(mark))
	assert.Equal(t, 0, h.sched.requested, "no animation may start")
	assert.Equal(t, before, h.s.State())
	require.Len(t, h.obs.actions, 1)
	assert.Equal(t, ActionUnknown, h.obs.actions[0].Kind)
	assert.Equal(t, "xyz", h.obs.actions[0].Input)
}

func TestDispatch_EmptyInputIsUnrecognized(t *testing.T) {
	h := newHarness(t, testCV())
	mark := h.out.mark()
	require.NoError(t, h.s.HandleKey(Key{Type: KeyEnter}))
	assert.Equal(t,
		"\r\n ERROR: Command not recognized: !\r\nType 'help' to see available commands.\r\nroot > ",
		h.out.since(mark))
}

func TestHelp_ListsCommandsInOrder(t *testing.T) {
	cfg := testCV()
	cfg.Commands = []string{"help", "fullcv", "about"}
	h := newHarness(t, cfg)
	h.submit(t, "help")
	frames := h.sched.Drain(t)

	text := HelpText(cfg)
	assert.Equal(t, "\n  AVAILABLE COMMANDS:\n\n- help\n- fullcv\n- about\n", text)
	assert.Equal(t, len([]rune(text))+1, frames)
	assert.True(t, strings.HasSuffix(h.out.String(), RenderHelp(cfg)+"root > "))
}

func TestBackspace(t *testing.T) {
	h := newHarness(t, testCV())

	mark := h.out.mark()
	require.NoError(t, h.s.HandleKey(Key{Type: KeyBackspace}))
	assert.Empty(t, h.out.since(mark), "cannot erase into the prompt")
	assert.Equal(t, 7, h.s.State().CursorColumn)

	h.typeText(t, "ab")
	assert.Equal(t, 9, h.s.State().CursorColumn)

	mark = h.out.mark()
	require.NoError(t, h.s.HandleKey(Key{Type: KeyBackspace}))
	st := h.s.State()
	assert.Equal(t, "a", st.InputBuffer)
	assert.Equal(t, 8, st.CursorColumn)
	assert.Equal(t, "\b \b", h.out.since(mark))

	require.NoError(t, h.s.HandleKey(Key{Type: KeyBackspace}))
	require.NoError(t, h.s.HandleKey(Key{Type: KeyBackspace}))
	st = h.s.State()
	assert.Empty(t, st.InputBuffer)
	assert.Equal(t, 7, st.CursorColumn)
}

func TestBackspace_ErasesWideRuneCells(t *testing.T) {
	h := newHarness(t, testCV())
	h.typeText(t, "世")
	mark := h.out.mark()
	require.NoError(t, h.s.HandleKey(Key{Type: KeyBackspace}))
	assert.Equal(t, "\b\b  \b\b", h.out.since(mark))
	assert.Equal(t, 7, h.s.State().CursorColumn)
}

func TestKeys_NonPrintableAndArrowsAreInert(t *testing.T) {
	h := newHarness(t, testCV())
	mark := h.out.mark()
	keys := []Key{
		{Type: KeyUp}, {Type: KeyDown}, {Type: KeyLeft}, {Type: KeyRight}, {Type: KeyOther},
		CtrlKey('c'), CtrlKey('a'),
		{Type: KeyRune, Rune: 'x', Alt: true},
		{Type: KeyRune, Rune: 'x', Meta: true},
		RuneKey('\t'),
	}
	for _, k := range keys {
		require.NoError(t, h.s.HandleKey(k))
	}
	assert.Empty(t, h.out.since(mark))
	assert.Empty(t, h.s.State().InputBuffer)

	require.NoError(t, h.s.HandleKey(Key{Type: KeyRune, Rune: 'A', Shift: true}))
	assert.Equal(t, "A", h.s.State().InputBuffer)
}

func TestKeys_IgnoredWhileAnimating(t *testing.T) {
	h := newHarness(t, testCV())
	h.submit(t, "about")
	h.sched.Tick()
	mark := h.out.mark()

	for _, k := range []Key{RuneKey('x'), {Type: KeyEnter}, {Type: KeyBackspace}} {
		require.NoError(t, h.s.HandleKey(k))
	}
	assert.Empty(t, h.out.since(mark))
	assert.Empty(t, h.s.State().InputBuffer)
	assert.True(t, h.s.IsAnimating())
}

func TestInterrupt_StopsAnimation(t *testing.T) {
	h := newHarness(t, testCV())
	h.submit(t, "help")
	mark := h.out.mark()

	const k = 3
	for i := 0; i < k; i++ {
		require.True(t, h.sched.Tick())
	}
	emitted := h.out.since(mark)
	assert.Equal(t, string([]rune(HelpText(testCV()))[:k]), strings.ReplaceAll(emitted, "\n\r", "\n"))

	require.NoError(t, h.s.HandleKey(CtrlKey('c')))
	assert.Equal(t, emitted+InterruptedNotice+"root > ", h.out.since(mark))
	assert.Equal(t, 0, h.sched.Pending(), "the pending frame is revoked")
	assert.Equal(t, 1, h.sched.cancelled)
	assert.False(t, h.sched.Tick())

	st := h.s.State()
	assert.False(t, st.IsAnimating)
	assert.False(t, st.Interrupted)
	assert.False(t, st.FullCVActive)
	assert.Equal(t, 1, h.obs.interrupted)

	// The session accepts input again.
	h.submit(t, "about")
	assert.True(t, h.s.IsAnimating())
}

func TestInterrupt_WhenIdleDoesNothing(t *testing.T) {
	h := newHarness(t, testCV())
	mark := h.out.mark()
	h.s.Interrupt()
	assert.Empty(t, h.out.since(mark))
	assert.Equal(t, 0, h.obs.interrupted)
}

func TestInterrupt_ObservedByPendingStep(t *testing.T) {
	h := newHarness(t, testCV())
	h.submit(t, "about")

	// A flag set outside Interrupt is consumed by the next step.
	h.s.st.interrupted = true
	require.True(t, h.sched.Tick())
	assert.True(t, strings.HasSuffix(h.out.String(), InterruptedNotice+"root > "))
	assert.False(t, h.s.State().Interrupted)
	assert.False(t, h.sched.Tick())
}

func abCV() *config.CV {
	return &config.CV{
		Commands: []string{"a", "b", "fullcv", "help"},
		Sections: []string{"a", "b"},
		Content:  map[string][]string{"a": {"A1"}, "b": {"B1"}},
		Prompt:   "$ ",
	}
}

func TestFullCV_SequencesSections(t *testing.T) {
	h := newHarness(t, abCV())
	h.typeText(t, "fullcv")
	mark := h.out.mark()
	require.NoError(t, h.s.HandleKey(Key{Type: KeyEnter}))

	st := h.s.State()
	assert.True(t, st.FullCVActive)
	assert.Equal(t, 0, st.SectionCursor)

	// Run section A to completion.
	sectionFrames := len([]rune(SectionBody([]string{"A1"}))) + 1
	for i := 0; i < sectionFrames; i++ {
		require.True(t, h.sched.Tick())
	}
	st = h.s.State()
	assert.True(t, st.FullCVActive)
	assert.Equal(t, 1, st.SectionCursor)
	assert.True(t, st.IsAnimating)

	h.sched.Drain(t)

	a, _ := RenderSection(abCV(), "a")
	b, _ := RenderSection(abCV(), "b")
	assert.Equal(t, "\r\n"+a+b+"$ ", h.out.since(mark))

	st = h.s.State()
	assert.False(t, st.FullCVActive)
	assert.Equal(t, 0, st.SectionCursor)
	assert.False(t, st.IsAnimating)
	assert.Equal(t, 1, strings.Count(h.out.String(), "$ ")-1, "exactly one prompt after the run")
}

func TestFullCV_InterruptResetsSequence(t *testing.T) {
	h := newHarness(t, abCV())
	h.submit(t, "fullcv")

	// Finish A and start B.
	for h.s.State().SectionCursor == 0 {
		require.True(t, h.sched.Tick())
	}
	require.True(t, h.sched.Tick())

	require.NoError(t, h.s.HandleKey(CtrlKey('C')))
	st := h.s.State()
	assert.False(t, st.FullCVActive)
	assert.Equal(t, 0, st.SectionCursor)
	assert.False(t, st.IsAnimating)
	assert.NotContains(t, h.out.String(), "B1")
	assert.False(t, h.sched.Tick())
}

func TestFullCV_EmptySectionList(t *testing.T) {
	cfg := abCV()
	cfg.Sections = nil
	h := newHarness(t, cfg)
	h.typeText(t, "fullcv")
	mark := h.out.mark()
	require.NoError(t, h.s.HandleKey(Key{Type: KeyEnter}))

	assert.Equal(t, "\r\n$ ", h.out.since(mark))
	assert.False(t, h.s.State().FullCVActive)
	assert.Equal(t, 0, h.sched.requested)
}

func TestWriteSection_MissingContentIsConfigurationError(t *testing.T) {
	h := newHarness(t, testCV())
	err := h.s.writeSection("ghost")
	var cfgErr *config.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	assert.False(t, h.s.IsAnimating())
}

func TestFullCV_MissingSectionMidRunFails(t *testing.T) {
	cfg := abCV()
	h := newHarness(t, cfg)
	h.submit(t, "fullcv")

	// Break the configuration behind the session's back.
	delete(cfg.Content, "b")
	h.sched.Drain(t)

	var cfgErr *config.ConfigurationError
	assert.ErrorAs(t, h.s.Err(), &cfgErr)
	assert.False(t, h.s.State().FullCVActive)
	assert.True(t, strings.HasSuffix(h.out.String(), "$ "))
}

func TestResolve(t *testing.T) {
	cfg := testCV()
	assert.Equal(t, Action{Kind: ActionHelp, Input: "help"}, Resolve(cfg, " help "))
	assert.Equal(t, Action{Kind: ActionFullCV, Input: "fullcv"}, Resolve(cfg, "fullcv"))
	assert.Equal(t, Action{Kind: ActionSection, Input: "about", Section: "about"}, Resolve(cfg, "about"))
	assert.Equal(t, Action{Kind: ActionUnknown, Input: "ABOUT"}, Resolve(cfg, "ABOUT"))
	assert.Equal(t, "section", ActionSection.String())
	assert.Equal(t, "unknown", ActionUnknown.String())
}

func TestRenderFullCV(t *testing.T) {
	out, err := RenderFullCV(abCV())
	require.NoError(t, err)
	assert.Equal(t, "\n  A\r\n\r\n\rA1\r\n\n  B\r\n\r\n\rB1\r\n", out)
}

func TestLogObserver(t *testing.T) {
	var buf strings.Builder
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := Observers{LogObserver{Logger: log}, &countingObserver{}}

	obs.CommandDispatched(Action{Kind: ActionSection, Input: "about", Section: "about"})
	obs.AnimationInterrupted()

	assert.Contains(t, buf.String(), "kind=section")
	assert.Contains(t, buf.String(), "input=about")
	assert.Contains(t, buf.String(), "animation interrupted")
	assert.Equal(t, 1, obs[1].(*countingObserver).interrupted)
}

func TestRenderCommand(t *testing.T) {
	cfg := abCV()

	out, err := RenderCommand(cfg, " b ")
	require.NoError(t, err)
	assert.Equal(t, "\n  B\r\n\r\n\rB1\r\n", out)

	out, err = RenderCommand(cfg, "help")
	require.NoError(t, err)
	assert.Equal(t, RenderHelp(cfg), out)

	out, err = RenderCommand(cfg, "fullcv")
	require.NoError(t, err)
	full, _ := RenderFullCV(cfg)
	assert.Equal(t, full, out)

	_, err = RenderCommand(cfg, "nope")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}
