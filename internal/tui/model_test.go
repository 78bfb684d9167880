package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yonhachi/kuizu/internal/deck"
	"github.com/yonhachi/kuizu/internal/model"
	"github.com/yonhachi/kuizu/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "kuizu.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func newTestModel(t *testing.T, mode model.Mode, questions int, items []deck.Item) *Model {
	t.Helper()
	cfg := model.Config{
		Mode:        mode,
		Questions:   questions,
		Suggestions: 5,
		Multiplier:  4,
		Cutoff:      0.6,
	}
	return NewModel(cfg, testStore(t), &deck.Deck{Name: "greetings", Items: items})
}

func greetingItems() []deck.Item {
	return []deck.Item{
		{Prompt: "hello", Answer: "konnichiwa"},
		{Prompt: "goodbye", Answer: "sayonara"},
	}
}

func press(t *testing.T, m *Model, msg tea.Msg) *Model {
	t.Helper()
	next, _ := m.Update(msg)
	got, ok := next.(*Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return got
}

func typeText(t *testing.T, m *Model, text string) *Model {
	t.Helper()
	return press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestAnswerFlowReachesSummary(t *testing.T) {
	m := newTestModel(t, model.ModeRomaji, 1, greetingItems())
	if m.phase != phaseAnswering {
		t.Fatalf("initial phase = %d", m.phase)
	}

	m = typeText(t, m, m.question.Answer)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.phase != phaseFeedback || !m.lastResult.Correct {
		t.Fatalf("after submit: phase=%d result=%+v", m.phase, m.lastResult)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.phase != phaseSummary {
		t.Fatalf("after last round: phase = %d", m.phase)
	}
	if !strings.Contains(m.summaryText, "Deck greetings") || !strings.Contains(m.summaryText, "All correct!") {
		t.Fatalf("summary text:\n%s", m.summaryText)
	}

	sessions, err := m.store.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Correct != 1 {
		t.Fatalf("stored sessions = %+v", sessions)
	}
}

func TestTabAcceptsSuggestion(t *testing.T) {
	m := newTestModel(t, model.ModeRomaji, 1, greetingItems())
	m = typeText(t, m, "kon")
	if len(m.suggestions) != 1 || m.suggestions[0] != "konnichiwa" {
		t.Fatalf("suggestions = %v", m.suggestions)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.input.Value(); got != "konnichiwa" {
		t.Fatalf("input after tab = %q", got)
	}
	if len(m.suggestions) != 0 {
		t.Fatalf("dropdown still open: %v", m.suggestions)
	}
}

func TestSelectionMovesAndClamps(t *testing.T) {
	items := []deck.Item{
		{Prompt: "hello", Answer: "konnichiwa"},
		{Prompt: "good evening", Answer: "konbanwa"},
	}
	m := newTestModel(t, model.ModeRomaji, 1, items)
	m = typeText(t, m, "kon")
	if len(m.suggestions) != 2 {
		t.Fatalf("suggestions = %v", m.suggestions)
	}
	if m.selected != 0 {
		t.Fatalf("initial selection = %d", m.selected)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.selected != 1 {
		t.Fatalf("selection after down = %d", m.selected)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.selected != 1 {
		t.Fatalf("selection ran past the end: %d", m.selected)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.selected != 0 {
		t.Fatalf("selection after up = %d", m.selected)
	}
}

func TestEscClearsInput(t *testing.T) {
	m := newTestModel(t, model.ModeRomaji, 1, greetingItems())
	m = typeText(t, m, "xyz")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.input.Value(); got != "" {
		t.Fatalf("input after esc = %q", got)
	}
	if len(m.suggestions) != 0 {
		t.Fatalf("dropdown still open: %v", m.suggestions)
	}
}

func TestWrongAnswerShowsNearMiss(t *testing.T) {
	m := newTestModel(t, model.ModeRomaji, 2, greetingItems())
	misspelled := m.question.Answer[1:]
	m = typeText(t, m, misspelled)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.lastResult.Correct || !m.lastResult.NearMiss {
		t.Fatalf("result = %+v", m.lastResult)
	}
	view := m.View()
	if !strings.Contains(view, "Almost correct!") || !strings.Contains(view, "Wrong!") {
		t.Fatalf("feedback view:\n%s", view)
	}
}

func TestKanaModeShowsPreviewAndKanaSuggestions(t *testing.T) {
	items := []deck.Item{{Prompt: "hello", Answer: "konnichiwa"}}
	m := newTestModel(t, model.ModeKana, 1, items)
	m = typeText(t, m, "ko")
	if len(m.suggestions) != 1 || m.suggestions[0] != "こんにちわ" {
		t.Fatalf("suggestions = %v", m.suggestions)
	}
	if view := m.View(); !strings.Contains(view, "こ") {
		t.Fatalf("kana preview missing:\n%s", view)
	}
}

func TestCtrlCPersistsPartialSession(t *testing.T) {
	m := newTestModel(t, model.ModeRomaji, 3, greetingItems())
	m = typeText(t, m, m.question.Answer)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	sessions, err := m.store.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Correct != 1 || sessions[0].Incorrect != 0 {
		t.Fatalf("stored sessions = %+v", sessions)
	}
}

func TestRestartBeginsFreshSession(t *testing.T) {
	m := newTestModel(t, model.ModeRomaji, 1, greetingItems())
	m = typeText(t, m, m.question.Answer)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.phase != phaseSummary {
		t.Fatalf("phase = %d", m.phase)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.phase != phaseAnswering {
		t.Fatalf("phase after restart = %d", m.phase)
	}
	if m.session.Asked() != 0 {
		t.Fatalf("restarted session already has %d answers", m.session.Asked())
	}
	if m.saved {
		t.Fatal("restarted session marked saved")
	}
}
