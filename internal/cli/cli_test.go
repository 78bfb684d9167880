package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

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

func greetingDeck() *deck.Deck {
	return &deck.Deck{
		Name:  "greetings",
		Items: []deck.Item{{Prompt: "hello", Answer: "konnichiwa"}},
	}
}

func testConfig(questions int) model.Config {
	return model.Config{
		Mode:       model.ModeRomaji,
		Questions:  questions,
		Multiplier: 4,
		Cutoff:     0.6,
	}
}

func TestRunPlaysAndPersistsSession(t *testing.T) {
	st := testStore(t)
	in := strings.NewReader("konnichiwa\nkonichiwa\n")
	var out bytes.Buffer

	if err := Run(context.Background(), in, &out, st, greetingDeck(), testConfig(2)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"hello : ",
		"Correct! hello means \"konnichiwa\"",
		"Almost correct! It seems your spelling was off.",
		"Wrong! hello means \"konnichiwa\"",
		"Session Statistics",
		"Overall Statistics",
		"Wrong Answers",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}

	sessions, err := st.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Correct != 1 || sessions[0].Incorrect != 1 {
		t.Fatalf("stored sessions = %+v", sessions)
	}

	prior, err := st.LoadPromptStats(context.Background(), "greetings")
	if err != nil {
		t.Fatalf("LoadPromptStats: %v", err)
	}
	if ps := prior["hello"]; ps.Asked != 2 || ps.Correct != 1 || ps.Incorrect != 1 {
		t.Fatalf("stored prompt stats = %+v", ps)
	}
}

func TestRunListsSuggestionsOnQuestionMark(t *testing.T) {
	st := testStore(t)
	in := strings.NewReader("kon?\nkonnichiwa\n")
	var out bytes.Buffer

	if err := Run(context.Background(), in, &out, st, greetingDeck(), testConfig(1)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "  konnichiwa\n") {
		t.Fatalf("suggestion list missing:\n%s", text)
	}
	if got := strings.Count(text, "hello : "); got != 2 {
		t.Fatalf("question prompted %d times, want 2 (repeat after help)", got)
	}
}

func TestRunSavesEarlyEOF(t *testing.T) {
	st := testStore(t)
	in := strings.NewReader("konnichiwa\n")
	var out bytes.Buffer

	if err := Run(context.Background(), in, &out, st, greetingDeck(), testConfig(3)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	sessions, err := st.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Correct != 1 || sessions[0].Incorrect != 0 {
		t.Fatalf("stored sessions = %+v", sessions)
	}
}
