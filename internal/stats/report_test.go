package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yonhachi/kuizu/internal/model"
	"github.com/yonhachi/kuizu/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "kuizu.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		sess := model.SessionStats{
			StartedAt:  start,
			EndedAt:    end,
			Deck:       "animals",
			Mode:       model.ModeRomaji,
			Questions:  5,
			Correct:    4,
			Incorrect:  1,
			DurationMs: end.Sub(start).Milliseconds(),
		}
		deltas := map[string]model.PromptDelta{
			"cat": {Asked: 3, Correct: 2, Incorrect: 1, Factor: 1.5},
			"dog": {Asked: 2, Correct: 2, Factor: 2.25},
		}
		id, err := st.SaveSession(ctx, sess, nil, deltas)
		if err != nil {
			t.Fatalf("save session: %v", err)
		}
		ids = append(ids, id)
	}

	cfg := model.StatsConfig{Deck: "animals", Last: 2}
	report, err := BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if len(report.Prompts) != 2 {
		t.Fatalf("expected 2 prompt rows, got %d", len(report.Prompts))
	}
	cat := report.Prompts[0]
	if cat.Prompt != "cat" || cat.Asked != 9 || cat.Correct != 6 || cat.Incorrect != 3 {
		t.Fatalf("unexpected merged counters: %+v", cat)
	}

	empty, err := BuildReport(ctx, st, model.StatsConfig{Deck: "plants"})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(empty.Sessions) != 0 || len(empty.Prompts) != 0 {
		t.Fatalf("expected empty report, got %+v", empty)
	}
}

func TestRenderPromptTableFiltersAndSorts(t *testing.T) {
	rows := []model.PromptStats{
		{Prompt: "perfect", Asked: 3, Correct: 3},
		{Prompt: "worst", Asked: 4, Correct: 1, Incorrect: 3},
		{Prompt: "middling", Asked: 2, Correct: 1, Incorrect: 1},
		{Prompt: "unasked"},
	}
	var buf bytes.Buffer
	if err := RenderPromptTable(&buf, "Session Statistics", rows); err != nil {
		t.Fatalf("RenderPromptTable failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Session Statistics") {
		t.Fatalf("expected title in output:\n%s", out)
	}
	if strings.Contains(out, "perfect") || strings.Contains(out, "unasked") {
		t.Fatalf("fully accurate or unasked prompts should be hidden:\n%s", out)
	}
	worstAt := strings.Index(out, "worst")
	middlingAt := strings.Index(out, "middling")
	if worstAt < 0 || middlingAt < 0 || worstAt > middlingAt {
		t.Fatalf("expected hardest prompt first:\n%s", out)
	}
}

func TestRenderPromptTableSkipsWhenNothingQualifies(t *testing.T) {
	rows := []model.PromptStats{{Prompt: "perfect", Asked: 2, Correct: 2}}
	var buf bytes.Buffer
	if err := RenderPromptTable(&buf, "Session Statistics", rows); err != nil {
		t.Fatalf("RenderPromptTable failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestRenderReview(t *testing.T) {
	records := []model.AnswerRecord{
		{Prompt: "hello", VisiblePrompt: "hello", Want: "konnichiwa", Given: "konichiwa", ElapsedMs: 4200},
		{Prompt: "goodbye", VisiblePrompt: "goodbye", Want: "sayonara", Given: "sayonara", Correct: true, ElapsedMs: 1500},
	}
	var buf bytes.Buffer
	if err := RenderReview(&buf, records); err != nil {
		t.Fatalf("RenderReview failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Wrong Answers") {
		t.Fatalf("expected wrong answers section:\n%s", out)
	}
	if !strings.Contains(out, "konnichiwa") || !strings.Contains(out, "konichiwa") {
		t.Fatalf("expected want and given answers:\n%s", out)
	}
	if !strings.Contains(out, "Slowest") || !strings.Contains(out, "Fastest") {
		t.Fatalf("expected timing sections:\n%s", out)
	}
	if !strings.Contains(out, "4.20s") || !strings.Contains(out, "1.50s") {
		t.Fatalf("expected elapsed times:\n%s", out)
	}
}

func TestRenderReviewAllCorrect(t *testing.T) {
	records := []model.AnswerRecord{
		{Prompt: "hello", Want: "konnichiwa", Given: "konnichiwa", Correct: true, ElapsedMs: 900},
	}
	var buf bytes.Buffer
	if err := RenderReview(&buf, records); err != nil {
		t.Fatalf("RenderReview failed: %v", err)
	}
	if !strings.Contains(buf.String(), "All correct!") {
		t.Fatalf("expected all-correct notice:\n%s", buf.String())
	}
}

func TestAccuracySeries(t *testing.T) {
	sessions := []model.SessionAggregate{
		{Correct: 1, Incorrect: 1, DurationMs: 60000},
		{Correct: 3, Incorrect: 1, DurationMs: 60000},
	}
	got := AccuracySeries(sessions, 1)
	if len(got) != 2 || got[0] != 50 || got[1] != 75 {
		t.Fatalf("unexpected series %v", got)
	}
	pace := PaceSeries(sessions, 1)
	if len(pace) != 2 || pace[0] != 2 || pace[1] != 4 {
		t.Fatalf("unexpected pace series %v", pace)
	}
}
