package stats

import (
	"math"
	"testing"

	"github.com/yonhachi/kuizu/internal/model"
)

func TestWeightUnasked(t *testing.T) {
	weight, status := Weight(model.PromptStats{Prompt: "hello"}, 4)
	if weight != 9 {
		t.Fatalf("expected weight 9 for unasked prompt, got %v", weight)
	}
	if status != "" {
		t.Fatalf("unexpected status %q", status)
	}
}

func TestWeightScalesWithErrorRate(t *testing.T) {
	ps := model.PromptStats{Prompt: "hello", Asked: 4, Correct: 3, Incorrect: 1, Score: 10}
	weight, status := Weight(ps, 4)
	// accuracy 0.75, fade factor 1.2: 1 + 0.25*4*1.2
	if math.Abs(weight-2.2) > 1e-9 {
		t.Fatalf("expected weight 2.2, got %v", weight)
	}
	if status != "" {
		t.Fatalf("unexpected status %q", status)
	}

	perfect := model.PromptStats{Prompt: "hello", Asked: 4, Correct: 4, Score: 10}
	weight, _ = Weight(perfect, 4)
	if weight != 1 {
		t.Fatalf("expected weight 1 for perfect prompt, got %v", weight)
	}
}

func TestWeightDropsOutOfBandScores(t *testing.T) {
	study := model.PromptStats{Prompt: "hello", Asked: 3, Correct: 0, Incorrect: 3, Score: 0.5}
	if weight, status := Weight(study, 4); weight != 0 || status != StatusStudy {
		t.Fatalf("expected Study drop, got weight %v status %q", weight, status)
	}
	known := model.PromptStats{Prompt: "hello", Asked: 30, Correct: 30, Score: 300}
	if weight, status := Weight(known, 4); weight != 0 || status != StatusKnown {
		t.Fatalf("expected Known drop, got weight %v status %q", weight, status)
	}
}

func TestSessionMetrics(t *testing.T) {
	apm, accuracy := SessionMetrics(10, 2, 30000)
	if math.Abs(apm-24) > 1e-9 {
		t.Fatalf("expected 24 answers/min, got %v", apm)
	}
	if math.Abs(accuracy-float64(10)/12) > 1e-9 {
		t.Fatalf("unexpected accuracy %v", accuracy)
	}

	apm, accuracy = SessionMetrics(3, 1, 0)
	if apm != 0 {
		t.Fatalf("expected zero pace without duration, got %v", apm)
	}
	if accuracy != 0.75 {
		t.Fatalf("accuracy should not depend on duration, got %v", accuracy)
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	got := MovingAverage(values, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("window 2: got %v, want %v", got, want)
		}
	}
	got = MovingAverage(values, 1)
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("window 1 should copy input, got %v", got)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
	flat := Sparkline([]float64{5, 5, 5})
	if len(flat) != 3 || flat[0] != flat[1] || flat[1] != flat[2] {
		t.Fatalf("flat series should repeat one char, got %q", flat)
	}
	ramp := Sparkline([]float64{0, 50, 100})
	if len(ramp) != 3 {
		t.Fatalf("unexpected sparkline %q", ramp)
	}
	if ramp[0] != sparkChars[0] || ramp[2] != sparkChars[len(sparkChars)-1] {
		t.Fatalf("ramp should span the char range, got %q", ramp)
	}
}

func TestSortPromptsByAccuracy(t *testing.T) {
	rows := []model.PromptStats{
		{Prompt: "new"},
		{Prompt: "half", Asked: 2, Correct: 1, Incorrect: 1},
		{Prompt: "bad", Asked: 4, Correct: 1, Incorrect: 3},
		{Prompt: "good", Asked: 4, Correct: 4},
	}
	sorted := SortPromptsByAccuracy(rows)
	wantOrder := []string{"bad", "half", "new", "good"}
	for i, want := range wantOrder {
		if sorted[i].Prompt != want {
			t.Fatalf("unexpected order: %+v", sorted)
		}
	}
	if rows[0].Prompt != "new" {
		t.Fatalf("input slice should not be reordered")
	}
}
