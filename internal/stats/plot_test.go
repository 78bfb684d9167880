package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestChartRender(t *testing.T) {
	var buf bytes.Buffer
	chart := Chart{
		Title:  "Accuracy",
		Values: []float64{20, 40, 60, 80, 100},
		Min:    0,
		Max:    100,
		Unit:   "%",
	}
	if err := chart.Render(&buf, 40, 4, false); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Accuracy") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "100%") || !strings.Contains(out, "0%") {
		t.Fatalf("expected axis labels in output:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 1+4 {
		t.Fatalf("expected title plus 4 rows, got %d lines", len(lines))
	}
	braille := false
	for _, r := range out {
		if r > 0x2800 && r <= 0x28FF {
			braille = true
			break
		}
	}
	if !braille {
		t.Fatalf("expected plotted dots in output:\n%s", out)
	}
}

func TestChartRenderFlatSeries(t *testing.T) {
	var buf bytes.Buffer
	chart := Chart{Values: []float64{3, 3, 3}}
	if err := chart.Render(&buf, 30, 3, false); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected output for flat series")
	}
}

func TestChartRenderEmptySeries(t *testing.T) {
	var buf bytes.Buffer
	if err := (Chart{Title: "Empty"}).Render(&buf, 30, 3, false); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty series, got %q", buf.String())
	}
}

func TestResampleShrinksAndStretches(t *testing.T) {
	shrunk := resample([]float64{1, 1, 3, 3}, 2)
	if len(shrunk) != 2 || shrunk[0] != 1 || shrunk[1] != 3 {
		t.Fatalf("unexpected shrink result %v", shrunk)
	}
	stretched := resample([]float64{0, 10}, 3)
	if len(stretched) != 3 || stretched[0] != 0 || stretched[1] != 5 || stretched[2] != 10 {
		t.Fatalf("unexpected stretch result %v", stretched)
	}
}
