// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"strings"

	"github.com/yonhachi/kuizu/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Status labels for prompts whose score left the scheduling band.
const (
	StatusStudy = "Study"
	StatusKnown = "Known"
)

// Score thresholds where a prompt leaves the asking rotation.
const (
	studyScore = 1.0
	knownScore = 200.0
)

// Weight computes the scheduling weight of a prompt from its history.
// Unasked prompts get a fixed boost. Asked prompts weigh in proportion to
// their error rate, with an extra factor that fades as askings accumulate.
// A score outside [1, 200] drops the prompt from rotation and labels it.
func Weight(ps model.PromptStats, multiplier float64) (float64, string) {
	if ps.Asked <= 0 {
		return 1 + multiplier*2, ""
	}
	accuracy := float64(ps.Correct) / float64(ps.Asked)
	factor := 1 + 1/float64(ps.Asked+1)
	weight := 1 + (1-accuracy)*multiplier*factor
	switch {
	case ps.Score < studyScore:
		return 0, StatusStudy
	case ps.Score > knownScore:
		return 0, StatusKnown
	}
	return weight, ""
}

// SessionMetrics computes answers per minute and accuracy for a session.
func SessionMetrics(correct, incorrect int, durationMs int64) (apm, accuracy float64) {
	total := correct + incorrect
	if total > 0 {
		accuracy = float64(correct) / float64(total)
	}
	if durationMs <= 0 {
		return 0, accuracy
	}
	minutes := float64(durationMs) / 60000.0
	apm = float64(total) / minutes
	return apm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
