// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/yonhachi/kuizu/internal/model"
	"github.com/yonhachi/kuizu/internal/store"
)

const reviewLimit = 5

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionAggregate
	Prompts  []model.PromptStats
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	prompts, err := st.ListPromptStats(ctx, cfg.Deck)
	if err != nil {
		return Report{}, err
	}
	return Report{Sessions: sessions, Prompts: prompts}, nil
}

// AccuracySeries extracts per-session accuracy percentages, smoothed over
// the window.
func AccuracySeries(sessions []model.SessionAggregate, window int) []float64 {
	out := make([]float64, len(sessions))
	for i, s := range sessions {
		_, acc := SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		out[i] = acc * 100
	}
	return MovingAverage(out, window)
}

// PaceSeries extracts per-session answers per minute, smoothed over the
// window.
func PaceSeries(sessions []model.SessionAggregate, window int) []float64 {
	out := make([]float64, len(sessions))
	for i, s := range sessions {
		apm, _ := SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		out[i] = apm
	}
	return MovingAverage(out, window)
}

// SortPromptsByAccuracy orders prompt stats hardest first. Unasked prompts
// count as fully accurate, so they sink to the bottom; ties keep their
// input order.
func SortPromptsByAccuracy(rows []model.PromptStats) []model.PromptStats {
	out := append([]model.PromptStats(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		return promptAccuracy(out[i]) < promptAccuracy(out[j])
	})
	return out
}

func promptAccuracy(ps model.PromptStats) float64 {
	if ps.Asked <= 0 {
		return 1.0
	}
	return float64(ps.Correct) / float64(ps.Asked)
}

// RenderSummary prints aggregate metrics over the sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalAPM, totalAcc, bestAcc float64
	for _, s := range sessions {
		apm, acc := SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		totalAPM += apm
		totalAcc += acc
		if acc > bestAcc {
			bestAcc = acc
		}
	}
	count := float64(len(sessions))
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", len(sessions)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Accuracy: %.1f%%\n", (totalAcc/count)*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best Accuracy: %.1f%%\n", bestAcc*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Pace: %.1f answers/min\n", totalAPM/count); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderPromptTable prints the per-prompt accuracy table. Only prompts
// asked at least once with accuracy below 100% appear, lowest first.
// Nothing is printed when no prompt qualifies.
func RenderPromptTable(w io.Writer, title string, rows []model.PromptStats) error {
	filtered := make([]model.PromptStats, 0, len(rows))
	for _, ps := range rows {
		if ps.Asked <= 0 || promptAccuracy(ps) >= 1 {
			continue
		}
		filtered = append(filtered, ps)
	}
	if len(filtered) == 0 {
		return nil
	}
	filtered = SortPromptsByAccuracy(filtered)

	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	headers := []string{"Prompt", "Accuracy", "Asked"}
	tableRows := make([][]string, 0, len(filtered))
	for _, ps := range filtered {
		tableRows = append(tableRows, []string{
			ps.Prompt,
			fmt.Sprintf("%5.1f%%", promptAccuracy(ps)*100),
			fmt.Sprintf("%d", ps.Asked),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderReview prints the detailed session review: wrong answers with the
// expected answer, then the slowest and fastest prompts.
func RenderReview(w io.Writer, records []model.AnswerRecord) error {
	if len(records) == 0 {
		return nil
	}
	wrong := make([]model.AnswerRecord, 0, len(records))
	for _, r := range records {
		if !r.Correct {
			wrong = append(wrong, r)
		}
	}
	if len(wrong) == 0 {
		if _, err := fmt.Fprintln(w, "All correct!"); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintln(w, "Wrong Answers"); err != nil {
			return err
		}
		headers := []string{"Prompt", "Answer", "Given", "Time"}
		rows := make([][]string, 0, len(wrong))
		for _, r := range wrong {
			rows = append(rows, []string{
				r.Prompt,
				r.Want,
				r.Given,
				formatElapsed(r.ElapsedMs),
			})
		}
		for _, line := range formatTable(headers, rows, map[int]bool{3: true}) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	if err := renderTimed(w, "Slowest", slowestRecords(records, reviewLimit)); err != nil {
		return err
	}
	return renderTimed(w, "Fastest", fastestRecords(records, reviewLimit))
}

func renderTimed(w io.Writer, title string, records []model.AnswerRecord) error {
	if len(records) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Prompt, formatElapsed(r.ElapsedMs)})
	}
	for _, line := range formatTable(nil, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func slowestRecords(records []model.AnswerRecord, n int) []model.AnswerRecord {
	out := append([]model.AnswerRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ElapsedMs > out[j].ElapsedMs
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func fastestRecords(records []model.AnswerRecord, n int) []model.AnswerRecord {
	out := append([]model.AnswerRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ElapsedMs < out[j].ElapsedMs
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func formatElapsed(ms int64) string {
	return fmt.Sprintf("%.2fs", float64(ms)/1000.0)
}
