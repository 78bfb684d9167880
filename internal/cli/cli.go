// Package cli runs the plain terminal quiz loop.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yonhachi/kuizu/internal/deck"
	"github.com/yonhachi/kuizu/internal/kana"
	"github.com/yonhachi/kuizu/internal/model"
	"github.com/yonhachi/kuizu/internal/quiz"
	"github.com/yonhachi/kuizu/internal/stats"
	"github.com/yonhachi/kuizu/internal/store"
)

// Answer feedback colors.
const (
	green = "\x1b[92m"
	red   = "\x1b[91m"
	reset = "\x1b[0m"
)

// Run drives one quiz session over in/out and persists the outcome.
// EOF before the planned rounds ends the session early; what was
// answered is still saved. Ending a line with "?" lists suggestions
// for the typed prefix and repeats the question.
func Run(ctx context.Context, in io.Reader, out io.Writer, st *store.Store, d *deck.Deck, cfg model.Config) error {
	prior, err := st.LoadPromptStats(ctx, d.Name)
	if err != nil {
		return fmt.Errorf("failed to load prompt stats: %w", err)
	}
	session := quiz.New(d, prior, cfg)
	scanner := bufio.NewScanner(in)

	for {
		q, ok := session.Next()
		if !ok {
			break
		}
		if !askOne(out, scanner, session, q) {
			fmt.Fprintln(out)
			break
		}
	}
	fmt.Fprintln(out)
	return finish(ctx, out, st, d, session)
}

// askOne prompts until the question is graded. Reports false on EOF.
func askOne(out io.Writer, scanner *bufio.Scanner, session *quiz.Session, q quiz.Question) bool {
	for {
		fmt.Fprintf(out, "%s : ", q.VisiblePrompt)
		start := time.Now()
		if !scanner.Scan() {
			return false
		}
		input := strings.TrimSpace(scanner.Text())
		if strings.HasSuffix(input, "?") {
			printSuggestions(out, session.Suggestions(strings.TrimSuffix(input, "?")))
			continue
		}
		res := session.Grade(q, input, time.Since(start))
		printFeedback(out, session.Mode(), q, res)
		return true
	}
}

func printSuggestions(out io.Writer, list []string) {
	if len(list) == 0 {
		fmt.Fprintln(out, "No suggestions.")
		return
	}
	for _, s := range list {
		fmt.Fprintf(out, "  %s\n", s)
	}
}

// printFeedback shows the result with the full prompt, hints included.
// Kana mode shows the answer in kana, the script the round was graded
// in.
func printFeedback(out io.Writer, mode model.Mode, q quiz.Question, res quiz.Result) {
	answer := q.Answer
	if mode == model.ModeKana {
		answer = kana.FromRomaji(answer)
	}
	if res.Correct {
		fmt.Fprintf(out, "%sCorrect! %s means %q%s\n", green, q.Prompt, answer, reset)
		return
	}
	if res.NearMiss {
		fmt.Fprintln(out, "Almost correct! It seems your spelling was off.")
	}
	fmt.Fprintf(out, "%sWrong! %s means %q%s\n", red, q.Prompt, answer, reset)
}

func finish(ctx context.Context, out io.Writer, st *store.Store, d *deck.Deck, session *quiz.Session) error {
	if err := stats.RenderPromptTable(out, "Session Statistics", stats.SortPromptsByAccuracy(session.SessionRows())); err != nil {
		return err
	}
	if _, err := st.SaveSession(ctx, session.Finish(), session.Records(), session.Deltas()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	overall, err := st.ListPromptStats(ctx, d.Name)
	if err != nil {
		return fmt.Errorf("failed to load prompt stats: %w", err)
	}
	if err := stats.RenderPromptTable(out, "Overall Statistics", stats.SortPromptsByAccuracy(overall)); err != nil {
		return err
	}
	return stats.RenderReview(out, session.Records())
}
