// Package quiz drives weighted question rounds over a deck.
package quiz

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/yonhachi/kuizu/internal/complete"
	"github.com/yonhachi/kuizu/internal/deck"
	"github.com/yonhachi/kuizu/internal/kana"
	"github.com/yonhachi/kuizu/internal/model"
	"github.com/yonhachi/kuizu/internal/stats"
)

// Per-answer factors compound into a prompt's session delta; the store
// multiplies them into the persistent score.
const (
	factorSuccess = 1.5
	factorFail    = 0.75
)

// Grading near misses use the configured cutoff. Suggestions use this
// looser one so rough guesses still surface candidates.
const suggestCutoff = 0.4

// Question is a single quiz round.
type Question struct {
	// Prompt is the full deck prompt, parenthetical hints included.
	Prompt string
	// VisiblePrompt is shown while asking and keys the stats row.
	VisiblePrompt string
	// Answer is the accepted answer in romaji.
	Answer string
}

// Result is the outcome of grading one submitted answer.
type Result struct {
	Given    string
	Correct  bool
	NearMiss bool
}

// Session asks a fixed number of weighted questions from one deck.
type Session struct {
	deck   *deck.Deck
	mode   model.Mode
	cutoff float64
	rnd    *rand.Rand

	items   []deck.Item
	weights []float64
	total   float64
	vocab   []string

	questions int
	asked     int
	correct   int
	incorrect int

	deltas  map[string]model.PromptDelta
	records []model.AnswerRecord

	startedAt time.Time
	endedAt   time.Time
}

// New builds a session over d. Weights come from prior, the persistent
// stats known before the first question, and stay frozen until the
// session ends.
func New(d *deck.Deck, prior map[string]model.PromptStats, cfg model.Config) *Session {
	return newSession(d, prior, cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
}

func newSession(d *deck.Deck, prior map[string]model.PromptStats, cfg model.Config, rnd *rand.Rand) *Session {
	s := &Session{
		deck:      d,
		mode:      cfg.Mode,
		cutoff:    cfg.Cutoff,
		rnd:       rnd,
		items:     d.Items,
		vocab:     d.Candidates(cfg.Mode),
		questions: cfg.Questions,
		deltas:    make(map[string]model.PromptDelta),
		startedAt: time.Now(),
	}
	s.weights = make([]float64, len(s.items))
	for i, item := range s.items {
		w, _ := stats.Weight(prior[deck.VisiblePrompt(item.Prompt)], cfg.Multiplier)
		s.weights[i] = w
		s.total += w
	}
	// Every visible prompt gets a delta row even if it is never asked,
	// so one session seeds persistent rows for the whole deck.
	for _, item := range s.items {
		key := deck.VisiblePrompt(item.Prompt)
		if _, ok := s.deltas[key]; !ok {
			s.deltas[key] = model.PromptDelta{Factor: 1}
		}
	}
	return s
}

// Mode reports the active answer mode.
func (s *Session) Mode() model.Mode { return s.mode }

// DeckName reports the name of the deck being practiced.
func (s *Session) DeckName() string { return s.deck.Name }

// Progress counters.
func (s *Session) Asked() int     { return s.asked }
func (s *Session) Correct() int   { return s.correct }
func (s *Session) Incorrect() int { return s.incorrect }
func (s *Session) Questions() int { return s.questions }

// Next picks the next question, weighted with replacement, or reports
// false once the planned number of rounds has been graded.
func (s *Session) Next() (Question, bool) {
	if s.asked >= s.questions {
		return Question{}, false
	}
	item := s.pick()
	return Question{
		Prompt:        item.Prompt,
		VisiblePrompt: deck.VisiblePrompt(item.Prompt),
		Answer:        item.Answer,
	}, true
}

func (s *Session) pick() deck.Item {
	r := s.rnd.Float64() * s.total
	acc := 0.0
	idx := -1
	for i, w := range s.weights {
		if w <= 0 {
			continue
		}
		acc += w
		idx = i
		if r <= acc {
			break
		}
	}
	if idx < 0 {
		// Every prompt is parked as Study or Known. Draw uniformly so
		// the session can still run.
		return s.items[s.rnd.Intn(len(s.items))]
	}
	return s.items[idx]
}

// Grade scores input against q and records the round. Comparison
// happens in the active mode's script: kana mode converts both sides
// first, so "konnichiha" and "こんにちは" grade the same. An empty
// answer is always wrong.
func (s *Session) Grade(q Question, input string, elapsed time.Duration) Result {
	given := strings.ToLower(strings.TrimSpace(input))
	got := s.normalize(given)
	want := s.normalize(q.Answer)

	correct := given != "" && got == want
	near := false
	if !correct {
		if top := complete.Close(got, s.vocab, 1, s.cutoff); len(top) > 0 && top[0] == want {
			near = true
		}
	}

	s.asked++
	if correct {
		s.correct++
	} else {
		s.incorrect++
	}

	d := s.deltas[q.VisiblePrompt]
	if d.Factor == 0 {
		d.Factor = 1
	}
	d.Asked++
	if correct {
		d.Correct++
		d.Factor *= factorSuccess
	} else {
		d.Incorrect++
		d.Factor *= factorFail
	}
	s.deltas[q.VisiblePrompt] = d

	s.records = append(s.records, model.AnswerRecord{
		Prompt:        q.Prompt,
		VisiblePrompt: q.VisiblePrompt,
		Want:          q.Answer,
		Given:         given,
		Correct:       correct,
		NearMiss:      near,
		ElapsedMs:     elapsed.Milliseconds(),
	})
	return Result{Given: given, Correct: correct, NearMiss: near}
}

// Suggestions returns completion candidates for a partial answer, in
// the active mode's script.
func (s *Session) Suggestions(input string) []string {
	return complete.Suggest(s.normalize(strings.ToLower(strings.TrimSpace(input))), s.vocab, suggestCutoff)
}

func (s *Session) normalize(text string) string {
	if s.mode == model.ModeKana {
		return kana.FromRomaji(text)
	}
	return text
}

// Records returns the review log in ask order.
func (s *Session) Records() []model.AnswerRecord { return s.records }

// Deltas returns this session's per-prompt changes keyed by visible
// prompt.
func (s *Session) Deltas() map[string]model.PromptDelta { return s.deltas }

// SessionRows converts the deltas into displayable stat rows sorted by
// visible prompt.
func (s *Session) SessionRows() []model.PromptStats {
	keys := make([]string, 0, len(s.deltas))
	for key := range s.deltas {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	rows := make([]model.PromptStats, 0, len(keys))
	for _, key := range keys {
		d := s.deltas[key]
		rows = append(rows, model.PromptStats{
			Deck:      s.deck.Name,
			Prompt:    key,
			Asked:     d.Asked,
			Correct:   d.Correct,
			Incorrect: d.Incorrect,
		})
	}
	return rows
}

// Finish stamps the end time and returns the session aggregate for
// persistence. Questions is the planned length; Correct and Incorrect
// reflect what was actually answered when a session ends early.
func (s *Session) Finish() model.SessionStats {
	if s.endedAt.IsZero() {
		s.endedAt = time.Now()
	}
	return model.SessionStats{
		StartedAt:  s.startedAt,
		EndedAt:    s.endedAt,
		Deck:       s.deck.Name,
		Mode:       s.mode,
		Questions:  s.questions,
		Correct:    s.correct,
		Incorrect:  s.incorrect,
		DurationMs: s.endedAt.Sub(s.startedAt).Milliseconds(),
	}
}
