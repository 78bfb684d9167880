// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yonhachi/kuizu/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// freshScore seeds the score of a prompt the store has never seen.
const freshScore = 10.0

// Store wraps SQLite access for session and prompt data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			deck TEXT NOT NULL,
			mode TEXT NOT NULL,
			questions INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_answers (
			session_id INTEGER NOT NULL,
			prompt TEXT NOT NULL,
			visible_prompt TEXT NOT NULL,
			answer TEXT NOT NULL,
			given TEXT NOT NULL,
			correct INTEGER NOT NULL,
			near_miss INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS prompt_stats (
			deck TEXT NOT NULL,
			prompt TEXT NOT NULL,
			asked INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			score REAL NOT NULL,
			PRIMARY KEY (deck, prompt)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_answers_session ON session_answers(session_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveSession stores a completed session, its review log, and merges the
// per-prompt deltas into the long-run prompt stats. Counters add onto the
// stored row; the session factor multiplies its score. A prompt seen for
// the first time starts from the fresh score before the factor applies.
func (s *Store) SaveSession(ctx context.Context, sess model.SessionStats, answers []model.AnswerRecord, deltas map[string]model.PromptDelta) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, deck, mode, questions, correct, incorrect, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.StartedAt.Format(time.RFC3339Nano),
		sess.EndedAt.Format(time.RFC3339Nano),
		sess.Deck,
		string(sess.Mode),
		sess.Questions,
		sess.Correct,
		sess.Incorrect,
		sess.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(answers) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO session_answers (session_id, prompt, visible_prompt, answer, given, correct, near_miss, elapsed_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, a := range answers {
			if _, err := stmt.ExecContext(ctx, id, a.Prompt, a.VisiblePrompt, a.Want, a.Given, boolToInt(a.Correct), boolToInt(a.NearMiss), a.ElapsedMs); err != nil {
				return 0, err
			}
		}
	}

	if len(deltas) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO prompt_stats (deck, prompt, asked, correct, incorrect, score)
			 VALUES (?, ?, ?, ?, ?, ? * ?)
			 ON CONFLICT(deck, prompt) DO UPDATE SET
				asked = asked + excluded.asked,
				correct = correct + excluded.correct,
				incorrect = incorrect + excluded.incorrect,
				score = score * ?`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		prompts := make([]string, 0, len(deltas))
		for prompt := range deltas {
			prompts = append(prompts, prompt)
		}
		sort.Strings(prompts)
		for _, prompt := range prompts {
			d := deltas[prompt]
			if _, err := stmt.ExecContext(ctx, sess.Deck, prompt, d.Asked, d.Correct, d.Incorrect, freshScore, d.Factor, d.Factor); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// LoadPromptStats returns the stored stats for one deck, keyed by prompt.
func (s *Store) LoadPromptStats(ctx context.Context, deck string) (map[string]model.PromptStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT prompt, asked, correct, incorrect, score
		 FROM prompt_stats
		 WHERE deck = ?`, deck)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := make(map[string]model.PromptStats)
	for rows.Next() {
		ps := model.PromptStats{Deck: deck}
		if err := rows.Scan(&ps.Prompt, &ps.Asked, &ps.Correct, &ps.Incorrect, &ps.Score); err != nil {
			return nil, err
		}
		result[ps.Prompt] = ps
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListPromptStats returns stored prompt stats ordered by deck and prompt.
// An empty deck matches every deck.
func (s *Store) ListPromptStats(ctx context.Context, deck string) ([]model.PromptStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT deck, prompt, asked, correct, incorrect, score
		 FROM prompt_stats
		 WHERE (? = '' OR deck = ?)
		 ORDER BY deck ASC, prompt ASC`, deck, deck)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.PromptStats
	for rows.Next() {
		var ps model.PromptStats
		if err := rows.Scan(&ps.Deck, &ps.Prompt, &ps.Asked, &ps.Correct, &ps.Incorrect, &ps.Score); err != nil {
			return nil, err
		}
		result = append(result, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListSessions returns session aggregates filtered by stats config,
// oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Deck != "" {
		clauses = append(clauses, "deck = ?")
		args = append(args, cfg.Deck)
	}
	if cfg.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, cfg.Mode)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, deck, mode, correct, incorrect, duration_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Deck, &agg.Mode, &agg.Correct, &agg.Incorrect, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListSessionAnswers returns the review log of one session in asked order.
func (s *Store) ListSessionAnswers(ctx context.Context, sessionID int64) ([]model.AnswerRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT prompt, visible_prompt, answer, given, correct, near_miss, elapsed_ms
		 FROM session_answers
		 WHERE session_id = ?
		 ORDER BY rowid ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.AnswerRecord
	for rows.Next() {
		var rec model.AnswerRecord
		var correct, nearMiss int
		if err := rows.Scan(&rec.Prompt, &rec.VisiblePrompt, &rec.Want, &rec.Given, &correct, &nearMiss, &rec.ElapsedMs); err != nil {
			return nil, err
		}
		rec.Correct = correct != 0
		rec.NearMiss = nearMiss != 0
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
