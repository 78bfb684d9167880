// Package model defines shared data structures.
package model

import "time"

// Mode selects the representation used for answers and suggestions.
type Mode string

// Supported input modes.
const (
	ModeRomaji Mode = "romaji"
	ModeKana   Mode = "kana"
)

// ParseMode maps a mode argument to a Mode. Unknown values fall back to
// romaji and report false.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeRomaji:
		return ModeRomaji, true
	case ModeKana:
		return ModeKana, true
	default:
		return ModeRomaji, false
	}
}

// Config defines practice settings.
type Config struct {
	Mode        Mode
	Questions   int
	Suggestions int
	Multiplier  float64
	Cutoff      float64
}

// StatsConfig defines filters for stats browsing.
type StatsConfig struct {
	Deck        string
	Mode        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionStats captures a completed quiz session.
type SessionStats struct {
	StartedAt  time.Time
	EndedAt    time.Time
	Deck       string
	Mode       Mode
	Questions  int
	Correct    int
	Incorrect  int
	DurationMs int64
}

// AnswerRecord is one asked question in the session review log.
type AnswerRecord struct {
	Prompt        string
	VisiblePrompt string
	Want          string
	Given         string
	Correct       bool
	NearMiss      bool
	ElapsedMs     int64
}

// PromptStats accumulates per-prompt performance across sessions.
type PromptStats struct {
	Deck      string
	Prompt    string
	Asked     int
	Correct   int
	Incorrect int
	Score     float64
}

// PromptDelta carries one session's contribution to a prompt's stats.
// Counters add onto the stored row; Factor multiplies its score.
type PromptDelta struct {
	Asked     int
	Correct   int
	Incorrect int
	Factor    float64
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	Deck       string
	Mode       string
	Correct    int
	Incorrect  int
	DurationMs int64
}
