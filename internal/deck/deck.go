// Package deck loads quiz decks from prompt/answer files.
package deck

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yonhachi/kuizu/internal/kana"
	"github.com/yonhachi/kuizu/internal/model"
)

// separator divides a deck line into prompt and answer.
const separator = " : "

// Item is a single prompt/answer pair.
type Item struct {
	Prompt string
	Answer string
}

// SkippedLine records a deck line the loader could not parse.
type SkippedLine struct {
	Line int
	Text string
}

// Deck is an ordered set of quiz items loaded from one file.
type Deck struct {
	Name    string
	Path    string
	Items   []Item
	Skipped []SkippedLine
}

// Load reads a deck file. Each non-empty line must contain exactly one
// " : " separator; the left side is the prompt, the right side the answer.
// Answers are lower-cased so they compare against normalized input.
// Repeated prompts stay separate items and share one stats key.
// Unparseable lines are recorded in Skipped rather than failing the load.
func Load(path string) (*Deck, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only deck file.
			_ = cerr
		}
	}()

	d := &Deck{
		Name: strings.TrimSuffix(filepath.Base(path), ".txt"),
		Path: path,
	}

	lineNo := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, separator)
		if len(parts) != 2 {
			d.Skipped = append(d.Skipped, SkippedLine{Line: lineNo, Text: line})
			continue
		}
		prompt := strings.TrimSpace(parts[0])
		answer := strings.ToLower(strings.TrimSpace(parts[1]))
		if prompt == "" || answer == "" {
			d.Skipped = append(d.Skipped, SkippedLine{Line: lineNo, Text: line})
			continue
		}
		d.Items = append(d.Items, Item{Prompt: prompt, Answer: answer})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(d.Items) == 0 {
		return nil, fmt.Errorf("deck is empty")
	}
	return d, nil
}

var hintPattern = regexp.MustCompile(`\s*\([^)]*\)`)

// VisiblePrompt strips parenthesized hints from a prompt. Hints carry
// disambiguation for the asker and must not leak into what the player sees
// or into the stats key.
func VisiblePrompt(prompt string) string {
	return strings.TrimSpace(hintPattern.ReplaceAllString(prompt, ""))
}

// Candidates returns the deck's unique answers in first-seen order. In kana
// mode each answer is converted so suggestions match what the player types.
func (d *Deck) Candidates(mode model.Mode) []string {
	seen := make(map[string]struct{}, len(d.Items))
	out := make([]string, 0, len(d.Items))
	for _, item := range d.Items {
		answer := item.Answer
		if mode == model.ModeKana {
			answer = kana.FromRomaji(answer)
		}
		if _, ok := seen[answer]; ok {
			continue
		}
		seen[answer] = struct{}{}
		out = append(out, answer)
	}
	return out
}

// Resolve locates a deck file. The name is tried as a path first, with and
// without a .txt suffix; a bare name is then looked up in deckDir.
func Resolve(name, deckDir string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("deck name is required")
	}
	candidates := []string{name}
	if !strings.HasSuffix(name, ".txt") {
		candidates = append(candidates, name+".txt")
	}
	if deckDir != "" && name == filepath.Base(name) {
		candidates = append(candidates,
			filepath.Join(deckDir, name),
		)
		if !strings.HasSuffix(name, ".txt") {
			candidates = append(candidates, filepath.Join(deckDir, name+".txt"))
		}
	}
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("deck %q not found", name)
}
