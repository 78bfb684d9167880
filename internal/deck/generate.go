package deck

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yonhachi/kuizu/internal/kana"
)

// keyChars lists every prompt of the keys deck. A space prompt cannot be
// represented in the line format, so it is not included.
const keyChars = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"`~!@#$%^&*()-_=+{}[]\\|;:'\",./<>?"

// Sets lists the built-in decks Build can produce.
func Sets() []string {
	return []string{"keys", "hiragana", "katakana"}
}

// Build produces the items of a built-in deck: keyboard drills for keys,
// or kana reading drills derived from the conversion table.
func Build(set string) ([]Item, error) {
	switch set {
	case "keys":
		return buildKeys(), nil
	case "hiragana":
		return buildKana(false), nil
	case "katakana":
		return buildKana(true), nil
	default:
		return nil, fmt.Errorf("unknown deck set %q (available: %s)", set, strings.Join(Sets(), ", "))
	}
}

func buildKeys() []Item {
	items := make([]Item, 0, len(keyChars))
	for _, r := range keyChars {
		s := string(r)
		items = append(items, Item{Prompt: s, Answer: s})
	}
	return items
}

func buildKana(katakana bool) []Item {
	syllables := kana.Syllables()
	items := make([]Item, 0, len(syllables))
	for _, syl := range syllables {
		prompt := syl.Kana
		if katakana {
			prompt = kana.ToKatakana(prompt)
		}
		items = append(items, Item{Prompt: prompt, Answer: syl.Romaji})
	}
	return items
}

// Write stores items as deck lines, replacing path atomically.
func Write(path string, items []Item) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create deck dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "deck-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp deck: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	for _, item := range items {
		if _, err := fmt.Fprintf(writer, "%s%s%s\n", item.Prompt, separator, item.Answer); err != nil {
			return fmt.Errorf("failed to write deck: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush deck: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close deck: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write deck: %w", err)
	}
	return nil
}
