// Package kana converts romaji input to kana script.
package kana

import (
	"sort"
	"strings"
	"unicode"
)

// Syllable is one romaji pattern and its hiragana rendering.
type Syllable struct {
	Romaji string
	Kana   string
}

// Conversion table in reference order. Matching is longest-pattern-first;
// equal-length patterns keep this declaration order.
var table = []Syllable{
	// Compound syllables.
	{"kya", "きゃ"}, {"kyu", "きゅ"}, {"kyo", "きょ"},
	{"sha", "しゃ"}, {"shu", "しゅ"}, {"sho", "しょ"},
	{"cha", "ちゃ"}, {"chu", "ちゅ"}, {"cho", "ちょ"},
	{"nya", "にゃ"}, {"nyu", "にゅ"}, {"nyo", "にょ"},
	{"hya", "ひゃ"}, {"hyu", "ひゅ"}, {"hyo", "ひょ"},
	{"mya", "みゃ"}, {"myu", "みゅ"}, {"myo", "みょ"},
	{"rya", "りゃ"}, {"ryu", "りゅ"}, {"ryo", "りょ"},
	{"gya", "ぎゃ"}, {"gyu", "ぎゅ"}, {"gyo", "ぎょ"},
	{"ja", "じゃ"}, {"ju", "じゅ"}, {"jo", "じょ"},
	{"bya", "びゃ"}, {"byu", "びゅ"}, {"byo", "びょ"},
	{"pya", "ぴゃ"}, {"pyu", "ぴゅ"}, {"pyo", "ぴょ"},
	// Two-letter syllables and special cases.
	{"tsu", "つ"},
	{"shi", "し"},
	{"chi", "ち"},
	{"fu", "ふ"},
	// Vowels.
	{"a", "あ"}, {"i", "い"}, {"u", "う"}, {"e", "え"}, {"o", "お"},
	// K-group.
	{"ka", "か"}, {"ki", "き"}, {"ku", "く"}, {"ke", "け"}, {"ko", "こ"},
	// S-group.
	{"sa", "さ"}, {"su", "す"}, {"se", "せ"}, {"so", "そ"},
	// T-group.
	{"ta", "た"}, {"te", "て"}, {"to", "と"},
	// N-group.
	{"na", "な"}, {"ni", "に"}, {"nu", "ぬ"}, {"ne", "ね"}, {"no", "の"},
	// H-group.
	{"ha", "は"}, {"hi", "ひ"}, {"he", "へ"}, {"ho", "ほ"},
	// M-group.
	{"ma", "ま"}, {"mi", "み"}, {"mu", "む"}, {"me", "め"}, {"mo", "も"},
	// Y-group.
	{"ya", "や"}, {"yu", "ゆ"}, {"yo", "よ"},
	// R-group.
	{"ra", "ら"}, {"ri", "り"}, {"ru", "る"}, {"re", "れ"}, {"ro", "ろ"},
	// W-group and syllabic n.
	{"wa", "わ"}, {"wi", "うぃ"}, {"we", "うぇ"}, {"wo", "を"}, {"n", "ん"},
	// Voiced groups.
	{"ga", "が"}, {"gi", "ぎ"}, {"gu", "ぐ"}, {"ge", "げ"}, {"go", "ご"},
	{"za", "ざ"}, {"ji", "じ"}, {"zu", "ず"}, {"ze", "ぜ"}, {"zo", "ぞ"},
	{"da", "だ"}, {"di", "ぢ"}, {"du", "づ"}, {"de", "で"}, {"do", "ど"},
	{"ba", "ば"}, {"bi", "び"}, {"bu", "ぶ"}, {"be", "べ"}, {"bo", "ぼ"},
	{"pa", "ぱ"}, {"pi", "ぴ"}, {"pu", "ぷ"}, {"pe", "ぺ"}, {"po", "ぽ"},
	// Foreign-word sounds.
	{"fa", "ふぁ"}, {"fi", "ふぃ"}, {"fe", "ふぇ"}, {"fo", "ふぉ"},
}

var matchers = sortedMatchers()

func sortedMatchers() []Syllable {
	out := make([]Syllable, len(table))
	copy(out, table)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Romaji) > len(out[j].Romaji)
	})
	return out
}

const (
	smallTsu = 'っ'
	// Runes that never geminate: vowels and the syllabic n.
	noGeminate = "aeioun"
)

// FromRomaji converts a romaji string to kana by greedy longest-prefix
// substitution, left to right, with no backtracking. Input is lower-cased
// first; unrecognized runes pass through. An all-upper-case input converts
// to katakana instead of hiragana. Total function: every input has an
// output, possibly identity.
func FromRomaji(s string) string {
	if s == "" {
		return ""
	}
	katakana := isUpper(s)
	runes := []rune(strings.ToLower(s))
	var b strings.Builder
	for i := 0; i < len(runes); {
		r := runes[i]
		if i+1 < len(runes) && runes[i+1] == r && !strings.ContainsRune(noGeminate, r) {
			b.WriteRune(smallTsu)
			i++
			continue
		}
		if n, kn := matchSyllable(runes[i:]); n > 0 {
			b.WriteString(kn)
			i += n
			continue
		}
		b.WriteRune(r)
		i++
	}
	out := b.String()
	if katakana {
		out = ToKatakana(out)
	}
	return out
}

func matchSyllable(rest []rune) (int, string) {
	for _, m := range matchers {
		if len(m.Romaji) > len(rest) {
			continue
		}
		ok := true
		for j := 0; j < len(m.Romaji); j++ {
			// Patterns are ASCII, so byte and rune values coincide.
			if rest[j] != rune(m.Romaji[j]) {
				ok = false
				break
			}
		}
		if ok {
			return len(m.Romaji), m.Kana
		}
	}
	return 0, ""
}

// isUpper reports whether s contains at least one cased rune and no
// lower-case ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// ToKatakana shifts hiragana code points into the katakana block.
// Non-hiragana runes are left unchanged.
func ToKatakana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 'ぁ' && r <= 'ん' {
			runes[i] = r + 0x60
		}
	}
	return string(runes)
}

// Syllables returns the conversion table in declaration order.
func Syllables() []Syllable {
	out := make([]Syllable, len(table))
	copy(out, table)
	return out
}
