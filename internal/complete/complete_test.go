package complete

import (
	"reflect"
	"testing"
)

func TestMatchesPrefix(t *testing.T) {
	candidates := []string{"konnichiwa", "sayonara"}
	got := Matches("ko", candidates)
	want := []string{"konnichiwa"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Matches(%q) = %v, want %v", "ko", got, want)
	}
}

func TestMatchesEmptyPrefixReturnsAllInOrder(t *testing.T) {
	candidates := []string{"inu", "neko", "tori"}
	got := Matches("", candidates)
	if !reflect.DeepEqual(got, candidates) {
		t.Fatalf("Matches(\"\") = %v, want %v", got, candidates)
	}
	// The result must be a copy, not the caller's slice.
	got[0] = "changed"
	if candidates[0] != "inu" {
		t.Fatalf("Matches(\"\") must not alias the candidate slice")
	}
}

func TestMatchesNoMatchIsEmpty(t *testing.T) {
	if got := Matches("zzz", []string{"konnichiwa", "sayonara"}); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestMatchesPreservesOrder(t *testing.T) {
	candidates := []string{"kaze", "kumo", "kawa", "kami"}
	got := Matches("ka", candidates)
	want := []string{"kaze", "kawa", "kami"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Matches(%q) = %v, want %v", "ka", got, want)
	}
}

func TestMatchesKanaCandidates(t *testing.T) {
	candidates := []string{"こんにちは", "さよなら"}
	got := Matches("こん", candidates)
	want := []string{"こんにちは"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Matches(%q) = %v, want %v", "こん", got, want)
	}
}

func TestCloseOrdersByScore(t *testing.T) {
	got := Close("hana", []string{"hanabi", "hana"}, 2, 0.4)
	want := []string{"hana", "hanabi"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Close = %v, want %v", got, want)
	}
}

func TestCloseKeepsCandidateOrderOnTies(t *testing.T) {
	got := Close("kana", []string{"kane", "kano"}, 2, 0.4)
	want := []string{"kane", "kano"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Close = %v, want %v", got, want)
	}
}

func TestCloseRespectsCutoffAndLimit(t *testing.T) {
	candidates := []string{"sayonara", "konnichiwa"}
	got := Close("sayonora", candidates, 1, 0.6)
	want := []string{"sayonara"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Close = %v, want %v", got, want)
	}
	if got := Close("sayonora", candidates, 0, 0.6); got != nil {
		t.Fatalf("Close with n=0 must return nil, got %v", got)
	}
}

func TestSuggestTiers(t *testing.T) {
	candidates := []string{"konnichiwa", "sayonara", "arigatou"}

	// Prefix tier.
	if got := Suggest("kon", candidates, 0.4); !reflect.DeepEqual(got, []string{"konnichiwa"}) {
		t.Fatalf("prefix tier = %v", got)
	}
	// Substring tier kicks in when no candidate starts with the input.
	if got := Suggest("yona", candidates, 0.4); !reflect.DeepEqual(got, []string{"sayonara"}) {
		t.Fatalf("substring tier = %v", got)
	}
	// Fuzzy tier catches near misses that neither prefix nor substring hit.
	if got := Suggest("arigatoo", candidates, 0.4); len(got) == 0 || got[0] != "arigatou" {
		t.Fatalf("fuzzy tier = %v", got)
	}
	// Empty input yields the whole list.
	if got := Suggest("", candidates, 0.4); !reflect.DeepEqual(got, candidates) {
		t.Fatalf("empty input = %v", got)
	}
}
