package score

import (
	"errors"
	"strings"
	"testing"

	"sprachbrief/internal/feed"
)

func testScorer() *Scorer {
	return &Scorer{
		Positive: []string{
			"kultur", "gesellschaft", "geschichte", "umwelt", "europa",
			"kunst", "musik", "film", "literatur", "wissenschaft",
		},
		Negative: []string{
			"tote", "krieg", "angriff", "terror", "krise", "gewalt",
			"eilmeldung", "breaking", "live",
		},
		Breaking:  []string{"eilmeldung", "breaking", "live"},
		Threshold: 6,
	}
}

func TestScore(t *testing.T) {
	s := testScorer()

	tests := []struct {
		name      string
		candidate feed.Candidate
		want      int
	}{
		{
			name:      "positive keyword short title",
			candidate: feed.Candidate{Title: "Kultur in Berlin", BaseScore: 2},
			want:      2 + 3 + 1 + 2,
		},
		{
			name:      "negative keyword",
			candidate: feed.Candidate{Title: "Angriff in der Stadt", BaseScore: 1},
			want:      1 - 5 + 1 + 2,
		},
		{
			name:      "breaking keyword loses calm bonus and takes deduction",
			candidate: feed.Candidate{Title: "Eilmeldung: Neues aus dem Bundestag", BaseScore: 1},
			want:      1 - 5 + 1,
		},
		{
			name: "long title misses length bonus",
			candidate: feed.Candidate{
				Title:     "Musik " + strings.Repeat("und noch mehr Worte ", 5),
				BaseScore: 0,
			},
			want: 0 + 3 + 2,
		},
		{
			name:      "no keywords at all",
			candidate: feed.Candidate{Title: "Neues aus dem Alltag", BaseScore: 1},
			want:      1 + 1 + 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.candidate)
			if got != tt.want {
				t.Errorf("Score(%q) = %d, want %d", tt.candidate.Title, got, tt.want)
			}
		})
	}
}

func TestScoreIsIdempotent(t *testing.T) {
	s := testScorer()
	c := feed.Candidate{Title: "Kultur und Musik in Europa", BaseScore: 2}

	first := s.Score(c)
	for i := 0; i < 10; i++ {
		if got := s.Score(c); got != first {
			t.Fatalf("re-scoring changed result: %d then %d", first, got)
		}
	}
}

func TestScorePositiveBonusDoesNotStack(t *testing.T) {
	s := testScorer()

	one := s.Score(feed.Candidate{Title: "Kultur heute"})
	three := s.Score(feed.Candidate{Title: "Kultur Musik Literatur heute"})

	if one != three {
		t.Errorf("bonus stacked: one keyword %d, three keywords %d", one, three)
	}
}

func TestScoreNegativeDeductionDoesNotStack(t *testing.T) {
	s := testScorer()

	one := s.Score(feed.Candidate{Title: "Krieg in der Region"})
	two := s.Score(feed.Candidate{Title: "Krieg und Terror in der Region"})

	if one != two {
		t.Errorf("deduction stacked: one keyword %d, two keywords %d", one, two)
	}
}

func TestSelectNeverReturnsBelowThreshold(t *testing.T) {
	s := testScorer()

	candidates := []feed.Candidate{
		{Title: "Angriff in der Stadt", BaseScore: 1},
		{Title: "Kultur in Berlin", BaseScore: 2},
		{Title: "Krise im Alltag", BaseScore: 3},
	}

	winner, err := s.Select(candidates)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if winner.Score < s.Threshold {
		t.Errorf("selected candidate below threshold: score %d", winner.Score)
	}
}

func TestSelectEmptyFilteredSet(t *testing.T) {
	s := testScorer()

	candidates := []feed.Candidate{
		{Title: "Angriff in der Stadt", BaseScore: 1},
		{Title: "Terror und Gewalt", BaseScore: 0},
	}

	if _, err := s.Select(candidates); !errors.Is(err, ErrNoEligibleCandidate) {
		t.Errorf("want ErrNoEligibleCandidate, got %v", err)
	}

	if _, err := s.Select(nil); !errors.Is(err, ErrNoEligibleCandidate) {
		t.Errorf("want ErrNoEligibleCandidate on empty input, got %v", err)
	}
}

func TestSelectTwoSourceScenario(t *testing.T) {
	s := testScorer()

	candidates := []feed.Candidate{
		{Title: "Kultur in Berlin", Source: "DW Culture", BaseScore: 2},
		{Title: "Angriff in der Stadt", Source: "Tagesschau", BaseScore: 1},
	}

	if got := s.Score(candidates[0]); got != 8 {
		t.Errorf("DW candidate score = %d, want 8", got)
	}
	if got := s.Score(candidates[1]); got != -1 {
		t.Errorf("Tagesschau candidate score = %d, want -1", got)
	}

	winner, err := s.Select(candidates)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if winner.Source != "DW Culture" {
		t.Errorf("selected %q, want DW Culture candidate", winner.Source)
	}
}

func TestRankTieKeepsCollectionOrder(t *testing.T) {
	s := testScorer()

	// Identical titles score identically; the earlier candidate must win.
	candidates := []feed.Candidate{
		{Title: "Musik in Europa", Source: "first", BaseScore: 2},
		{Title: "Musik in Europa", Source: "second", BaseScore: 2},
	}

	ranked := s.Rank(candidates)
	if len(ranked) != 2 {
		t.Fatalf("Rank kept %d candidates, want 2", len(ranked))
	}
	if ranked[0].Source != "first" {
		t.Errorf("tie-break picked %q, want first-collected candidate", ranked[0].Source)
	}
}
