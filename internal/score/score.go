// Package score ranks feed candidates and selects the single entry the
// newsletter is built from.
package score

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"sprachbrief/internal/feed"
)

// ErrNoEligibleCandidate is returned when no candidate reaches the selection
// threshold (or when there were no candidates at all).
var ErrNoEligibleCandidate = errors.New("no candidate reached the selection threshold")

const shortTitleLimit = 80

// Scorer computes candidate suitability from the configured keyword lists.
// All fields are fixed at construction; Score is a pure function.
type Scorer struct {
	Positive  []string
	Negative  []string
	Breaking  []string
	Threshold int
}

// ScoredCandidate pairs a candidate with its computed score.
type ScoredCandidate struct {
	feed.Candidate
	Score int
}

// Score applies the scoring rules in order: source prior, one positive bonus,
// one negative deduction, short-title bonus, no-breaking-news bonus. A title
// matching several keywords from the same list is counted once.
func (s *Scorer) Score(c feed.Candidate) int {
	score := c.BaseScore
	title := strings.ToLower(c.Title)

	if containsAny(title, s.Positive) {
		score += 3
	}
	if containsAny(title, s.Negative) {
		score -= 5
	}
	if utf8.RuneCountInString(c.Title) < shortTitleLimit {
		score++
	}
	if !containsAny(title, s.Breaking) {
		score += 2
	}

	return score
}

// Rank scores every candidate, drops those below the threshold and returns
// the rest in descending score order. The sort is stable, so equal scores
// keep their collection order.
func (s *Scorer) Rank(candidates []feed.Candidate) []ScoredCandidate {
	var eligible []ScoredCandidate
	for _, c := range candidates {
		sc := s.Score(c)
		if sc >= s.Threshold {
			eligible = append(eligible, ScoredCandidate{Candidate: c, Score: sc})
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Score > eligible[j].Score
	})

	return eligible
}

// Select returns the top-ranked candidate or ErrNoEligibleCandidate.
func (s *Scorer) Select(candidates []feed.Candidate) (ScoredCandidate, error) {
	eligible := s.Rank(candidates)
	if len(eligible) == 0 {
		return ScoredCandidate{}, ErrNoEligibleCandidate
	}
	return eligible[0], nil
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
