package cards

import "slices"

// MeldType distinguishes sets from runs.
type MeldType string

const (
	MeldSet MeldType = "set"
	MeldRun MeldType = "run"
)

// MinMeldSize is the smallest legal meld.
const MinMeldSize = 3

// IsValidSet reports whether cards are three or more of the same rank.
func IsValidSet(cs []Card) bool {
	if len(cs) < MinMeldSize {
		return false
	}
	for _, c := range cs[1:] {
		if c.Rank != cs[0].Rank {
			return false
		}
	}
	return true
}

// IsValidRun reports whether cards are three or more consecutive values of one
// suit. Ace is low only; king does not wrap to ace.
func IsValidRun(cs []Card) bool {
	if len(cs) < MinMeldSize {
		return false
	}
	for _, c := range cs[1:] {
		if c.Suit != cs[0].Suit {
			return false
		}
	}

	values := make([]int, len(cs))
	for i, c := range cs {
		values[i] = c.Value()
	}
	slices.Sort(values)
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]+1 {
			return false
		}
	}
	return true
}

// IsValidMeld reports whether cards form a set or a run.
func IsValidMeld(cs []Card) bool {
	return IsValidSet(cs) || IsValidRun(cs)
}

// ClassifyMeld returns the type of a valid meld. A meld whose first two cards
// share a rank is a set, anything else a run.
func ClassifyMeld(cs []Card) (MeldType, bool) {
	if !IsValidMeld(cs) {
		return "", false
	}
	if cs[0].Rank == cs[1].Rank {
		return MeldSet, true
	}
	return MeldRun, true
}
