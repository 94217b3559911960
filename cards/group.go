package cards

import (
	"cmp"
	"slices"
)

// Grouping is a partition of a hand into disjoint melds and leftover deadwood.
type Grouping struct {
	Melds    [][]Card
	Deadwood []Card
}

// Melded returns the number of cards placed into melds.
func (g Grouping) Melded() int {
	n := 0
	for _, m := range g.Melds {
		n += len(m)
	}
	return n
}

// Cards flattens the grouping: each meld tagged with its group number
// (1..n in discovery order), then the untagged deadwood.
func (g Grouping) Cards() []Card {
	out := make([]Card, 0, g.Melded()+len(g.Deadwood))
	for i, m := range g.Melds {
		for _, c := range m {
			c.Group = i + 1
			out = append(out, c)
		}
	}
	for _, c := range g.Deadwood {
		out = append(out, c.Untagged())
	}
	return out
}

// Solve partitions hand into melds that cover the largest possible number of
// cards. The search is exhaustive: for the lowest remaining card it tries
// leaving the card as deadwood, then every set and run containing it, and
// keeps the first branch with strictly more melded cards. The hand is sorted
// by suit then value up front so the branch order, and therefore the result,
// is deterministic.
func Solve(hand []Card) Grouping {
	pool := SortBySuit(hand)
	for i := range pool {
		pool[i] = pool[i].Untagged()
	}

	s := &solver{memo: make(map[CardSet]solution)}
	best := s.solve(pool)

	deadwood := slices.Clone(best.deadwood)
	slices.SortFunc(deadwood, bySuitThenValue)
	return Grouping{Melds: best.melds, Deadwood: deadwood}
}

// GroupHand arranges a hand for display: the melds found by Solve, each
// freshly tagged with a group number, followed by the deadwood sorted by suit
// then value.
func GroupHand(hand []Card) []Card {
	return Solve(hand).Cards()
}

// SortBySuit returns a copy of hand ordered by suit name (clubs, diamonds,
// hearts, spades), then value.
func SortBySuit(hand []Card) []Card {
	out := slices.Clone(hand)
	slices.SortFunc(out, bySuitThenValue)
	return out
}

// SortByRank returns a copy of hand ordered by value, then suit name.
func SortByRank(hand []Card) []Card {
	out := slices.Clone(hand)
	slices.SortFunc(out, func(a, b Card) int {
		if c := cmp.Compare(a.Rank, b.Rank); c != 0 {
			return c
		}
		return compareSuits(a.Suit, b.Suit)
	})
	return out
}

// compareSuits orders suits alphabetically by name. This is not the deck
// enumeration order; the grouper's tie-breaking depends on it.
func compareSuits(a, b Suit) int {
	return cmp.Compare(a.String(), b.String())
}

func bySuitThenValue(a, b Card) int {
	if c := compareSuits(a.Suit, b.Suit); c != 0 {
		return c
	}
	return cmp.Compare(a.Rank, b.Rank)
}

type solution struct {
	melds    [][]Card
	deadwood []Card
	melded   int
}

// solver memoises results by the set of cards still in the pool. Because
// every pool handed to solve is a sorted subsequence of the original sorted
// hand, equal sets always mean equal inputs.
type solver struct {
	memo map[CardSet]solution
}

func (s *solver) solve(pool []Card) solution {
	if len(pool) < MinMeldSize {
		return solution{deadwood: pool}
	}

	key := NewCardSet(pool)
	if cached, ok := s.memo[key]; ok {
		return cached
	}

	first, rest := pool[0], pool[1:]

	skip := s.solve(rest)
	best := solution{
		melds:    skip.melds,
		deadwood: append([]Card{first}, skip.deadwood...),
		melded:   skip.melded,
	}

	for _, meld := range meldsWithCard(first, rest) {
		used := NewCardSet(meld)
		next := make([]Card, 0, len(rest))
		for _, c := range rest {
			if !used.Contains(c) {
				next = append(next, c)
			}
		}

		sub := s.solve(next)
		if len(meld)+sub.melded > best.melded {
			melds := make([][]Card, 0, len(sub.melds)+1)
			melds = append(melds, meld)
			melds = append(melds, sub.melds...)
			best = solution{
				melds:    melds,
				deadwood: sub.deadwood,
				melded:   len(meld) + sub.melded,
			}
		}
	}

	s.memo[key] = best
	return best
}

// meldsWithCard lists every set and run containing target that can be built
// from target plus cards in pool. Sets come first, then runs by start value
// and length.
func meldsWithCard(target Card, pool []Card) [][]Card {
	var melds [][]Card

	var sameRank []Card
	for _, c := range pool {
		if c.Rank == target.Rank && !Same(c, target) {
			sameRank = append(sameRank, c)
		}
	}
	if len(sameRank) >= 2 {
		melds = append(melds, append([]Card{target}, sameRank...))

		// With four of a kind, every three-card subset containing target is
		// also a candidate so the fourth card stays free for a run.
		if len(sameRank) == 3 {
			for i := 0; i < len(sameRank); i++ {
				for j := i + 1; j < len(sameRank); j++ {
					melds = append(melds, []Card{target, sameRank[i], sameRank[j]})
				}
			}
		}
	}

	var byValue [int(King) + 1]*Card
	for i := range pool {
		if pool[i].Suit == target.Suit && !Same(pool[i], target) {
			byValue[pool[i].Value()] = &pool[i]
		}
	}
	byValue[target.Value()] = &target

	tv := target.Value()
	for start := max(int(Ace), tv-12); start <= tv; start++ {
		if byValue[start] == nil {
			continue
		}
		var run []Card
		for v := start; v <= int(King); v++ {
			if byValue[v] == nil {
				break
			}
			run = append(run, *byValue[v])
			if v >= tv && len(run) >= MinMeldSize {
				melds = append(melds, slices.Clone(run))
			}
		}
	}

	return melds
}
