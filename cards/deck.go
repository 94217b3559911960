package cards

// DefaultCardsPerPlayer is the deal size for non-dealers; the dealer gets one more.
const DefaultCardsPerPlayer = 12

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// Source is the randomness a shuffle draws from. *math/rand/v2.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// NewDeck creates the 52-card deck in a fixed order: suits outer
// (hearts, diamonds, clubs, spades), ranks inner from ace to king.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for rank := Ace; rank <= King; rank++ {
			deck = append(deck, NewCard(rank, suit))
		}
	}
	return deck
}

// Shuffle returns a Fisher-Yates permutation of deck. The input is not modified.
func Shuffle(deck []Card, rng Source) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// DealResult holds the hands produced by Deal and the undealt remainder.
type DealResult struct {
	Hands     [][]Card
	Remaining []Card
}

// Deal deals cardsPerPlayer rounds round-robin, taking cards from the end of
// deck (the top of the stack), then gives player 0 one extra card if any are
// left. A short deck yields short hands rather than an error.
func Deal(deck []Card, numPlayers, cardsPerPlayer int) DealResult {
	remaining := make([]Card, len(deck))
	copy(remaining, deck)

	if numPlayers <= 0 {
		return DealResult{Remaining: remaining}
	}

	hands := make([][]Card, numPlayers)
	for p := range hands {
		hands[p] = make([]Card, 0, cardsPerPlayer+1)
	}

	pop := func() (Card, bool) {
		if len(remaining) == 0 {
			return Card{}, false
		}
		c := remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]
		return c, true
	}

	for range cardsPerPlayer {
		for p := range numPlayers {
			if c, ok := pop(); ok {
				hands[p] = append(hands[p], c)
			}
		}
	}
	if c, ok := pop(); ok {
		hands[0] = append(hands[0], c)
	}

	return DealResult{Hands: hands, Remaining: remaining}
}

// CardPoints returns the showdown value of a single card:
// ace is 1, two to nine are face value, ten and court cards are 10.
func CardPoints(c Card) int {
	if c.Rank >= Ten {
		return 10
	}
	return int(c.Rank)
}

// Points sums CardPoints over a hand.
func Points(hand []Card) int {
	total := 0
	for _, c := range hand {
		total += CardPoints(c)
	}
	return total
}
