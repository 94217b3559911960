package cards

import "math/bits"

// CardSet represents a set of cards using a bitset. Each card maps to the bit
// at its Card.Index, so a full deck fits in 52 bits.
type CardSet uint64

// FullDeck is the CardSet holding all 52 cards.
const FullDeck CardSet = 1<<52 - 1

// NewCardSet creates a CardSet from a slice of cards.
func NewCardSet(cs []Card) CardSet {
	var set CardSet
	for _, c := range cs {
		set.Add(c)
	}
	return set
}

// Add adds a card to the set.
func (s *CardSet) Add(c Card) {
	*s |= 1 << c.Index()
}

// Remove removes a card from the set.
func (s *CardSet) Remove(c Card) {
	*s &^= 1 << c.Index()
}

// Contains checks if a card is in the set.
func (s CardSet) Contains(c Card) bool {
	return s&(1<<c.Index()) != 0
}

// Len returns the number of cards in the set.
func (s CardSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Cards returns the members of the set in deck order.
func (s CardSet) Cards() []Card {
	out := make([]Card, 0, s.Len())
	for s != 0 {
		i := bits.TrailingZeros64(uint64(s))
		out = append(out, cardAt(i))
		s &= s - 1
	}
	return out
}

func cardAt(i int) Card {
	return NewCard(Rank(i%13+1), Suit(i/13))
}
