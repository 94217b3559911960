// Package cards implements the deck, meld rules and hand grouper for Tongits.
//
// Everything in this package is pure: functions never mutate their inputs and
// carry no hidden state, so the game state machine can call them freely while
// building a new snapshot.
package cards

import (
	"fmt"
	"strings"
)

// Suit represents a card suit. The zero value is Hearts and the declared order
// is the deck enumeration order.
type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Suits lists every suit in enumeration order.
var Suits = [...]Suit{Hearts, Diamonds, Clubs, Spades}

// String returns the lowercase suit name used in card ids.
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "hearts"
	case Diamonds:
		return "diamonds"
	case Clubs:
		return "clubs"
	case Spades:
		return "spades"
	default:
		return "?"
	}
}

// Symbol returns the unicode suit symbol.
func (s Suit) Symbol() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// IsRed returns true for hearts and diamonds.
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. Its numeric value is the card value (A=1, K=13).
type Rank uint8

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// String returns the rank label (A, 2..10, J, Q, K).
func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		if r >= Two && r <= Ten {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// Card is a playing card. Group is a display-only tag set by GroupHand so a
// front-end can colour cards of the same discovered meld; it never takes part
// in identity or rule checks.
type Card struct {
	Suit  Suit `json:"suit"`
	Rank  Rank `json:"rank"`
	Group int  `json:"group,omitempty"`
}

// NewCard creates an untagged card.
func NewCard(rank Rank, suit Suit) Card {
	return Card{Suit: suit, Rank: rank}
}

// ID returns the stable identity of the card, e.g. "hearts-10".
func (c Card) ID() string {
	return c.Suit.String() + "-" + c.Rank.String()
}

// Value returns the card value in [1,13].
func (c Card) Value() int {
	return int(c.Rank)
}

// Index returns the position of the card in NewDeck order (0-51).
func (c Card) Index() int {
	return int(c.Suit)*13 + int(c.Rank) - 1
}

// Valid reports whether the card has a known suit and rank.
func (c Card) Valid() bool {
	return c.Suit <= Spades && c.Rank >= Ace && c.Rank <= King
}

// Untagged returns the card with its group tag cleared.
func (c Card) Untagged() Card {
	c.Group = 0
	return c
}

// String returns a short display form, e.g. "10♥".
func (c Card) String() string {
	return c.Rank.String() + c.Suit.Symbol()
}

// Same reports whether two cards have the same identity, ignoring group tags.
func Same(a, b Card) bool {
	return a.Suit == b.Suit && a.Rank == b.Rank
}

// IDs returns the ids of the given cards in order.
func IDs(cs []Card) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID()
	}
	return ids
}

// FormatCards joins the display forms of the cards with spaces.
func FormatCards(cs []Card) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// ParseCard parses a card from one of the accepted notations:
// "10h", "Th", "qs", "A♠" or the id form "hearts-10".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Card{}, fmt.Errorf("empty card")
	}

	if suitName, rankName, ok := strings.Cut(s, "-"); ok {
		suit, err := parseSuitName(suitName)
		if err != nil {
			return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
		}
		rank, err := parseRank(rankName)
		if err != nil {
			return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
		}
		return NewCard(rank, suit), nil
	}

	runes := []rune(s)
	suitPart := string(runes[len(runes)-1])
	rankPart := string(runes[:len(runes)-1])

	suit, err := parseSuitName(suitPart)
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	rank, err := parseRank(rankPart)
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	return NewCard(rank, suit), nil
}

// ParseCards parses every string with ParseCard and rejects duplicates.
func ParseCards(ss []string) ([]Card, error) {
	var seen CardSet
	out := make([]Card, 0, len(ss))
	for _, s := range ss {
		c, err := ParseCard(s)
		if err != nil {
			return nil, err
		}
		if seen.Contains(c) {
			return nil, fmt.Errorf("duplicate card %s", c.ID())
		}
		seen.Add(c)
		out = append(out, c)
	}
	return out, nil
}

func parseSuitName(s string) (Suit, error) {
	switch strings.ToLower(s) {
	case "h", "hearts", "♥":
		return Hearts, nil
	case "d", "diamonds", "♦":
		return Diamonds, nil
	case "c", "clubs", "♣":
		return Clubs, nil
	case "s", "spades", "♠":
		return Spades, nil
	}
	return 0, fmt.Errorf("unknown suit %q", s)
}

func parseRank(s string) (Rank, error) {
	switch strings.ToUpper(s) {
	case "A", "1":
		return Ace, nil
	case "T", "10":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	}
	if len(s) == 1 && s[0] >= '2' && s[0] <= '9' {
		return Rank(s[0] - '0'), nil
	}
	return 0, fmt.Errorf("unknown rank %q", s)
}
