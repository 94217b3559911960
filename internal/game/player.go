package game

import (
	"slices"

	"github.com/lox/tongits/cards"
)

// Seat describes who sits at a table before any cards are dealt.
type Seat struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	IsBot bool   `json:"isBot"`
}

// DefaultSeats is the standard table: one human and two placeholder bots.
func DefaultSeats() []Seat {
	return []Seat{
		{ID: "p1", Name: "You"},
		{ID: "bot1", Name: "Bot 1", IsBot: true},
		{ID: "bot2", Name: "Bot 2", IsBot: true},
	}
}

// Meld is a set or run a player has exposed. Melds are never modified once
// created.
type Meld struct {
	ID    string         `json:"id"`
	Cards []cards.Card   `json:"cards"`
	Type  cards.MeldType `json:"type"`
}

// Player represents a seated player. Hand order is the player's arrangement
// and carries no rule meaning.
type Player struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Hand         []cards.Card `json:"hand"`
	ExposedMelds []Meld       `json:"exposedMelds"`
	IsBot        bool         `json:"isBot"`
	Points       int          `json:"points"` // last showdown total
}

// HasCard returns the position of the card with the given id in the hand.
func (p *Player) HasCard(cardID string) (int, bool) {
	for i, c := range p.Hand {
		if c.ID() == cardID {
			return i, true
		}
	}
	return -1, false
}

// MeldedCards returns every card in the player's exposed melds.
func (p *Player) MeldedCards() []cards.Card {
	var out []cards.Card
	for _, m := range p.ExposedMelds {
		out = append(out, m.Cards...)
	}
	return out
}

func (p Player) clone() Player {
	p.Hand = slices.Clone(p.Hand)
	melds := make([]Meld, len(p.ExposedMelds))
	for i, m := range p.ExposedMelds {
		melds[i] = Meld{ID: m.ID, Type: m.Type, Cards: slices.Clone(m.Cards)}
	}
	if p.ExposedMelds == nil {
		melds = nil
	}
	p.ExposedMelds = melds
	return p
}
