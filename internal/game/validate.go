package game

import (
	"errors"
	"fmt"

	"github.com/lox/tongits/cards"
)

// Validate checks the invariants every committed state must satisfy: all 52
// cards accounted for exactly once, the current player id matching the turn
// index, and every exposed meld being a legal set or run. A waiting game with
// no cards anywhere is valid.
func Validate(s State) error {
	var errs []error

	if len(s.Players) > 0 {
		if s.CurrentTurnIndex < 0 || s.CurrentTurnIndex >= len(s.Players) {
			errs = append(errs, fmt.Errorf("turn index %d out of range", s.CurrentTurnIndex))
		} else if s.Players[s.CurrentTurnIndex].ID != s.CurrentPlayerID {
			errs = append(errs, fmt.Errorf("current player %q does not sit at index %d", s.CurrentPlayerID, s.CurrentTurnIndex))
		}
	}

	var seen cards.CardSet
	total := 0
	count := func(where string, cs []cards.Card) {
		for _, c := range cs {
			if !c.Valid() {
				errs = append(errs, fmt.Errorf("%s: invalid card %+v", where, c))
				continue
			}
			if seen.Contains(c) {
				errs = append(errs, fmt.Errorf("%s: duplicate card %s", where, c.ID()))
			}
			seen.Add(c)
			total++
		}
	}

	count("deck", s.Deck)
	count("discard pile", s.DiscardPile)
	for _, p := range s.Players {
		count(p.ID+" hand", p.Hand)
		for _, m := range p.ExposedMelds {
			count(p.ID+" meld "+m.ID, m.Cards)
			if !cards.IsValidMeld(m.Cards) {
				errs = append(errs, fmt.Errorf("%s meld %s is not a set or run: %s", p.ID, m.ID, cards.FormatCards(m.Cards)))
			}
		}
	}

	if !(s.Phase == PhaseWaiting && total == 0) && (total != cards.DeckSize || seen != cards.FullDeck) {
		errs = append(errs, fmt.Errorf("expected %d distinct cards, found %d (%d distinct)", cards.DeckSize, total, seen.Len()))
	}

	return errors.Join(errs...)
}
