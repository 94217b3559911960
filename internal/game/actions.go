package game

import (
	"fmt"
	"slices"

	"github.com/lox/tongits/cards"
)

// Action is a state transition understood by Apply.
type Action interface {
	// Name is a short label used in logs and game records.
	Name() string
	apply(s *State) error
}

// Apply returns the state that results from applying a to s. On error the
// returned state is s itself, untouched: an action either commits completely
// or not at all.
func Apply(s State, a Action) (State, error) {
	next := s.Clone()
	if err := a.apply(&next); err != nil {
		return s, err
	}
	return next, nil
}

// Start deals a new game from Deck, replacing whatever state came before. It
// is legal in any phase.
type Start struct {
	Deck           []cards.Card
	CardsPerPlayer int // zero means cards.DefaultCardsPerPlayer
}

// Draw moves the top card of the deck into the player's hand.
type Draw struct {
	PlayerID string
}

// Discard moves a card from the player's hand to the discard pile and passes
// the turn. Emptying the hand wins the game.
type Discard struct {
	PlayerID string
	CardID   string
}

// MeldCards exposes a set or run from the player's hand. The turn does not pass.
type MeldCards struct {
	PlayerID string
	CardIDs  []string
}

// Reorder rearranges a hand. The ids must be exactly the cards already held.
type Reorder struct {
	PlayerID string
	CardIDs  []string
}

// AutoArrange replaces a hand with its grouped arrangement.
type AutoArrange struct {
	PlayerID string
}

// Showdown ends the game by deadwood points; lowest total wins and ties go to
// the earliest seat.
type Showdown struct{}

func (Start) Name() string       { return "start" }
func (Draw) Name() string        { return "draw" }
func (Discard) Name() string     { return "discard" }
func (MeldCards) Name() string   { return "meld" }
func (Reorder) Name() string     { return "reorder" }
func (AutoArrange) Name() string { return "arrange" }
func (Showdown) Name() string    { return "showdown" }

func (a Start) apply(s *State) error {
	if len(s.Players) == 0 {
		return actionErr(KindInvalidPhase, "", "no players seated")
	}
	if len(a.Deck) != cards.DeckSize || cards.NewCardSet(a.Deck) != cards.FullDeck {
		return ErrInvalidDeck
	}

	per := a.CardsPerPlayer
	if per <= 0 {
		per = cards.DefaultCardsPerPlayer
	}
	deal := cards.Deal(a.Deck, len(s.Players), per)

	for i := range s.Players {
		p := &s.Players[i]
		p.Hand = deal.Hands[i]
		p.ExposedMelds = nil
		p.Points = 0
	}
	s.Deck = deal.Remaining
	s.DiscardPile = nil
	s.CurrentTurnIndex = 0
	s.CurrentPlayerID = s.Players[0].ID
	s.Phase = PhasePlaying
	s.WinnerID = ""
	s.TurnCount = 0
	s.HasDrawn = false
	return nil
}

func (a Draw) apply(s *State) error {
	p, err := requireTurn(s, a.PlayerID)
	if err != nil {
		return err
	}
	if len(s.Deck) == 0 {
		return actionErr(KindEmptyDeck, a.PlayerID, "")
	}

	top := s.Deck[len(s.Deck)-1]
	s.Deck = s.Deck[:len(s.Deck)-1]
	p.Hand = append(p.Hand, top)
	s.HasDrawn = true
	return nil
}

func (a Discard) apply(s *State) error {
	p, err := requireTurn(s, a.PlayerID)
	if err != nil {
		return err
	}
	i, ok := p.HasCard(a.CardID)
	if !ok {
		return actionErr(KindCardNotInHand, a.PlayerID, "%s", a.CardID)
	}

	card := p.Hand[i].Untagged()
	p.Hand = slices.Delete(p.Hand, i, i+1)
	s.DiscardPile = append(s.DiscardPile, card)

	s.TurnCount++
	s.HasDrawn = false
	s.CurrentTurnIndex = (s.CurrentTurnIndex + 1) % len(s.Players)
	s.CurrentPlayerID = s.Players[s.CurrentTurnIndex].ID

	if len(p.Hand) == 0 {
		s.Phase = PhaseEnded
		s.WinnerID = a.PlayerID
	}
	return nil
}

func (a MeldCards) apply(s *State) error {
	p, err := requireTurn(s, a.PlayerID)
	if err != nil {
		return err
	}

	var picked cards.CardSet
	meld := make([]cards.Card, 0, len(a.CardIDs))
	for _, id := range a.CardIDs {
		i, ok := p.HasCard(id)
		if !ok {
			return actionErr(KindCardNotInHand, a.PlayerID, "%s", id)
		}
		c := p.Hand[i].Untagged()
		if picked.Contains(c) {
			return actionErr(KindInvalidMeld, a.PlayerID, "%s listed twice", id)
		}
		picked.Add(c)
		meld = append(meld, c)
	}

	typ, ok := cards.ClassifyMeld(meld)
	if !ok {
		return actionErr(KindInvalidMeld, a.PlayerID, "%s is neither a set nor a run", cards.FormatCards(meld))
	}

	p.Hand = slices.DeleteFunc(p.Hand, picked.Contains)
	p.ExposedMelds = append(p.ExposedMelds, Meld{
		ID:    fmt.Sprintf("%s-m%d", a.PlayerID, len(p.ExposedMelds)+1),
		Cards: meld,
		Type:  typ,
	})
	return nil
}

func (a Reorder) apply(s *State) error {
	p, err := requirePlayer(s, a.PlayerID)
	if err != nil {
		return err
	}
	if len(a.CardIDs) != len(p.Hand) {
		return actionErr(KindHandMismatch, a.PlayerID, "got %d cards, hand has %d", len(a.CardIDs), len(p.Hand))
	}

	byID := make(map[string]cards.Card, len(p.Hand))
	for _, c := range p.Hand {
		byID[c.ID()] = c
	}
	hand := make([]cards.Card, 0, len(p.Hand))
	for _, id := range a.CardIDs {
		c, ok := byID[id]
		if !ok {
			return actionErr(KindHandMismatch, a.PlayerID, "%s not held or listed twice", id)
		}
		delete(byID, id)
		hand = append(hand, c)
	}
	p.Hand = hand
	return nil
}

func (a AutoArrange) apply(s *State) error {
	p, err := requirePlayer(s, a.PlayerID)
	if err != nil {
		return err
	}
	p.Hand = cards.GroupHand(p.Hand)
	return nil
}

func (Showdown) apply(s *State) error {
	if s.Phase != PhasePlaying {
		return actionErr(KindInvalidPhase, "", "showdown needs a game in progress, phase is %s", s.Phase)
	}
	if len(s.Deck) > 0 {
		return actionErr(KindInvalidPhase, "", "showdown needs an exhausted deck, %d cards left", len(s.Deck))
	}

	winner := 0
	for i := range s.Players {
		s.Players[i].Points = cards.Points(s.Players[i].Hand)
		if s.Players[i].Points < s.Players[winner].Points {
			winner = i
		}
	}
	s.Phase = PhaseEnded
	s.WinnerID = s.Players[winner].ID
	return nil
}

func requirePlayer(s *State, playerID string) (*Player, error) {
	i := s.PlayerIndex(playerID)
	if i < 0 {
		return nil, actionErr(KindUnknownPlayer, playerID, "")
	}
	return &s.Players[i], nil
}

// requireTurn checks, in order, that the game is running, that the player
// exists and that it is their turn.
func requireTurn(s *State, playerID string) (*Player, error) {
	if s.Phase != PhasePlaying {
		return nil, actionErr(KindInvalidPhase, playerID, "phase is %s", s.Phase)
	}
	p, err := requirePlayer(s, playerID)
	if err != nil {
		return nil, err
	}
	if s.CurrentPlayerID != playerID {
		return nil, actionErr(KindNotYourTurn, playerID, "waiting on %s", s.CurrentPlayerID)
	}
	return p, nil
}
