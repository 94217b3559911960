package game

import (
	"slices"

	"github.com/lox/tongits/cards"
)

// Phase is the lifecycle stage of a game.
type Phase string

const (
	PhaseWaiting Phase = "waiting"
	PhasePlaying Phase = "playing"
	PhaseEnded   Phase = "ended"
)

// State is a complete, self-contained snapshot of one game. The deck and the
// discard pile are stacks whose top is the last element.
//
// States are values: Apply never modifies the state it is given, so a caller
// holding an old snapshot keeps seeing exactly what it saw.
type State struct {
	Deck             []cards.Card `json:"deck"`
	DiscardPile      []cards.Card `json:"discardPile"`
	Players          []Player     `json:"players"`
	CurrentTurnIndex int          `json:"currentTurnIndex"`
	CurrentPlayerID  string       `json:"currentPlayerId"`
	Phase            Phase        `json:"phase"`
	WinnerID         string       `json:"winnerId,omitempty"`
	TurnCount        int          `json:"turnCount"`
	HasDrawn         bool         `json:"hasDrawn"` // current player drew this turn
}

// NewState seats players in the given order and waits for Start.
func NewState(seats []Seat) State {
	players := make([]Player, len(seats))
	for i, s := range seats {
		players[i] = Player{ID: s.ID, Name: s.Name, IsBot: s.IsBot}
	}
	st := State{Players: players, Phase: PhaseWaiting}
	if len(players) > 0 {
		st.CurrentPlayerID = players[0].ID
	}
	return st
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.Deck = slices.Clone(s.Deck)
	out.DiscardPile = slices.Clone(s.DiscardPile)
	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		out.Players[i] = p.clone()
	}
	return out
}

// PlayerIndex returns the seat index of the player, or -1.
func (s State) PlayerIndex(playerID string) int {
	for i := range s.Players {
		if s.Players[i].ID == playerID {
			return i
		}
	}
	return -1
}

// Player returns a copy of the player with the given id.
func (s State) Player(playerID string) (Player, bool) {
	i := s.PlayerIndex(playerID)
	if i < 0 {
		return Player{}, false
	}
	return s.Players[i].clone(), true
}

// CurrentPlayer returns a copy of the player whose turn it is.
func (s State) CurrentPlayer() (Player, bool) {
	if s.CurrentTurnIndex < 0 || s.CurrentTurnIndex >= len(s.Players) {
		return Player{}, false
	}
	return s.Players[s.CurrentTurnIndex].clone(), true
}

// TopDiscard returns the most recent discard.
func (s State) TopDiscard() (cards.Card, bool) {
	if len(s.DiscardPile) == 0 {
		return cards.Card{}, false
	}
	return s.DiscardPile[len(s.DiscardPile)-1], true
}
