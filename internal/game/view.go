package game

import "github.com/lox/tongits/cards"

// PlayerView is what one seat is allowed to see. Opponents' hands are reduced
// to a card count.
type PlayerView struct {
	GameID          string       `json:"gameId"`
	Viewer          string       `json:"viewer"`
	Phase           Phase        `json:"phase"`
	Hand            []cards.Card `json:"hand"`
	Seats           []SeatView   `json:"seats"`
	DeckCount       int          `json:"deckCount"`
	DiscardTop      *cards.Card  `json:"discardTop,omitempty"`
	DiscardCount    int          `json:"discardCount"`
	CurrentPlayerID string       `json:"currentPlayerId"`
	WinnerID        string       `json:"winnerId,omitempty"`
	TurnCount       int          `json:"turnCount"`
	HasDrawn        bool         `json:"hasDrawn"`
}

// SeatView is the public information about one seat.
type SeatView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	IsBot        bool   `json:"isBot"`
	HandCount    int    `json:"handCount"`
	ExposedMelds []Meld `json:"exposedMelds"`
	Points       int    `json:"points"`
}

// ViewFor builds the view of s seen by viewer. An unknown viewer gets a
// spectator view with no hand.
func (s State) ViewFor(gameID, viewer string) PlayerView {
	v := PlayerView{
		GameID:          gameID,
		Viewer:          viewer,
		Phase:           s.Phase,
		DeckCount:       len(s.Deck),
		DiscardCount:    len(s.DiscardPile),
		CurrentPlayerID: s.CurrentPlayerID,
		WinnerID:        s.WinnerID,
		TurnCount:       s.TurnCount,
		HasDrawn:        s.HasDrawn,
		Seats:           make([]SeatView, len(s.Players)),
	}
	if top, ok := s.TopDiscard(); ok {
		v.DiscardTop = &top
	}
	for i, p := range s.Players {
		p = p.clone()
		v.Seats[i] = SeatView{
			ID:           p.ID,
			Name:         p.Name,
			IsBot:        p.IsBot,
			HandCount:    len(p.Hand),
			ExposedMelds: p.ExposedMelds,
			Points:       p.Points,
		}
		if p.ID == viewer {
			v.Hand = p.Hand
		}
	}
	return v
}
