package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/tongits/cards"
)

func TestViewForHidesOpponents(t *testing.T) {
	s := riggedState(t,
		[]string{"3h", "3d", "3c", "9s"},
		[]string{"kh", "2c"},
		[]string{"7d"},
	)
	s = mustApply(t, s, MeldCards{PlayerID: "p1", CardIDs: []string{"hearts-3", "diamonds-3", "clubs-3"}})
	s = mustApply(t, s, Discard{PlayerID: "p1", CardID: "spades-9"})

	v := s.ViewFor("g1", "bot1")

	assert.Equal(t, "g1", v.GameID)
	assert.Equal(t, "bot1", v.Viewer)
	assert.Equal(t, []string{"hearts-K", "clubs-2"}, cards.IDs(v.Hand))
	require.Len(t, v.Seats, 3)
	assert.Equal(t, 0, v.Seats[0].HandCount)
	assert.Len(t, v.Seats[0].ExposedMelds, 1, "exposed melds are public")
	assert.Equal(t, 2, v.Seats[1].HandCount)
	assert.Equal(t, 1, v.Seats[2].HandCount)
	require.NotNil(t, v.DiscardTop)
	assert.Equal(t, "spades-9", v.DiscardTop.ID())
	assert.Equal(t, 1, v.DiscardCount)
	assert.Equal(t, len(s.Deck), v.DeckCount)
	assert.Equal(t, "p1", v.WinnerID)
}

func TestViewForSpectator(t *testing.T) {
	s := riggedState(t, []string{"3h"})

	v := s.ViewFor("g1", "")

	assert.Empty(t, v.Hand)
	assert.Nil(t, v.DiscardTop)
	assert.Equal(t, 1, v.Seats[0].HandCount)
}

func TestViewForIsDetached(t *testing.T) {
	s := riggedState(t, []string{"3h", "4h"})

	v := s.ViewFor("g1", "p1")
	v.Hand[0] = cards.NewCard(cards.King, cards.Spades)

	assert.Equal(t, "hearts-3", s.Players[0].Hand[0].ID())
}
