package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/tongits/cards"
	"github.com/lox/tongits/internal/randutil"
)

func TestStartDealsStandardGame(t *testing.T) {
	deck := cards.Shuffle(cards.NewDeck(), randutil.New(42))
	s := mustApply(t, NewState(DefaultSeats()), Start{Deck: deck})

	assert.Equal(t, PhasePlaying, s.Phase)
	assert.Len(t, s.Players[0].Hand, 13, "dealer gets the extra card")
	assert.Len(t, s.Players[1].Hand, 12)
	assert.Len(t, s.Players[2].Hand, 12)
	assert.Len(t, s.Deck, 52-(12*3+1))
	assert.Equal(t, deck[:15], s.Deck, "undealt cards keep their order")
	assert.Empty(t, s.DiscardPile)
	assert.Equal(t, 0, s.CurrentTurnIndex)
	assert.Equal(t, "p1", s.CurrentPlayerID)
	assert.Equal(t, 0, s.TurnCount)
	assert.False(t, s.HasDrawn)
	assert.Empty(t, s.WinnerID)
}

func TestStartCustomDealSize(t *testing.T) {
	s := mustApply(t, NewState(DefaultSeats()), Start{Deck: cards.NewDeck(), CardsPerPlayer: 5})

	assert.Len(t, s.Players[0].Hand, 6)
	assert.Len(t, s.Players[1].Hand, 5)
	assert.Len(t, s.Players[2].Hand, 5)
	assert.Len(t, s.Deck, 36)
}

func TestStartRejectsBadDeck(t *testing.T) {
	full := cards.NewDeck()
	dup := append([]cards.Card(nil), full...)
	dup[0] = dup[1]

	tests := []struct {
		name string
		deck []cards.Card
	}{
		{"empty", nil},
		{"short", full[:51]},
		{"duplicate", dup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(DefaultSeats())
			next, err := Apply(s, Start{Deck: tt.deck})
			require.ErrorIs(t, err, ErrInvalidDeck)
			assert.Equal(t, s, next)
		})
	}
}

func TestStartWithoutPlayers(t *testing.T) {
	_, err := Apply(NewState(nil), Start{Deck: cards.NewDeck()})
	requireKind(t, err, KindInvalidPhase)
}

func TestRestartAfterEnd(t *testing.T) {
	s := riggedState(t, []string{"3h", "3d", "3c", "9s"})
	s = mustApply(t, s, MeldCards{PlayerID: "p1", CardIDs: []string{"hearts-3", "diamonds-3", "clubs-3"}})
	s = mustApply(t, s, Discard{PlayerID: "p1", CardID: "spades-9"})
	require.Equal(t, PhaseEnded, s.Phase)

	s = mustApply(t, s, Start{Deck: cards.Shuffle(cards.NewDeck(), randutil.New(7))})

	assert.Equal(t, PhasePlaying, s.Phase)
	assert.Empty(t, s.WinnerID)
	assert.Empty(t, s.DiscardPile)
	assert.Equal(t, "p1", s.CurrentPlayerID)
	assert.Equal(t, 0, s.TurnCount)
	for _, p := range s.Players {
		assert.Empty(t, p.ExposedMelds, p.ID)
		assert.Zero(t, p.Points, p.ID)
	}
}

func TestDraw(t *testing.T) {
	s := riggedState(t, []string{"2h"})

	next := mustApply(t, s, Draw{PlayerID: "p1"})

	require.Len(t, next.Players[0].Hand, 2)
	assert.Equal(t, "spades-K", next.Players[0].Hand[1].ID(), "draws from the top of the deck")
	assert.Len(t, next.Deck, len(s.Deck)-1)
	assert.True(t, next.HasDrawn)
	assert.Equal(t, 0, next.CurrentTurnIndex, "drawing does not pass the turn")
}

func TestDrawEmptyDeck(t *testing.T) {
	s := riggedState(t, []string{"2h"})
	s.DiscardPile, s.Deck = s.Deck, nil
	require.NoError(t, Validate(s))

	next, err := Apply(s, Draw{PlayerID: "p1"})
	requireKind(t, err, KindEmptyDeck)
	assert.ErrorIs(t, err, ErrEmptyDeck)
	assert.Equal(t, s, next)
}

func TestDiscardPassesTurn(t *testing.T) {
	s := mustApply(t, NewState(DefaultSeats()), Start{Deck: cards.Shuffle(cards.NewDeck(), randutil.New(3))})

	for turn := range 6 {
		p := s.Players[s.CurrentTurnIndex]
		s = mustApply(t, s, Draw{PlayerID: p.ID})
		drawnHand := s.Players[turn%3].Hand
		card := drawnHand[0]

		s = mustApply(t, s, Discard{PlayerID: p.ID, CardID: card.ID()})

		top, ok := s.TopDiscard()
		require.True(t, ok)
		assert.Equal(t, card.ID(), top.ID())
		assert.Equal(t, (turn+1)%3, s.CurrentTurnIndex)
		assert.Equal(t, s.Players[s.CurrentTurnIndex].ID, s.CurrentPlayerID)
		assert.Equal(t, turn+1, s.TurnCount)
		assert.False(t, s.HasDrawn)
		assert.Equal(t, PhasePlaying, s.Phase)
	}
	assert.Len(t, s.DiscardPile, 6)
}

func TestDiscardLastCardWins(t *testing.T) {
	// The deck is nearly full; the win does not wait for it to run out.
	s := riggedState(t, []string{"9s"}, []string{"2h", "3h"})

	s = mustApply(t, s, Discard{PlayerID: "p1", CardID: "spades-9"})

	assert.Equal(t, PhaseEnded, s.Phase)
	assert.Equal(t, "p1", s.WinnerID)
	assert.Equal(t, "bot1", s.CurrentPlayerID, "turn still advances")
	assert.Greater(t, len(s.Deck), 0)
}

func TestDiscardClearsGroupTag(t *testing.T) {
	s := riggedState(t, []string{"3h", "3d", "3c", "9s"})
	s = mustApply(t, s, AutoArrange{PlayerID: "p1"})
	require.Equal(t, 1, s.Players[0].Hand[0].Group)

	s = mustApply(t, s, Discard{PlayerID: "p1", CardID: "hearts-3"})

	top, _ := s.TopDiscard()
	assert.Zero(t, top.Group)
}

func TestMeldCards(t *testing.T) {
	s := riggedState(t, []string{"3h", "3d", "3c", "4s", "5s", "6s", "9c"})

	s = mustApply(t, s, MeldCards{PlayerID: "p1", CardIDs: []string{"hearts-3", "diamonds-3", "clubs-3"}})
	s = mustApply(t, s, MeldCards{PlayerID: "p1", CardIDs: []string{"spades-6", "spades-4", "spades-5"}})

	p := s.Players[0]
	assert.Equal(t, []string{"clubs-9"}, cards.IDs(p.Hand))
	require.Len(t, p.ExposedMelds, 2)

	assert.Equal(t, "p1-m1", p.ExposedMelds[0].ID)
	assert.Equal(t, cards.MeldSet, p.ExposedMelds[0].Type)
	assert.Equal(t, []string{"hearts-3", "diamonds-3", "clubs-3"}, cards.IDs(p.ExposedMelds[0].Cards))

	assert.Equal(t, "p1-m2", p.ExposedMelds[1].ID)
	assert.Equal(t, cards.MeldRun, p.ExposedMelds[1].Type)
	assert.Equal(t, []string{"spades-6", "spades-4", "spades-5"}, cards.IDs(p.ExposedMelds[1].Cards), "meld keeps the order given")

	assert.Equal(t, 0, s.CurrentTurnIndex, "melding is a free action")
	assert.Equal(t, 0, s.TurnCount)
}

func TestActionErrors(t *testing.T) {
	base := riggedState(t,
		[]string{"3h", "3d", "3c", "9s", "js"},
		[]string{"4h", "4d", "4c"},
	)
	waiting := NewState(DefaultSeats())
	ended := base.Clone()
	ended.Phase = PhaseEnded

	tests := []struct {
		name   string
		state  State
		action Action
		kind   ErrorKind
	}{
		{"draw out of turn", base, Draw{PlayerID: "bot1"}, KindNotYourTurn},
		{"discard out of turn", base, Discard{PlayerID: "bot1", CardID: "hearts-4"}, KindNotYourTurn},
		{"meld out of turn", base, MeldCards{PlayerID: "bot1", CardIDs: []string{"hearts-4", "diamonds-4", "clubs-4"}}, KindNotYourTurn},
		{"draw unknown player", base, Draw{PlayerID: "nobody"}, KindUnknownPlayer},
		{"reorder unknown player", base, Reorder{PlayerID: "nobody"}, KindUnknownPlayer},
		{"arrange unknown player", base, AutoArrange{PlayerID: "nobody"}, KindUnknownPlayer},
		{"draw before start", waiting, Draw{PlayerID: "p1"}, KindInvalidPhase},
		{"discard after end", ended, Discard{PlayerID: "p1", CardID: "spades-9"}, KindInvalidPhase},
		{"meld after end", ended, MeldCards{PlayerID: "p1", CardIDs: []string{"hearts-3", "diamonds-3", "clubs-3"}}, KindInvalidPhase},
		{"showdown before start", waiting, Showdown{}, KindInvalidPhase},
		{"showdown after end", ended, Showdown{}, KindInvalidPhase},
		{"showdown with cards in the deck", base, Showdown{}, KindInvalidPhase},
		{"discard card not held", base, Discard{PlayerID: "p1", CardID: "hearts-4"}, KindCardNotInHand},
		{"discard bogus id", base, Discard{PlayerID: "p1", CardID: "bogus"}, KindCardNotInHand},
		{"meld card not held", base, MeldCards{PlayerID: "p1", CardIDs: []string{"hearts-3", "diamonds-3", "hearts-4"}}, KindCardNotInHand},
		{"meld neither set nor run", base, MeldCards{PlayerID: "p1", CardIDs: []string{"hearts-3", "diamonds-3", "spades-9"}}, KindInvalidMeld},
		{"meld too small", base, MeldCards{PlayerID: "p1", CardIDs: []string{"hearts-3", "diamonds-3"}}, KindInvalidMeld},
		{"meld empty", base, MeldCards{PlayerID: "p1"}, KindInvalidMeld},
		{"meld repeats a card", base, MeldCards{PlayerID: "p1", CardIDs: []string{"hearts-3", "hearts-3", "diamonds-3"}}, KindInvalidMeld},
		{"meld gapped run", base, MeldCards{PlayerID: "p1", CardIDs: []string{"spades-9", "spades-J", "hearts-3"}}, KindInvalidMeld},
		{"reorder too few", base, Reorder{PlayerID: "p1", CardIDs: []string{"hearts-3"}}, KindHandMismatch},
		{"reorder foreign card", base, Reorder{PlayerID: "p1", CardIDs: []string{"hearts-3", "diamonds-3", "clubs-3", "spades-9", "hearts-4"}}, KindHandMismatch},
		{"reorder repeated card", base, Reorder{PlayerID: "p1", CardIDs: []string{"hearts-3", "hearts-3", "clubs-3", "spades-9", "spades-J"}}, KindHandMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.state.Clone()
			next, err := Apply(tt.state, tt.action)
			requireKind(t, err, tt.kind)
			assert.Equal(t, before, next, "state must be unchanged")
			assert.Equal(t, before, tt.state, "input must be unchanged")
		})
	}
}

func TestActionErrorMessage(t *testing.T) {
	_, err := Apply(riggedState(t, []string{"2h"}), Draw{PlayerID: "bot1"})

	assert.EqualError(t, err, "bot1: not your turn: waiting on p1")
	assert.True(t, errors.Is(err, ErrNotYourTurn))
	assert.False(t, errors.Is(err, ErrInvalidMeld))
}

func TestReorder(t *testing.T) {
	s := riggedState(t, []string{"3h", "9s", "3d"}, []string{"kh", "2c", "7d"})

	s = mustApply(t, s, Reorder{PlayerID: "p1", CardIDs: []string{"spades-9", "diamonds-3", "hearts-3"}})
	assert.Equal(t, []string{"spades-9", "diamonds-3", "hearts-3"}, cards.IDs(s.Players[0].Hand))

	// Arranging your own hand is allowed out of turn.
	s = mustApply(t, s, Reorder{PlayerID: "bot1", CardIDs: []string{"clubs-2", "diamonds-7", "hearts-K"}})
	assert.Equal(t, []string{"clubs-2", "diamonds-7", "hearts-K"}, cards.IDs(s.Players[1].Hand))
	assert.Equal(t, "p1", s.CurrentPlayerID)
}

func TestAutoArrange(t *testing.T) {
	s := riggedState(t, []string{"9c", "5s", "3d", "6s", "3h", "4s", "3c"})

	s = mustApply(t, s, AutoArrange{PlayerID: "p1"})

	hand := s.Players[0].Hand
	assert.Equal(t, cards.FormatCards(cards.GroupHand(hand)), cards.FormatCards(hand))
	assert.Equal(t, []string{
		"clubs-3", "diamonds-3", "hearts-3",
		"spades-4", "spades-5", "spades-6",
		"clubs-9",
	}, cards.IDs(hand))

	groups := make([]int, len(hand))
	for i, c := range hand {
		groups[i] = c.Group
	}
	assert.Equal(t, []int{1, 1, 1, 2, 2, 2, 0}, groups)
}

func TestAutoArrangeBeforeStart(t *testing.T) {
	s := mustApply(t, NewState(DefaultSeats()), AutoArrange{PlayerID: "p1"})
	assert.Empty(t, s.Players[0].Hand)
}

func TestShowdown(t *testing.T) {
	tests := []struct {
		name   string
		hands  [][]string
		winner string
		points []int
	}{
		{
			name:   "lowest total wins",
			hands:  [][]string{{"ks"}, {"5h", "5d"}, {"ah"}},
			winner: "bot2",
			points: []int{10, 10, 1},
		},
		{
			name:   "tie goes to earliest seat",
			hands:  [][]string{{"kd"}, {"qh"}, {"kc", "2h"}},
			winner: "p1",
			points: []int{10, 10, 12},
		},
		{
			name:   "tie between later seats",
			hands:  [][]string{{"kh"}, {"4h"}, {"2c", "2d"}},
			winner: "bot1",
			points: []int{10, 4, 4},
		},
		{
			name:   "court cards count ten",
			hands:  [][]string{{"jh", "qd"}, {"9c", "9d", "2s"}, {"th", "ac", "as"}},
			winner: "bot2",
			points: []int{20, 20, 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustApply(t, exhaustDeck(riggedState(t, tt.hands...)), Showdown{})

			assert.Equal(t, PhaseEnded, s.Phase)
			assert.Equal(t, tt.winner, s.WinnerID)
			for i, want := range tt.points {
				assert.Equal(t, want, s.Players[i].Points, s.Players[i].ID)
			}
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	s := riggedState(t, []string{"3h", "3d", "3c", "9s"})
	before := s.Clone()

	next := mustApply(t, s, Draw{PlayerID: "p1"})
	next = mustApply(t, next, MeldCards{PlayerID: "p1", CardIDs: []string{"hearts-3", "diamonds-3", "clubs-3"}})
	next = mustApply(t, next, AutoArrange{PlayerID: "p1"})
	_ = mustApply(t, next, Discard{PlayerID: "p1", CardID: "spades-9"})

	assert.Equal(t, before, s)
}

// TestRandomPlayKeepsInvariants plays whole games with a naive policy: draw,
// lay down the first meld the grouper finds, discard the last card.
func TestRandomPlayKeepsInvariants(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		rng := randutil.New(seed)
		s := mustApply(t, NewState(DefaultSeats()), Start{Deck: cards.Shuffle(cards.NewDeck(), rng)})

		for step := 0; s.Phase == PhasePlaying; step++ {
			require.Less(t, step, 200, "seed %d: game did not finish", seed)
			pid := s.CurrentPlayerID
			idx := s.CurrentTurnIndex

			next, err := Apply(s, Draw{PlayerID: pid})
			if errors.Is(err, ErrEmptyDeck) {
				s = mustApply(t, s, Showdown{})
				break
			}
			require.NoError(t, err)
			s = next
			require.NoError(t, Validate(s))

			// Keep at least one card back so there is something to discard.
			if g := cards.Solve(s.Players[idx].Hand); len(g.Melds) > 0 && len(g.Melds[0]) < len(s.Players[idx].Hand) {
				s = mustApply(t, s, MeldCards{PlayerID: pid, CardIDs: cards.IDs(g.Melds[0])})
				assert.Equal(t, idx, s.CurrentTurnIndex, "seed %d: meld moved the turn", seed)
			}

			hand := s.Players[idx].Hand
			if rng.IntN(2) == 0 {
				s = mustApply(t, s, AutoArrange{PlayerID: pid})
				hand = s.Players[idx].Hand
			}
			s = mustApply(t, s, Discard{PlayerID: pid, CardID: hand[len(hand)-1].ID()})
			assert.Equal(t, (idx+1)%len(s.Players), s.CurrentTurnIndex, "seed %d", seed)
		}

		assert.Equal(t, PhaseEnded, s.Phase, "seed %d", seed)
		assert.NotEmpty(t, s.WinnerID, "seed %d", seed)
	}
}
