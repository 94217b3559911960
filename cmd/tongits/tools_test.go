package main

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/tongits/internal/game"
	"github.com/lox/tongits/internal/history"
	"github.com/lox/tongits/internal/randutil"
)

func TestArrangeCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := ArrangeCmd{Cards: []string{"3h", "3d", "3c", "5s"}}
	require.NoError(t, cmd.run(&out))

	assert.Contains(t, out.String(), "meld 1 (set): ")
	assert.Contains(t, out.String(), "deadwood: 5♠ (5 points)")
}

func TestArrangeCmdErrors(t *testing.T) {
	tests := []struct {
		name  string
		cards []string
	}{
		{"bad card", []string{"3h", "zz"}},
		{"duplicate", []string{"3h", "hearts-3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := ArrangeCmd{Cards: tt.cards}
			assert.Error(t, cmd.run(io.Discard))
		})
	}
}

func TestArrangeCmdAllDeadwood(t *testing.T) {
	var out bytes.Buffer
	cmd := ArrangeCmd{Cards: []string{"2h", "9s"}}
	require.NoError(t, cmd.run(&out))
	assert.Equal(t, "deadwood: 2♥ 9♠ (11 points)\n", out.String())
}

func TestDealCmdIsReplayable(t *testing.T) {
	var first, second bytes.Buffer
	cmd := DealCmd{Seed: 42, Players: 3, CardsPerPlayer: 12}
	require.NoError(t, cmd.run(&first))
	require.NoError(t, cmd.run(&second))

	assert.Equal(t, first.String(), second.String())
	assert.Contains(t, first.String(), "seed: 42\n")
	assert.Contains(t, first.String(), "player 1 (13): ")
	assert.Contains(t, first.String(), "player 3 (12): ")
	assert.Contains(t, first.String(), "deck: 15 cards\n")
}

func TestDealCmdRejectsOversizedDeal(t *testing.T) {
	cmd := DealCmd{Seed: 1, Players: 4, CardsPerPlayer: 13}
	assert.Error(t, cmd.run(io.Discard))

	cmd = DealCmd{Seed: 1, Players: 0, CardsPerPlayer: 12}
	assert.Error(t, cmd.run(io.Discard))
}

func TestHistoryCmd(t *testing.T) {
	dir := t.TempDir()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	seats := game.DefaultSeats()

	g := game.New("hist-game", seats, randutil.New(5), logger)
	rec := history.NewRecorder("hist-game", 5, seats, history.NewFileWriter(dir), logger)
	g.Events().Subscribe(rec)
	require.NoError(t, g.Start())
	require.NoError(t, g.Draw("p1"))
	require.NoError(t, g.Discard("p1", g.View("p1").Hand[0].ID()))
	for g.Snapshot().Phase == game.PhasePlaying {
		pid := g.Snapshot().CurrentPlayerID
		if err := g.Draw(pid); err != nil {
			require.ErrorIs(t, err, game.ErrEmptyDeck)
			break
		}
		p, _ := g.Snapshot().Player(pid)
		require.NoError(t, g.Discard(pid, p.Hand[len(p.Hand)-1].ID()))
	}

	var out bytes.Buffer
	cmd := HistoryCmd{File: filepath.Join(dir, "hist-game.json")}
	require.NoError(t, cmd.run(&out))

	s := out.String()
	assert.Contains(t, s, "game hist-game (seed 5), players p1, bot1, bot2")
	assert.Contains(t, s, "card_drawn")
	assert.Contains(t, s, "card_discarded")
	assert.Contains(t, s, "winner: ")
	assert.Contains(t, s, "(showdown)")
}

func TestHistoryCmdMissingFile(t *testing.T) {
	cmd := HistoryCmd{File: filepath.Join(t.TempDir(), "nope.json")}
	assert.Error(t, cmd.run(io.Discard))
}

func TestHumanSeat(t *testing.T) {
	assert.Equal(t, "p1", humanSeat(game.DefaultSeats()))
	assert.Equal(t, "b", humanSeat([]game.Seat{{ID: "b", IsBot: true}}))
	assert.Equal(t, "", humanSeat(nil))
}
