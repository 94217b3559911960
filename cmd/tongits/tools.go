package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/tongits/cards"
	"github.com/lox/tongits/internal/game"
	"github.com/lox/tongits/internal/history"
	"github.com/lox/tongits/internal/randutil"
)

// ArrangeCmd prints the best grouping of a hand
type ArrangeCmd struct {
	Cards []string `arg:"" name:"card" help:"Cards like 3h 10d Qs A♠ or hearts-3"`
}

func (c *ArrangeCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *ArrangeCmd) run(w io.Writer) error {
	hand, err := cards.ParseCards(c.Cards)
	if err != nil {
		return err
	}

	grouping := cards.Solve(hand)
	for i, meld := range grouping.Melds {
		typ, _ := cards.ClassifyMeld(meld)
		fmt.Fprintf(w, "meld %d (%s): %s\n", i+1, typ, cards.FormatCards(meld))
	}
	fmt.Fprintf(w, "deadwood: %s (%d points)\n", orNone(cards.FormatCards(grouping.Deadwood)), cards.Points(grouping.Deadwood))
	return nil
}

// DealCmd shuffles a deck and deals it the way a game would
type DealCmd struct {
	Seed           int64 `help:"Shuffle seed (0 picks one)"`
	Players        int   `default:"3" help:"Number of players"`
	CardsPerPlayer int   `default:"12" help:"Cards per non-dealer"`
}

func (c *DealCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *DealCmd) run(w io.Writer) error {
	if c.Players < 1 {
		return fmt.Errorf("need at least one player")
	}
	if need := c.Players*c.CardsPerPlayer + 1; c.CardsPerPlayer < 1 || need > cards.DeckSize {
		return fmt.Errorf("cannot deal %d cards to %d players from %d", c.CardsPerPlayer, c.Players, cards.DeckSize)
	}

	seed, rng := randutil.Resolve(&c.Seed)
	deal := cards.Deal(cards.Shuffle(cards.NewDeck(), rng), c.Players, c.CardsPerPlayer)

	fmt.Fprintf(w, "seed: %d\n", seed)
	for i, hand := range deal.Hands {
		fmt.Fprintf(w, "player %d (%d): %s\n", i+1, len(hand), cards.FormatCards(cards.SortBySuit(hand)))
	}
	fmt.Fprintf(w, "deck: %d cards\n", len(deal.Remaining))
	return nil
}

// HistoryCmd prints a game record written by the server
type HistoryCmd struct {
	File string `arg:"" type:"existingfile" help:"Path to a <game id>.json or <game id>-<round>.json record"`
}

func (c *HistoryCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *HistoryCmd) run(w io.Writer) error {
	rec, err := history.Load(c.File)
	if err != nil {
		return err
	}

	names := make(map[string]string, len(rec.Players))
	ids := make([]string, len(rec.Players))
	for i, p := range rec.Players {
		names[p.ID] = p.Name
		ids[i] = p.ID
	}

	header := "game " + rec.GameID
	if rec.Round > 1 {
		header += fmt.Sprintf(" round %d", rec.Round)
	}
	fmt.Fprintf(w, "%s (seed %d), players %s\n", header, rec.Seed, strings.Join(ids, ", "))
	for _, e := range rec.Entries {
		line := fmt.Sprintf("%3d  turn %-3d %-15s", e.Seq, e.Turn, e.Type)
		if e.Player != "" {
			line += " " + names[e.Player]
		}
		if len(e.Cards) > 0 {
			line += " " + strings.Join(e.Cards, " ")
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
	if rec.WinnerID == "" {
		fmt.Fprintln(w, "unfinished")
		return nil
	}
	fmt.Fprintf(w, "winner: %s (%s)\n", names[rec.WinnerID], rec.Reason)
	for _, id := range ids {
		if pts, ok := rec.Points[id]; ok {
			fmt.Fprintf(w, "  %s: %d\n", names[id], pts)
		}
	}
	return nil
}

// humanSeat picks the first seat not flagged as a bot.
func humanSeat(seats []game.Seat) string {
	for _, s := range seats {
		if !s.IsBot {
			return s.ID
		}
	}
	if len(seats) > 0 {
		return seats[0].ID
	}
	return ""
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
