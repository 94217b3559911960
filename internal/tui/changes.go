package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/tongits/cards"
	"github.com/lox/tongits/internal/game"
)

// describeChange turns the difference between two views into log lines.
// Views can skip intermediate states, so each line is inferred from counters
// rather than from individual events.
func describeChange(prev, next game.PlayerView) []string {
	if next.Phase == game.PhaseWaiting {
		return nil
	}
	names := seatNames(next)

	dealt := prev.Phase == game.PhaseWaiting ||
		(prev.Phase == game.PhaseEnded && next.Phase == game.PhasePlaying) ||
		next.DeckCount > prev.DeckCount
	if dealt {
		lines := []string{fmt.Sprintf("New game dealt, %d cards in the deck", next.DeckCount)}
		if next.Phase == game.PhasePlaying {
			lines = append(lines, names[next.CurrentPlayerID]+" to play")
		}
		return lines
	}

	var lines []string
	if next.DeckCount < prev.DeckCount && next.TurnCount == prev.TurnCount {
		lines = append(lines, names[next.CurrentPlayerID]+" drew from the deck")
	}

	for i, seat := range next.Seats {
		before := 0
		if i < len(prev.Seats) {
			before = len(prev.Seats[i].ExposedMelds)
		}
		for _, m := range seat.ExposedMelds[min(before, len(seat.ExposedMelds)):] {
			lines = append(lines, fmt.Sprintf("%s melded %s (%s)", names[seat.ID], cards.FormatCards(m.Cards), m.Type))
		}
	}

	if next.TurnCount > prev.TurnCount && next.DiscardTop != nil {
		who := names[prev.CurrentPlayerID]
		if next.TurnCount-prev.TurnCount > 1 {
			who = "Last player"
		}
		lines = append(lines, fmt.Sprintf("%s discarded %s", who, next.DiscardTop))
	}

	if prev.Phase != game.PhaseEnded && next.Phase == game.PhaseEnded {
		lines = append(lines, names[next.WinnerID]+" wins!")
		if points := formatPoints(next); points != "" {
			lines = append(lines, "Deadwood: "+points)
		}
	}
	return lines
}

func seatNames(v game.PlayerView) map[string]string {
	names := make(map[string]string, len(v.Seats))
	for _, s := range v.Seats {
		names[s.ID] = s.Name
	}
	return names
}

// formatPoints lists showdown points, lowest first; empty when nobody scored.
func formatPoints(v game.PlayerView) string {
	seats := slices.Clone(v.Seats)
	scored := false
	for _, s := range seats {
		scored = scored || s.Points > 0
	}
	if !scored {
		return ""
	}
	slices.SortStableFunc(seats, func(a, b game.SeatView) int { return a.Points - b.Points })
	parts := make([]string, len(seats))
	for i, s := range seats {
		parts[i] = fmt.Sprintf("%s %d", s.Name, s.Points)
	}
	return strings.Join(parts, ", ")
}
