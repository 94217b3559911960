// Package game implements the Tongits turn state machine.
//
// The rules live in a pure reducer: Apply takes a State and an Action and
// returns the next State, or the unchanged State and an *ActionError naming
// the violated precondition. Game wraps one State behind a lock, owns the
// shuffling RNG and publishes events after each committed action.
//
// # Basic Usage
//
//	g := game.New("table-1", game.DefaultSeats(), randutil.New(42), logger)
//	_ = g.Start()
//	_ = g.Draw("p1")
//	hand := g.View("p1").Hand
//	err := g.Discard("p1", hand[0].ID())
//	if errors.Is(err, game.ErrNotYourTurn) {
//	    // ...
//	}
//
// # Deterministic Testing
//
// Apply needs no Game at all: build a State with NewState, apply Start with a
// fixed deck, and drive the reducer directly. For Game, pass randutil.New(seed)
// so the shuffle replays.
//
// Bot seats are plain data. Nothing in this package acts for them; a
// TurnTimer can pass idle turns for any seat.
package game
