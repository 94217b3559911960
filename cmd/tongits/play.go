package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/tongits/internal/server"
	"github.com/lox/tongits/internal/tui"
)

// PlayCmd runs a game in this process with the TUI on the human seat
type PlayCmd struct {
	Player      string         `help:"Seat to play (defaults to the first non-bot seat)"`
	Seed        int64          `help:"Deterministic shuffle seed (0 picks one)"`
	TurnTimeout *time.Duration `help:"Override the turn timer; 0 disables it"`
	LogFile     string         `type:"path" help:"Write logs here; the TUI owns the terminal"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	var out io.Writer = io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := g.logger(cfg, out)

	settings := server.SettingsFromConfig(cfg)
	if c.Seed != 0 {
		settings.Seed = c.Seed
	}
	if c.TurnTimeout != nil {
		settings.TurnTimeout = *c.TurnTimeout
	}

	player := c.Player
	if player == "" {
		player = humanSeat(cfg.Seats())
	}

	manager := server.NewGameManager(settings, quartz.NewReal(), logger)
	defer manager.CloseAll()

	table := manager.Create()
	if !table.HasSeat(player) {
		return fmt.Errorf("no seat %q at this table", player)
	}
	logger.Info("Starting local game", "game", table.ID, "seed", table.Seed, "player", player)

	local := tui.NewLocalTable(table.Game, player)
	defer local.Close()
	return tui.Run(local, logger)
}
