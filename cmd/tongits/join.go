package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/lox/tongits/internal/client"
	"github.com/lox/tongits/internal/tui"
)

// JoinCmd plays a seat of a game hosted by `tongits serve`
type JoinCmd struct {
	Server string `default:"http://localhost:8080" help:"Server URL"`
	Game   string `help:"Game id to join (empty creates a new game)"`
	Player string `help:"Seat to play (empty watches as a spectator)"`
}

func (c *JoinCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := g.logger(cfg, io.Discard)

	player := c.Player
	if player == "" && c.Game == "" {
		player = humanSeat(cfg.Seats())
	}

	remote := client.New(c.Server, c.Game, player, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := remote.Connect(ctx); err != nil {
		return fmt.Errorf("join %s: %w", c.Server, err)
	}
	defer remote.Close()

	return tui.Run(remote, logger)
}
