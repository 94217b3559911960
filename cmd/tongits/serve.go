package main

import (
	"os"

	"github.com/coder/quartz"

	"github.com/lox/tongits/internal/server"
)

// ServeCmd runs the WebSocket server
type ServeCmd struct {
	Addr string `help:"Listen address (defaults to the configured address and port)"`
	Seed int64  `help:"Base shuffle seed; game n uses seed+n (0 picks one)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := g.logger(cfg, os.Stderr)

	settings := server.SettingsFromConfig(cfg)
	if c.Seed != 0 {
		settings.Seed = c.Seed
	}
	addr := c.Addr
	if addr == "" {
		addr = cfg.ServerAddress()
	}

	logger.Info("Starting Tongits server",
		"address", addr,
		"players", len(settings.Seats),
		"turn_timeout", settings.TurnTimeout,
		"history_dir", settings.HistoryDir)

	ctx, cancel := signalContext(logger)
	defer cancel()

	manager := server.NewGameManager(settings, quartz.NewReal(), logger)
	return server.NewServer(manager, logger).Run(ctx, addr)
}
