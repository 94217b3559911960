// Package config loads tongits settings from an HCL file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/tongits/cards"
	"github.com/lox/tongits/internal/game"
)

// DefaultFile is the config file looked for when none is given.
const DefaultFile = "tongits.hcl"

// Player counts a table supports.
const (
	MinPlayers = 2
	MaxPlayers = 4
)

// Config represents the complete configuration
type Config struct {
	Server  ServerSettings
	Game    GameSettings
	Players []PlayerConfig
}

// fileConfig is the on-disk shape. Blocks are pointers so each is optional.
type fileConfig struct {
	Server  *ServerSettings `hcl:"server,block"`
	Game    *GameSettings   `hcl:"game,block"`
	Players []PlayerConfig  `hcl:"player,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings controls how games are dealt and timed
type GameSettings struct {
	CardsPerPlayer int    `hcl:"cards_per_player,optional"`
	TurnTimeout    string `hcl:"turn_timeout,optional"` // Go duration; "0s" disables the timer
	AutoShowdown   *bool  `hcl:"auto_showdown,optional"`
	HistoryDir     string `hcl:"history_dir,optional"`
	Seed           int64  `hcl:"seed,optional"` // zero picks a random seed
}

// PlayerConfig defines one seat, in table order
type PlayerConfig struct {
	ID   string `hcl:"id,label"`
	Name string `hcl:"name,optional"`
	Bot  bool   `hcl:"bot,optional"`
}

// Default returns the built-in configuration: one human and two bots.
func Default() *Config {
	auto := true
	cfg := &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			CardsPerPlayer: cards.DefaultCardsPerPlayer,
			TurnTimeout:    "30s",
			AutoShowdown:   &auto,
		},
	}
	for _, s := range game.DefaultSeats() {
		cfg.Players = append(cfg.Players, PlayerConfig{ID: s.ID, Name: s.Name, Bot: s.IsBot})
	}
	return cfg
}

// Load reads configuration from an HCL file. A missing file yields Default.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file.Body)
}

// Parse decodes configuration from HCL source held in memory.
func Parse(src []byte, filename string) (*Config, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file.Body)
}

func decode(body hcl.Body) (*Config, error) {
	var raw fileConfig
	if diags := gohcl.DecodeBody(body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	var cfg Config
	if raw.Server != nil {
		cfg.Server = *raw.Server
	}
	if raw.Game != nil {
		cfg.Game = *raw.Game
	}
	cfg.Players = raw.Players
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()

	if c.Server.Address == "" {
		c.Server.Address = def.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = def.Server.LogLevel
	}

	if c.Game.CardsPerPlayer == 0 {
		c.Game.CardsPerPlayer = def.Game.CardsPerPlayer
	}
	if c.Game.TurnTimeout == "" {
		c.Game.TurnTimeout = def.Game.TurnTimeout
	}
	if c.Game.AutoShowdown == nil {
		c.Game.AutoShowdown = def.Game.AutoShowdown
	}

	if len(c.Players) == 0 {
		c.Players = def.Players
	}
	for i := range c.Players {
		if c.Players[i].Name == "" {
			c.Players[i].Name = c.Players[i].ID
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.Server.LogLevel)
	}

	n := len(c.Players)
	if n < MinPlayers || n > MaxPlayers {
		return fmt.Errorf("need between %d and %d players, got %d", MinPlayers, MaxPlayers, n)
	}
	seen := make(map[string]bool, n)
	for _, p := range c.Players {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("player id must not be empty")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate player id %q", p.ID)
		}
		seen[p.ID] = true
	}

	if c.Game.CardsPerPlayer < 1 {
		return fmt.Errorf("cards_per_player must be positive")
	}
	if need := c.Game.CardsPerPlayer*n + 1; need > cards.DeckSize {
		return fmt.Errorf("dealing %d cards to %d players needs %d cards, deck has %d",
			c.Game.CardsPerPlayer, n, need, cards.DeckSize)
	}

	timeout, err := time.ParseDuration(c.Game.TurnTimeout)
	if err != nil {
		return fmt.Errorf("invalid turn_timeout: %w", err)
	}
	if timeout < 0 {
		return fmt.Errorf("turn_timeout must not be negative")
	}

	return nil
}

// ServerAddress returns the full listen address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// TurnTimeout returns the parsed turn timeout. Zero means no timer.
func (c *Config) TurnTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Game.TurnTimeout)
	return d
}

// Seats converts the player blocks into game seats.
func (c *Config) Seats() []game.Seat {
	seats := make([]game.Seat, len(c.Players))
	for i, p := range c.Players {
		seats[i] = game.Seat{ID: p.ID, Name: p.Name, IsBot: p.Bot}
	}
	return seats
}

// GameOptions returns the game options this configuration implies.
func (c *Config) GameOptions() []game.Option {
	return []game.Option{
		game.WithCardsPerPlayer(c.Game.CardsPerPlayer),
		game.WithAutoShowdown(c.Game.AutoShowdown == nil || *c.Game.AutoShowdown),
	}
}

// LogLevel returns the configured log level, defaulting to info.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Server.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
