package server

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/tongits/internal/config"
	"github.com/lox/tongits/internal/game"
	"github.com/lox/tongits/internal/gameid"
	"github.com/lox/tongits/internal/history"
	"github.com/lox/tongits/internal/randutil"
)

// Settings controls how the manager builds new games.
type Settings struct {
	Seats       []game.Seat
	Options     []game.Option
	TurnTimeout time.Duration // zero disables the turn timer
	HistoryDir  string        // empty disables game records
	Seed        int64         // zero picks a random seed
}

// SettingsFromConfig derives manager settings from a loaded configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Seats:       cfg.Seats(),
		Options:     cfg.GameOptions(),
		TurnTimeout: cfg.TurnTimeout(),
		HistoryDir:  cfg.Game.HistoryDir,
		Seed:        cfg.Game.Seed,
	}
}

// GameSummary holds lightweight metadata for clients.
type GameSummary struct {
	ID              string     `json:"id"`
	Phase           game.Phase `json:"phase"`
	TurnCount       int        `json:"turnCount"`
	CurrentPlayerID string     `json:"currentPlayerId"`
	WinnerID        string     `json:"winnerId,omitempty"`
	Players         []string   `json:"players"`
	Connections     int        `json:"connections"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Table is one live game plus everything attached to it: the connections
// watching it, its turn timer and its recorder.
type Table struct {
	ID        string
	Game      *game.Game
	Seed      int64
	CreatedAt time.Time

	logger      *log.Logger
	clock       quartz.Clock
	timer       *game.TurnTimer
	unsubscribe []func()

	mu    sync.RWMutex
	conns map[*Connection]struct{}
}

// OnEvent pushes a fresh view to every connection after any game event.
func (t *Table) OnEvent(game.GameEvent) {
	t.broadcastState()
}

func (t *Table) add(c *Connection) {
	t.mu.Lock()
	t.conns[c] = struct{}{}
	n := len(t.conns)
	t.mu.Unlock()
	t.logger.Info("Client joined", "player", c.PlayerID(), "connections", n)
}

func (t *Table) remove(c *Connection) {
	t.mu.Lock()
	delete(t.conns, c)
	n := len(t.conns)
	t.mu.Unlock()
	t.logger.Info("Client left", "player", c.PlayerID(), "connections", n)
}

func (t *Table) connections() []*Connection {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Connection, 0, len(t.conns))
	for c := range t.conns {
		out = append(out, c)
	}
	return out
}

// sendState sends c the game as its player sees it.
func (t *Table) sendState(c *Connection) {
	msg, err := NewMessage(MessageTypeState, t.Game.View(c.PlayerID()), t.clock.Now())
	if err != nil {
		t.logger.Error("Failed to encode state", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

func (t *Table) broadcastState() {
	conns := t.connections()
	for _, c := range conns {
		t.sendState(c)
	}
	t.logger.Debug("Broadcast state", "recipients", len(conns))
}

// Summary describes the table for listings.
func (t *Table) Summary() GameSummary {
	s := t.Game.Snapshot()
	players := make([]string, len(s.Players))
	for i, p := range s.Players {
		players[i] = p.ID
	}
	t.mu.RLock()
	n := len(t.conns)
	t.mu.RUnlock()
	return GameSummary{
		ID:              t.ID,
		Phase:           s.Phase,
		TurnCount:       s.TurnCount,
		CurrentPlayerID: s.CurrentPlayerID,
		WinnerID:        s.WinnerID,
		Players:         players,
		Connections:     n,
		CreatedAt:       t.CreatedAt,
	}
}

// HasSeat reports whether playerID sits at this table.
func (t *Table) HasSeat(playerID string) bool {
	return t.Game.Snapshot().PlayerIndex(playerID) >= 0
}

func (t *Table) close() {
	for _, unsub := range t.unsubscribe {
		unsub()
	}
	if t.timer != nil {
		t.timer.Close()
	}
	for _, c := range t.connections() {
		_ = c.Close()
	}
}

// GameManager tracks live tables.
type GameManager struct {
	settings Settings
	clock    quartz.Clock
	logger   *log.Logger
	ids      *gameid.Generator
	baseSeed int64

	mu     sync.RWMutex
	tables map[string]*Table
	order  []string
	games  int64
}

// NewGameManager constructs an empty game manager.
func NewGameManager(settings Settings, clock quartz.Clock, logger *log.Logger) *GameManager {
	if len(settings.Seats) == 0 {
		settings.Seats = game.DefaultSeats()
	}
	seed, _ := randutil.Resolve(&settings.Seed)
	return &GameManager{
		settings: settings,
		clock:    clock,
		logger:   logger.WithPrefix("manager"),
		ids:      gameid.NewGenerator(clock, nil),
		baseSeed: seed,
		tables:   make(map[string]*Table),
	}
}

// Create starts a new table in the waiting phase.
func (gm *GameManager) Create() *Table {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	id := gm.ids.Generate()
	for gm.tables[id] != nil {
		id = gm.ids.Generate()
	}
	seed := gm.baseSeed + gm.games
	gm.games++

	t := &Table{
		ID:        id,
		Seed:      seed,
		CreatedAt: gm.clock.Now(),
		logger:    gm.logger.With("game", id),
		clock:     gm.clock,
		conns:     make(map[*Connection]struct{}),
	}
	opts := append(slices.Clone(gm.settings.Options), game.WithClock(gm.clock))
	t.Game = game.New(id, gm.settings.Seats, randutil.New(seed), gm.logger, opts...)

	if gm.settings.HistoryDir != "" {
		rec := history.NewRecorder(id, seed, gm.settings.Seats, history.NewFileWriter(gm.settings.HistoryDir), gm.logger)
		t.unsubscribe = append(t.unsubscribe, t.Game.Events().Subscribe(rec))
	}
	if gm.settings.TurnTimeout > 0 {
		t.timer = game.NewTurnTimer(t.Game, gm.clock, gm.settings.TurnTimeout, gm.logger)
	}
	t.unsubscribe = append(t.unsubscribe, t.Game.Events().Subscribe(t))

	gm.tables[id] = t
	gm.order = append(gm.order, id)
	gm.logger.Info("Game created", "game", id, "seed", seed, "players", len(gm.settings.Seats))
	return t
}

// Get retrieves a table by id.
func (gm *GameManager) Get(id string) (*Table, bool) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	t, ok := gm.tables[id]
	return t, ok
}

// Delete closes and forgets a table.
func (gm *GameManager) Delete(id string) error {
	gm.mu.Lock()
	t, ok := gm.tables[id]
	if ok {
		delete(gm.tables, id)
		gm.order = slices.DeleteFunc(gm.order, func(o string) bool { return o == id })
	}
	gm.mu.Unlock()

	if !ok {
		return fmt.Errorf("game not found: %s", id)
	}
	t.close()
	gm.logger.Info("Game deleted", "game", id)
	return nil
}

// List returns summaries in creation order.
func (gm *GameManager) List() []GameSummary {
	gm.mu.RLock()
	tables := make([]*Table, 0, len(gm.order))
	for _, id := range gm.order {
		tables = append(tables, gm.tables[id])
	}
	gm.mu.RUnlock()

	out := make([]GameSummary, len(tables))
	for i, t := range tables {
		out[i] = t.Summary()
	}
	return out
}

// CloseAll closes every table and its connections.
func (gm *GameManager) CloseAll() {
	gm.mu.Lock()
	tables := gm.tables
	gm.tables = make(map[string]*Table)
	gm.order = nil
	gm.mu.Unlock()

	for _, t := range tables {
		t.close()
	}
}
