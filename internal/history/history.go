// Package history records what happened in a game and saves it as JSON once
// the game ends.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/tongits/cards"
	"github.com/lox/tongits/internal/fileutil"
	"github.com/lox/tongits/internal/game"
)

// Writer persists finished game records
type Writer interface {
	WriteRecord(rec Record) error
}

// FileWriter writes each record to <dir>/<game id>.json. Later rounds on the
// same table get their own file, <game id>-<round>.json.
type FileWriter struct {
	dir string
}

// NewFileWriter creates a writer rooted at dir. The directory is created on
// first write.
func NewFileWriter(dir string) *FileWriter {
	return &FileWriter{dir: dir}
}

// Path returns where the record for one round of gameID is written.
func (w *FileWriter) Path(gameID string, round int) string {
	if round > 1 {
		return filepath.Join(w.dir, fmt.Sprintf("%s-%d.json", gameID, round))
	}
	return filepath.Join(w.dir, gameID+".json")
}

// WriteRecord writes the record atomically
func (w *FileWriter) WriteRecord(rec Record) error {
	if err := fileutil.WriteJSONAtomic(w.Path(rec.GameID, rec.Round), rec, 0o644); err != nil {
		return fmt.Errorf("failed to write game record: %w", err)
	}
	return nil
}

// NoOpWriter discards records
type NoOpWriter struct{}

// WriteRecord does nothing
func (NoOpWriter) WriteRecord(Record) error { return nil }

// Entry is one thing that happened during a game
type Entry struct {
	Seq    int            `json:"seq"`
	Type   game.EventType `json:"type"`
	Player string         `json:"player,omitempty"`
	Cards  []string       `json:"cards,omitempty"`
	Turn   int            `json:"turn"`
	At     time.Time      `json:"at"`
}

// Record is the full account of one game
type Record struct {
	GameID    string         `json:"gameId"`
	Round     int            `json:"round"`
	Seed      int64          `json:"seed"`
	Players   []game.Seat    `json:"players"`
	StartedAt time.Time      `json:"startedAt"`
	EndedAt   time.Time      `json:"endedAt,omitzero"`
	Entries   []Entry        `json:"entries"`
	WinnerID  string         `json:"winnerId,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	Points    map[string]int `json:"points,omitempty"`
}

// Recorder builds a Record from game events. Subscribe it to a game's event
// bus; every GameStartEvent begins a fresh record for the next round and
// every GameEndEvent hands the finished one to the writer.
type Recorder struct {
	writer Writer
	logger *log.Logger

	mu   sync.Mutex
	rec  Record
	turn int
}

// NewRecorder creates a recorder for one game table.
func NewRecorder(gameID string, seed int64, seats []game.Seat, writer Writer, logger *log.Logger) *Recorder {
	if writer == nil {
		writer = NoOpWriter{}
	}
	return &Recorder{
		writer: writer,
		logger: logger.WithPrefix("history").With("game", gameID),
		rec: Record{
			GameID:  gameID,
			Seed:    seed,
			Players: append([]game.Seat(nil), seats...),
		},
	}
}

// OnEvent implements game.EventSubscriber
func (r *Recorder) OnEvent(event game.GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := Entry{Type: event.EventType(), At: event.Timestamp()}

	switch ev := event.(type) {
	case game.GameStartEvent:
		r.rec.Round++
		r.rec.StartedAt = ev.Timestamp()
		r.rec.EndedAt = time.Time{}
		r.rec.Entries = nil
		r.rec.WinnerID, r.rec.Reason, r.rec.Points = "", "", nil
		r.turn = 0
	case game.CardDrawnEvent:
		e.Player = ev.PlayerID
		e.Cards = []string{ev.Card.ID()}
	case game.CardDiscardedEvent:
		e.Player = ev.PlayerID
		e.Cards = []string{ev.Card.ID()}
	case game.MeldExposedEvent:
		e.Player = ev.PlayerID
		e.Cards = cards.IDs(ev.Meld.Cards)
	case game.HandArrangedEvent:
		// Arrangement is cosmetic and would only bloat the record.
		return
	case game.GameEndEvent:
		e.Player = ev.WinnerID
	}

	e.Turn = r.turn
	e.Seq = len(r.rec.Entries) + 1
	r.rec.Entries = append(r.rec.Entries, e)

	switch ev := event.(type) {
	case game.CardDiscardedEvent:
		r.turn = ev.TurnCount
	case game.GameEndEvent:
		r.rec.EndedAt = ev.Timestamp()
		r.rec.WinnerID = ev.WinnerID
		r.rec.Reason = ev.Reason
		r.rec.Points = ev.Points
		if err := r.writer.WriteRecord(r.snapshot()); err != nil {
			r.logger.Error("Failed to save game record", "error", err)
			return
		}
		r.logger.Debug("Saved game record", "entries", len(r.rec.Entries))
	}
}

// Record returns a copy of the record so far.
func (r *Recorder) Record() Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

func (r *Recorder) snapshot() Record {
	out := r.rec
	out.Players = append([]game.Seat(nil), r.rec.Players...)
	out.Entries = append([]Entry(nil), r.rec.Entries...)
	return out
}

// Load reads a record written by FileWriter.
func Load(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return rec, nil
}
