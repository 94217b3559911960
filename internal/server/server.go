// Package server serves Tongits games over WebSockets. Each connection is
// bound to one seat at one table; every request becomes a call on that
// table's game.Game and is answered with a result message, and every change
// to the game is pushed to all of the table's connections as a per-player
// state message.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Server represents the WebSocket server
type Server struct {
	manager  *GameManager
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewServer creates a new WebSocket server
func NewServer(manager *GameManager, logger *log.Logger) *Server {
	return &Server{
		manager: manager,
		upgrader: websocket.Upgrader{
			// Clients are terminal programs and test harnesses, not browsers.
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.WithPrefix("server"),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /games", s.handleListGames)
	mux.HandleFunc("POST /games", s.handleCreateGame)
	mux.HandleFunc("DELETE /games/{id}", s.handleDeleteGame)
	return mux
}

// Run serves on addr until ctx is cancelled, then shuts down and closes every
// table.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting WebSocket server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.manager.CloseAll()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// handleWebSocket upgrades /ws?game=<id>&player=<id>. An empty game creates a
// new table; an empty player joins as a spectator.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	playerID := r.URL.Query().Get("player")

	var table *Table
	if gameID == "" {
		table = s.manager.Create()
	} else {
		var ok bool
		if table, ok = s.manager.Get(gameID); !ok {
			http.Error(w, "game not found: "+gameID, http.StatusNotFound)
			return
		}
	}
	if playerID != "" && !table.HasSeat(playerID) {
		http.Error(w, "no such player at this table: "+playerID, http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, table, playerID, s.logger)
	table.add(client)
	client.Start()
	table.sendState(client)

	go func() {
		<-client.Done()
		table.remove(client)
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.manager.List())
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, s.manager.Create().Summary())
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Delete(r.PathValue("id")); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
