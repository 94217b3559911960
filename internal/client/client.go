// Package client plays one seat of a game hosted by a tongits server.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/tongits/internal/game"
	"github.com/lox/tongits/internal/server" // Reuse message types
)

const (
	requestTimeout = 10 * time.Second
	pingPeriod     = 54 * time.Second
	writeWait      = 10 * time.Second
)

// ErrClosed is returned by requests made after the connection has gone away.
var ErrClosed = errors.New("client closed")

// RequestError is a request the server answered with ok=false. Rule
// violations unwrap to the matching game sentinel, so errors.Is works the
// same as against a local game.
type RequestError struct {
	Action  server.MessageType
	Kind    string
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return game.ErrorKind(e.Kind).Err()
}

// Client represents a WebSocket client bound to one seat of one game
type Client struct {
	serverURL string
	playerID  string
	logger    *log.Logger

	conn      *websocket.Conn
	send      chan *server.Message
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu      sync.RWMutex
	gameID  string
	state   game.PlayerView
	pending map[string]chan server.ResultData
	seq     uint64

	updates   chan struct{}
	ready     chan struct{}
	readyOnce sync.Once
}

// New creates a client. An empty gameID asks the server for a new game; an
// empty playerID joins as a spectator.
func New(serverURL, gameID, playerID string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		serverURL: serverURL,
		gameID:    gameID,
		playerID:  playerID,
		logger:    logger.WithPrefix("client").With("player", playerID),
		send:      make(chan *server.Message, 64),
		ctx:       ctx,
		cancel:    cancel,
		pending:   make(map[string]chan server.ResultData),
		updates:   make(chan struct{}, 1),
		ready:     make(chan struct{}),
	}
}

// Connect dials the server and waits for the first state message.
func (c *Client) Connect(ctx context.Context) error {
	u, err := socketURL(c.serverURL, c.GameID(), c.playerID)
	if err != nil {
		return err
	}
	c.logger.Info("Connecting to server", "url", u)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		if resp != nil {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			_ = resp.Body.Close()
			return fmt.Errorf("failed to connect: %s: %s", resp.Status, strings.TrimSpace(string(body)))
		}
		return fmt.Errorf("failed to connect: %w", err)
	}
	c.conn = conn

	go c.readPump()
	go c.writePump()

	select {
	case <-c.ready:
	case <-ctx.Done():
		_ = c.Close()
		return ctx.Err()
	case <-c.ctx.Done():
		return ErrClosed
	}

	c.logger.Info("Connected to server", "game", c.GameID())
	return nil
}

// Close closes the connection. It is safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}

// Done is closed once the connection has gone away.
func (c *Client) Done() <-chan struct{} {
	return c.ctx.Done()
}

// PlayerID returns the seat this client acts for.
func (c *Client) PlayerID() string {
	return c.playerID
}

// GameID returns the game id, which is known once connected even when the
// server created the game.
func (c *Client) GameID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameID
}

// View returns the most recent state pushed by the server.
func (c *Client) View() game.PlayerView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Updates signals that a new state has arrived. Signals coalesce: read View
// after each one.
func (c *Client) Updates() <-chan struct{} {
	return c.updates
}

func (c *Client) Start() error { return c.do(server.MessageTypeStart, nil) }
func (c *Client) Draw() error  { return c.do(server.MessageTypeDraw, nil) }
func (c *Client) Discard(cardID string) error {
	return c.do(server.MessageTypeDiscard, server.DiscardData{CardID: cardID})
}
func (c *Client) Meld(cardIDs []string) error {
	return c.do(server.MessageTypeMeld, server.CardsData{CardIDs: cardIDs})
}
func (c *Client) Reorder(cardIDs []string) error {
	return c.do(server.MessageTypeReorder, server.CardsData{CardIDs: cardIDs})
}
func (c *Client) Arrange() error  { return c.do(server.MessageTypeArrange, nil) }
func (c *Client) Showdown() error { return c.do(server.MessageTypeShowdown, nil) }

func (c *Client) do(typ server.MessageType, data any) error {
	ctx, cancel := context.WithTimeout(c.ctx, requestTimeout)
	defer cancel()
	return c.Request(ctx, typ, data)
}

// Request sends one request and waits for its result.
func (c *Client) Request(ctx context.Context, typ server.MessageType, data any) error {
	if c.ctx.Err() != nil {
		return ErrClosed
	}
	msg := &server.Message{Type: typ, Timestamp: time.Now()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("encode %s: %w", typ, err)
		}
		msg.Data = raw
	}

	reply := make(chan server.ResultData, 1)
	c.mu.Lock()
	c.seq++
	msg.RequestID = fmt.Sprintf("%s-%d", typ, c.seq)
	c.pending[msg.RequestID] = reply
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, msg.RequestID)
		c.mu.Unlock()
	}()

	select {
	case c.send <- msg:
	case <-c.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case res := <-reply:
		if res.OK {
			return nil
		}
		if res.Error == nil {
			return &RequestError{Action: typ, Message: typ.String() + " failed"}
		}
		return &RequestError{Action: typ, Kind: res.Error.Kind, Message: res.Error.Message}
	case <-c.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return fmt.Errorf("waiting for %s result: %w", typ, ctx.Err())
	}
}

// readPump handles incoming messages from the server
func (c *Client) readPump() {
	defer func() { _ = c.Close() }()

	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.logger.Debug("Received message", "type", msg.Type)
		c.handleMessage(&msg)
	}
}

func (c *Client) handleMessage(msg *server.Message) {
	switch msg.Type {
	case server.MessageTypeState:
		var st server.StateData
		if err := json.Unmarshal(msg.Data, &st); err != nil {
			c.logger.Warn("Bad state message", "error", err)
			return
		}
		c.mu.Lock()
		c.state = st
		c.gameID = st.GameID
		c.mu.Unlock()
		c.readyOnce.Do(func() { close(c.ready) })
		select {
		case c.updates <- struct{}{}:
		default:
		}

	case server.MessageTypeResult:
		var res server.ResultData
		if err := json.Unmarshal(msg.Data, &res); err != nil {
			c.logger.Warn("Bad result message", "error", err)
			return
		}
		c.mu.RLock()
		reply, ok := c.pending[msg.RequestID]
		c.mu.RUnlock()
		if !ok {
			c.logger.Debug("Result for unknown request", "request", msg.RequestID)
			return
		}
		reply <- res

	default:
		c.logger.Debug("No handler for message type", "type", msg.Type)
	}
}

// writePump handles outgoing messages to the server
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// socketURL turns a server address into the /ws endpoint for one seat.
func socketURL(serverURL, gameID, playerID string) (string, error) {
	if !strings.Contains(serverURL, "://") {
		serverURL = "ws://" + serverURL
	}
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	// Convert http/https to ws/wss
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server URL: unsupported scheme %q", u.Scheme)
	}

	u.Path = "/ws"
	q := url.Values{}
	if gameID != "" {
		q.Set("game", gameID)
	}
	if playerID != "" {
		q.Set("player", playerID)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
