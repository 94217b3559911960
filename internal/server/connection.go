package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/tongits/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	sendBufferSize = 64
)

// ErrConnectionClosed is returned when sending on a closed or saturated connection
var ErrConnectionClosed = errors.New("connection closed")

// Connection represents one client socket bound to a player seat (or no seat,
// for spectators) at one table.
type Connection struct {
	conn     *websocket.Conn
	send     chan *Message
	playerID string
	table    *Table
	logger   *log.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, table *Table, playerID string, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:     conn,
		send:     make(chan *Message, sendBufferSize),
		playerID: playerID,
		table:    table,
		logger:   logger.WithPrefix("conn").With("game", table.ID, "player", playerID),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// PlayerID returns the seat this connection acts for; empty for spectators.
func (c *Connection) PlayerID() string {
	return c.playerID
}

// Done is closed once the connection has shut down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection. It is safe to call more than once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client. A client that stops reading
// long enough to fill its buffer is disconnected.
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
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
				c.logger.Debug("Failed to write message", "error", err)
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

// handleMessage applies one client request to the table's game and answers
// it with a result. State updates reach every connection through the table's
// event subscription.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	if c.playerID == "" {
		c.sendResult(msg, errorData(game.SpectatorError()))
		return
	}

	g := c.table.Game
	var err error

	switch msg.Type {
	case MessageTypeStart:
		err = g.Start()

	case MessageTypeDraw:
		err = g.Draw(c.playerID)

	case MessageTypeDiscard:
		var data DiscardData
		if jerr := json.Unmarshal(msg.Data, &data); jerr != nil {
			c.sendResult(msg, &ErrorData{Kind: ErrorKindInvalidMessage, Message: "Failed to parse discard data"})
			return
		}
		err = g.Discard(c.playerID, data.CardID)

	case MessageTypeMeld, MessageTypeReorder:
		var data CardsData
		if jerr := json.Unmarshal(msg.Data, &data); jerr != nil {
			c.sendResult(msg, &ErrorData{Kind: ErrorKindInvalidMessage, Message: "Failed to parse " + msg.Type.String() + " data"})
			return
		}
		if msg.Type == MessageTypeMeld {
			err = g.Meld(c.playerID, data.CardIDs)
		} else {
			err = g.ReorderHand(c.playerID, data.CardIDs)
		}

	case MessageTypeArrange:
		err = g.AutoArrangeHand(c.playerID)

	case MessageTypeShowdown:
		err = g.Showdown()

	default:
		c.sendResult(msg, &ErrorData{Kind: ErrorKindUnknownType, Message: "Unknown message type: " + msg.Type.String()})
		return
	}

	if err != nil {
		c.sendResult(msg, errorData(err))
		return
	}
	c.sendResult(msg, nil)
}

func (c *Connection) sendResult(req *Message, errData *ErrorData) {
	reply, err := NewMessage(MessageTypeResult, ResultData{
		Action: req.Type,
		OK:     errData == nil,
		Error:  errData,
	}, c.table.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create result message", "error", err)
		return
	}
	reply.RequestID = req.RequestID
	_ = c.SendMessage(reply)
}
