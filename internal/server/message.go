package server

import (
	"encoding/json"
	"time"

	"github.com/lox/tongits/internal/game"
)

// Message is the envelope for everything sent over the socket
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a message stamped with the given time
func NewMessage(messageType MessageType, data any, at time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: at,
	}, nil
}

// Client → Server payloads

// DiscardData names the card to discard
type DiscardData struct {
	CardID string `json:"cardId"`
}

// CardsData carries card ids for meld and reorder
type CardsData struct {
	CardIDs []string `json:"cardIds"`
}

// Server → Client payloads

// Error kinds used by the transport itself. Rule violations use the
// game.ErrorKind values.
const (
	ErrorKindInvalidMessage = "invalid_message"
	ErrorKindUnknownType    = "unknown_message_type"
	ErrorKindInternal       = "internal"
)

// ErrorData describes why a request failed
type ErrorData struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ResultData answers exactly one request
type ResultData struct {
	Action MessageType `json:"action"`
	OK     bool        `json:"ok"`
	Error  *ErrorData  `json:"error,omitempty"`
}

// StateData is the game as the receiving connection may see it
type StateData = game.PlayerView

// errorData converts an action error into its wire form
func errorData(err error) *ErrorData {
	if kind, ok := game.KindOf(err); ok {
		return &ErrorData{Kind: string(kind), Message: err.Error()}
	}
	return &ErrorData{Kind: ErrorKindInternal, Message: err.Error()}
}
