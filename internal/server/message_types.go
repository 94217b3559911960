package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeStart    MessageType = "start"
	MessageTypeDraw     MessageType = "draw"
	MessageTypeDiscard  MessageType = "discard"
	MessageTypeMeld     MessageType = "meld"
	MessageTypeReorder  MessageType = "reorder"
	MessageTypeArrange  MessageType = "arrange"
	MessageTypeShowdown MessageType = "showdown"

	// Server to client messages
	MessageTypeResult MessageType = "result"
	MessageTypeState  MessageType = "state"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
