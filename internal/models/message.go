package models

import "time"

// MessageType is the discriminator of an outbound message
type MessageType string

const (
	MessageRoomCreated MessageType = "room_created"
	MessageRoomJoined  MessageType = "room_joined"
	MessageState       MessageType = "state"
	MessageEvent       MessageType = "event"
	MessageChat        MessageType = "chat"
	MessageError       MessageType = "error"
)

// Message is the envelope of everything the server sends to a connection.
// Payload is a *Game, *Event, *ChatMessage, *RoomRef or *ErrorPayload.
type Message struct {
	Type    MessageType `json:"type"`
	RoomID  string      `json:"roomId,omitempty"`
	Payload any         `json:"payload,omitempty"`
}

// RoomRef names the room a connection was just seated in
type RoomRef struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

// ChatMessage is a line of table chat
type ChatMessage struct {
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Text       string    `json:"text"`
	SentAt     time.Time `json:"sentAt"`
}

// ErrorPayload is sent only to the connection whose action failed
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
