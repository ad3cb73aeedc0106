package service

import (
	"encoding/json"
	"time"
)

// Outbound event names consumed by the rendering client.
const (
	EventPresence = "presence"
	EventJoined   = "joined"
	EventMoved    = "moved"
	EventLook     = "look"
	EventLeft     = "left"
	EventChat     = "chat"
	EventPM       = "pm"
	EventPMError  = "pm:error"
)

// MaxChatLength is the longest chat or private message text forwarded to
// clients; longer input is truncated, not rejected.
const MaxChatLength = 400

// JoinRequest carries a client's join payload. Missing fields fall back to
// registry defaults; the look bag is stored verbatim.
type JoinRequest struct {
	Name string          `json:"name"`
	X    float64         `json:"x"`
	Y    float64         `json:"y"`
	Look json.RawMessage `json:"look"`
}

// ChatMessage is a broadcast chat line.
type ChatMessage struct {
	From   string `json:"from"`
	FromID string `json:"fromId"`
	Text   string `json:"text"`
}

// PrivateMessage is delivered to exactly the sender and the addressee.
type PrivateMessage struct {
	From   string `json:"from"`
	To     string `json:"to"`
	FromID string `json:"fromId"`
	ToID   string `json:"toId"`
	Text   string `json:"text"`
}

// RoomStats summarizes the room for the ops API.
type RoomStats struct {
	Participants int       `json:"participants"`
	ActiveGames  int       `json:"active_games"`
	StartedAt    time.Time `json:"started_at"`
	Uptime       string    `json:"uptime"`
}
