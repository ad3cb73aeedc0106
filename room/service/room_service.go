package service

import (
	"context"
	"encoding/json"

	"github.com/wmaia/plaza/room/game"
	"github.com/wmaia/plaza/room/registry"
)

// RoomService defines all room-related operations. Inbound protocol events
// are dispatched to the Handle* methods by the websocket transport; the
// read views back the REST and MCP interfaces.
type RoomService interface {
	// Connection lifecycle
	HandleConnect(ctx context.Context, connID string)
	HandleDisconnect(ctx context.Context, connID string)

	// Presence
	HandleJoin(ctx context.Context, connID string, req JoinRequest)
	HandleMove(ctx context.Context, connID string, x, y float64)
	HandleLook(ctx context.Context, connID string, look json.RawMessage)

	// Messaging
	HandleChat(ctx context.Context, connID, text string)
	HandlePrivate(ctx context.Context, connID, toName, text string)
	Announce(ctx context.Context, text string)

	// Paired games
	HandleInvite(ctx context.Context, connID, targetID string)
	HandleGameMove(ctx context.Context, connID, sessionID string, idx int)
	HandleGameEnd(ctx context.Context, connID, sessionID string)

	// Read views
	Participants(ctx context.Context) []registry.Participant
	Participant(ctx context.Context, connID string) (registry.Participant, bool)
	Games(ctx context.Context) []game.Session
	Stats(ctx context.Context) RoomStats
}

// Emitter delivers named events to connections. Implemented by the
// websocket hub. Delivery to an unknown or closed connection is a silent
// no-op.
type Emitter interface {
	ToConn(connID, event string, payload interface{})
	Broadcast(event string, payload interface{})
	Connected(connID string) bool
}
