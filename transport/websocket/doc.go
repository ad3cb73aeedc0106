// Package websocket provides the WebSocket transport for the plaza server.
//
// The websocket package implements:
//   - Real-time bidirectional communication
//   - Connection-scoped identity (one UUID per live connection)
//   - Serialized dispatch of inbound protocol events
//   - Named-event emission to one connection or to all
//   - Connection lifecycle management and disconnect cleanup
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// pair of goroutines for reading and writing; all inbound events funnel
// into the hub's single Run loop, so room state mutations never
// interleave.
//
// Message Protocol:
//
// Messages in both directions are JSON envelopes:
//   - Incoming: {"event": "chat", "data": {"text": "hi"}}
//   - Outgoing: {"event": "presence", "data": [ ...participants... ]}
//
// Frames that do not decode as an envelope, and envelopes carrying unknown
// event names, are dropped without affecting the connection.
//
// Connection Lifecycle:
//
// 1. Client connects; the hub assigns a connection ID
// 2. The room service sends the current roster to the new connection
// 3. Client sends join/move/look/chat/pm/ttt:* events, receives updates
// 4. Disconnection removes the participant and abandons its game sessions
//
// Concurrency:
//
// Multiple clients can connect, disconnect, and send messages
// simultaneously. Slow clients whose send buffers fill are dropped rather
// than allowed to stall the room.
package websocket
