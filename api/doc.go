// Package api provides the HTTP surface of the plaza server.
//
// The api package implements:
//   - Read-only REST views of the room (participants, games, stats)
//   - An ops endpoint for server-originated announcements
//   - Prometheus metrics exposition
//   - WebSocket upgrade handling
//   - Static file serving for the rendering client
//
// Endpoints:
//
// Room views:
//   - GET /api/participants - Roster snapshot
//   - GET /api/participants/{id} - Single participant by connection ID
//   - GET /api/games - Active paired game sessions
//   - GET /api/stats - Participant/game counts and uptime
//
// Ops:
//   - POST /api/announce - Broadcast a server chat line ({"text": "..."})
//   - GET /api/health - Health probe
//   - GET /metrics - Prometheus metrics
//
// Realtime:
//   - GET /ws - WebSocket upgrade; all room interaction happens here
//
// All endpoints accept and return JSON. Errors are returned as JSON with
// appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api
