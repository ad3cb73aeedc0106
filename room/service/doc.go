// Package service orchestrates the plaza room: it binds connections to
// participant identities, routes chat and private messages, broadcasts
// presence, and drives the paired-game manager.
//
// The service is the single dispatch point for inbound protocol events.
// The websocket transport calls one Handle* method per event; each method
// runs to completion before the next event from the same connection is
// dispatched, so state transitions never interleave mid-handler.
//
// Error model: the protocol is trust-but-verify. Malformed or stale
// requests (unknown sender, occupied cell, out-of-turn move) are silently
// ignored; the only reported recoverable condition is a private message to
// a name with no live match, which yields a pm:error to the sender alone.
// A disconnect may arrive between any two events and is always safe: the
// registry entry is removed and every game session the connection was
// bound to is abandoned, exactly once.
package service
