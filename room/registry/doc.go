// Package registry tracks the participants connected to the plaza.
//
// The registry package implements:
//   - Thread-safe participant storage keyed by connection ID
//   - Display name sanitization with sensible defaults
//   - Position and look updates
//   - Case-insensitive name lookup for private messaging
//
// Core Types:
//
// Registry is the participant store. Participant is a connected user's
// published state: display name, position, and an opaque look bag that the
// rendering client interprets.
//
// Snapshots:
//
// The registry owns the only mutable copy of each participant. Every
// accessor returns a value copy, so callers can broadcast records without
// racing against later updates.
//
// Concurrency:
//
// All operations are safe for concurrent use. Internal locking keeps each
// operation atomic.
package registry
