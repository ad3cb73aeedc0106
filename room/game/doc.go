// Package game implements the paired-session tic-tac-toe state machine.
//
// The game package implements:
//   - Board representation with win and draw detection
//   - Strict turn alternation between the X and O marks
//   - Session lifecycle: an invite immediately activates a session, which
//     terminates on win, draw, explicit end, or participant disconnect
//   - Atomic terminal handling: the end notice is emitted and the session
//     removed under one critical section, so a session ends exactly once
//
// Core Types:
//
// Manager owns the collection of active sessions and is the only way to
// mutate them. Session binds two connection IDs to fixed marks and carries
// the board and whose turn it is. Board is the 9-cell grid.
//
// Notifications:
//
// The manager pushes ttt:start, ttt:move, and ttt:end events to the two
// bound connections through an Emitter. Delivery to a connection that has
// gone away is a silent no-op, which makes disconnect-during-game handling
// safe in any order.
//
// Concurrency:
//
// All manager operations are safe for concurrent use; a single mutex keeps
// each operation atomic, including the emit-and-remove pair on termination.
package game
