package game

import "time"

// State is the lifecycle phase of a paired session.
//
// StateIdle is currently unreachable from the public API because an invite
// immediately activates the session; it is modeled so an acceptance
// handshake can be added without reshaping the state machine.
type State int

const (
	StateIdle State = iota
	StateActive
	StateTerminated
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// Terminal results carried by the ttt:end event alongside a winning mark.
const (
	ResultDraw    = "draw"
	ResultAbandon = "abandon"
)

// Session is one active two-party tic-tac-toe instance. PlayerX and PlayerO
// hold the connection IDs bound to each mark; they double as the explicit
// recipient set for session events.
type Session struct {
	ID        string    `json:"id"`
	PlayerX   string    `json:"player_x"`
	PlayerO   string    `json:"player_o"`
	Board     Board     `json:"board"`
	Turn      Mark      `json:"turn"`
	State     State     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Members returns the connection IDs that receive this session's events.
func (s *Session) Members() []string {
	return []string{s.PlayerX, s.PlayerO}
}

// MarkOf returns the mark bound to the given connection ID, or MarkNone if
// the connection is not a participant of this session.
func (s *Session) MarkOf(connID string) Mark {
	switch connID {
	case s.PlayerX:
		return MarkX
	case s.PlayerO:
		return MarkO
	}
	return MarkNone
}

// Involves reports whether the connection ID is bound to this session.
func (s *Session) Involves(connID string) bool {
	return connID == s.PlayerX || connID == s.PlayerO
}
