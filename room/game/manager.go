package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// Event names for session notifications delivered to participants.
const (
	EventStart = "ttt:start"
	EventMove  = "ttt:move"
	EventEnd   = "ttt:end"
)

// Emitter delivers a named event to a single connection. Emission to a
// connection that is no longer live must be a silent no-op.
type Emitter interface {
	ToConn(connID, event string, payload interface{})
}

// StartNotice tells a participant their session has begun. Each participant
// receives their own mark and the opponent's identity.
type StartNotice struct {
	Room   string `json:"room"`
	Me     Mark   `json:"me"`
	Vs     string `json:"vs"`
	VsName string `json:"vsName"`
}

// MoveNotice reports an accepted move to both participants.
type MoveNotice struct {
	Idx  int  `json:"idx"`
	Mark Mark `json:"mark"`
}

// EndNotice reports the terminal result: the winning mark, "draw", or
// "abandon".
type EndNotice struct {
	Result string `json:"result"`
}

// Manager owns the collection of active paired sessions. All mutation goes
// through its operations; terminal results are emitted atomically with
// session removal.
type Manager struct {
	sessions map[string]*Session
	emitter  Emitter
	mu       sync.Mutex
}

// NewManager creates a session manager that notifies participants through
// the given emitter.
func NewManager(emitter Emitter) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		emitter:  emitter,
	}
}

// Invite creates an active session between the two connections. The inviter
// is bound to X and moves first. Both participants are sent a start notice
// carrying their own mark and the opponent's name. The caller is
// responsible for verifying that both connections are live.
func (m *Manager) Invite(fromID, fromName, toID, toName string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := &Session{
		ID:        m.newSessionID(fromID, toID),
		PlayerX:   fromID,
		PlayerO:   toID,
		Turn:      MarkX,
		State:     StateActive,
		CreatedAt: time.Now(),
	}
	m.sessions[session.ID] = session

	m.emitter.ToConn(fromID, EventStart, StartNotice{
		Room:   session.ID,
		Me:     MarkX,
		Vs:     toID,
		VsName: toName,
	})
	m.emitter.ToConn(toID, EventStart, StartNotice{
		Room:   session.ID,
		Me:     MarkO,
		Vs:     fromID,
		VsName: fromName,
	})

	snapshot := *session
	return &snapshot
}

// Move applies a move to the session's board. The move is silently ignored
// when the session is unknown, the index is out of range, the cell is
// occupied, or the connection does not hold the mark whose turn it is.
// Accepted moves are broadcast to both participants; a move that completes
// a winning line or fills the board terminates the session. It returns
// whether the move was accepted.
func (m *Manager) Move(connID, sessionID string, idx int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return false
	}
	if idx < 0 || idx >= BoardSize {
		return false
	}
	if session.Board[idx] != MarkNone {
		return false
	}
	mark := session.MarkOf(connID)
	if mark == MarkNone || mark != session.Turn {
		return false
	}

	session.Board[idx] = mark
	m.emitToMembers(session, EventMove, MoveNotice{Idx: idx, Mark: mark})

	if winner := session.Board.Winner(); winner != MarkNone {
		m.terminate(session, string(winner))
	} else if session.Board.Full() {
		m.terminate(session, ResultDraw)
	} else {
		session.Turn = mark.Other()
	}

	return true
}

// End abandons the session regardless of which connection asked. Unknown
// sessions are ignored. Any live connection may end any session it knows
// the ID of; requests are not restricted to bound participants.
func (m *Manager) End(connID, sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return false
	}
	m.terminate(session, ResultAbandon)
	return true
}

// AbandonAllFor terminates every session the connection is bound to,
// notifying the other participant. It is called on disconnect and returns
// the number of sessions abandoned. Notifying an already-disconnected
// opponent is a silent no-op at the emitter.
func (m *Manager) AbandonAllFor(connID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	abandoned := 0
	for _, session := range m.sessions {
		if session.Involves(connID) {
			m.terminate(session, ResultAbandon)
			abandoned++
		}
	}
	return abandoned
}

// Get returns a snapshot of the session, if active.
func (m *Manager) Get(sessionID string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return Session{}, false
	}
	return *session, true
}

// List returns snapshots of all active sessions. Order is unspecified.
func (m *Manager) List() []Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, *session)
	}
	return result
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// terminate emits the end notice to both participants and removes the
// session. Callers must hold m.mu; removal and emission happen under the
// same critical section so a session terminates exactly once.
func (m *Manager) terminate(session *Session, result string) {
	session.State = StateTerminated
	m.emitToMembers(session, EventEnd, EndNotice{Result: result})
	delete(m.sessions, session.ID)
}

// emitToMembers sends the event to the session's explicit recipient set.
func (m *Manager) emitToMembers(session *Session, event string, payload interface{}) {
	for _, id := range session.Members() {
		m.emitter.ToConn(id, event, payload)
	}
}

// newSessionID composes an ID from both connection IDs plus random suffix
// and retries until it does not collide with an active session. Callers
// must hold m.mu.
func (m *Manager) newSessionID(fromID, toID string) string {
	for {
		bytes := make([]byte, 4)
		rand.Read(bytes)
		id := fmt.Sprintf("ttt-%s-%s-%s", shortID(fromID), shortID(toID), hex.EncodeToString(bytes))
		if _, exists := m.sessions[id]; !exists {
			return id
		}
	}
}

// shortID keeps session IDs readable when connection IDs are long UUIDs.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
