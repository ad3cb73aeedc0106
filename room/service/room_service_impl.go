package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/wmaia/plaza/room/game"
	"github.com/wmaia/plaza/room/registry"
)

// AnnounceName is the display name attached to server-originated chat.
const AnnounceName = "Server"

// roomServiceImpl implements the RoomService interface.
type roomServiceImpl struct {
	participants *registry.Registry
	games        *game.Manager
	emitter      Emitter
	startedAt    time.Time
}

// NewRoomService creates the room service. The game manager is created
// internally so session notifications flow through the same emitter as
// everything else.
func NewRoomService(participants *registry.Registry, emitter Emitter) RoomService {
	return &roomServiceImpl{
		participants: participants,
		games:        game.NewManager(emitter),
		emitter:      emitter,
		startedAt:    time.Now(),
	}
}

// HandleConnect sends the current roster to the new connection alone, so
// its client can render the room before announcing itself.
func (s *roomServiceImpl) HandleConnect(ctx context.Context, connID string) {
	s.emitter.ToConn(connID, EventPresence, s.participants.All())
}

// HandleJoin registers the participant, announces the join to everyone, and
// refreshes the roster.
func (s *roomServiceImpl) HandleJoin(ctx context.Context, connID string, req JoinRequest) {
	p := s.participants.Join(connID, req.Name, req.X, req.Y, req.Look)
	s.emitter.Broadcast(EventJoined, p)
	s.broadcastRoster()
	participantsGauge.Set(float64(s.participants.Count()))
	log.Printf("Participant joined: %s (%s)", p.Name, connID)
}

// HandleMove updates the participant's position and broadcasts the full
// updated snapshot. Unknown connections are ignored.
func (s *roomServiceImpl) HandleMove(ctx context.Context, connID string, x, y float64) {
	if p, ok := s.participants.UpdatePosition(connID, x, y); ok {
		s.emitter.Broadcast(EventMoved, p)
	}
}

// HandleLook replaces the participant's look bag and broadcasts the full
// updated snapshot. Unknown connections are ignored.
func (s *roomServiceImpl) HandleLook(ctx context.Context, connID string, look json.RawMessage) {
	if p, ok := s.participants.UpdateLook(connID, look); ok {
		s.emitter.Broadcast(EventLook, p)
	}
}

// HandleChat broadcasts a chat line from a joined participant to everyone,
// sender included. Unknown senders and empty text are ignored.
func (s *roomServiceImpl) HandleChat(ctx context.Context, connID, text string) {
	sender, ok := s.participants.Find(connID)
	if !ok || text == "" {
		return
	}
	s.emitter.Broadcast(EventChat, ChatMessage{
		From:   sender.Name,
		FromID: sender.ID,
		Text:   truncate(text, MaxChatLength),
	})
	chatMessagesTotal.Inc()
}

// HandlePrivate routes a name-addressed message to the sender and the
// target only. A target name with no live match yields a single pm:error
// back to the sender and mutates nothing.
func (s *roomServiceImpl) HandlePrivate(ctx context.Context, connID, toName, text string) {
	sender, ok := s.participants.Find(connID)
	if !ok || text == "" || toName == "" {
		return
	}

	target, ok := s.participants.FindByName(toName)
	if !ok {
		s.emitter.ToConn(connID, EventPMError, fmt.Sprintf("User %q not found.", "@"+toName))
		privateMessageErrorsTotal.Inc()
		return
	}

	payload := PrivateMessage{
		From:   sender.Name,
		To:     target.Name,
		FromID: sender.ID,
		ToID:   target.ID,
		Text:   truncate(text, MaxChatLength),
	}
	s.emitter.ToConn(sender.ID, EventPM, payload)
	s.emitter.ToConn(target.ID, EventPM, payload)
	privateMessagesTotal.Inc()
}

// Announce broadcasts a server-originated chat line. Used by the ops API.
func (s *roomServiceImpl) Announce(ctx context.Context, text string) {
	if text == "" {
		return
	}
	s.emitter.Broadcast(EventChat, ChatMessage{
		From: AnnounceName,
		Text: truncate(text, MaxChatLength),
	})
	chatMessagesTotal.Inc()
}

// HandleInvite creates an active game session between the inviter and the
// target connection. Invites to connections that are not live are silently
// dropped. Participants that have not joined yet play under the "Player"
// placeholder name.
func (s *roomServiceImpl) HandleInvite(ctx context.Context, connID, targetID string) {
	if !s.emitter.Connected(targetID) || targetID == connID {
		return
	}

	session := s.games.Invite(connID, s.displayName(connID), targetID, s.displayName(targetID))
	gamesStartedTotal.Inc()
	gamesActiveGauge.Set(float64(s.games.Count()))
	log.Printf("Game %s started: %s vs %s", session.ID, connID, targetID)
}

// HandleGameMove forwards a move to the game manager and records terminal
// results reached through play.
func (s *roomServiceImpl) HandleGameMove(ctx context.Context, connID, sessionID string, idx int) {
	if !s.games.Move(connID, sessionID, idx) {
		return
	}
	if _, active := s.games.Get(sessionID); !active {
		gamesEndedTotal.WithLabelValues("completed").Inc()
		gamesActiveGauge.Set(float64(s.games.Count()))
	}
}

// HandleGameEnd abandons the session on behalf of the requester.
func (s *roomServiceImpl) HandleGameEnd(ctx context.Context, connID, sessionID string) {
	if s.games.End(connID, sessionID) {
		gamesEndedTotal.WithLabelValues("abandon").Inc()
		gamesActiveGauge.Set(float64(s.games.Count()))
	}
}

// HandleDisconnect removes the participant and abandons any game sessions
// the connection was bound to. Both cleanups always run, regardless of
// whether the connection ever joined or played.
func (s *roomServiceImpl) HandleDisconnect(ctx context.Context, connID string) {
	if p, ok := s.participants.Remove(connID); ok {
		s.emitter.Broadcast(EventLeft, p)
		s.broadcastRoster()
		log.Printf("Participant left: %s (%s)", p.Name, connID)
	}

	if n := s.games.AbandonAllFor(connID); n > 0 {
		gamesEndedTotal.WithLabelValues("abandon").Add(float64(n))
	}

	participantsGauge.Set(float64(s.participants.Count()))
	gamesActiveGauge.Set(float64(s.games.Count()))
}

// Participants returns a roster snapshot.
func (s *roomServiceImpl) Participants(ctx context.Context) []registry.Participant {
	return s.participants.All()
}

// Participant returns a single participant snapshot.
func (s *roomServiceImpl) Participant(ctx context.Context, connID string) (registry.Participant, bool) {
	return s.participants.Find(connID)
}

// Games returns snapshots of the active game sessions.
func (s *roomServiceImpl) Games(ctx context.Context) []game.Session {
	return s.games.List()
}

// Stats summarizes current room state.
func (s *roomServiceImpl) Stats(ctx context.Context) RoomStats {
	return RoomStats{
		Participants: s.participants.Count(),
		ActiveGames:  s.games.Count(),
		StartedAt:    s.startedAt,
		Uptime:       time.Since(s.startedAt).Round(time.Second).String(),
	}
}

// broadcastRoster emits the full current roster to every connection. Always
// a complete snapshot, never a delta; an empty room emits an empty slice.
func (s *roomServiceImpl) broadcastRoster() {
	s.emitter.Broadcast(EventPresence, s.participants.All())
}

// displayName resolves a connection's display name for game notices,
// falling back to a placeholder for connections that never joined.
func (s *roomServiceImpl) displayName(connID string) string {
	if p, ok := s.participants.Find(connID); ok {
		return p.Name
	}
	return "Player"
}

// truncate shortens text to at most max runes.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
