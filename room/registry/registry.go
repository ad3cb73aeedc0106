package registry

import (
	"encoding/json"
	"strings"
	"sync"
)

const (
	// MaxNameLength is the longest display name kept after sanitization.
	MaxNameLength = 20

	// DefaultName is used when a requested name sanitizes to nothing.
	DefaultName = "User"

	// DefaultX and DefaultY place participants that join without coordinates.
	DefaultX = 400
	DefaultY = 320
)

// Participant is a connected user's published state. The Look field is an
// opaque attribute bag the rendering client understands; the server stores
// and forwards it verbatim.
type Participant struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	X    float64         `json:"x"`
	Y    float64         `json:"y"`
	Look json.RawMessage `json:"look"`
}

// Registry tracks live participants keyed by connection ID. It owns the
// only mutable copy of each Participant; accessors hand out value snapshots.
type Registry struct {
	participants map[string]*Participant
	mu           sync.RWMutex
}

// NewRegistry creates an empty participant registry.
func NewRegistry() *Registry {
	return &Registry{
		participants: make(map[string]*Participant),
	}
}

// SanitizeName strips characters outside [A-Za-z0-9_-] and truncates the
// result to MaxNameLength. An input that sanitizes to the empty string
// yields DefaultName.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
		if b.Len() == MaxNameLength {
			break
		}
	}
	if b.Len() == 0 {
		return DefaultName
	}
	return b.String()
}

// Join inserts a participant for the given connection ID and returns a
// snapshot of the stored record. The name is sanitized, zero coordinates
// fall back to the defaults, and the look bag is stored verbatim. Joining
// twice with the same connection ID overwrites the previous record.
func (r *Registry) Join(connID, requestedName string, x, y float64, look json.RawMessage) Participant {
	p := &Participant{
		ID:   connID,
		Name: SanitizeName(requestedName),
		X:    x,
		Y:    y,
		Look: look,
	}
	if p.X == 0 {
		p.X = DefaultX
	}
	if p.Y == 0 {
		p.Y = DefaultY
	}
	if len(p.Look) == 0 {
		p.Look = json.RawMessage(`{}`)
	}

	r.mu.Lock()
	r.participants[connID] = p
	r.mu.Unlock()

	return *p
}

// UpdatePosition overwrites the participant's coordinates. Unknown
// connection IDs are ignored. It returns a snapshot of the updated record
// and whether the participant existed.
func (r *Registry) UpdatePosition(connID string, x, y float64) (Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[connID]
	if !ok {
		return Participant{}, false
	}
	p.X = x
	p.Y = y
	return *p, true
}

// UpdateLook replaces the participant's look bag wholesale (no merging).
// Unknown connection IDs are ignored.
func (r *Registry) UpdateLook(connID string, look json.RawMessage) (Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[connID]
	if !ok {
		return Participant{}, false
	}
	if len(look) == 0 {
		look = json.RawMessage(`{}`)
	}
	p.Look = look
	return *p, true
}

// Remove deletes the participant and returns the prior record, if any.
func (r *Registry) Remove(connID string) (Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[connID]
	if !ok {
		return Participant{}, false
	}
	delete(r.participants, connID)
	return *p, true
}

// Find returns a snapshot of the participant for the given connection ID.
func (r *Registry) Find(connID string) (Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.participants[connID]
	if !ok {
		return Participant{}, false
	}
	return *p, true
}

// FindByName returns the first participant whose display name matches,
// case-insensitively. Display names are not unique; when duplicates exist
// the first match wins.
func (r *Registry) FindByName(name string) (Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.participants {
		if strings.EqualFold(p.Name, name) {
			return *p, true
		}
	}
	return Participant{}, false
}

// All returns a snapshot of every live participant. Order is unspecified.
func (r *Registry) All() []Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Participant, 0, len(r.participants))
	for _, p := range r.participants {
		result = append(result, *p)
	}
	return result
}

// Count returns the number of live participants.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}
