package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wmaia/plaza/room/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

var (
	connectionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "plaza",
		Name:      "connections",
		Help:      "Open websocket connections.",
	})

	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plaza",
		Name:      "events_total",
		Help:      "Inbound protocol events dispatched, by event name.",
	}, []string{"event"})
)

// Envelope frames every message on the wire in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound event names dispatched to the room service.
const (
	eventJoin       = "join"
	eventMove       = "move"
	eventLook       = "look"
	eventChat       = "chat"
	eventPM         = "pm"
	eventGameInvite = "ttt:invite"
	eventGameMove   = "ttt:move"
	eventGameEnd    = "ttt:end"
)

// inboundEvent pairs a decoded envelope with its originating client.
type inboundEvent struct {
	client *Client
	env    Envelope
}

// Hub maintains the set of active connections and serializes all inbound
// protocol events through a single loop, so every handler runs to
// completion before the next event is dispatched. It also implements
// service.Emitter for outbound delivery.
type Hub struct {
	// Registered clients by connection ID.
	clients map[string]*Client
	mu      sync.RWMutex

	// Inbound protocol events from clients.
	inbound chan inboundEvent

	// Register requests from clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	service service.RoomService
}

// NewHub creates a new websocket hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		inbound:    make(chan inboundEvent, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// SetService binds the room service that inbound events are dispatched to.
// Must be called before ServeWS accepts connections; the hub and the
// service reference each other, so one side is wired after construction.
func (h *Hub) SetService(svc service.RoomService) {
	h.service = svc
}

// Run starts the hub's event loop. It processes register, unregister, and
// inbound events one at a time until the context is cancelled. Run should
// be called in its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.registerClient(ctx, client)

		case client := <-h.unregister:
			h.unregisterClient(ctx, client)

		case evt := <-h.inbound:
			h.dispatch(ctx, evt)

		case <-ctx.Done():
			return
		}
	}
}

// ServeWS upgrades an HTTP request to a websocket connection, assigns it a
// connection ID, and registers it with the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
		id:   uuid.NewString(),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// ToConn sends a named event to a single connection. Unknown connection
// IDs are a silent no-op.
func (h *Hub) ToConn(connID, event string, payload interface{}) {
	data, err := encodeEnvelope(event, payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}

	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()
	if ok {
		client.enqueue(data)
	}
}

// Broadcast sends a named event to every connection.
func (h *Hub) Broadcast(event string, payload interface{}) {
	data, err := encodeEnvelope(event, payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		client.enqueue(data)
	}
}

// Connected reports whether the connection ID is currently live.
func (h *Hub) Connected(connID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[connID]
	return ok
}

// Count returns the number of open connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// registerClient adds the connection and hands it the current roster.
func (h *Hub) registerClient(ctx context.Context, client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	total := len(h.clients)
	h.mu.Unlock()

	connectionsGauge.Set(float64(total))
	log.Printf("Client connected: %s (total: %d)", client.id, total)

	if h.service != nil {
		h.service.HandleConnect(ctx, client.id)
	}
}

// unregisterClient removes the connection and triggers disconnect cleanup.
// A client that was already removed is ignored, so the cleanup path runs
// exactly once per connection.
func (h *Hub) unregisterClient(ctx context.Context, client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client.id]
	if ok {
		delete(h.clients, client.id)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}

	connectionsGauge.Set(float64(total))
	log.Printf("Client disconnected: %s (total: %d)", client.id, total)

	if h.service != nil {
		h.service.HandleDisconnect(ctx, client.id)
	}
}

// dispatch routes one inbound envelope to the room service. Unknown events
// and undecodable payloads are dropped without affecting the connection.
func (h *Hub) dispatch(ctx context.Context, evt inboundEvent) {
	if h.service == nil {
		return
	}

	connID := evt.client.id
	eventsTotal.WithLabelValues(evt.env.Event).Inc()

	switch evt.env.Event {
	case eventJoin:
		var req service.JoinRequest
		if err := json.Unmarshal(evt.env.Data, &req); err != nil {
			return
		}
		h.service.HandleJoin(ctx, connID, req)

	case eventMove:
		var p struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		}
		if err := json.Unmarshal(evt.env.Data, &p); err != nil {
			return
		}
		h.service.HandleMove(ctx, connID, p.X, p.Y)

	case eventLook:
		// The payload is the look bag itself, forwarded verbatim.
		h.service.HandleLook(ctx, connID, evt.env.Data)

	case eventChat:
		var p struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(evt.env.Data, &p); err != nil {
			return
		}
		h.service.HandleChat(ctx, connID, p.Text)

	case eventPM:
		var p struct {
			ToName string `json:"toName"`
			Text   string `json:"text"`
		}
		if err := json.Unmarshal(evt.env.Data, &p); err != nil {
			return
		}
		h.service.HandlePrivate(ctx, connID, p.ToName, p.Text)

	case eventGameInvite:
		var p struct {
			To string `json:"to"`
		}
		if err := json.Unmarshal(evt.env.Data, &p); err != nil {
			return
		}
		h.service.HandleInvite(ctx, connID, p.To)

	case eventGameMove:
		var p struct {
			Room string `json:"room"`
			Idx  int    `json:"idx"`
		}
		if err := json.Unmarshal(evt.env.Data, &p); err != nil {
			return
		}
		h.service.HandleGameMove(ctx, connID, p.Room, p.Idx)

	case eventGameEnd:
		var p struct {
			Room string `json:"room"`
		}
		if err := json.Unmarshal(evt.env.Data, &p); err != nil {
			return
		}
		h.service.HandleGameEnd(ctx, connID, p.Room)
	}
}

// encodeEnvelope marshals an event name and payload into wire bytes.
func encodeEnvelope(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
