package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wmaia/plaza/room/game"
	"github.com/wmaia/plaza/room/registry"
	"github.com/wmaia/plaza/room/service"
)

// MockRoomService implements service.RoomService for testing.
type MockRoomService struct {
	HandleConnectFunc    func(ctx context.Context, connID string)
	HandleDisconnectFunc func(ctx context.Context, connID string)
	HandleJoinFunc       func(ctx context.Context, connID string, req service.JoinRequest)
	HandleMoveFunc       func(ctx context.Context, connID string, x, y float64)
	HandleLookFunc       func(ctx context.Context, connID string, look json.RawMessage)
	HandleChatFunc       func(ctx context.Context, connID, text string)
	HandlePrivateFunc    func(ctx context.Context, connID, toName, text string)
	AnnounceFunc         func(ctx context.Context, text string)
	HandleInviteFunc     func(ctx context.Context, connID, targetID string)
	HandleGameMoveFunc   func(ctx context.Context, connID, sessionID string, idx int)
	HandleGameEndFunc    func(ctx context.Context, connID, sessionID string)
}

func (m *MockRoomService) HandleConnect(ctx context.Context, connID string) {
	if m.HandleConnectFunc != nil {
		m.HandleConnectFunc(ctx, connID)
	}
}

func (m *MockRoomService) HandleDisconnect(ctx context.Context, connID string) {
	if m.HandleDisconnectFunc != nil {
		m.HandleDisconnectFunc(ctx, connID)
	}
}

func (m *MockRoomService) HandleJoin(ctx context.Context, connID string, req service.JoinRequest) {
	if m.HandleJoinFunc != nil {
		m.HandleJoinFunc(ctx, connID, req)
	}
}

func (m *MockRoomService) HandleMove(ctx context.Context, connID string, x, y float64) {
	if m.HandleMoveFunc != nil {
		m.HandleMoveFunc(ctx, connID, x, y)
	}
}

func (m *MockRoomService) HandleLook(ctx context.Context, connID string, look json.RawMessage) {
	if m.HandleLookFunc != nil {
		m.HandleLookFunc(ctx, connID, look)
	}
}

func (m *MockRoomService) HandleChat(ctx context.Context, connID, text string) {
	if m.HandleChatFunc != nil {
		m.HandleChatFunc(ctx, connID, text)
	}
}

func (m *MockRoomService) HandlePrivate(ctx context.Context, connID, toName, text string) {
	if m.HandlePrivateFunc != nil {
		m.HandlePrivateFunc(ctx, connID, toName, text)
	}
}

func (m *MockRoomService) Announce(ctx context.Context, text string) {
	if m.AnnounceFunc != nil {
		m.AnnounceFunc(ctx, text)
	}
}

func (m *MockRoomService) HandleInvite(ctx context.Context, connID, targetID string) {
	if m.HandleInviteFunc != nil {
		m.HandleInviteFunc(ctx, connID, targetID)
	}
}

func (m *MockRoomService) HandleGameMove(ctx context.Context, connID, sessionID string, idx int) {
	if m.HandleGameMoveFunc != nil {
		m.HandleGameMoveFunc(ctx, connID, sessionID, idx)
	}
}

func (m *MockRoomService) HandleGameEnd(ctx context.Context, connID, sessionID string) {
	if m.HandleGameEndFunc != nil {
		m.HandleGameEndFunc(ctx, connID, sessionID)
	}
}

func (m *MockRoomService) Participants(ctx context.Context) []registry.Participant {
	return nil
}

func (m *MockRoomService) Participant(ctx context.Context, connID string) (registry.Participant, bool) {
	return registry.Participant{}, false
}

func (m *MockRoomService) Games(ctx context.Context) []game.Session {
	return nil
}

func (m *MockRoomService) Stats(ctx context.Context) service.RoomStats {
	return service.RoomStats{}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("Expected hub to be created")
	}
	if hub.clients == nil {
		t.Error("Expected clients map to be initialized")
	}
	if hub.inbound == nil {
		t.Error("Expected inbound channel to be initialized")
	}
	if hub.register == nil {
		t.Error("Expected register channel to be initialized")
	}
	if hub.unregister == nil {
		t.Error("Expected unregister channel to be initialized")
	}
	if hub.Count() != 0 {
		t.Errorf("Expected no connections, got %d", hub.Count())
	}
}

func testClient(hub *Hub, id string) *Client {
	return &Client{
		hub:  hub,
		send: make(chan []byte, 16),
		id:   id,
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub()
	ctx := context.Background()

	var connects, disconnects []string
	hub.SetService(&MockRoomService{
		HandleConnectFunc: func(ctx context.Context, connID string) {
			connects = append(connects, connID)
		},
		HandleDisconnectFunc: func(ctx context.Context, connID string) {
			disconnects = append(disconnects, connID)
		},
	})

	client := testClient(hub, "conn-1")
	hub.registerClient(ctx, client)

	if !hub.Connected("conn-1") {
		t.Error("Expected conn-1 to be connected")
	}
	if hub.Count() != 1 {
		t.Errorf("Expected 1 connection, got %d", hub.Count())
	}
	if len(connects) != 1 || connects[0] != "conn-1" {
		t.Errorf("Expected one connect callback, got %v", connects)
	}

	hub.unregisterClient(ctx, client)

	if hub.Connected("conn-1") {
		t.Error("Expected conn-1 to be disconnected")
	}
	if len(disconnects) != 1 || disconnects[0] != "conn-1" {
		t.Errorf("Expected one disconnect callback, got %v", disconnects)
	}

	// A second unregister of the same client must not fire cleanup again.
	hub.unregisterClient(ctx, client)
	if len(disconnects) != 1 {
		t.Errorf("Expected disconnect cleanup to run once, got %d", len(disconnects))
	}
}

func TestToConn(t *testing.T) {
	hub := NewHub()
	hub.SetService(&MockRoomService{})
	ctx := context.Background()

	client := testClient(hub, "conn-1")
	hub.registerClient(ctx, client)

	hub.ToConn("conn-1", "chat", map[string]string{"text": "hi"})

	select {
	case data := <-client.send:
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("Invalid frame: %v", err)
		}
		if env.Event != "chat" {
			t.Errorf("Expected chat event, got %s", env.Event)
		}
		if !strings.Contains(string(env.Data), `"hi"`) {
			t.Errorf("Unexpected payload: %s", env.Data)
		}
	default:
		t.Fatal("Expected a frame on the client's send queue")
	}

	// Unknown connections are a silent no-op.
	hub.ToConn("conn-ghost", "chat", map[string]string{"text": "hi"})
}

func TestBroadcast(t *testing.T) {
	hub := NewHub()
	hub.SetService(&MockRoomService{})
	ctx := context.Background()

	c1 := testClient(hub, "conn-1")
	c2 := testClient(hub, "conn-2")
	hub.registerClient(ctx, c1)
	hub.registerClient(ctx, c2)

	hub.Broadcast("presence", []string{})

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.send:
			var env Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				t.Fatalf("Invalid frame for %s: %v", c.id, err)
			}
			if env.Event != "presence" {
				t.Errorf("Expected presence event for %s, got %s", c.id, env.Event)
			}
		default:
			t.Errorf("Expected a frame for %s", c.id)
		}
	}
}

func TestDispatch(t *testing.T) {
	hub := NewHub()
	ctx := context.Background()
	client := testClient(hub, "conn-1")

	var (
		joinReq  *service.JoinRequest
		moveX    float64
		moveY    float64
		lookData string
		chatText string
		pmTo     string
		pmText   string
		inviteTo string
		gameRoom string
		gameIdx  int
		endRoom  string
	)
	hub.SetService(&MockRoomService{
		HandleJoinFunc: func(ctx context.Context, connID string, req service.JoinRequest) {
			joinReq = &req
		},
		HandleMoveFunc: func(ctx context.Context, connID string, x, y float64) {
			moveX, moveY = x, y
		},
		HandleLookFunc: func(ctx context.Context, connID string, look json.RawMessage) {
			lookData = string(look)
		},
		HandleChatFunc: func(ctx context.Context, connID, text string) {
			chatText = text
		},
		HandlePrivateFunc: func(ctx context.Context, connID, toName, text string) {
			pmTo, pmText = toName, text
		},
		HandleInviteFunc: func(ctx context.Context, connID, targetID string) {
			inviteTo = targetID
		},
		HandleGameMoveFunc: func(ctx context.Context, connID, sessionID string, idx int) {
			gameRoom, gameIdx = sessionID, idx
		},
		HandleGameEndFunc: func(ctx context.Context, connID, sessionID string) {
			endRoom = sessionID
		},
	})

	send := func(event, data string) {
		hub.dispatch(ctx, inboundEvent{
			client: client,
			env:    Envelope{Event: event, Data: json.RawMessage(data)},
		})
	}

	send("join", `{"name":"Ann","x":10,"y":20,"look":{"hat":"red"}}`)
	if joinReq == nil || joinReq.Name != "Ann" || joinReq.X != 10 || joinReq.Y != 20 {
		t.Errorf("Unexpected join request: %+v", joinReq)
	}

	send("move", `{"x":55,"y":66}`)
	if moveX != 55 || moveY != 66 {
		t.Errorf("Expected move (55,66), got (%v,%v)", moveX, moveY)
	}

	send("look", `{"hat":"green"}`)
	if lookData != `{"hat":"green"}` {
		t.Errorf("Expected look bag forwarded verbatim, got %s", lookData)
	}

	send("chat", `{"text":"hello"}`)
	if chatText != "hello" {
		t.Errorf("Expected chat text, got %q", chatText)
	}

	send("pm", `{"toName":"Bob","text":"psst"}`)
	if pmTo != "Bob" || pmText != "psst" {
		t.Errorf("Unexpected pm dispatch: to=%q text=%q", pmTo, pmText)
	}

	send("ttt:invite", `{"to":"conn-2"}`)
	if inviteTo != "conn-2" {
		t.Errorf("Expected invite target conn-2, got %q", inviteTo)
	}

	send("ttt:move", `{"room":"ttt-abc","idx":4}`)
	if gameRoom != "ttt-abc" || gameIdx != 4 {
		t.Errorf("Unexpected game move dispatch: room=%q idx=%d", gameRoom, gameIdx)
	}

	send("ttt:end", `{"room":"ttt-abc"}`)
	if endRoom != "ttt-abc" {
		t.Errorf("Expected end for ttt-abc, got %q", endRoom)
	}

	// Unknown events and bad payloads are dropped without side effects.
	send("teleport", `{}`)
	send("move", `not json`)
	if moveX != 55 {
		t.Error("Bad payload must not reach the service")
	}
}

func TestServeWSEndToEnd(t *testing.T) {
	hub := NewHub()

	joined := make(chan string, 1)
	hub.SetService(&MockRoomService{
		HandleJoinFunc: func(ctx context.Context, connID string, req service.JoinRequest) {
			joined <- req.Name
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()

	err = conn.WriteJSON(Envelope{
		Event: "join",
		Data:  json.RawMessage(`{"name":"Ann","x":1,"y":2}`),
	})
	if err != nil {
		t.Fatalf("Failed to send join: %v", err)
	}

	select {
	case name := <-joined:
		if name != "Ann" {
			t.Errorf("Expected join for Ann, got %q", name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for join dispatch")
	}

	// Outbound frames reach the dialer.
	hub.Broadcast("chat", map[string]string{"text": "welcome"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("Failed to read broadcast: %v", err)
	}
	if env.Event != "chat" {
		t.Errorf("Expected chat event, got %s", env.Event)
	}
}
