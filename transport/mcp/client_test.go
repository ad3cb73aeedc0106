package mcp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wmaia/plaza/room/game"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:3000")

	if client == nil {
		t.Fatal("Expected client to be created")
	}
	if client.baseURL != "http://localhost:3000" {
		t.Errorf("Expected baseURL to be set, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestGetMCPServer(t *testing.T) {
	client := NewClient("http://localhost:3000")

	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be returned")
	}
}

func TestAPICall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stats" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"participants":2,"active_games":1,"uptime":"3m0s"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var result struct {
		Participants int    `json:"participants"`
		ActiveGames  int    `json:"active_games"`
		Uptime       string `json:"uptime"`
	}
	if err := client.apiCall("GET", "/api/stats", nil, &result); err != nil {
		t.Fatalf("Expected call to succeed: %v", err)
	}
	if result.Participants != 2 || result.ActiveGames != 1 {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestAPICallError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"participant not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api/participants/unknown", nil, nil)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if err.Error() != "participant not found" {
		t.Errorf("Expected API error message to surface, got %q", err.Error())
	}
}

func TestAPICallPostsBody(t *testing.T) {
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if r.Method != "POST" {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		w.Write([]byte(`{"message":"Announcement broadcast"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	body := map[string]interface{}{"text": "hello"}
	if err := client.apiCall("POST", "/api/announce", body, nil); err != nil {
		t.Fatalf("Expected call to succeed: %v", err)
	}
	if gotContentType != "application/json" {
		t.Errorf("Expected JSON content type, got %s", gotContentType)
	}
}

func TestFormatBoard(t *testing.T) {
	var b game.Board
	b[0] = game.MarkX
	b[4] = game.MarkO
	b[8] = game.MarkX

	got := formatBoard(b)

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 rows, got %d: %q", len(lines), got)
	}
	if strings.TrimSpace(lines[0]) != "X . ." {
		t.Errorf("Unexpected top row: %q", lines[0])
	}
	if strings.TrimSpace(lines[1]) != ". O ." {
		t.Errorf("Unexpected middle row: %q", lines[1])
	}
	if strings.TrimSpace(lines[2]) != ". . X" {
		t.Errorf("Unexpected bottom row: %q", lines[2])
	}
}

func TestToolsRegistered(t *testing.T) {
	// Tool registration must not panic and yields a usable server.
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Tool registration panicked: %v", r)
		}
	}()

	client := NewClient("http://localhost:3000")
	if client.mcpServer == nil {
		t.Fatal("Expected MCP server with tools")
	}
}
