package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wmaia/plaza/room/game"
	"github.com/wmaia/plaza/room/registry"
	"github.com/wmaia/plaza/room/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Plaza Room Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Plaza - MCP Interface

This is a thin client that proxies all requests to the REST API server.

The plaza is a real-time virtual room: participants move avatars around,
chat, send private messages, and play two-player tic-tac-toe. This
interface exposes read-only room inspection plus a broadcast announcement
tool for operators.

AVAILABLE TOOLS:
- list_participants: List everyone currently in the room
- get_participant: Get one participant by connection ID
- list_games: List active tic-tac-toe sessions with their boards
- room_stats: Participant/game counts and server uptime
- announce: Broadcast a server chat line to every connection`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_participants",
		Description: "List all participants currently in the room",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListParticipants)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_participant",
		Description: "Get details of a specific participant",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"connection_id": map[string]interface{}{
					"type":        "string",
					"description": "Connection ID of the participant",
				},
			},
			Required: []string{"connection_id"},
		},
	}, c.handleGetParticipant)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List active tic-tac-toe sessions with boards and turns",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "room_stats",
		Description: "Get room statistics: participant count, active games, uptime",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleRoomStats)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "announce",
		Description: "Broadcast a server announcement to every connection as chat",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Announcement text (truncated to 400 characters)",
				},
			},
			Required: []string{"text"},
		},
	}, c.handleAnnounce)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall performs an HTTP request against the REST API
func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleListParticipants(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count        int                    `json:"count"`
		Participants []registry.Participant `json:"participants"`
	}

	if err := c.apiCall("GET", "/api/participants", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("The room is empty."), nil
	}

	result := fmt.Sprintf("Participants (%d):\n\n", response.Count)
	for _, p := range response.Participants {
		result += fmt.Sprintf("• %s (id: %s) at (%.0f, %.0f)\n", p.Name, p.ID, p.X, p.Y)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetParticipant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	connectionID, _ := args["connection_id"].(string)

	var p registry.Participant
	if err := c.apiCall("GET", fmt.Sprintf("/api/participants/%s", connectionID), nil, &p); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Participant %s\n  id: %s\n  position: (%.0f, %.0f)\n  look: %s\n",
		p.Name, p.ID, p.X, p.Y, string(p.Look))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int            `json:"count"`
		Games []game.Session `json:"games"`
	}

	if err := c.apiCall("GET", "/api/games", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("No active games."), nil
	}

	result := fmt.Sprintf("Active games (%d):\n\n", response.Count)
	for _, g := range response.Games {
		result += fmt.Sprintf("• %s\n  X: %s\n  O: %s\n  turn: %s\n%s\n",
			g.ID, g.PlayerX, g.PlayerO, g.Turn, formatBoard(g.Board))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRoomStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var stats service.RoomStats
	if err := c.apiCall("GET", "/api/stats", nil, &stats); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Room stats:\n  participants: %d\n  active games: %d\n  uptime: %s\n",
		stats.Participants, stats.ActiveGames, stats.Uptime)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleAnnounce(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	text, _ := args["text"].(string)

	body := map[string]interface{}{"text": text}
	if err := c.apiCall("POST", "/api/announce", body, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Announcement broadcast to the room."), nil
}

// formatBoard renders a 3x3 board with dots for empty cells.
func formatBoard(b game.Board) string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		sb.WriteString("  ")
		for col := 0; col < 3; col++ {
			cell := b[row*3+col]
			if cell == game.MarkNone {
				sb.WriteString(".")
			} else {
				sb.WriteString(string(cell))
			}
			if col < 2 {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
