// Package mcp provides a Model Context Protocol interface to the plaza.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Read-only room inspection tools
//   - An announcement tool for operators
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - list_participants: List everyone currently in the room
//   - get_participant: Get one participant by connection ID
//   - list_games: List active tic-tac-toe sessions with boards and turns
//   - room_stats: Participant/game counts and uptime
//   - announce: Broadcast a server chat line to every connection
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: HTTP endpoint for remote MCP integration
//
// The client is a thin proxy: every tool call maps onto the REST API, so
// the MCP surface can never observe state the HTTP surface would not.
package mcp
