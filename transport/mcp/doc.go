// Package mcp exposes the game to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API in package api, so an agent sees exactly what a browser or the
// physical controller loop would see.
//
// MCP Tools:
//   - create_session, get_session, list_sessions
//   - game_state: players, money, positions and the current phase
//   - roll_dice, buy_property, pass_turn: optional "player" for addressed actions
//   - reset_game, turn_history
//   - list_configs, describe_space, game_instructions
//
// Transport Modes:
//
// The same *server.MCPServer is served over stdio (server.ServeStdio) or
// mounted at /mcp as a streamable HTTP handler by the serve command.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
