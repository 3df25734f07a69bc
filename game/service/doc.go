// Package service provides the business logic layer for DigiWare Monopoly.
//
// The service package implements:
//   - Multi-session game management
//   - Turn actions (roll, buy, pass) with per-player addressing
//   - Paginated turn history
//   - Board configuration access
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages board configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP and the
// hardware control loop) and the game engine. It holds one mutex for every
// session, so all game state mutations are serialised no matter how many
// producers feed them. Rule rejections from the engine (wrong phase, no
// funds, owned property) come back as unsuccessful ActionResults, not errors.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic", nil)
//	result, err := gameService.Roll(ctx, info.ID)
package service
