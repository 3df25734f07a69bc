package service

import (
	"context"
	"errors"
	"time"

	"github.com/gouripri/Digiware-Monopoly/game/engine"
	"github.com/gouripri/Digiware-Monopoly/game/presentation"
)

// ErrNotPlayersTurn is returned when an addressed action names a player other than the current one
var ErrNotPlayersTurn = errors.New("not this player's turn")

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string, players []engine.PlayerSpec) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Apply(ctx context.Context, sessionID, action string) (*ActionResult, error)
	ApplyForPlayer(ctx context.Context, sessionID string, playerNumber int, action string) (*ActionResult, error)
	Roll(ctx context.Context, sessionID string) (*ActionResult, error)
	Buy(ctx context.Context, sessionID string) (*ActionResult, error)
	Pass(ctx context.Context, sessionID string) (*ActionResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	CurrentPlayerNumber(ctx context.Context, sessionID string) (int, error)
	Snapshot(ctx context.Context, sessionID string) (presentation.Snapshot, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.BoardConfig, players []engine.PlayerSpec, opts ...engine.Option) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles board configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.BoardConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.BoardConfig
	SaveConfig(name string, config *engine.BoardConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.BoardConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
