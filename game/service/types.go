package service

import (
	"time"

	"github.com/gouripri/Digiware-Monopoly/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	CurrentPlayer  int                 `json:"current_player"`
	GameState      *engine.GameState   `json:"game_state"`
	BoardConfig    *engine.BoardConfig `json:"board_config"`
}

// ActionResult contains the result of one applied turn action
type ActionResult struct {
	Success      bool               `json:"success"`
	Action       string             `json:"action"`
	PlayerNumber int                `json:"player_number"`
	GameState    *engine.GameState  `json:"game_state"`
	Message      string             `json:"message"`
	Events       []GameEvent        `json:"events,omitempty"`
	Turn         *engine.TurnResult `json:"turn,omitempty"`
}

// Event types emitted by actions
const (
	EventRoll     = "roll"
	EventMove     = "move"
	EventPassedGo = "passed_go"
	EventJail     = "jail"
	EventSkip     = "skip"
	EventReleased = "released"
	EventLanding  = "landing"
	EventBuy      = "buy"
	EventRent     = "rent"
	EventBankrupt = "bankrupt"
	EventPass     = "pass"
	EventTurn     = "turn"
	EventReset    = "reset"
	EventRejected = "rejected"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	PlayerID  string    `json:"player_id,omitempty"`
	Position  int       `json:"position"`
}

// HistoryOptions configures turn history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated turn history
type HistoryResponse struct {
	Entries      []engine.TurnHistoryEntry `json:"entries"`
	TotalEntries int                       `json:"total_entries"`
	Page         int                       `json:"page"`
	PageSize     int                       `json:"page_size"`
	TotalPages   int                       `json:"total_pages"`
	HasNext      bool                      `json:"has_next"`
	HasPrevious  bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a board configuration
type ConfigInfo struct {
	Filename      string `json:"filename"`
	ConfigID      string `json:"config_id"` // The identifier to use for session creation
	Name          string `json:"name"`      // Display name
	Description   string `json:"description"`
	Spaces        int    `json:"spaces"`
	Purchasable   int    `json:"purchasable"`
	StartingMoney int    `json:"starting_money"`
}
