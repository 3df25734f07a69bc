package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gouripri/Digiware-Monopoly/game/engine"
	"github.com/gouripri/Digiware-Monopoly/game/presentation"
)

// DefaultPlayerCount is used when a session is created without a player list
const DefaultPlayerCount = 2

// gameServiceImpl implements the GameService interface.
// Every mutation of any session goes through mu.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	opts     []engine.Option
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance.
// Engine options (e.g. a seeded dice source) apply to every session it creates.
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...engine.Option) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		opts:     opts,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		CurrentPlayer:  sess.Engine.CurrentPlayerNumber(),
		GameState:      sess.Engine.GetState().Clone(),
		BoardConfig:    sess.Config,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, players []engine.PlayerSpec) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.BoardConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	if len(players) == 0 {
		players = engine.DefaultPlayerSpecs(DefaultPlayerCount)
	}

	session, err := s.sessions.Create("", config, players, s.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	log.Printf("[SESSION] created id=%s config=%s players=%d", session.ID, configID, len(players))
	return s.sessionInfo(session, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	// write lock: touching the session updates LastAccessedAt
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(session, s.getConfigID(session.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Apply applies an action for whoever holds the turn
func (s *gameServiceImpl) Apply(ctx context.Context, sessionID, action string) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.apply(sessionID, 0, action)
}

// ApplyForPlayer applies an action only if playerNumber (1-indexed) holds the turn
func (s *gameServiceImpl) ApplyForPlayer(ctx context.Context, sessionID string, playerNumber int, action string) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if playerNumber < 1 {
		return nil, fmt.Errorf("invalid player number %d", playerNumber)
	}
	return s.apply(sessionID, playerNumber, action)
}

// Roll takes the current player's roll
func (s *gameServiceImpl) Roll(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.Apply(ctx, sessionID, engine.ActionRoll)
}

// Buy buys the space the current player stands on
func (s *gameServiceImpl) Buy(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.Apply(ctx, sessionID, engine.ActionBuy)
}

// Pass declines the pending purchase
func (s *gameServiceImpl) Pass(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.Apply(ctx, sessionID, engine.ActionPass)
}

// apply must be called with mu held. playerNumber 0 means any player.
func (s *gameServiceImpl) apply(sessionID string, playerNumber int, action string) (*ActionResult, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	current := sess.Engine.CurrentPlayerNumber()
	if playerNumber != 0 && playerNumber != current {
		return &ActionResult{
			Action:       strings.ToUpper(action),
			PlayerNumber: playerNumber,
			GameState:    sess.Engine.GetState().Clone(),
			Message:      fmt.Sprintf("It is player %d's turn, not player %d's", current, playerNumber),
		}, ErrNotPlayersTurn
	}

	turn, err := sess.Engine.Apply(action)
	if err != nil && !engine.IsRejection(err) {
		return nil, err
	}

	result := &ActionResult{
		Success:      err == nil,
		Action:       turn.Action,
		PlayerNumber: turn.PlayerNumber,
		GameState:    sess.Engine.GetState().Clone(),
		Message:      turn.Message,
		Events:       eventsFromTurn(turn, err),
		Turn:         turn,
	}

	log.Printf("[ACTION] session=%s player=%d action=%s success=%v msg=%q",
		sess.ID, turn.PlayerNumber, turn.Action, result.Success, turn.Message)
	return result, nil
}

// Reset reseats the session's players on a fresh board
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	state, err := sess.Engine.Reset()
	if err != nil {
		return nil, err
	}
	return state.Clone(), nil
}

// GetGameState returns a copy of the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	// write lock: touching the session updates LastAccessedAt
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState().Clone(), nil
}

// CurrentPlayerNumber returns the 1-indexed player whose turn it is
func (s *gameServiceImpl) CurrentPlayerNumber(ctx context.Context, sessionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return 0, fmt.Errorf("session not found: %w", err)
	}
	return sess.Engine.CurrentPlayerNumber(), nil
}

// Snapshot copies the renderable state while no action can be applied
func (s *gameServiceImpl) Snapshot(ctx context.Context, sessionID string) (presentation.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return presentation.Snapshot{}, fmt.Errorf("session not found: %w", err)
	}
	return presentation.Capture(sess.Engine.GetState()), nil
}

// GetHistory returns paginated turn history
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetHistory()
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	entries := []engine.TurnHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			for i := total - 1 - start; i >= total-end; i-- {
				entries = append(entries, history[i])
			}
		} else {
			entries = append(entries, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Entries:      entries,
		TotalEntries: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListConfigs returns available board configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific board configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a board configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// eventsFromTurn flattens a turn result into the event stream sent to clients
func eventsFromTurn(turn *engine.TurnResult, err error) []GameEvent {
	now := time.Now()
	event := func(kind, msg string, pos int) GameEvent {
		return GameEvent{Type: kind, Message: msg, Timestamp: now, PlayerID: turn.PlayerID, Position: pos}
	}

	if err != nil {
		return []GameEvent{event(EventRejected, turn.Message, turn.ToPosition)}
	}

	var events []GameEvent
	if turn.Skip != nil {
		switch {
		case turn.Skip.Skip:
			events = append(events, event(EventSkip, turn.Skip.Message, turn.FromPosition))
		case turn.Skip.Reason == engine.SkipReasonReleased:
			events = append(events, event(EventReleased, turn.Skip.Message, turn.FromPosition))
		}
	}

	if turn.Move != nil {
		events = append(events, event(EventRoll, fmt.Sprintf("%s rolled %d", turn.PlayerName, turn.Roll), turn.FromPosition))
		events = append(events, event(EventMove, fmt.Sprintf("%s moved %d -> %d", turn.PlayerName, turn.FromPosition, turn.ToPosition), turn.ToPosition))
		if turn.Move.PassedGo || turn.Move.LandedOnGo {
			events = append(events, event(EventPassedGo, fmt.Sprintf("%s collected $%d", turn.PlayerName, engine.GoBonus), turn.ToPosition))
		}
		if turn.Move.WentToJail {
			events = append(events, event(EventJail, fmt.Sprintf("%s went to jail", turn.PlayerName), turn.ToPosition))
		}
	}

	if turn.Landing != nil {
		switch turn.Landing.Action {
		case engine.LandRent:
			events = append(events, event(EventRent, turn.Landing.Message, turn.ToPosition))
			if turn.Landing.Rent != nil && turn.Landing.Rent.Bankrupt {
				events = append(events, event(EventBankrupt, fmt.Sprintf("%s is bankrupt", turn.PlayerName), turn.ToPosition))
			}
		default:
			events = append(events, event(EventLanding, turn.Landing.Message, turn.ToPosition))
		}
	}

	switch turn.Action {
	case engine.ActionBuy:
		events = append(events, event(EventBuy, turn.Message, turn.ToPosition))
	case engine.ActionPass:
		events = append(events, event(EventPass, turn.Message, turn.ToPosition))
	}

	if turn.TurnEnded {
		events = append(events, event(EventTurn, "Turn over", turn.ToPosition))
	}
	return events
}

// IsNotPlayersTurn reports whether err came from an action addressed to the wrong player
func IsNotPlayersTurn(err error) bool {
	return errors.Is(err, ErrNotPlayersTurn)
}
