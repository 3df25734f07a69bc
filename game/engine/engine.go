package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() (*GameState, error)
	CurrentPlayer() *Player
	CurrentPlayerNumber() int

	// Turn operations
	Apply(action string) (*TurnResult, error)
	Roll() (*TurnResult, error)
	Buy() (*TurnResult, error)
	Pass() (*TurnResult, error)

	// Configuration
	GetConfig() *BoardConfig

	// History
	GetHistory() []TurnHistoryEntry
	GetLastAction() *TurnHistoryEntry
}

// DiceRoller produces the total of count dice with the given number of sides
type DiceRoller func(sides, count int) int

// Option configures a GameEngine
type Option func(*GameEngine)

// WithRand makes dice rolls use the given source
func WithRand(rng *rand.Rand) Option {
	return func(e *GameEngine) {
		e.roll = func(sides, count int) int { return RollDice(rng, sides, count) }
	}
}

// WithDiceRoller replaces the dice entirely
func WithDiceRoller(roller DiceRoller) Option {
	return func(e *GameEngine) {
		e.roll = roller
	}
}

// TurnResult describes the outcome of one applied action
type TurnResult struct {
	Action       string       `json:"action"`
	PlayerID     string       `json:"player_id"`
	PlayerName   string       `json:"player_name"`
	PlayerNumber int          `json:"player_number"`
	Roll         int          `json:"roll,omitempty"`
	FromPosition int          `json:"from_position"`
	ToPosition   int          `json:"to_position"`
	Move         *MoveResult  `json:"move,omitempty"`
	Skip         *SkipResult  `json:"skip,omitempty"`
	Landing      *Landing     `json:"landing,omitempty"`
	Purchase     *Transaction `json:"purchase,omitempty"`
	TurnEnded    bool         `json:"turn_ended"`
	Phase        Phase        `json:"phase"`
	Message      string       `json:"message"`
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state   *GameState
	config  *BoardConfig
	players []PlayerSpec
	roll    DiceRoller
}

// NewEngine creates a new game engine for the given board and players.
// Board misconfiguration is reported here and is fatal to setup.
func NewEngine(config *BoardConfig, players []PlayerSpec, opts ...Option) (*GameEngine, error) {
	if config == nil {
		config = DefaultBoardConfig()
	}
	if err := ValidateBoardConfig(config); err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, ErrNoPlayers
	}

	state, err := InitGameStateFromConfig(config, players)
	if err != nil {
		return nil, err
	}

	e := &GameEngine{
		state:   state,
		config:  config,
		players: append([]PlayerSpec(nil), players...),
		roll:    func(sides, count int) int { return RollDice(nil, sides, count) },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// GetConfig returns the board configuration
func (e *GameEngine) GetConfig() *BoardConfig {
	return e.config
}

// Reset reseats the same players on a fresh board
func (e *GameEngine) Reset() (*GameState, error) {
	state, err := InitGameStateFromConfig(e.config, e.players)
	if err != nil {
		return nil, err
	}
	e.state = state
	return e.state, nil
}

// CurrentPlayer returns the player whose turn it is
func (e *GameEngine) CurrentPlayer() *Player {
	return e.state.CurrentPlayer()
}

// CurrentPlayerNumber returns the 1-indexed number of the current player, or 0 without players
func (e *GameEngine) CurrentPlayerNumber() int {
	if len(e.state.Players) == 0 {
		return 0
	}
	return e.state.CurrentPlayerIndex + 1
}

// Apply dispatches an action name (case-insensitive)
func (e *GameEngine) Apply(action string) (*TurnResult, error) {
	switch strings.ToUpper(strings.TrimSpace(action)) {
	case ActionRoll:
		return e.Roll()
	case ActionBuy:
		return e.Buy()
	case ActionPass:
		return e.Pass()
	}
	return e.reject(action, fmt.Errorf("%w: %q", ErrUnknownAction, action))
}

// Roll takes the current player's roll: jail check, dice, movement and landing
func (e *GameEngine) Roll() (*TurnResult, error) {
	player := e.state.CurrentPlayer()
	if player == nil {
		return nil, ErrNoPlayers
	}
	if e.state.Phase != AwaitingRoll {
		return e.reject(ActionRoll, fmt.Errorf("%w: waiting for BUY or PASS", ErrWrongPhase))
	}

	result := e.newResult(ActionRoll, player)

	skip := e.state.ShouldSkipTurn(player)
	if skip.Skip {
		result.Skip = &skip
		result.Message = skip.Message
		e.endTurn(result)
		e.record(player, result, true)
		return result, nil
	}

	var messages []string
	if skip.Reason == SkipReasonReleased {
		result.Skip = &skip
		messages = append(messages, skip.Message)
	}

	roll := e.roll(DefaultDieSides, DefaultDiceCount)
	move := e.state.MovePlayer(player, roll)
	result.Roll = roll
	result.Move = &move
	result.ToPosition = move.NewPosition
	e.state.LastRoll = roll

	messages = append(messages, fmt.Sprintf("%s rolled %d", player.Name, roll))
	if move.PassedGo || move.LandedOnGo {
		messages = append(messages, fmt.Sprintf("collected $%d for GO", GoBonus))
	}
	if move.WentToJail {
		messages = append(messages, "went to jail")
	}

	landing, err := e.state.HandleLanding(player, move.NewPosition)
	if err != nil {
		// Unreachable after MovePlayer; kept so a bad board never stalls the turn.
		messages = append(messages, landing.Message)
		result.Message = strings.Join(messages, ", ")
		e.endTurn(result)
		e.record(player, result, false)
		return result, nil
	}
	result.Landing = &landing
	messages = append(messages, landing.Message)
	result.Message = strings.Join(messages, ", ")

	if landing.Action == LandBuy {
		e.state.Phase = AwaitingDecision
		result.Phase = AwaitingDecision
	} else {
		e.endTurn(result)
	}

	e.record(player, result, true)
	return result, nil
}

// Buy purchases the space the current player is standing on
func (e *GameEngine) Buy() (*TurnResult, error) {
	player := e.state.CurrentPlayer()
	if player == nil {
		return nil, ErrNoPlayers
	}
	if e.state.Phase != AwaitingDecision {
		return e.reject(ActionBuy, fmt.Errorf("%w: roll first", ErrWrongPhase))
	}

	result := e.newResult(ActionBuy, player)
	property := e.state.Board.At(player.Position)
	tx, err := e.state.BuyProperty(player, property)
	result.Purchase = &tx
	result.Message = tx.Message
	if err != nil {
		// Not ending the turn lets the player PASS after a failed purchase.
		result.Phase = e.state.Phase
		e.record(player, result, false)
		e.state.Message = result.Message
		return result, err
	}

	e.endTurn(result)
	e.record(player, result, true)
	return result, nil
}

// Pass declines the pending purchase and ends the turn
func (e *GameEngine) Pass() (*TurnResult, error) {
	player := e.state.CurrentPlayer()
	if player == nil {
		return nil, ErrNoPlayers
	}
	if e.state.Phase != AwaitingDecision {
		return e.reject(ActionPass, fmt.Errorf("%w: nothing to pass", ErrWrongPhase))
	}

	result := e.newResult(ActionPass, player)
	result.Message = fmt.Sprintf("%s passed", player.Name)
	if property := e.state.Board.At(player.Position); property != nil {
		result.Message = fmt.Sprintf("%s passed on %s", player.Name, property.Name)
	}
	e.endTurn(result)
	e.record(player, result, true)
	return result, nil
}

// GetHistory returns the full action history
func (e *GameEngine) GetHistory() []TurnHistoryEntry {
	return e.state.History
}

// GetLastAction returns the most recent history entry, or nil
func (e *GameEngine) GetLastAction() *TurnHistoryEntry {
	if len(e.state.History) == 0 {
		return nil
	}
	return &e.state.History[len(e.state.History)-1]
}

// IsRejection reports whether err is a rule rejection rather than a fault
func IsRejection(err error) bool {
	return errors.Is(err, ErrWrongPhase) ||
		errors.Is(err, ErrUnknownAction) ||
		errors.Is(err, ErrNotAvailable) ||
		errors.Is(err, ErrInsufficientFunds)
}

func (e *GameEngine) newResult(action string, player *Player) *TurnResult {
	return &TurnResult{
		Action:       action,
		PlayerID:     player.ID,
		PlayerName:   player.Name,
		PlayerNumber: e.state.PlayerIndex(player) + 1,
		FromPosition: player.Position,
		ToPosition:   player.Position,
		Phase:        e.state.Phase,
	}
}

func (e *GameEngine) reject(action string, err error) (*TurnResult, error) {
	result := &TurnResult{
		Action:  strings.ToUpper(strings.TrimSpace(action)),
		Phase:   e.state.Phase,
		Message: err.Error(),
	}
	if player := e.state.CurrentPlayer(); player != nil {
		result.PlayerID = player.ID
		result.PlayerName = player.Name
		result.PlayerNumber = e.state.CurrentPlayerIndex + 1
		result.FromPosition = player.Position
		result.ToPosition = player.Position
	}
	return result, err
}

func (e *GameEngine) endTurn(result *TurnResult) {
	e.state.NextTurn()
	result.TurnEnded = true
	result.Phase = e.state.Phase
}

func (e *GameEngine) record(player *Player, result *TurnResult, success bool) {
	e.state.Message = result.Message
	e.state.AddHistory(player, result.Action, result.Roll, result.FromPosition, result.Message, success)
}
