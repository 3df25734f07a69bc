package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewGameState creates an empty game around a populated board
func NewGameState(board *Board) *GameState {
	if board == nil {
		board = NewBoard()
	}
	return &GameState{
		Players: []*Player{},
		Board:   board,
		Owners:  make(map[int]string),
		Phase:   AwaitingRoll,
		History: []TurnHistoryEntry{},
	}
}

// AddPlayer appends a player to the turn order
func (gs *GameState) AddPlayer(name, token string, money int) (*Player, error) {
	if len(gs.Players) >= MaxPlayers {
		return nil, fmt.Errorf("%w: max %d", ErrTooManyPlayers, MaxPlayers)
	}
	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("P%d", len(gs.Players)+1)
	}

	player := &Player{
		ID:       uuid.NewString(),
		Name:     name,
		Token:    token,
		Money:    money,
		Position: GoPosition,
	}
	gs.Players = append(gs.Players, player)
	return player, nil
}

// Clone returns a copy that shares only the board, whose shape never changes after setup
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	clone := *gs
	clone.Players = make([]*Player, len(gs.Players))
	for i, p := range gs.Players {
		player := *p
		clone.Players[i] = &player
	}
	clone.Owners = make(map[int]string, len(gs.Owners))
	for pos, id := range gs.Owners {
		clone.Owners[pos] = id
	}
	clone.History = append([]TurnHistoryEntry(nil), gs.History...)
	return &clone
}

// CurrentPlayer returns the player whose turn it is, or nil if there are no players
func (gs *GameState) CurrentPlayer() *Player {
	if len(gs.Players) == 0 {
		return nil
	}
	return gs.Players[gs.CurrentPlayerIndex]
}

// PlayerByID finds a player by identity
func (gs *GameState) PlayerByID(id string) *Player {
	for _, p := range gs.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerIndex returns the turn-order index of a player, or -1
func (gs *GameState) PlayerIndex(player *Player) int {
	for i, p := range gs.Players {
		if p == player {
			return i
		}
	}
	return -1
}

// OwnerOf returns the owner of a property, or nil if unowned
func (gs *GameState) OwnerOf(property *Property) *Player {
	if property == nil {
		return nil
	}
	id, ok := gs.Owners[property.Position]
	if !ok {
		return nil
	}
	return gs.PlayerByID(id)
}

// IsOwned reports whether a property has an owner
func (gs *GameState) IsOwned(property *Property) bool {
	return gs.OwnerOf(property) != nil
}

// IsAvailableToBuy reports whether a property is unowned and of a purchasable kind
func (gs *GameState) IsAvailableToBuy(property *Property) bool {
	return property != nil && !gs.IsOwned(property) && property.Kind.Purchasable()
}

// PropertiesOf returns the properties owned by a player, in board order
func (gs *GameState) PropertiesOf(player *Player) []*Property {
	if player == nil {
		return nil
	}
	var owned []*Property
	for pos, id := range gs.Owners {
		if id != player.ID {
			continue
		}
		if p := gs.Board.At(pos); p != nil {
			owned = append(owned, p)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].Position < owned[j].Position })
	return owned
}

// setOwner is the only write path for ownership; a new owner replaces the previous one
func (gs *GameState) setOwner(property *Property, player *Player) {
	if player == nil {
		delete(gs.Owners, property.Position)
		return
	}
	gs.Owners[property.Position] = player.ID
}

// NextTurn advances the turn pointer cyclically; no-op without players
func (gs *GameState) NextTurn() {
	if len(gs.Players) == 0 {
		return
	}
	gs.CurrentPlayerIndex = (gs.CurrentPlayerIndex + 1) % len(gs.Players)
	gs.Phase = AwaitingRoll
	gs.TurnNumber++
}

// AddHistory records an applied action
func (gs *GameState) AddHistory(player *Player, action string, roll, from int, message string, success bool) {
	entry := TurnHistoryEntry{
		Number:       len(gs.History) + 1,
		Action:       action,
		Roll:         roll,
		FromPosition: from,
		Message:      message,
		Success:      success,
		Timestamp:    time.Now().Unix(),
	}
	if player != nil {
		entry.PlayerID = player.ID
		entry.PlayerName = player.Name
		entry.ToPosition = player.Position
		entry.MoneyAfter = player.Money
	}
	gs.History = append(gs.History, entry)
}
