package presentation

import "github.com/gouripri/Digiware-Monopoly/game/engine"

// View is the read-only contract a renderer consumes
type View interface {
	PlayerIDs() []string
	PlayerPosition(id string) (int, bool)
	Space(position int) (SpaceView, bool)
	CurrentPlayerID() string
}

// PlayerView is a copy of one player's committed state
type PlayerView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Token    string `json:"token"`
	Money    int    `json:"money"`
	Position int    `json:"position"`
	InJail   bool   `json:"in_jail"`
}

// SpaceView is a copy of one board space plus its owner
type SpaceView struct {
	Position int         `json:"position"`
	Name     string      `json:"name"`
	Kind     engine.Kind `json:"kind"`
	Price    int         `json:"price"`
	BaseRent int         `json:"base_rent"`
	OwnerID  string      `json:"owner_id,omitempty"`
}

// Snapshot is a point-in-time copy of the state a renderer needs.
// Mutating it has no effect on the game.
type Snapshot struct {
	Players       []PlayerView `json:"players"`
	Spaces        []SpaceView  `json:"spaces"`
	CurrentPlayer string       `json:"current_player"`
	Phase         engine.Phase `json:"phase"`
	Turn          int          `json:"turn"`
	LastRoll      int          `json:"last_roll"`
	Message       string       `json:"message"`
}

// Capture copies the renderable parts of a game state
func Capture(gs *engine.GameState) Snapshot {
	var snap Snapshot
	if gs == nil {
		return snap
	}

	snap.Players = make([]PlayerView, 0, len(gs.Players))
	for _, p := range gs.Players {
		snap.Players = append(snap.Players, PlayerView{
			ID:       p.ID,
			Name:     p.Name,
			Token:    p.Token,
			Money:    p.Money,
			Position: p.Position,
			InJail:   p.InJail,
		})
	}

	if gs.Board != nil {
		for _, prop := range gs.Board.Properties() {
			snap.Spaces = append(snap.Spaces, SpaceView{
				Position: prop.Position,
				Name:     prop.Name,
				Kind:     prop.Kind,
				Price:    prop.Price,
				BaseRent: prop.BaseRent,
				OwnerID:  gs.Owners[prop.Position],
			})
		}
	}

	if current := gs.CurrentPlayer(); current != nil {
		snap.CurrentPlayer = current.ID
	}
	snap.Phase = gs.Phase
	snap.Turn = gs.TurnNumber
	snap.LastRoll = gs.LastRoll
	snap.Message = gs.Message
	return snap
}

// PlayerIDs returns player ids in turn order
func (s Snapshot) PlayerIDs() []string {
	ids := make([]string, len(s.Players))
	for i, p := range s.Players {
		ids[i] = p.ID
	}
	return ids
}

// PlayerPosition returns the committed position of a player
func (s Snapshot) PlayerPosition(id string) (int, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p.Position, true
		}
	}
	return 0, false
}

// PlayerInJail reports whether a player is serving a jail sentence
func (s Snapshot) PlayerInJail(id string) bool {
	for _, p := range s.Players {
		if p.ID == id {
			return p.InJail
		}
	}
	return false
}

// Space returns the space at a position
func (s Snapshot) Space(position int) (SpaceView, bool) {
	for _, sp := range s.Spaces {
		if sp.Position == position {
			return sp, true
		}
	}
	return SpaceView{}, false
}

// CurrentPlayerID returns the id of the player whose turn it is
func (s Snapshot) CurrentPlayerID() string {
	return s.CurrentPlayer
}
