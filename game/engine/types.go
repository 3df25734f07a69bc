package engine

// Kind represents the closed set of board space kinds
type Kind string

const (
	Ordinary    Kind = "ordinary"
	Utility     Kind = "utility"
	Railroad    Kind = "railroad"
	Special     Kind = "special"
	JailVisit   Kind = "jail_visit"
	GoToJail    Kind = "go_to_jail"
	FreeParking Kind = "free_parking"

	// Board geometry and economy constants
	BoardSize        = 28
	GoPosition       = 0
	JailPosition     = 7
	GoToJailPosition = 21
	GoBonus          = 200
	StartingMoney    = 1500
	DefaultDieSides  = 6
	DefaultDiceCount = 1
	MaxPlayers       = 8
)

// Kinds lists every space kind in declaration order
var Kinds = []Kind{Ordinary, Utility, Railroad, Special, JailVisit, GoToJail, FreeParking}

// Purchasable reports whether spaces of this kind can be owned
func (k Kind) Purchasable() bool {
	switch k {
	case Ordinary, Utility, Railroad:
		return true
	case Special, JailVisit, GoToJail, FreeParking:
		return false
	}
	return false
}

// Valid reports whether k is one of the known kinds
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Property is a single board space. Ownership is not stored here; see GameState.Owners.
type Property struct {
	Name       string `json:"name"`
	Position   int    `json:"position"`
	Price      int    `json:"price"`
	BaseRent   int    `json:"base_rent"`
	ColorGroup string `json:"color_group,omitempty"`
	Kind       Kind   `json:"kind"`
}

// Player represents a participant in the game
type Player struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Token           string `json:"token"`
	Money           int    `json:"money"`
	Position        int    `json:"position"`
	InJail          bool   `json:"in_jail"`
	JailTurnSkipped bool   `json:"jail_turn_skipped"`
}

// Phase is the turn phase of the current player
type Phase string

const (
	AwaitingRoll     Phase = "awaiting_roll"
	AwaitingDecision Phase = "awaiting_decision"
)

// Action names accepted by the engine
const (
	ActionRoll = "ROLL"
	ActionBuy  = "BUY"
	ActionPass = "PASS"
)

// LandingAction is the outcome category of landing on a space
type LandingAction string

const (
	LandNothing LandingAction = "nothing"
	LandSpecial LandingAction = "special"
	LandBuy     LandingAction = "buy"
	LandRent    LandingAction = "rent"
)

// GameState represents the complete game state
type GameState struct {
	Players            []*Player          `json:"players"`
	Board              *Board             `json:"board"`
	Owners             map[int]string     `json:"owners"` // property position -> player ID
	CurrentPlayerIndex int                `json:"current_player_index"`
	Phase              Phase              `json:"phase"`
	LastRoll           int                `json:"last_roll"`
	Message            string             `json:"message"`
	ConfigName         string             `json:"config_name"`
	TurnNumber         int                `json:"turn_number"`
	History            []TurnHistoryEntry `json:"history"`
}

// TurnHistoryEntry represents a single applied action in the game history
type TurnHistoryEntry struct {
	Number       int    `json:"number"`
	PlayerID     string `json:"player_id"`
	PlayerName   string `json:"player_name"`
	Action       string `json:"action"`
	Roll         int    `json:"roll,omitempty"`
	FromPosition int    `json:"from_position"`
	ToPosition   int    `json:"to_position"`
	MoneyAfter   int    `json:"money_after"`
	Message      string `json:"message"`
	Success      bool   `json:"success"`
	Timestamp    int64  `json:"timestamp"`
}

// MoveResult is returned by MovePlayer
type MoveResult struct {
	NewPosition int  `json:"new_position"`
	PassedGo    bool `json:"passed_go"`
	LandedOnGo  bool `json:"landed_on_go"`
	WentToJail  bool `json:"went_to_jail"`
}

// SkipResult is returned by ShouldSkipTurn
type SkipResult struct {
	Skip    bool   `json:"skip"`
	Reason  string `json:"reason,omitempty"` // "in_jail", "released" or empty
	Message string `json:"message,omitempty"`
}

// Skip reasons
const (
	SkipReasonInJail   = "in_jail"
	SkipReasonReleased = "released"
)

// Transaction describes a completed money transfer
type Transaction struct {
	Success  bool   `json:"success"`
	Amount   int    `json:"amount"`
	Bankrupt bool   `json:"bankrupt,omitempty"`
	Message  string `json:"message"`
}

// Landing is returned by HandleLanding
type Landing struct {
	Action   LandingAction `json:"action"`
	Property *Property     `json:"property,omitempty"`
	Rent     *Transaction  `json:"rent,omitempty"`
	Message  string        `json:"message"`
}
