package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BoardConfig is the board setup table loaded from JSON
type BoardConfig struct {
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	StartingMoney int        `json:"starting_money"`
	Spaces        []Property `json:"spaces"`
	Messages      struct {
		Welcome string `json:"welcome"`
	} `json:"messages"`
}

// ValidateBoardConfig validates a board table for completeness and engine invariants
func ValidateBoardConfig(config *BoardConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.StartingMoney <= 0 {
		return fmt.Errorf("config validation: starting_money must be positive, got %d", config.StartingMoney)
	}
	if len(config.Spaces) != BoardSize {
		return fmt.Errorf("config validation: spaces must have %d entries, got %d", BoardSize, len(config.Spaces))
	}

	seen := make(map[int]string, BoardSize)
	counts := make(map[Kind]int)
	for i, space := range config.Spaces {
		if space.Name == "" {
			return fmt.Errorf("config validation: space %d has no name", i)
		}
		if !ValidPosition(space.Position) {
			return fmt.Errorf("config validation: %s: %w, got %d", space.Name, ErrInvalidPosition, space.Position)
		}
		if other, dup := seen[space.Position]; dup {
			return fmt.Errorf("config validation: %s and %s share position %d", other, space.Name, space.Position)
		}
		seen[space.Position] = space.Name
		if !space.Kind.Valid() {
			return fmt.Errorf("config validation: %s has unknown kind %q", space.Name, space.Kind)
		}
		if space.Price < 0 || space.BaseRent < 0 {
			return fmt.Errorf("config validation: %s has negative price or rent", space.Name)
		}
		counts[space.Kind]++

		switch space.Position {
		case GoPosition:
			if space.Kind != Special || space.Price != 0 || space.BaseRent != 0 {
				return fmt.Errorf("config validation: position %d must be GO (special, price 0, rent 0)", GoPosition)
			}
		case JailPosition:
			if space.Kind != JailVisit {
				return fmt.Errorf("config validation: position %d must be %s, got %s", JailPosition, JailVisit, space.Kind)
			}
		case GoToJailPosition:
			if space.Kind != GoToJail {
				return fmt.Errorf("config validation: position %d must be %s, got %s", GoToJailPosition, GoToJail, space.Kind)
			}
		}
	}

	for _, kind := range []Kind{JailVisit, GoToJail, FreeParking} {
		if counts[kind] != 1 {
			return fmt.Errorf("config validation: board must contain exactly one %s space, got %d", kind, counts[kind])
		}
	}

	return nil
}

// LoadBoardConfig loads a board configuration from a JSON file
func LoadBoardConfig(filename string) (*BoardConfig, error) {
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config BoardConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateBoardConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// BuildBoard populates a Board from a validated configuration
func BuildBoard(config *BoardConfig) (*Board, error) {
	board := NewBoard()
	for _, space := range config.Spaces {
		if _, err := board.AddProperty(space); err != nil {
			return nil, err
		}
	}
	return board, nil
}

// DefaultBoardConfig returns the built-in 28-space board
func DefaultBoardConfig() *BoardConfig {
	config := &BoardConfig{
		Name:          "classic",
		Description:   "Campus board: 28 spaces, single die",
		StartingMoney: StartingMoney,
		Spaces: []Property{
			{Name: "GO", Position: 0, Kind: Special},
			{Name: "JARVIS", Position: 1, Price: 60, BaseRent: 20, ColorGroup: "brown", Kind: Ordinary},
			{Name: "BONNER", Position: 2, Price: 60, BaseRent: 20, ColorGroup: "brown", Kind: Ordinary},
			{Name: "EDUROAM", Position: 3, Price: 180, BaseRent: 100, Kind: Special},
			{Name: "FURNAS", Position: 4, Price: 100, BaseRent: 40, ColorGroup: "light_blue", Kind: Ordinary},
			{Name: "KNOX", Position: 5, Price: 100, BaseRent: 40, ColorGroup: "light_blue", Kind: Ordinary},
			{Name: "KETTER", Position: 6, Price: 120, BaseRent: 60, ColorGroup: "light_blue", Kind: Ordinary},
			{Name: "JAIL", Position: 7, Kind: JailVisit},
			{Name: "GOVERNORS", Position: 8, Price: 140, BaseRent: 70, ColorGroup: "pink", Kind: Ordinary},
			{Name: "HADLEY", Position: 9, Price: 160, BaseRent: 80, ColorGroup: "pink", Kind: Ordinary},
			{Name: "GREINER", Position: 10, Price: 180, BaseRent: 90, ColorGroup: "pink", Kind: Ordinary},
			{Name: "LOST", Position: 11, Price: 140, BaseRent: 100, Kind: Special},
			{Name: "ELLICOTT", Position: 12, Price: 180, BaseRent: 95, ColorGroup: "orange", Kind: Ordinary},
			{Name: "FLINT", Position: 13, Price: 200, BaseRent: 100, ColorGroup: "orange", Kind: Ordinary},
			{Name: "FREE PARKING", Position: 14, Kind: FreeParking},
			{Name: "NSC", Position: 15, Price: 220, BaseRent: 105, ColorGroup: "red", Kind: Ordinary},
			{Name: "DINING RELOAD", Position: 16, Price: 220, BaseRent: 105, Kind: Special},
			{Name: "SILVERMAN", Position: 17, Price: 240, BaseRent: 110, ColorGroup: "red", Kind: Ordinary},
			{Name: "LOCKWOOD", Position: 18, Price: 250, BaseRent: 125, ColorGroup: "yellow", Kind: Ordinary},
			{Name: "SLEE", Position: 19, Price: 250, BaseRent: 130, ColorGroup: "yellow", Kind: Ordinary},
			{Name: "ACADEMIC CENTER", Position: 20, Price: 280, BaseRent: 140, ColorGroup: "yellow", Kind: Ordinary},
			{Name: "GO TO JAIL", Position: 21, Kind: GoToJail},
			{Name: "CAPEN", Position: 22, Price: 300, BaseRent: 150, ColorGroup: "green", Kind: Ordinary},
			{Name: "TALBERT", Position: 23, Price: 300, BaseRent: 150, ColorGroup: "green", Kind: Ordinary},
			{Name: "EMON", Position: 24, Price: 180, BaseRent: 100, Kind: Special},
			{Name: "BALDY", Position: 25, Price: 320, BaseRent: 160, ColorGroup: "blue", Kind: Ordinary},
			{Name: "DAVIS", Position: 26, Price: 350, BaseRent: 175, ColorGroup: "blue", Kind: Ordinary},
			{Name: "COMMONS", Position: 27, Price: 400, BaseRent: 200, ColorGroup: "blue", Kind: Ordinary},
		},
	}
	config.Messages.Welcome = "Welcome to DigiWare Monopoly! Roll to start."
	return config
}

// InitGameStateFromConfig creates a new game state with players seated at GO.
// A nil config uses the built-in board.
func InitGameStateFromConfig(config *BoardConfig, players []PlayerSpec) (*GameState, error) {
	if config == nil {
		config = DefaultBoardConfig()
	}

	board, err := BuildBoard(config)
	if err != nil {
		return nil, err
	}

	state := NewGameState(board)
	state.ConfigName = config.Name
	state.Message = config.Messages.Welcome

	for _, spec := range players {
		if _, err := state.AddPlayer(spec.Name, spec.Token, config.StartingMoney); err != nil {
			return nil, err
		}
	}

	return state, nil
}

// PlayerSpec describes a player to seat at game setup
type PlayerSpec struct {
	Name  string `json:"name"`
	Token string `json:"token,omitempty"`
}

// DefaultPlayerSpecs seats n players named P1..Pn
func DefaultPlayerSpecs(n int) []PlayerSpec {
	if n < 1 {
		n = 1
	}
	if n > MaxPlayers {
		n = MaxPlayers
	}
	specs := make([]PlayerSpec, n)
	for i := range specs {
		specs[i] = PlayerSpec{Name: fmt.Sprintf("P%d", i+1)}
	}
	return specs
}
