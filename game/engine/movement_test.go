package engine

import (
	"math/rand/v2"
	"testing"
)

func newTestState(t *testing.T, names ...string) *GameState {
	t.Helper()
	specs := make([]PlayerSpec, len(names))
	for i, n := range names {
		specs[i] = PlayerSpec{Name: n}
	}
	state, err := InitGameStateFromConfig(DefaultBoardConfig(), specs)
	if err != nil {
		t.Fatalf("Failed to init state: %v", err)
	}
	return state
}

func TestMovePlayerWraparound(t *testing.T) {
	for p := 0; p < BoardSize; p++ {
		for r := 1; r <= 6; r++ {
			state := newTestState(t, "P1")
			player := state.Players[0]
			player.Position = p

			result := state.MovePlayer(player, r)

			want := (p + r) % BoardSize
			if want == GoToJailPosition {
				want = JailPosition
			}
			if result.NewPosition != want {
				t.Errorf("pos %d roll %d: expected position %d, got %d", p, r, want, result.NewPosition)
			}
			if result.PassedGo != (p+r >= BoardSize) {
				t.Errorf("pos %d roll %d: expected passedGo %v, got %v", p, r, p+r >= BoardSize, result.PassedGo)
			}
			if player.Position != result.NewPosition {
				t.Errorf("pos %d roll %d: committed position %d != result %d", p, r, player.Position, result.NewPosition)
			}
		}
	}
}

func TestMovePlayerGoToJail(t *testing.T) {
	tests := []struct {
		name  string
		start int
		roll  int
	}{
		{"from 15", 15, 6},
		{"from 18", 18, 3},
		{"from 20", 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := newTestState(t, "P1")
			player := state.Players[0]
			player.Position = tt.start
			player.JailTurnSkipped = true

			result := state.MovePlayer(player, tt.roll)

			if !result.WentToJail {
				t.Error("Expected WentToJail")
			}
			if player.Position != JailPosition {
				t.Errorf("Expected position %d, got %d", JailPosition, player.Position)
			}
			if !player.InJail {
				t.Error("Expected player to be in jail")
			}
			if player.JailTurnSkipped {
				t.Error("Expected skip latch to be re-armed")
			}
			if player.Money != StartingMoney {
				t.Errorf("Expected no GO bonus, money %d", player.Money)
			}
		})
	}
}

func TestMovePlayerPassesGo(t *testing.T) {
	state := newTestState(t, "P1")
	player := state.Players[0]
	player.Position = 25

	result := state.MovePlayer(player, 6)

	if !result.PassedGo {
		t.Error("Expected PassedGo")
	}
	if result.NewPosition != 3 {
		t.Errorf("Expected position 3, got %d", result.NewPosition)
	}
	if result.WentToJail {
		t.Error("Did not expect jail")
	}
	if player.Money != StartingMoney+GoBonus {
		t.Errorf("Expected money %d, got %d", StartingMoney+GoBonus, player.Money)
	}
}

func TestMovePlayerLandsOnGo(t *testing.T) {
	state := newTestState(t, "P1")
	player := state.Players[0]
	player.Position = 24

	result := state.MovePlayer(player, 4)

	if !result.LandedOnGo || !result.PassedGo {
		t.Errorf("Expected landed and passed GO, got %+v", result)
	}
	if player.Money != StartingMoney+GoBonus {
		t.Errorf("Bonus must be paid once, money %d", player.Money)
	}
}

func TestShouldSkipTurnLatch(t *testing.T) {
	state := newTestState(t, "P1")
	player := state.Players[0]
	player.InJail = true

	first := state.ShouldSkipTurn(player)
	if !first.Skip || first.Reason != SkipReasonInJail {
		t.Fatalf("Expected skip in_jail, got %+v", first)
	}

	second := state.ShouldSkipTurn(player)
	if second.Skip || second.Reason != SkipReasonReleased {
		t.Fatalf("Expected release, got %+v", second)
	}
	if player.InJail || player.JailTurnSkipped {
		t.Error("Expected player to be free after release")
	}

	third := state.ShouldSkipTurn(player)
	if third.Skip || third.Reason != "" {
		t.Errorf("Expected no skip and no reason, got %+v", third)
	}
}

func TestHandleLanding(t *testing.T) {
	state := newTestState(t, "P1", "P2")
	p1, p2 := state.Players[0], state.Players[1]
	if _, err := state.BuyProperty(p2, state.Board.At(8)); err != nil {
		t.Fatalf("setup buy failed: %v", err)
	}
	if _, err := state.BuyProperty(p1, state.Board.At(9)); err != nil {
		t.Fatalf("setup buy failed: %v", err)
	}

	tests := []struct {
		name     string
		position int
		want     LandingAction
	}{
		{"special", 3, LandSpecial},
		{"unowned", 5, LandBuy},
		{"jail visit", JailPosition, LandNothing},
		{"free parking", 14, LandNothing},
		{"own property", 9, LandNothing},
		{"other's property", 8, LandRent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			landing, err := state.HandleLanding(p1, tt.position)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if landing.Action != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, landing.Action)
			}
		})
	}
}

func TestHandleLandingRentIsImmediate(t *testing.T) {
	state := newTestState(t, "P1", "P2")
	p1, p2 := state.Players[0], state.Players[1]
	property := state.Board.At(8)
	if _, err := state.BuyProperty(p2, property); err != nil {
		t.Fatalf("setup buy failed: %v", err)
	}
	before := p2.Money

	landing, _ := state.HandleLanding(p1, 8)

	if landing.Rent == nil || landing.Rent.Amount != property.BaseRent {
		t.Fatalf("Expected rent %d, got %+v", property.BaseRent, landing.Rent)
	}
	if p1.Money != StartingMoney-property.BaseRent {
		t.Errorf("Expected payer money %d, got %d", StartingMoney-property.BaseRent, p1.Money)
	}
	if p2.Money != before+property.BaseRent {
		t.Errorf("Expected owner money %d, got %d", before+property.BaseRent, p2.Money)
	}
}

func TestHandleLandingInvalidPosition(t *testing.T) {
	state := newTestState(t, "P1")
	_, err := state.HandleLanding(state.Players[0], BoardSize)
	if err == nil {
		t.Fatal("Expected error for out-of-range position")
	}
}

func TestRollDiceRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		r := RollDice(rng, 6, 1)
		if r < 1 || r > 6 {
			t.Fatalf("Roll out of range: %d", r)
		}
	}
	for i := 0; i < 200; i++ {
		r := RollDice(rng, 6, 2)
		if r < 2 || r > 12 {
			t.Fatalf("Two dice out of range: %d", r)
		}
	}
}

func TestRollAndMoveUsesSuppliedRoll(t *testing.T) {
	state := newTestState(t, "P1")
	roll, result := state.RollAndMove(nil, state.Players[0], 4)
	if roll != 4 || result.NewPosition != 4 {
		t.Errorf("Expected roll 4 to position 4, got roll %d position %d", roll, result.NewPosition)
	}
}
