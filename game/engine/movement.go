package engine

import (
	"fmt"
	"math/rand/v2"
)

// RollDice returns the sum of count uniform draws over [1, sides].
// A nil source falls back to the global generator.
func RollDice(rng *rand.Rand, sides, count int) int {
	if sides < 1 {
		sides = DefaultDieSides
	}
	if count < 1 {
		count = DefaultDiceCount
	}

	total := 0
	for i := 0; i < count; i++ {
		if rng != nil {
			total += rng.IntN(sides) + 1
		} else {
			total += rand.IntN(sides) + 1
		}
	}
	return total
}

// MovePlayer advances a player by roll spaces with wraparound.
// The GO bonus is evaluated on the raw landing square, before the Go To Jail redirect.
func (gs *GameState) MovePlayer(player *Player, roll int) MoveResult {
	raw := player.Position + roll
	newPosition := raw % BoardSize

	result := MoveResult{
		PassedGo:   raw >= BoardSize,
		LandedOnGo: newPosition == GoPosition,
		WentToJail: newPosition == GoToJailPosition,
	}

	if result.WentToJail {
		newPosition = JailPosition
		player.InJail = true
		player.JailTurnSkipped = false
	}

	if result.PassedGo || result.LandedOnGo {
		player.Money += GoBonus
	}

	player.Position = newPosition
	result.NewPosition = newPosition
	return result
}

// ShouldSkipTurn implements the one-skip jail latch: the first call while jailed consumes
// the turn, the second releases the player who may then roll.
func (gs *GameState) ShouldSkipTurn(player *Player) SkipResult {
	switch {
	case player.InJail && !player.JailTurnSkipped:
		player.JailTurnSkipped = true
		return SkipResult{
			Skip:    true,
			Reason:  SkipReasonInJail,
			Message: fmt.Sprintf("%s is in jail and must skip this turn", player.Name),
		}
	case player.InJail && player.JailTurnSkipped:
		player.InJail = false
		player.JailTurnSkipped = false
		return SkipResult{
			Reason:  SkipReasonReleased,
			Message: fmt.Sprintf("%s is released from jail", player.Name),
		}
	}
	return SkipResult{}
}

// HandleLanding resolves the space at position. Rent owed to another player is
// settled immediately; an unowned purchasable space is only reported as buyable.
func (gs *GameState) HandleLanding(player *Player, position int) (Landing, error) {
	property, err := gs.Board.Lookup(position)
	if err != nil {
		return Landing{Action: LandNothing, Message: err.Error()}, err
	}
	if property == nil {
		return Landing{Action: LandNothing, Message: "No property at this position"}, nil
	}

	switch property.Kind {
	case Special:
		return Landing{
			Action:   LandSpecial,
			Property: property,
			Message:  fmt.Sprintf("Landed on %s", property.Name),
		}, nil

	case JailVisit, FreeParking, GoToJail:
		return Landing{
			Action:   LandNothing,
			Property: property,
			Message:  fmt.Sprintf("Landed on %s", property.Name),
		}, nil

	case Ordinary, Utility, Railroad:
		owner := gs.OwnerOf(property)
		switch {
		case owner == nil:
			return Landing{
				Action:   LandBuy,
				Property: property,
				Message:  fmt.Sprintf("%s is available to buy for $%d", property.Name, property.Price),
			}, nil
		case owner == player:
			return Landing{
				Action:   LandNothing,
				Property: property,
				Message:  fmt.Sprintf("You own %s", property.Name),
			}, nil
		default:
			rent := gs.PayRent(player, property)
			return Landing{
				Action:   LandRent,
				Property: property,
				Rent:     &rent,
				Message:  rent.Message,
			}, nil
		}
	}

	return Landing{Action: LandNothing, Message: "Unknown state"}, nil
}

// RollAndMove rolls (unless a roll is supplied) and moves the player
func (gs *GameState) RollAndMove(rng *rand.Rand, player *Player, roll int) (int, MoveResult) {
	if roll <= 0 {
		roll = RollDice(rng, DefaultDieSides, DefaultDiceCount)
	}
	return roll, gs.MovePlayer(player, roll)
}
