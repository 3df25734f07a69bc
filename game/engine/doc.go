// Package engine provides the core rules for the DigiWare Monopoly board game.
//
// The engine package implements the game mechanics including:
//   - A fixed 28-space circular board built from a validated table
//   - Purchases, rent settlement and the single ownership map
//   - Dice, wraparound movement, the GO bonus and the one-skip jail latch
//   - A two-phase turn (roll, then buy or pass) with action history
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState holds the players, the board and
// the ownership map explicitly; nothing in this package is global.
// BoardConfig is the board table, loaded from JSON or DefaultBoardConfig.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultBoardConfig(), []engine.PlayerSpec{
//		{Name: "Alice"}, {Name: "Bob"},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameEngine.Apply("ROLL")
//	if result.Landing != nil && result.Landing.Action == engine.LandBuy {
//		gameEngine.Apply("BUY")
//	}
//
// Game Rules:
//
// Players move clockwise by a single six-sided die and collect $200 when
// they pass or land on GO. Landing on GO TO JAIL sends a player to JAIL,
// where they lose exactly one turn. Unowned properties may be bought;
// landing on another player's property pays its base rent at once, and a
// player who cannot cover it hands over everything and is flagged bankrupt.
package engine
