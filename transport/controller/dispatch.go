package controller

// Accepts applies the dispatch policy. Bare actions come from a single controller and
// are always accepted; addressed actions only when they name the current player (1-indexed).
func Accepts(msg Message, currentPlayer int) bool {
	if !msg.HasAction {
		return false
	}
	switch msg.Form {
	case FormBare:
		return true
	case FormAddressed:
		return msg.Player == currentPlayer
	}
	return false
}

// State tracks what the game is waiting for, so legacy encoder input can be mapped to an intent
type State string

const (
	StateWaitingForRoll   State = "waiting_for_roll"
	StateLandedOnProperty State = "landed_on_property"
	StatePlayerTurn       State = "player_turn"
	StateMenuNavigation   State = "menu_navigation"
)

// Intent is what a legacy encoder input means in a given State
type Intent string

const (
	IntentNone       Intent = ""
	IntentSelectBuy  Intent = "select_buy"
	IntentSelectPass Intent = "select_pass"
	IntentConfirm    Intent = "confirm"
	IntentRollDice   Intent = "roll_dice"
	IntentSelectNext Intent = "select_next"
	IntentSelectPrev Intent = "select_prev"
	IntentNextAction Intent = "next_action"
	IntentPrevAction Intent = "prev_action"
)

// IntentFor maps a legacy input to an intent for the given state
func IntentFor(state State, in Legacy) Intent {
	switch state {
	case StateLandedOnProperty:
		return pick(in, IntentSelectBuy, IntentSelectPass, IntentConfirm)
	case StateWaitingForRoll:
		if in.Button || in.Direction != 0 {
			return IntentRollDice
		}
	case StateMenuNavigation:
		return pick(in, IntentSelectNext, IntentSelectPrev, IntentConfirm)
	case StatePlayerTurn:
		return pick(in, IntentNextAction, IntentPrevAction, IntentConfirm)
	}
	return IntentNone
}

func pick(in Legacy, cw, ccw, button Intent) Intent {
	switch {
	case in.Direction == 1:
		return cw
	case in.Direction == -1:
		return ccw
	case in.Button:
		return button
	}
	return IntentNone
}
