package engine

import "fmt"

// BuyProperty debits the price and transfers ownership to player.
// It fails with ErrNotAvailable or ErrInsufficientFunds and leaves state untouched on failure.
func (gs *GameState) BuyProperty(player *Player, property *Property) (Transaction, error) {
	if gs.PlayerIndex(player) < 0 {
		return Transaction{Message: ErrUnknownPlayer.Error()}, ErrUnknownPlayer
	}
	if !gs.IsAvailableToBuy(property) {
		return Transaction{Message: "Property is not available to buy"}, ErrNotAvailable
	}
	if player.Money < property.Price {
		msg := fmt.Sprintf("Insufficient funds. Need $%d, have $%d", property.Price, player.Money)
		return Transaction{Message: msg}, fmt.Errorf("%w: need $%d, have $%d", ErrInsufficientFunds, property.Price, player.Money)
	}

	player.Money -= property.Price
	gs.setOwner(property, player)

	return Transaction{
		Success: true,
		Amount:  property.Price,
		Message: fmt.Sprintf("%s bought %s for $%d", player.Name, property.Name, property.Price),
	}, nil
}

// RentFor returns the rent owed on a property; unowned properties owe nothing
func (gs *GameState) RentFor(property *Property) int {
	if !gs.IsOwned(property) {
		return 0
	}
	return property.BaseRent
}

// PayRent moves rent from payer to the property's owner. A payer who cannot cover the
// rent hands over the full balance, ends at exactly 0 and the result is flagged bankrupt.
func (gs *GameState) PayRent(payer *Player, property *Property) Transaction {
	owner := gs.OwnerOf(property)
	if owner == nil || owner == payer {
		return Transaction{Message: "No rent to pay"}
	}

	rent := gs.RentFor(property)
	if payer.Money < rent {
		paid := payer.Money
		payer.Money = 0
		owner.Money += paid
		return Transaction{
			Success:  true,
			Amount:   paid,
			Bankrupt: true,
			Message:  fmt.Sprintf("%s paid $%d rent to %s (bankrupt!)", payer.Name, paid, owner.Name),
		}
	}

	payer.Money -= rent
	owner.Money += rent
	return Transaction{
		Success: true,
		Amount:  rent,
		Message: fmt.Sprintf("%s paid $%d rent to %s", payer.Name, rent, owner.Name),
	}
}
