package engine

// CountKind counts the spaces of a specific kind on the board
func CountKind(board *Board, kind Kind) int {
	count := 0
	for _, p := range board.Properties() {
		if p.Kind == kind {
			count++
		}
	}
	return count
}

// CountPurchasable counts the spaces that can ever be bought
func CountPurchasable(board *Board) int {
	count := 0
	for _, p := range board.Properties() {
		if p.Kind.Purchasable() {
			count++
		}
	}
	return count
}

// Distance returns how many spaces forward it takes to get from one position to another
func Distance(from, to int) int {
	d := (to - from) % BoardSize
	if d < 0 {
		d += BoardSize
	}
	return d
}

// NetWorth is cash plus the purchase price of every owned property
func (gs *GameState) NetWorth(player *Player) int {
	if player == nil {
		return 0
	}
	worth := player.Money
	for _, p := range gs.PropertiesOf(player) {
		worth += p.Price
	}
	return worth
}

// Leader returns the player with the highest net worth; ties go to the earlier seat
func (gs *GameState) Leader() *Player {
	var leader *Player
	best := -1
	for _, p := range gs.Players {
		if w := gs.NetWorth(p); w > best {
			best = w
			leader = p
		}
	}
	return leader
}

// Bankrupt reports the players whose balance has reached zero
func (gs *GameState) Bankrupt() []*Player {
	var out []*Player
	for _, p := range gs.Players {
		if p.Money <= 0 {
			out = append(out, p)
		}
	}
	return out
}
