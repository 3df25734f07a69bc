package engine

import (
	"encoding/json"
	"fmt"
)

// Board is the fixed-size registry of board spaces, indexed by position
type Board struct {
	spaces [BoardSize]*Property
}

// NewBoard creates an empty board
func NewBoard() *Board {
	return &Board{}
}

// AddProperty places a property at its position. Setup-time errors are fatal to the caller.
func (b *Board) AddProperty(p Property) (*Property, error) {
	if !ValidPosition(p.Position) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPosition, p.Position)
	}
	if !p.Kind.Valid() {
		return nil, fmt.Errorf("board setup: unknown kind %q for %s", p.Kind, p.Name)
	}
	if existing := b.spaces[p.Position]; existing != nil {
		return nil, fmt.Errorf("board setup: position %d already holds %s", p.Position, existing.Name)
	}

	prop := p
	b.spaces[p.Position] = &prop
	return &prop, nil
}

// At returns the property at a position, or nil if the slot is empty or out of range
func (b *Board) At(position int) *Property {
	if !ValidPosition(position) {
		return nil
	}
	return b.spaces[position]
}

// Lookup returns the property at a position and rejects out-of-range positions
func (b *Board) Lookup(position int) (*Property, error) {
	if !ValidPosition(position) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPosition, position)
	}
	return b.spaces[position], nil
}

// Properties returns all placed properties in position order
func (b *Board) Properties() []*Property {
	result := make([]*Property, 0, BoardSize)
	for _, p := range b.spaces {
		if p != nil {
			result = append(result, p)
		}
	}
	return result
}

// Count returns the number of occupied slots
func (b *Board) Count() int {
	n := 0
	for _, p := range b.spaces {
		if p != nil {
			n++
		}
	}
	return n
}

// MarshalJSON encodes the board as its 28 slots; empty slots are null
func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.spaces)
}

// UnmarshalJSON decodes a slot list produced by MarshalJSON
func (b *Board) UnmarshalJSON(data []byte) error {
	var slots []*Property
	if err := json.Unmarshal(data, &slots); err != nil {
		return err
	}
	if len(slots) > BoardSize {
		return fmt.Errorf("board has %d slots, max %d", len(slots), BoardSize)
	}
	*b = Board{}
	for _, p := range slots {
		if p == nil {
			continue
		}
		if _, err := b.AddProperty(*p); err != nil {
			return err
		}
	}
	return nil
}

// ValidPosition reports whether position is on the board
func ValidPosition(position int) bool {
	return position >= 0 && position < BoardSize
}
