package engine

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestBoardAddProperty(t *testing.T) {
	board := NewBoard()

	if _, err := board.AddProperty(Property{Name: "A", Position: 3, Kind: Ordinary}); err != nil {
		t.Fatalf("AddProperty failed: %v", err)
	}
	if _, err := board.AddProperty(Property{Name: "B", Position: 3, Kind: Ordinary}); err == nil {
		t.Error("Expected occupied slot error")
	}
	if _, err := board.AddProperty(Property{Name: "C", Position: 28, Kind: Ordinary}); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("Expected ErrInvalidPosition, got %v", err)
	}
	if _, err := board.AddProperty(Property{Name: "D", Position: 4, Kind: "casino"}); err == nil {
		t.Error("Expected unknown kind error")
	}
	if board.Count() != 1 {
		t.Errorf("Expected 1 property, got %d", board.Count())
	}
}

func TestBoardLookup(t *testing.T) {
	board := NewBoard()
	board.AddProperty(Property{Name: "A", Position: 0, Kind: Special})

	if p, err := board.Lookup(0); err != nil || p == nil || p.Name != "A" {
		t.Errorf("Expected A at 0, got %v, %v", p, err)
	}
	if p, err := board.Lookup(1); err != nil || p != nil {
		t.Errorf("Expected empty slot, got %v, %v", p, err)
	}
	if _, err := board.Lookup(-1); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("Expected ErrInvalidPosition, got %v", err)
	}
	if board.At(99) != nil {
		t.Error("Expected nil for out-of-range At")
	}
}

func TestBoardJSON(t *testing.T) {
	board, err := BuildBoard(DefaultBoardConfig())
	if err != nil {
		t.Fatalf("BuildBoard failed: %v", err)
	}
	data, err := json.Marshal(board)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded Board
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Count() != BoardSize || decoded.At(27).Name != "COMMONS" {
		t.Errorf("Board did not survive JSON: %d spaces", decoded.Count())
	}
}

func TestKindPurchasable(t *testing.T) {
	for _, k := range Kinds {
		want := k == Ordinary || k == Utility || k == Railroad
		if k.Purchasable() != want {
			t.Errorf("%s: expected purchasable %v", k, want)
		}
	}
	if Kind("bogus").Valid() {
		t.Error("Expected bogus kind to be invalid")
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(25, 3); d != 6 {
		t.Errorf("Expected 6, got %d", d)
	}
	if d := Distance(3, 3); d != 0 {
		t.Errorf("Expected 0, got %d", d)
	}
}
