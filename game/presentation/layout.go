package presentation

import (
	"fmt"

	"github.com/gouripri/Digiware-Monopoly/game/engine"
)

// Corner positions, clockwise from the bottom-left
const (
	cellsPerSide = 6
	cornerBL     = 0
	cornerBR     = 7
	cornerTR     = 14
	cornerTL     = 21
)

// Rect is a screen rectangle
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Center returns the middle of the rectangle
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Layout describes a square board drawn on screen
type Layout struct {
	Size   int `json:"size"`
	Margin int `json:"margin"`
	Corner int `json:"corner"`
	Cell   int `json:"cell"`
}

// NewLayout derives cell size so four corners and six cells per side fill size
func NewLayout(size, margin, corner int) Layout {
	return Layout{
		Size:   size,
		Margin: margin,
		Corner: corner,
		Cell:   (size - 2*corner) / cellsPerSide,
	}
}

// Rect returns the screen rectangle of a board position
func (l Layout) Rect(position int) (Rect, error) {
	m, c, t, bs := l.Margin, l.Corner, l.Cell, l.Size
	bottom := m + bs - c
	right := m + bs - c

	switch {
	case position == cornerBL:
		return Rect{m, bottom, c, c}, nil
	case position > cornerBL && position < cornerBR:
		return Rect{m + c + (position-1)*t, bottom, t, c}, nil
	case position == cornerBR:
		return Rect{right, bottom, c, c}, nil
	case position > cornerBR && position < cornerTR:
		return Rect{right, bottom - (position-cornerBR)*t, c, t}, nil
	case position == cornerTR:
		return Rect{right, m, c, c}, nil
	case position > cornerTR && position < cornerTL:
		return Rect{right - (position-cornerTR)*t, m, t, c}, nil
	case position == cornerTL:
		return Rect{m, m, c, c}, nil
	case position > cornerTL && position < engine.BoardSize:
		return Rect{m, m + c + (position-cornerTL-1)*t, c, t}, nil
	}
	return Rect{}, fmt.Errorf("%w: %d", engine.ErrInvalidPosition, position)
}
