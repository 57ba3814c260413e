package game

import "errors"

var (
	ErrEmptyGrid       = errors.New("grid must be at least 1x1")
	ErrTooManyMines    = errors.New("mine count must be lower than the number of cells")
	ErrMinesPlaced     = errors.New("mines have already been placed")
	ErrInvalidLayout   = errors.New("invalid tile map layout")
	ErrInvalidGameMode = errors.New("invalid game mode")
)
