package random

import (
	"math/rand/v2"

	"github.com/they4kman/minefield/game"
)

// Director clicks covered cells in a random order fixed at Init
type Director struct {
	board *game.Board
	cells []game.Coordinates
}

func (director *Director) Init(board *game.Board, rng *rand.Rand) {
	director.board = board
	director.cells = make([]game.Coordinates, 0, board.TileMap().NumCells())

	for coordinates := range board.TileMap().All() {
		director.cells = append(director.cells, coordinates)
	}

	rng.Shuffle(len(director.cells), func(i, j int) {
		director.cells[i], director.cells[j] = director.cells[j], director.cells[i]
	})
}

func (director *Director) Act() []game.CellAction {
	if director.board == nil {
		return nil
	}

	for _, coordinates := range director.cells {
		if director.board.StateAt(coordinates) == game.Unrevealed {
			return []game.CellAction{coordinates.Click()}
		}
	}
	return nil
}
