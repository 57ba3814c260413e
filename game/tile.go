package game

import (
	"fmt"
	"strconv"
)

// Tile is the fixed kind of a cell: Empty, Mine, or a neighbor count of 1..8
// surrounding mines.
type Tile int8

const (
	TileMine  Tile = -1
	TileEmpty Tile = 0
)

// NeighborTile returns the tile for a cell with n surrounding mines. A count
// of 0 is Empty, never a neighbor tile.
func NeighborTile(n uint8) Tile {
	if n > 8 {
		panic(fmt.Sprintf("a cell cannot have %d neighboring mines", n))
	}
	return Tile(n)
}

func (tile Tile) IsMine() bool {
	return tile == TileMine
}

func (tile Tile) IsEmpty() bool {
	return tile == TileEmpty
}

func (tile Tile) IsNeighbor() bool {
	return tile >= 1 && tile <= 8
}

// Count is the number of surrounding mines; 0 for Empty and Mine tiles
func (tile Tile) Count() uint8 {
	if tile.IsNeighbor() {
		return uint8(tile)
	}
	return 0
}

func (tile Tile) String() string {
	switch {
	case tile.IsMine():
		return "*"
	case tile.IsNeighbor():
		return strconv.Itoa(int(tile))
	default:
		return " "
	}
}
