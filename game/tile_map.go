package game

import (
	"fmt"
	"iter"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/they4kman/minefield/util/collections"
)

// TileMap is the static layout of a game: which cells are mines, and how many
// mines surround every other cell. It is built once with EmptyTileMap and
// PlaceMines and never changes afterwards.
type TileMap struct {
	width, height uint16
	mineCount     uint16
	tiles         [][]Tile // indexed [y][x]

	minesPlaced bool
}

// EmptyTileMap creates a width x height map without any mines
func EmptyTileMap(width, height uint16) (*TileMap, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrEmptyGrid, width, height)
	}

	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
	}

	return &TileMap{
		width:  width,
		height: height,
		tiles:  tiles,
	}, nil
}

// GenerateTileMap creates a map and places mines on it in one go
func GenerateTileMap(rng *rand.Rand, width, height, mineCount uint16, avoid ...Coordinates) (*TileMap, error) {
	tileMap, err := EmptyTileMap(width, height)
	if err != nil {
		return nil, err
	}
	if err := tileMap.PlaceMines(rng, mineCount, avoid...); err != nil {
		return nil, err
	}
	return tileMap, nil
}

// PlaceMines scatters count mines uniformly over the map, then computes the
// neighbor count of every other cell.
//
// Cells listed in avoid are only mined when the rest of the map cannot hold
// all mines, and the first of them is never mined.
func (tileMap *TileMap) PlaceMines(rng *rand.Rand, count uint16, avoid ...Coordinates) error {
	if tileMap.minesPlaced {
		return ErrMinesPlaced
	}
	if int(count) >= tileMap.NumCells() {
		return fmt.Errorf("%w: %d mines on a %dx%d grid", ErrTooManyMines, count, tileMap.width, tileMap.height)
	}

	avoided := make(collections.Set[Coordinates])
	for _, coordinates := range avoid {
		if tileMap.InBounds(coordinates) {
			avoided.Add(coordinates)
		}
	}

	// Store cell coordinates, to shuffle later and fill mines
	candidates := make([]Coordinates, 0, tileMap.NumCells())
	fallback := make([]Coordinates, 0, len(avoided))
	for coordinates := range tileMap.All() {
		if avoided.Contains(coordinates) {
			if coordinates != avoid[0] {
				fallback = append(fallback, coordinates)
			}
			continue
		}
		candidates = append(candidates, coordinates)
	}

	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) < int(count) {
		rng.Shuffle(len(fallback), func(i, j int) {
			fallback[i], fallback[j] = fallback[j], fallback[i]
		})
		candidates = append(candidates, fallback...)
	}

	tileMap.fillMines(candidates[:count])
	return nil
}

func (tileMap *TileMap) fillMines(mines []Coordinates) {
	for _, coordinates := range mines {
		tileMap.tiles[coordinates.Y][coordinates.X] = TileMine
	}

	for _, coordinates := range mines {
		for neighbor := range tileMap.NeighborsAt(coordinates) {
			if tile := &tileMap.tiles[neighbor.Y][neighbor.X]; !tile.IsMine() {
				*tile++
			}
		}
	}

	tileMap.mineCount = uint16(len(mines))
	tileMap.minesPlaced = true
}

func (tileMap *TileMap) Width() uint16 {
	return tileMap.width
}

func (tileMap *TileMap) Height() uint16 {
	return tileMap.height
}

func (tileMap *TileMap) MineCount() uint16 {
	return tileMap.mineCount
}

func (tileMap *TileMap) NumCells() int {
	return int(tileMap.width) * int(tileMap.height)
}

func (tileMap *TileMap) InBounds(coordinates Coordinates) bool {
	return coordinates.X < tileMap.width && coordinates.Y < tileMap.height
}

// At returns the tile at the given coordinates, or false if they lie outside
// the map
func (tileMap *TileMap) At(coordinates Coordinates) (Tile, bool) {
	if !tileMap.InBounds(coordinates) {
		return TileEmpty, false
	}
	return tileMap.tiles[coordinates.Y][coordinates.X], true
}

// IsMineAt is false for every coordinate outside the map
func (tileMap *TileMap) IsMineAt(coordinates Coordinates) bool {
	tile, ok := tileMap.At(coordinates)
	return ok && tile.IsMine()
}

// NeighborCountAt counts the mines surrounding the given coordinates. A mine
// has no neighbor count; 0 is returned for it.
func (tileMap *TileMap) NeighborCountAt(coordinates Coordinates) uint8 {
	if tileMap.IsMineAt(coordinates) {
		return 0
	}

	count := uint8(0)
	for neighbor := range tileMap.SafeSquareAt(coordinates) {
		if tileMap.IsMineAt(neighbor) {
			count++
		}
	}
	return count
}

// SafeSquareAt yields the 8 coordinates surrounding the given one, skipping
// those that cannot be represented. The results are not checked against the
// map size.
func (tileMap *TileMap) SafeSquareAt(coordinates Coordinates) iter.Seq[Coordinates] {
	return func(yield func(Coordinates) bool) {
		for _, offset := range squareOffsets {
			neighbor, ok := coordinates.Offset(offset[0], offset[1])
			if !ok {
				continue
			}
			if !yield(neighbor) {
				return
			}
		}
	}
}

// NeighborsAt yields the up to 8 in-bounds coordinates surrounding the given one
func (tileMap *TileMap) NeighborsAt(coordinates Coordinates) iter.Seq[Coordinates] {
	return func(yield func(Coordinates) bool) {
		for neighbor := range tileMap.SafeSquareAt(coordinates) {
			if tileMap.InBounds(neighbor) && !yield(neighbor) {
				return
			}
		}
	}
}

// All yields every cell of the map in row-major order
func (tileMap *TileMap) All() iter.Seq2[Coordinates, Tile] {
	return func(yield func(Coordinates, Tile) bool) {
		for y, row := range tileMap.tiles {
			for x, tile := range row {
				if !yield(Coordinates{X: uint16(x), Y: uint16(y)}, tile) {
					return
				}
			}
		}
	}
}

func (tileMap *TileMap) cellID(coordinates Coordinates) CellID {
	return CellID(int(coordinates.Y)*int(tileMap.width) + int(coordinates.X))
}

// String renders the map for debugging, row y=0 first: mines as *, neighbor
// counts as digits, and empty cells as blanks.
func (tileMap *TileMap) String() string {
	var out strings.Builder
	fmt.Fprintf(&out, "Map (%dx%d) with %d mines:\n", tileMap.width, tileMap.height, tileMap.mineCount)

	line := strings.Repeat("-", int(tileMap.width)+2)
	out.WriteString(line)
	out.WriteByte('\n')

	for _, row := range tileMap.tiles {
		out.WriteByte('|')
		for _, tile := range row {
			out.WriteString(tile.String())
		}
		out.WriteString("|\n")
	}

	out.WriteString(line)
	return out.String()
}

// ParseTileMap builds a map from a textual layout, one line per row starting
// with y=0. A '*' is a mine, any other character a safe cell; neighbor counts
// are computed from the mines.
func ParseTileMap(layout string) (*TileMap, error) {
	layout = strings.Trim(strings.ReplaceAll(layout, "\r\n", "\n"), "\n")
	if layout == "" {
		return nil, ErrEmptyGrid
	}

	rows := strings.Split(layout, "\n")
	width := len([]rune(rows[0]))
	if width > math.MaxUint16 || len(rows) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %dx%d exceeds the largest grid", ErrInvalidLayout, width, len(rows))
	}

	tileMap, err := EmptyTileMap(uint16(width), uint16(len(rows)))
	if err != nil {
		return nil, err
	}

	var mines []Coordinates
	for y, row := range rows {
		cells := []rune(row)
		if len(cells) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidLayout, y, len(cells), width)
		}
		for x, c := range cells {
			if c == '*' {
				mines = append(mines, Coordinates{X: uint16(x), Y: uint16(y)})
			}
		}
	}

	if len(mines) >= tileMap.NumCells() {
		return nil, fmt.Errorf("%w: %d mines on a %dx%d grid", ErrTooManyMines, len(mines), width, len(rows))
	}

	tileMap.fillMines(mines)
	return tileMap, nil
}
