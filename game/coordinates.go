package game

import (
	"cmp"
	"fmt"
	"math"
)

// Coordinates identify a single cell of a TileMap. (0, 0) is the first cell
// of the first row.
type Coordinates struct {
	X, Y uint16
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Compare orders coordinates row-major: by Y, then by X
func (c Coordinates) Compare(other Coordinates) int {
	if c.Y != other.Y {
		return cmp.Compare(c.Y, other.Y)
	}
	return cmp.Compare(c.X, other.X)
}

// Add sums both axes, saturating at math.MaxUint16 instead of wrapping
func (c Coordinates) Add(other Coordinates) Coordinates {
	x, _ := saturatingAdd(c.X, int(other.X))
	y, _ := saturatingAdd(c.Y, int(other.Y))
	return Coordinates{X: x, Y: y}
}

// Sub subtracts both axes, saturating at 0
func (c Coordinates) Sub(other Coordinates) Coordinates {
	x, _ := saturatingAdd(c.X, -int(other.X))
	y, _ := saturatingAdd(c.Y, -int(other.Y))
	return Coordinates{X: x, Y: y}
}

// Offset moves the coordinates by a signed delta. Each axis saturates at the
// bounds of uint16; ok reports whether the result is exact, i.e. no axis had
// to be clamped.
func (c Coordinates) Offset(dx, dy int8) (moved Coordinates, ok bool) {
	x, xOk := saturatingAdd(c.X, int(dx))
	y, yOk := saturatingAdd(c.Y, int(dy))
	return Coordinates{X: x, Y: y}, xOk && yOk
}

func saturatingAdd(value uint16, delta int) (uint16, bool) {
	sum := int(value) + delta
	switch {
	case sum < 0:
		return 0, false
	case sum > math.MaxUint16:
		return math.MaxUint16, false
	default:
		return uint16(sum), true
	}
}

// Delta coordinates for all 8 square neighbors
//
//	*--------*-------*-------*
//	| -1, -1 | 0, -1 | 1, -1 |
//	|--------|-------|-------|
//	| -1, 0  | cell  | 1, 0  |
//	|--------|-------|-------|
//	| -1, 1  | 0, 1  | 1, 1  |
//	*--------*-------*-------*
var squareOffsets = [8][2]int8{
	{-1, -1},
	{0, -1},
	{1, -1},
	{-1, 0},
	{1, 0},
	{-1, 1},
	{0, 1},
	{1, 1},
}
