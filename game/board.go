package game

import (
	"github.com/sirupsen/logrus"
	"github.com/they4kman/minefield/util/collections"
)

// CellID is an opaque handle to a covered cell, handed back to the caller when
// the cell changes so it can find whatever it uses to present that cell.
type CellID uint32

type RevealedCell struct {
	Coordinates
	Handle CellID
	Tile   Tile
}

// RevealResult describes everything a single reveal request changed
type RevealResult struct {
	// Cells uncovered by the request, in the order they were uncovered
	Revealed []RevealedCell
	// The targeted cell was flagged; the flag was removed and nothing revealed
	Unmarked bool
	// A mine was uncovered, at Exploded, and the game is lost
	MineHit  bool
	Exploded Coordinates
	// The board became completed during this request
	Completed bool
}

func (result RevealResult) Changed() bool {
	return len(result.Revealed) > 0 || result.Unmarked
}

type MarkResult struct {
	Coordinates
	Handle CellID
	Marked bool
}

// Board is the state of one game played over a TileMap: which cells are still
// covered, and which of those the player flagged.
//
// A cell is revealed iff it is absent from covered. marked is always a subset
// of covered.
type Board struct {
	tileMap *TileMap

	covered map[Coordinates]CellID
	marked  collections.Set[Coordinates]

	state    BoardState
	exploded Coordinates
}

func NewBoard(tileMap *TileMap) *Board {
	board := &Board{
		tileMap: tileMap,
		covered: make(map[Coordinates]CellID, tileMap.NumCells()),
		marked:  make(collections.Set[Coordinates]),
		state:   Ongoing,
	}

	for coordinates := range tileMap.All() {
		board.covered[coordinates] = tileMap.cellID(coordinates)
	}

	return board
}

func (board *Board) TileMap() *TileMap {
	return board.tileMap
}

func (board *Board) Width() uint16 {
	return board.tileMap.width
}

func (board *Board) Height() uint16 {
	return board.tileMap.height
}

func (board *Board) MineCount() uint16 {
	return board.tileMap.mineCount
}

func (board *Board) State() BoardState {
	return board.state
}

func (board *Board) canPlay() bool {
	return board.state == Ongoing
}

func (board *Board) CoveredCount() int {
	return len(board.covered)
}

func (board *Board) MarkedCount() int {
	return len(board.marked)
}

// RemainingMines is the number of mines not yet accounted for by a flag. It
// goes negative when the player places more flags than there are mines.
func (board *Board) RemainingMines() int {
	return int(board.tileMap.mineCount) - len(board.marked)
}

// IsCompleted holds once every cell that is not a mine has been revealed
func (board *Board) IsCompleted() bool {
	return len(board.covered) == int(board.tileMap.mineCount)
}

func (board *Board) IsCovered(coordinates Coordinates) bool {
	_, covered := board.covered[coordinates]
	return covered
}

func (board *Board) IsMarked(coordinates Coordinates) bool {
	return board.marked.Contains(coordinates)
}

func (board *Board) IsRevealed(coordinates Coordinates) bool {
	return board.tileMap.InBounds(coordinates) && !board.IsCovered(coordinates)
}

// CoveredCell returns the handle of a covered cell
func (board *Board) CoveredCell(coordinates Coordinates) (CellID, bool) {
	handle, covered := board.covered[coordinates]
	return handle, covered
}

// UncoverTile moves a single cell from covered to revealed, dropping any flag
// on it. It does not cascade, nor inspect what was under the cell.
func (board *Board) UncoverTile(coordinates Coordinates) (CellID, bool) {
	handle, covered := board.covered[coordinates]
	if !covered {
		return 0, false
	}

	delete(board.covered, coordinates)
	board.marked.Remove(coordinates)
	return handle, true
}

// CoveredNeighbors lists the surrounding cells which are covered and not
// flagged, i.e. those a cascade may reveal
func (board *Board) CoveredNeighbors(coordinates Coordinates) []Coordinates {
	neighbors := make([]Coordinates, 0, len(squareOffsets))
	for neighbor := range board.tileMap.SafeSquareAt(coordinates) {
		if board.IsCovered(neighbor) && !board.IsMarked(neighbor) {
			neighbors = append(neighbors, neighbor)
		}
	}
	return neighbors
}

// ToggleFlag flips the flag on a covered cell. It returns false when there is
// nothing to flag: the cell is revealed, off the board, or the game is over.
func (board *Board) ToggleFlag(coordinates Coordinates) (MarkResult, bool) {
	if !board.canPlay() {
		return MarkResult{}, false
	}

	handle, covered := board.covered[coordinates]
	if !covered {
		Log.WithField("coordinates", coordinates).Debug("Tried to mark an uncovered tile")
		return MarkResult{}, false
	}

	marked := !board.marked.Contains(coordinates)
	if marked {
		board.marked.Add(coordinates)
	} else {
		board.marked.Remove(coordinates)
	}

	Log.WithFields(logrus.Fields{
		"coordinates": coordinates,
		"marked":      marked,
	}).Debug("Toggled tile mark")

	return MarkResult{Coordinates: coordinates, Handle: handle, Marked: marked}, true
}

// Reveal uncovers the cell at the given coordinates. Revealing an empty cell
// cascades through its covered, unflagged neighbors, stopping at numbered
// cells.
//
// A flagged cell is protected: revealing it only removes the flag.
func (board *Board) Reveal(coordinates Coordinates) RevealResult {
	var result RevealResult
	if !board.canPlay() {
		return result
	}

	if board.marked.Contains(coordinates) {
		board.marked.Remove(coordinates)
		result.Unmarked = true

		Log.WithField("coordinates", coordinates).Debug("Unmarked tile instead of uncovering it")
		return result
	}

	if !board.IsCovered(coordinates) {
		Log.WithField("coordinates", coordinates).Debug("Tried to uncover an already uncovered tile")
		return result
	}

	board.cascade(coordinates, &result)
	return result
}

// Chord reveals every covered, unflagged neighbor of a revealed numbered cell,
// provided the player flagged exactly as many neighbors as the number shows
func (board *Board) Chord(coordinates Coordinates) RevealResult {
	var result RevealResult
	if !board.canPlay() || !board.IsRevealed(coordinates) {
		return result
	}

	tile, _ := board.tileMap.At(coordinates)
	if !tile.IsNeighbor() {
		return result
	}

	numFlaggedNeighbors := uint8(0)
	for neighbor := range board.tileMap.NeighborsAt(coordinates) {
		if board.marked.Contains(neighbor) {
			numFlaggedNeighbors++
		}
	}
	if numFlaggedNeighbors != tile.Count() {
		return result
	}

	for _, neighbor := range board.CoveredNeighbors(coordinates) {
		if !board.canPlay() {
			break
		}
		board.cascade(neighbor, &result)
	}
	return result
}

func (board *Board) cascade(start Coordinates, result *RevealResult) {
	flood(
		start,
		func(coordinates Coordinates) bool {
			handle, uncovered := board.UncoverTile(coordinates)
			if !uncovered {
				return false
			}

			tile, _ := board.tileMap.At(coordinates)
			result.Revealed = append(result.Revealed, RevealedCell{
				Coordinates: coordinates,
				Handle:      handle,
				Tile:        tile,
			})

			Log.WithFields(logrus.Fields{
				"coordinates": coordinates,
				"handle":      handle,
			}).Debug("Uncovered tile")

			if tile.IsMine() {
				result.MineHit = true
				result.Exploded = coordinates
				board.lose(coordinates)
				return false
			}

			if board.canPlay() && board.IsCompleted() {
				result.Completed = true
				board.win()
			}

			return tile.IsEmpty()
		},
		board.CoveredNeighbors,
	)
}

func (board *Board) win() {
	board.state = Won
	Log.WithField("mines", board.tileMap.mineCount).Info("Board completed")
}

func (board *Board) lose(exploded Coordinates) {
	board.state = Lost
	board.exploded = exploded
	Log.WithField("coordinates", exploded).Info("Boom!")
}

// StateAt is what the player sees at the given coordinates. Once the game is
// lost, mines and wrongly placed flags are shown as well.
func (board *Board) StateAt(coordinates Coordinates) CellState {
	tile, ok := board.tileMap.At(coordinates)
	if !ok {
		return Unrevealed
	}

	isLost := board.state == Lost

	if board.IsCovered(coordinates) {
		switch {
		case board.IsMarked(coordinates):
			if isLost && !tile.IsMine() {
				return FlagWrong
			}
			return Flag
		case isLost && tile.IsMine():
			return MineUnrevealed
		default:
			return Unrevealed
		}
	}

	if tile.IsMine() {
		if isLost && coordinates == board.exploded {
			return MineLosing
		}
		return Mine
	}

	return CellState(tile.Count())
}
