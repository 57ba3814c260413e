package game_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/they4kman/minefield/game"
)

func newBoard(t *testing.T, layout string) *game.Board {
	t.Helper()
	return game.NewBoard(mustParse(t, layout))
}

func revealedCoordinates(result game.RevealResult) []game.Coordinates {
	coordinates := make([]game.Coordinates, len(result.Revealed))
	for i, cell := range result.Revealed {
		coordinates[i] = cell.Coordinates
	}
	return coordinates
}

func TestNewBoard(t *testing.T) {
	board := newBoard(t, `
*..
...`)

	assert.Equal(t, 6, board.CoveredCount())
	assert.Equal(t, 0, board.MarkedCount())
	assert.Equal(t, 1, board.RemainingMines())
	assert.Equal(t, game.Ongoing, board.State())
	assert.False(t, board.IsCompleted())

	handle, ok := board.CoveredCell(c(1, 1))
	assert.True(t, ok)
	assert.Equal(t, game.CellID(4), handle)

	_, ok = board.CoveredCell(c(3, 0))
	assert.False(t, ok)
}

func TestBoard_SingleCell(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	tileMap, err := game.GenerateTileMap(rng, 1, 1, 0)
	require.NoError(t, err)

	tile, _ := tileMap.At(c(0, 0))
	assert.Equal(t, game.TileEmpty, tile)

	board := game.NewBoard(tileMap)
	result := board.Reveal(c(0, 0))

	assert.Equal(t, []game.Coordinates{c(0, 0)}, revealedCoordinates(result))
	assert.True(t, result.Completed)
	assert.False(t, result.MineHit)
	assert.True(t, board.IsCompleted())
	assert.Equal(t, game.Won, board.State())
}

func TestBoard_Reveal_NeighborDoesNotCascade(t *testing.T) {
	board := newBoard(t, `
...
.*.
...`)

	result := board.Reveal(c(0, 0))

	require.Len(t, result.Revealed, 1)
	assert.Equal(t, c(0, 0), result.Revealed[0].Coordinates)
	assert.Equal(t, game.NeighborTile(1), result.Revealed[0].Tile)
	assert.Equal(t, game.CellID(0), result.Revealed[0].Handle)
	assert.False(t, result.Completed)
	assert.Equal(t, 8, board.CoveredCount())
	assert.Equal(t, game.Number1, board.StateAt(c(0, 0)))
}

func TestBoard_Reveal_CascadeStopsAtNumbers(t *testing.T) {
	board := newBoard(t, `
..*..
..*..
..*..`)

	result := board.Reveal(c(0, 0))

	assert.ElementsMatch(t, []game.Coordinates{
		c(0, 0), c(1, 0),
		c(0, 1), c(1, 1),
		c(0, 2), c(1, 2),
	}, revealedCoordinates(result))
	assert.Equal(t, c(0, 0), result.Revealed[0].Coordinates)

	for _, coordinates := range []game.Coordinates{c(2, 0), c(3, 0), c(4, 0), c(3, 1), c(4, 2)} {
		assert.True(t, board.IsCovered(coordinates), "covered %s", coordinates)
	}
	assert.Equal(t, game.Empty, board.StateAt(c(0, 1)))
	assert.Equal(t, game.Number3, board.StateAt(c(1, 1)))
}

func TestBoard_Reveal_CascadeCompletesBoard(t *testing.T) {
	board := newBoard(t, `
*....
.....
.....
....*`)

	result := board.Reveal(c(2, 1))

	assert.Len(t, result.Revealed, 18)
	assert.True(t, result.Completed)
	assert.False(t, result.MineHit)
	assert.Equal(t, 2, board.CoveredCount())
	assert.True(t, board.IsCovered(c(0, 0)))
	assert.True(t, board.IsCovered(c(4, 3)))
	assert.Equal(t, game.Won, board.State())
}

func TestBoard_Reveal_CascadeSkipsMarked(t *testing.T) {
	board := newBoard(t, `
..*..
..*..
..*..`)

	_, ok := board.ToggleFlag(c(0, 2))
	require.True(t, ok)

	result := board.Reveal(c(0, 0))

	assert.Len(t, result.Revealed, 5)
	assert.True(t, board.IsCovered(c(0, 2)))
	assert.True(t, board.IsMarked(c(0, 2)))
}

func TestBoard_Reveal_MarkedCellIsProtected(t *testing.T) {
	board := newBoard(t, `
...
.*.
...`)

	mark, ok := board.ToggleFlag(c(2, 2))
	require.True(t, ok)
	assert.True(t, mark.Marked)
	assert.Equal(t, game.CellID(8), mark.Handle)

	result := board.Reveal(c(2, 2))
	assert.True(t, result.Unmarked)
	assert.Empty(t, result.Revealed)
	assert.True(t, result.Changed())
	assert.True(t, board.IsCovered(c(2, 2)))
	assert.False(t, board.IsMarked(c(2, 2)))

	result = board.Reveal(c(2, 2))
	assert.False(t, result.Unmarked)
	assert.Equal(t, []game.Coordinates{c(2, 2)}, revealedCoordinates(result))
	assert.True(t, board.IsRevealed(c(2, 2)))
}

func TestBoard_ToggleFlag(t *testing.T) {
	board := newBoard(t, `
*..
...`)

	mark, ok := board.ToggleFlag(c(0, 0))
	require.True(t, ok)
	assert.Equal(t, game.MarkResult{Coordinates: c(0, 0), Handle: 0, Marked: true}, mark)
	assert.Equal(t, game.Flag, board.StateAt(c(0, 0)))
	assert.Equal(t, 0, board.RemainingMines())

	_, ok = board.ToggleFlag(c(1, 0))
	require.True(t, ok)
	assert.Equal(t, -1, board.RemainingMines())

	mark, ok = board.ToggleFlag(c(0, 0))
	require.True(t, ok)
	assert.False(t, mark.Marked)
	assert.Equal(t, game.Unrevealed, board.StateAt(c(0, 0)))
	assert.Equal(t, 1, board.MarkedCount())

	board.Reveal(c(2, 1))
	_, ok = board.ToggleFlag(c(2, 1))
	assert.False(t, ok, "revealed cells cannot be flagged")

	_, ok = board.ToggleFlag(c(7, 7))
	assert.False(t, ok, "cells off the board cannot be flagged")
}

func TestBoard_UncoverTile(t *testing.T) {
	board := newBoard(t, `
*..
...`)

	board.ToggleFlag(c(2, 1))
	handle, ok := board.UncoverTile(c(2, 1))
	require.True(t, ok)
	assert.Equal(t, game.CellID(5), handle)
	assert.False(t, board.IsMarked(c(2, 1)))
	assert.True(t, board.IsRevealed(c(2, 1)))

	_, ok = board.UncoverTile(c(2, 1))
	assert.False(t, ok)
}

func TestBoard_CoveredNeighbors(t *testing.T) {
	board := newBoard(t, `
*..
...
...`)

	board.ToggleFlag(c(0, 0))
	board.Reveal(c(1, 0))

	assert.ElementsMatch(t, []game.Coordinates{
		c(2, 0), c(0, 1), c(1, 1), c(2, 1),
	}, board.CoveredNeighbors(c(1, 0)))
	assert.ElementsMatch(t, []game.Coordinates{c(0, 1), c(1, 1)}, board.CoveredNeighbors(c(0, 0)))
}

func TestBoard_Reveal_NoOps(t *testing.T) {
	board := newBoard(t, `
*..
...`)

	assert.False(t, board.Reveal(c(3, 3)).Changed())

	board.Reveal(c(2, 1))
	covered := board.CoveredCount()
	assert.False(t, board.Reveal(c(2, 1)).Changed())
	assert.Equal(t, covered, board.CoveredCount())
}

func TestBoard_Reveal_Mine(t *testing.T) {
	board := newBoard(t, `
*..
..*`)

	board.ToggleFlag(c(1, 0))
	board.ToggleFlag(c(2, 1))

	result := board.Reveal(c(0, 0))

	assert.True(t, result.MineHit)
	assert.Equal(t, c(0, 0), result.Exploded)
	assert.Equal(t, []game.Coordinates{c(0, 0)}, revealedCoordinates(result))
	assert.Equal(t, game.TileMine, result.Revealed[0].Tile)
	assert.Equal(t, game.Lost, board.State())

	assert.Equal(t, game.MineLosing, board.StateAt(c(0, 0)))
	assert.Equal(t, game.FlagWrong, board.StateAt(c(1, 0)))
	assert.Equal(t, game.Flag, board.StateAt(c(2, 1)))
	assert.Equal(t, game.Unrevealed, board.StateAt(c(2, 0)))

	// The game is over: nothing else changes
	assert.False(t, board.Reveal(c(2, 0)).Changed())
	assert.False(t, board.Reveal(c(1, 0)).Changed())
	_, ok := board.ToggleFlag(c(2, 0))
	assert.False(t, ok)
	assert.True(t, board.IsCovered(c(2, 0)))
}

func TestBoard_Reveal_MineUnrevealedAfterLoss(t *testing.T) {
	board := newBoard(t, `
*.*`)

	board.Reveal(c(2, 0))
	assert.Equal(t, game.MineLosing, board.StateAt(c(2, 0)))
	assert.Equal(t, game.MineUnrevealed, board.StateAt(c(0, 0)))
}

func TestBoard_AlmostFull(t *testing.T) {
	board := newBoard(t, `
**
*.`)

	result := board.Reveal(c(1, 1))

	require.Len(t, result.Revealed, 1)
	assert.Equal(t, game.NeighborTile(3), result.Revealed[0].Tile)
	assert.True(t, result.Completed)
	assert.Equal(t, game.Number3, board.StateAt(c(1, 1)))
}

func TestBoard_CompletedSignaledOnce(t *testing.T) {
	board := newBoard(t, `*..`)

	first := board.Reveal(c(2, 0))
	assert.True(t, first.Completed)
	assert.True(t, board.IsCompleted())

	again := board.Reveal(c(0, 0))
	assert.False(t, again.Completed)
	assert.False(t, again.MineHit)
	assert.False(t, again.Changed())

	_, ok := board.ToggleFlag(c(0, 0))
	assert.False(t, ok)
	assert.True(t, board.IsCompleted())
	assert.Equal(t, game.Won, board.State())
}

func TestBoard_Chord(t *testing.T) {
	t.Run("reveals around satisfied number", func(t *testing.T) {
		board := newBoard(t, `
*..
...
...`)
		board.Reveal(c(1, 1))
		assert.False(t, board.Chord(c(1, 1)).Changed(), "no flags yet")

		board.ToggleFlag(c(0, 0))
		result := board.Chord(c(1, 1))

		assert.Len(t, result.Revealed, 7)
		assert.True(t, result.Completed)
		assert.False(t, result.MineHit)
	})

	t.Run("wrong flag explodes", func(t *testing.T) {
		board := newBoard(t, `
*..
...
...`)
		board.Reveal(c(1, 1))
		board.ToggleFlag(c(2, 2))
		result := board.Chord(c(1, 1))

		assert.True(t, result.MineHit)
		assert.Equal(t, c(0, 0), result.Exploded)
		assert.Equal(t, game.Lost, board.State())
	})

	t.Run("ignores covered and empty cells", func(t *testing.T) {
		board := newBoard(t, `
*...
....`)
		assert.False(t, board.Chord(c(3, 1)).Changed())

		board.Reveal(c(3, 1))
		assert.False(t, board.Chord(c(3, 1)).Changed())
	})
}

func TestBoard_LargeCascade(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	tileMap, err := game.GenerateTileMap(rng, 400, 300, 0)
	require.NoError(t, err)

	board := game.NewBoard(tileMap)
	result := board.Reveal(c(200, 150))

	assert.Len(t, result.Revealed, 400*300)
	assert.True(t, result.Completed)
	assert.Equal(t, 0, board.CoveredCount())
}

// Random play must keep marked a subset of covered, and complete the board
// exactly when only mines remain covered
func TestBoard_RandomPlay(t *testing.T) {
	for seed := uint64(1); seed <= 30; seed++ {
		rng := rand.New(rand.NewPCG(seed, 7))
		tileMap, err := game.GenerateTileMap(rng, 12, 10, 15)
		require.NoError(t, err)
		board := game.NewBoard(tileMap)

		for i := 0; i < 500 && board.State() == game.Ongoing; i++ {
			coordinates := c(uint16(rng.IntN(13)), uint16(rng.IntN(11)))
			if rng.IntN(4) == 0 {
				board.ToggleFlag(coordinates)
			} else {
				result := board.Reveal(coordinates)
				for _, cell := range result.Revealed {
					assert.False(t, board.IsCovered(cell.Coordinates))
					if !cell.Tile.IsEmpty() && !result.MineHit {
						assert.True(t, cell.Tile.IsNeighbor())
					}
				}
			}

			for coordinates := range tileMap.All() {
				if board.IsMarked(coordinates) {
					assert.True(t, board.IsCovered(coordinates))
				}
			}
			assert.Equal(t, board.CoveredCount() == int(tileMap.MineCount()), board.IsCompleted())
			if board.IsCompleted() {
				assert.Equal(t, game.Won, board.State())
			}
		}
	}
}
