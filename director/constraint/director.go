package constraint

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/they4kman/minefield/director/random"
	"github.com/they4kman/minefield/game"
	"github.com/they4kman/minefield/util/collections"
)

// Number of passes deriving new observations from overlapping ones
const simplifyPasses = 4

// Director reads the numbers on the board as constraints over the covered
// cells around them. It flags and reveals cells the constraints decide, then
// guesses the cell least likely to hold a mine, and finally falls back to a
// random click.
type Director struct {
	board *game.Board
	rng   *rand.Rand

	fallback random.Director
}

// Observation states that exactly numMines of cells are mines
type Observation struct {
	origin   *game.Coordinates
	numMines int
	cells    collections.Set[game.Coordinates]
}

func (observation Observation) String() string {
	var cellsRepr strings.Builder
	for i, cell := range observation.sortedCells() {
		if i > 0 {
			cellsRepr.WriteString(", ")
		}
		cellsRepr.WriteString(cell.String())
	}

	originRepr := "?"
	if observation.origin != nil {
		originRepr = observation.origin.String()
	}

	return fmt.Sprintf("Obs[%8s, %d ε %s]", originRepr, observation.numMines, cellsRepr.String())
}

func (observation Observation) MineProbability() float32 {
	return float32(observation.numMines) / float32(len(observation.cells))
}

func (observation Observation) sortedCells() []game.Coordinates {
	return observation.cells.Sorted(game.Coordinates.Compare)
}

func (director *Director) Init(board *game.Board, rng *rand.Rand) {
	director.board = board
	director.rng = rng
	director.fallback.Init(board, rng)
}

func (director *Director) Act() []game.CellAction {
	if director.board == nil {
		return nil
	}

	observations := director.observe()
	for i := 0; i < simplifyPasses; i++ {
		var added bool
		if observations, added = simplifyObservations(observations); !added {
			break
		}
	}

	actors := []func([]*Observation) []game.CellAction{
		actDeliberate,
		director.actLowestProbability,
	}
	for _, actor := range actors {
		if actions := actor(observations); len(actions) > 0 {
			return actions
		}
	}

	return director.fallback.Act()
}

// observe builds one observation for each revealed number with covered,
// unflagged cells around it
func (director *Director) observe() []*Observation {
	board := director.board

	var observations []*Observation
	for coordinates := range board.TileMap().All() {
		state := board.StateAt(coordinates)
		if state < game.Number1 || state > game.Number8 {
			continue
		}

		origin := coordinates
		observation := Observation{
			origin:   &origin,
			numMines: int(state),
			cells:    make(collections.Set[game.Coordinates]),
		}

		for neighbor := range board.TileMap().NeighborsAt(coordinates) {
			switch board.StateAt(neighbor) {
			case game.Flag:
				observation.numMines--
			case game.Unrevealed:
				observation.cells.Add(neighbor)
			}
		}

		observations = addObservation(observations, &observation)
	}
	return observations
}

// simplifyObservations splits every observation containing another into the
// remainder, returning whether anything new was learned
func simplifyObservations(observations []*Observation) ([]*Observation, bool) {
	added := false

	for _, observation := range observations {
		for _, intersectingObs := range observations {
			if intersectingObs == observation || len(intersectingObs.cells) <= len(observation.cells) {
				continue
			}

			sharedCells, isSubset := observation.cells.IntersectionEx(intersectingObs.cells)
			if isSubset {
				splitObs := &Observation{
					numMines: intersectingObs.numMines - observation.numMines,
					cells:    intersectingObs.cells.Difference(observation.cells),
				}

				before := len(observations)
				if observations = addObservation(observations, splitObs); len(observations) > before {
					added = true
				}
			} else if observation.numMines == 1 && len(sharedCells) > 1 {
				// sharedCells hold at most one mine, so the rest of
				// intersectingObs holds at least numMines-1 of its mines
				leftOnlyCells := intersectingObs.cells.Difference(sharedCells)
				occludedMines := intersectingObs.numMines - observation.numMines

				if occludedMines == len(leftOnlyCells) {
					occludedObs := &Observation{
						numMines: occludedMines,
						cells:    leftOnlyCells,
					}

					before := len(observations)
					if observations = addObservation(observations, occludedObs); len(observations) > before {
						added = true
					}
				}
			}
		}
	}

	return observations, added
}

func addObservation(observations []*Observation, observation *Observation) []*Observation {
	// Don't add vacuous or contradictory observations
	if len(observation.cells) == 0 || observation.numMines < 0 || observation.numMines > len(observation.cells) {
		return observations
	}

	// Don't add duplicates
	for _, otherObs := range observations {
		if otherObs.cells.Equal(observation.cells) {
			return observations
		}
	}

	return append(observations, observation)
}

// actDeliberate flags the cells of every observation that must all be mines,
// and reveals the cells of every observation that cannot hold any
func actDeliberate(observations []*Observation) []game.CellAction {
	var actions []game.CellAction
	acted := make(collections.Set[game.Coordinates])

	for _, observation := range observations {
		var act func(game.Coordinates) game.CellAction
		switch observation.numMines {
		case len(observation.cells):
			act = game.Coordinates.RightClick
		case 0:
			act = game.Coordinates.Click
		default:
			continue
		}

		game.Log.WithField("observation", observation.String()).Debug("Deliberate action")
		for _, cell := range observation.sortedCells() {
			if acted.Contains(cell) {
				continue
			}
			acted.Add(cell)
			actions = append(actions, act(cell))
		}
	}

	return actions
}

func (director *Director) actLowestProbability(observations []*Observation) []game.CellAction {
	lowestProbability := float32(math.Inf(1))

	cellProbabilities := make(map[game.Coordinates]float32)
	for _, observation := range observations {
		probability := observation.MineProbability()

		for cell := range observation.cells {
			pastProbability, hasPastProbability := cellProbabilities[cell]
			if !hasPastProbability || probability < pastProbability {
				cellProbabilities[cell] = probability
			}
			if probability < lowestProbability {
				lowestProbability = probability
			}
		}
	}

	if len(cellProbabilities) == 0 {
		return nil
	}

	lowestProbabilityCells := make(collections.Set[game.Coordinates])
	for cell, probability := range cellProbabilities {
		if probability <= lowestProbability {
			lowestProbabilityCells.Add(cell)
		}
	}

	candidates := lowestProbabilityCells.Sorted(game.Coordinates.Compare)
	director.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	return []game.CellAction{candidates[0].Click()}
}
