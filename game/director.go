package game

import "math/rand/v2"

type Action int

const (
	Click Action = iota
	RightClick
	MiddleClick
)

func (action Action) String() string {
	switch action {
	case Click:
		return "click"
	case RightClick:
		return "right-click"
	case MiddleClick:
		return "middle-click"
	default:
		return "unknown"
	}
}

type CellAction struct {
	Coordinates
	Action Action
}

func (c Coordinates) Click() CellAction {
	return CellAction{Coordinates: c, Action: Click}
}

func (c Coordinates) RightClick() CellAction {
	return CellAction{Coordinates: c, Action: RightClick}
}

func (c Coordinates) MiddleClick() CellAction {
	return CellAction{Coordinates: c, Action: MiddleClick}
}

// Director plays a game on its own. It must only look at what a player would
// see, i.e. Board.StateAt, never at the TileMap contents.
type Director interface {
	/**
	 * Attach the director to a freshly created board
	 */
	Init(board *Board, rng *rand.Rand)

	/**
	 * Decide the next actions to perform. No actions means the director is
	 * out of ideas.
	 */
	Act() []CellAction
}
