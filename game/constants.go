package game

// CellState is what the player is allowed to see of a cell
type CellState int
type BoardState int

const (
	Unrevealed CellState = iota - 1
	Empty
	Number1
	Number2
	Number3
	Number4
	Number5
	Number6
	Number7
	Number8
	Flag
	FlagWrong
	Mine
	MineUnrevealed
	MineLosing
)

var CellStates = []CellState{
	Unrevealed,
	Empty,
	Number1,
	Number2,
	Number3,
	Number4,
	Number5,
	Number6,
	Number7,
	Number8,
	Flag,
	FlagWrong,
	Mine,
	MineUnrevealed,
	MineLosing,
}

var cellStateNames = map[CellState]string{
	Unrevealed:     "unrevealed",
	Empty:          "empty",
	Flag:           "flag",
	FlagWrong:      "flag_wrong",
	Mine:           "mine",
	MineUnrevealed: "mine_unrevealed",
	MineLosing:     "mine_losing",
}

func (state CellState) String() string {
	if state >= Number1 && state <= Number8 {
		return "number" + string(rune('0'+int(state)))
	}
	if name, ok := cellStateNames[state]; ok {
		return name
	}
	return "unknown"
}

const (
	Lost BoardState = iota
	Won
	Ongoing
)

func (state BoardState) String() string {
	switch state {
	case Lost:
		return "lost"
	case Won:
		return "won"
	case Ongoing:
		return "ongoing"
	default:
		return "unknown"
	}
}
