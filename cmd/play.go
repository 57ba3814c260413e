package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/they4kman/minefield/game"
)

var cellGlyphs = map[game.CellState]byte{
	game.Unrevealed:     '#',
	game.Empty:          '.',
	game.Flag:           'f',
	game.FlagWrong:      'x',
	game.Mine:           'o',
	game.MineUnrevealed: 'O',
	game.MineLosing:     '*',
}

func cellGlyph(state game.CellState) byte {
	if state >= game.Number1 && state <= game.Number8 {
		return byte('0' + int(state))
	}
	if glyph, ok := cellGlyphs[state]; ok {
		return glyph
	}
	return '?'
}

// renderBoard writes the player's view of the board, row y=0 first
func renderBoard(out io.Writer, board *game.Board) {
	var b strings.Builder

	fmt.Fprintf(&b, "%03d", board.RemainingMines())
	switch board.State() {
	case game.Won:
		b.WriteString("   WIN!")
	case game.Lost:
		b.WriteString("   LOSE :(")
	}
	b.WriteByte('\n')

	for y := uint16(0); y < board.Height(); y++ {
		for x := uint16(0); x < board.Width(); x++ {
			b.WriteByte(cellGlyph(board.StateAt(game.Coordinates{X: x, Y: y})))
		}
		b.WriteByte('\n')
	}

	io.WriteString(out, b.String())
}

const playHelp = `commands:
  r X Y   reveal a cell
  f X Y   toggle a flag
  c X Y   reveal around a number whose mines are all flagged
  n       start a new game
  q       quit
`

// play runs a line-oriented session reading commands from in
func play(in io.Reader, out io.Writer, g *game.Game) error {
	renderBoard(out, g.Board())

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "q", "quit":
			return nil
		case "n", "new":
			if err := g.Restart(); err != nil {
				return err
			}
		case "r", "f", "c":
			coordinates, err := parseCoordinates(fields[1:])
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			actions := map[string]game.Action{"r": game.Click, "f": game.RightClick, "c": game.MiddleClick}
			describeResult(out, g.Apply(game.CellAction{Coordinates: coordinates, Action: actions[fields[0]]}))
		default:
			io.WriteString(out, playHelp)
			continue
		}

		renderBoard(out, g.Board())
	}
	return scanner.Err()
}

func parseCoordinates(args []string) (game.Coordinates, error) {
	if len(args) != 2 {
		return game.Coordinates{}, errors.New("expected X and Y")
	}
	x, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil {
		return game.Coordinates{}, fmt.Errorf("invalid X: %w", err)
	}
	y, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil {
		return game.Coordinates{}, fmt.Errorf("invalid Y: %w", err)
	}
	return game.Coordinates{X: uint16(x), Y: uint16(y)}, nil
}

func describeResult(out io.Writer, result game.ActionResult) {
	switch {
	case result.Mark != nil && result.Mark.Marked:
		fmt.Fprintf(out, "flagged %s\n", result.Mark.Coordinates)
	case result.Mark != nil:
		fmt.Fprintf(out, "unflagged %s\n", result.Mark.Coordinates)
	case result.Reveal.MineHit:
		fmt.Fprintf(out, "boom at %s\n", result.Reveal.Exploded)
	case result.Reveal.Unmarked:
		fmt.Fprintf(out, "unflagged %s; reveal again to uncover it\n", result.Action.Coordinates)
	case len(result.Reveal.Revealed) > 0:
		fmt.Fprintf(out, "revealed %d cells\n", len(result.Reveal.Revealed))
	default:
		fmt.Fprintln(out, "nothing to do")
	}
	if result.Reveal.Completed {
		fmt.Fprintln(out, "board completed")
	}
}

// autoplay lets the game's director play numGames games and reports each
// outcome
func autoplay(out io.Writer, g *game.Game, numGames, maxSteps int) error {
	wins := 0
	for i := 0; i < numGames; i++ {
		if i > 0 {
			if err := g.Restart(); err != nil {
				return err
			}
		}

		state := g.Autoplay(maxSteps)
		if state == game.Won {
			wins++
		}

		fmt.Fprintf(out, "game %d (seed %d): %s\n", i+1, g.Seed(), state)
		renderBoard(out, g.Board())
	}

	if numGames > 1 {
		fmt.Fprintf(out, "won %d of %d games\n", wins, numGames)
	}
	return nil
}
