package game

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

type GameMode int

const (
	Classic GameMode = iota
	Win7
)

var gameModes = map[string]GameMode{
	"classic": Classic,
	"win7":    Win7,
}

func ParseGameMode(name string) (GameMode, error) {
	if mode, isValid := gameModes[name]; isValid {
		return mode, nil
	}
	return Classic, fmt.Errorf("%w: %q", ErrInvalidGameMode, name)
}

func (mode GameMode) String() string {
	for name, m := range gameModes {
		if m == mode {
			return name
		}
	}
	return fmt.Sprint(int(mode))
}

func (mode GameMode) MarshalYAML() (interface{}, error) {
	return mode.String(), nil
}

func (mode *GameMode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}

	parsed, err := ParseGameMode(name)
	if err != nil {
		return err
	}
	*mode = parsed
	return nil
}

type GameConfig struct {
	Width    uint16   `yaml:"width"`
	Height   uint16   `yaml:"height"`
	NumMines uint16   `yaml:"mines"`
	Mode     GameMode `yaml:"mode"`

	// Seed of the game's random source; 0 picks one from the current time
	Seed int64 `yaml:"seed"`

	// Reveal a random empty cell as soon as the board is created
	SafeStart bool `yaml:"safe_start"`
}

func NewGameConfig() GameConfig {
	return GameConfig{
		Width:     30,
		Height:    16,
		NumMines:  99,
		Mode:      Classic,
		SafeStart: false,
	}
}

func (config GameConfig) Validate() error {
	if config.Width == 0 || config.Height == 0 {
		return fmt.Errorf("%w: got %dx%d", ErrEmptyGrid, config.Width, config.Height)
	}
	if int(config.NumMines) >= int(config.Width)*int(config.Height) {
		return fmt.Errorf("%w: %d mines on a %dx%d grid", ErrTooManyMines, config.NumMines, config.Width, config.Height)
	}
	return nil
}

func (config GameConfig) Fields() logrus.Fields {
	return logrus.Fields{
		"width":      config.Width,
		"height":     config.Height,
		"mines":      config.NumMines,
		"mode":       config.Mode.String(),
		"safe_start": config.SafeStart,
	}
}

// LoadGameConfig reads a YAML file over the values already in config, so keys
// missing from the file keep their current value
func LoadGameConfig(path string, config *GameConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading game config: %w", err)
	}
	if err := yaml.UnmarshalStrict(b, config); err != nil {
		return fmt.Errorf("parsing game config %s: %w", path, err)
	}
	return nil
}

type ActionResult struct {
	Action CellAction
	Reveal RevealResult
	Mark   *MarkResult
}

// Game is one play session: a board, the random source it was generated
// from, and optionally a Director playing it. Restart replaces the board with
// a fresh one.
type Game struct {
	ID uuid.UUID

	config   GameConfig
	rand     *rand.Rand
	board    *Board
	director Director

	hasClicked bool
	log        *logrus.Entry
}

func NewGame(config GameConfig, director Director) (*Game, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}

	game := &Game{
		config:   config,
		director: director,
	}
	if err := game.reset(); err != nil {
		return nil, err
	}
	return game, nil
}

func (game *Game) Board() *Board {
	return game.board
}

func (game *Game) Config() GameConfig {
	return game.config
}

func (game *Game) Seed() int64 {
	return game.config.Seed
}

func (game *Game) reset() error {
	seed := uint64(game.config.Seed)

	game.ID = uuid.New()
	game.rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	game.hasClicked = false
	game.log = Log.WithFields(logrus.Fields{
		"game": game.ID.String(),
		"seed": game.config.Seed,
	})

	tileMap, err := GenerateTileMap(game.rand, game.config.Width, game.config.Height, game.config.NumMines)
	if err != nil {
		return err
	}
	game.setBoard(NewBoard(tileMap))

	game.log.WithFields(game.config.Fields()).Info("New game")
	game.log.Debug("\n" + tileMap.String())

	if game.config.SafeStart {
		game.safeStart()
	}
	return nil
}

// Restart begins a new game with a seed drawn from the current one
func (game *Game) Restart() error {
	game.config.Seed = game.rand.Int64()
	if game.config.Seed == 0 {
		game.config.Seed = 1
	}
	return game.reset()
}

func (game *Game) setBoard(board *Board) {
	game.board = board
	if game.director != nil {
		game.director.Init(board, game.rand)
	}
}

func (game *Game) safeStart() {
	var emptyCells []Coordinates
	for coordinates, tile := range game.board.tileMap.All() {
		if tile.IsEmpty() {
			emptyCells = append(emptyCells, coordinates)
		}
	}
	if len(emptyCells) == 0 {
		game.log.Warn("No empty cell to start from")
		return
	}

	start := emptyCells[game.rand.IntN(len(emptyCells))]
	game.hasClicked = true
	result := game.board.Reveal(start)

	game.log.WithFields(logrus.Fields{
		"coordinates": start,
		"revealed":    len(result.Revealed),
	}).Info("Safe start")
}

// clearSurroundingMines regenerates the mines so that the first clicked cell,
// and its neighbors whenever there is room elsewhere, hold no mine
func (game *Game) clearSurroundingMines(coordinates Coordinates) {
	avoid := []Coordinates{coordinates}
	for neighbor := range game.board.tileMap.NeighborsAt(coordinates) {
		avoid = append(avoid, neighbor)
	}

	tileMap, err := GenerateTileMap(game.rand, game.config.Width, game.config.Height, game.config.NumMines, avoid...)
	if err != nil {
		game.log.WithError(err).Error("Could not clear mines around the first click")
		return
	}

	marked := game.board.marked
	game.setBoard(NewBoard(tileMap))
	for coordinates := range marked {
		game.board.marked.Add(coordinates)
	}

	game.log.Debug("\n" + tileMap.String())
}

func (game *Game) Reveal(coordinates Coordinates) RevealResult {
	board := game.board
	if !game.hasClicked && board.canPlay() && board.IsCovered(coordinates) && !board.IsMarked(coordinates) {
		game.hasClicked = true

		if game.config.Mode == Win7 {
			game.clearSurroundingMines(coordinates)
		}
	}

	result := game.board.Reveal(coordinates)

	entry := game.log.WithFields(logrus.Fields{
		"coordinates": coordinates,
		"revealed":    len(result.Revealed),
	})
	switch {
	case result.MineHit:
		entry.Info("Game lost")
	case result.Completed:
		entry.Info("Game won")
	default:
		entry.Debug("Revealed")
	}

	return result
}

func (game *Game) ToggleFlag(coordinates Coordinates) (MarkResult, bool) {
	return game.board.ToggleFlag(coordinates)
}

func (game *Game) Chord(coordinates Coordinates) RevealResult {
	return game.board.Chord(coordinates)
}

func (game *Game) Apply(action CellAction) ActionResult {
	result := ActionResult{Action: action}

	switch action.Action {
	case Click:
		result.Reveal = game.Reveal(action.Coordinates)
	case RightClick:
		if mark, ok := game.ToggleFlag(action.Coordinates); ok {
			result.Mark = &mark
		}
	case MiddleClick:
		result.Reveal = game.Chord(action.Coordinates)
	}

	return result
}

// Step asks the director for its next actions and applies them, until the
// game ends. It returns false when there is no director, the game is over, or
// the director had nothing to do.
func (game *Game) Step() ([]ActionResult, bool) {
	if game.director == nil || !game.board.canPlay() {
		return nil, false
	}

	actions := game.director.Act()
	if len(actions) == 0 {
		return nil, false
	}

	results := make([]ActionResult, 0, len(actions))
	for _, action := range actions {
		if !game.board.canPlay() {
			break
		}
		results = append(results, game.Apply(action))
	}
	return results, true
}

// Autoplay steps the director until the game ends, the director gives up, or
// maxSteps steps were taken (maxSteps <= 0 means no limit)
func (game *Game) Autoplay(maxSteps int) BoardState {
	for steps := 0; maxSteps <= 0 || steps < maxSteps; steps++ {
		if _, ok := game.Step(); !ok {
			break
		}
	}
	return game.board.State()
}
