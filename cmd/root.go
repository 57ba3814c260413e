package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/they4kman/minefield/director/constraint"
	"github.com/they4kman/minefield/director/random"
	"github.com/they4kman/minefield/game"
)

var gameConfig = game.NewGameConfig()

var (
	configPath   string
	directorName string
	logLevel     string
	maxSteps     int
	numGames     int
)

var rootCmd = &cobra.Command{
	Use:   "minefield",
	Short: "Play manual or computer-driven Minesweeper in the terminal",
	Long: `minefield is a Minesweeper game which supports human- or
computer-driven playing.

Run with no arguments to play manually
	minefield

Use the director flag to make the computer play for you
	minefield --director constraint
`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		game.Log.SetLevel(level)
		game.Log.SetOutput(cmd.ErrOrStderr())

		config, err := resolveConfig(cmd.Flags())
		if err != nil {
			return err
		}

		director, err := newDirector(directorName)
		if err != nil {
			return err
		}

		g, err := game.NewGame(config, director)
		if err != nil {
			return err
		}

		if director != nil {
			return autoplay(cmd.OutOrStdout(), g, numGames, maxSteps)
		}
		return play(cmd.InOrStdin(), cmd.OutOrStdout(), g)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var directors = map[string]func() game.Director{
	"random":     func() game.Director { return &random.Director{} },
	"constraint": func() game.Director { return &constraint.Director{} },
}

func newDirector(name string) (game.Director, error) {
	if name == "" {
		return nil, nil
	}
	if newFunc, ok := directors[name]; ok {
		return newFunc(), nil
	}
	return nil, fmt.Errorf("unknown director %q", name)
}

// resolveConfig layers the config file, when given, under the flags the user
// set explicitly
func resolveConfig(flags *pflag.FlagSet) (game.GameConfig, error) {
	if configPath == "" {
		return gameConfig, nil
	}

	config := game.NewGameConfig()
	if err := game.LoadGameConfig(configPath, &config); err != nil {
		return config, err
	}

	flags.Visit(func(flag *pflag.Flag) {
		switch flag.Name {
		case "width":
			config.Width = gameConfig.Width
		case "height":
			config.Height = gameConfig.Height
		case "mines":
			config.NumMines = gameConfig.NumMines
		case "mode":
			config.Mode = gameConfig.Mode
		case "seed":
			config.Seed = gameConfig.Seed
		case "safe-start":
			config.SafeStart = gameConfig.SafeStart
		}
	})
	return config, nil
}

type gameModeValue game.GameMode

func newGameModeValue(val game.GameMode, p *game.GameMode) *gameModeValue {
	*p = val
	return (*gameModeValue)(p)
}

func (modeVal *gameModeValue) String() string {
	return game.GameMode(*modeVal).String()
}

func (modeVal *gameModeValue) Set(value string) error {
	mode, err := game.ParseGameMode(value)
	if err != nil {
		return err
	}
	*modeVal = gameModeValue(mode)
	return nil
}

func (modeVal *gameModeValue) Type() string {
	return "game.GameMode"
}

func init() {
	// Define our root -help without a shorthand, as we'll use -h for --height
	// Ref: https://github.com/spf13/cobra/issues/291
	rootCmd.Flags().Bool("help", false, "Help for this command")

	rootCmd.Flags().Uint16VarP(&gameConfig.Width, "width", "w", gameConfig.Width, "Width of game board, in cells")
	rootCmd.Flags().Uint16VarP(&gameConfig.Height, "height", "h", gameConfig.Height, "Height of game board, in cells")
	rootCmd.Flags().Uint16VarP(&gameConfig.NumMines, "mines", "m", gameConfig.NumMines, "Number of mines to place in the game board")
	rootCmd.Flags().Var(newGameModeValue(gameConfig.Mode, &gameConfig.Mode), "mode", `Game mode, controlling behaviour of first click.
win7: all cells surrounding the first-clicked cell are cleared of mines (first click never loses)
classic: mines are left as is (first click can lose the game)`)
	rootCmd.Flags().Int64Var(&gameConfig.Seed, "seed", 0, "Seed for mine placement (0 picks one from the clock)")
	rootCmd.Flags().BoolVar(&gameConfig.SafeStart, "safe-start", gameConfig.SafeStart, "Reveal an empty cell when the game starts")

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML file with game settings; explicit flags take precedence")
	rootCmd.Flags().StringVarP(&directorName, "director", "d", "", "Make the computer play, using the random or constraint director")
	rootCmd.Flags().IntVar(&maxSteps, "steps", 0, "Maximum director steps per game (0 means unlimited)")
	rootCmd.Flags().IntVar(&numGames, "games", 1, "Number of games the director plays")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level: panic, fatal, error, warn, info, debug or trace")
}
