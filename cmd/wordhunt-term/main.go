// Command wordhunt-term plays a word hunt in the terminal with the mouse.
//
// Configuration comes from the same sources as the server (.env, WORDHUNT_CONFIG,
// environment). Logs always go to a file since the terminal is taken.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordhunt/internal/config"
	"github.com/robalobadob/wordhunt/internal/game"
	"github.com/robalobadob/wordhunt/internal/logging"
	"github.com/robalobadob/wordhunt/internal/puzzle"
	"github.com/robalobadob/wordhunt/internal/tui"
	"github.com/robalobadob/wordhunt/internal/words"
)

func main() {
	seed := flag.Int64("seed", 0, "puzzle seed (0 = random)")
	message := flag.String("message", tui.DefaultFinalMessage, "message shown after the countdown")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = "wordhunt-term.log"
	}
	logger, closer := logging.Setup(cfg.Logging)
	defer closer.Close()

	list, err := words.Load(cfg.Puzzle.WordsFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "words:", err)
		os.Exit(1)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	placer := puzzle.NewPlacer(cfg.Puzzle.Size, cfg.Puzzle.Retries, rand.New(rand.NewSource(*seed)),
		logger.With().Str("component", "placer").Logger())
	sess := game.New(list, placer)
	log.Info().Int64("seed", *seed).Int("placed", sess.Placed()).Strs("unplaced", sess.Unplaced()).Msg("puzzle ready")

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, "screen:", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "screen:", err)
		os.Exit(1)
	}
	defer screen.Fini()

	tui.NewPlayer(screen, sess, tui.Options{
		CountdownTicks:    cfg.Game.CountdownTicks,
		CountdownInterval: cfg.Game.CountdownInterval,
		WinDelay:          cfg.Game.WinDelay,
		FinalMessage:      *message,
		Log:               logger,
	}).Run()
}
