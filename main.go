package main

import (
	"database/sql"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordhunt/assets"
	"github.com/robalobadob/wordhunt/internal/config"
	"github.com/robalobadob/wordhunt/internal/db"
	"github.com/robalobadob/wordhunt/internal/httpserver"
	"github.com/robalobadob/wordhunt/internal/logging"
	"github.com/robalobadob/wordhunt/internal/store"
	"github.com/robalobadob/wordhunt/internal/words"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	_, closer := logging.Setup(cfg.Logging)
	defer closer.Close()

	list, err := words.Load(cfg.Puzzle.WordsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}

	var conn *sql.DB
	if cfg.Server.DBPath != "" {
		conn, err = db.Open(cfg.Server.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Server.DBPath).Msg("open database")
		}
		defer conn.Close()
		if err := db.Migrate(conn, assets.Migrations()); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
	} else {
		log.Warn().Msg("DB_PATH empty: accounts and history disabled")
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, conn, cfg, list)
	log.Info().Str("port", cfg.Server.Port).Int("words", len(list)).Int("size", cfg.Puzzle.Size).Msg("starting wordhunt server")
	if err := srv.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
