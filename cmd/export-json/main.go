package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"arclinker/internal/arcs"
	"arclinker/pkg/database"
	"arclinker/pkg/logger"
	"arclinker/pkg/utils"
)

func main() {
	var out = flag.String("out", "mla-data.json", "output JSON path")
	flag.Parse()

	_ = godotenv.Load()
	cfg := utils.LoadServerConfig()
	logger.Init(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	store := arcs.NewStore(database.NewSnapshotStore(db), cfg.SnapshotSlot)
	data, err := store.Export(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("export failed")
	}

	if dir := filepath.Dir(*out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal().Err(err).Msg("create output dir failed")
		}
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatal().Err(err).Msg("write export failed")
	}

	log.Info().Str("path", *out).Msg("exported database")
}
