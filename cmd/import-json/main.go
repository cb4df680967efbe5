package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"arclinker/internal/arcs"
	"arclinker/internal/merge"
	"arclinker/pkg/database"
	"arclinker/pkg/logger"
	"arclinker/pkg/models"
	"arclinker/pkg/utils"
)

func main() {
	var in = flag.String("in", "mla-data.json", "input JSON path")
	flag.Parse()

	_ = godotenv.Load()
	cfg := utils.LoadServerConfig()
	logger.Init(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	body, err := os.ReadFile(*in)
	if err != nil {
		log.Fatal().Err(err).Str("path", *in).Msg("read import file failed")
	}

	incoming, err := models.DecodeRoot(body)
	if err != nil {
		log.Fatal().Err(err).Str("path", *in).Msg("import file failed shape check")
	}

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	store := arcs.NewStore(database.NewSnapshotStore(db), cfg.SnapshotSlot)
	merged := merge.Databases(store.Load(ctx), incoming)
	store.Replace(ctx, merged)

	log.Info().
		Int("series", len(merged.Series)).
		Str("slot", cfg.SnapshotSlot).
		Msg("import merged; review changes before uploading")
}
