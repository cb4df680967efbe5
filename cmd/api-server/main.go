package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"arclinker/internal/arcs"
	"arclinker/internal/middleware"
	"arclinker/internal/publish"
	"arclinker/internal/watch"
	"arclinker/pkg/database"
	"arclinker/pkg/logger"
	"arclinker/pkg/utils"
)

func main() {
	// system environment only outside local development
	_ = godotenv.Load()

	cfg := utils.LoadServerConfig()
	logger.Init(cfg.Env)
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	store := arcs.NewStore(database.NewSnapshotStore(db), cfg.SnapshotSlot)
	hub := watch.NewHub()

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/ws", watch.WSHandler(hub))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/readyz", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"ws_clients": stats.WSClients,
		})
	})

	arcsHandler := arcs.NewHandler(store, hub)
	arcsHandler.RegisterRoutes(router.Group("/series"))
	router.GET("/search", arcsHandler.Search)
	router.GET("/recommendations", arcsHandler.Recommendations)
	router.GET("/export", arcsHandler.Export)
	router.POST("/import", arcsHandler.Import)

	pubCfg := utils.LoadPublishConfig()
	pubClient := publish.NewGitHubClient(pubCfg.Token, pubCfg.Owner, pubCfg.Repo, pubCfg.Branch)
	pubHandler := publish.NewHandler(pubClient)
	pubHandler.RegisterRoutes(router.Group("/api"))

	// warm the tree so a bad snapshot is reported at startup, not on
	// the first request
	root := store.Load(context.Background())
	log.Info().Int("series", len(root.Series)).Str("slot", cfg.SnapshotSlot).Msg("database loaded")

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("HTTP API server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}
	log.Info().Msg("server stopped")
}
