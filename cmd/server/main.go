package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/inkwell-app/inkwell/backend/internal/api"
	"github.com/inkwell-app/inkwell/backend/internal/archive"
	"github.com/inkwell-app/inkwell/backend/internal/config"
	"github.com/inkwell-app/inkwell/backend/internal/logger"
	"github.com/inkwell-app/inkwell/backend/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Env:       cfg.Logging.Env,
		Backend:   logger.Backend(cfg.Logging.Backend),
		Debug:     cfg.Logging.Debug,
		AddSource: cfg.Logging.AddSource,
	})

	var archiveStore *archive.Store
	var sweeper *archive.Sweeper
	if cfg.Archive.Enabled {
		archiveStore, err = archive.New(cfg.Archive.Path)
		if err != nil {
			slog.Error("failed to initialize archive", "err", err)
			os.Exit(1)
		}
		defer archiveStore.Close()

		sweepCfg := archive.DefaultSweeperConfig()
		sweepCfg.Retention = cfg.ArchiveRetention()
		sweeper = archive.NewSweeper(archiveStore, sweepCfg)
		sweeper.Start()
	}

	hub := ws.NewHub(archiveAdapter(archiveStore))
	hub.SetRateLimit(cfg.Limits.MessagesPerSecond, cfg.Limits.Burst)
	go hub.Run()

	apiHandler := api.New(hub, archiveStore)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWs(hub, w, req)
	})
	r.Get("/health", apiHandler.HealthHandler)
	r.Get("/api/stats", apiHandler.StatsHandler)
	r.Get("/api/rooms", apiHandler.RoomsHandler)
	r.Get("/api/archive/rooms", apiHandler.ArchivedRoomsHandler)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		slog.Info("shutting down")
		if sweeper != nil {
			sweeper.Stop()
		}
		if archiveStore != nil {
			archiveStore.Close()
		}
		os.Exit(0)
	}()

	slog.Info("🖋️ inkwell server starting", "addr", cfg.Server.Addr, "archive", cfg.Archive.Enabled)
	if err := http.ListenAndServe(cfg.Server.Addr, r); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

// A nil *archive.Store must become a nil interface, not a non-nil interface
// wrapping a nil pointer.
func archiveAdapter(s *archive.Store) ws.Archive {
	if s == nil {
		return nil
	}
	return s
}
