package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/inamate/shapes-go/internal/auth"
	"github.com/inamate/inamate/shapes-go/internal/config"
	"github.com/inamate/inamate/shapes-go/internal/db"
	mw "github.com/inamate/inamate/shapes-go/internal/middleware"
	"github.com/inamate/inamate/shapes-go/internal/scenes"
	"github.com/inamate/inamate/shapes-go/internal/session"
	"github.com/inamate/inamate/shapes-go/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var st store.Store
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set, scenes are kept in memory")
		st = store.NewMemory()
	} else {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := db.Migrate(ctx, pool); err != nil {
			slog.Error("migrate database", "error", err)
			os.Exit(1)
		}
		st = store.NewPostgres(pool)
	}

	authService := auth.NewService(st, cfg.JWTSecret, cfg.TokenTTL)
	authHandler := auth.NewHandler(authService)

	sceneService := scenes.NewService(st, authService, cfg.SceneWidth)
	hub := session.NewHub(sceneService.LoadDocument, sceneService.SaveDocument, cfg.AutosaveInterval)
	sceneService.SetHub(hub)
	go hub.Run()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/scenes/{id}/token", authHandler.Token).Methods("POST")
	scenes.NewHandler(sceneService).Routes(r, authService.RequireScene)

	// WebSocket endpoint
	r.Handle("/ws/scene/{id}", session.NewHandler(hub, authService, cfg.OriginPatterns()))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mw.CORS(cfg.Origins())(r), // outside the router so preflights match
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first to save all dirty scenes
		slog.Info("saving all scenes...")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "store", fmt.Sprintf("%T", st))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
