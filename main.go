package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"revolver-roulette-server/api"
	"revolver-roulette-server/config"
	"revolver-roulette-server/item"
	"revolver-roulette-server/loghandler"
	"revolver-roulette-server/matchmaking"
	"revolver-roulette-server/storage"
	"revolver-roulette-server/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found; using environment variables")
	}

	level := slog.LevelInfo
	if os.Getenv("LOG_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stdout, level)))

	cfg := config.Load()

	if cfg.AuthBaseURL == "" {
		slog.Warn("AUTH_BASE_URL is not set; clients join anonymously")
	} else {
		slog.Info("auth configured", "tag", "main", "baseUrl", cfg.AuthBaseURL)
	}
	slog.Info("configuration loaded", "tag", "main",
		"maxPlayers", cfg.MaxPlayers, "startingHp", cfg.StartingHP,
		"cylinderSize", cfg.CylinderSize, "deckSize", cfg.DeckSize, "wsPort", cfg.WSPort)

	ctx := context.Background()

	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connecting to Postgres", "tag", "main", "err", err)
		os.Exit(1)
	}
	if store == nil {
		slog.Warn("DATABASE_URL is not set; match history disabled")
	} else {
		defer store.Close()
	}

	registry := item.NewRegistry()
	item.RegisterAll(registry)

	// A typed nil *Store must not become a non-nil interface value.
	var historyStore storage.HistoryStore
	if store != nil {
		historyStore = store
	}
	lobby := matchmaking.NewLobby(cfg, registry, historyStore)

	hub := ws.NewHub(cfg, lobby)
	go hub.Run(ctx)

	apiHandler := api.NewHandler(cfg, historyStore)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/api/history", apiHandler.History)
	mux.HandleFunc("/api/leaderboard", apiHandler.Leaderboard)

	addr := fmt.Sprintf(":%d", cfg.WSPort)
	slog.Info("server listening", "tag", "main", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("server stopped", "tag", "main", "err", err)
		os.Exit(1)
	}
}
