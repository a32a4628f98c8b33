/*
Package main is the entry point for the lobby server.

It loads configuration, initializes the global logging system, connects the
external stores (PostgreSQL for accounts, Redis for tokens), starts the HTTP
server and the heartbeat monitor, and handles operating system interrupt
signals for a graceful shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lobbyd/internal/app/auth"
	"lobbyd/internal/app/db"
	"lobbyd/internal/app/lobby"
	"lobbyd/internal/app/token"
	"lobbyd/internal/app/user"
	"lobbyd/internal/configs"
	"lobbyd/internal/handler"
	"lobbyd/internal/pkg/logx"
)

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	tokenStore, err := token.NewRedisStore(ctx, cfg.RedisURL)
	if err != nil {
		logx.Fatal(err, "Failed to connect to Redis")
	}
	defer tokenStore.Close()

	conns := lobby.NewConnRegistry()
	rooms := lobby.NewRoomRegistry(conns)

	monitor := lobby.NewMonitor(conns, lobby.ProbeInterval)
	go monitor.Run()

	deps := &handler.AppDeps{
		Config: cfg,
		Auth:   auth.NewService(tokenStore),
		Users:  user.NewStore(pool),
		Rooms:  rooms,
		Conns:  conns,
	}

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler.Router(deps),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Lobby server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	monitor.Stop()

	logx.Info("Server gracefully stopped.")
}
