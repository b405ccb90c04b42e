package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

func main() {
	// Load a local .env if present; the real environment wins.
	_ = godotenv.Load()

	cfg, err := ConfigFromEnv()
	if err != nil {
		logError("Invalid configuration: %v", err)
		os.Exit(1)
	}

	// Create context that cancels on interrupt signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logError("Received shutdown signal")
		cancel()
	}()

	server, err := NewServer(ctx, cfg)
	if err != nil {
		logError("Failed to create server: %v", err)
		os.Exit(1)
	}
	defer server.Close()

	logError("MySQL MCP server started (database %s, query timeout %s)", cfg.Database, cfg.QueryTimeout)

	if err := server.Run(); err != nil {
		if err == context.Canceled {
			logError("Server shutdown gracefully")
		} else {
			logError("Server error: %v", err)
			os.Exit(1)
		}
	}
}
