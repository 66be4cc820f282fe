package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/avolkov/hearth/internal/app"
	"github.com/avolkov/hearth/internal/buildinfo"
	"github.com/avolkov/hearth/internal/cli"
	"github.com/avolkov/hearth/internal/config"
	"github.com/avolkov/hearth/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer a.Close(context.Background())

	if err := a.Start(ctx); err != nil {
		log.Fatalf("initial load failed: %v", err)
	}

	cli.NewCLI(a).Run(ctx)
}
