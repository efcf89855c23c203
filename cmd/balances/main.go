package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"

	"github.com/ohmynofan/token-balances/internal/app"
	"github.com/ohmynofan/token-balances/internal/config"
	"github.com/ohmynofan/token-balances/internal/platform/logger"
)

func main() {
	cfg := config.Load()

	if err := cfg.Validate(); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}

	_ = logger.Init(cfg.LogPath)
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.New(cfg).Run(ctx); err != nil {
		pterm.Error.Println(err.Error())
		stop()
		logger.Close()
		os.Exit(1)
	}
}
