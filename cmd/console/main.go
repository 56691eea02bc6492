package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	app "github.com/nordbook/matching-engine/internal/app/engine"
	"github.com/nordbook/matching-engine/internal/console"
	orderbook "github.com/nordbook/matching-engine/internal/usecase/orderbook"
	tradejournal "github.com/nordbook/matching-engine/internal/usecase/trade-journal"
	"github.com/nordbook/matching-engine/pkg/config"
	"github.com/nordbook/matching-engine/pkg/logger"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	config.MustLoad(cfg)

	l, err := logger.NewLogger(
		logger.WithLoggingLevel(logger.Level(cfg.LogLevel)),
		logger.WithOutputPaths([]string{cfg.LogPath}),
	)
	if err != nil {
		panic(err)
	}

	log = l
}

func main() {
	defer func() {
		_ = log.Sync()
	}()

	// Ctrl-C ends the session like 'exit' does
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	book := orderbook.NewBook()
	journal := tradejournal.NewJournal(log)
	engine := app.NewEngine(book, journal, log)

	log.Info("Matching engine started", logger.Field{
		Key:   "instrument",
		Value: cfg.Instrument,
	})

	c := console.New(engine, log, os.Stdin, os.Stdout)
	if err := c.Run(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "run_console",
		})
		os.Exit(1)
	}

	log.Info("Matching engine shutdown complete", logger.Field{
		Key:   "trades",
		Value: len(journal.Trades()),
	})
}
