package main

import (
	"log"

	"bazaar-radar/app"
	"bazaar-radar/config"
	"bazaar-radar/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogMode)
	defer logger.Sync()

	application := app.New(cfg, logger)
	if err := application.Start(); err != nil {
		logger.Fatalw("application failed", "error", err)
	}
}
