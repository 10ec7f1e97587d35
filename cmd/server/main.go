package main

import (
	"log"

	"github.com/dreamnest/recommendation-service/internal/app"
	"github.com/dreamnest/recommendation-service/internal/config"
	"github.com/dreamnest/recommendation-service/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewZapLogger(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	a, err := app.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to initialize application: %v", err)
	}

	a.Run()
}
