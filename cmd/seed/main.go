package main

import (
	"flag"
	"os"

	"github.com/oggyb/elite-connect/internal/config"
	"github.com/oggyb/elite-connect/internal/db"
	"github.com/oggyb/elite-connect/internal/logger"
)

func main() {
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		logger.Error("failed to load env file", "path", *envFile, "err", err)
		os.Exit(1)
	}

	// Load configuration
	cfg := config.New()
	logger.InitFromConfig(cfg)
	log := logger.With("cmd", "seed")

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	if err := db.SeedTestData(database, log); err != nil {
		log.Error("failed to seed", "err", err)
		os.Exit(1)
	}

	log.Info("seeding completed")
}
