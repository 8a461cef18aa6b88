// backend/cmd/seed/main.go
package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/vendora/backend/internal/config"
	"github.com/vendora/backend/internal/database"
	"github.com/vendora/backend/internal/repository"
	"github.com/vendora/backend/internal/seeder"
	"github.com/vendora/backend/pkg/utils"
)

var (
	dryRun  = flag.Bool("dry-run", false, "Don't write to the database, just print what would be seeded")
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	limit   = flag.Int("limit", 0, "Limit number of fixtures to seed (0 = all)")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	logger := utils.GetLogger()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	logger.Info("Starting catalog seeder...")

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	var repoManager *repository.RepositoryManager

	if !*dryRun {
		dbConfig := &database.Config{
			DatabaseURL: cfg.Database.URL,
			RedisURL:    cfg.Redis.URL,
			LogLevel:    os.Getenv("LOG_LEVEL"),
		}

		dbManager, err := database.NewManager(dbConfig, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to initialize database manager")
		}
		defer dbManager.Close()

		if err := dbManager.Migrate(); err != nil {
			logger.WithError(err).Fatal("Failed to run migrations")
		}

		repoManager = repository.NewRepositoryManager(dbManager.DB)
	}

	cs := seeder.NewCatalogSeeder(repoManager, logger, *dryRun)
	if err := cs.Seed(seeder.DefaultFixtures, *limit); err != nil {
		logger.WithError(err).Fatal("Catalog seeding failed")
	}

	logger.Info("Catalog seeding completed successfully!")
}
