package main

import (
	"flag"
	"os"

	"github.com/groupchat/chat-backend/internal/config"
	"github.com/groupchat/chat-backend/internal/database"
	"github.com/groupchat/chat-backend/internal/migration"
	pkglogger "github.com/groupchat/chat-backend/pkg/logger"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "config file path (default configs/config.<APP_ENV>.yaml)")
	seed := flag.Bool("seed", false, "insert demo users when the users table is empty")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	config.LoadDotEnv(".")
	pkglogger.InitStructured(os.Getenv("APP_ENV"))

	path := *configPath
	if path == "" {
		path = config.PathForEnv(os.Getenv("APP_ENV"))
	}
	cfg, err := config.Load(path)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to load config")
	}
	if *verbose {
		cfg.Database.LogLevel = "info"
	}

	db, err := database.Open(&cfg.Database)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to get underlying DB")
	}
	defer sqlDB.Close()

	if err := migration.Run(db); err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("migration failed")
	}
	pkglogger.Info("schema is up to date (%s)", cfg.Database.Driver)

	if *seed {
		if err := migration.SeedDemoUsers(db); err != nil {
			pkglogger.GetLogger().Fatal().Err(err).Msg("seeding failed")
		}
	}
}
