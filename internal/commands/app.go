package commands

import (
	"fmt"

	"finance-ledger/internal/config"
	"finance-ledger/internal/database"
	"finance-ledger/internal/logger"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// app bundles what every command needs.
type app struct {
	cfg *config.Config
	log *logrus.Logger
	db  *gorm.DB
}

func (a *app) Close() {
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.log.WithError(err).Warn("close database")
		}
	}
}

// bootstrap loads config, sets up logging, opens and migrates the database.
func bootstrap(configPath string) (*app, error) {
	cfg, err := config.New(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &app{cfg: cfg, log: log, db: db}, nil
}
