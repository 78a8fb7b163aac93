package database

import (
	"cashier/config"
	"cashier/models"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to connect to database")
	}

	log.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("✅ Connected to database")

	if cfg.DBAutoMigrate {
		log.Info().Msg("🟡 Starting auto-migration...")
		if err := Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to auto-migrate database")
		}
		log.Info().Msg("✅ Auto migration completed")
	}

	return db
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.DepositMethod{},
		&models.WithdrawMethod{},
		&models.DepositRequest{},
		&models.DepositTurnover{},
		&models.WithdrawRequest{},
		&models.GameHistory{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
