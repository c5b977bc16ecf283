package postgres

import (
	"log"

	"github.com/ratewatch/rates-service/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.RatesConfig) *gorm.DB {
	dsn := cfg.ItemsDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(&ItemModel{})

	return db
}
