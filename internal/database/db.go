package database

import (
	"log"

	"agritrade-backend/internal/config"
	"agritrade-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}

// Migrate runs AutoMigrate for every model. Shared with the test helpers so
// in-memory databases get the same schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Farmer{},
		&models.Buyer{},
		&models.ExportCompany{},
		&models.SupplierLink{},
		&models.Listing{},
		&models.Match{},
		&models.Negotiation{},
		&models.Offer{},
		&models.Transaction{},
		&models.Payment{},
		&models.Document{},
		&models.ExportReport{},
		&models.AuditLog{},
	)
}
