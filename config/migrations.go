// config/migrations.go
package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/wittycoder91/DeliveryBackend/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250110_create_account_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Admin{})
			},
		},
		{
			ID: "20250110_create_reference_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Material{}, &models.Packaging{}, &models.Quality{},
					&models.Color{}, &models.Residue{}, &models.Condition{}, &models.Industry{},
					&models.FAQ{}, &models.Setting{})
			},
		},
		{
			ID: "20250112_create_delivery_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Delivery{}, &models.DeliveryLog{})
			},
		},
		{
			ID: "20250301_add_po_counters",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.POCounter{})
			},
		},
	})
	return m.Migrate()
}
