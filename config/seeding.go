// config/seeding.go
package config

import (
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/wittycoder91/DeliveryBackend/models"
)

// Seed inserts the reference data a fresh install needs. Every block
// is guarded by a count check so reruns are no-ops.
func Seed(db *gorm.DB, log *zap.Logger) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	if err := seedSettings(db); err != nil {
		return err
	}
	if err := seedReferenceData(db); err != nil {
		return err
	}
	log.Info("database seeding complete")
	return nil
}

func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	// default credentials, expected to be rotated on first login
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Create(&models.Admin{UserID: "admin", PasswordHash: string(hash)}).Error
}

func seedSettings(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Setting{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&models.Setting{
		LoyaltyBronze: 50,
		LoyaltySilver: 200,
		LoyaltyGolden: 1000,
		LoyaltyBenefits: datatypes.JSON(
			`{"bronze":"Priority scheduling","silver":"Priority scheduling and quarterly pricing review","golden":"Dedicated dock slots and premium pricing"}`),
		FirstTime:  480,
		SecondTime: 630,
		ThirdTime:  780,
		FourthTime: 930,
	}).Error
}

func seedReferenceData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Packaging{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		packagings := []models.Packaging{
			{Name: "Baled"},
			{Name: "Stacked on Skids"},
			{Name: "Loosed in Boxes"},
		}
		if err := db.Create(&packagings).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&models.Quality{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		qualities := []models.Quality{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}}
		if err := db.Create(&qualities).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&models.Residue{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		residues := []models.Residue{
			{ResidueName: "Food Product"},
			{ResidueName: "Non-hazardous Powder (SDS)"},
			{ResidueName: "Plastic Granules"},
			{ResidueName: "Unknown"},
			{ResidueName: "Other"},
		}
		if err := db.Create(&residues).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&models.Industry{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		industries := []models.Industry{
			{IndustryName: "IT", IndustryDesc: "Information technology"},
			{IndustryName: "Education"},
			{IndustryName: "Health"},
		}
		if err := db.Create(&industries).Error; err != nil {
			return err
		}
	}

	return nil
}
