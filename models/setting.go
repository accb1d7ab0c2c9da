// models/setting.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Setting is a singleton row. The three loyalty thresholds are the
// only fields read by the delivery core; the rest back the settings
// screens and the public site footer.
type Setting struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	LoyaltyBronze float64 `gorm:"not null;default:0" json:"loyalty_bronze"`
	LoyaltySilver float64 `gorm:"not null;default:0" json:"loyalty_silver"`
	LoyaltyGolden float64 `gorm:"not null;default:0" json:"loyalty_golden"`

	// Per-tier benefit copy, keyed "bronze"/"silver"/"golden". Stored
	// as jsonb so the settings screen can add keys without a migration.
	LoyaltyBenefits datatypes.JSON `gorm:"type:jsonb" json:"loyalty_benefits"`

	// Receiving-dock time slots, minutes from midnight.
	FirstTime  int `gorm:"not null;default:0" json:"firsttime"`
	SecondTime int `gorm:"not null;default:0" json:"secondtime"`
	ThirdTime  int `gorm:"not null;default:0" json:"thirdtime"`
	FourthTime int `gorm:"not null;default:0" json:"fourthtime"`

	Address   string `gorm:"size:255" json:"address"`
	City      string `gorm:"size:100" json:"city"`
	State     string `gorm:"size:100" json:"state"`
	ZipCode   string `gorm:"size:20" json:"zipcode"`
	Telephone string `gorm:"size:30" json:"telephone"`
	Report    string `gorm:"type:text" json:"report"`
	Terms     string `gorm:"type:text" json:"terms"`

	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Setting) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// LoyaltyTier maps a cumulative accepted weight onto the 0-3 tier
// ladder given the current thresholds.
func (s *Setting) LoyaltyTier(totalWeight float64) int {
	switch {
	case totalWeight >= s.LoyaltyGolden:
		return 3
	case totalWeight >= s.LoyaltySilver:
		return 2
	case totalWeight >= s.LoyaltyBronze:
		return 1
	default:
		return 0
	}
}
