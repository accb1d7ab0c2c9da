// models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a material supplier account. Trust gates delivery
// auto-approval and price pre-assignment; TotalWeight and Loyalty are
// recomputed whenever one of the supplier's deliveries is accepted.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"size:100;not null" json:"name"`
	Contact      string     `gorm:"size:100" json:"contact"`
	Email        string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Address      string     `gorm:"size:255" json:"address"`
	City         string     `gorm:"size:100" json:"city"`
	State        string     `gorm:"size:100" json:"state"`
	ZipCode      string     `gorm:"size:20" json:"zipcode"`
	PhoneNumber  string     `gorm:"size:20" json:"phonenumber"`
	IndustryID   *uuid.UUID `gorm:"type:uuid" json:"industry"`
	AvatarPath   string     `gorm:"size:512" json:"avatarPath"`
	W9Path       string     `gorm:"size:512" json:"w9Path"`

	// Trust 1 means deliveries skip the waiting state and a PO plus the
	// pre-negotiated Price are stamped at creation.
	Trust       int     `gorm:"not null;default:0" json:"trust"`
	Price       float64 `gorm:"not null;default:0" json:"price"`
	TotalWeight float64 `gorm:"not null;default:0" json:"totalweight"`
	Loyalty     int     `gorm:"not null;default:0" json:"loyalty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// Admin is a staff account. Admins review, approve, reject and grade
// deliveries; they never submit them.
type Admin struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string    `gorm:"size:100;uniqueIndex;not null" json:"userid"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (a *Admin) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
