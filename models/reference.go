// models/reference.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reference tables. These only ever feed dropdowns and display-name
// enrichment; none of them participate in delivery state logic.

type Material struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MaterialName string    `gorm:"size:100;not null" json:"materialName"`
	MaterialDesc string    `gorm:"size:255" json:"materialDesc"`
	Note         string    `gorm:"size:255" json:"note"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (m *Material) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}

type Packaging struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:100;not null" json:"name"`
}

func (p *Packaging) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

func (Packaging) TableName() string { return "packagings" }

type Quality struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:100;not null" json:"name"`
}

func (q *Quality) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return
}

func (Quality) TableName() string { return "qualities" }

type Color struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ColorName string    `gorm:"size:100;not null" json:"colorName"`
	ColorDesc string    `gorm:"size:255" json:"colorDesc"`
	Note      string    `gorm:"size:255" json:"note"`
}

func (c *Color) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

type Residue struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ResidueName string    `gorm:"size:100;not null" json:"residueName"`
	ResidueDesc string    `gorm:"size:255" json:"residueDesc"`
	Note        string    `gorm:"size:255" json:"note"`
}

func (r *Residue) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

type Condition struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConditionName string    `gorm:"size:100;not null" json:"conditionName"`
	ConditionDesc string    `gorm:"size:255" json:"conditionDesc"`
	Note          string    `gorm:"size:255" json:"note"`
}

func (c *Condition) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

type Industry struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IndustryName string    `gorm:"size:100;not null" json:"industryName"`
	IndustryDesc string    `gorm:"size:255" json:"industryDesc"`
	Note         string    `gorm:"size:255" json:"note"`
}

func (i *Industry) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

func (Industry) TableName() string { return "industries" }

type FAQ struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (f *FAQ) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}

func (FAQ) TableName() string { return "faqs" }
