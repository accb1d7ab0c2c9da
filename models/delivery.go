// models/delivery.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Delivery status codes. A delivery only ever lives in the deliveries
// table while its status is Waiting, Pending or Received; terminal
// outcomes move it into delivery_logs.
const (
	StatusRejected int = -1 // terminal, archive only
	StatusWaiting  int = 0  // awaiting staff approval
	StatusPending  int = 1  // approved, awaiting physical receipt
	StatusReceived int = 2  // received, awaiting grading feedback
	StatusAccepted int = 3  // terminal, archive only
)

// Delivery is an in-flight delivery request submitted by a supplier.
// PO stays 0 until the request is approved (or immediately for trusted
// suppliers). Reference IDs are resolved to display names only when
// building response and notification payloads.
type Delivery struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"userId"`
	PO           int            `gorm:"not null;default:0;index" json:"po"`
	MaterialID   uuid.UUID      `gorm:"type:uuid;not null" json:"material"`
	PackagingID  uuid.UUID      `gorm:"type:uuid;not null" json:"packaging"`
	ColorID      uuid.UUID      `gorm:"type:uuid" json:"color"`
	ResidueID    uuid.UUID      `gorm:"type:uuid" json:"residue"`
	ConditionID  uuid.UUID      `gorm:"type:uuid" json:"condition"`
	Weight       float64        `gorm:"not null" json:"weight"`
	CountPackage int            `gorm:"not null" json:"countpackage"`
	Price        float64        `gorm:"not null;default:0" json:"price"`
	Status       int            `gorm:"not null;default:0;index" json:"status"`
	Date         string         `gorm:"size:10;not null" json:"date"`
	Time         int            `gorm:"not null" json:"time"`
	Other        string         `gorm:"type:text" json:"other"`
	Images       pq.StringArray `gorm:"type:text[]" json:"images"`
	SdsPath      string         `gorm:"size:512" json:"sdsPath"`

	// Read batches unseen requests for the admin notification badge.
	Read bool `gorm:"not null;default:false;index" json:"read"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *Delivery) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}

// DeliveryLog is the terminal snapshot of a delivery. Rows are written
// exactly once, by the archive move, and never transition afterwards.
type DeliveryLog struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"userId"`
	PO           int            `gorm:"not null;default:0;index" json:"po"`
	MaterialID   uuid.UUID      `gorm:"type:uuid;not null" json:"material"`
	PackagingID  uuid.UUID      `gorm:"type:uuid;not null" json:"packaging"`
	ColorID      uuid.UUID      `gorm:"type:uuid" json:"color"`
	ResidueID    uuid.UUID      `gorm:"type:uuid" json:"residue"`
	ConditionID  uuid.UUID      `gorm:"type:uuid" json:"condition"`
	Weight       float64        `gorm:"not null" json:"weight"`
	CountPackage int            `gorm:"not null" json:"countpackage"`
	Price        float64        `gorm:"not null;default:0" json:"price"`
	Status       int            `gorm:"not null;index" json:"status"`
	Date         string         `gorm:"size:10;not null" json:"date"`
	Time         int            `gorm:"not null" json:"time"`
	Other        string         `gorm:"type:text" json:"other"`
	Images       pq.StringArray `gorm:"type:text[]" json:"images"`
	SdsPath      string         `gorm:"size:512" json:"sdsPath"`

	// Outcome enrichment. TareAmount and NetAmount are only meaningful
	// on the accepted path; Feedback doubles as the rejection reason.
	TareAmount     float64        `gorm:"not null;default:0" json:"tareamount"`
	NetAmount      float64        `gorm:"not null;default:0" json:"netamount"`
	QualityID      *uuid.UUID     `gorm:"type:uuid" json:"quality"`
	Inspection     string         `gorm:"type:text" json:"inspection"`
	Feedback       string         `gorm:"type:text" json:"feedback"`
	FeedbackImages pq.StringArray `gorm:"type:text[]" json:"feedbackImages"`

	CreatedAt  time.Time `json:"createdAt"`
	ArchivedAt time.Time `json:"archivedAt"`
}

func (l *DeliveryLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.ArchivedAt.IsZero() {
		l.ArchivedAt = time.Now()
	}
	return
}

// POCounter serializes purchase-order assignment. One row per
// two-digit year band; Value is the highest PO handed out in the band.
type POCounter struct {
	YearBand int `gorm:"primaryKey;autoIncrement:false" json:"yearBand"`
	Value    int `gorm:"not null" json:"value"`
}

func (POCounter) TableName() string { return "po_counters" }
