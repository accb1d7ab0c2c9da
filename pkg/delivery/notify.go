// pkg/delivery/notify.go
package delivery

import (
	"context"

	"github.com/wittycoder91/DeliveryBackend/models"
)

// Event types pushed to the realtime hub. ADD_DELIVERY carries the
// whole unread batch for the admin badge; UPDATE_DELIVERY carries the
// single record that changed.
const (
	EventAddDelivery    = "ADD_DELIVERY"
	EventUpdateDelivery = "UPDATE_DELIVERY"
)

// Event is the broadcast payload. Data holds EnrichedDelivery values
// (or one EnrichedRecord for updates) with display names resolved.
type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Count   int         `json:"count"`
	Data    interface{} `json:"data,omitempty"`
}

// Broadcaster pushes an event to the realtime notification hub.
// Implementations must not block past their own timeout; a failure
// here never rolls back the transition that produced the event.
type Broadcaster interface {
	Broadcast(ctx context.Context, ev Event) error
}

// Mailer delivers a plain-text email, fire and forget.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EnrichedDelivery is an active delivery plus the resolved display
// names the dashboard renders.
type EnrichedDelivery struct {
	models.Delivery
	UserName      string `json:"userName"`
	MaterialName  string `json:"materialName"`
	PackagingName string `json:"packagingName"`
}

// EnrichedLog is an archived record plus resolved display names.
type EnrichedLog struct {
	models.DeliveryLog
	UserName      string `json:"userName"`
	MaterialName  string `json:"materialName"`
	PackagingName string `json:"packagingName"`
}
