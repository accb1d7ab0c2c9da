// pkg/delivery/store.go
package delivery

import (
	"context"

	"github.com/google/uuid"

	"github.com/wittycoder91/DeliveryBackend/models"
)

// Store is everything the delivery core needs from persistence. The
// production implementation wraps a *gorm.DB (see gorm_store.go);
// tests substitute an in-memory fake.
type Store interface {
	// Transact runs fn against a transactional view of the store.
	// Every archive move and every PO assignment happens inside one
	// Transact call so a crash can never leave a delivery in both
	// tables, in neither, or hand out a duplicate PO.
	Transact(ctx context.Context, fn func(tx Store) error) error

	FindDelivery(ctx context.Context, id uuid.UUID) (*models.Delivery, error)
	CreateDelivery(ctx context.Context, d *models.Delivery) error
	SaveDelivery(ctx context.Context, d *models.Delivery) error
	DeleteDelivery(ctx context.Context, id uuid.UUID) error
	UnreadDeliveries(ctx context.Context) ([]models.Delivery, error)
	MarkDeliveriesRead(ctx context.Context) (int64, error)
	MaxActivePO(ctx context.Context) (int, error)

	InsertLog(ctx context.Context, l *models.DeliveryLog) error
	MaxArchivedPO(ctx context.Context) (int, error)

	FindSupplier(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateSupplierTotals(ctx context.Context, id uuid.UUID, totalWeight float64, loyalty int) error

	Settings(ctx context.Context) (*models.Setting, error)

	// LockCounter returns the PO counter row for a year band, locked
	// for the remainder of the surrounding transaction. The bool is
	// false when no row exists yet for the band.
	LockCounter(ctx context.Context, band int) (*models.POCounter, bool, error)
	SaveCounter(ctx context.Context, c *models.POCounter) error

	// ResolveNames looks up display names for notification payloads.
	// Missing reference rows yield empty strings, never an error.
	ResolveNames(ctx context.Context, userID, materialID, packagingID uuid.UUID) (userName, materialName, packagingName string, err error)
}
