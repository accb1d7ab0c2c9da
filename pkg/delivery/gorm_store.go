// pkg/delivery/gorm_store.go
package delivery

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wittycoder91/DeliveryBackend/models"
)

// GormStore is the production Store over Postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) Transact(ctx context.Context, fn func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (g *GormStore) FindDelivery(ctx context.Context, id uuid.UUID) (*models.Delivery, error) {
	var d models.Delivery
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (g *GormStore) CreateDelivery(ctx context.Context, d *models.Delivery) error {
	return g.db.WithContext(ctx).Create(d).Error
}

func (g *GormStore) SaveDelivery(ctx context.Context, d *models.Delivery) error {
	return g.db.WithContext(ctx).Save(d).Error
}

func (g *GormStore) DeleteDelivery(ctx context.Context, id uuid.UUID) error {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Delivery{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStore) UnreadDeliveries(ctx context.Context) ([]models.Delivery, error) {
	var out []models.Delivery
	err := g.db.WithContext(ctx).
		Where("read = ?", false).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (g *GormStore) MarkDeliveriesRead(ctx context.Context) (int64, error) {
	res := g.db.WithContext(ctx).
		Model(&models.Delivery{}).
		Where("read = ?", false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

func (g *GormStore) MaxActivePO(ctx context.Context) (int, error) {
	var maxPO int
	err := g.db.WithContext(ctx).
		Model(&models.Delivery{}).
		Select("COALESCE(MAX(po), 0)").
		Scan(&maxPO).Error
	return maxPO, err
}

func (g *GormStore) InsertLog(ctx context.Context, l *models.DeliveryLog) error {
	return g.db.WithContext(ctx).Create(l).Error
}

func (g *GormStore) MaxArchivedPO(ctx context.Context) (int, error) {
	var maxPO int
	err := g.db.WithContext(ctx).
		Model(&models.DeliveryLog{}).
		Select("COALESCE(MAX(po), 0)").
		Scan(&maxPO).Error
	return maxPO, err
}

func (g *GormStore) FindSupplier(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (g *GormStore) UpdateSupplierTotals(ctx context.Context, id uuid.UUID, totalWeight float64, loyalty int) error {
	res := g.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"total_weight": totalWeight, "loyalty": loyalty})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStore) Settings(ctx context.Context) (*models.Setting, error) {
	var s models.Setting
	err := g.db.WithContext(ctx).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LockCounter takes a FOR UPDATE lock on the band's counter row for
// the rest of the transaction, serializing PO assignment.
func (g *GormStore) LockCounter(ctx context.Context, band int) (*models.POCounter, bool, error) {
	var c models.POCounter
	err := g.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("year_band = ?", band).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &c, true, nil
}

// SaveCounter upserts the counter row. Two transactions racing to
// insert the first row of a band hit the primary key; that surfaces
// as ErrSequencingConflict so the caller can retry.
func (g *GormStore) SaveCounter(ctx context.Context, c *models.POCounter) error {
	err := g.db.WithContext(ctx).Save(c).Error
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrSequencingConflict
	}
	return err
}

func (g *GormStore) ResolveNames(ctx context.Context, userID, materialID, packagingID uuid.UUID) (string, string, string, error) {
	var userName, materialName, packagingName string

	var u models.User
	if err := g.db.WithContext(ctx).Select("name").Where("id = ?", userID).First(&u).Error; err == nil {
		userName = u.Name
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", "", err
	}

	var m models.Material
	if err := g.db.WithContext(ctx).Select("material_name").Where("id = ?", materialID).First(&m).Error; err == nil {
		materialName = m.MaterialName
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", "", err
	}

	var p models.Packaging
	if err := g.db.WithContext(ctx).Select("name").Where("id = ?", packagingID).First(&p).Error; err == nil {
		packagingName = p.Name
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", "", err
	}

	return userName, materialName, packagingName, nil
}
