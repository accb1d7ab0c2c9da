// handlers/delivery_query.go
package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wittycoder91/DeliveryBackend/middleware"
	"github.com/wittycoder91/DeliveryBackend/models"
)

// DeliveryQueryHandler serves the read side: paged listings, detail
// lookups and the latest-delivery shortcut. It queries gorm directly
// rather than going through the transition service.
type DeliveryQueryHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewDeliveryQueryHandler(db *gorm.DB, log *zap.Logger) *DeliveryQueryHandler {
	return &DeliveryQueryHandler{db: db, log: log}
}

// deliveryRow is a delivery joined with the display names the client
// renders in place of the reference IDs.
type deliveryRow struct {
	models.Delivery `gorm:"embedded"`
	UserName        string `json:"username"`
	MaterialName    string `json:"materialName"`
	PackagingName   string `json:"package"`
}

type logRow struct {
	models.DeliveryLog `gorm:"embedded"`
	UserName           string `json:"username"`
	MaterialName       string `json:"materialName"`
	PackagingName      string `json:"package"`
}

func (h *DeliveryQueryHandler) deliveryQuery() *gorm.DB {
	return h.db.Table("deliveries").
		Select("deliveries.*, users.name AS user_name, materials.material_name AS material_name, packagings.name AS packaging_name").
		Joins("LEFT JOIN users ON users.id = deliveries.user_id").
		Joins("LEFT JOIN materials ON materials.id = deliveries.material_id").
		Joins("LEFT JOIN packagings ON packagings.id = deliveries.packaging_id")
}

func (h *DeliveryQueryHandler) logQuery() *gorm.DB {
	return h.db.Table("delivery_logs").
		Select("delivery_logs.*, users.name AS user_name, materials.material_name AS material_name, packagings.name AS packaging_name").
		Joins("LEFT JOIN users ON users.id = delivery_logs.user_id").
		Joins("LEFT JOIN materials ON materials.id = delivery_logs.material_id").
		Joins("LEFT JOIN packagings ON packagings.id = delivery_logs.packaging_id")
}

// applyListFilters narrows a joined query by the shared listing
// params. "0" means the filter dropdown is on its all-entries option.
func applyListFilters(q *gorm.DB, table string, p models.ListParams) *gorm.DB {
	if p.Supplier != "" && p.Supplier != "0" {
		q = q.Where(table+".user_id = ?", p.Supplier)
	}
	if p.Material != "" && p.Material != "0" {
		q = q.Where(table+".material_id = ?", p.Material)
	}
	if p.Packaging != "" && p.Packaging != "0" {
		q = q.Where(table+".packaging_id = ?", p.Packaging)
	}
	if p.Search != "" {
		like := "%" + p.Search + "%"
		q = q.Where("CAST("+table+".po AS TEXT) ILIKE ? OR users.name ILIKE ? OR materials.material_name ILIKE ? OR packagings.name ILIKE ?",
			like, like, like, like)
	}
	return q
}

// GetDeliveries is the admin listing over in-flight deliveries,
// filtered, searched and paged.
func (h *DeliveryQueryHandler) GetDeliveries(w http.ResponseWriter, r *http.Request) {
	p := models.ParseListParams(r)

	q := applyListFilters(h.deliveryQuery(), "deliveries", p)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		writeError(w, err)
		return
	}

	var rows []deliveryRow
	err := q.Order("deliveries.created_at DESC").
		Limit(p.PerPage).Offset(p.Offset()).
		Scan(&rows).Error
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, rows, total)
}

// GetSelDelivery returns one in-flight delivery with display names.
func (h *DeliveryQueryHandler) GetSelDelivery(w http.ResponseWriter, r *http.Request) {
	id := parseUUID(r.URL.Query().Get("selDeliveryId"))
	if id == uuid.Nil {
		writeFailure(w, "selDeliveryId is required")
		return
	}

	var row deliveryRow
	err := h.deliveryQuery().Where("deliveries.id = ?", id).Scan(&row).Error
	if err != nil {
		writeError(w, err)
		return
	}
	if row.ID == uuid.Nil {
		writeFailure(w, "Delivery not found.")
		return
	}
	writeSuccess(w, "Success!", row)
}

// GetLatestDelivery returns the most recently submitted delivery,
// optionally scoped to one supplier via curSupplier.
func (h *DeliveryQueryHandler) GetLatestDelivery(w http.ResponseWriter, r *http.Request) {
	q := h.deliveryQuery()
	if s := r.URL.Query().Get("curSupplier"); s != "" && s != "0" {
		q = q.Where("deliveries.user_id = ?", s)
	}

	var row deliveryRow
	err := q.Order("deliveries.created_at DESC").Limit(1).Scan(&row).Error
	if err != nil {
		writeError(w, err)
		return
	}
	if row.ID == uuid.Nil {
		writeSuccess(w, "No deliveries yet", nil)
		return
	}
	writeSuccess(w, "Success!", row)
}

// GetUserLatestDelivery returns the calling supplier's most recent
// submission. The supplier comes from the token, never from the query
// string, so one supplier cannot read another's deliveries.
func (h *DeliveryQueryHandler) GetUserLatestDelivery(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == uuid.Nil {
		writeFailure(w, "invalid token subject")
		return
	}

	var row deliveryRow
	err := h.deliveryQuery().
		Where("deliveries.user_id = ?", userID).
		Order("deliveries.created_at DESC").Limit(1).
		Scan(&row).Error
	if err != nil {
		writeError(w, err)
		return
	}
	if row.ID == uuid.Nil {
		writeSuccess(w, "No deliveries yet", nil)
		return
	}
	writeSuccess(w, "Success!", row)
}

// GetUserDeliveries lists the calling supplier's own in-flight
// deliveries, paged.
func (h *DeliveryQueryHandler) GetUserDeliveries(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == uuid.Nil {
		writeFailure(w, "invalid token subject")
		return
	}
	p := models.ParseListParams(r)

	q := h.deliveryQuery().Where("deliveries.user_id = ?", userID)
	if p.Search != "" {
		like := "%" + p.Search + "%"
		q = q.Where("CAST(deliveries.po AS TEXT) ILIKE ? OR materials.material_name ILIKE ? OR packagings.name ILIKE ?",
			like, like, like)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		writeError(w, err)
		return
	}

	var rows []deliveryRow
	err := q.Order("deliveries.created_at DESC").
		Limit(p.PerPage).Offset(p.Offset()).
		Scan(&rows).Error
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, rows, total)
}

// GetDeliveryLogs is the admin listing over the archive.
func (h *DeliveryQueryHandler) GetDeliveryLogs(w http.ResponseWriter, r *http.Request) {
	p := models.ParseListParams(r)

	q := applyListFilters(h.logQuery(), "delivery_logs", p)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		writeError(w, err)
		return
	}

	var rows []logRow
	err := q.Order("delivery_logs.archived_at DESC").
		Limit(p.PerPage).Offset(p.Offset()).
		Scan(&rows).Error
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, rows, total)
}

// GetSelDeliveryLog returns one archived delivery with display names.
func (h *DeliveryQueryHandler) GetSelDeliveryLog(w http.ResponseWriter, r *http.Request) {
	id := parseUUID(r.URL.Query().Get("selDeliveryLogId"))
	if id == uuid.Nil {
		writeFailure(w, "selDeliveryLogId is required")
		return
	}

	var row logRow
	err := h.logQuery().Where("delivery_logs.id = ?", id).Scan(&row).Error
	if err != nil {
		writeError(w, err)
		return
	}
	if row.ID == uuid.Nil {
		writeFailure(w, "Delivery not found.")
		return
	}
	writeSuccess(w, "Success!", row)
}

// GetUserDeliveryLogs lists the calling supplier's archived
// deliveries, paged.
func (h *DeliveryQueryHandler) GetUserDeliveryLogs(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == uuid.Nil {
		writeFailure(w, "invalid token subject")
		return
	}
	p := models.ParseListParams(r)

	q := h.logQuery().Where("delivery_logs.user_id = ?", userID)
	if p.Search != "" {
		like := "%" + p.Search + "%"
		q = q.Where("CAST(delivery_logs.po AS TEXT) ILIKE ? OR materials.material_name ILIKE ? OR packagings.name ILIKE ?",
			like, like, like)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		writeError(w, err)
		return
	}

	var rows []logRow
	err := q.Order("delivery_logs.archived_at DESC").
		Limit(p.PerPage).Offset(p.Offset()).
		Scan(&rows).Error
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, rows, total)
}
