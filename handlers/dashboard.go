// handlers/dashboard.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wittycoder91/DeliveryBackend/middleware"
	"github.com/wittycoder91/DeliveryBackend/models"
	"github.com/wittycoder91/DeliveryBackend/utils"
)

// DashboardHandler serves the aggregate widgets. All numbers come off
// the archive (accepted rows) except the waiting count, which is the
// admin's to-do queue over in-flight deliveries.
type DashboardHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewDashboardHandler(db *gorm.DB, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{db: db, log: log}
}

type seriesPoint struct {
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

// GetUserDashboard is the supplier's widget: cumulative weight,
// current tier and how much more is needed for the next one.
func (h *DashboardHandler) GetUserDashboard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == uuid.Nil {
		writeFailure(w, "invalid token subject")
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeFailure(w, "User doesn't exist in the database")
			return
		}
		writeError(w, err)
		return
	}

	var settings models.Setting
	if err := h.db.First(&settings).Error; err != nil {
		writeError(w, err)
		return
	}

	var nextThreshold float64
	switch user.Loyalty {
	case 0:
		nextThreshold = settings.LoyaltyBronze
	case 1:
		nextThreshold = settings.LoyaltySilver
	case 2:
		nextThreshold = settings.LoyaltyGolden
	}
	toNext := 0.0
	if user.Loyalty < 3 {
		toNext = utils.Round2(nextThreshold - user.TotalWeight)
		if toNext < 0 {
			toNext = 0
		}
	}

	writeSuccess(w, "Success!", map[string]interface{}{
		"totalweight": user.TotalWeight,
		"loyalty":     user.Loyalty,
		"toNextTier":  toNext,
	})
}

// GetUserMonthly returns the supplier's accepted net weight per month
// for the trailing twelve months.
func (h *DashboardHandler) GetUserMonthly(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == uuid.Nil {
		writeFailure(w, "invalid token subject")
		return
	}

	since := time.Now().AddDate(-1, 0, 0)
	var points []seriesPoint
	err := h.db.Raw(`
		SELECT to_char(archived_at, 'YYYY-MM') AS label, COALESCE(SUM(net_amount), 0) AS weight
		FROM delivery_logs
		WHERE user_id = ? AND status = ? AND archived_at >= ?
		GROUP BY 1 ORDER BY 1`,
		userID, models.StatusAccepted, since).Scan(&points).Error
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Success!", points)
}

// GetAdminDashboard is the staff widget: supplier count, total
// accepted weight and the waiting queue size.
func (h *DashboardHandler) GetAdminDashboard(w http.ResponseWriter, r *http.Request) {
	var supplierCount int64
	if err := h.db.Model(&models.User{}).Count(&supplierCount).Error; err != nil {
		writeError(w, err)
		return
	}

	var totalWeight float64
	err := h.db.Model(&models.DeliveryLog{}).
		Select("COALESCE(SUM(net_amount), 0)").
		Where("status = ?", models.StatusAccepted).
		Scan(&totalWeight).Error
	if err != nil {
		writeError(w, err)
		return
	}

	var waitingCount int64
	err = h.db.Model(&models.Delivery{}).
		Where("status = ?", models.StatusWaiting).
		Count(&waitingCount).Error
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, "Success!", map[string]interface{}{
		"supplierCount": supplierCount,
		"totalWeight":   utils.Round2(totalWeight),
		"waitingCount":  waitingCount,
	})
}

// GetAdminSeries returns accepted net weight bucketed by day, month or
// year depending on the curPeriod query value (week, month, year).
func (h *DashboardHandler) GetAdminSeries(w http.ResponseWriter, r *http.Request) {
	var since time.Time
	var format string
	switch r.URL.Query().Get("curPeriod") {
	case "week":
		since = time.Now().AddDate(0, 0, -7)
		format = "YYYY-MM-DD"
	case "year":
		since = time.Now().AddDate(-5, 0, 0)
		format = "YYYY"
	default:
		since = time.Now().AddDate(-1, 0, 0)
		format = "YYYY-MM"
	}

	var points []seriesPoint
	err := h.db.Raw(`
		SELECT to_char(archived_at, '`+format+`') AS label, COALESCE(SUM(net_amount), 0) AS weight
		FROM delivery_logs
		WHERE status = ? AND archived_at >= ?
		GROUP BY 1 ORDER BY 1`,
		models.StatusAccepted, since).Scan(&points).Error
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Success!", points)
}

type loyaltyBucket struct {
	Loyalty int   `json:"loyalty"`
	Count   int64 `json:"count"`
}

// GetLoyaltyDistribution counts suppliers per tier for the admin pie
// chart. Empty tiers come back as zero rather than being omitted.
func (h *DashboardHandler) GetLoyaltyDistribution(w http.ResponseWriter, r *http.Request) {
	var buckets []loyaltyBucket
	err := h.db.Model(&models.User{}).
		Select("loyalty, COUNT(*) AS count").
		Group("loyalty").
		Scan(&buckets).Error
	if err != nil {
		writeError(w, err)
		return
	}

	counts := make([]int64, 4)
	for _, b := range buckets {
		if b.Loyalty >= 0 && b.Loyalty <= 3 {
			counts[b.Loyalty] = b.Count
		}
	}
	writeSuccess(w, "Success!", counts)
}
