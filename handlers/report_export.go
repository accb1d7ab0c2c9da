// handlers/report_export.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wittycoder91/DeliveryBackend/models"
)

// ExportHandler produces the downloadable XLSX of the delivery
// archive, honoring the same filters the listing screen uses.
type ExportHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewExportHandler(db *gorm.DB, log *zap.Logger) *ExportHandler {
	return &ExportHandler{db: db, log: log}
}

var exportHeaders = []string{
	"PO", "Supplier", "Material", "Packaging", "Packages", "Status",
	"Weight", "Tare", "Net Weight", "Price", "Quality", "Date", "Archived",
}

// ExportDeliveryLogs streams the filtered archive as an .xlsx
// attachment. No pagination; the export is the whole filtered set.
func (h *ExportHandler) ExportDeliveryLogs(w http.ResponseWriter, r *http.Request) {
	p := models.ParseListParams(r)

	q := h.db.Table("delivery_logs").
		Select(`delivery_logs.*,
			users.name AS user_name,
			materials.material_name AS material_name,
			packagings.name AS packaging_name,
			qualities.name AS quality_name`).
		Joins("LEFT JOIN users ON users.id = delivery_logs.user_id").
		Joins("LEFT JOIN materials ON materials.id = delivery_logs.material_id").
		Joins("LEFT JOIN packagings ON packagings.id = delivery_logs.packaging_id").
		Joins("LEFT JOIN qualities ON qualities.id = delivery_logs.quality_id")
	q = applyListFilters(q, "delivery_logs", p)

	type exportRow struct {
		models.DeliveryLog `gorm:"embedded"`
		UserName           string
		MaterialName       string
		PackagingName      string
		QualityName        string
	}
	var rows []exportRow
	if err := q.Order("delivery_logs.archived_at DESC").Scan(&rows).Error; err != nil {
		writeError(w, err)
		return
	}

	f := excelize.NewFile()
	sheet := "Delivery Logs"
	index, err := f.NewSheet(sheet)
	if err != nil {
		writeError(w, err)
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	for i, hdr := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, hdr)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	f.SetColWidth(sheet, "A", "M", 16)

	statusLabel := func(s int) string {
		switch s {
		case models.StatusAccepted:
			return "Accepted"
		case models.StatusRejected:
			return "Rejected"
		default:
			return strconv.Itoa(s)
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.PO,
			row.UserName,
			row.MaterialName,
			row.PackagingName,
			row.CountPackage,
			statusLabel(row.Status),
			row.Weight,
			row.TareAmount,
			row.NetAmount,
			row.Price,
			row.QualityName,
			row.Date,
			row.ArchivedAt.Format("2006-01-02 15:04:05"),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("delivery_logs_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}
