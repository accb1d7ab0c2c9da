// handlers/delivery.go
//
// HTTP surface for the delivery lifecycle. Parsing and response
// shaping live here; every state transition is delegated to
// pkg/delivery.Service.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wittycoder91/DeliveryBackend/middleware"
	"github.com/wittycoder91/DeliveryBackend/models"
	"github.com/wittycoder91/DeliveryBackend/pkg/delivery"
)

type DeliveryHandler struct {
	svc   *delivery.Service
	files FileStore
	log   *zap.Logger
}

func NewDeliveryHandler(svc *delivery.Service, files FileStore, log *zap.Logger) *DeliveryHandler {
	return &DeliveryHandler{svc: svc, files: files, log: log}
}

// AddDelivery accepts a supplier's multipart submission: form fields
// plus optional image files and one optional safety data sheet.
func (h *DeliveryHandler) AddDelivery(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == uuid.Nil {
		writeFailure(w, "No token provided.")
		return
	}

	if err := r.ParseMultipartForm(50 << 20); err != nil {
		writeFailure(w, "bad multipart form: "+err.Error())
		return
	}

	weight, _ := strconv.ParseFloat(r.FormValue("weight"), 64)
	countPackage, _ := strconv.Atoi(r.FormValue("countpackage"))
	timeSlot, _ := strconv.Atoi(r.FormValue("time"))

	in := delivery.CreateInput{
		UserID:       userID,
		MaterialID:   parseUUID(r.FormValue("material")),
		PackagingID:  parseUUID(r.FormValue("packaging")),
		ColorID:      parseUUID(r.FormValue("color")),
		ResidueID:    parseUUID(r.FormValue("residue")),
		ConditionID:  parseUUID(r.FormValue("condition")),
		Weight:       weight,
		CountPackage: countPackage,
		Date:         r.FormValue("date"),
		Time:         timeSlot,
		Other:        r.FormValue("other"),
	}

	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["image"] {
			path, err := saveUpload(h.files, r.Context(), fh, "images/delivery")
			if err != nil {
				writeFailure(w, "file upload failed: "+err.Error())
				return
			}
			in.Images = append(in.Images, path)
		}
		if fhs := r.MultipartForm.File["sds"]; len(fhs) > 0 {
			path, err := saveUpload(h.files, r.Context(), fhs[0], "sds")
			if err != nil {
				writeFailure(w, "file upload failed: "+err.Error())
				return
			}
			in.SdsPath = path
		}
	}

	d, err := h.svc.Create(r.Context(), in)
	writeOutcome(w, err, "The delivery request added successfully", d)
}

type updateDeliveryReq struct {
	SelDeliveryID string   `json:"selDeliveryId"`
	Status        int      `json:"status"`
	Price         *float64 `json:"price"`
}

// UpdateSelDelivery is the admin transition endpoint. The client
// sends the status it is looking at: -1 cancels (archive move), 0 or
// 1 advances one step.
func (h *DeliveryHandler) UpdateSelDelivery(w http.ResponseWriter, r *http.Request) {
	var req updateDeliveryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "invalid JSON")
		return
	}
	id := parseUUID(req.SelDeliveryID)
	if id == uuid.Nil {
		writeFailure(w, "invalid delivery id")
		return
	}

	if req.Status == models.StatusRejected {
		l, err := h.svc.Cancel(r.Context(), id)
		writeOutcome(w, err, "Your delivery request status has been successfully updated.", l)
		return
	}

	d, err := h.svc.Advance(r.Context(), id, req.Status, req.Price)
	writeOutcome(w, err, "Your delivery request status has been successfully updated.", d)
}

type rejectDeliveryReq struct {
	SelDeliveryID string   `json:"selDeliveryId"`
	Reason        string   `json:"reason"`
	Images        []string `json:"images"`
}

// RejectDelivery archives a delivery with a reason and any evidence
// images already uploaded through the file endpoint.
func (h *DeliveryHandler) RejectDelivery(w http.ResponseWriter, r *http.Request) {
	var req rejectDeliveryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "invalid JSON")
		return
	}
	id := parseUUID(req.SelDeliveryID)
	if id == uuid.Nil {
		writeFailure(w, "invalid delivery id")
		return
	}

	l, err := h.svc.Reject(r.Context(), id, req.Reason, req.Images)
	writeOutcome(w, err, "Your delivery request status has been successfully updated.", l)
}

type feedbackReq struct {
	SelID          string   `json:"selID"`
	TotalAmount    float64  `json:"curDeliveryAmount"`
	TareAmount     float64  `json:"curTareAmount"`
	Quality        string   `json:"curQuality"`
	CountPackage   int      `json:"curCountPackage"`
	Packaging      string   `json:"curPackaging"`
	Inspection     string   `json:"curInspection"`
	Feedback       string   `json:"curDeliveryFeedback"`
	FeedbackImages []string `json:"feedbackImages"`
}

// AddDeliveryFeedback closes out a received delivery: grading, tare
// settlement, loyalty recompute and the archive move.
func (h *DeliveryHandler) AddDeliveryFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "invalid JSON")
		return
	}
	id := parseUUID(req.SelID)
	if id == uuid.Nil {
		writeFailure(w, "invalid delivery id")
		return
	}

	in := delivery.FeedbackInput{
		ID:             id,
		TotalAmount:    req.TotalAmount,
		TareAmount:     req.TareAmount,
		CountPackage:   req.CountPackage,
		PackagingID:    parseUUID(req.Packaging),
		Inspection:     req.Inspection,
		Feedback:       req.Feedback,
		FeedbackImages: req.FeedbackImages,
	}
	if q := parseUUID(req.Quality); q != uuid.Nil {
		in.QualityID = &q
	}

	l, err := h.svc.AcceptWithFeedback(r.Context(), in)
	writeOutcome(w, err, "Your delivery request status has been successfully updated.", l)
}

type rescheduleReq struct {
	SelDeliveryID string `json:"selDeliveryId"`
	UpdateDate    string `json:"updateDate"`
	UpdateTime    int    `json:"updateTime"`
}

// UpdateUserSelDelivery lets a supplier reschedule an active
// delivery. No status change.
func (h *DeliveryHandler) UpdateUserSelDelivery(w http.ResponseWriter, r *http.Request) {
	var req rescheduleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "invalid JSON")
		return
	}
	id := parseUUID(req.SelDeliveryID)
	if id == uuid.Nil {
		writeFailure(w, "invalid delivery id")
		return
	}

	d, err := h.svc.Reschedule(r.Context(), id, req.UpdateDate, req.UpdateTime)
	writeOutcome(w, err, "Your delivery data has been successfully updated.", d)
}

// SetReadDelivery flips the unread badge batch to read.
func (h *DeliveryHandler) SetReadDelivery(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.MarkAllRead(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, strconv.FormatInt(n, 10)+" documents were updated successfully.", nil)
}

func parseUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
