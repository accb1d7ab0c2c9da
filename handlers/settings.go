// handlers/settings.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wittycoder91/DeliveryBackend/middleware"
	"github.com/wittycoder91/DeliveryBackend/models"
)

// SettingsHandler covers the management surface around the delivery
// flow: the settings singleton, supplier administration, reference
// table CRUD and supplier profiles.
type SettingsHandler struct {
	db    *gorm.DB
	files FileStore
	log   *zap.Logger
}

func NewSettingsHandler(db *gorm.DB, files FileStore, log *zap.Logger) *SettingsHandler {
	return &SettingsHandler{db: db, files: files, log: log}
}

func (h *SettingsHandler) loadSettings() (*models.Setting, error) {
	var s models.Setting
	if err := h.db.First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSettings returns the singleton row. Public fields only feed the
// site footer and the submission form's time slots.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.loadSettings()
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Success!", s)
}

// UpdateSettings overwrites the singleton, loyalty thresholds
// included. Tier recomputation only happens on the next acceptance;
// existing tiers are not retrofitted.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.loadSettings()
	if err != nil {
		writeError(w, err)
		return
	}

	var req models.Setting
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "invalid JSON")
		return
	}
	req.ID = s.ID

	if err := h.db.Save(&req).Error; err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Settings updated successfully", req)
}

// --- suppliers ---

// GetSuppliers is the paged admin listing with name/email search.
func (h *SettingsHandler) GetSuppliers(w http.ResponseWriter, r *http.Request) {
	p := models.ParseListParams(r)

	q := h.db.Model(&models.User{})
	if p.Search != "" {
		like := "%" + p.Search + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		writeError(w, err)
		return
	}

	var users []models.User
	err := q.Order("created_at DESC").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&users).Error
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, users, total)
}

// GetAllSuppliers feeds the filter dropdowns, unpaged.
func (h *SettingsHandler) GetAllSuppliers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.db.Select("id", "name").Order("name").Find(&users).Error; err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Success!", users)
}

type supplierUpdateReq struct {
	SupplierID string   `json:"selID"`
	Trust      *int     `json:"trust"`
	Price      *float64 `json:"price"`
}

// UpdateSupplier flips trust and sets the pre-negotiated price. Trust
// only affects deliveries submitted after the change.
func (h *SettingsHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "invalid JSON")
		return
	}
	id := parseUUID(req.SupplierID)
	if id == uuid.Nil {
		writeFailure(w, "selID is required")
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeFailure(w, "Supplier not found.")
			return
		}
		writeError(w, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Trust != nil {
		if *req.Trust != 0 && *req.Trust != 1 {
			writeFailure(w, "trust must be 0 or 1")
			return
		}
		updates["trust"] = *req.Trust
	}
	if req.Price != nil {
		if *req.Price < 0 {
			writeFailure(w, "price must not be negative")
			return
		}
		updates["price"] = *req.Price
	}
	if len(updates) == 0 {
		writeSuccess(w, "Nothing to update", user)
		return
	}

	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Supplier updated successfully", user)
}

// DeleteSupplier removes the account. In-flight deliveries keep their
// rows; listings render a blank supplier name for them.
func (h *SettingsHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id := parseUUID(r.URL.Query().Get("selID"))
	if id == uuid.Nil {
		writeFailure(w, "selID is required")
		return
	}
	res := h.db.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		writeError(w, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		writeFailure(w, "Supplier not found.")
		return
	}
	writeSuccess(w, "Supplier removed successfully", nil)
}

// --- materials ---

func (h *SettingsHandler) GetMaterials(w http.ResponseWriter, r *http.Request) {
	p := models.ParseListParams(r)

	q := h.db.Model(&models.Material{})
	if p.Search != "" {
		like := "%" + p.Search + "%"
		q = q.Where("material_name ILIKE ? OR material_desc ILIKE ?", like, like)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		writeError(w, err)
		return
	}

	var materials []models.Material
	err := q.Order("created_at DESC").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&materials).Error
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, materials, total)
}

// GetAllMaterials feeds dropdowns, unpaged.
func (h *SettingsHandler) GetAllMaterials(w http.ResponseWriter, r *http.Request) {
	var materials []models.Material
	if err := h.db.Order("material_name").Find(&materials).Error; err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Success!", materials)
}

type materialReq struct {
	SelID        string `json:"selID"`
	MaterialName string `json:"materialName"`
	MaterialDesc string `json:"materialDesc"`
	Note         string `json:"note"`
}

func (h *SettingsHandler) AddMaterial(w http.ResponseWriter, r *http.Request) {
	var req materialReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "invalid JSON")
		return
	}
	if req.MaterialName == "" {
		writeFailure(w, "materialName is required")
		return
	}
	m := models.Material{MaterialName: req.MaterialName, MaterialDesc: req.MaterialDesc, Note: req.Note}
	if err := h.db.Create(&m).Error; err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Material added successfully", m)
}

func (h *SettingsHandler) UpdateMaterial(w http.ResponseWriter, r *http.Request) {
	var req materialReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "invalid JSON")
		return
	}
	id := parseUUID(req.SelID)
	if id == uuid.Nil {
		writeFailure(w, "selID is required")
		return
	}
	res := h.db.Model(&models.Material{}).Where("id = ?", id).Updates(map[string]interface{}{
		"material_name": req.MaterialName,
		"material_desc": req.MaterialDesc,
		"note":          req.Note,
	})
	if res.Error != nil {
		writeError(w, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		writeFailure(w, "Material not found.")
		return
	}
	writeSuccess(w, "Material updated successfully", nil)
}

func (h *SettingsHandler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	id := parseUUID(r.URL.Query().Get("selID"))
	if id == uuid.Nil {
		writeFailure(w, "selID is required")
		return
	}
	res := h.db.Delete(&models.Material{}, "id = ?", id)
	if res.Error != nil {
		writeError(w, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		writeFailure(w, "Material not found.")
		return
	}
	writeSuccess(w, "Material removed successfully", nil)
}

// --- FAQs ---

func (h *SettingsHandler) GetFAQs(w http.ResponseWriter, r *http.Request) {
	p := models.ParseListParams(r)

	q := h.db.Model(&models.FAQ{})
	if p.Search != "" {
		like := "%" + p.Search + "%"
		q = q.Where("title ILIKE ? OR content ILIKE ?", like, like)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		writeError(w, err)
		return
	}

	var faqs []models.FAQ
	err := q.Order("created_at DESC").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&faqs).Error
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, faqs, total)
}

// GetAllFAQs is the public, unpaged variant for the help page.
func (h *SettingsHandler) GetAllFAQs(w http.ResponseWriter, r *http.Request) {
	var faqs []models.FAQ
	if err := h.db.Order("created_at").Find(&faqs).Error; err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Success!", faqs)
}

type faqReq struct {
	SelID   string `json:"selID"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *SettingsHandler) AddFAQ(w http.ResponseWriter, r *http.Request) {
	var req faqReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "invalid JSON")
		return
	}
	if req.Title == "" {
		writeFailure(w, "title is required")
		return
	}
	f := models.FAQ{Title: req.Title, Content: req.Content}
	if err := h.db.Create(&f).Error; err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "FAQ added successfully", f)
}

func (h *SettingsHandler) UpdateFAQ(w http.ResponseWriter, r *http.Request) {
	var req faqReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "invalid JSON")
		return
	}
	id := parseUUID(req.SelID)
	if id == uuid.Nil {
		writeFailure(w, "selID is required")
		return
	}
	res := h.db.Model(&models.FAQ{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":   req.Title,
		"content": req.Content,
	})
	if res.Error != nil {
		writeError(w, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		writeFailure(w, "FAQ not found.")
		return
	}
	writeSuccess(w, "FAQ updated successfully", nil)
}

func (h *SettingsHandler) DeleteFAQ(w http.ResponseWriter, r *http.Request) {
	id := parseUUID(r.URL.Query().Get("selID"))
	if id == uuid.Nil {
		writeFailure(w, "selID is required")
		return
	}
	res := h.db.Delete(&models.FAQ{}, "id = ?", id)
	if res.Error != nil {
		writeError(w, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		writeFailure(w, "FAQ not found.")
		return
	}
	writeSuccess(w, "FAQ removed successfully", nil)
}

// --- reference dropdowns ---

func (h *SettingsHandler) GetPackages(w http.ResponseWriter, r *http.Request) {
	var packagings []models.Packaging
	if err := h.db.Order("name").Find(&packagings).Error; err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Success!", packagings)
}

func (h *SettingsHandler) GetQualities(w http.ResponseWriter, r *http.Request) {
	var qualities []models.Quality
	if err := h.db.Order("name").Find(&qualities).Error; err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Success!", qualities)
}

func (h *SettingsHandler) GetColors(w http.ResponseWriter, r *http.Request) {
	var colors []models.Color
	if err := h.db.Order("color_name").Find(&colors).Error; err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Success!", colors)
}

func (h *SettingsHandler) GetResidues(w http.ResponseWriter, r *http.Request) {
	var residues []models.Residue
	if err := h.db.Order("residue_name").Find(&residues).Error; err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Success!", residues)
}

func (h *SettingsHandler) GetConditions(w http.ResponseWriter, r *http.Request) {
	var conditions []models.Condition
	if err := h.db.Order("condition_name").Find(&conditions).Error; err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Success!", conditions)
}

// --- supplier profile ---

// GetProfile returns the calling supplier's own account.
func (h *SettingsHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
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
	writeSuccess(w, "Success!", user)
}

// UpdateProfile edits the calling supplier's contact details and
// files. Trust, price and loyalty are admin-owned and never touched
// here.
func (h *SettingsHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == uuid.Nil {
		writeFailure(w, "invalid token subject")
		return
	}
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		writeFailure(w, "bad multipart form: "+err.Error())
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		writeError(w, err)
		return
	}

	setIf := func(dst *string, key string) {
		if v := r.FormValue(key); v != "" {
			*dst = v
		}
	}
	setIf(&user.Name, "name")
	setIf(&user.Contact, "contact")
	setIf(&user.Address, "address")
	setIf(&user.City, "city")
	setIf(&user.State, "state")
	setIf(&user.ZipCode, "zipcode")
	setIf(&user.PhoneNumber, "phonenumber")
	if id := parseUUID(r.FormValue("industry")); id != uuid.Nil {
		industry := id
		user.IndustryID = &industry
	}

	if r.MultipartForm != nil {
		if fhs := r.MultipartForm.File["avatar"]; len(fhs) > 0 {
			if path, err := saveUpload(h.files, r.Context(), fhs[0], "images/avatar"); err == nil {
				user.AvatarPath = path
			}
		}
		if fhs := r.MultipartForm.File["w9"]; len(fhs) > 0 {
			if path, err := saveUpload(h.files, r.Context(), fhs[0], "w9"); err == nil {
				user.W9Path = path
			}
		}
	}

	if err := h.db.Save(&user).Error; err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Profile updated successfully", user)
}

// GetTimeSlots exposes the receiving-dock slots for the submission
// form. Values are minutes from midnight; the client formats them.
func (h *SettingsHandler) GetTimeSlots(w http.ResponseWriter, r *http.Request) {
	s, err := h.loadSettings()
	if err != nil {
		writeError(w, err)
		return
	}
	slots := []int{s.FirstTime, s.SecondTime, s.ThirdTime, s.FourthTime}
	writeSuccess(w, "Success!", slots)
}
