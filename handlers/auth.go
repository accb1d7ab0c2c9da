// handlers/auth.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/wittycoder91/DeliveryBackend/middleware"
	"github.com/wittycoder91/DeliveryBackend/models"
)

type AuthHandler struct {
	db    *gorm.DB
	auth  *middleware.Auth
	files FileStore
	log   *zap.Logger
}

func NewAuthHandler(db *gorm.DB, auth *middleware.Auth, files FileStore, log *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, auth: auth, files: files, log: log}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a supplier by email and password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "invalid JSON")
		return
	}

	var user models.User
	err := h.db.Where("email = ?", req.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeFailure(w, "User doesn't exist in the database")
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeFailure(w, "Invalid password")
		return
	}

	token, err := h.auth.GenerateToken(user.ID.String(), user.Name, "user")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Logged in successfully",
		Data:    map[string]interface{}{"token": token, "user": user},
	})
}

// Register creates a supplier account. New suppliers start untrusted
// with zero cumulative weight and tier 0; multipart because avatar
// and W-9 files arrive with the form.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		writeFailure(w, "bad multipart form: "+err.Error())
		return
	}

	email := r.FormValue("email")
	var existing models.User
	if err := h.db.Where("email = ?", email).First(&existing).Error; err == nil {
		writeFailure(w, "User already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.FormValue("password")), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, err)
		return
	}

	user := models.User{
		Name:         r.FormValue("name"),
		Contact:      r.FormValue("contact"),
		Email:        email,
		PasswordHash: string(hash),
		Address:      r.FormValue("address"),
		City:         r.FormValue("city"),
		State:        r.FormValue("state"),
		ZipCode:      r.FormValue("zipcode"),
		PhoneNumber:  r.FormValue("phonenumber"),
	}
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

	if err := h.db.Create(&user).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			writeFailure(w, "User already exists")
			return
		}
		writeError(w, err)
		return
	}
	writeSuccess(w, "Registered successfully", nil)
}

type adminLoginReq struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

// AdminLogin authenticates a staff account by its login id.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "invalid JSON")
		return
	}

	var admin models.Admin
	err := h.db.Where("user_id = ?", req.UserID).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeFailure(w, "User doesn't exist in the database")
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		writeFailure(w, "Invalid userId or password")
		return
	}

	token, err := h.auth.GenerateToken(admin.ID.String(), admin.UserID, "admin")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Logged in successfully",
		Data:    map[string]interface{}{"token": token},
	})
}

// GetIndustries lists the industry reference table for the signup
// form. Public.
func (h *AuthHandler) GetIndustries(w http.ResponseWriter, r *http.Request) {
	var industries []models.Industry
	if err := h.db.Find(&industries).Error; err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Success!", industries)
}
