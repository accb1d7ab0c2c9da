// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wittycoder91/DeliveryBackend/handlers"
	"github.com/wittycoder91/DeliveryBackend/middleware"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Delivery  *handlers.DeliveryHandler
	Query     *handlers.DeliveryQueryHandler
	Settings  *handlers.SettingsHandler
	Dashboard *handlers.DashboardHandler
	Export    *handlers.ExportHandler
	Files     *handlers.FileHandler
	Hub       *handlers.WSHub
}

// Register sets up all application routes.
func Register(auth *middleware.Auth, h Handlers, uploadDir string) http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public routes (no authentication)
	// =====================================================
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/register", h.Auth.Register).Methods("POST")
	api.HandleFunc("/login", h.Auth.Login).Methods("POST")
	api.HandleFunc("/admin-login", h.Auth.AdminLogin).Methods("POST")
	api.HandleFunc("/industries", h.Auth.GetIndustries).Methods("GET")
	api.HandleFunc("/faqs", h.Settings.GetAllFAQs).Methods("GET")
	api.HandleFunc("/setting", h.Settings.GetSettings).Methods("GET")

	r.HandleFunc("/ws", h.Hub.ServeWS)
	r.HandleFunc("/broadcast", h.Hub.HandleBroadcast).Methods("POST")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))),
	)

	// =====================================================
	// Supplier routes (require a valid token)
	// =====================================================
	user := api.PathPrefix("/user").Subrouter()
	user.Use(auth.Middleware)

	user.HandleFunc("/add-delivery", h.Delivery.AddDelivery).Methods("POST")
	user.HandleFunc("/update-sel-delivery", h.Delivery.UpdateUserSelDelivery).Methods("POST")
	user.HandleFunc("/get-deliverys", h.Query.GetUserDeliveries).Methods("GET")
	user.HandleFunc("/get-deliverylogs", h.Query.GetUserDeliveryLogs).Methods("GET")
	user.HandleFunc("/get-latest-delivery", h.Query.GetUserLatestDelivery).Methods("GET")

	user.HandleFunc("/get-profile", h.Settings.GetProfile).Methods("GET")
	user.HandleFunc("/update-profile", h.Settings.UpdateProfile).Methods("POST")
	user.HandleFunc("/get-dashboard", h.Dashboard.GetUserDashboard).Methods("GET")
	user.HandleFunc("/get-monthly", h.Dashboard.GetUserMonthly).Methods("GET")

	user.HandleFunc("/get-materials", h.Settings.GetAllMaterials).Methods("GET")
	user.HandleFunc("/get-packages", h.Settings.GetPackages).Methods("GET")
	user.HandleFunc("/get-colors", h.Settings.GetColors).Methods("GET")
	user.HandleFunc("/get-residues", h.Settings.GetResidues).Methods("GET")
	user.HandleFunc("/get-conditions", h.Settings.GetConditions).Methods("GET")
	user.HandleFunc("/get-timeslots", h.Settings.GetTimeSlots).Methods("GET")
	user.HandleFunc("/upload", h.Files.Upload).Methods("POST")

	// =====================================================
	// Admin routes (token plus admin role)
	// =====================================================
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(auth.Middleware, auth.RequireAdmin)

	admin.HandleFunc("/get-deliverys", h.Query.GetDeliveries).Methods("GET")
	admin.HandleFunc("/get-sel-delivery", h.Query.GetSelDelivery).Methods("GET")
	admin.HandleFunc("/get-latest-delivery", h.Query.GetLatestDelivery).Methods("GET")
	admin.HandleFunc("/update-sel-delivery", h.Delivery.UpdateSelDelivery).Methods("POST")
	admin.HandleFunc("/reject-sel-delivery", h.Delivery.RejectDelivery).Methods("POST")
	admin.HandleFunc("/add-feedback-delivery", h.Delivery.AddDeliveryFeedback).Methods("POST")
	admin.HandleFunc("/set-read-delivery", h.Delivery.SetReadDelivery).Methods("POST")

	admin.HandleFunc("/get-deliverylogs", h.Query.GetDeliveryLogs).Methods("GET")
	admin.HandleFunc("/get-sel-deliverylog", h.Query.GetSelDeliveryLog).Methods("GET")
	admin.HandleFunc("/export-deliverylogs", h.Export.ExportDeliveryLogs).Methods("GET")

	admin.HandleFunc("/get-suppliers", h.Settings.GetSuppliers).Methods("GET")
	admin.HandleFunc("/get-all-suppliers", h.Settings.GetAllSuppliers).Methods("GET")
	admin.HandleFunc("/update-supplier", h.Settings.UpdateSupplier).Methods("POST")
	admin.HandleFunc("/delete-supplier", h.Settings.DeleteSupplier).Methods("DELETE")

	admin.HandleFunc("/get-materials", h.Settings.GetMaterials).Methods("GET")
	admin.HandleFunc("/get-all-materials", h.Settings.GetAllMaterials).Methods("GET")
	admin.HandleFunc("/add-material", h.Settings.AddMaterial).Methods("POST")
	admin.HandleFunc("/update-material", h.Settings.UpdateMaterial).Methods("POST")
	admin.HandleFunc("/delete-material", h.Settings.DeleteMaterial).Methods("DELETE")

	admin.HandleFunc("/get-faqs", h.Settings.GetFAQs).Methods("GET")
	admin.HandleFunc("/add-faq", h.Settings.AddFAQ).Methods("POST")
	admin.HandleFunc("/update-faq", h.Settings.UpdateFAQ).Methods("POST")
	admin.HandleFunc("/delete-faq", h.Settings.DeleteFAQ).Methods("DELETE")

	admin.HandleFunc("/get-packages", h.Settings.GetPackages).Methods("GET")
	admin.HandleFunc("/get-qualities", h.Settings.GetQualities).Methods("GET")
	admin.HandleFunc("/get-colors", h.Settings.GetColors).Methods("GET")
	admin.HandleFunc("/get-residues", h.Settings.GetResidues).Methods("GET")
	admin.HandleFunc("/get-conditions", h.Settings.GetConditions).Methods("GET")

	admin.HandleFunc("/get-setting", h.Settings.GetSettings).Methods("GET")
	admin.HandleFunc("/update-setting", h.Settings.UpdateSettings).Methods("POST")

	admin.HandleFunc("/get-dashboard", h.Dashboard.GetAdminDashboard).Methods("GET")
	admin.HandleFunc("/get-series", h.Dashboard.GetAdminSeries).Methods("GET")
	admin.HandleFunc("/get-loyalty", h.Dashboard.GetLoyaltyDistribution).Methods("GET")

	return r
}
