package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/wittycoder91/DeliveryBackend/config"
	"github.com/wittycoder91/DeliveryBackend/handlers"
	"github.com/wittycoder91/DeliveryBackend/middleware"
	"github.com/wittycoder91/DeliveryBackend/pkg/delivery"
	"github.com/wittycoder91/DeliveryBackend/routes"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal("could not connect to database", zap.Error(err))
	}
	defer config.CloseDatabase(db)

	if err := config.Migrations(db); err != nil {
		log.Fatal("could not run migrations", zap.Error(err))
	}
	if err := config.Seed(db, log); err != nil {
		log.Fatal("could not seed database", zap.Error(err))
	}

	var files handlers.FileStore
	if cfg.GCSBucket != "" {
		gcs, err := handlers.NewGCSFileStore(context.Background(), cfg.GCSBucket)
		if err != nil {
			log.Fatal("could not open GCS bucket", zap.Error(err))
		}
		defer gcs.Close()
		files = gcs
	} else {
		files = handlers.NewLocalFileStore(cfg.UploadDir)
	}

	auth := middleware.NewAuth(cfg.JWTSecret)
	hub := handlers.NewWSHub(log)
	broadcaster := handlers.NewBroadcastClient(cfg.BroadcastURL)
	mailer := handlers.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)

	store := delivery.NewGormStore(db)
	svc := delivery.NewService(store, delivery.NewSequencer(), broadcaster, mailer, log)

	handler := routes.Register(auth, routes.Handlers{
		Auth:      handlers.NewAuthHandler(db, auth, files, log),
		Delivery:  handlers.NewDeliveryHandler(svc, files, log),
		Query:     handlers.NewDeliveryQueryHandler(db, log),
		Settings:  handlers.NewSettingsHandler(db, files, log),
		Dashboard: handlers.NewDashboardHandler(db, log),
		Export:    handlers.NewExportHandler(db, log),
		Files:     handlers.NewFileHandler(files),
		Hub:       hub,
	}, cfg.UploadDir)

	log.Info("server starting", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, enableCORS(handler)); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, x-auth-token, X-Requested-With")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
