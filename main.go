package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/snapmag/studio-backend/blobstore"
	"github.com/snapmag/studio-backend/config"
	"github.com/snapmag/studio-backend/database"
	"github.com/snapmag/studio-backend/handlers"
	"github.com/snapmag/studio-backend/media"
	"github.com/snapmag/studio-backend/renderer"
	"github.com/snapmag/studio-backend/repository"
	"github.com/snapmag/studio-backend/studio"
	"github.com/snapmag/studio-backend/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.StoragePath, cfg.BlobsPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	defer db.Close()

	gormDB, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize GORM database: %v", err)
	}
	if err := database.AutoMigrateModels(gormDB); err != nil {
		log.Fatalf("FATAL: Failed to migrate database models: %v", err)
	}

	itemRepo := repository.NewPhotoItemRepository(gormDB)
	tierRepo := repository.NewProductTierRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	if err := tierRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: failed to seed default product tiers: %v", err)
	}

	store, err := blobstore.NewLocalStore(cfg.BlobsPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize object store: %v", err)
	}

	normalizer := media.NewVipsNormalizer(cfg.ConversionQuality)
	defer normalizer.Shutdown()

	rend := renderer.New(renderer.NewSoftware())
	svc := studio.NewService(store, normalizer, rend, studio.Config{
		WorkingMaxSize:       cfg.WorkingMaxSize,
		WorkingQuality:       cfg.WorkingQuality,
		DisplaySize:          cfg.DisplaySize,
		DisplayQuality:       cfg.DisplayQuality,
		PrintSize:            cfg.PrintSize,
		PrintQuality:         cfg.PrintQuality,
		PreviewReferenceSize: cfg.PreviewReferenceSize,
	})

	log.Printf("Initializing rehydration worker pool (Workers: %d, Queue Size: %d)...", cfg.RehydrationWorkers, cfg.RehydrationQueueSize)
	rehydrator := workers.NewRehydrator(svc, cfg.RehydrationQueueSize, cfg.RehydrationWorkers)
	defer rehydrator.Stop()

	drafts := handlers.NewDraftRegistry()

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing blobs in: %s", cfg.BlobsPath)
	log.Printf("Working image max size (longest side): %dpx", cfg.WorkingMaxSize)
	log.Printf("Render sizes: display %dpx q%d, print %dpx q%d", cfg.DisplaySize, cfg.DisplayQuality, cfg.PrintSize, cfg.PrintQuality)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	studioHandler := &handlers.StudioHandler{Svc: svc, Drafts: drafts, Tiers: tierRepo, Items: itemRepo, OrderDB: db}
	orderHandler := &handlers.OrderHandler{DB: db, Items: itemRepo, Drafts: drafts, Rehydrator: rehydrator}
	tierHandler := &handlers.TierHandler{Tiers: tierRepo}
	userHandler := &handlers.UserHandler{Users: userRepo}
	blobHandler := &handlers.BlobHandler{Store: store}

	r.Route("/api", func(r chi.Router) {
		r.Route("/tiers", func(r chi.Router) {
			r.Get("/", tierHandler.ListTiers)
			r.Post("/", tierHandler.CreateTier)
			r.Delete("/{tier_id}", tierHandler.DeleteTier)
		})

		r.Route("/studio/drafts", func(r chi.Router) {
			r.Post("/", studioHandler.CreateDraft)
			r.Route("/{draft_id}", func(r chi.Router) {
				r.Get("/", studioHandler.GetDraft)
				r.Post("/photos", studioHandler.UploadPhotos)
				r.Post("/finalize", studioHandler.Finalize)
				r.Route("/items/{item_id}", func(r chi.Router) {
					r.Put("/", studioHandler.UpdateItem)
					r.Post("/duplicate", studioHandler.DuplicateItem)
					r.Delete("/", studioHandler.DeleteItem)
					r.Put("/position", studioHandler.ReorderItem)
				})
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.ListOrders)
			r.Route("/{order_id}", func(r chi.Router) {
				r.Get("/", orderHandler.GetOrder)
				r.Post("/reedit", orderHandler.ReEditOrder)
				r.Put("/status", orderHandler.UpdateOrderStatus)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Post("/", userHandler.CreateUser)
			r.Delete("/{user_id}", userHandler.DeleteUser)
		})

		r.Route("/blobs", func(r chi.Router) {
			r.Get("/", blobHandler.ListBlobs)
			r.Get("/{key}", blobHandler.ServeBlob)
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
