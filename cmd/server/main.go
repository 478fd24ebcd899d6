package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptoguides-backend/internal/config"
	"cryptoguides-backend/internal/database"
	"cryptoguides-backend/internal/handlers"
	"cryptoguides-backend/internal/middleware"
	"cryptoguides-backend/internal/repository"
	"cryptoguides-backend/internal/router"
	"cryptoguides-backend/internal/search"
	"cryptoguides-backend/internal/services"
	"cryptoguides-backend/internal/websocket"
	"cryptoguides-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting CryptoGuides Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Step 5: Open Search Index ────
	searchIndex, err := search.Open(cfg.SearchIndexPath)
	if err != nil {
		log.Fatalf("✗ Search index open failed: %v", err)
	}
	defer searchIndex.Close()
	log.Println("✓ Search index opened")

	// ──── Initialize Repositories ────
	draftRepo := repository.NewDraftRepo(pool)
	jobRepo := repository.NewJobRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	contentClient := services.NewContentClient(cfg.ContentAPIURL, cfg.ContentAPIToken)
	uploader := services.NewImageUploader(cfg.ImageUploadURL, cfg.ContentAPIToken)
	videoService := services.NewVideoService()
	publisher := services.NewPublisherService(contentClient, jobRepo, redisClients.Queue)

	// ──── Initialize Handlers ────
	draftHandler := handlers.NewDraftHandler(draftRepo, publisher)
	editorHandler := handlers.NewEditorHandler(draftRepo, publisher)
	imageHandler := handlers.NewImageHandler(uploader, publisher)
	searchHandler := handlers.NewSearchHandler(searchIndex)
	videoHandler := handlers.NewVideoHandler(videoService)
	jobHandler := handlers.NewJobHandler(jobRepo)

	// ──── Step 6: Start Index Worker Pool ────
	workerPool := worker.NewPool(
		redisClients.Queue,
		publisher,
		jobRepo,
		searchIndex,
		cfg.IndexWorkers,
	)
	workerPool.Start()
	log.Printf("✓ Index worker pool started (%d goroutines)", cfg.IndexWorkers)

	// ──── Step 7: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 8: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		draftHandler,
		editorHandler,
		imageHandler,
		searchHandler,
		videoHandler,
		jobHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ CryptoGuides Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
