package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nvalmar/postdeck-be/internal/api"
	"github.com/nvalmar/postdeck-be/internal/auth"
	"github.com/nvalmar/postdeck-be/internal/config"
	"github.com/nvalmar/postdeck-be/internal/database"
	"github.com/nvalmar/postdeck-be/internal/logger"
	"github.com/nvalmar/postdeck-be/internal/monitoring"
	"github.com/nvalmar/postdeck-be/internal/services"
	"github.com/nvalmar/postdeck-be/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Ensure the directory holding the database file exists
	if dir := filepath.Dir(cfg.DatabasePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create database directory: %v", err)
		}
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up the token service from startup configuration. The signing key
	// is immutable for the lifetime of the process.
	tokenService := auth.NewTokenService(cfg.JWTKey, cfg.JWTIssuer, cfg.JWTAudience)

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	activityService := services.NewActivityService(db)
	userService := services.NewUserService(db, activityService)
	postService := services.NewPostService(db, activityService, hub)

	// Set up and run the background maintenance job
	maintenance := monitoring.NewMaintenance(db, cfg.MaintenanceSchedule, cfg.EventRetentionDays)
	go maintenance.Run()

	// Set up router
	router := api.NewRouter(cfg, hub, tokenService, userService, postService, activityService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	maintenance.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
