package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"office-planner/docs"
	"office-planner/internal/common/config"
	"office-planner/internal/common/health"
	"office-planner/internal/common/middleware"
	"office-planner/internal/planner/handlers"
	"office-planner/internal/planner/repository"
	"office-planner/internal/planner/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Planner Service
// ============================================================

func main() {
	cfg := config.Load()

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), cfg.MigrationsPath); err != nil {
		log.Fatalf("init db: %v", err)
	}

	planner := service.NewPlanner(repo)
	plannerHandler := handlers.NewPlannerHandler(planner, docs.OpenAPI)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Office Planner",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.FrontendURL))

	// ============================================================
	// Health Check Routes
	// ============================================================

	health.NewProbes(map[string]health.Pinger{"sqlite": repo}).Register(app)

	// ============================================================
	// Planner Routes
	// ============================================================

	plannerHandler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Office Planner on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Database: %s", filepath.Clean(cfg.DBPath))

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
