package main

import (
	"log"
	"time"

	"syndic-reconciliation-backend/internal/config"
	"syndic-reconciliation-backend/internal/logging"
	"syndic-reconciliation-backend/internal/models"
	"syndic-reconciliation-backend/internal/repository"
	"syndic-reconciliation-backend/internal/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	cfg := config.Load()

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	db := config.InitDB(cfg)

	db.AutoMigrate(
		&models.BankTransaction{},
		&models.Invoice{},
		&models.UtilityBill{},
		&models.FundCallItem{},
		&models.Payment{},
		&models.Reconciliation{},
		&models.MatchAuditLog{},
	)
	if err := repository.EnsureIndexes(db); err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, logger, cfg)

	r.Run(":" + cfg.Port)
}
