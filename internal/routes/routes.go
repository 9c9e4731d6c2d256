package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"syndic-reconciliation-backend/internal/config"
	handler "syndic-reconciliation-backend/internal/handlers"
	"syndic-reconciliation-backend/internal/repository"
	service "syndic-reconciliation-backend/internal/services/reconciliation"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, log *zap.Logger, cfg config.Config) {
	txRepo := repository.NewBankTransactionRepository(db)
	targetRepo := repository.NewTargetRepository(db)
	recordRepo := repository.NewReconciliationRepository(db)

	reconService := service.NewService(db, txRepo, targetRepo, recordRepo, log, cfg.AutoMatchBatchLimit)
	reconHandler := handler.NewReconciliationHandler(reconService, cfg.AutoMatchMinConfidence)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Condominium-scoped reconciliation routes
	recon := api.Group("/condominiums/:condoId/reconciliation")
	recon.GET("/queue", reconHandler.GetQueue)
	recon.GET("/candidates/:txId", reconHandler.GetCandidates)
	recon.GET("/history", reconHandler.GetHistory)
	recon.GET("/stats", reconHandler.GetStats)
	recon.POST("", reconHandler.ConfirmMatch)
	recon.POST("/auto-match", reconHandler.AutoMatch)

	// Record-level routes
	records := api.Group("/reconciliations")
	records.POST("/:id/reject", reconHandler.RejectRecord)
	records.POST("/:id/ignore", reconHandler.IgnoreRecord)
	records.DELETE("/:id", reconHandler.DeleteRecord)
}
