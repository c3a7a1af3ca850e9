package router

import (
	"net/http"

	"finance-ledger/internal/config"
	"finance-ledger/internal/handler"
	"finance-ledger/internal/middleware"
	"finance-ledger/internal/repository"
	"finance-ledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the /api routes.
func SetupRouter(cfg *config.Config, db *gorm.DB, log logrus.FieldLogger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())
	r.MaxMultipartMemory = cfg.Upload.MaxSizeMB << 20

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	store := repository.NewStore(db)
	svc := service.NewTransactionService(store, log)

	// ====== API ======
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.Auth.Secret, cfg.Auth.Issuer))

	txHandler := handler.NewTransactionHandler(svc, store, log, cfg.App.PageSize)
	api.POST("/transactions", txHandler.CreateTransaction)
	api.GET("/transactions", txHandler.ListTransactions)
	api.GET("/balance", txHandler.GetBalance)
	api.GET("/categories", txHandler.ListCategories)

	importExportHandler := handler.NewImportExportHandler(svc, store, log, cfg.Upload.Dir, cfg.Upload.MaxSizeMB)
	api.POST("/transactions/import", importExportHandler.ImportCSV)
	api.GET("/export/csv", importExportHandler.ExportCSV)
	api.GET("/export/xlsx", importExportHandler.ExportXLSX)

	return r
}
