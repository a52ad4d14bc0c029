package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "backoffice-recon/docs"
	"backoffice-recon/internal/config"
	"backoffice-recon/internal/handler"
	"backoffice-recon/internal/middleware"
	"backoffice-recon/internal/parser"
	"backoffice-recon/internal/repository"
	"backoffice-recon/internal/service"
	"backoffice-recon/pkg/logger"
)

// @title Bank Reconciliation API
// @version 1.0
// @description API for matching bank transactions against invoices, orders and gateway settlements
// @termsOfService http://swagger.io/terms/

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.App.LogLevel)
	logger.GetLogger().Info("Starting Bank Reconciliation Service")

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := repository.RunMigrations(db); err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to run migrations")
	}

	logger.GetLogger().Info("Database connection established")

	// Counterparty master data is optional; without it name matching falls
	// back to provider codes and invoice descriptions.
	providerNames := map[string]string{}
	if cfg.App.MasterDataPath != "" {
		providerNames, err = parser.LoadProviderNames(cfg.App.MasterDataPath)
		if err != nil {
			logger.GetLogger().WithError(err).Warn("Failed to load counterparty master data")
			providerNames = map[string]string{}
		}
	}

	// Repositories
	txRepo := repository.NewTransactionRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	settlementRepo := repository.NewSettlementRepository(db)
	reconRepo := repository.NewReconciliationRepository(db)

	// Services
	txService := service.NewTransactionService(txRepo)
	candidateService := service.NewCandidateService(txRepo, invoiceRepo, orderRepo, settlementRepo, cfg.Matching, providerNames)
	reconService := service.NewReconciliationService(invoiceRepo, orderRepo, reconRepo)
	autoService := service.NewAutoReconcileService(txRepo, candidateService, reconService, cfg.Matching.AutoCommitThreshold)

	// Handlers
	txHandler := handler.NewTransactionHandler(txService, candidateService)
	reconHandler := handler.NewReconciliationHandler(reconService, autoService)

	router := setupRouter(txHandler, reconHandler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.GetLogger().WithField("address", addr).Info("Server starting")

	if err := router.Run(addr); err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to start server")
	}
}

func connectDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func setupRouter(txHandler *handler.TransactionHandler, reconHandler *handler.ReconciliationHandler) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		transactions := v1.Group("/transactions")
		{
			transactions.GET("", txHandler.ListTransactions)
			transactions.GET("/:id", txHandler.GetTransaction)
			transactions.GET("/:id/candidates", txHandler.GetCandidates)

			transactions.POST("/:id/reconcile/invoice", reconHandler.CommitInvoiceMatch)
			transactions.POST("/:id/reconcile/payment-source", reconHandler.CommitPaymentSourceMatch)
			transactions.POST("/:id/reconcile/order", reconHandler.CommitOrderMatch)
			transactions.POST("/:id/reconcile/manual", reconHandler.CommitManualOnly)
			transactions.POST("/:id/revert", reconHandler.Revert)
		}

		v1.POST("/auto-reconcile", reconHandler.AutoReconcile)
	}

	return router
}
