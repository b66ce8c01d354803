// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"innkeep/internal/domain/catalogs/stockitem"
	"innkeep/internal/domain/catalogs/supplier"
	"innkeep/internal/domain/catalogs/warehouse"
	"innkeep/internal/domain/ledger"
	"innkeep/internal/domain/parlevel"
	"innkeep/internal/domain/procurement"
	"innkeep/internal/domain/requisition"
	"innkeep/internal/infrastructure/http/v1/handlers"
	"innkeep/internal/infrastructure/http/v1/middleware"
	"innkeep/internal/infrastructure/storage/postgres"
	"innkeep/internal/infrastructure/storage/postgres/catalog_repo"
	"innkeep/internal/infrastructure/storage/postgres/ledger_repo"
	"innkeep/internal/infrastructure/storage/postgres/parlevel_repo"
	"innkeep/internal/infrastructure/storage/postgres/procurement_repo"
	"innkeep/internal/infrastructure/storage/postgres/requisition_repo"
	"innkeep/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool      *postgres.Pool
	TxManager *postgres.TxManager

	// AuditStore records workflow audit events after commit.
	AuditStore *postgres.AuditStore

	// Events is the transactional outbox publisher.
	Events *postgres.OutboxPublisher

	Logger       *logger.Logger
	JWTValidator middleware.JWTValidator
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1, JWT protected
	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTValidator))
	registerRoutes(api, cfg)

	return router
}

func registerRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	base := handlers.NewBaseHandler()

	// Repositories
	warehouseRepo := catalog_repo.NewWarehouseRepo(cfg.TxManager)
	itemRepo := catalog_repo.NewStockItemRepo(cfg.TxManager)
	supplierRepo := catalog_repo.NewSupplierRepo(cfg.TxManager)
	ledgerRepo := ledger_repo.NewLedgerRepo(cfg.TxManager)
	poRepo := procurement_repo.NewPurchaseOrderRepo(cfg.TxManager)
	reqRepo := requisition_repo.NewRequisitionRepo(cfg.TxManager)
	parRepo := parlevel_repo.NewParLevelRepo(cfg.TxManager)

	// Services
	warehouseSvc := warehouse.NewService(warehouseRepo)
	itemSvc := stockitem.NewService(itemRepo)
	supplierSvc := supplier.NewService(supplierRepo)
	ledgerSvc := ledger.NewService(ledgerRepo)
	poSvc := procurement.NewService(
		poRepo, warehouseRepo, supplierRepo, itemRepo,
		ledgerSvc, cfg.TxManager, cfg.AuditStore, cfg.Events,
	)
	reqSvc := requisition.NewService(
		reqRepo, warehouseRepo,
		ledgerSvc, cfg.TxManager, cfg.AuditStore, cfg.Events,
	)
	parSvc := parlevel.NewService(parRepo, warehouseRepo, itemRepo, supplierRepo, ledgerSvc)

	// Catalogs
	handlers.NewWarehouseHandler(base, warehouseSvc).RegisterRoutes(rg.Group("/warehouses"))
	handlers.NewStockItemHandler(base, itemSvc).RegisterRoutes(rg.Group("/items"))
	handlers.NewSupplierHandler(base, supplierSvc).RegisterRoutes(rg.Group("/suppliers"))

	// Workflows
	handlers.NewPurchaseOrderHandler(base, poSvc).RegisterRoutes(rg.Group("/purchase-orders"))
	handlers.NewRequisitionHandler(base, reqSvc).RegisterRoutes(rg.Group("/requisitions"))

	// Ledger reads and advisor
	handlers.NewStockHandler(base, ledgerSvc, cfg.AuditStore).RegisterRoutes(rg.Group("/stock"))
	handlers.NewParLevelHandler(base, parSvc).RegisterRoutes(rg.Group("/par-levels"))
}
