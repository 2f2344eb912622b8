// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"epistock/internal/domain/catalogs/equipment"
	"epistock/internal/domain/catalogs/warehouse"
	"epistock/internal/domain/deliveries"
	"epistock/internal/domain/fichas"
	"epistock/internal/domain/notes"
	"epistock/internal/domain/stock"
	"epistock/internal/infrastructure/http/v1/handlers"
	"epistock/internal/infrastructure/http/v1/middleware"
	"epistock/internal/infrastructure/storage/postgres"
	"epistock/pkg/logger"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	Notes      *notes.Service
	Deliveries *deliveries.Service
	Stock      *stock.Service
	Warehouses *warehouse.Service
	Equipment  *equipment.Service
	Fichas     *fichas.Service
	Settings   handlers.SettingsStore
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

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()

	noteHandler := handlers.NewNoteHandler(base, cfg.Notes)
	deliveryHandler := handlers.NewDeliveryHandler(base, cfg.Deliveries)
	stockHandler := handlers.NewStockHandler(base, cfg.Stock)
	warehouseHandler := handlers.NewWarehouseHandler(base, cfg.Warehouses)
	equipmentHandler := handlers.NewEquipmentHandler(base, cfg.Equipment)
	fichaHandler := handlers.NewFichaHandler(base, cfg.Fichas, cfg.Deliveries)
	settingsHandler := handlers.NewSettingsHandler(base, cfg.Settings)

	v1 := router.Group("/api/v1")
	{
		notesGroup := v1.Group("/notes")
		{
			notesGroup.POST("", noteHandler.Create)
			notesGroup.GET("", noteHandler.List)
			notesGroup.GET("/:id", noteHandler.GetByID)
			notesGroup.POST("/:id/items", noteHandler.AddItem)
			notesGroup.DELETE("/:id/items/:itemId", noteHandler.RemoveItem)
			notesGroup.POST("/:id/conclude", noteHandler.Conclude)
			notesGroup.POST("/:id/cancel", noteHandler.Cancel)
		}

		deliveriesGroup := v1.Group("/deliveries")
		{
			deliveriesGroup.POST("", deliveryHandler.Issue)
			deliveriesGroup.GET("/:id", deliveryHandler.GetByID)
			deliveriesGroup.POST("/:id/sign", deliveryHandler.Sign)
			deliveriesGroup.POST("/:id/return", deliveryHandler.Return)
			deliveriesGroup.POST("/:id/cancel", deliveryHandler.Cancel)
		}

		stockGroup := v1.Group("/stock")
		{
			stockGroup.GET("/balance", stockHandler.Balance)
			stockGroup.GET("/warehouses/:id/balances", stockHandler.WarehouseBalances)
			stockGroup.GET("/items/:id/movements", stockHandler.ItemHistory)
			stockGroup.POST("/adjustments", stockHandler.Adjust)
			stockGroup.POST("/movements/:id/reverse", stockHandler.ReverseMovement)
		}

		warehousesGroup := v1.Group("/warehouses")
		{
			warehousesGroup.POST("", warehouseHandler.Create)
			warehousesGroup.GET("", warehouseHandler.List)
			warehousesGroup.GET("/:id", warehouseHandler.GetByID)
			warehousesGroup.PUT("/:id", warehouseHandler.Update)
		}

		equipmentGroup := v1.Group("/equipment-types")
		{
			equipmentGroup.POST("", equipmentHandler.Create)
			equipmentGroup.GET("", equipmentHandler.List)
			equipmentGroup.GET("/:id", equipmentHandler.GetByID)
			equipmentGroup.PUT("/:id", equipmentHandler.Update)
		}

		fichasGroup := v1.Group("/fichas")
		{
			fichasGroup.POST("", fichaHandler.Create)
			fichasGroup.GET("", fichaHandler.List)
			fichasGroup.GET("/:id", fichaHandler.GetByID)
			fichasGroup.POST("/:id/deactivate", fichaHandler.Deactivate)
			fichasGroup.GET("/:id/deliveries", fichaHandler.Deliveries)
			fichasGroup.GET("/:id/pending-return", fichaHandler.PendingReturn)
		}

		settingsGroup := v1.Group("/settings")
		{
			settingsGroup.GET("", settingsHandler.Get)
			settingsGroup.PUT("", settingsHandler.Update)
		}
	}

	return router
}
