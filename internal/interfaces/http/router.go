package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/erp-backend/internal/application/inventory"
	"github.com/jhoicas/erp-backend/internal/application/pricing"
	"github.com/jhoicas/erp-backend/internal/application/sales"
	"github.com/jhoicas/erp-backend/internal/application/usecase"
	"github.com/jhoicas/erp-backend/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	CustomerUC       *usecase.CustomerUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Transfer         *inventory.TransferUseCase
	StockQuery       *inventory.StockQueryUseCase
	PriceResolver    *pricing.BracketPriceResolver
	BracketAdmin     *pricing.BracketAdminUseCase
	OverrideAdmin    *pricing.OverrideAdminUseCase
	SaleUC           *sales.SaleUseCase
	JWTSecret        string
	Logger           *logger.Logger
}

// Router registra las rutas de la API. Todo /api exige Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(RoleAdmin)

	// Catálogo
	catalogHandler := NewCatalogHandler(deps.ProductUC, deps.CustomerUC, deps.Logger)
	products := protected.Group("/products")
	products.Post("/", adminOnly, catalogHandler.CreateProduct)
	products.Get("/:id", catalogHandler.GetProduct)
	products.Post("/:id/prices", adminOnly, catalogHandler.AddPrice)
	products.Get("/:id/prices", catalogHandler.ListPrices)
	customers := protected.Group("/customers")
	customers.Post("/", catalogHandler.CreateCustomer)
	customers.Get("/:id", catalogHandler.GetCustomer)

	// Inventario
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Transfer, deps.StockQuery, deps.Logger)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/receipts", RequireRole(RoleAdmin, RoleBodeguero), inventoryHandler.Receive)
	invGroup.Post("/adjustments", RequireRole(RoleAdmin, RoleBodeguero), inventoryHandler.Adjust)
	invGroup.Post("/transfers", RequireRole(RoleAdmin, RoleBodeguero), inventoryHandler.Transfer)
	invGroup.Post("/transfers/:id/cancel", RequireRole(RoleAdmin, RoleBodeguero), inventoryHandler.CancelTransfer)
	invGroup.Get("/:product_id/movements", inventoryHandler.ListMovements)
	invGroup.Get("/:product_id", inventoryHandler.GetStock)

	// Precios
	pricingHandler := NewPricingHandler(deps.PriceResolver, deps.BracketAdmin, deps.OverrideAdmin, deps.Logger)
	pricingGroup := protected.Group("/pricing")
	pricingGroup.Get("/resolve", pricingHandler.Resolve)
	pricingGroup.Post("/quote", pricingHandler.Quote)
	pricingGroup.Get("/brackets", pricingHandler.ListBrackets)
	pricingGroup.Get("/brackets/:id", pricingHandler.GetBracket)
	pricingGroup.Post("/brackets", adminOnly, pricingHandler.CreateBracket)
	pricingGroup.Put("/brackets/:id", adminOnly, pricingHandler.UpdateBracket)
	pricingGroup.Post("/brackets/:id/clone", adminOnly, pricingHandler.CloneBracket)
	pricingGroup.Post("/brackets/:id/activate", adminOnly, pricingHandler.ActivateBracket)
	pricingGroup.Post("/products/:product_id/deactivate-brackets", adminOnly, pricingHandler.DeactivateBrackets)
	pricingGroup.Post("/overrides", adminOnly, pricingHandler.CreateOverride)
	pricingGroup.Delete("/overrides/:id", adminOnly, pricingHandler.DeactivateOverride)
	pricingGroup.Get("/customers/:customer_id/overrides", pricingHandler.ListCustomerOverrides)

	// Ventas
	saleHandler := NewSaleHandler(deps.SaleUC, deps.Logger)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", saleHandler.Register)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/cancel", saleHandler.Cancel)
}
