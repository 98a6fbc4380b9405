package routes

import (
	"github.com/gofiber/fiber/v2"

	"encomiendas-backend/controllers"
	"encomiendas-backend/middlewares"
	"encomiendas-backend/models"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to any request TX)
	protected.Use(middlewares.Idempotency())

	// Document mutations manage their own transactions: reception creation
	// holds the sequence lock, invoice generation must commit before the XML
	// artifact is written, and sack updates lock the transfer row.
	protected.Get("/receptions/next-number", controllers.NextReceptionNumber)
	protected.Post("/receptions", controllers.CreateReception)
	protected.Put("/receptions/:id", controllers.UpdateReception)
	protected.Post("/receptions/:id/annul", controllers.AnnulReception)
	protected.Post("/receptions/:id/invoice", controllers.GenerateInvoice)
	protected.Post("/transfers", controllers.CreateTransfer)
	protected.Put("/transfers/:id/sacks", controllers.UpdateSacks)

	// Document reads run inside the per-request tenant transaction so the
	// search_path pin (SET LOCAL) holds one connection for the whole request.
	readTx := middlewares.TenantTx()
	protected.Get("/receptions", readTx, controllers.GetReceptions)
	protected.Get("/receptions/:id", readTx, controllers.GetReception)
	protected.Get("/invoices", readTx, controllers.GetInvoices)
	protected.Get("/invoices/:id", readTx, controllers.GetInvoice)
	protected.Post("/invoices/:id/xml", readTx, controllers.RegenerateInvoiceXML)
	protected.Get("/invoices/:id/xml-download", readTx, controllers.DownloadInvoiceXML)
	protected.Get("/transfers", readTx, controllers.GetTransfers)
	protected.Get("/transfers/:id/details", readTx, controllers.GetTransferDetails)

	// Catalog CRUD runs inside the per-request tenant transaction. Catalog
	// mutation is for operators, not end customers.
	catalog := protected.Group("", middlewares.TenantTx())

	catalog.Post("/client", middlewares.RequireRole(models.RoleSudo, models.RoleAdmin), controllers.CreateClient)
	catalog.Get("/clients", controllers.GetClients)
	catalog.Get("/client/:id", controllers.GetClient)
	catalog.Put("/client/:id", middlewares.RequireRole(models.RoleSudo, models.RoleAdmin), controllers.UpdateClient)

	catalog.Post("/agency", middlewares.RequireRole(models.RoleSudo, models.RoleAdmin), controllers.CreateAgency)
	catalog.Get("/agencies", controllers.GetAgencies)
	catalog.Put("/agency/:id", middlewares.RequireRole(models.RoleSudo, models.RoleAdmin), controllers.UpdateAgency)

	catalog.Post("/article", middlewares.RequireRole(models.RoleSudo, models.RoleAdmin), controllers.CreateArticles) // batch create
	catalog.Get("/articles", controllers.GetArticles)
	catalog.Put("/articles/:id", middlewares.RequireRole(models.RoleSudo, models.RoleAdmin), controllers.UpdateArticle)
}
