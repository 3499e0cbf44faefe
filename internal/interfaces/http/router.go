package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturas-viajes-api/internal/application/auth"
	"github.com/jhoicas/facturas-viajes-api/internal/application/extraction"
	"github.com/jhoicas/facturas-viajes-api/internal/application/invoicing"
	"github.com/jhoicas/facturas-viajes-api/internal/application/ports"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InvoiceUC  *invoicing.UseCase
	ExtractUC  *extraction.UseCase
	AuthGate   *auth.UseCase
	ReportGen  ports.InvoiceReportGenerator
	ExpMinutes int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthGate, deps.ExpMinutes)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)

	// Vista de agente (pública): captura y consulta propia
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices := api.Group("/invoices")
	invoices.Get("/", invoiceHandler.ListAgent)
	invoices.Post("/", invoiceHandler.Create)

	// Extracción asistida (pública, parte de la captura del agente)
	extractHandler := NewExtractHandler(deps.ExtractUC)
	invoices.Post("/extract", extractHandler.Extract)

	// Vista de administración (protegida por la compuerta de sesión)
	admin := api.Group("/admin", SessionMiddleware(deps.AuthGate))
	admin.Get("/invoices", invoiceHandler.ListAdmin)
	admin.Put("/invoices/:id", invoiceHandler.Update)
	admin.Post("/invoices/:id/delete/request", invoiceHandler.RequestDelete)
	admin.Post("/invoices/:id/delete/confirm", invoiceHandler.ConfirmDelete)
	admin.Post("/invoices/:id/delete/cancel", invoiceHandler.CancelDelete)

	reportHandler := NewReportHandler(deps.InvoiceUC, deps.ReportGen)
	admin.Get("/invoices/report", reportHandler.Listing)
}
