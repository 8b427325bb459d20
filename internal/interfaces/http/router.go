package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/udeservering-api/internal/application/invoicing"
	"github.com/jhoicas/udeservering-api/internal/application/permits"
	"github.com/jhoicas/udeservering-api/internal/application/pricing"
	"github.com/jhoicas/udeservering-api/internal/application/rates"
	"github.com/jhoicas/udeservering-api/internal/application/statistics"
)

// BasePath prefijo de todas las rutas de la API.
const BasePath = "/udeservering/api"

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Pricing    *pricing.Service
	Permits    *permits.UseCase
	Workflow   *invoicing.Workflow
	Report     *invoicing.Report
	Reference  *rates.ReferenceService
	RateCache  *rates.RateCache
	Statistics *statistics.UseCase
	JWTSecret  string
	JWTIssuer  string
	Log        zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group(BasePath)

	pricingHandler := NewPricingHandler(deps.Pricing, deps.Log)
	api.Post("/pris", pricingHandler.Price)

	permitHandler := NewPermitHandler(deps.Permits, deps.Log)
	api.Get("/ansoegninger", permitHandler.List)

	// Fakturalinjer: las rutas fijas van antes de /:id
	lines := api.Group("/fakturalinjer")
	lineHandler := NewInvoiceLineHandler(deps.Workflow, deps.Report, deps.Log)
	lines.Get("/", lineHandler.List)
	lines.Get("/til-fakturering/pdf", lineHandler.BillingBasisPDF)
	lines.Get("/til-fakturering", lineHandler.ListStatus("til-fakturering"))
	lines.Get("/faktureret", lineHandler.ListStatus("faktureret"))
	lines.Post("/godkend", lineHandler.ApproveBulk)
	lines.Post("/nulstil", lineHandler.ResetBulk)
	lines.Get("/:id", lineHandler.GetByID)
	lines.Post("/:id/handling", lineHandler.Transition)
	lines.Delete("/:id", lineHandler.Reset)

	// Takster: lectura abierta, escritura solo admin si hay JWT configurado
	refHandler := NewReferenceHandler(deps.Reference, deps.RateCache, deps.Log)
	api.Get("/takster/:aar", refHandler.Get)

	var admin fiber.Router = api.Group("/takster")
	if deps.JWTSecret != "" {
		admin = api.Group("/takster", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer), RequireRole(RoleAdmin))
	} else {
		deps.Log.Warn().Msg("JWT_SECRET vacío: rutas de administración de takster sin autenticación")
	}
	admin.Post("/klon", refHandler.CloneYear)
	admin.Post("/cache/ryd", refHandler.ClearCache)
	admin.Put("/:aar/parametre/:navn", refHandler.UpsertParameter)
	admin.Delete("/:aar/parametre/:navn", refHandler.DeleteParameter)
	admin.Put("/:aar/zoner/:zone", refHandler.UpsertZoneRate)
	admin.Delete("/:aar/zoner/:zone", refHandler.DeleteZoneRate)
	admin.Put("/:aar/saesoner/:maaned", refHandler.UpsertSeason)
	admin.Delete("/:aar/saesoner/:maaned", refHandler.DeleteSeason)

	statsHandler := NewStatisticsHandler(deps.Statistics, deps.Log)
	api.Get("/statistik", statsHandler.Summary)
}
