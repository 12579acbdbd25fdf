package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/Muestras-api/internal/application/inventory"
	"github.com/jhoicas/Muestras-api/internal/application/usecase"
	"github.com/jhoicas/Muestras-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Documents     *inventory.DocumentService
	Trace         *inventory.TraceUseCase
	SampleUC      *usecase.SampleUseCase
	LocationUC    *usecase.LocationUseCase
	AuditLogUC    *usecase.AuditLogUseCase
	StatsUC       *usecase.StatsUseCase
	JWTSecret     string
	ApproverRoles []string
	MasterRoles   []string
	ServiceName   string
	Metrics       nethttp.Handler // opcional
	Log           *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	// Público
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	masterOnly := RequireRole(deps.MasterRoles...)

	documents := api.Group("/documents")
	documentHandler := NewDocumentHandler(deps.Documents, deps.Trace, deps.ApproverRoles, log)
	documents.Post("/", documentHandler.Create)
	documents.Get("/", documentHandler.List)
	documents.Get("/:id", documentHandler.GetByID)
	documents.Put("/:id", documentHandler.Edit)
	documents.Patch("/:id", documentHandler.Act)
	documents.Get("/:id/transactions", documentHandler.Transactions)

	samples := api.Group("/samples")
	sampleHandler := NewSampleHandler(deps.SampleUC, deps.Trace, log)
	samples.Get("/", sampleHandler.List)
	samples.Post("/", masterOnly, sampleHandler.Create)
	samples.Get("/:id", sampleHandler.GetByID)
	samples.Put("/:id", masterOnly, sampleHandler.Update)
	samples.Get("/:id/stock", sampleHandler.Stock)
	samples.Get("/:id/transactions", sampleHandler.Transactions)

	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC, log)
	locations.Get("/", locationHandler.List)
	locations.Post("/", masterOnly, locationHandler.Create)
	locations.Put("/:id", masterOnly, locationHandler.Update)
	locations.Delete("/:id", masterOnly, locationHandler.Delete)

	traceHandler := NewTraceHandler(deps.Trace, deps.AuditLogUC, log)
	api.Get("/trace/document", traceHandler.Document)
	api.Get("/trace/sample", traceHandler.Sample)
	api.Get("/reports/stock", traceHandler.StockReport)
	api.Get("/audit-logs", traceHandler.AuditLogs)
	api.Get("/transactions", traceHandler.Transactions)

	statsHandler := NewStatsHandler(deps.StatsUC, log)
	api.Get("/stats", statsHandler.Get)
}
