package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Muestras-api/internal/application/dto"
	"github.com/jhoicas/Muestras-api/internal/application/inventory"
	"github.com/jhoicas/Muestras-api/internal/application/usecase"
	"github.com/jhoicas/Muestras-api/internal/domain"
	"github.com/jhoicas/Muestras-api/pkg/logger"
)

// TraceHandler trazabilidad, reporte de stock y bitácora (solo lectura).
type TraceHandler struct {
	trace *inventory.TraceUseCase
	audit *usecase.AuditLogUseCase
	log   *logger.Logger
}

// NewTraceHandler construye el handler.
func NewTraceHandler(trace *inventory.TraceUseCase, audit *usecase.AuditLogUseCase, log *logger.Logger) *TraceHandler {
	return &TraceHandler{trace: trace, audit: audit, log: log}
}

// Document godoc
// @Summary      Trazar documento por número
// @Tags         trace
// @Security     Bearer
// @Produce      json
// @Param        docNo  query  string  true  "Número de documento (ej. OUT-20240501-0001)"
// @Success      200    {object}  dto.DocumentTraceResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/trace/document [get]
func (h *TraceHandler) Document(c *fiber.Ctx) error {
	out, err := h.trace.TraceDocument(c.UserContext(), c.Query("docNo"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Sample godoc
// @Summary      Trazar muestra por código
// @Tags         trace
// @Security     Bearer
// @Produce      json
// @Param        sampleCode  query  string  true  "Código de muestra"
// @Success      200         {object}  dto.SampleTraceResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/trace/sample [get]
func (h *TraceHandler) Sample(c *fiber.Ctx) error {
	out, err := h.trace.TraceSample(c.UserContext(), c.Query("sampleCode"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// StockReport godoc
// @Summary      Reporte de stock (muestras con stock distinto de cero)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockReportResponse
// @Router       /api/reports/stock [get]
func (h *TraceHandler) StockReport(c *fiber.Ctx) error {
	out, err := h.trace.StockReport(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// AuditLogs godoc
// @Summary      Bitácora de operaciones
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        action   query  string  false  "CREATE | EDIT | SUBMIT | APPROVE | REJECT | CANCEL"
// @Param        actorId  query  string  false  "Usuario"
// @Param        limit    query  int     false  "Límite"  default(20)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200      {object}  dto.AuditLogListResponse
// @Router       /api/audit-logs [get]
func (h *TraceHandler) AuditLogs(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.audit.List(c.UserContext(), c.Query("action"), c.Query("actorId"), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Transactions godoc
// @Summary      Libro global de movimientos
// @Description  Más recientes primero. endDate incluye el día completo.
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        sampleCode  query  string  false  "Contiene código de muestra"
// @Param        docNo       query  string  false  "Contiene número de documento"
// @Param        type        query  string  false  "IN | OUT | RETURN | DISPOSE"
// @Param        startDate   query  string  false  "Desde (YYYY-MM-DD)"
// @Param        endDate     query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {object}  dto.TransactionPageResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *TraceHandler) Transactions(c *fiber.Ctx) error {
	q := dto.TransactionQuery{
		SampleCode: c.Query("sampleCode"),
		DocNo:      c.Query("docNo"),
		Type:       c.Query("type"),
	}
	var err error
	if q.From, err = queryDate(c, "startDate"); err != nil {
		return respondError(c, h.log, err)
	}
	if q.To, err = queryDate(c, "endDate"); err != nil {
		return respondError(c, h.log, err)
	}
	if q.To != nil {
		next := q.To.Add(24 * time.Hour)
		q.To = &next
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.trace.Transactions(c.UserContext(), q, page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// queryDate fecha YYYY-MM-DD en UTC; nil si el parámetro no viene.
func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &t, nil
}
