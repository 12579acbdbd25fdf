package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Muestras-api/internal/application/dto"
	"github.com/jhoicas/Muestras-api/internal/application/inventory"
	"github.com/jhoicas/Muestras-api/internal/application/usecase"
	"github.com/jhoicas/Muestras-api/pkg/logger"
)

// SampleHandler maestro de muestras y su stock.
type SampleHandler struct {
	uc    *usecase.SampleUseCase
	trace *inventory.TraceUseCase
	log   *logger.Logger
}

// NewSampleHandler construye el handler.
func NewSampleHandler(uc *usecase.SampleUseCase, trace *inventory.TraceUseCase, log *logger.Logger) *SampleHandler {
	return &SampleHandler{uc: uc, trace: trace, log: log}
}

// Create godoc
// @Summary      Crear muestra
// @Tags         samples
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSampleRequest  true  "Datos de la muestra"
// @Success      201   {object}  dto.SampleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/samples [post]
func (h *SampleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSampleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar muestra
// @Description  El código de muestra no se modifica.
// @Tags         samples
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la muestra"
// @Param        body  body  dto.UpdateSampleRequest  true  "Datos de la muestra"
// @Success      200   {object}  dto.SampleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/samples/{id} [put]
func (h *SampleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSampleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar muestras
// @Tags         samples
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.SampleListResponse
// @Router       /api/samples [get]
func (h *SampleHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener muestra con stock
// @Tags         samples
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la muestra"
// @Success      200  {object}  dto.SampleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/samples/{id} [get]
func (h *SampleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Stock godoc
// @Summary      Stock derivado de la muestra
// @Tags         samples
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la muestra"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/samples/{id}/stock [get]
func (h *SampleHandler) Stock(c *fiber.Ctx) error {
	out, err := h.trace.StockOf(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Transactions godoc
// @Summary      Asientos de la muestra
// @Tags         samples
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la muestra"
// @Success      200  {object}  dto.TransactionListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/samples/{id}/transactions [get]
func (h *SampleHandler) Transactions(c *fiber.Ctx) error {
	out, err := h.trace.TransactionsForSample(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
