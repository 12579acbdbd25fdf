package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Muestras-api/internal/application/dto"
	"github.com/jhoicas/Muestras-api/internal/application/inventory"
	"github.com/jhoicas/Muestras-api/internal/domain/movement"
	"github.com/jhoicas/Muestras-api/pkg/logger"
)

// DocumentHandler documentos de movimiento y su flujo de aprobación.
type DocumentHandler struct {
	docs          *inventory.DocumentService
	trace         *inventory.TraceUseCase
	approverRoles []string
	log           *logger.Logger
}

// NewDocumentHandler construye el handler. approverRoles son los roles que pueden aprobar o rechazar.
func NewDocumentHandler(docs *inventory.DocumentService, trace *inventory.TraceUseCase, approverRoles []string, log *logger.Logger) *DocumentHandler {
	return &DocumentHandler{docs: docs, trace: trace, approverRoles: approverRoles, log: log}
}

// Create godoc
// @Summary      Crear documento (DRAFT)
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDocumentRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.docs.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar documentos
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  false  "IN | OUT | RETURN | DISPOSE"
// @Param        status  query  string  false  "DRAFT | SUBMIT | APPROVE | REJECT | CANCEL"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.DocumentListResponse
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.docs.List(c.UserContext(), c.Query("type"), c.Query("status"), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener documento
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.docs.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Edit godoc
// @Summary      Editar documento (solo DRAFT)
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del documento"
// @Param        body  body  dto.EditDocumentRequest  true  "Cabecera y líneas completas"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [put]
func (h *DocumentHandler) Edit(c *fiber.Ctx) error {
	var in dto.EditDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.docs.Edit(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Act godoc
// @Summary      Acción sobre el documento
// @Description  submit | approve | reject | cancel. approve y reject requieren rol aprobador.
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del documento"
// @Param        body  body  dto.DocumentActionRequest  true  "Acción"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [patch]
func (h *DocumentHandler) Act(c *fiber.Ctx) error {
	var in dto.DocumentActionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	action, err := movement.ParseAction(in.Action)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if (action == movement.ActionApprove || action == movement.ActionReject) && !hasRole(h.approverRoles, GetRole(c)) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "se requiere rol aprobador"})
	}
	out, err := h.docs.Act(c.UserContext(), c.Params("id"), string(action), GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Transactions godoc
// @Summary      Asientos del documento
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.TransactionListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/transactions [get]
func (h *DocumentHandler) Transactions(c *fiber.Ctx) error {
	out, err := h.trace.TransactionsForDocument(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
