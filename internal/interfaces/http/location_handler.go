package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Muestras-api/internal/application/dto"
	"github.com/jhoicas/Muestras-api/internal/application/usecase"
	"github.com/jhoicas/Muestras-api/pkg/logger"
)

// LocationHandler ubicaciones de almacenamiento.
type LocationHandler struct {
	uc  *usecase.LocationUseCase
	log *logger.Logger
}

// NewLocationHandler construye el handler.
func NewLocationHandler(uc *usecase.LocationUseCase, log *logger.Logger) *LocationHandler {
	return &LocationHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear ubicación
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "Datos de la ubicación"
// @Success      201   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ubicaciones
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LocationListResponse
// @Router       /api/locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar ubicación
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la ubicación"
// @Param        body  body  dto.UpdateLocationRequest  true  "Datos de la ubicación"
// @Success      200   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [put]
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar ubicación
// @Description  Falla con 409 IN_USE si hay muestras o ubicaciones hijas que la referencian.
// @Tags         locations
// @Security     Bearer
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [delete]
func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
