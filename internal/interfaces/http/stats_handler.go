package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Muestras-api/internal/application/usecase"
	"github.com/jhoicas/Muestras-api/pkg/logger"
)

// StatsHandler totales para el tablero.
type StatsHandler struct {
	uc  *usecase.StatsUseCase
	log *logger.Logger
}

// NewStatsHandler construye el handler.
func NewStatsHandler(uc *usecase.StatsUseCase, log *logger.Logger) *StatsHandler {
	return &StatsHandler{uc: uc, log: log}
}

// Get godoc
// @Summary      Totales del tablero
// @Tags         stats
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StatsResponse
// @Router       /api/stats [get]
func (h *StatsHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
