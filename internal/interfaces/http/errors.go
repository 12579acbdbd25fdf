package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Muestras-api/internal/application/dto"
	"github.com/jhoicas/Muestras-api/internal/domain"
	"github.com/jhoicas/Muestras-api/pkg/logger"
)

// respondError traduce errores de dominio a status + dto.ErrorResponse. Los no esperados se
// registran y salen como 500 INTERNAL sin detalle.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, body := errorBody(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	}
	return c.Status(status).JSON(body)
}

func errorBody(err error) (int, dto.ErrorResponse) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body := dto.ErrorResponse{Code: validationCode(verr.Kind), Message: verr.Error(), SampleCode: verr.SampleCode}
		if verr.Kind == domain.ErrInsufficientStock || verr.Kind == domain.ErrInsufficientReturnable {
			available := verr.Available
			body.Available = &available
		}
		return fiber.StatusConflict, body
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()}
	case errors.Is(err, domain.ErrInUse):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "IN_USE", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	case errors.Is(err, domain.ErrUnknownAction):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "UNKNOWN_ACTION", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	}
}

func validationCode(kind error) string {
	switch kind {
	case domain.ErrInsufficientStock:
		return "INSUFFICIENT_STOCK"
	case domain.ErrInsufficientReturnable:
		return "INSUFFICIENT_RETURNABLE"
	case domain.ErrMissingOrInvalidReturnReference:
		return "INVALID_RETURN_REFERENCE"
	case domain.ErrLineNotInOriginalDocument:
		return "LINE_NOT_IN_ORIGINAL"
	default:
		return "VALIDATION"
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
