package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrUnknownAction     = errors.New("acción desconocida")
	ErrInUse             = errors.New("recurso referenciado por otros registros")

	// ErrValidationFailed agrupa los rechazos de aprobación; cada ValidationError lo satisface.
	ErrValidationFailed                = errors.New("validación de aprobación fallida")
	ErrInsufficientStock               = errors.New("stock insuficiente")
	ErrInsufficientReturnable          = errors.New("cantidad retornable insuficiente")
	ErrMissingOrInvalidReturnReference = errors.New("la devolución debe referenciar una salida aprobada")
	ErrLineNotInOriginalDocument       = errors.New("la muestra no está en el documento de salida original")
)

// ValidationError rechazo de aprobación con el sub-tipo (Kind) y los datos que lo explican.
// errors.Is(err, ErrValidationFailed) y errors.Is(err, err.Kind) son verdaderos.
type ValidationError struct {
	Kind       error
	SampleID   string
	SampleCode string
	Available  decimal.Decimal
	Details    string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Details != "":
		return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Details)
	case e.SampleCode != "" && (e.Kind == ErrInsufficientStock || e.Kind == ErrInsufficientReturnable):
		return fmt.Sprintf("%s: muestra %s, disponible %s", e.Kind.Error(), e.SampleCode, e.Available.String())
	case e.SampleCode != "":
		return fmt.Sprintf("%s: muestra %s", e.Kind.Error(), e.SampleCode)
	default:
		return e.Kind.Error()
	}
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// Is permite errors.Is(err, ErrValidationFailed) sin perder el sub-tipo.
func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }

// TransitionError acción no permitida desde el estado actual del documento.
type TransitionError struct {
	From   string
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: no se puede %s un documento en estado %s", ErrInvalidTransition.Error(), e.Action, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
