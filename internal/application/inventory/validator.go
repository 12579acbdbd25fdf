package inventory

import (
	"context"

	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/movement"
)

// ApprovalValidator decide si la aprobación es legal con el estado actual del libro.
// Solo lee; la primera línea que incumple aborta (no se acumulan resultados parciales).
type ApprovalValidator struct {
	view movement.LedgerView
}

// NewApprovalValidator construye el validador sobre una vista del libro.
func NewApprovalValidator(view movement.LedgerView) *ApprovalValidator {
	return &ApprovalValidator{view: view}
}

// Validate despacha a la regla del tipo de documento. Devuelve nil o *domain.ValidationError.
func (v *ApprovalValidator) Validate(ctx context.Context, doc *entity.Document) error {
	kind, err := movement.For(doc.Type)
	if err != nil {
		return err
	}
	return kind.Validate(ctx, v.view, doc)
}
