// Package audit implementa la bitácora de operaciones como sumidero best-effort: el registro se
// escribe después del Commit de la operación y un fallo solo se reporta en el log.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Muestras-api/internal/application/inventory"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
	"github.com/jhoicas/Muestras-api/pkg/logger"
)

var _ inventory.AuditSink = (*Recorder)(nil)

// Recorder escribe registros en el AuditLogRepository.
type Recorder struct {
	repo repository.AuditLogRepository
	log  *logger.Logger
}

// NewRecorder construye el sumidero de auditoría.
func NewRecorder(repo repository.AuditLogRepository, log *logger.Logger) *Recorder {
	if log == nil {
		log = logger.Nop()
	}
	return &Recorder{repo: repo, log: log}
}

// Record persiste el registro; si falla lo deja en el log (warn) y sigue.
func (r *Recorder) Record(ctx context.Context, actorID string, action entity.AuditAction, entityType, entityID, description string) {
	entry := &entity.AuditLog{
		ID:          uuid.New().String(),
		ActorID:     actorID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := r.repo.Create(ctx, entry); err != nil {
		r.log.Warn().Err(err).
			Str("action", string(action)).
			Str("entity_type", entityType).
			Str("entity_id", entityID).
			Msg("no se pudo registrar la bitácora")
	}
}
