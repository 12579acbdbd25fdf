package repository

import (
	"context"

	"github.com/jhoicas/Muestras-api/internal/domain/entity"
)

// AuditLogFilter filtros opcionales de la bitácora.
type AuditLogFilter struct {
	Action  entity.AuditAction
	ActorID string
}

// AuditLogRepository bitácora append-only.
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter, limit, offset int) ([]*entity.AuditLog, int, error)
}
