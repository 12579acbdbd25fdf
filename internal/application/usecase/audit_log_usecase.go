package usecase

import (
	"context"

	"github.com/jhoicas/Muestras-api/internal/application/dto"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
)

// AuditLogUseCase consulta de la bitácora.
type AuditLogUseCase struct {
	repo repository.AuditLogRepository
}

// NewAuditLogUseCase construye el caso de uso.
func NewAuditLogUseCase(repo repository.AuditLogRepository) *AuditLogUseCase {
	return &AuditLogUseCase{repo: repo}
}

// List registros más recientes primero, filtrados opcionalmente por acción y actor.
func (uc *AuditLogUseCase) List(ctx context.Context, action, actorID string, page dto.PageRequest) (*dto.AuditLogListResponse, error) {
	page.DefaultPage()
	filter := repository.AuditLogFilter{Action: entity.AuditAction(action), ActorID: actorID}
	list, total, err := uc.repo.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditLogResponse, 0, len(list))
	for _, a := range list {
		items = append(items, dto.NewAuditLogResponse(a))
	}
	return &dto.AuditLogListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}
