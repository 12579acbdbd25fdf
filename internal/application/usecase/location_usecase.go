package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Muestras-api/internal/application/dto"
	"github.com/jhoicas/Muestras-api/internal/application/inventory"
	"github.com/jhoicas/Muestras-api/internal/domain"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
)

// LocationUseCase alta y listado de ubicaciones de almacenamiento.
type LocationUseCase struct {
	repo  repository.LocationRepository
	audit inventory.AuditSink
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository, audit inventory.AuditSink) *LocationUseCase {
	return &LocationUseCase{repo: repo, audit: audit}
}

// Create crea una ubicación. Código duplicado -> ErrDuplicate; padre inexistente -> ErrNotFound.
func (uc *LocationUseCase) Create(ctx context.Context, actorID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	if in.Code == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.ParentID != "" {
		parent, err := uc.repo.GetByID(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.ErrNotFound
		}
	}
	now := time.Now()
	location := &entity.Location{
		ID:          uuid.New().String(),
		Code:        in.Code,
		Name:        in.Name,
		ParentID:    in.ParentID,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	if uc.audit != nil {
		uc.audit.Record(ctx, actorID, entity.AuditActionCreate, entity.AuditEntityLocation, location.ID,
			fmt.Sprintf("creación de la ubicación %s", location.Code))
	}
	out := dto.NewLocationResponse(location)
	return &out, nil
}

// Update cambia nombre, padre y descripción. El padre debe existir y no puede ser la propia
// ubicación ni una de sus descendientes.
func (uc *LocationUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.checkParent(ctx, id, in.ParentID); err != nil {
		return nil, err
	}
	location.Name = in.Name
	location.ParentID = in.ParentID
	location.Description = in.Description
	location.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, location); err != nil {
		return nil, err
	}
	if uc.audit != nil {
		uc.audit.Record(ctx, actorID, entity.AuditActionEdit, entity.AuditEntityLocation, location.ID,
			fmt.Sprintf("edición de la ubicación %s", location.Code))
	}
	out := dto.NewLocationResponse(location)
	return &out, nil
}

// Delete elimina una ubicación sin hijas ni muestras asignadas (si no, ErrInUse).
func (uc *LocationUseCase) Delete(ctx context.Context, actorID, id string) error {
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if location == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	if uc.audit != nil {
		uc.audit.Record(ctx, actorID, entity.AuditActionDelete, entity.AuditEntityLocation, id,
			fmt.Sprintf("eliminación de la ubicación %s", location.Code))
	}
	return nil
}

// checkParent recorre los ancestros del nuevo padre; encontrar id formaría un ciclo.
func (uc *LocationUseCase) checkParent(ctx context.Context, id, parentID string) error {
	for cur := parentID; cur != ""; {
		if cur == id {
			return domain.ErrInvalidInput
		}
		parent, err := uc.repo.GetByID(ctx, cur)
		if err != nil {
			return err
		}
		if parent == nil {
			return domain.ErrNotFound
		}
		cur = parent.ParentID
	}
	return nil
}

// List lista todas las ubicaciones ordenadas por código.
func (uc *LocationUseCase) List(ctx context.Context) (*dto.LocationListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, dto.NewLocationResponse(l))
	}
	return &dto.LocationListResponse{Items: items}, nil
}
