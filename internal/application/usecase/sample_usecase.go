package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Muestras-api/internal/application/dto"
	"github.com/jhoicas/Muestras-api/internal/application/inventory"
	"github.com/jhoicas/Muestras-api/internal/domain"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
)

// SampleUseCase maestro de muestras. El stock nunca se escribe aquí: se lee del libro.
type SampleUseCase struct {
	repo      repository.SampleRepository
	locations repository.LocationRepository
	ledger    *inventory.Ledger
	audit     inventory.AuditSink
}

// NewSampleUseCase construye el caso de uso.
func NewSampleUseCase(
	repo repository.SampleRepository,
	locations repository.LocationRepository,
	ledger *inventory.Ledger,
	audit inventory.AuditSink,
) *SampleUseCase {
	return &SampleUseCase{repo: repo, locations: locations, ledger: ledger, audit: audit}
}

// Create registra una muestra. sample_code duplicado -> ErrDuplicate.
func (uc *SampleUseCase) Create(ctx context.Context, actorID string, in dto.CreateSampleRequest) (*dto.SampleResponse, error) {
	in.SampleCode = strings.TrimSpace(in.SampleCode)
	if in.SampleCode == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(ctx, in.SampleCode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.checkAttributes(ctx, in.LocationID, in.VolumeMl); err != nil {
		return nil, err
	}
	now := time.Now()
	sample := &entity.Sample{
		ID:               uuid.New().String(),
		SampleCode:       in.SampleCode,
		Name:             in.Name,
		Type:             in.Type,
		Spec:             in.Spec,
		Unit:             in.Unit,
		Source:           in.Source,
		StorageCondition: in.StorageCondition,
		ExpiryDate:       in.ExpiryDate,
		LocationID:       in.LocationID,
		VolumeMl:         in.VolumeMl,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, sample); err != nil {
		return nil, err
	}
	if uc.audit != nil {
		uc.audit.Record(ctx, actorID, entity.AuditActionCreate, entity.AuditEntitySample, sample.ID,
			fmt.Sprintf("creación de la muestra %s", sample.SampleCode))
	}
	out := dto.NewSampleResponse(sample)
	return &out, nil
}

// Update reescribe los atributos descriptivos. El código y el stock no cambian.
func (uc *SampleUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateSampleRequest) (*dto.SampleResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	sample, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sample == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.checkAttributes(ctx, in.LocationID, in.VolumeMl); err != nil {
		return nil, err
	}
	sample.Name = in.Name
	sample.Type = in.Type
	sample.Spec = in.Spec
	sample.Unit = in.Unit
	sample.Source = in.Source
	sample.StorageCondition = in.StorageCondition
	sample.ExpiryDate = in.ExpiryDate
	sample.LocationID = in.LocationID
	sample.VolumeMl = in.VolumeMl
	sample.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, sample); err != nil {
		return nil, err
	}
	if uc.audit != nil {
		uc.audit.Record(ctx, actorID, entity.AuditActionEdit, entity.AuditEntitySample, sample.ID,
			fmt.Sprintf("edición de la muestra %s", sample.SampleCode))
	}
	return uc.GetByID(ctx, id)
}

// checkAttributes ubicación existente y volumen no negativo representable en el esquema.
func (uc *SampleUseCase) checkAttributes(ctx context.Context, locationID string, volume *decimal.Decimal) error {
	if volume != nil && (volume.IsNegative() || !entity.FitsScale(*volume)) {
		return domain.ErrInvalidInput
	}
	if locationID == "" {
		return nil
	}
	loc, err := uc.locations.GetByID(ctx, locationID)
	if err != nil {
		return err
	}
	if loc == nil {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID muestra con ubicación y stock derivado.
func (uc *SampleUseCase) GetByID(ctx context.Context, id string) (*dto.SampleResponse, error) {
	sample, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sample == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewSampleResponse(sample)
	stock, err := uc.ledger.StockOf(ctx, id)
	if err != nil {
		return nil, err
	}
	out.Stock = &stock
	if sample.LocationID != "" {
		loc, err := uc.locations.GetByID(ctx, sample.LocationID)
		if err != nil {
			return nil, err
		}
		if loc != nil {
			l := dto.NewLocationResponse(loc)
			out.Location = &l
		}
	}
	return &out, nil
}

// List lista muestras por código con paginación.
func (uc *SampleUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.SampleListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SampleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.NewSampleResponse(s))
	}
	return &dto.SampleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}
