package usecase

import (
	"context"

	"github.com/jhoicas/Muestras-api/internal/application/dto"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
)

// StatsUseCase contadores del tablero principal.
type StatsUseCase struct {
	samples   repository.SampleRepository
	documents repository.DocumentRepository
	locations repository.LocationRepository
}

// NewStatsUseCase construye el caso de uso.
func NewStatsUseCase(samples repository.SampleRepository, documents repository.DocumentRepository, locations repository.LocationRepository) *StatsUseCase {
	return &StatsUseCase{samples: samples, documents: documents, locations: locations}
}

// Get total de muestras, documentos, documentos pendientes de aprobación (SUBMIT) y ubicaciones.
func (uc *StatsUseCase) Get(ctx context.Context) (*dto.StatsResponse, error) {
	var out dto.StatsResponse
	var err error
	if _, out.TotalSamples, err = uc.samples.List(ctx, 1, 0); err != nil {
		return nil, err
	}
	if _, out.TotalDocuments, err = uc.documents.List(ctx, repository.DocumentFilter{}, 1, 0); err != nil {
		return nil, err
	}
	pending := repository.DocumentFilter{Status: entity.DocumentStatusSUBMIT}
	if _, out.PendingApprovals, err = uc.documents.List(ctx, pending, 1, 0); err != nil {
		return nil, err
	}
	locations, err := uc.locations.List(ctx)
	if err != nil {
		return nil, err
	}
	out.TotalLocations = len(locations)
	return &out, nil
}
