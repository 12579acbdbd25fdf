package repository

import (
	"context"

	"github.com/jhoicas/Muestras-api/internal/domain/entity"
)

// SampleRepository define el puerto de persistencia para el maestro de muestras.
type SampleRepository interface {
	Create(ctx context.Context, sample *entity.Sample) error
	GetByID(ctx context.Context, id string) (*entity.Sample, error)
	GetByCode(ctx context.Context, sampleCode string) (*entity.Sample, error)
	// Update reescribe los atributos descriptivos; sample_code no cambia.
	Update(ctx context.Context, sample *entity.Sample) error
	List(ctx context.Context, limit, offset int) ([]*entity.Sample, int, error)
	ListAll(ctx context.Context) ([]*entity.Sample, error)
	// LockForUpdate bloquea las filas de las muestras (SELECT FOR UPDATE, orden ascendente por id)
	// para serializar aprobaciones concurrentes sobre la misma muestra.
	LockForUpdate(ctx context.Context, ids []string) error
}
