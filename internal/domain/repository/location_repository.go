package repository

import (
	"context"

	"github.com/jhoicas/Muestras-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para Location (DIP).
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	// Update reescribe nombre, padre y descripción; el código no cambia.
	Update(ctx context.Context, location *entity.Location) error
	// Delete elimina la ubicación; ErrInUse si tiene hijas o muestras asignadas.
	Delete(ctx context.Context, id string) error
	// List devuelve todas las ubicaciones ordenadas por código.
	List(ctx context.Context) ([]*entity.Location, error)
}
