package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Muestras-api/internal/domain/movement"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
)

// DocNumberGenerator numera documentos como {PREFIX}-{YYYYMMDD}-{seq4}. El consecutivo sale de un
// contador atómico por (prefijo, día), así dos creaciones concurrentes nunca obtienen el mismo número.
type DocNumberGenerator struct {
	seq repository.SequenceRepository
}

// NewDocNumberGenerator construye el generador. Usar el SequenceRepository de la tx de creación.
func NewDocNumberGenerator(seq repository.SequenceRepository) *DocNumberGenerator {
	return &DocNumberGenerator{seq: seq}
}

// Generate reserva el siguiente número para el tipo en el día de ref (UTC).
func (g *DocNumberGenerator) Generate(ctx context.Context, kind movement.Kind, ref time.Time) (string, error) {
	n, err := g.seq.Next(ctx, kind.Prefix(), movement.DayKey(ref))
	if err != nil {
		return "", err
	}
	return movement.FormatDocNo(kind.Prefix(), ref, n), nil
}
