package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Muestras-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contador de numeración sobre la tabla doc_sequences.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el contador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa atómicamente el contador de (prefix, day). El upsert toma el lock de la fila,
// así dos transacciones concurrentes nunca obtienen el mismo valor.
func (r *SequenceRepo) Next(ctx context.Context, prefix, day string) (int, error) {
	query := `
		INSERT INTO doc_sequences (prefix, day, last_seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (prefix, day)
		DO UPDATE SET last_seq = doc_sequences.last_seq + 1
		RETURNING last_seq`
	var seq int
	if err := r.q.QueryRow(ctx, query, prefix, day).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next doc sequence: %w", err)
	}
	return seq, nil
}
