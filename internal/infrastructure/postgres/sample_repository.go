package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Muestras-api/internal/domain"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
)

var _ repository.SampleRepository = (*SampleRepo)(nil)

// SampleRepo implementación del maestro de muestras sobre PostgreSQL (usable con pool o tx).
type SampleRepo struct {
	q Querier
}

// NewSampleRepository construye el adaptador de persistencia para muestras. Pasar pool o tx (Querier).
func NewSampleRepository(q Querier) *SampleRepo {
	return &SampleRepo{q: q}
}

const sampleColumns = `id, sample_code, name, type, spec, unit, source, storage_condition, expiry_date,
	location_id, volume_ml, created_at, updated_at`

// Create persiste una muestra. sample_code repetido devuelve domain.ErrDuplicate.
func (r *SampleRepo) Create(ctx context.Context, s *entity.Sample) error {
	query := `
		INSERT INTO samples (` + sampleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.SampleCode, s.Name, s.Type, s.Spec, s.Unit, s.Source, s.StorageCondition,
		s.ExpiryDate, nullable(s.LocationID), s.VolumeMl, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// Update atributos descriptivos y ubicación. Ubicación inexistente devuelve domain.ErrNotFound.
func (r *SampleRepo) Update(ctx context.Context, s *entity.Sample) error {
	query := `
		UPDATE samples SET name = $2, type = $3, spec = $4, unit = $5, source = $6,
		       storage_condition = $7, expiry_date = $8, location_id = $9, volume_ml = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Type, s.Spec, s.Unit, s.Source, s.StorageCondition,
		s.ExpiryDate, nullable(s.LocationID), s.VolumeMl, s.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update sample: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene una muestra por ID; nil si no existe.
func (r *SampleRepo) GetByID(ctx context.Context, id string) (*entity.Sample, error) {
	return r.getOne(ctx, `SELECT `+sampleColumns+` FROM samples WHERE id = $1`, id)
}

// GetByCode obtiene una muestra por sample_code; nil si no existe.
func (r *SampleRepo) GetByCode(ctx context.Context, sampleCode string) (*entity.Sample, error) {
	return r.getOne(ctx, `SELECT `+sampleColumns+` FROM samples WHERE sample_code = $1`, sampleCode)
}

func (r *SampleRepo) getOne(ctx context.Context, query string, arg string) (*entity.Sample, error) {
	s, err := scanSample(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sample: %w", err)
	}
	return s, nil
}

// List página de muestras por código, con el total.
func (r *SampleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sample, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM samples`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count samples: %w", err)
	}
	list, err := r.query(ctx, `SELECT `+sampleColumns+` FROM samples ORDER BY sample_code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListAll todas las muestras por código.
func (r *SampleRepo) ListAll(ctx context.Context) ([]*entity.Sample, error) {
	return r.query(ctx, `SELECT `+sampleColumns+` FROM samples ORDER BY sample_code`)
}

// LockForUpdate bloquea las filas en orden ascendente de id; dos aprobaciones con muestras en común
// adquieren los locks en el mismo orden y no se interbloquean.
func (r *SampleRepo) LockForUpdate(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	rows, err := r.q.Query(ctx, `SELECT id FROM samples WHERE id = ANY($1) ORDER BY id FOR UPDATE`, sorted)
	if err != nil {
		return fmt.Errorf("lock samples: %w", err)
	}
	defer rows.Close()
	locked := 0
	for rows.Next() {
		locked++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("lock samples: %w", err)
	}
	if locked != len(sorted) {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SampleRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Sample, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sample
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSample(row pgx.Row) (*entity.Sample, error) {
	var s entity.Sample
	var location *string
	err := row.Scan(
		&s.ID, &s.SampleCode, &s.Name, &s.Type, &s.Spec, &s.Unit, &s.Source, &s.StorageCondition,
		&s.ExpiryDate, &location, &s.VolumeMl, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.LocationID = deref(location)
	return &s, nil
}
