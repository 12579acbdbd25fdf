package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Muestras-api/internal/domain"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación de LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de ubicaciones. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `id, code, name, parent_id, description, created_at, updated_at`

// Create persiste una ubicación. Código repetido devuelve domain.ErrDuplicate.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO locations (` + locationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.Code, l.Name, nullable(l.ParentID), l.Description, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID; nil si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	l, err := scanLocation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

// Update nombre, padre y descripción. Padre inexistente devuelve domain.ErrNotFound.
func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	query := `
		UPDATE locations SET name = $2, parent_id = $3, description = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, l.ID, l.Name, nullable(l.ParentID), l.Description, l.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la ubicación. Si una muestra o una ubicación hija la referencia, la FK lo impide
// y se devuelve domain.ErrInUse.
func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInUse
		}
		return fmt.Errorf("delete location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List todas las ubicaciones por código.
func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations ORDER BY code`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var l entity.Location
	var parent *string
	if err := row.Scan(&l.ID, &l.Code, &l.Name, &parent, &l.Description, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.ParentID = deref(parent)
	return &l, nil
}
