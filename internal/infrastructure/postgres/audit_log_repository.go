package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo bitácora sobre la tabla audit_logs.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador de bitácora.
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Create inserta una entrada.
func (r *AuditLogRepo) Create(ctx context.Context, l *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, actor_id, action, entity_type, entity_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, l.ID, l.ActorID, string(l.Action), l.EntityType, l.EntityID, l.Description, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List entradas más recientes primero.
func (r *AuditLogRepo) List(ctx context.Context, filter repository.AuditLogFilter, limit, offset int) ([]*entity.AuditLog, int, error) {
	var where []string
	var args []any
	if filter.Action != "" {
		args = append(args, string(filter.Action))
		where = append(where, fmt.Sprintf("action = $%d", len(args)))
	}
	if filter.ActorID != "" {
		args = append(args, filter.ActorID)
		where = append(where, fmt.Sprintf("actor_id = $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT id, actor_id, action, entity_type, entity_id, description, created_at
		FROM audit_logs%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, clause, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLog
	for rows.Next() {
		var l entity.AuditLog
		var action string
		if err := rows.Scan(&l.ID, &l.ActorID, &action, &l.EntityType, &l.EntityID, &l.Description, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan audit log: %w", err)
		}
		l.Action = entity.AuditAction(action)
		list = append(list, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
