package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Muestras-api/internal/domain"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo cabecera en documents y líneas en document_lines.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador de documentos. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, doc_no, type, status, description,
	dispose_reason, dispose_method, dispose_operator, dispose_supervisor, dispose_approver,
	return_from_doc_id, creator_id, approver_id, approved_at, created_at, updated_at`

// Create inserta cabecera y líneas. Llamar dentro de TxRunner.Run para que sea atómico.
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	reason, method, operator, supervisor, approver := disposeArgs(doc.Dispose)
	_, err := r.q.Exec(ctx, query,
		doc.ID, doc.DocNo, string(doc.Type), string(doc.Status), doc.Description,
		reason, method, operator, supervisor, approver,
		nullable(doc.ReturnFromDocID), doc.CreatorID, nullable(doc.ApproverID), doc.ApprovedAt,
		doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return r.insertLines(ctx, doc.ID, doc.Lines)
}

// GetByID documento con líneas; nil si no existe.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	return r.getOne(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
}

// GetByDocNo documento con líneas por número; nil si no existe.
func (r *DocumentRepo) GetByDocNo(ctx context.Context, docNo string) (*entity.Document, error) {
	return r.getOne(ctx, `SELECT `+documentColumns+` FROM documents WHERE doc_no = $1`, docNo)
}

// GetForUpdate obtiene el documento y bloquea su fila hasta el fin de la transacción.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.getOne(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1 FOR UPDATE`, id)
}

// List documentos más recientes primero con el total que cumple el filtro.
func (r *DocumentRepo) List(ctx context.Context, filter repository.DocumentFilter, limit, offset int) ([]*entity.Document, int, error) {
	var where []string
	var args []any
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM documents`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM documents%s ORDER BY created_at DESC, doc_no DESC LIMIT $%d OFFSET $%d`,
		documentColumns, clause, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	var list []*entity.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		list = append(list, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	for _, d := range list {
		if d.Lines, err = r.lines(ctx, d.ID); err != nil {
			return nil, 0, err
		}
	}
	return list, total, nil
}

// UpdateHeader descripción, datos de destrucción, referencia de devolución y updated_at.
func (r *DocumentRepo) UpdateHeader(ctx context.Context, doc *entity.Document) error {
	query := `
		UPDATE documents SET description = $2,
			dispose_reason = $3, dispose_method = $4, dispose_operator = $5, dispose_supervisor = $6, dispose_approver = $7,
			return_from_doc_id = $8, updated_at = $9
		WHERE id = $1`
	reason, method, operator, supervisor, approver := disposeArgs(doc.Dispose)
	tag, err := r.q.Exec(ctx, query, doc.ID, doc.Description,
		reason, method, operator, supervisor, approver,
		nullable(doc.ReturnFromDocID), doc.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update document header: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceLines borra las líneas actuales e inserta las nuevas (misma tx del caller).
func (r *DocumentRepo) ReplaceLines(ctx context.Context, documentID string, lines []entity.DocumentLine) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM document_lines WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete document lines: %w", err)
	}
	return r.insertLines(ctx, documentID, lines)
}

// UpdateStatus estado, aprobador y fechas.
func (r *DocumentRepo) UpdateStatus(ctx context.Context, doc *entity.Document) error {
	query := `
		UPDATE documents SET status = $2, approver_id = $3, approved_at = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, doc.ID, string(doc.Status), nullable(doc.ApproverID), doc.ApprovedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DocumentRepo) getOne(ctx context.Context, query, arg string) (*entity.Document, error) {
	doc, err := scanDocument(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc.Lines, err = r.lines(ctx, doc.ID); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *DocumentRepo) insertLines(ctx context.Context, documentID string, lines []entity.DocumentLine) error {
	query := `
		INSERT INTO document_lines (document_id, line_no, sample_id, quantity, batch_no, remark)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, l := range lines {
		if _, err := r.q.Exec(ctx, query, documentID, l.LineNo, l.SampleID, l.Quantity, l.BatchNo, l.Remark); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrNotFound
			}
			if isCheckViolation(err) {
				return domain.ErrInvalidInput
			}
			return fmt.Errorf("insert document line: %w", err)
		}
	}
	return nil
}

func (r *DocumentRepo) lines(ctx context.Context, documentID string) ([]entity.DocumentLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT line_no, sample_id, quantity, batch_no, remark
		FROM document_lines WHERE document_id = $1 ORDER BY line_no`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.DocumentLine
	for rows.Next() {
		var l entity.DocumentLine
		if err := rows.Scan(&l.LineNo, &l.SampleID, &l.Quantity, &l.BatchNo, &l.Remark); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func disposeArgs(d *entity.DisposeInfo) (reason, method, operator, supervisor, approver *string) {
	if d == nil {
		return nil, nil, nil, nil, nil
	}
	return &d.Reason, &d.Method, &d.Operator, &d.Supervisor, &d.Approver
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	var docType, status string
	var reason, method, operator, supervisor, approver *string
	var returnFrom, approverID *string
	err := row.Scan(
		&d.ID, &d.DocNo, &docType, &status, &d.Description,
		&reason, &method, &operator, &supervisor, &approver,
		&returnFrom, &d.CreatorID, &approverID, &d.ApprovedAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Type = entity.DocumentType(docType)
	d.Status = entity.DocumentStatus(status)
	d.ReturnFromDocID = deref(returnFrom)
	d.ApproverID = deref(approverID)
	if reason != nil || method != nil || operator != nil || supervisor != nil || approver != nil {
		d.Dispose = &entity.DisposeInfo{
			Reason:     deref(reason),
			Method:     deref(method),
			Operator:   deref(operator),
			Supervisor: deref(supervisor),
			Approver:   deref(approver),
		}
	}
	return &d, nil
}
