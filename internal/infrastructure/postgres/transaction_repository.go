package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo libro append-only sobre PostgreSQL. Solo INSERT y SELECT.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const transactionColumns = `id, document_id, sample_id, type, quantity_delta, batch_no, remark, operator_id, created_at`

// AppendBatch inserta los asientos en orden. La atomicidad la da la tx del caller.
func (r *TransactionRepo) AppendBatch(ctx context.Context, txs []*entity.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, t := range txs {
		_, err := r.q.Exec(ctx, query,
			t.ID, t.DocumentID, t.SampleID, string(t.Type), t.QuantityDelta,
			t.BatchNo, t.Remark, t.OperatorID, t.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
	}
	return nil
}

// SumBySample stock derivado; 0 si la muestra no tiene asientos.
func (r *TransactionRepo) SumBySample(ctx context.Context, sampleID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity_delta), 0) FROM transactions WHERE sample_id = $1`, sampleID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions: %w", err)
	}
	return sum, nil
}

// SumReturned cantidad ya devuelta de una salida para una muestra (asientos RETURN aprobados).
func (r *TransactionRepo) SumReturned(ctx context.Context, returnFromDocID, sampleID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(t.quantity_delta), 0)
		FROM transactions t
		JOIN documents d ON d.id = t.document_id
		WHERE d.return_from_doc_id = $1 AND d.status = 'APPROVE'
		  AND t.sample_id = $2 AND t.type = 'RETURN'`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, returnFromDocID, sampleID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum returned: %w", err)
	}
	return sum, nil
}

// StockBySample suma por muestra de todo el libro.
func (r *TransactionRepo) StockBySample(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, `SELECT sample_id, SUM(quantity_delta) FROM transactions GROUP BY sample_id`)
	if err != nil {
		return nil, fmt.Errorf("stock by sample: %w", err)
	}
	defer rows.Close()
	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var id string
		var sum decimal.Decimal
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out[id] = sum
	}
	return out, rows.Err()
}

// ListBySample asientos de la muestra en orden de creación.
func (r *TransactionRepo) ListBySample(ctx context.Context, sampleID string) ([]*entity.Transaction, error) {
	return r.list(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE sample_id = $1 ORDER BY created_at, seq`, sampleID)
}

// ListByDocument asientos del documento en orden de línea.
func (r *TransactionRepo) ListByDocument(ctx context.Context, documentID string) ([]*entity.Transaction, error) {
	return r.list(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE document_id = $1 ORDER BY created_at, seq`, documentID)
}

// List listado global del libro con filtros, más recientes primero.
func (r *TransactionRepo) List(ctx context.Context, filter repository.TransactionFilter, limit, offset int) ([]*entity.Transaction, int, error) {
	var where []string
	var args []any
	if filter.SampleCode != "" {
		args = append(args, filter.SampleCode)
		where = append(where, fmt.Sprintf("strpos(s.sample_code, $%d) > 0", len(args)))
	}
	if filter.DocNo != "" {
		args = append(args, filter.DocNo)
		where = append(where, fmt.Sprintf("strpos(d.doc_no, $%d) > 0", len(args)))
	}
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		where = append(where, fmt.Sprintf("t.type = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, fmt.Sprintf("t.created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where = append(where, fmt.Sprintf("t.created_at < $%d", len(args)))
	}
	from := `
		FROM transactions t
		JOIN samples s ON s.id = t.sample_id
		JOIN documents d ON d.id = t.document_id`
	if len(where) > 0 {
		from += " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}
	query := `SELECT t.id, t.document_id, t.sample_id, t.type, t.quantity_delta, t.batch_no, t.remark,
		t.operator_id, t.created_at` + from +
		fmt.Sprintf(" ORDER BY t.created_at DESC, t.seq DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	list, err := r.list(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *TransactionRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Transaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		var docType string
		if err := rows.Scan(&t.ID, &t.DocumentID, &t.SampleID, &docType, &t.QuantityDelta,
			&t.BatchNo, &t.Remark, &t.OperatorID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = entity.DocumentType(docType)
		list = append(list, &t)
	}
	return list, rows.Err()
}
