package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Muestras-api/internal/domain"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
)

var (
	_ repository.TransactionRepository = (*TransactionRepo)(nil)
	_ repository.AuditLogRepository    = (*AuditLogRepo)(nil)
)

// TransactionRepo libro append-only en memoria, en orden de inserción.
type TransactionRepo struct{ c conn }

func (r *TransactionRepo) AppendBatch(_ context.Context, txs []*entity.Transaction) error {
	return r.c.write(func(st *state) error {
		for _, t := range txs {
			if _, ok := st.documents[t.DocumentID]; !ok {
				return domain.ErrNotFound
			}
			if _, ok := st.samples[t.SampleID]; !ok {
				return domain.ErrNotFound
			}
		}
		for _, t := range txs {
			st.transactions = append(st.transactions, *t)
		}
		return nil
	})
}

func (r *TransactionRepo) SumBySample(_ context.Context, sampleID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	r.c.read(func(st *state) {
		for _, t := range st.transactions {
			if t.SampleID == sampleID {
				sum = sum.Add(t.QuantityDelta)
			}
		}
	})
	return sum, nil
}

func (r *TransactionRepo) SumReturned(_ context.Context, returnFromDocID, sampleID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	r.c.read(func(st *state) {
		for _, t := range st.transactions {
			if t.SampleID != sampleID || t.Type != entity.DocumentTypeRETURN {
				continue
			}
			doc, ok := st.documents[t.DocumentID]
			if ok && doc.Status == entity.DocumentStatusAPPROVE && doc.ReturnFromDocID == returnFromDocID {
				sum = sum.Add(t.QuantityDelta)
			}
		}
	})
	return sum, nil
}

func (r *TransactionRepo) StockBySample(_ context.Context) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	r.c.read(func(st *state) {
		for _, t := range st.transactions {
			out[t.SampleID] = out[t.SampleID].Add(t.QuantityDelta)
		}
	})
	return out, nil
}

func (r *TransactionRepo) ListBySample(_ context.Context, sampleID string) ([]*entity.Transaction, error) {
	return r.filter(func(t entity.Transaction) bool { return t.SampleID == sampleID }), nil
}

func (r *TransactionRepo) ListByDocument(_ context.Context, documentID string) ([]*entity.Transaction, error) {
	return r.filter(func(t entity.Transaction) bool { return t.DocumentID == documentID }), nil
}

// List más recientes primero; a igual fecha, el último insertado primero.
func (r *TransactionRepo) List(_ context.Context, filter repository.TransactionFilter, limit, offset int) ([]*entity.Transaction, int, error) {
	var list []*entity.Transaction
	r.c.read(func(st *state) {
		for i := len(st.transactions) - 1; i >= 0; i-- {
			t := st.transactions[i]
			if filter.Type != "" && t.Type != filter.Type {
				continue
			}
			if filter.From != nil && t.CreatedAt.Before(*filter.From) {
				continue
			}
			if filter.To != nil && !t.CreatedAt.Before(*filter.To) {
				continue
			}
			if filter.SampleCode != "" && !strings.Contains(st.samples[t.SampleID].SampleCode, filter.SampleCode) {
				continue
			}
			if filter.DocNo != "" && !strings.Contains(st.documents[t.DocumentID].DocNo, filter.DocNo) {
				continue
			}
			list = append(list, &t)
		}
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return page(list, limit, offset), len(list), nil
}

func (r *TransactionRepo) filter(keep func(entity.Transaction) bool) []*entity.Transaction {
	var list []*entity.Transaction
	r.c.read(func(st *state) {
		for _, t := range st.transactions {
			if keep(t) {
				t := t
				list = append(list, &t)
			}
		}
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list
}

// AuditLogRepo bitácora en memoria.
type AuditLogRepo struct{ c conn }

func (r *AuditLogRepo) Create(_ context.Context, l *entity.AuditLog) error {
	return r.c.write(func(st *state) error {
		st.auditLogs = append(st.auditLogs, *l)
		return nil
	})
}

// List más recientes primero.
func (r *AuditLogRepo) List(_ context.Context, filter repository.AuditLogFilter, limit, offset int) ([]*entity.AuditLog, int, error) {
	var list []*entity.AuditLog
	r.c.read(func(st *state) {
		for i := len(st.auditLogs) - 1; i >= 0; i-- {
			l := st.auditLogs[i]
			if filter.Action != "" && l.Action != filter.Action {
				continue
			}
			if filter.ActorID != "" && l.ActorID != filter.ActorID {
				continue
			}
			list = append(list, &l)
		}
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return page(list, limit, offset), len(list), nil
}
