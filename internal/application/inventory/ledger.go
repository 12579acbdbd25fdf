package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/movement"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
)

// Ledger deriva el stock del historial de asientos. No guarda saldos: cada consulta suma
// QuantityDelta con aritmética decimal exacta.
type Ledger struct {
	txs repository.TransactionRepository
}

// NewLedger construye el libro sobre el repositorio de asientos (pool o tx).
func NewLedger(txs repository.TransactionRepository) *Ledger {
	return &Ledger{txs: txs}
}

// StockOf devuelve Σ QuantityDelta de la muestra; 0 si no tiene asientos.
func (l *Ledger) StockOf(ctx context.Context, sampleID string) (decimal.Decimal, error) {
	return l.txs.SumBySample(ctx, sampleID)
}

// ReturnedQuantity cantidad ya devuelta (aprobada) contra una salida para una muestra.
func (l *Ledger) ReturnedQuantity(ctx context.Context, returnFromDocID, sampleID string) (decimal.Decimal, error) {
	return l.txs.SumReturned(ctx, returnFromDocID, sampleID)
}

// TransactionsForSample asientos de la muestra en orden ascendente de creación.
func (l *Ledger) TransactionsForSample(ctx context.Context, sampleID string) ([]*entity.Transaction, error) {
	return l.txs.ListBySample(ctx, sampleID)
}

// TransactionsForDocument asientos del documento en orden ascendente de creación.
func (l *Ledger) TransactionsForDocument(ctx context.Context, documentID string) ([]*entity.Transaction, error) {
	return l.txs.ListByDocument(ctx, documentID)
}

// ledgerView resuelve movement.LedgerView con los repos de la transacción en curso.
type ledgerView struct {
	*Ledger
	docs    repository.DocumentRepository
	samples repository.SampleRepository
}

var _ movement.LedgerView = (*ledgerView)(nil)

func newLedgerView(repos Repos) *ledgerView {
	return &ledgerView{Ledger: NewLedger(repos.Transactions), docs: repos.Documents, samples: repos.Samples}
}

func (v *ledgerView) Document(ctx context.Context, id string) (*entity.Document, error) {
	return v.docs.GetByID(ctx, id)
}

func (v *ledgerView) SampleCode(ctx context.Context, sampleID string) (string, error) {
	s, err := v.samples.GetByID(ctx, sampleID)
	if err != nil {
		return "", err
	}
	if s == nil {
		return sampleID, nil
	}
	return s.SampleCode, nil
}
