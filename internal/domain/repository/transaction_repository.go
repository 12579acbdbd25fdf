package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Muestras-api/internal/domain/entity"
)

// TransactionFilter filtros del listado global del libro. SampleCode y DocNo filtran por
// subcadena; From es inclusivo y To exclusivo.
type TransactionFilter struct {
	SampleCode string
	DocNo      string
	Type       entity.DocumentType
	From       *time.Time
	To         *time.Time
}

// TransactionRepository libro append-only. No existe Update ni Delete.
type TransactionRepository interface {
	// AppendBatch persiste todos los asientos o ninguno (dentro de la tx del caller).
	AppendBatch(ctx context.Context, txs []*entity.Transaction) error
	SumBySample(ctx context.Context, sampleID string) (decimal.Decimal, error)
	// SumReturned suma QuantityDelta de asientos RETURN cuyo documento (aprobado) devuelve returnFromDocID.
	SumReturned(ctx context.Context, returnFromDocID, sampleID string) (decimal.Decimal, error)
	// StockBySample suma por muestra sobre todo el libro.
	StockBySample(ctx context.Context) (map[string]decimal.Decimal, error)
	ListBySample(ctx context.Context, sampleID string) ([]*entity.Transaction, error)
	ListByDocument(ctx context.Context, documentID string) ([]*entity.Transaction, error)
	// List más recientes primero, con el total que cumple el filtro.
	List(ctx context.Context, filter TransactionFilter, limit, offset int) ([]*entity.Transaction, int, error)
}
