package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction asiento inmutable del libro de inventario. Solo se crea al aprobar un documento,
// una por línea; nunca se edita ni se elimina.
type Transaction struct {
	ID            string
	DocumentID    string
	SampleID      string
	Type          DocumentType    // refleja el tipo del documento
	QuantityDelta decimal.Decimal // negativo en OUT/DISPOSE, positivo en IN/RETURN
	BatchNo       string
	Remark        string
	OperatorID    string
	CreatedAt     time.Time
}

// QuantityScale decimales que guardan las columnas NUMERIC(18, 4) de cantidades y volúmenes.
const QuantityScale = 4

// FitsScale indica si q se representa sin redondeo con QuantityScale decimales.
func FitsScale(q decimal.Decimal) bool {
	return q.Equal(q.Truncate(QuantityScale))
}
