package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sample (SampleMaster) identifica un tipo/lote de muestra rastreable.
// El stock no se guarda aquí: se deriva del libro de transacciones.
type Sample struct {
	ID               string
	SampleCode       string // código único
	Name             string
	Type             string // suero, plasma, ADN, ...
	Spec             string
	Unit             string // ml, tubo, caja
	Source           string
	StorageCondition string // -80°C, 4°C, temperatura ambiente
	ExpiryDate       *time.Time
	LocationID       string
	VolumeMl         *decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
