package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSampleRequest entrada para registrar una muestra en el maestro.
type CreateSampleRequest struct {
	SampleCode       string           `json:"sample_code" validate:"required,min=1,max=100"`
	Name             string           `json:"name" validate:"required,min=1,max=200"`
	Type             string           `json:"type"`
	Spec             string           `json:"spec"`
	Unit             string           `json:"unit"`
	Source           string           `json:"source"`
	StorageCondition string           `json:"storage_condition"`
	ExpiryDate       *time.Time       `json:"expiry_date,omitempty"`
	LocationID       string           `json:"location_id,omitempty"`
	VolumeMl         *decimal.Decimal `json:"volume_ml,omitempty"`
}

// UpdateSampleRequest body para PUT /api/samples/:id. sample_code no se puede cambiar.
type UpdateSampleRequest struct {
	Name             string           `json:"name" validate:"required,min=1,max=200"`
	Type             string           `json:"type"`
	Spec             string           `json:"spec"`
	Unit             string           `json:"unit"`
	Source           string           `json:"source"`
	StorageCondition string           `json:"storage_condition"`
	ExpiryDate       *time.Time       `json:"expiry_date,omitempty"`
	LocationID       string           `json:"location_id,omitempty"`
	VolumeMl         *decimal.Decimal `json:"volume_ml,omitempty"`
}

// SampleResponse salida de una muestra. Stock es derivado del libro.
type SampleResponse struct {
	ID               string            `json:"id"`
	SampleCode       string            `json:"sample_code"`
	Name             string            `json:"name"`
	Type             string            `json:"type"`
	Spec             string            `json:"spec"`
	Unit             string            `json:"unit"`
	Source           string            `json:"source"`
	StorageCondition string            `json:"storage_condition"`
	ExpiryDate       *time.Time        `json:"expiry_date,omitempty"`
	LocationID       string            `json:"location_id,omitempty"`
	Location         *LocationResponse `json:"location,omitempty"`
	VolumeMl         *decimal.Decimal  `json:"volume_ml,omitempty"`
	Stock            *decimal.Decimal  `json:"stock,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// SampleListResponse lista paginada de muestras.
type SampleListResponse struct {
	Items []SampleResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// StockResponse stock derivado de una muestra.
type StockResponse struct {
	SampleID string          `json:"sample_id"`
	Stock    decimal.Decimal `json:"stock"`
}

// StockReportResponse muestras con stock distinto de cero.
type StockReportResponse struct {
	Items []SampleResponse `json:"items"`
}

// StatsResponse contadores del tablero.
type StatsResponse struct {
	TotalSamples     int `json:"total_samples"`
	TotalDocuments   int `json:"total_documents"`
	PendingApprovals int `json:"pending_approvals"`
	TotalLocations   int `json:"total_locations"`
}
