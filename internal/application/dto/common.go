package dto

import "github.com/shopspring/decimal"

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset están fuera de rango.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP. SampleCode y Available solo en rechazos de aprobación.
type ErrorResponse struct {
	Code       string           `json:"code"`
	Message    string           `json:"message"`
	SampleCode string           `json:"sample_code,omitempty"`
	Available  *decimal.Decimal `json:"available,omitempty"`
}
