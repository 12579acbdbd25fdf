package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionResponse asiento del libro.
type TransactionResponse struct {
	ID            string          `json:"id"`
	DocumentID    string          `json:"document_id"`
	DocNo         string          `json:"doc_no,omitempty"`
	SampleID      string          `json:"sample_id"`
	SampleCode    string          `json:"sample_code,omitempty"`
	Type          string          `json:"type"`
	QuantityDelta decimal.Decimal `json:"quantity_delta"`
	BatchNo       string          `json:"batch_no,omitempty"`
	Remark        string          `json:"remark,omitempty"`
	OperatorID    string          `json:"operator_id"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TransactionListResponse asientos en orden ascendente de creación.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
}

// TransactionQuery filtros del libro global. From inclusivo, To exclusivo.
type TransactionQuery struct {
	SampleCode string
	DocNo      string
	Type       string
	From       *time.Time
	To         *time.Time
}

// TransactionPageResponse asientos más recientes primero, paginados.
type TransactionPageResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// DocumentTraceResponse trazabilidad por número de documento.
type DocumentTraceResponse struct {
	Document     DocumentResponse      `json:"document"`
	Transactions []TransactionResponse `json:"transactions"`
}

// SampleTraceResponse trazabilidad por código de muestra.
type SampleTraceResponse struct {
	Sample       SampleResponse        `json:"sample"`
	Transactions []TransactionResponse `json:"transactions"`
	Stock        decimal.Decimal       `json:"stock"`
}

// AuditLogResponse registro de bitácora.
type AuditLogResponse struct {
	ID          string    `json:"id"`
	ActorID     string    `json:"actor_id"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entity_type"`
	EntityID    string    `json:"entity_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuditLogListResponse lista paginada de la bitácora.
type AuditLogListResponse struct {
	Items []AuditLogResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
