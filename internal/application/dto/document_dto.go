package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentLineRequest una línea del documento.
type DocumentLineRequest struct {
	SampleID string          `json:"sample_id"`
	Quantity decimal.Decimal `json:"quantity"`
	BatchNo  string          `json:"batch_no,omitempty"`
	Remark   string          `json:"remark,omitempty"`
}

// DisposeInfoDTO datos de destrucción (solo DISPOSE).
type DisposeInfoDTO struct {
	Reason     string `json:"reason"`
	Method     string `json:"method"`
	Operator   string `json:"operator"`
	Supervisor string `json:"supervisor"`
	Approver   string `json:"approver"`
}

// CreateDocumentRequest body para POST /api/documents.
type CreateDocumentRequest struct {
	Type            string                `json:"type"`
	Description     string                `json:"description,omitempty"`
	DisposeInfo     *DisposeInfoDTO       `json:"dispose_info,omitempty"`
	ReturnFromDocID string                `json:"return_from_doc_id,omitempty"`
	Lines           []DocumentLineRequest `json:"lines"`
}

// EditDocumentRequest body para PUT /api/documents/:id. El tipo no se puede cambiar.
type EditDocumentRequest struct {
	Description     string                `json:"description,omitempty"`
	DisposeInfo     *DisposeInfoDTO       `json:"dispose_info,omitempty"`
	ReturnFromDocID string                `json:"return_from_doc_id,omitempty"`
	Lines           []DocumentLineRequest `json:"lines"`
}

// DocumentActionRequest body para PATCH /api/documents/:id.
type DocumentActionRequest struct {
	Action string `json:"action"` // submit | approve | reject | cancel
}

// DocumentLineResponse línea resuelta con datos de la muestra.
type DocumentLineResponse struct {
	LineNo     int             `json:"line_no"`
	SampleID   string          `json:"sample_id"`
	SampleCode string          `json:"sample_code,omitempty"`
	SampleName string          `json:"sample_name,omitempty"`
	Unit       string          `json:"unit,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	BatchNo    string          `json:"batch_no,omitempty"`
	Remark     string          `json:"remark,omitempty"`
}

// DocumentResponse documento completo.
type DocumentResponse struct {
	ID              string                 `json:"id"`
	DocNo           string                 `json:"doc_no"`
	Type            string                 `json:"type"`
	Status          string                 `json:"status"`
	Description     string                 `json:"description,omitempty"`
	DisposeInfo     *DisposeInfoDTO        `json:"dispose_info,omitempty"`
	ReturnFromDocID string                 `json:"return_from_doc_id,omitempty"`
	ReturnFromDoc   *DocumentResponse      `json:"return_from_doc,omitempty"`
	CreatorID       string                 `json:"creator_id"`
	ApproverID      string                 `json:"approver_id,omitempty"`
	ApprovedAt      *time.Time             `json:"approved_at,omitempty"`
	Lines           []DocumentLineResponse `json:"lines"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// DocumentListResponse lista paginada de documentos.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
