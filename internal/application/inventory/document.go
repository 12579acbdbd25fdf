package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Muestras-api/internal/application/dto"
	"github.com/jhoicas/Muestras-api/internal/domain"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/movement"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
)

// DocumentService alta, edición y consulta de documentos. Solo edita en DRAFT; las transiciones
// las delega en ApprovalWorkflow.
type DocumentService struct {
	txRunner TxRunner
	repos    Repos
	workflow *ApprovalWorkflow
	audit    AuditSink
	now      func() time.Time
}

// NewDocumentService construye el servicio. repos se usa para lecturas fuera de transacción.
func NewDocumentService(txRunner TxRunner, repos Repos, workflow *ApprovalWorkflow, audit AuditSink) *DocumentService {
	if audit == nil {
		audit = nopAudit{}
	}
	return &DocumentService{txRunner: txRunner, repos: repos, workflow: workflow, audit: audit, now: time.Now}
}

// Create numera y persiste un documento nuevo en DRAFT con las líneas dadas.
func (s *DocumentService) Create(ctx context.Context, creatorID string, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	docType := entity.DocumentType(in.Type)
	kind, err := movement.For(docType)
	if err != nil {
		return nil, err
	}
	lines, err := s.buildLines(ctx, in.Lines)
	if err != nil {
		return nil, err
	}

	now := s.now()
	doc := &entity.Document{
		ID:        uuid.New().String(),
		Type:      docType,
		Status:    entity.DocumentStatusDRAFT,
		CreatorID: creatorID,
		Lines:     lines,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyHeader(doc, in.Description, in.DisposeInfo, in.ReturnFromDocID)

	err = s.txRunner.Run(ctx, func(repos Repos) error {
		docNo, err := NewDocNumberGenerator(repos.Sequences).Generate(ctx, kind, now)
		if err != nil {
			return err
		}
		doc.DocNo = docNo
		return repos.Documents.Create(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, creatorID, entity.AuditActionCreate, entity.AuditEntityDocument, doc.ID,
		fmt.Sprintf("creación del documento %s", doc.DocNo))
	return s.Get(ctx, doc.ID)
}

// Edit reemplaza cabecera y líneas completas. Solo en DRAFT; en otro estado ErrInvalidTransition
// y las líneas quedan intactas. Nunca toca asientos.
func (s *DocumentService) Edit(ctx context.Context, actorID, id string, in dto.EditDocumentRequest) (*dto.DocumentResponse, error) {
	lines, err := s.buildLines(ctx, in.Lines)
	if err != nil {
		return nil, err
	}
	var docNo string
	err = s.txRunner.Run(ctx, func(repos Repos) error {
		doc, err := repos.Documents.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if _, err := movement.Transition(doc.Status, movement.ActionEdit); err != nil {
			return err
		}
		applyHeader(doc, in.Description, in.DisposeInfo, in.ReturnFromDocID)
		doc.UpdatedAt = s.now()
		if err := repos.Documents.UpdateHeader(ctx, doc); err != nil {
			return err
		}
		docNo = doc.DocNo
		return repos.Documents.ReplaceLines(ctx, doc.ID, lines)
	})
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorID, entity.AuditActionEdit, entity.AuditEntityDocument, id,
		fmt.Sprintf("edición del documento %s", docNo))
	return s.Get(ctx, id)
}

// Act aplica submit/approve/reject/cancel y devuelve el documento resuelto.
func (s *DocumentService) Act(ctx context.Context, id, action, actorID string) (*dto.DocumentResponse, error) {
	if _, err := s.workflow.Apply(ctx, id, action, actorID); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Get documento con líneas resueltas y, si aplica, la salida de la que devuelve.
func (s *DocumentService) Get(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	doc, err := s.repos.Documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return s.resolve(ctx, doc, true)
}

// GetByDocNo igual que Get pero por número de documento.
func (s *DocumentService) GetByDocNo(ctx context.Context, docNo string) (*dto.DocumentResponse, error) {
	doc, err := s.repos.Documents.GetByDocNo(ctx, docNo)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return s.resolve(ctx, doc, true)
}

// List documentos más recientes primero, con filtros opcionales de tipo y estado.
func (s *DocumentService) List(ctx context.Context, docType, status string, page dto.PageRequest) (*dto.DocumentListResponse, error) {
	page.DefaultPage()
	filter := repository.DocumentFilter{
		Type:   entity.DocumentType(docType),
		Status: entity.DocumentStatus(status),
	}
	if filter.Type != "" && !movement.IsValidType(filter.Type) {
		return nil, domain.ErrInvalidInput
	}
	list, total, err := s.repos.Documents.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DocumentResponse, 0, len(list))
	for _, d := range list {
		out, err := s.resolve(ctx, d, false)
		if err != nil {
			return nil, err
		}
		items = append(items, *out)
	}
	return &dto.DocumentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// buildLines valida cantidades positivas de hasta entity.QuantityScale decimales y que cada muestra exista.
func (s *DocumentService) buildLines(ctx context.Context, in []dto.DocumentLineRequest) ([]entity.DocumentLine, error) {
	if len(in) == 0 {
		return nil, domain.ErrInvalidInput
	}
	lines := make([]entity.DocumentLine, 0, len(in))
	for i, l := range in {
		if l.SampleID == "" || !l.Quantity.GreaterThan(decimal.Zero) || !entity.FitsScale(l.Quantity) {
			return nil, domain.ErrInvalidInput
		}
		sample, err := s.repos.Samples.GetByID(ctx, l.SampleID)
		if err != nil {
			return nil, err
		}
		if sample == nil {
			return nil, domain.ErrNotFound
		}
		lines = append(lines, entity.DocumentLine{
			LineNo:   i + 1,
			SampleID: l.SampleID,
			Quantity: l.Quantity,
			BatchNo:  l.BatchNo,
			Remark:   l.Remark,
		})
	}
	return lines, nil
}

// applyHeader la referencia de devolución solo vale en RETURN y los datos de destrucción en DISPOSE.
func applyHeader(doc *entity.Document, description string, dispose *dto.DisposeInfoDTO, returnFromDocID string) {
	doc.Description = description
	doc.ReturnFromDocID = ""
	doc.Dispose = nil
	if doc.Type == entity.DocumentTypeRETURN {
		doc.ReturnFromDocID = returnFromDocID
	}
	if doc.Type == entity.DocumentTypeDISPOSE && dispose != nil {
		doc.Dispose = &entity.DisposeInfo{
			Reason:     dispose.Reason,
			Method:     dispose.Method,
			Operator:   dispose.Operator,
			Supervisor: dispose.Supervisor,
			Approver:   dispose.Approver,
		}
	}
}

func (s *DocumentService) resolve(ctx context.Context, doc *entity.Document, withOrigin bool) (*dto.DocumentResponse, error) {
	out := &dto.DocumentResponse{
		ID:              doc.ID,
		DocNo:           doc.DocNo,
		Type:            string(doc.Type),
		Status:          string(doc.Status),
		Description:     doc.Description,
		ReturnFromDocID: doc.ReturnFromDocID,
		CreatorID:       doc.CreatorID,
		ApproverID:      doc.ApproverID,
		ApprovedAt:      doc.ApprovedAt,
		Lines:           make([]dto.DocumentLineResponse, 0, len(doc.Lines)),
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
	if doc.Dispose != nil {
		out.DisposeInfo = &dto.DisposeInfoDTO{
			Reason:     doc.Dispose.Reason,
			Method:     doc.Dispose.Method,
			Operator:   doc.Dispose.Operator,
			Supervisor: doc.Dispose.Supervisor,
			Approver:   doc.Dispose.Approver,
		}
	}
	for _, l := range doc.Lines {
		line := dto.DocumentLineResponse{
			LineNo:   l.LineNo,
			SampleID: l.SampleID,
			Quantity: l.Quantity,
			BatchNo:  l.BatchNo,
			Remark:   l.Remark,
		}
		sample, err := s.repos.Samples.GetByID(ctx, l.SampleID)
		if err != nil {
			return nil, err
		}
		if sample != nil {
			line.SampleCode = sample.SampleCode
			line.SampleName = sample.Name
			line.Unit = sample.Unit
		}
		out.Lines = append(out.Lines, line)
	}
	if withOrigin && doc.ReturnFromDocID != "" {
		origin, err := s.repos.Documents.GetByID(ctx, doc.ReturnFromDocID)
		if err != nil {
			return nil, err
		}
		if origin != nil {
			if out.ReturnFromDoc, err = s.resolve(ctx, origin, false); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
