package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Muestras-api/internal/domain"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/movement"
	"github.com/jhoicas/Muestras-api/pkg/logger"
)

// ApprovalWorkflow máquina de estados del documento: DRAFT -> SUBMIT -> {APPROVE | REJECT},
// y DRAFT/SUBMIT -> CANCEL. Al aprobar, el cambio de estado y los N asientos se escriben en la
// misma transacción (todo o nada).
type ApprovalWorkflow struct {
	txRunner TxRunner
	audit    AuditSink
	observer Observer
	log      *logger.Logger
	now      func() time.Time
}

// NewApprovalWorkflow construye el flujo. audit y observer pueden ser nil.
func NewApprovalWorkflow(txRunner TxRunner, audit AuditSink, observer Observer, log *logger.Logger) *ApprovalWorkflow {
	if audit == nil {
		audit = nopAudit{}
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ApprovalWorkflow{txRunner: txRunner, audit: audit, observer: observer, log: log, now: time.Now}
}

// Apply despacha una acción pública (submit, approve, reject, cancel) sobre el documento.
func (w *ApprovalWorkflow) Apply(ctx context.Context, docID, action, actorID string) (*entity.Document, error) {
	a, err := movement.ParseAction(action)
	if err != nil {
		w.observer.ObserveAction("unknown", outcomeOf(err))
		return nil, err
	}
	switch a {
	case movement.ActionApprove:
		return w.Approve(ctx, docID, actorID)
	case movement.ActionReject:
		return w.Reject(ctx, docID, actorID)
	case movement.ActionCancel:
		return w.Cancel(ctx, docID, actorID)
	default:
		return w.Submit(ctx, docID, actorID)
	}
}

// Submit congela las líneas: DRAFT -> SUBMIT. Sin efecto en el libro.
func (w *ApprovalWorkflow) Submit(ctx context.Context, docID, actorID string) (*entity.Document, error) {
	return w.move(ctx, docID, movement.ActionSubmit, actorID)
}

// Reject SUBMIT -> REJECT. Sin efecto en el libro.
func (w *ApprovalWorkflow) Reject(ctx context.Context, docID, approverID string) (*entity.Document, error) {
	return w.move(ctx, docID, movement.ActionReject, approverID)
}

// Cancel DRAFT/SUBMIT -> CANCEL. Un documento aprobado no se anula: sus asientos ya existen.
func (w *ApprovalWorkflow) Cancel(ctx context.Context, docID, actorID string) (*entity.Document, error) {
	return w.move(ctx, docID, movement.ActionCancel, actorID)
}

// Approve SUBMIT -> APPROVE. Bloquea el documento y las muestras de sus líneas, valida contra el
// libro bloqueado y escribe estado + asientos en una sola transacción. Re-aprobar falla con
// ErrInvalidTransition y no agrega asientos.
func (w *ApprovalWorkflow) Approve(ctx context.Context, docID, approverID string) (*entity.Document, error) {
	var approved *entity.Document
	var posted int
	err := w.txRunner.Run(ctx, func(repos Repos) error {
		doc, err := repos.Documents.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		to, err := movement.Transition(doc.Status, movement.ActionApprove)
		if err != nil {
			return err
		}
		kind, err := movement.For(doc.Type)
		if err != nil {
			return err
		}

		// Serializa aprobaciones que tocan las mismas muestras (y devoluciones de la misma salida).
		if err := repos.Samples.LockForUpdate(ctx, doc.SampleIDs()); err != nil {
			return err
		}
		if doc.Type == entity.DocumentTypeRETURN && doc.ReturnFromDocID != "" {
			if _, err := repos.Documents.GetForUpdate(ctx, doc.ReturnFromDocID); err != nil {
				return err
			}
		}

		if err := NewApprovalValidator(newLedgerView(repos)).Validate(ctx, doc); err != nil {
			return err
		}

		now := w.now()
		doc.Status = to
		doc.ApproverID = approverID
		doc.ApprovedAt = &now
		doc.UpdatedAt = now
		if err := repos.Documents.UpdateStatus(ctx, doc); err != nil {
			return err
		}
		txs := postings(kind, doc, approverID, now)
		if err := repos.Transactions.AppendBatch(ctx, txs); err != nil {
			return err
		}
		approved = doc
		posted = len(txs)
		return nil
	})
	w.finish(ctx, movement.ActionApprove, approverID, approved, err)
	if err != nil {
		return nil, err
	}
	w.observer.ObservePosting(approved.Type, posted)
	w.log.Info().
		Str("doc_no", approved.DocNo).
		Str("type", string(approved.Type)).
		Int("transactions", posted).
		Msg("documento aprobado")
	return approved, nil
}

// move transición sin efecto en el libro.
func (w *ApprovalWorkflow) move(ctx context.Context, docID string, action movement.Action, actorID string) (*entity.Document, error) {
	var moved *entity.Document
	err := w.txRunner.Run(ctx, func(repos Repos) error {
		doc, err := repos.Documents.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		to, err := movement.Transition(doc.Status, action)
		if err != nil {
			return err
		}
		doc.Status = to
		doc.UpdatedAt = w.now()
		if err := repos.Documents.UpdateStatus(ctx, doc); err != nil {
			return err
		}
		moved = doc
		return nil
	})
	w.finish(ctx, action, actorID, moved, err)
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// postings un asiento por línea con el signo del tipo de documento.
func postings(kind movement.Kind, doc *entity.Document, operatorID string, now time.Time) []*entity.Transaction {
	txs := make([]*entity.Transaction, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		txs = append(txs, &entity.Transaction{
			ID:            uuid.New().String(),
			DocumentID:    doc.ID,
			SampleID:      line.SampleID,
			Type:          doc.Type,
			QuantityDelta: kind.Delta(line.Quantity),
			BatchNo:       line.BatchNo,
			Remark:        line.Remark,
			OperatorID:    operatorID,
			CreatedAt:     now,
		})
	}
	return txs
}

var actionAudit = map[movement.Action]struct {
	action entity.AuditAction
	verb   string
}{
	movement.ActionSubmit:  {entity.AuditActionSubmit, "envío"},
	movement.ActionApprove: {entity.AuditActionApprove, "aprobación"},
	movement.ActionReject:  {entity.AuditActionReject, "rechazo"},
	movement.ActionCancel:  {entity.AuditActionCancel, "anulación"},
}

func (w *ApprovalWorkflow) finish(ctx context.Context, action movement.Action, actorID string, doc *entity.Document, err error) {
	w.observer.ObserveAction(string(action), outcomeOf(err))
	if err != nil {
		w.log.Debug().Err(err).Str("action", string(action)).Msg("acción sobre documento no aplicada")
		return
	}
	a := actionAudit[action]
	w.audit.Record(ctx, actorID, a.action, entity.AuditEntityDocument, doc.ID,
		fmt.Sprintf("%s del documento %s", a.verb, doc.DocNo))
}

// outcomeOf etiqueta de resultado para métricas.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidationFailed):
		return "validation_failed"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnknownAction):
		return "unknown_action"
	default:
		return "error"
	}
}
