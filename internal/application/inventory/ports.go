package inventory

import (
	"context"

	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
)

// Repos repositorios atados a una misma conexión o transacción.
type Repos struct {
	Documents    repository.DocumentRepository
	Transactions repository.TransactionRepository
	Samples      repository.SampleRepository
	Sequences    repository.SequenceRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. Garantiza atomicidad del libro.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// AuditSink bitácora externa. Se invoca tras el Commit; un fallo no revierte la operación.
type AuditSink interface {
	Record(ctx context.Context, actorID string, action entity.AuditAction, entityType, entityID, description string)
}

// Observer recibe resultados del flujo de aprobación (métricas).
type Observer interface {
	ObserveAction(action, outcome string)
	ObservePosting(docType entity.DocumentType, lines int)
}

type nopAudit struct{}

func (nopAudit) Record(context.Context, string, entity.AuditAction, string, string, string) {}

type nopObserver struct{}

func (nopObserver) ObserveAction(string, string) {}
func (nopObserver) ObservePosting(entity.DocumentType, int) {}
