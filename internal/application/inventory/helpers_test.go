package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Muestras-api/internal/application/dto"
	"github.com/jhoicas/Muestras-api/internal/application/inventory"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
	"github.com/jhoicas/Muestras-api/internal/infrastructure/memory"
)

const (
	creator  = "user-operador"
	approver = "user-supervisor"
)

// fixture servicios de inventario sobre el almacén en memoria.
type fixture struct {
	store    *memory.Store
	docs     *inventory.DocumentService
	workflow *inventory.ApprovalWorkflow
	trace    *inventory.TraceUseCase
	ledger   *inventory.Ledger
	audit    *recordingAudit
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithRunner(t, nil)
}

// newFixtureWithRunner runner nil usa el propio almacén.
func newFixtureWithRunner(t *testing.T, wrap func(inventory.TxRunner) inventory.TxRunner) *fixture {
	t.Helper()
	store := memory.NewStore()
	var runner inventory.TxRunner = store
	if wrap != nil {
		runner = wrap(store)
	}
	audit := &recordingAudit{}
	workflow := inventory.NewApprovalWorkflow(runner, audit, nil, nil)
	docs := inventory.NewDocumentService(runner, store.Repos(), workflow, audit)
	return &fixture{
		store:    store,
		docs:     docs,
		workflow: workflow,
		trace:    inventory.NewTraceUseCase(store.Repos(), store.Locations(), docs),
		ledger:   inventory.NewLedger(store.Repos().Transactions),
		audit:    audit,
	}
}

// sample registra una muestra y devuelve su id.
func (f *fixture) sample(t *testing.T, code string) string {
	t.Helper()
	now := time.Now()
	s := &entity.Sample{ID: uuid.New().String(), SampleCode: code, Name: "Muestra " + code, Unit: "ml", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.store.Repos().Samples.Create(context.Background(), s))
	return s.ID
}

func (f *fixture) create(t *testing.T, typ entity.DocumentType, returnFrom string, lines ...dto.DocumentLineRequest) *dto.DocumentResponse {
	t.Helper()
	out, err := f.docs.Create(context.Background(), creator, dto.CreateDocumentRequest{
		Type:            string(typ),
		ReturnFromDocID: returnFrom,
		Lines:           lines,
	})
	require.NoError(t, err)
	return out
}

// submitted crea y envía un documento.
func (f *fixture) submitted(t *testing.T, typ entity.DocumentType, returnFrom string, lines ...dto.DocumentLineRequest) string {
	t.Helper()
	doc := f.create(t, typ, returnFrom, lines...)
	_, err := f.workflow.Submit(context.Background(), doc.ID, creator)
	require.NoError(t, err)
	return doc.ID
}

// approved crea, envía y aprueba un documento.
func (f *fixture) approved(t *testing.T, typ entity.DocumentType, returnFrom string, lines ...dto.DocumentLineRequest) string {
	t.Helper()
	id := f.submitted(t, typ, returnFrom, lines...)
	_, err := f.workflow.Approve(context.Background(), id, approver)
	require.NoError(t, err)
	return id
}

func (f *fixture) stock(t *testing.T, sampleID string) decimal.Decimal {
	t.Helper()
	s, err := f.ledger.StockOf(context.Background(), sampleID)
	require.NoError(t, err)
	return s
}

func (f *fixture) status(t *testing.T, docID string) entity.DocumentStatus {
	t.Helper()
	doc, err := f.store.Repos().Documents.GetByID(context.Background(), docID)
	require.NoError(t, err)
	require.NotNil(t, doc)
	return doc.Status
}

func (f *fixture) txCount(t *testing.T, docID string) int {
	t.Helper()
	txs, err := f.ledger.TransactionsForDocument(context.Background(), docID)
	require.NoError(t, err)
	return len(txs)
}

func ln(sampleID string, q int64) dto.DocumentLineRequest {
	return dto.DocumentLineRequest{SampleID: sampleID, Quantity: decimal.NewFromInt(q)}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// recordingAudit AuditSink que guarda las acciones en orden.
type recordingAudit struct {
	mu      sync.Mutex
	actions []string
}

func (r *recordingAudit) Record(_ context.Context, actorID string, action entity.AuditAction, entityType, _, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, fmt.Sprintf("%s:%s:%s", action, entityType, actorID))
}

func (r *recordingAudit) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.actions...)
}

var errInsertFailed = errors.New("insert transaction: conexión perdida")

// failingLedgerRunner simula una falla de inserción del libro dentro de la transacción.
type failingLedgerRunner struct {
	inner inventory.TxRunner
}

func (r failingLedgerRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	return r.inner.Run(ctx, func(repos inventory.Repos) error {
		repos.Transactions = failingTransactions{repos.Transactions}
		return fn(repos)
	})
}

type failingTransactions struct {
	repository.TransactionRepository
}

func (failingTransactions) AppendBatch(context.Context, []*entity.Transaction) error {
	return errInsertFailed
}
