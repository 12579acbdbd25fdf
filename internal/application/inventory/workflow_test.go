package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Muestras-api/internal/application/inventory"
	"github.com/jhoicas/Muestras-api/internal/domain"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/infrastructure/memory"
)

func TestApprove_EntradaYSalidas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.sample(t, "SRM-001")

	f.approved(t, entity.DocumentTypeIN, "", ln(s, 100))
	assert.True(t, dec(100).Equal(f.stock(t, s)))

	f.approved(t, entity.DocumentTypeOUT, "", ln(s, 30))
	assert.True(t, dec(70).Equal(f.stock(t, s)))

	// 80 > 70: se rechaza con el disponible y el documento no cambia.
	over := f.submitted(t, entity.DocumentTypeOUT, "", ln(s, 80))
	_, err := f.workflow.Approve(ctx, over, approver)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, "SRM-001", verr.SampleCode)
	assert.True(t, dec(70).Equal(verr.Available))
	assert.Equal(t, entity.DocumentStatusSUBMIT, f.status(t, over))
	assert.Zero(t, f.txCount(t, over))
	assert.True(t, dec(70).Equal(f.stock(t, s)))

	f.approved(t, entity.DocumentTypeOUT, "", ln(s, 50))
	assert.True(t, dec(20).Equal(f.stock(t, s)))
}

func TestApprove_EscribeUnAsientoPorLineaConSigno(t *testing.T) {
	f := newFixture(t)
	a, b := f.sample(t, "A"), f.sample(t, "B")
	f.approved(t, entity.DocumentTypeIN, "", ln(a, 10), ln(b, 10))

	id := f.approved(t, entity.DocumentTypeDISPOSE, "", ln(a, 3), ln(b, 4))

	txs, err := f.ledger.TransactionsForDocument(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.True(t, dec(-3).Equal(txs[0].QuantityDelta))
	assert.True(t, dec(-4).Equal(txs[1].QuantityDelta))
	for _, tx := range txs {
		assert.Equal(t, entity.DocumentTypeDISPOSE, tx.Type)
		assert.Equal(t, approver, tx.OperatorID)
	}

	doc, err := f.docs.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "APPROVE", doc.Status)
	assert.Equal(t, approver, doc.ApproverID)
	assert.NotNil(t, doc.ApprovedAt)
}

func TestApprove_DevolucionesAcotadasPorLaSalida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.sample(t, "PLASMA-7")
	f.approved(t, entity.DocumentTypeIN, "", ln(s, 100))
	out := f.approved(t, entity.DocumentTypeOUT, "", ln(s, 50))

	f.approved(t, entity.DocumentTypeRETURN, out, ln(s, 20))
	assert.True(t, dec(70).Equal(f.stock(t, s)))

	over := f.submitted(t, entity.DocumentTypeRETURN, out, ln(s, 40))
	_, err := f.workflow.Approve(ctx, over, approver)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ErrorIs(t, err, domain.ErrInsufficientReturnable)
	assert.True(t, dec(30).Equal(verr.Available))

	f.approved(t, entity.DocumentTypeRETURN, out, ln(s, 30))
	assert.True(t, dec(100).Equal(f.stock(t, s)))

	returned, err := f.ledger.ReturnedQuantity(ctx, out, s)
	require.NoError(t, err)
	assert.True(t, dec(50).Equal(returned))
}

func TestApprove_DevolucionContraSalidaNoAprobada(t *testing.T) {
	f := newFixture(t)
	s := f.sample(t, "X1")
	f.approved(t, entity.DocumentTypeIN, "", ln(s, 10))
	pending := f.submitted(t, entity.DocumentTypeOUT, "", ln(s, 5))

	ret := f.submitted(t, entity.DocumentTypeRETURN, pending, ln(s, 1))
	_, err := f.workflow.Approve(context.Background(), ret, approver)

	assert.ErrorIs(t, err, domain.ErrMissingOrInvalidReturnReference)
	assert.Equal(t, entity.DocumentStatusSUBMIT, f.status(t, ret))
}

func TestApprove_DevolucionSinReferencia(t *testing.T) {
	f := newFixture(t)
	s := f.sample(t, "X2")

	ret := f.submitted(t, entity.DocumentTypeRETURN, "", ln(s, 1))
	_, err := f.workflow.Approve(context.Background(), ret, approver)

	assert.ErrorIs(t, err, domain.ErrMissingOrInvalidReturnReference)
}

func TestApprove_DevolucionConMuestraAjena(t *testing.T) {
	f := newFixture(t)
	a, b := f.sample(t, "A"), f.sample(t, "B")
	f.approved(t, entity.DocumentTypeIN, "", ln(a, 10), ln(b, 10))
	out := f.approved(t, entity.DocumentTypeOUT, "", ln(a, 5))

	ret := f.submitted(t, entity.DocumentTypeRETURN, out, ln(b, 1))
	_, err := f.workflow.Approve(context.Background(), ret, approver)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ErrorIs(t, err, domain.ErrLineNotInOriginalDocument)
	assert.Equal(t, "B", verr.SampleCode)
}

func TestApprove_DobleAprobacionNoDuplicaAsientos(t *testing.T) {
	f := newFixture(t)
	s := f.sample(t, "S")
	id := f.approved(t, entity.DocumentTypeIN, "", ln(s, 10))

	_, err := f.workflow.Approve(context.Background(), id, approver)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 1, f.txCount(t, id))
	assert.True(t, dec(10).Equal(f.stock(t, s)))
}

func TestApprove_DesdeDraftFalla(t *testing.T) {
	f := newFixture(t)
	s := f.sample(t, "S")
	doc := f.create(t, entity.DocumentTypeIN, "", ln(s, 10))

	_, err := f.workflow.Approve(context.Background(), doc.ID, approver)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Zero(t, f.txCount(t, doc.ID))
}

func TestApprove_DocumentoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.workflow.Approve(context.Background(), "no-existe", approver)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApprove_FallaDeInsercionRevierteTodo(t *testing.T) {
	f := newFixture(t)
	s := f.sample(t, "S")
	id := f.submitted(t, entity.DocumentTypeIN, "", ln(s, 10))

	failing := inventory.NewApprovalWorkflow(failingLedgerRunner{inner: f.store}, nil, nil, nil)
	_, err := failing.Approve(context.Background(), id, approver)

	assert.ErrorIs(t, err, errInsertFailed)
	assert.Equal(t, entity.DocumentStatusSUBMIT, f.status(t, id))
	assert.Zero(t, f.txCount(t, id))
	assert.True(t, f.stock(t, s).IsZero())

	// El documento sigue aprobable con el runner sano.
	_, err = f.workflow.Approve(context.Background(), id, approver)
	require.NoError(t, err)
	assert.True(t, dec(10).Equal(f.stock(t, s)))
}

func TestReject_SinAsientos(t *testing.T) {
	f := newFixture(t)
	s := f.sample(t, "S")
	id := f.submitted(t, entity.DocumentTypeIN, "", ln(s, 10))

	doc, err := f.workflow.Reject(context.Background(), id, approver)

	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusREJECT, doc.Status)
	assert.Empty(t, doc.ApproverID)
	assert.Zero(t, f.txCount(t, id))
}

func TestCancel_DesdeDraftYSubmit(t *testing.T) {
	f := newFixture(t)
	s := f.sample(t, "S")
	draft := f.create(t, entity.DocumentTypeIN, "", ln(s, 1))
	submitted := f.submitted(t, entity.DocumentTypeIN, "", ln(s, 1))

	_, err := f.workflow.Cancel(context.Background(), draft.ID, creator)
	require.NoError(t, err)
	_, err = f.workflow.Cancel(context.Background(), submitted, creator)
	require.NoError(t, err)

	assert.Equal(t, entity.DocumentStatusCANCEL, f.status(t, draft.ID))
	assert.Equal(t, entity.DocumentStatusCANCEL, f.status(t, submitted))
}

func TestCancel_DocumentoAprobadoFallaYConservaElLibro(t *testing.T) {
	f := newFixture(t)
	s := f.sample(t, "S")
	id := f.approved(t, entity.DocumentTypeIN, "", ln(s, 10))

	_, err := f.workflow.Cancel(context.Background(), id, creator)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.DocumentStatusAPPROVE, f.status(t, id))
	assert.True(t, dec(10).Equal(f.stock(t, s)))
}

func TestApply_AccionDesconocida(t *testing.T) {
	f := newFixture(t)
	s := f.sample(t, "S")
	doc := f.create(t, entity.DocumentTypeIN, "", ln(s, 1))

	_, err := f.workflow.Apply(context.Background(), doc.ID, "archive", creator)

	assert.ErrorIs(t, err, domain.ErrUnknownAction)
	assert.Equal(t, entity.DocumentStatusDRAFT, f.status(t, doc.ID))
}

// countingObserver acumula ObserveAction por "acción/resultado".
type countingObserver struct {
	mu      sync.Mutex
	actions map[string]int
}

func (o *countingObserver) ObserveAction(action, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.actions == nil {
		o.actions = map[string]int{}
	}
	o.actions[action+"/"+outcome]++
}

func (o *countingObserver) ObservePosting(entity.DocumentType, int) {}

func TestApply_AccionDesconocidaUsaEtiquetaFija(t *testing.T) {
	store := memory.NewStore()
	observer := &countingObserver{}
	workflow := inventory.NewApprovalWorkflow(store, nil, observer, nil)

	for _, action := range []string{"archive", "ARCHIVE-2026", "drop table"} {
		_, err := workflow.Apply(context.Background(), "doc", action, creator)
		require.ErrorIs(t, err, domain.ErrUnknownAction)
	}

	assert.Equal(t, map[string]int{"unknown/unknown_action": 3}, observer.actions)
}

func TestApply_RegistraBitacoraSoloEnExito(t *testing.T) {
	f := newFixture(t)
	s := f.sample(t, "S")
	doc := f.create(t, entity.DocumentTypeIN, "", ln(s, 1))

	_, err := f.workflow.Apply(context.Background(), doc.ID, "submit", creator)
	require.NoError(t, err)
	_, err = f.workflow.Apply(context.Background(), doc.ID, "submit", creator)
	require.Error(t, err)
	_, err = f.workflow.Apply(context.Background(), doc.ID, "approve", approver)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"CREATE:Document:" + creator,
		"SUBMIT:Document:" + creator,
		"APPROVE:Document:" + approver,
	}, f.audit.recorded())
}

func TestApprove_ConcurrenteNuncaDejaStockNegativo(t *testing.T) {
	f := newFixture(t)
	s := f.sample(t, "CONC")
	f.approved(t, entity.DocumentTypeIN, "", ln(s, 100))

	const n = 10
	ids := make([]string, n)
	for i := range ids {
		ids[i] = f.submitted(t, entity.DocumentTypeOUT, "", ln(s, 15))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, rejected := 0, 0
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.workflow.Approve(context.Background(), id, approver)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 6, ok)
	assert.Equal(t, 4, rejected)
	assert.True(t, dec(10).Equal(f.stock(t, s)))
}

func TestApprove_ConcurrenteMismoDocumentoUnaSolaVez(t *testing.T) {
	f := newFixture(t)
	s := f.sample(t, "S")
	id := f.submitted(t, entity.DocumentTypeIN, "", ln(s, 10))

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.workflow.Approve(context.Background(), id, approver)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.txCount(t, id))
}
