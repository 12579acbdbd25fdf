package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Muestras-api/internal/application/dto"
	"github.com/jhoicas/Muestras-api/internal/domain"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
)

func TestTraceDocument_PorNumero(t *testing.T) {
	f := newFixture(t)
	s := f.sample(t, "S")
	id := f.approved(t, entity.DocumentTypeIN, "", ln(s, 4), ln(s, 6))
	doc, err := f.docs.Get(context.Background(), id)
	require.NoError(t, err)

	got, err := f.trace.TraceDocument(context.Background(), doc.DocNo)

	require.NoError(t, err)
	assert.Equal(t, id, got.Document.ID)
	require.Len(t, got.Transactions, 2)
	assert.Equal(t, doc.DocNo, got.Transactions[0].DocNo)
	assert.Equal(t, "S", got.Transactions[0].SampleCode)
}

func TestTraceDocument_Inexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.trace.TraceDocument(context.Background(), "IN-20240101-0001")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.trace.TraceDocument(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTraceSample_StockIgualALaSumaDelHistorial(t *testing.T) {
	f := newFixture(t)
	s := f.sample(t, "SUERO-1")
	f.approved(t, entity.DocumentTypeIN, "", ln(s, 100))
	out := f.approved(t, entity.DocumentTypeOUT, "", ln(s, 40))
	f.approved(t, entity.DocumentTypeRETURN, out, ln(s, 15))
	f.approved(t, entity.DocumentTypeDISPOSE, "", ln(s, 5))

	got, err := f.trace.TraceSample(context.Background(), "SUERO-1")

	require.NoError(t, err)
	assert.Len(t, got.Transactions, 4)
	assert.True(t, dec(70).Equal(got.Stock))
	assert.True(t, f.stock(t, s).Equal(got.Stock))
}

func TestTransactionsForSample_MuestraInexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.trace.TransactionsForSample(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.trace.StockOf(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockOf_SinAsientosEsCero(t *testing.T) {
	f := newFixture(t)
	s := f.sample(t, "S")

	got, err := f.trace.StockOf(context.Background(), s)

	require.NoError(t, err)
	assert.True(t, got.Stock.IsZero())
}

func TestStockReport_OmiteStockCero(t *testing.T) {
	f := newFixture(t)
	a, b, c := f.sample(t, "B-2"), f.sample(t, "A-1"), f.sample(t, "C-3")
	f.approved(t, entity.DocumentTypeIN, "", ln(a, 5), ln(b, 7), ln(c, 1))
	f.approved(t, entity.DocumentTypeOUT, "", ln(c, 1))

	got, err := f.trace.StockReport(context.Background())

	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "A-1", got.Items[0].SampleCode)
	assert.True(t, dec(7).Equal(*got.Items[0].Stock))
	assert.Equal(t, "B-2", got.Items[1].SampleCode)
}

func TestTransactions_FiltrosYOrden(t *testing.T) {
	f := newFixture(t)
	a := f.sample(t, "SUERO-01")
	b := f.sample(t, "PLASMA-01")
	inA := f.approved(t, entity.DocumentTypeIN, "", ln(a, 30))
	f.approved(t, entity.DocumentTypeIN, "", ln(b, 10))
	f.approved(t, entity.DocumentTypeOUT, "", ln(a, 5))
	ctx := context.Background()

	all, err := f.trace.Transactions(ctx, dto.TransactionQuery{}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Page.Total)
	assert.Equal(t, 20, all.Page.Limit)
	require.Len(t, all.Items, 3)
	assert.Equal(t, "OUT", all.Items[0].Type, "más recientes primero")
	assert.Equal(t, "SUERO-01", all.Items[2].SampleCode)

	bySample, err := f.trace.Transactions(ctx, dto.TransactionQuery{SampleCode: "SUERO"}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, bySample.Page.Total)

	byType, err := f.trace.Transactions(ctx, dto.TransactionQuery{Type: "OUT"}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, byType.Items, 1)
	assert.True(t, dec(-5).Equal(byType.Items[0].QuantityDelta))

	doc, err := f.docs.Get(ctx, inA)
	require.NoError(t, err)
	byDoc, err := f.trace.Transactions(ctx, dto.TransactionQuery{DocNo: doc.DocNo}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, byDoc.Items, 1)
	assert.Equal(t, inA, byDoc.Items[0].DocumentID)

	paged, err := f.trace.Transactions(ctx, dto.TransactionQuery{}, dto.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, paged.Page.Total)
	require.Len(t, paged.Items, 1)
	assert.Equal(t, all.Items[2].ID, paged.Items[0].ID)
}

func TestTransactions_RangoDeFechas(t *testing.T) {
	f := newFixture(t)
	s := f.sample(t, "S")
	f.approved(t, entity.DocumentTypeIN, "", ln(s, 1))
	ctx := context.Background()
	now := time.Now()
	before, after := now.Add(-time.Hour), now.Add(time.Hour)

	got, err := f.trace.Transactions(ctx, dto.TransactionQuery{From: &before, To: &after}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Page.Total)

	got, err = f.trace.Transactions(ctx, dto.TransactionQuery{From: &after}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Zero(t, got.Page.Total)
	assert.Empty(t, got.Items)

	_, err = f.trace.Transactions(ctx, dto.TransactionQuery{From: &after, To: &before}, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.trace.Transactions(ctx, dto.TransactionQuery{Type: "TRANSFER"}, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
