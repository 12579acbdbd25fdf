//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Muestras-api/internal/application/dto"
	"github.com/jhoicas/Muestras-api/internal/application/inventory"
	"github.com/jhoicas/Muestras-api/internal/domain"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/movement"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
	"github.com/jhoicas/Muestras-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Muestras-api/pkg/config"
)

// Ejecutar con: TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/infrastructure/postgres/
// La base se vacía al inicio de cada test.

type pgEnv struct {
	pool     *pgxpool.Pool
	runner   *postgres.TxRunner
	repos    inventory.Repos
	docs     *inventory.DocumentService
	workflow *inventory.ApprovalWorkflow
}

func newPgEnv(t *testing.T) *pgEnv {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definida")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE audit_logs, transactions, document_lines, documents, doc_sequences, samples, locations`)
	require.NoError(t, err)

	runner := postgres.NewTxRunner(pool)
	repos := postgres.NewRepos(pool)
	workflow := inventory.NewApprovalWorkflow(runner, nil, nil, nil)
	return &pgEnv{
		pool:     pool,
		runner:   runner,
		repos:    repos,
		docs:     inventory.NewDocumentService(runner, repos, workflow, nil),
		workflow: workflow,
	}
}

func (e *pgEnv) sample(t *testing.T, code string) string {
	t.Helper()
	now := time.Now()
	s := &entity.Sample{ID: uuid.New().String(), SampleCode: code, Name: "Muestra " + code, Unit: "ml", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, e.repos.Samples.Create(context.Background(), s))
	return s.ID
}

func (e *pgEnv) submitted(t *testing.T, typ entity.DocumentType, sampleID string, qty int64) string {
	t.Helper()
	ctx := context.Background()
	doc, err := e.docs.Create(ctx, "user-operador", dto.CreateDocumentRequest{
		Type:  string(typ),
		Lines: []dto.DocumentLineRequest{{SampleID: sampleID, Quantity: decimal.NewFromInt(qty)}},
	})
	require.NoError(t, err)
	_, err = e.workflow.Submit(ctx, doc.ID, "user-operador")
	require.NoError(t, err)
	return doc.ID
}

func (e *pgEnv) stock(t *testing.T, sampleID string) decimal.Decimal {
	t.Helper()
	sum, err := e.repos.Transactions.SumBySample(context.Background(), sampleID)
	require.NoError(t, err)
	return sum
}

func TestPostgresApprove_ConcurrenteNuncaDejaStockNegativo(t *testing.T) {
	e := newPgEnv(t)
	ctx := context.Background()
	s := e.sample(t, "PG-CONC")
	in := e.submitted(t, entity.DocumentTypeIN, s, 100)
	_, err := e.workflow.Approve(ctx, in, "user-supervisor")
	require.NoError(t, err)

	const n = 10
	ids := make([]string, n)
	for i := range ids {
		ids[i] = e.submitted(t, entity.DocumentTypeOUT, s, 15)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, rejected := 0, 0
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := e.workflow.Approve(ctx, id, "user-supervisor")
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
	assert.True(t, decimal.NewFromInt(10).Equal(e.stock(t, s)))
}

func TestPostgresApprove_ConcurrenteMismoDocumentoUnaSolaVez(t *testing.T) {
	e := newPgEnv(t)
	ctx := context.Background()
	s := e.sample(t, "PG-DOBLE")
	id := e.submitted(t, entity.DocumentTypeIN, s, 7)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, invalid := 0, 0
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.workflow.Approve(ctx, id, "user-supervisor")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInvalidTransition):
				invalid++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 4, invalid)
	txs, err := e.repos.Transactions.ListByDocument(ctx, id)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.True(t, decimal.NewFromInt(7).Equal(e.stock(t, s)))
}

func TestPostgresSequence_ConcurrenteSinHuecosNiRepetidos(t *testing.T) {
	e := newPgEnv(t)
	ctx := context.Background()
	kind, err := movement.For(entity.DocumentTypeIN)
	require.NoError(t, err)
	day := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	const n = 20
	got := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := e.runner.Run(ctx, func(repos inventory.Repos) error {
				no, err := inventory.NewDocNumberGenerator(repos.Sequences).Generate(ctx, kind, day)
				if err != nil {
					return err
				}
				got <- no
				return nil
			})
			if err != nil {
				t.Errorf("generar número: %v", err)
			}
		}()
	}
	wg.Wait()
	close(got)

	seen := map[string]bool{}
	for no := range got {
		assert.False(t, seen[no], "número repetido %s", no)
		seen[no] = true
	}
	require.Len(t, seen, n)
	for i := 1; i <= n; i++ {
		assert.True(t, seen[fmt.Sprintf("IN-20240501-%04d", i)], "falta el consecutivo %d", i)
	}
}

func TestPostgresDocumentRepo_CantidadQueRedondeaACeroEsInvalida(t *testing.T) {
	e := newPgEnv(t)
	ctx := context.Background()
	s := e.sample(t, "PG-ESCALA")

	err := e.repos.Documents.Create(ctx, &entity.Document{
		ID: uuid.New().String(), DocNo: "IN-20240501-9999", Type: entity.DocumentTypeIN, Status: entity.DocumentStatusDRAFT,
		CreatorID: "user-operador",
		Lines:     []entity.DocumentLine{{LineNo: 1, SampleID: s, Quantity: decimal.RequireFromString("0.00001")}},
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPostgresTransactionRepo_ListFiltraPorCodigo(t *testing.T) {
	e := newPgEnv(t)
	ctx := context.Background()
	a := e.sample(t, "PG-LIB-A")
	b := e.sample(t, "PG-LIB-B")
	for _, id := range []string{e.submitted(t, entity.DocumentTypeIN, a, 3), e.submitted(t, entity.DocumentTypeIN, b, 4)} {
		_, err := e.workflow.Approve(ctx, id, "user-supervisor")
		require.NoError(t, err)
	}

	list, total, err := e.repos.Transactions.List(ctx, repository.TransactionFilter{SampleCode: "LIB-B"}, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, b, list[0].SampleID)
}
