package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/Muestras-api/internal/application/dto"
	"github.com/jhoicas/Muestras-api/internal/domain"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/movement"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
)

// TraceUseCase consultas del libro: stock, asientos por muestra/documento, trazabilidad y reporte
// de stock. Solo lectura.
type TraceUseCase struct {
	repos     Repos
	locations repository.LocationRepository
	ledger    *Ledger
	documents *DocumentService
}

// NewTraceUseCase construye el caso de uso de consultas del libro.
func NewTraceUseCase(repos Repos, locations repository.LocationRepository, documents *DocumentService) *TraceUseCase {
	return &TraceUseCase{repos: repos, locations: locations, ledger: NewLedger(repos.Transactions), documents: documents}
}

// StockOf stock derivado de una muestra existente.
func (uc *TraceUseCase) StockOf(ctx context.Context, sampleID string) (*dto.StockResponse, error) {
	if _, err := uc.sample(ctx, sampleID); err != nil {
		return nil, err
	}
	stock, err := uc.ledger.StockOf(ctx, sampleID)
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{SampleID: sampleID, Stock: stock}, nil
}

// TransactionsForSample asientos de una muestra (ascendente por creación).
func (uc *TraceUseCase) TransactionsForSample(ctx context.Context, sampleID string) (*dto.TransactionListResponse, error) {
	if _, err := uc.sample(ctx, sampleID); err != nil {
		return nil, err
	}
	txs, err := uc.ledger.TransactionsForSample(ctx, sampleID)
	if err != nil {
		return nil, err
	}
	items, err := uc.enrich(ctx, txs)
	if err != nil {
		return nil, err
	}
	return &dto.TransactionListResponse{Items: items}, nil
}

// TransactionsForDocument asientos de un documento (vacío salvo que esté aprobado).
func (uc *TraceUseCase) TransactionsForDocument(ctx context.Context, documentID string) (*dto.TransactionListResponse, error) {
	doc, err := uc.repos.Documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	txs, err := uc.ledger.TransactionsForDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	items, err := uc.enrich(ctx, txs)
	if err != nil {
		return nil, err
	}
	return &dto.TransactionListResponse{Items: items}, nil
}

// Transactions libro global filtrado, más recientes primero, con DocNo y SampleCode resueltos.
func (uc *TraceUseCase) Transactions(ctx context.Context, q dto.TransactionQuery, page dto.PageRequest) (*dto.TransactionPageResponse, error) {
	page.DefaultPage()
	filter := repository.TransactionFilter{
		SampleCode: q.SampleCode,
		DocNo:      q.DocNo,
		Type:       entity.DocumentType(q.Type),
		From:       q.From,
		To:         q.To,
	}
	if filter.Type != "" && !movement.IsValidType(filter.Type) {
		return nil, domain.ErrInvalidInput
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, domain.ErrInvalidInput
	}
	txs, total, err := uc.repos.Transactions.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items, err := uc.enrich(ctx, txs)
	if err != nil {
		return nil, err
	}
	return &dto.TransactionPageResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// TraceDocument documento por número con sus asientos.
func (uc *TraceUseCase) TraceDocument(ctx context.Context, docNo string) (*dto.DocumentTraceResponse, error) {
	if docNo == "" {
		return nil, domain.ErrInvalidInput
	}
	doc, err := uc.documents.GetByDocNo(ctx, docNo)
	if err != nil {
		return nil, err
	}
	txs, err := uc.TransactionsForDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	return &dto.DocumentTraceResponse{Document: *doc, Transactions: txs.Items}, nil
}

// TraceSample muestra por código con todo su historial y el stock que resulta de sumarlo.
func (uc *TraceUseCase) TraceSample(ctx context.Context, sampleCode string) (*dto.SampleTraceResponse, error) {
	if sampleCode == "" {
		return nil, domain.ErrInvalidInput
	}
	sample, err := uc.repos.Samples.GetByCode(ctx, sampleCode)
	if err != nil {
		return nil, err
	}
	if sample == nil {
		return nil, domain.ErrNotFound
	}
	txs, err := uc.ledger.TransactionsForSample(ctx, sample.ID)
	if err != nil {
		return nil, err
	}
	items, err := uc.enrich(ctx, txs)
	if err != nil {
		return nil, err
	}
	out := &dto.SampleTraceResponse{Sample: dto.NewSampleResponse(sample), Transactions: items}
	for _, t := range txs {
		out.Stock = out.Stock.Add(t.QuantityDelta)
	}
	if err := uc.attachLocation(ctx, &out.Sample); err != nil {
		return nil, err
	}
	return out, nil
}

// StockReport muestras con stock distinto de cero, ordenadas por código.
func (uc *TraceUseCase) StockReport(ctx context.Context) (*dto.StockReportResponse, error) {
	samples, err := uc.repos.Samples.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	stock, err := uc.repos.Transactions.StockBySample(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SampleResponse, 0, len(stock))
	for _, s := range samples {
		qty, ok := stock[s.ID]
		if !ok || qty.IsZero() {
			continue
		}
		item := dto.NewSampleResponse(s)
		item.Stock = &qty
		if err := uc.attachLocation(ctx, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].SampleCode < items[j].SampleCode })
	return &dto.StockReportResponse{Items: items}, nil
}

func (uc *TraceUseCase) sample(ctx context.Context, id string) (*entity.Sample, error) {
	s, err := uc.repos.Samples.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (uc *TraceUseCase) attachLocation(ctx context.Context, out *dto.SampleResponse) error {
	if out.LocationID == "" || uc.locations == nil {
		return nil
	}
	loc, err := uc.locations.GetByID(ctx, out.LocationID)
	if err != nil {
		return err
	}
	if loc != nil {
		l := dto.NewLocationResponse(loc)
		out.Location = &l
	}
	return nil
}

// enrich completa DocNo y SampleCode con una lectura por documento/muestra distinto.
func (uc *TraceUseCase) enrich(ctx context.Context, txs []*entity.Transaction) ([]dto.TransactionResponse, error) {
	docNos := map[string]string{}
	codes := map[string]string{}
	items := make([]dto.TransactionResponse, 0, len(txs))
	for _, t := range txs {
		item := dto.NewTransactionResponse(t)
		if _, ok := docNos[t.DocumentID]; !ok {
			doc, err := uc.repos.Documents.GetByID(ctx, t.DocumentID)
			if err != nil {
				return nil, err
			}
			if doc != nil {
				docNos[t.DocumentID] = doc.DocNo
			}
		}
		if _, ok := codes[t.SampleID]; !ok {
			s, err := uc.repos.Samples.GetByID(ctx, t.SampleID)
			if err != nil {
				return nil, err
			}
			if s != nil {
				codes[t.SampleID] = s.SampleCode
			}
		}
		item.DocNo = docNos[t.DocumentID]
		item.SampleCode = codes[t.SampleID]
		items = append(items, item)
	}
	return items, nil
}
