// Package movement modela los tipos de documento como una variante cerrada: cada tipo sabe su
// prefijo de numeración, el signo de su asiento en el libro y la regla que valida su aprobación.
package movement

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Muestras-api/internal/domain"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
)

// LedgerView lecturas que necesitan las reglas de aprobación. Se resuelve dentro de la misma
// transacción que luego escribe los asientos.
type LedgerView interface {
	StockOf(ctx context.Context, sampleID string) (decimal.Decimal, error)
	// ReturnedQuantity suma los asientos RETURN aprobados contra returnFromDocID para la muestra.
	ReturnedQuantity(ctx context.Context, returnFromDocID, sampleID string) (decimal.Decimal, error)
	Document(ctx context.Context, id string) (*entity.Document, error)
	SampleCode(ctx context.Context, sampleID string) (string, error)
}

// Kind capacidad de un tipo de documento.
type Kind interface {
	Type() entity.DocumentType
	// Prefix prefijo del número de documento (IN, OUT, RET, DIS).
	Prefix() string
	// Delta convierte la cantidad positiva de una línea en el asiento con signo.
	Delta(quantity decimal.Decimal) decimal.Decimal
	// Validate evalúa las líneas en orden y devuelve el primer incumplimiento (*domain.ValidationError).
	Validate(ctx context.Context, view LedgerView, doc *entity.Document) error
}

var kinds = map[entity.DocumentType]Kind{
	entity.DocumentTypeIN:      inbound{},
	entity.DocumentTypeOUT:     withdrawal{typ: entity.DocumentTypeOUT, prefix: "OUT"},
	entity.DocumentTypeDISPOSE: withdrawal{typ: entity.DocumentTypeDISPOSE, prefix: "DIS"},
	entity.DocumentTypeRETURN:  returning{},
}

// For devuelve la variante del tipo; ErrInvalidInput si el tipo no existe.
func For(t entity.DocumentType) (Kind, error) {
	k, ok := kinds[t]
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	return k, nil
}

// IsValidType indica si t es uno de los cuatro tipos de documento.
func IsValidType(t entity.DocumentType) bool {
	_, ok := kinds[t]
	return ok
}

// inbound entrada: siempre válida, suma stock.
type inbound struct{}

func (inbound) Type() entity.DocumentType { return entity.DocumentTypeIN }
func (inbound) Prefix() string { return "IN" }
func (inbound) Delta(q decimal.Decimal) decimal.Decimal { return q.Abs() }
func (inbound) Validate(context.Context, LedgerView, *entity.Document) error { return nil }

// withdrawal salida o destrucción: resta stock y exige stock suficiente por muestra.
type withdrawal struct {
	typ    entity.DocumentType
	prefix string
}

func (w withdrawal) Type() entity.DocumentType { return w.typ }
func (w withdrawal) Prefix() string { return w.prefix }
func (withdrawal) Delta(q decimal.Decimal) decimal.Decimal { return q.Abs().Neg() }

// Validate acumula lo pedido por líneas anteriores de la misma muestra para que el documento
// completo nunca deje el stock en negativo.
func (withdrawal) Validate(ctx context.Context, view LedgerView, doc *entity.Document) error {
	requested := make(map[string]decimal.Decimal, len(doc.Lines))
	for _, line := range doc.Lines {
		stock, err := view.StockOf(ctx, line.SampleID)
		if err != nil {
			return err
		}
		available := stock.Sub(requested[line.SampleID])
		if available.LessThan(line.Quantity) {
			code, err := view.SampleCode(ctx, line.SampleID)
			if err != nil {
				return err
			}
			return &domain.ValidationError{
				Kind:       domain.ErrInsufficientStock,
				SampleID:   line.SampleID,
				SampleCode: code,
				Available:  available,
			}
		}
		requested[line.SampleID] = requested[line.SampleID].Add(line.Quantity)
	}
	return nil
}

// returning devolución: suma stock, acotada por lo retirado en la salida original.
type returning struct{}

func (returning) Type() entity.DocumentType { return entity.DocumentTypeRETURN }
func (returning) Prefix() string { return "RET" }
func (returning) Delta(q decimal.Decimal) decimal.Decimal { return q.Abs() }

func (returning) Validate(ctx context.Context, view LedgerView, doc *entity.Document) error {
	if doc.ReturnFromDocID == "" {
		return &domain.ValidationError{Kind: domain.ErrMissingOrInvalidReturnReference, Details: "return_from_doc_id requerido"}
	}
	origin, err := view.Document(ctx, doc.ReturnFromDocID)
	if err != nil {
		return err
	}
	if origin == nil || origin.Type != entity.DocumentTypeOUT || origin.Status != entity.DocumentStatusAPPROVE {
		return &domain.ValidationError{Kind: domain.ErrMissingOrInvalidReturnReference, Details: "documento " + doc.ReturnFromDocID}
	}

	requested := make(map[string]decimal.Decimal, len(doc.Lines))
	for _, line := range doc.Lines {
		original, ok := origin.QuantityOf(line.SampleID)
		if !ok {
			code, err := view.SampleCode(ctx, line.SampleID)
			if err != nil {
				return err
			}
			return &domain.ValidationError{Kind: domain.ErrLineNotInOriginalDocument, SampleID: line.SampleID, SampleCode: code}
		}
		returned, err := view.ReturnedQuantity(ctx, doc.ReturnFromDocID, line.SampleID)
		if err != nil {
			return err
		}
		available := original.Sub(returned).Sub(requested[line.SampleID])
		if line.Quantity.GreaterThan(available) {
			code, err := view.SampleCode(ctx, line.SampleID)
			if err != nil {
				return err
			}
			return &domain.ValidationError{
				Kind:       domain.ErrInsufficientReturnable,
				SampleID:   line.SampleID,
				SampleCode: code,
				Available:  available,
			}
		}
		requested[line.SampleID] = requested[line.SampleID].Add(line.Quantity)
	}
	return nil
}
