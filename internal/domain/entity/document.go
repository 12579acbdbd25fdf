package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType tipo de movimiento que solicita el documento.
type DocumentType string

// Tipos de documento de movimiento.
const (
	DocumentTypeIN      DocumentType = "IN"      // entrada
	DocumentTypeOUT     DocumentType = "OUT"     // salida
	DocumentTypeRETURN  DocumentType = "RETURN"  // devolución de una salida
	DocumentTypeDISPOSE DocumentType = "DISPOSE" // destrucción
)

// DocumentStatus estado del ciclo de vida del documento.
type DocumentStatus string

// Estados del documento. APPROVE, REJECT y CANCEL son terminales.
const (
	DocumentStatusDRAFT   DocumentStatus = "DRAFT"
	DocumentStatusSUBMIT  DocumentStatus = "SUBMIT"
	DocumentStatusAPPROVE DocumentStatus = "APPROVE"
	DocumentStatusREJECT  DocumentStatus = "REJECT"
	DocumentStatusCANCEL  DocumentStatus = "CANCEL"
)

// IsTerminal indica si el estado ya no admite transiciones.
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusAPPROVE || s == DocumentStatusREJECT || s == DocumentStatusCANCEL
}

// DisposeInfo datos de destrucción (solo DISPOSE).
type DisposeInfo struct {
	Reason     string
	Method     string
	Operator   string
	Supervisor string
	Approver   string
}

// Document cabecera del documento de movimiento. Lines pertenece al documento: solo se reemplaza
// completo y únicamente en DRAFT.
type Document struct {
	ID              string
	DocNo           string
	Type            DocumentType
	Status          DocumentStatus
	Description     string
	Dispose         *DisposeInfo
	ReturnFromDocID string // solo RETURN: salida aprobada de la que se devuelve
	CreatorID       string
	ApproverID      string
	ApprovedAt      *time.Time
	Lines           []DocumentLine
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DocumentLine una muestra + cantidad dentro del documento.
type DocumentLine struct {
	LineNo   int
	SampleID string
	Quantity decimal.Decimal // positiva
	BatchNo  string
	Remark   string
}

// SampleIDs devuelve los ids de muestra de las líneas sin repetir, en orden de aparición.
func (d *Document) SampleIDs() []string {
	seen := make(map[string]bool, len(d.Lines))
	ids := make([]string, 0, len(d.Lines))
	for _, l := range d.Lines {
		if seen[l.SampleID] {
			continue
		}
		seen[l.SampleID] = true
		ids = append(ids, l.SampleID)
	}
	return ids
}

// QuantityOf suma las cantidades de las líneas de una muestra.
func (d *Document) QuantityOf(sampleID string) (decimal.Decimal, bool) {
	total := decimal.Zero
	found := false
	for _, l := range d.Lines {
		if l.SampleID == sampleID {
			total = total.Add(l.Quantity)
			found = true
		}
	}
	return total, found
}
