package repository

import (
	"context"

	"github.com/jhoicas/Muestras-api/internal/domain/entity"
)

// DocumentFilter filtros opcionales del listado de documentos.
type DocumentFilter struct {
	Type   entity.DocumentType
	Status entity.DocumentStatus
}

// DocumentRepository persistencia de cabecera + líneas. Las líneas no tienen identidad propia.
type DocumentRepository interface {
	// Create inserta cabecera y líneas.
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	GetByDocNo(ctx context.Context, docNo string) (*entity.Document, error)
	// GetForUpdate obtiene el documento y bloquea su fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Document, error)
	List(ctx context.Context, filter DocumentFilter, limit, offset int) ([]*entity.Document, int, error)
	UpdateHeader(ctx context.Context, doc *entity.Document) error
	// ReplaceLines descarta las líneas actuales e instala lines (misma tx del caller).
	ReplaceLines(ctx context.Context, documentID string, lines []entity.DocumentLine) error
	// UpdateStatus actualiza status, approver_id, approved_at y updated_at.
	UpdateStatus(ctx context.Context, doc *entity.Document) error
}

// SequenceRepository contador atómico de numeración por (prefijo, día).
type SequenceRepository interface {
	// Next incrementa y devuelve el siguiente valor (1 en el primer uso).
	Next(ctx context.Context, prefix, day string) (int, error)
}
