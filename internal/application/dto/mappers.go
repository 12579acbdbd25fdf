package dto

import "github.com/jhoicas/Muestras-api/internal/domain/entity"

// NewSampleResponse mapea la entidad a su salida (sin stock ni ubicación resuelta).
func NewSampleResponse(s *entity.Sample) SampleResponse {
	return SampleResponse{
		ID:               s.ID,
		SampleCode:       s.SampleCode,
		Name:             s.Name,
		Type:             s.Type,
		Spec:             s.Spec,
		Unit:             s.Unit,
		Source:           s.Source,
		StorageCondition: s.StorageCondition,
		ExpiryDate:       s.ExpiryDate,
		LocationID:       s.LocationID,
		VolumeMl:         s.VolumeMl,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// NewLocationResponse mapea una ubicación.
func NewLocationResponse(l *entity.Location) LocationResponse {
	return LocationResponse{
		ID:          l.ID,
		Code:        l.Code,
		Name:        l.Name,
		ParentID:    l.ParentID,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// NewTransactionResponse mapea un asiento; DocNo y SampleCode los completa quien los conozca.
func NewTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		DocumentID:    t.DocumentID,
		SampleID:      t.SampleID,
		Type:          string(t.Type),
		QuantityDelta: t.QuantityDelta,
		BatchNo:       t.BatchNo,
		Remark:        t.Remark,
		OperatorID:    t.OperatorID,
		CreatedAt:     t.CreatedAt,
	}
}

// NewAuditLogResponse mapea un registro de bitácora.
func NewAuditLogResponse(a *entity.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:          a.ID,
		ActorID:     a.ActorID,
		Action:      string(a.Action),
		EntityType:  a.EntityType,
		EntityID:    a.EntityID,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
	}
}
