package entity

import "time"

// AuditAction acción registrada en la bitácora.
type AuditAction string

const (
	AuditActionCreate  AuditAction = "CREATE"
	AuditActionEdit    AuditAction = "EDIT"
	AuditActionSubmit  AuditAction = "SUBMIT"
	AuditActionApprove AuditAction = "APPROVE"
	AuditActionReject  AuditAction = "REJECT"
	AuditActionCancel  AuditAction = "CANCEL"
	AuditActionDelete  AuditAction = "DELETE"
)

// Tipos de entidad auditada.
const (
	AuditEntityDocument = "Document"
	AuditEntitySample   = "SampleMaster"
	AuditEntityLocation = "Location"
)

// AuditLog registro append-only de quién hizo qué.
type AuditLog struct {
	ID          string
	ActorID     string
	Action      AuditAction
	EntityType  string
	EntityID    string
	Description string
	CreatedAt   time.Time
}
