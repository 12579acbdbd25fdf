package movement

import (
	"github.com/jhoicas/Muestras-api/internal/domain"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
)

// Action acción sobre el ciclo de vida del documento.
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionCancel  Action = "cancel"
	ActionEdit    Action = "edit"
)

// transitions estado origen -> destino por acción. CANCEL solo desde DRAFT o SUBMIT:
// un documento aprobado ya tiene asientos y se revierte con otro documento.
var transitions = map[Action]map[entity.DocumentStatus]entity.DocumentStatus{
	ActionSubmit:  {entity.DocumentStatusDRAFT: entity.DocumentStatusSUBMIT},
	ActionApprove: {entity.DocumentStatusSUBMIT: entity.DocumentStatusAPPROVE},
	ActionReject:  {entity.DocumentStatusSUBMIT: entity.DocumentStatusREJECT},
	ActionCancel: {
		entity.DocumentStatusDRAFT:  entity.DocumentStatusCANCEL,
		entity.DocumentStatusSUBMIT: entity.DocumentStatusCANCEL,
	},
	ActionEdit: {entity.DocumentStatusDRAFT: entity.DocumentStatusDRAFT},
}

// ParseAction valida la acción pública (submit, approve, reject, cancel).
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionSubmit, ActionApprove, ActionReject, ActionCancel:
		return a, nil
	}
	return "", domain.ErrUnknownAction
}

// Transition devuelve el estado destino o un *domain.TransitionError.
func Transition(from entity.DocumentStatus, action Action) (entity.DocumentStatus, error) {
	targets, ok := transitions[action]
	if !ok {
		return "", domain.ErrUnknownAction
	}
	to, ok := targets[from]
	if !ok {
		return "", &domain.TransitionError{From: string(from), Action: string(action)}
	}
	return to, nil
}
