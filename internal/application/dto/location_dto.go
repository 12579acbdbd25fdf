package dto

import "time"

// CreateLocationRequest entrada para crear una ubicación.
type CreateLocationRequest struct {
	Code        string `json:"code" validate:"required,min=1,max=50"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	ParentID    string `json:"parent_id,omitempty"`
	Description string `json:"description"`
}

// UpdateLocationRequest body para PUT /api/locations/:id. El código no se puede cambiar.
type UpdateLocationRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	ParentID    string `json:"parent_id,omitempty"`
	Description string `json:"description"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	ParentID    string    `json:"parent_id,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LocationListResponse listado de ubicaciones.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
}
