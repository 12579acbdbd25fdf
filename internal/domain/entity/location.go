package entity

import "time"

// Location representa una ubicación física de almacenamiento (congelador, estante, caja).
// ParentID permite jerarquías (sala > congelador > rack).
type Location struct {
	ID          string
	Code        string // código único
	Name        string
	ParentID    string // vacío si es raíz
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
