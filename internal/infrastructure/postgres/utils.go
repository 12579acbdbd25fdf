package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation referencia a una fila inexistente (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// isCheckViolation fila rechazada por un CHECK del esquema (23514).
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}

// nullable convierte "" en NULL para columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// deref inverso de nullable al escanear.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
