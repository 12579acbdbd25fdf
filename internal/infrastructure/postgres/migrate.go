package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schema string

// Migrate aplica el esquema embebido. Es idempotente.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
