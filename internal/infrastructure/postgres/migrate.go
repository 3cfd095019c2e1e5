package postgres

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS payments (
	id             TEXT PRIMARY KEY,
	card_last_four INTEGER NOT NULL,
	expiry_month   INTEGER NOT NULL,
	expiry_year    INTEGER NOT NULL,
	currency       CHAR(3) NOT NULL,
	amount         BIGINT NOT NULL,
	status         TEXT NOT NULL CHECK (status IN ('AUTHORIZED', 'DECLINED')),
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Migrate applies the payments schema. Used by tests and local setups;
// production deployments run their own migration tooling.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
