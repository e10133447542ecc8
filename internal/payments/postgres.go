package payments

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// PostgresStore persists donations in the payments table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const insertQuery = `
INSERT INTO payments (user_id, amount, currency, telegram_payment_charge_id, created_at)
VALUES (:user_id, :amount, :currency, :telegram_payment_charge_id, :created_at)`

const lastChargeQuery = `
SELECT telegram_payment_charge_id
FROM payments
WHERE user_id = $1
ORDER BY created_at DESC, payment_id DESC
LIMIT 1`

// Record inserts one payment row.
func (p *PostgresStore) Record(ctx context.Context, payment *Payment) error {
	payment.Created = time.Now().UTC()
	if _, err := p.db.NamedExecContext(ctx, insertQuery, payment); err != nil {
		return &StoreError{Op: "record", Err: err}
	}
	return nil
}

// LastCharge fetches the newest charge id for a user.
func (p *PostgresStore) LastCharge(ctx context.Context, userID int64) (string, bool, error) {
	var chargeID string
	err := p.db.GetContext(ctx, &chargeID, lastChargeQuery, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StoreError{Op: "last_charge", Err: err}
	}
	return chargeID, true, nil
}
