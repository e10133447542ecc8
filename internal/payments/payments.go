// Package payments records Telegram Stars donations and supports refunds.
package payments

import (
	"context"
	"fmt"
	"time"
)

// Payment is one successful donation as reported by Telegram.
type Payment struct {
	ID       int64     `db:"payment_id"`
	UserID   int64     `db:"user_id"`
	Amount   int       `db:"amount"`
	Currency string    `db:"currency"`
	ChargeID string    `db:"telegram_payment_charge_id"`
	Created  time.Time `db:"created_at"`
}

// Store persists donation records.
type Store interface {
	Record(ctx context.Context, p *Payment) error
	// LastCharge returns the newest charge id for a user, reporting absence
	// without error.
	LastCharge(ctx context.Context, userID int64) (string, bool, error)
}

// StoreError wraps a payments store failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("payments store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Code identifies the error class for structured logs.
func (e *StoreError) Code() string { return "PERSISTENCE_ERROR" }
