package payments

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests.
type MemoryStore struct {
	mu   sync.Mutex
	rows []Payment

	// FailRecords, when set, makes every Record call fail with that error.
	FailRecords error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Record appends a payment row.
func (m *MemoryStore) Record(_ context.Context, p *Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRecords != nil {
		return &StoreError{Op: "record", Err: m.FailRecords}
	}
	p.ID = int64(len(m.rows) + 1)
	p.Created = time.Now().UTC()
	m.rows = append(m.rows, *p)
	return nil
}

// LastCharge returns the charge id of the newest row for a user.
func (m *MemoryStore) LastCharge(_ context.Context, userID int64) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].UserID == userID {
			return m.rows[i].ChargeID, true, nil
		}
	}
	return "", false, nil
}

// Len reports the number of recorded payments.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}
