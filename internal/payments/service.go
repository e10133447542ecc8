package payments

import (
	"context"
	"log/slog"

	"github.com/fauzaanu/diet/internal/config"
	"github.com/fauzaanu/diet/internal/logger"
)

// Service validates checkout payloads and records successful charges. The
// payload check is what ties an incoming pre-checkout query back to an
// invoice this bot actually issued.
type Service struct {
	store Store
	cfg   config.PaymentsConfig
}

// NewService builds a Service over the given store.
func NewService(store Store, cfg config.PaymentsConfig) *Service {
	return &Service{store: store, cfg: cfg}
}

// Invoice returns the title, description, payload, currency, and amount for
// a donation invoice.
func (s *Service) Invoice() (title, description, payload, currency string, amount int) {
	return s.cfg.Title, s.cfg.Description, s.cfg.Payload, s.cfg.Currency, s.cfg.Amount
}

// VerifyPayload reports whether a pre-checkout payload matches what this
// bot issues. Mismatched payloads get the checkout declined.
func (s *Service) VerifyPayload(payload string) bool {
	return payload == s.cfg.Payload
}

// RecordCharge stores a successful payment.
func (s *Service) RecordCharge(ctx context.Context, userID int64, amount int, currency, chargeID string) error {
	p := &Payment{
		UserID:   userID,
		Amount:   amount,
		Currency: currency,
		ChargeID: chargeID,
	}
	if err := s.store.Record(ctx, p); err != nil {
		logger.Error(ctx, "service.payments", "payment.record",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return err
	}
	logger.Info(ctx, "service.payments", "payment.record",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Int("amount", amount),
		slog.String("currency", currency),
		slog.String("charge_id", chargeID),
	)
	return nil
}

// LastCharge returns the charge id of the user's most recent donation.
func (s *Service) LastCharge(ctx context.Context, userID int64) (string, bool, error) {
	return s.store.LastCharge(ctx, userID)
}
