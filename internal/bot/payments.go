package bot

import (
	"fmt"
	"log/slog"

	"github.com/fauzaanu/diet/internal/logger"
	tghelpers "github.com/fauzaanu/diet/internal/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

const checkoutRejectText = "This payment request was not issued by this bot."

func (a *App) handleDonate(c tele.Context) error {
	title, description, payload, currency, amount := a.payments.Invoice()
	inv := &tele.Invoice{
		Title:       title,
		Description: description,
		Payload:     payload,
		Currency:    currency,
		Prices:      []tele.Price{{Label: "Donation", Amount: amount}},
	}
	return c.Send(inv)
}

// handleCheckout answers the pre-checkout query. Telegram charges only
// after an ok answer, so a foreign payload is rejected here.
func (a *App) handleCheckout(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	q := c.PreCheckoutQuery()
	if q == nil {
		return nil
	}
	if !a.payments.VerifyPayload(q.Payload) {
		logger.Warn(ctx, "service.payments", "checkout.reject",
			slog.Int64("user_id", q.Sender.ID),
			slog.String("payload", logger.SanitizeLimit(q.Payload, 64)),
		)
		return c.Accept(checkoutRejectText)
	}
	return c.Accept()
}

func (a *App) handlePayment(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	pay := c.Message().Payment
	if pay == nil {
		return nil
	}
	if err := a.payments.RecordCharge(ctx, c.Sender().ID, pay.Total, pay.Currency, pay.TelegramChargeID); err != nil {
		// The charge already happened; thank the user regardless.
		_ = tghelpers.SendText(c, "Thank you for your support!")
		return err
	}
	return tghelpers.SendText(c, "Thank you for your support!")
}

// handleRefund refunds the caller's most recent recorded donation.
func (a *App) handleRefund(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	chargeID, ok, err := a.payments.LastCharge(ctx, userID)
	if err != nil {
		_ = tghelpers.SendText(c, msgStoreFailure)
		return err
	}
	if !ok {
		return tghelpers.SendText(c, "No donation found to refund.")
	}

	params := map[string]any{
		"user_id":                    userID,
		"telegram_payment_charge_id": chargeID,
	}
	if _, err := c.Bot().Raw("refundStarPayment", params); err != nil {
		logger.Error(ctx, "service.payments", "payment.refund",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("charge_id", chargeID),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, "Refund failed. Please try again later.")
	}

	logger.Info(ctx, "service.payments", "payment.refund",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("charge_id", chargeID),
	)
	return tghelpers.SendText(c, fmt.Sprintf("Your payment %s has been refunded successfully.", chargeID))
}
