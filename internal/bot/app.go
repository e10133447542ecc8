// Package bot wires the questionnaire, the session store, and the donation
// flow into Telegram handlers.
package bot

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fauzaanu/diet/internal/config"
	"github.com/fauzaanu/diet/internal/dialog"
	"github.com/fauzaanu/diet/internal/logger"
	"github.com/fauzaanu/diet/internal/payments"
	"github.com/fauzaanu/diet/internal/session"
	tg "github.com/fauzaanu/diet/internal/telegram"
	"github.com/fauzaanu/diet/internal/telegram/commands"
	tghelpers "github.com/fauzaanu/diet/internal/telegram/helpers"
	"github.com/fauzaanu/diet/internal/telegram/keyboard"
	"github.com/fauzaanu/diet/internal/telegram/router"

	tele "gopkg.in/telebot.v4"
)

// App owns the bot's domain services and produces the Telegram wiring.
type App struct {
	cfg      *config.Config
	machine  *dialog.Machine
	payments *payments.Service

	bot atomic.Pointer[tele.Bot]
}

// NewApp assembles the application over the given stores.
func NewApp(cfg *config.Config, sessions session.Store, pay payments.Store) *App {
	a := &App{
		cfg:      cfg,
		payments: payments.NewService(pay, cfg.Payments),
	}
	a.machine = dialog.New(sessions, dialog.Options{
		FoodsStep:   cfg.Dialog.FoodsStep,
		FoodsWindow: time.Duration(cfg.Dialog.FoodsWindowSeconds) * time.Second,
		Notify:      a.notify,
	})
	return a
}

// Run starts the Telegram runtime and blocks until ctx is done.
func (a *App) Run(ctx context.Context) error {
	reg := tg.NewRegistry()
	a.registerCommands(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes,
		router.TextRoute(a, reg, router.TextOptions{}),
		tg.Route{Endpoint: tele.OnCheckout, Handler: a.handleCheckout},
		tg.Route{Endpoint: tele.OnPayment, Handler: a.handlePayment},
	)

	return tg.RunTelegram(ctx, tg.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart: func(_ context.Context, rt tg.Runtime) error {
			a.bot.Store(rt.Bot)
			return nil
		},
		OnStop: func(_ context.Context, _ tg.Runtime) error {
			a.bot.Store(nil)
			return nil
		},
	})
}

func (a *App) registerCommands(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Build your diet plan",
	})
	reg.RegisterCommand("/plan", commands.Command{
		Handler:     a.handlePlan,
		Description: "Show your saved plan",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     a.handleCancel,
		Description: "Cancel the current questionnaire",
	})
	reg.RegisterCommand("/donate", commands.Command{
		Handler:     a.handleDonate,
		Description: "Support the bot with Telegram Stars",
	})
	reg.RegisterCommand("/refund", commands.Command{
		Handler:     a.handleRefund,
		Description: "Refund your last donation",
		AdminOnly:   true,
		Hidden:      true,
	})
}

// InProgress reports whether the user is mid-questionnaire.
func (a *App) InProgress(userID int64) bool {
	return a.machine.InProgress(userID)
}

// notify delivers timer-driven dialog replies outside a user turn.
func (a *App) notify(userID int64, r dialog.Reply) {
	b := a.bot.Load()
	if b == nil || r.Empty() {
		return
	}
	ctx := context.Background()
	if _, err := b.Send(&tele.User{ID: userID}, r.Text, keyboard.RemoveKeyboard()); err != nil {
		logger.Warn(ctx, "tg", "notify.fail",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}
}

// sendReply renders a dialog reply: keyboard rows when the step offers
// choices, keyboard removal otherwise.
func sendReply(c tele.Context, r dialog.Reply) error {
	if r.Empty() {
		return nil
	}
	var markup *tele.ReplyMarkup
	if len(r.Options) > 0 {
		markup = keyboard.ReplyButtons(r.Options...)
	} else {
		markup = keyboard.RemoveKeyboard()
	}
	return tghelpers.SendWithMarkup(c, r.Text, markup)
}
