package bot

import (
	tghelpers "github.com/fauzaanu/diet/internal/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

const msgStoreFailure = "Something went wrong while saving your answers. Please try again."

func (a *App) handleStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	r, err := a.machine.Start(ctx, c.Sender().ID)
	if err != nil {
		return err
	}
	return sendReply(c, r)
}

func (a *App) handlePlan(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	r, err := a.machine.Resume(ctx, c.Sender().ID)
	if err != nil {
		_ = tghelpers.SendText(c, msgStoreFailure)
		return err
	}
	return sendReply(c, r)
}

func (a *App) handleCancel(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	return sendReply(c, a.machine.Cancel(ctx, c.Sender().ID))
}

// HandleText routes non-command text into the questionnaire.
func (a *App) HandleText(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	r, err := a.machine.Input(ctx, c.Sender().ID, c.Text())
	if err != nil {
		_ = tghelpers.SendText(c, msgStoreFailure)
		return err
	}
	return sendReply(c, r)
}
