package bot

import "gopkg.in/telegram-bot-api.v4"

const helpText = `I keep your income and expenses in a personal spreadsheet and a detailed daily log.

/start - create your ledger, or offer to wipe it and start over.
/finance - record an income or an expense: pick a category, enter the amount, optionally attach a description.
/table - receive your spreadsheet as a file.
/month - total expenses recorded for the current month.
/digest HH:MM - set the delivery time (UTC) of your daily digest; /digest disable returns to the default.
/stop - cancel the current operation.

Every day you receive a digest of the previous day's records.`

type helpHandler struct {
	baseHandler
}

func newHelpHandler() msgHandler {
	return &helpHandler{}
}

func (h *helpHandler) register(out_msg_chan chan<- tgbotapi.Chattable,
	service_chan chan<- serviceMsg) handlerTrigger {
	msgCh := make(chan tgbotapi.Message, 0)
	h.in_msg_chan = msgCh
	h.out_msg_chan = out_msg_chan

	return handlerTrigger{cmds: []string{"help"},
		in_msg_chan: msgCh}
}

func (h *helpHandler) run() {
	for msg := range h.in_msg_chan {
		h.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, helpText)
	}
}
