package bot

import "fmt"
import "log"
import "time"

import "gopkg.in/telegram-bot-api.v4"

import "github.com/AbuOrstho/fin-assistant/ledger"

// statsHandler answers /month with the expense total accumulated in the
// current month's grid column.
type statsHandler struct {
	baseHandler
}

func newStatsHandler(l *ledger.Ledger) msgHandler {
	h := &statsHandler{}
	h.ledger = l
	return h
}

func (h *statsHandler) register(out_msg_chan chan<- tgbotapi.Chattable,
	service_chan chan<- serviceMsg) handlerTrigger {
	msgCh := make(chan tgbotapi.Message, 0)
	h.in_msg_chan = msgCh
	h.out_msg_chan = out_msg_chan

	return handlerTrigger{cmds: []string{"month"},
		in_msg_chan: msgCh}
}

func (h *statsHandler) run() {
	for msg := range h.in_msg_chan {
		owner := ledger.OwnerId(msg.Chat.ID)
		now := time.Now().UTC()
		total, err := h.ledger.MonthExpenses(owner, now)
		if err != nil {
			log.Printf("Could not calculate month expenses for %s; error: %s", dumpMsgUserInfo(msg), err)
			if err == ledger.ErrNotInitialized {
				h.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, "You don't have a ledger yet - please run /start first.")
			} else {
				h.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, "Could not calculate your expenses, please try again later.")
			}
			continue
		}
		h.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID,
			fmt.Sprintf("Expenses for %s so far: %s", now.Month(), ledger.FormatAmount(total)))
	}
}
