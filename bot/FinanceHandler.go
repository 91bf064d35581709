package bot

import "fmt"
import "log"
import "strings"
import "time"

import "gopkg.in/telegram-bot-api.v4"

import "github.com/AbuOrstho/fin-assistant/ledger"

// financeHandler drives the transaction conversation: /finance shows the
// kind keyboard, callbacks collect kind and category, the amount and the
// optional description arrive as plain text, /stop cancels at any step.
type financeHandler struct {
	baseHandler
	sessions *sessionTracker
}

func newFinanceHandler(l *ledger.Ledger, sessions *sessionTracker) msgHandler {
	h := &financeHandler{sessions: sessions}
	h.ledger = l
	return h
}

func (h *financeHandler) register(out_msg_chan chan<- tgbotapi.Chattable,
	service_chan chan<- serviceMsg) handlerTrigger {
	msgCh := make(chan tgbotapi.Message, 0)
	cbCh := make(chan tgbotapi.CallbackQuery, 0)
	h.in_msg_chan = msgCh
	h.in_cb_chan = cbCh
	h.out_msg_chan = out_msg_chan

	return handlerTrigger{cmds: []string{"finance", "stop"},
		cbPrefixes: []string{"kind:", "cat:", "adddesc"},
		matchFn: func(msg tgbotapi.Message) bool {
			return !msg.IsCommand() && h.sessions.awaitingText(ledger.OwnerId(msg.Chat.ID))
		},
		in_msg_chan: msgCh,
		in_cb_chan:  cbCh}
}

func (h *financeHandler) run() {
	for {
		select {
		case msg := <-h.in_msg_chan:
			h.handleMessage(msg)
		case cb := <-h.in_cb_chan:
			h.handleCallback(cb)
		}
	}
}

func (h *financeHandler) handleMessage(msg tgbotapi.Message) {
	owner := ledger.OwnerId(msg.Chat.ID)

	if msg.IsCommand() {
		switch msg.Command() {
		case "finance":
			h.startConversation(msg)
		case "stop":
			if h.sessions.cancel(owner) {
				log.Printf("Conversation cancelled by %s", dumpMsgUserInfo(msg))
				h.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, "Operation cancelled.")
			} else {
				h.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, "There is nothing to cancel.")
			}
		}
		return
	}

	// free text is routed here only while an amount or a description is awaited
	if _, _, err := h.sessions.pendingAmount(owner); err == nil {
		h.handleAmount(msg)
		return
	}
	h.handleDescription(msg)
}

func (h *financeHandler) startConversation(msg tgbotapi.Message) {
	owner := ledger.OwnerId(msg.Chat.ID)
	initialized, err := h.ledger.Initialized(owner)
	if err != nil {
		log.Printf("Could not check ledger of %s; error: %s", dumpMsgUserInfo(msg), err)
		h.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, "Something went wrong, please try again later.")
		return
	}
	if !initialized {
		h.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, "You don't have a ledger yet - please run /start first.")
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Income", "kind:income"),
			tgbotapi.NewInlineKeyboardButtonData("Expense", "kind:expense"),
			tgbotapi.NewInlineKeyboardButtonData("Get table", "gettable")))
	reply := tgbotapi.NewMessage(msg.Chat.ID, "Choose the operation type:")
	reply.ReplyMarkup = keyboard
	h.out_msg_chan <- reply
}

func (h *financeHandler) handleCallback(cb tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		log.Printf("Callback without an attached message (%s); skipping", dumpCallbackUserInfo(cb))
		return
	}
	chatId := cb.Message.Chat.ID
	owner := ledger.OwnerId(chatId)
	now := time.Now()

	data := cb.Data
	switch {
	case data == "kind:income" || data == "kind:expense":
		kind := ledger.Expense
		perRow := 3
		if data == "kind:income" {
			kind = ledger.Income
			perRow = 2
		}
		h.sessions.beginTransaction(owner, kind, now)

		categories := h.ledger.Schema().ExpenseCategories()
		if kind == ledger.Income {
			categories = h.ledger.Schema().IncomeCategories()
		}
		reply := tgbotapi.NewMessage(chatId, fmt.Sprintf("Choose the %s category:", kind))
		reply.ReplyMarkup = categoryKeyboard(categories, perRow)
		h.out_msg_chan <- reply

	case strings.HasPrefix(data, "cat:"):
		label := strings.TrimPrefix(data, "cat:")
		category, found := h.ledger.Schema().Lookup(label)
		if !found {
			// schema/keyboard mismatch is a programming defect, not a user error
			log.Printf("Callback category '%s' is not present in the schema (%s); aborting the operation", label, dumpCallbackUserInfo(cb))
			h.sessions.finish(owner)
			h.out_msg_chan <- tgbotapi.NewMessage(chatId, "Something went wrong with the category selection, please start over with /finance.")
			return
		}
		if err := h.sessions.selectCategory(owner, category, now); err != nil {
			log.Printf("Unexpected category selection from %s; state is left unchanged", dumpCallbackUserInfo(cb))
			h.out_msg_chan <- tgbotapi.NewMessage(chatId, "Please begin with /finance before choosing a category.")
			return
		}
		kind, _, _ := h.sessions.pendingAmount(owner)
		h.out_msg_chan <- tgbotapi.NewMessage(chatId, fmt.Sprintf("Please enter the %s amount (a whole non-negative number), or /stop to cancel.", kind))

	case data == "adddesc":
		if err := h.sessions.requestDescription(owner, now); err != nil {
			log.Printf("Unexpected description request from %s; state is left unchanged", dumpCallbackUserInfo(cb))
			h.out_msg_chan <- tgbotapi.NewMessage(chatId, "There is no fresh transaction to describe - record one with /finance first.")
			return
		}
		h.out_msg_chan <- tgbotapi.NewMessage(chatId, "Please enter the description, or /stop to cancel.")
	}
}

func (h *financeHandler) handleAmount(msg tgbotapi.Message) {
	owner := ledger.OwnerId(msg.Chat.ID)
	kind, category, err := h.sessions.pendingAmount(owner)
	if err != nil {
		// checked by the caller; losing the session in between means it timed out
		h.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, "The conversation has expired, please start over with /finance.")
		return
	}

	amount, err := ledger.ParseAmount(strings.TrimSpace(msg.Text))
	if err != nil {
		// re-prompt, state unchanged
		h.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, "Please enter a correct amount (digits only), or /stop to cancel.")
		return
	}

	now := time.Now()
	transaction := ledger.NewTransaction(kind, category, amount, now)
	day, tm, err := h.ledger.Commit(owner, *transaction)
	if err != nil {
		log.Printf("Could not commit %s of %d for %s; error: %s", kind, amount, dumpMsgUserInfo(msg), err)
		// the write may be partial; terminate the conversation instead of retrying
		h.sessions.finish(owner)
		if err == ledger.ErrNotInitialized {
			h.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, "You don't have a ledger yet - please run /start first.")
		} else {
			h.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, "Could not record the transaction, please try again later.")
		}
		return
	}
	if err := h.sessions.committed(owner, day, tm, now); err != nil {
		// session disappeared mid-commit (timeout); transaction stays recorded
		log.Printf("Conversation of owner %d vanished during commit of %s %s", owner, day, tm)
		h.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("Recorded %s of %s in category '%s'.", kind, ledger.FormatAmount(amount), category))
		return
	}

	log.Printf("%s added %s: %s - %d", dumpMsgUserInfo(msg), kind, category, amount)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Get table", "gettable"),
			tgbotapi.NewInlineKeyboardButtonData("Add description", "adddesc")))
	reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("Recorded %s of %s in category '%s'.", kind, ledger.FormatAmount(amount), category))
	reply.ReplyMarkup = keyboard
	h.out_msg_chan <- reply
}

func (h *financeHandler) handleDescription(msg tgbotapi.Message) {
	owner := ledger.OwnerId(msg.Chat.ID)
	day, tm, err := h.sessions.pendingDescription(owner)
	if err != nil {
		h.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, "The conversation has expired, please start over with /finance.")
		return
	}

	description := strings.TrimSpace(msg.Text)
	err = h.ledger.Amend(owner, day, tm, description)
	h.sessions.finish(owner)
	if err != nil {
		log.Printf("Could not amend entry %s %s for %s; error: %s", day, tm, dumpMsgUserInfo(msg), err)
		h.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, "Could not attach the description, please try again later.")
		return
	}

	log.Printf("%s attached a description to entry %s %s", dumpMsgUserInfo(msg), day, tm)
	h.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("Description '%s' added.", description))
}
