package bot

import "log"
import "time"

import "gopkg.in/telegram-bot-api.v4"

import "github.com/AbuOrstho/fin-assistant/ledger"

// startHandler initializes a fresh ledger on /start, or offers to reset the
// existing one. A confirmed reset discards both stores irrecoverably and
// lays down a blank grid.
type startHandler struct {
	baseHandler
}

func newStartHandler(l *ledger.Ledger) msgHandler {
	h := &startHandler{}
	h.ledger = l
	return h
}

func (h *startHandler) register(out_msg_chan chan<- tgbotapi.Chattable,
	service_chan chan<- serviceMsg) handlerTrigger {
	msgCh := make(chan tgbotapi.Message, 0)
	cbCh := make(chan tgbotapi.CallbackQuery, 0)
	h.in_msg_chan = msgCh
	h.in_cb_chan = cbCh
	h.out_msg_chan = out_msg_chan

	return handlerTrigger{cmds: []string{"start"},
		cbPrefixes:  []string{"reset_"},
		in_msg_chan: msgCh,
		in_cb_chan:  cbCh}
}

func (h *startHandler) run() {
	for {
		select {
		case msg := <-h.in_msg_chan:
			h.handleStart(msg)
		case cb := <-h.in_cb_chan:
			h.handleReset(cb)
		}
	}
}

func (h *startHandler) handleStart(msg tgbotapi.Message) {
	owner := ledger.OwnerId(msg.Chat.ID)
	log.Printf("/start received from %s", dumpMsgUserInfo(msg))

	initialized, err := h.ledger.Initialized(owner)
	if err != nil {
		log.Printf("Could not check ledger of %s; error: %s", dumpMsgUserInfo(msg), err)
		h.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, "Something went wrong, please try again later.")
		return
	}

	if initialized {
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Yes", "reset_yes"),
				tgbotapi.NewInlineKeyboardButtonData("No", "reset_no")))
		reply := tgbotapi.NewMessage(msg.Chat.ID,
			"You already have a ledger. See /help for what I can do. "+
				"If you want to wipe it and start from scratch, press \"Yes\" - this cannot be undone.")
		reply.ReplyMarkup = keyboard
		h.out_msg_chan <- reply
		return
	}

	if err := h.ledger.Init(owner, time.Now().UTC()); err != nil {
		log.Printf("Could not create ledger for %s; error: %s", dumpMsgUserInfo(msg), err)
		h.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, "Could not create your ledger, please try again later.")
		return
	}

	log.Printf("Ledger for owner %d has been successfully created", owner)
	h.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID,
		"Hello! I will help you keep track of your income and expenses. "+
			"A personal table has been created for your records. See /help for the details.")
}

func (h *startHandler) handleReset(cb tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		log.Printf("Callback without an attached message (%s); skipping", dumpCallbackUserInfo(cb))
		return
	}
	chatId := cb.Message.Chat.ID
	owner := ledger.OwnerId(chatId)

	if cb.Data == "reset_no" {
		log.Printf("Owner %d keeps the existing ledger", owner)
		h.out_msg_chan <- tgbotapi.NewMessage(chatId, "Continuing with your existing records.")
		return
	}

	if err := h.ledger.Reset(owner, time.Now().UTC()); err != nil {
		log.Printf("Could not reset ledger of owner %d; error: %s", owner, err)
		if err == ledger.ErrNotInitialized {
			h.out_msg_chan <- tgbotapi.NewMessage(chatId, "There is nothing to reset - run /start first.")
		} else {
			h.out_msg_chan <- tgbotapi.NewMessage(chatId, "Could not reset your ledger, please try again later.")
		}
		return
	}

	log.Printf("Ledger of owner %d has been reset", owner)
	h.out_msg_chan <- tgbotapi.NewMessage(chatId, "Your ledger has been wiped and recreated from the blank template.")
}
