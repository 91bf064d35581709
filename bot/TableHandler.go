package bot

import "log"
import "os"

import "gopkg.in/telegram-bot-api.v4"

import "github.com/AbuOrstho/fin-assistant/ledger"

// tableHandler delivers the owner's spreadsheet as a document, either for
// the /table command or for the "Get table" button.
type tableHandler struct {
	baseHandler
}

func newTableHandler(l *ledger.Ledger) msgHandler {
	h := &tableHandler{}
	h.ledger = l
	return h
}

func (h *tableHandler) register(out_msg_chan chan<- tgbotapi.Chattable,
	service_chan chan<- serviceMsg) handlerTrigger {
	msgCh := make(chan tgbotapi.Message, 0)
	cbCh := make(chan tgbotapi.CallbackQuery, 0)
	h.in_msg_chan = msgCh
	h.in_cb_chan = cbCh
	h.out_msg_chan = out_msg_chan

	return handlerTrigger{cmds: []string{"table"},
		cbPrefixes:  []string{"gettable"},
		in_msg_chan: msgCh,
		in_cb_chan:  cbCh}
}

func (h *tableHandler) run() {
	for {
		select {
		case msg := <-h.in_msg_chan:
			log.Printf("Table requested by %s", dumpMsgUserInfo(msg))
			h.sendTable(msg.Chat.ID)
		case cb := <-h.in_cb_chan:
			if cb.Message == nil {
				log.Printf("Callback without an attached message (%s); skipping", dumpCallbackUserInfo(cb))
				continue
			}
			log.Printf("Table requested via button (%s)", dumpCallbackUserInfo(cb))
			h.sendTable(cb.Message.Chat.ID)
		}
	}
}

func (h *tableHandler) sendTable(chatId int64) {
	owner := ledger.OwnerId(chatId)
	filePath, err := h.ledger.FilePath(owner)
	if err != nil {
		log.Printf("Could not locate the table of owner %d; error: %s", owner, err)
		if err == ledger.ErrNotInitialized {
			h.out_msg_chan <- tgbotapi.NewMessage(chatId, "You don't have a ledger yet - please run /start first.")
		} else {
			h.out_msg_chan <- tgbotapi.NewMessage(chatId, "Something went wrong, please try again later.")
		}
		return
	}
	if _, err := os.Stat(filePath); err != nil {
		log.Printf("Table file %s of owner %d is not accessible; error: %s", filePath, owner, err)
		h.out_msg_chan <- tgbotapi.NewMessage(chatId, "Your table file was not found - run /start to recreate it.")
		return
	}

	log.Printf("Sending table %s to owner %d", filePath, owner)
	h.out_msg_chan <- tgbotapi.NewDocumentUpload(chatId, filePath)
}
