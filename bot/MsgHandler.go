package bot

import "log"
import "regexp"
import "strings"

import "gopkg.in/telegram-bot-api.v4"

import "github.com/AbuOrstho/fin-assistant/ledger"

type serviceMsg struct {
	stopBot bool
}

// handlerTrigger describes which updates a handler wants: messages matched
// by regexp, command or a dynamic predicate, and callback queries matched by
// data prefix.
type handlerTrigger struct {
	re      *regexp.Regexp
	cmds    []string
	matchFn func(msg tgbotapi.Message) bool

	cbPrefixes []string

	in_msg_chan chan<- tgbotapi.Message
	in_cb_chan  chan<- tgbotapi.CallbackQuery
}

func (h *handlerTrigger) Handle(msg tgbotapi.Message) bool {
	if h.in_msg_chan == nil {
		return false
	}
	if h.re != nil && h.re.MatchString(msg.Text) {
		log.Printf("Message text '%s' matched regexp '%s', message will be sent to handler", msg.Text, h.re)
		h.in_msg_chan <- msg
		return true
	}
	if msg.IsCommand() {
		for _, cmd := range h.cmds {
			if cmd == msg.Command() {
				log.Printf("Message text '%s' matched command '%s', message will be sent to handler", msg.Text, cmd)
				h.in_msg_chan <- msg
				return true
			}
		}
	}
	if h.matchFn != nil && h.matchFn(msg) {
		log.Printf("Message text '%s' matched handler predicate, message will be sent to handler", msg.Text)
		h.in_msg_chan <- msg
		return true
	}
	return false
}

func (h *handlerTrigger) HandleCallback(cb tgbotapi.CallbackQuery) bool {
	if h.in_cb_chan == nil {
		return false
	}
	for _, prefix := range h.cbPrefixes {
		if strings.HasPrefix(cb.Data, prefix) {
			log.Printf("Callback data '%s' matched prefix '%s', query will be sent to handler", cb.Data, prefix)
			h.in_cb_chan <- cb
			return true
		}
	}
	return false
}

type msgHandler interface {
	register(out_msg_chan chan<- tgbotapi.Chattable,
		service_chan chan<- serviceMsg) handlerTrigger
	run() // to be called with 'go' statement
}

type baseHandler struct {
	in_msg_chan  <-chan tgbotapi.Message
	in_cb_chan   <-chan tgbotapi.CallbackQuery
	out_msg_chan chan<- tgbotapi.Chattable
	service_chan chan<- serviceMsg

	ledger *ledger.Ledger
}
