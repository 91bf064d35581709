package bot

import "log"
import "net/http"

import "golang.org/x/net/proxy"
import "gopkg.in/telegram-bot-api.v4"

import "github.com/AbuOrstho/fin-assistant/botcfg"
import "github.com/AbuOrstho/fin-assistant/ledger"

// panics internally if something goes wrong
func setupBot(cfg botcfg.Config) (*tgbotapi.BotAPI, tgbotapi.UpdatesChannel) {
	botToken := cfg.TGBot.Token
	log.Printf("Setting up a bot with token: %s", botToken)

	var bot *tgbotapi.BotAPI = nil
	server := cfg.Proxy_SOCKS5.Server
	user := cfg.Proxy_SOCKS5.User
	pass := cfg.Proxy_SOCKS5.Pass
	if server != "" {
		log.Printf("Proxy is set, connecting to '%s' with credentials '%s':'%s'", server, user, pass)
		auth := proxy.Auth{User: user,
			Password: pass}
		dialer, err := proxy.SOCKS5("tcp", server, &auth, proxy.Direct)
		if err != nil {
			log.Panicf("Could not get proxy dialer, error: %s", err)
		}
		httpTransport := &http.Transport{}
		httpTransport.Dial = dialer.Dial
		httpClient := &http.Client{Transport: httpTransport}
		bot, err = tgbotapi.NewBotAPIWithClient(botToken, httpClient)
		if err != nil {
			log.Panicf("Could not connect via proxy, error: %s", err)
		}
	} else {
		log.Printf("No proxy is set, going without any proxy")
		var err error
		bot, err = tgbotapi.NewBotAPI(botToken)
		if err != nil {
			log.Panicf("Could not connect directly, error: %s", err)
		}
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates, err := bot.GetUpdatesChan(u)
	if err != nil {
		log.Panic(err)
	}

	return bot, updates
}

func run(updates tgbotapi.UpdatesChannel, triggers []handlerTrigger, service_chan <-chan serviceMsg,
	answerCallback func(tgbotapi.CallbackQuery)) {
	isRunning := true
	for isRunning {
		select {
		case update := <-updates:
			if update.CallbackQuery != nil {
				// acknowledge first - the client shows a spinner until the query is answered
				answerCallback(*update.CallbackQuery)
				dispatched := false
				for i := range triggers {
					if triggers[i].HandleCallback(*update.CallbackQuery) {
						dispatched = true
						break
					}
				}
				if !dispatched {
					log.Printf("No handler for callback data '%s'", update.CallbackQuery.Data)
				}
				continue
			}
			if update.Message == nil {
				log.Print("Update without a message. Skipping")
				continue
			}
			for i := range triggers {
				if triggers[i].Handle(*update.Message) {
					break
				}
			}
		case srv := <-service_chan:
			if srv.stopBot {
				isRunning = false
			}
		}
	}

	log.Print("Main cycle has been aborted")
}

func Start(cfg botcfg.Config) error {
	log.Print("Starting the bot")

	bot, updates := setupBot(cfg)

	defaultDigestOffset, err := botcfg.ParseDailyTime(cfg.Digest.Time)
	if err != nil {
		log.Panicf("Bad digest time in config, error: %s", err)
	}

	l := ledger.NewLedgerFromConfig(cfg)
	sessions := newSessionTracker()
	go sessions.sweepLoop()

	out_msg_chan := make(chan tgbotapi.Chattable, 0)
	service_chan := make(chan serviceMsg, 0)

	handlers := []msgHandler{
		newStartHandler(l),
		newHelpHandler(),
		newFinanceHandler(l, sessions),
		newTableHandler(l),
		newStatsHandler(l),
		newDailyDigest(l, defaultDigestOffset),
	}
	triggers := make([]handlerTrigger, 0, len(handlers))
	for _, h := range handlers {
		triggers = append(triggers, h.register(out_msg_chan, service_chan))
		go h.run()
	}

	go func() {
		for msg := range out_msg_chan {
			if _, err := bot.Send(msg); err != nil {
				log.Printf("Could not send a message, error: %s", err)
			}
		}
	}()

	run(updates, triggers, service_chan, func(cb tgbotapi.CallbackQuery) {
		if _, err := bot.AnswerCallbackQuery(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			log.Printf("Could not answer callback query %s, error: %s", cb.ID, err)
		}
	})

	log.Print("Stopping the bot")
	return nil
}
