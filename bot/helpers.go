package bot

import "fmt"

import "gopkg.in/telegram-bot-api.v4"

import "github.com/AbuOrstho/fin-assistant/ledger"

func dumpMsgUserInfo(msg tgbotapi.Message) string {
	return fmt.Sprintf("chat ID: %d (type '%s'), message issued by user ID: %d (username: '%s')", msg.Chat.ID,
		msg.Chat.Type,
		msg.From.ID,
		msg.From.UserName)
}

func dumpCallbackUserInfo(cb tgbotapi.CallbackQuery) string {
	return fmt.Sprintf("callback from user ID: %d (username: '%s'), data: '%s'", cb.From.ID, cb.From.UserName, cb.Data)
}

// categoryKeyboard builds an inline keyboard with one button per category,
// perRow buttons to a row; callback data is "cat:<label>".
func categoryKeyboard(categories []ledger.Category, perRow int) tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(categories))
	for _, c := range categories {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(string(c), "cat:"+string(c)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rowsOf(buttons, perRow)...)
}

func rowsOf(buttons []tgbotapi.InlineKeyboardButton, perRow int) [][]tgbotapi.InlineKeyboardButton {
	if perRow < 1 {
		perRow = 1
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, (len(buttons)+perRow-1)/perRow)
	for len(buttons) > perRow {
		rows = append(rows, buttons[:perRow])
		buttons = buttons[perRow:]
	}
	if len(buttons) > 0 {
		rows = append(rows, buttons)
	}
	return rows
}
