package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	sourceCallbackPrefix = "source_"
	sourcesDoneCallback  = "sources_done"
)

// sourcesKeyboard renders one toggle button per catalog source plus a Finish
// button, marking the user's current selection.
func (b *Bot) sourcesKeyboard(userID int64) tgbotapi.InlineKeyboardMarkup {
	selected := b.manager.Settings(userID).Sources
	chosen := make(map[string]bool, len(selected))
	for _, name := range selected {
		chosen[name] = true
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, name := range b.registry.Names() {
		mark := "❌"
		if chosen[name] {
			mark = "✅"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(name+" "+mark, sourceCallbackPrefix+name),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Finish", sourcesDoneCallback),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
