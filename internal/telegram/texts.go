package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// UI texts in English
const (
	startText = "👋 I answer \"what time is it\" across timezones.\n\n" +
		"Set your timezone with /settz, then ask /now or /when 3pm.\n" +
		"Group chats can pin up to 5 display timezones with /addtz and /zones."

	promptCustomTZ = "Enter a timezone (Region/City, e.g. Europe/Berlin):"
	promptWhen     = "What time? Try: 3pm, 15:00, in 2 hours, now"
)

// mainMenuKeyboard is the persistent reply keyboard with the commands
// people reach for most.
func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/now"),
			tgbotapi.NewKeyboardButton("/mytz"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/settz"),
			tgbotapi.NewKeyboardButton("/zones"),
		),
	)
}

// Inline keyboards

func tzPresetsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("New York", "tz:America/New_York"),
			tgbotapi.NewInlineKeyboardButtonData("Los Angeles", "tz:America/Los_Angeles"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("London", "tz:Europe/London"),
			tgbotapi.NewInlineKeyboardButtonData("Berlin", "tz:Europe/Berlin"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Tokyo", "tz:Asia/Tokyo"),
			tgbotapi.NewInlineKeyboardButtonData("UTC", "tz:UTC"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✍️ Custom…", "tz:custom"),
		),
	)
}

func presetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌎 North America", "preset:north_america"),
			tgbotapi.NewInlineKeyboardButtonData("🇪🇺 Europe", "preset:europe"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❄️ Nordic", "preset:nordic"),
			tgbotapi.NewInlineKeyboardButtonData("🌏 Asia", "preset:asia"),
		),
	)
}
