package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"study-tracker/internal/model"
)

const (
	actionComplete   = "complete"
	actionUncomplete = "uncomplete"
)

var dayAbbrev = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// weekKeyboard offers one toggle per template: complete when open, undo when done.
func weekKeyboard(items []model.WeekStatus) *tgbotapi.InlineKeyboardMarkup {
	if len(items) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items))
	for _, item := range items {
		icon, action := "✅", actionComplete
		if item.IsCompleted {
			icon, action = "↩️", actionUncomplete
		}
		label := fmt.Sprintf("%s %s · %s", icon, dayAbbrev[item.DayOfWeek%7], shortTitle(item.Title, 24))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackData(action, item.ID)),
		))
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func callbackData(action string, id uint) string {
	return fmt.Sprintf("%s:%d", action, id)
}

func parseCallback(data string) (string, uint, bool) {
	action, raw, found := strings.Cut(data, ":")
	if !found || (action != actionComplete && action != actionUncomplete) {
		return "", 0, false
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return "", 0, false
	}
	return action, uint(value), true
}

func shortTitle(title string, maxLen int) string {
	clean := strings.Join(strings.Fields(title), " ")
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelWeek),
			tgbotapi.NewKeyboardButton(menuLabelToday),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}
