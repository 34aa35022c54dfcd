package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-tracker/internal/model"
	"study-tracker/internal/repository"
	"study-tracker/internal/service"
)

const (
	menuLabelWeek  = "🗓 Week"
	menuLabelToday = "📊 Today"
	menuLabelHelp  = "ℹ️ Help"
)

var errNotLinked = errors.New("chat is not linked to an account")

// Bot exposes the weekly plan over Telegram.
type Bot struct {
	api       *tgbotapi.BotAPI
	users     *repository.UserRepository
	weekly    *service.WeeklyPlanService
	reminders *service.ReminderService
	log       *zap.Logger
	now       func() time.Time
}

func New(token string, users *repository.UserRepository, weekly *service.WeeklyPlanService,
	reminders *service.ReminderService, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log = log.Named("bot")
	log.Info("bot authorized", zap.String("account", api.Self.UserName))

	return &Bot{
		api:       api,
		users:     users,
		weekly:    weekly,
		reminders: reminders,
		log:       log,
		now:       time.Now,
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.log.Error("handle callback", zap.Error(err))
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.log.Error("handle message", zap.Error(err))
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if msg.IsCommand() {
		b.log.Debug("command", zap.Int64("chat", msg.Chat.ID), zap.String("command", msg.Command()))
		return b.handleCommand(ctx, msg)
	}

	switch strings.TrimSpace(msg.Text) {
	case menuLabelWeek:
		return b.handleWeek(ctx, msg.Chat.ID)
	case menuLabelToday:
		return b.handleToday(ctx, msg.Chat.ID)
	case menuLabelHelp:
		return b.handleHelp(msg.Chat.ID)
	}

	return b.sendText(msg.Chat.ID, "I did not get that. Try /week or /help.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.handleHelp(msg.Chat.ID)
	case "week":
		return b.handleWeek(ctx, msg.Chat.ID)
	case "today":
		return b.handleToday(ctx, msg.Chat.ID)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👋 Hi, %s!\n<b>I keep track of your weekly study and football plan.</b>\n\n", escape(name)))

	user, err := b.linkedUser(ctx, msg.Chat.ID)
	switch {
	case err == nil:
		sb.WriteString(fmt.Sprintf("This chat is linked to <b>%s</b>.\n", escape(user.Email)))
	case errors.Is(err, errNotLinked):
		sb.WriteString(fmt.Sprintf("To link this chat, send <code>PUT /api/auth/me/telegram</code> with "+
			"<code>{\"chatId\": %d}</code> from your account.\n", msg.Chat.ID))
	default:
		return err
	}
	sb.WriteString("\n" + helpText)

	return b.sendText(msg.Chat.ID, sb.String())
}

const helpText = "ℹ️ <b>Commands</b>\n" +
	"• /week - this week's plan, tap a button to complete or undo\n" +
	"• /today - what you logged today\n" +
	"• /start - show this chat's id for linking\n" +
	"• /help - this message"

func (b *Bot) handleHelp(chatID int64) error {
	return b.sendText(chatID, helpText)
}

func (b *Bot) handleWeek(ctx context.Context, chatID int64) error {
	user, err := b.linkedUser(ctx, chatID)
	if err != nil {
		return b.replyNotLinked(chatID, err)
	}
	text, markup, err := b.renderWeek(ctx, user.ID)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not load the week: %s", escape(err.Error())))
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	_, err = b.api.Send(msg)
	return err
}

func (b *Bot) handleToday(ctx context.Context, chatID int64) error {
	user, err := b.linkedUser(ctx, chatID)
	if err != nil {
		return b.replyNotLinked(chatID, err)
	}
	text, err := b.reminders.TodaySummary(ctx, user.ID, b.now())
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not build the summary: %s", escape(err.Error())))
	}
	return b.sendText(chatID, text)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	chatID := cb.Message.Chat.ID

	action, id, ok := parseCallback(cb.Data)
	if !ok {
		b.answer(cb.ID, "")
		return nil
	}

	user, err := b.linkedUser(ctx, chatID)
	if err != nil {
		b.answer(cb.ID, "This chat is not linked")
		return nil
	}

	b.log.Info("toggle weekly plan", zap.String("action", action), zap.Uint("item", id), zap.Uint("user", user.ID))

	switch action {
	case actionComplete:
		_, err = b.weekly.Complete(ctx, user.ID, id)
	case actionUncomplete:
		err = b.weekly.Uncomplete(ctx, user.ID, id)
	}
	switch {
	case err == nil:
		b.answer(cb.ID, "Saved")
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrNotFound):
		b.answer(cb.ID, userMessage(err))
	default:
		b.answer(cb.ID, "Something went wrong")
		return err
	}

	text, markup, err := b.renderWeek(ctx, user.ID)
	if err != nil {
		return err
	}
	var edit tgbotapi.EditMessageTextConfig
	if markup != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID, text, *markup)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, text)
	}
	edit.ParseMode = tgbotapi.ModeHTML
	_, err = b.api.Send(edit)
	return err
}

// SendDailyReports sends today's open templates to every linked user.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	users, err := b.users.ListWithTelegram(ctx)
	if err != nil {
		return err
	}
	now := b.now()
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if user.TelegramChatID == nil {
			continue
		}
		text, err := b.reminders.DailySummary(ctx, user, now)
		if err != nil {
			b.log.Error("build summary", zap.Uint("user", user.ID), zap.Error(err))
			continue
		}
		if err := b.sendText(*user.TelegramChatID, text); err != nil {
			b.log.Error("send summary", zap.Uint("user", user.ID), zap.Error(err))
		}
	}
	return nil
}

func (b *Bot) renderWeek(ctx context.Context, userID uint) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	weekStart := b.weekly.CurrentWeekStart()
	text, items, err := b.reminders.WeekSummary(ctx, userID, weekStart)
	if err != nil {
		return "", nil, err
	}
	return text, weekKeyboard(items), nil
}

func (b *Bot) linkedUser(ctx context.Context, chatID int64) (*model.User, error) {
	user, err := b.users.FindByTelegramChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotLinked
		}
		return nil, err
	}
	return user, nil
}

func (b *Bot) replyNotLinked(chatID int64, err error) error {
	if !errors.Is(err, errNotLinked) {
		return err
	}
	return b.sendText(chatID, fmt.Sprintf("This chat is not linked yet. Your chat id is <code>%d</code>; see /start.", chatID))
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.log.Warn("callback ack", zap.Error(err))
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func escape(s string) string {
	return html.EscapeString(s)
}

// userMessage strips the error class prefix for display.
func userMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
