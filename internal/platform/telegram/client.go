package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"zoolbot-admin/internal/admin"
	apperrors "zoolbot-admin/internal/common/errors"
	"zoolbot-admin/internal/common/logger"
	"zoolbot-admin/internal/common/validation"
)

const pollTimeout = 60

// botAPI is the subset of *tgbotapi.BotAPI the client uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Client implements admin.Messenger on top of the Bot API and feeds updates to a handler.
type Client struct {
	bot botAPI
}

func New(token string, debug bool) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, apperrors.NewTelegramAPIError("authorize bot", err)
	}
	bot.Debug = debug
	logger.Info().Str("bot", bot.Self.UserName).Msg("Authorized on Telegram")
	return &Client{bot: bot}, nil
}

func (c *Client) Send(ctx context.Context, chatID int64, text string, m *admin.Menu) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if m != nil {
		msg.ReplyMarkup = keyboard(m)
	}
	if _, err := c.bot.Send(msg); err != nil {
		return apperrors.NewTelegramAPIError("send message", err).WithDetail("chat_id", chatID)
	}
	return nil
}

// Edit replaces the text of a message. A nil menu removes the keyboard.
func (c *Client) Edit(ctx context.Context, chatID int64, messageID int, text string, m *admin.Menu) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var edit tgbotapi.EditMessageTextConfig
	if m != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard(m))
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}
	edit.ParseMode = tgbotapi.ModeHTML
	edit.DisableWebPagePreview = true
	if _, err := c.bot.Send(edit); err != nil {
		// pressing Refresh with unchanged content
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return apperrors.NewTelegramAPIError("edit message", err).WithDetail("chat_id", chatID)
	}
	return nil
}

func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cb := tgbotapi.NewCallback(callbackID, text)
	cb.ShowAlert = alert
	if _, err := c.bot.Request(cb); err != nil {
		return apperrors.NewTelegramAPIError("answer callback", err)
	}
	return nil
}

// Run long-polls for updates and hands them to handle one at a time until ctx is done.
func (c *Client) Run(ctx context.Context, handle func(context.Context, admin.Event) error) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := c.bot.GetUpdatesChan(u)
	defer c.bot.StopReceivingUpdates()

	logger.Info().Msg("Polling for updates")
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Stopped polling")
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			ev, ok := toEvent(upd)
			if !ok {
				continue
			}
			if err := handle(ctx, ev); err != nil {
				logHandleError(err, ev)
			}
		}
	}
}

// logHandleError reports store and transport faults as errors; anything else, such as
// a cancelled context during shutdown, only warrants a warning.
func logHandleError(err error, ev admin.Event) {
	evt := logger.Warn()
	if appErr, ok := apperrors.AsAppError(err); ok {
		if appErr.IsInternal() {
			evt = logger.Error()
		}
		evt = evt.Str("code", string(appErr.Code))
	}
	evt.Err(err).
		Int64("chat_id", ev.ChatID).
		Int64("user_id", ev.UserID).
		Msg("Failed to handle update")
}

// toEvent maps messages and callback presses; other update kinds are ignored.
func toEvent(u tgbotapi.Update) (admin.Event, bool) {
	if cq := u.CallbackQuery; cq != nil && cq.From != nil {
		ev := admin.Event{
			ChatID:     cq.From.ID,
			UserID:     cq.From.ID,
			CallbackID: cq.ID,
			Data:       cq.Data,
		}
		if cq.Message != nil && cq.Message.Chat != nil {
			ev.ChatID = cq.Message.Chat.ID
			ev.MessageID = cq.Message.MessageID
		}
		return ev, true
	}

	m := u.Message
	if m == nil || m.From == nil || m.Chat == nil {
		return admin.Event{}, false
	}
	ev := admin.Event{
		ChatID:    m.Chat.ID,
		UserID:    m.From.ID,
		MessageID: m.MessageID,
		Text:      m.Text,
	}
	if m.IsCommand() {
		ev.Command = strings.ToLower(m.Command())
	}
	return ev, true
}

func keyboard(m *admin.Menu) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(m.Rows))
	for _, r := range m.Rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(r))
		for _, b := range r {
			if err := validation.ValidateCallbackData(b.Data); err != nil {
				logger.Error().Err(err).Str("button", b.Text).Msg("Dropping inline button")
				continue
			}
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
