// Package telegram connects the conversation service to a Telegram bot via
// long polling.
package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"weather-bot/internal/services/conversation"
	"weather-bot/pkg/logger"
)

// Sender is the outbound half of tgbotapi.BotAPI.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// MessageHandler is the conversation entry point.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg conversation.Message) (*conversation.Reply, error)
}

type Bot struct {
	api     *tgbotapi.BotAPI
	sender  Sender
	handler MessageHandler
	queues  *chatQueues
	timeout int
	l       *logger.Logger
}

func NewBot(token string, pollTimeout int, debug bool, handler MessageHandler, l *logger.Logger) (*Bot, error) {
	if err := tgbotapi.SetLogger(l); err != nil {
		return nil, errors.Wrap(err, "set bot logger")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "connect to telegram")
	}
	api.Debug = debug

	l.Info("authorized on telegram", map[string]any{"bot": api.Self.UserName})

	return &Bot{
		api:     api,
		sender:  api,
		handler: handler,
		queues:  newChatQueues(),
		timeout: pollTimeout,
		l:       l,
	}, nil
}

// Run polls for updates until ctx is done, then waits for queued updates.
// Updates of one chat are handled in the order Telegram delivered them.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.timeout

	updates := b.api.GetUpdatesChan(u)

	defer b.queues.wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.l.Warning("telegram polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return errors.New("telegram updates channel closed")
			}
			b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Chat == nil {
		return
	}

	b.queues.push(update.Message.Chat.ID, update, func(u tgbotapi.Update) {
		b.handleUpdate(ctx, u)
	})
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	reply, err := b.handler.HandleMessage(ctx, conversation.Message{
		ConversationID: strconv.FormatInt(chatID, 10),
		Text:           update.Message.Text,
	})
	if err != nil {
		b.l.Error(err, map[string]any{"chat_id": chatID})
		return
	}
	if reply == nil {
		return
	}

	if _, err := b.sender.Send(outgoing(chatID, reply)); err != nil {
		b.l.Error(errors.Wrap(err, "send reply"), map[string]any{"chat_id": chatID})
	}
}

// outgoing builds the Telegram message for a reply. Prompts without choices
// remove any keyboard left over from the previous step.
func outgoing(chatID int64, reply *conversation.Reply) tgbotapi.Chattable {
	if reply.Image != nil {
		return tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "forecast.png", Bytes: reply.Image})
	}

	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if len(reply.Choices) == 0 {
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		return msg
	}

	rows := make([][]tgbotapi.KeyboardButton, 0, len(reply.Choices))
	for _, choices := range reply.Choices {
		row := make([]tgbotapi.KeyboardButton, 0, len(choices))
		for _, choice := range choices {
			row = append(row, tgbotapi.NewKeyboardButton(choice))
		}
		rows = append(rows, row)
	}

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = true
	msg.ReplyMarkup = keyboard
	return msg
}
