package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/Freeeeeet/booking_calendar/internal/model"
)

// TelegramNotifier шлёт уведомления о мутациях календаря в служебный чат.
// Необязательная часть сервера: без токена в конфиге не создаётся вовсе.
// Отправка асинхронная и best-effort — ошибка уведомления никогда не
// ломает саму мутацию.
type TelegramNotifier struct {
	bot    *bot.Bot
	chatID int64
	title  string
	logger *zap.Logger
}

func NewTelegramNotifier(token string, chatID int64, title string, logger *zap.Logger) (*TelegramNotifier, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramNotifier{
		bot:    b,
		chatID: chatID,
		title:  title,
		logger: logger,
	}, nil
}

// BookingCreated уведомление о новой брони
func (n *TelegramNotifier) BookingCreated(dateKey, timeKey string, b model.Booking) {
	text := fmt.Sprintf("📅 %s\n✅ %s забронировал(а) %s %s на %d ч.",
		n.title, b.User, dateKey, timeKey, b.Duration)
	n.send(text)
}

// BookingDeleted уведомление об отмене брони
func (n *TelegramNotifier) BookingDeleted(dateKey, timeKey string) {
	text := fmt.Sprintf("📅 %s\n❌ Бронь %s %s отменена.", n.title, dateKey, timeKey)
	n.send(text)
}

func (n *TelegramNotifier) send(text string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: n.chatID,
			Text:   text,
		})
		if err != nil {
			n.logger.Warn("Failed to send telegram notification", zap.Error(err))
		}
	}()
}
