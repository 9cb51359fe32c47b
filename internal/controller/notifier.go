package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"

	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/common"
	"github.com/MasloRich/Beauty-bot/internal/notification"
)

// Notifier доставляет уведомления о смене статуса записи в Telegram
type Notifier struct {
	bot *bot.Bot
	loc *time.Location
}

func NewNotifier(b *bot.Bot, loc *time.Location) *Notifier {
	return &Notifier{bot: b, loc: loc}
}

// Deliver отправляет уведомление получателю события
func (n *Notifier) Deliver(ctx context.Context, event notification.Event) error {
	if event.ChatID == 0 {
		return fmt.Errorf("notification for appointment %d has no chat", event.AppointmentID)
	}

	text, kb := common.NotificationScreen(event, n.loc)
	if _, err := n.bot.SendMessage(ctx, common.SendParams(event.ChatID, text, kb)); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}
