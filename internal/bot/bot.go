package bot

import (
	"context"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot runs the Telegram long-poll loop and hands every text message to the
// conversation flow.
type Bot struct {
	api  *tgbotapi.BotAPI
	flow *Flow
}

func New(token string, flow *Flow) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api, flow: flow}, nil
}

// Run blocks until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	log.Printf("[Bot] Authorized as @%s", b.api.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Println("[Bot] Update loop stopped")
			return
		case update := <-updates:
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	// Messages are keyed by the sender, not the chat, so the same person can
	// use the bot from a group and a direct chat interchangeably.
	platformUserID := strconv.FormatInt(msg.From.ID, 10)

	reply := b.flow.Handle(ctx, msg.Chat.ID, platformUserID, msg.Text)
	if reply == "" {
		return
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, reply)
	if _, err := b.api.Send(out); err != nil {
		log.Printf("[Bot] Error sending reply to chat %d: %v", msg.Chat.ID, err)
	}
}
