// Package notify sends a per-run summary of newly discovered postings to a
// Telegram chat.
package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/diegovill05/internship-discovery-engine/internal/model"
)

// Telegram messages are capped at 4096 characters; keep headroom.
const maxMessageLen = 3800

// Notifier posts run summaries to one chat.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// New authenticates the bot token and returns a Notifier.
func New(token string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Notifier{bot: bot, chatID: chatID}, nil
}

// NotifyNew sends one message summarizing the batch. No-op for an empty
// batch.
func (n *Notifier) NotifyNew(postings []*model.Posting) error {
	if len(postings) == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(n.chatID, FormatSummary(postings))
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// FormatSummary renders the batch as a plain-text message, truncated to fit
// Telegram's message limit.
func FormatSummary(postings []*model.Posting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d new posting(s) found:\n", len(postings))
	for i, p := range postings {
		line := fmt.Sprintf("\n%d. %s — %s\n%s\n", i+1, p.Title, p.Company, p.PostingURL)
		if b.Len()+len(line) > maxMessageLen {
			fmt.Fprintf(&b, "\n… and %d more", len(postings)-i)
			break
		}
		b.WriteString(line)
	}
	return b.String()
}
