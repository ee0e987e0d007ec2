package notifier

import (
	"fmt"

	"github.com/astralpay/wallet-api/internal/models"
	"github.com/astralpay/wallet-api/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram pushes withdrawal events to the admin chat. Sends happen in a
// goroutine so a slow Telegram API never delays the request path.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *utils.Logger
}

func NewTelegram(token string, chatID int64, logger *utils.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	return &Telegram{api: api, chatID: chatID, logger: logger}, nil
}

func (t *Telegram) WithdrawalCreated(withdrawal *models.WithdrawalRequest) {
	text := fmt.Sprintf(
		"💸 Новая заявка на вывод #%s\nПользователь: %s\nСумма: %s %s\nАдрес: %s",
		withdrawal.ID, withdrawal.UserID, withdrawal.Amount, withdrawal.Currency, withdrawal.WalletAddress,
	)
	t.send(text)
}

func (t *Telegram) WithdrawalProcessed(withdrawal *models.WithdrawalRequest) {
	var text string
	switch withdrawal.Status {
	case models.WithdrawalApproved:
		text = fmt.Sprintf("✅ Заявка #%s одобрена: %s %s", withdrawal.ID, withdrawal.Amount, withdrawal.Currency)
	case models.WithdrawalRejected:
		reason := ""
		if withdrawal.RejectionReason != nil {
			reason = *withdrawal.RejectionReason
		}
		text = fmt.Sprintf("❌ Заявка #%s отклонена: %s", withdrawal.ID, reason)
	default:
		return
	}
	t.send(text)
}

func (t *Telegram) send(text string) {
	go func() {
		msg := tgbotapi.NewMessage(t.chatID, text)
		if _, err := t.api.Send(msg); err != nil {
			t.logger.Errorf("Failed to send telegram notification: %v", err)
		}
	}()
}
