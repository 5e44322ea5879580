package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/goltips/settlement-engine/internal/settlement/engine"
	"github.com/goltips/settlement-engine/internal/settlement/report"
)

// Notifier envia o digest de cada passagem para o chat do operador. Um envio
// síncrono por execução: sem fila, sem rate limit para se preocupar.
type Notifier struct {
	log    *zap.Logger
	bot    *tgbotapi.BotAPI
	chatID int64
}

// New cria o notifier. Token vazio desliga o canal (retorna nil; os métodos
// toleram receiver nulo).
func New(log *zap.Logger, token string, chatID int64) *Notifier {
	if token == "" || chatID == 0 {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Warn("telegram desabilitado", zap.Error(err))
		return nil
	}
	if _, err := bot.GetMe(); err != nil {
		log.Warn("telegram desabilitado", zap.Error(err))
		return nil
	}
	log.Info("telegram notifier inicializado", zap.Int64("chatId", chatID))
	return &Notifier{log: log, bot: bot, chatID: chatID}
}

// SendPassDigest envia o resumo de uma passagem de liquidação.
func (n *Notifier) SendPassDigest(stats engine.PassStats, summaries []report.MonthlySummary) {
	if n == nil {
		return
	}

	var b strings.Builder
	b.WriteString("*Settlement pass*\n")
	fmt.Fprintf(&b, "Legs: %d won / %d lost / %d void\n", stats.Won, stats.Lost, stats.Void)
	fmt.Fprintf(&b, "Pending: %d | Quarantined: %d\n", stats.PendingLegs, stats.Quarantined)
	fmt.Fprintf(&b, "API calls: %d (quota used %d)\n", stats.Fetches, stats.QuotaUsed)
	for _, s := range summaries {
		fmt.Fprintf(&b, "\n*%s*: profit %s | yield %.1f%%\n",
			s.Month, formatCents(s.TotalProfitCents), s.YieldPercent)
	}

	msg := tgbotapi.NewMessage(n.chatID, b.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.bot.Send(msg); err != nil {
		n.log.Warn("envio do digest falhou", zap.Error(err))
	}
}

// formatCents imprime centavos como valor monetário com sinal.
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
