package quarantine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goltips/settlement-engine/internal/settlement/market"
)

// Entry é o registro persistido de uma seleção em quarentena.
type Entry struct {
	Reason      string    `json:"reason"`
	FirstSeenAt time.Time `json:"first_seen_at"`
}

// Ledger guarda, por (categoria, mês), as assinaturas de seleções que
// falharam classificação/avaliação. Só cresce dentro do período: limpar é
// tarefa de operador, nunca do worker. Isso impede que a passagem queime
// quota sondando picks que nunca vão liquidar.
type Ledger struct {
	rdb *redis.Client
}

// NewLedger retorna o ledger sobre o cliente Redis compartilhado.
func NewLedger(rdb *redis.Client) *Ledger { return &Ledger{rdb: rdb} }

// Key gera a chave do hash mensal: quarantine:{categoria}:{yyyy-mm}
func Key(category, yearMonth string) string {
	return fmt.Sprintf("quarantine:%s:%s", category, yearMonth)
}

// FieldID compõe o id da seleção: fixtureId + assinatura saneada do pick.
func FieldID(fixtureID, pickText string) string {
	return fixtureID + market.Sanitize(pickText)
}

// IsQuarantined consulta o hash do período antes de qualquer fetch remoto.
func (l *Ledger) IsQuarantined(ctx context.Context, category, yearMonth, fixtureID, pickText string) (bool, error) {
	return l.rdb.HExists(ctx, Key(category, yearMonth), FieldID(fixtureID, pickText)).Result()
}

// Add grava a entrada se ainda não existir (aditivo: a primeira razão vence).
func (l *Ledger) Add(ctx context.Context, category, yearMonth, fixtureID, pickText, reason string) error {
	b, err := json.Marshal(Entry{Reason: reason, FirstSeenAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return l.rdb.HSetNX(ctx, Key(category, yearMonth), FieldID(fixtureID, pickText), b).Err()
}
