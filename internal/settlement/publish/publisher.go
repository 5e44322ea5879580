package publish

import (
	"context"
	"encoding/json"

	skafka "github.com/goltips/settlement-engine/internal/shared/kafka"
	"github.com/goltips/settlement-engine/pkg/contracts/events"
)

// Publisher emite wager_settled no Kafka para os consumidores downstream
// (bot de aviso, dashboards). Chave = id da aposta: reprocessamentos do mesmo
// wager caem na mesma partição.
type Publisher struct {
	w *skafka.Writer
}

func New(w *skafka.Writer) *Publisher { return &Publisher{w: w} }

func (p *Publisher) PublishWagerSettled(ctx context.Context, ev events.WagerSettled) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return skafka.WriteJSON(ctx, p.w, ev.WagerID, b)
}

func (p *Publisher) Close() error { return p.w.Close() }
