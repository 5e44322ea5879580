package store

import (
	"context"
	"database/sql"

	"github.com/goltips/settlement-engine/internal/settlement/wager"
)

// History registra no Postgres cada transição de status produzida por uma
// passagem de liquidação: trilha de auditoria, não fonte de verdade. Falha de
// escrita aqui é logada pelo chamador e nunca aborta a passagem.
type History struct {
	db *sql.DB
}

// NewHistory retorna o registrador de auditoria.
func NewHistory(db *sql.DB) *History { return &History{db: db} }

// RecordLeg grava a transição de uma seleção.
func (h *History) RecordLeg(ctx context.Context, runID, date, category, wagerID string, leg wager.Leg, old wager.Status) error {
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO settlement_history
		  (run_id, bet_date, category, wager_id, fixture_id, pick_text, old_status, new_status, result_summary)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		runID, date, category, wagerID, leg.FixtureID, leg.PickText, string(old), string(leg.Status), leg.ResultSummary,
	)
	return err
}

// RecordWager grava a resolução de uma aposta (linha sem fixture).
func (h *History) RecordWager(ctx context.Context, runID, date, category string, w wager.Wager, old wager.Status) error {
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO settlement_history
		  (run_id, bet_date, category, wager_id, old_status, new_status, result_summary)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		runID, date, category, w.ID, string(old), string(w.Status), "",
	)
	return err
}
