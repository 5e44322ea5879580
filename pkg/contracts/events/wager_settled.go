package events

import "time"

// Evento emitido pelo settlement-worker quando uma aposta atinge estado terminal.
type WagerSettled struct {
	WagerID     string    `json:"wager_id"`
	Category    string    `json:"category"`
	Date        string    `json:"date"` // YYYY-MM-DD do registro diário
	Status      string    `json:"status"` // "WON" | "LOST" | "VOID"
	StakeCents  int64     `json:"stake_cents"`
	ProfitCents int64     `json:"profit_cents"`
	TotalOdd    float64   `json:"total_odd"`
	RunID       string    `json:"run_id"` // correlaciona com settlement_history
	Ts          time.Time `json:"ts"`
}
