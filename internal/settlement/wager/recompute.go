package wager

import "github.com/shopspring/decimal"

// RecomputeStatus reaplica o invariante de agregação das seleções:
//   - qualquer seleção não-void perdida => LOST
//   - alguma seleção ainda pendente     => PENDING
//   - todas anuladas                    => VOID
//   - caso contrário (WON/VOID, >=1 WON) => WON
//
// Idempotente: chamar de novo sem mudança nas seleções não altera nada.
func (w *Wager) RecomputeStatus() {
	anyPending := false
	anyWon := false
	allVoid := len(w.Legs) > 0

	for _, l := range w.Legs {
		switch l.Status {
		case StatusLost:
			w.Status = StatusLost
			return
		case StatusPending, "":
			anyPending = true
			allVoid = false
		case StatusWon:
			anyWon = true
			allVoid = false
		case StatusVoid:
			// não conta para o produto de odds nem derruba a aposta
		}
	}

	switch {
	case anyPending:
		w.Status = StatusPending
	case allVoid:
		w.Status = StatusVoid
	case anyWon:
		w.Status = StatusWon
	default:
		w.Status = StatusPending
	}
}

// RecomputeProfit calcula o lucro em centavos a partir do status corrente.
// Lucro é sempre derivado, nunca autorado:
//   - LOST => -stake
//   - VOID => 0
//   - WON  => stake * (produto das odds das seleções ganhas - 1)
//
// Seleções VOID ficam fora do produto de odds.
func (w *Wager) RecomputeProfit() {
	switch w.Status {
	case StatusLost:
		w.ProfitCents = -w.StakeCents
	case StatusWon:
		odd := decimal.NewFromInt(1)
		for _, l := range w.Legs {
			if l.Status == StatusWon {
				odd = odd.Mul(decimal.NewFromFloat(l.OddValue))
			}
		}
		stake := decimal.NewFromInt(w.StakeCents)
		w.ProfitCents = stake.Mul(odd.Sub(decimal.NewFromInt(1))).Round(0).IntPart()
	default:
		// VOID e PENDING não movimentam nada
		w.ProfitCents = 0
	}
}

// RecomputeDayProfit soma o lucro das apostas resolvidas do dia.
// VOID contribui 0; PENDING fica de fora. Recalculado por inteiro a cada
// passagem para manter idempotência entre execuções repetidas.
func (d *DayRecord) RecomputeDayProfit() {
	var total int64
	for _, w := range d.Wagers {
		if w.Status == StatusWon || w.Status == StatusLost {
			total += w.ProfitCents
		}
	}
	d.DayProfitCents = total
}
