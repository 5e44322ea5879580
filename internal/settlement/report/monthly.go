package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goltips/settlement-engine/internal/settlement/wager"
)

// MonthlySummary é o documento derivado de um mês de registros diários.
// Sempre recomputado por inteiro: correções fora de banda nos dias aparecem
// na próxima execução sem estado incremental para divergir.
type MonthlySummary struct {
	Month string `json:"month"` // YYYY-MM

	TotalStakeCents   int64   `json:"total_stake_cents"`
	TotalProfitCents  int64   `json:"total_profit_cents"`
	YieldPercent      float64 `json:"yield_percent"`
	ProfitFactor      float64 `json:"profit_factor"` // ganho bruto / perda bruta; 0 quando não há perdas
	FinalBalanceCents int64   `json:"final_balance_cents"`
	MaxDrawdownCents  int64   `json:"max_drawdown_cents"`

	SettledWagers int `json:"settled_wagers"`
	VoidWagers    int `json:"void_wagers"`
	PendingWagers int `json:"pending_wagers"`

	WinRateByCategory map[string]float64 `json:"win_rate_by_category"`
	AccuracyBySport   map[string]float64 `json:"accuracy_by_sport"` // seleções ganhas / resolvidas

	GeneratedAt time.Time `json:"generated_at"`
}

// Aggregate recomputa o resumo de um mês a partir de todos os registros
// diários (todas as categorias). Função pura fora o timestamp de geração.
func Aggregate(month string, days []wager.DayRecord) MonthlySummary {
	s := MonthlySummary{
		Month:             month,
		WinRateByCategory: map[string]float64{},
		AccuracyBySport:   map[string]float64{},
		GeneratedAt:       time.Now().UTC(),
	}

	var stake, profit, grossWin, grossLoss decimal.Decimal
	catWon := map[string]int{}
	catResolved := map[string]int{}
	sportWon := map[string]int{}
	sportResolved := map[string]int{}

	// saldo corrente e drawdown exigem os dias em ordem cronológica;
	// lexicográfica serve para YYYY-MM-DD
	ordered := make([]wager.DayRecord, len(days))
	copy(ordered, days)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Date != ordered[j].Date {
			return ordered[i].Date < ordered[j].Date
		}
		return ordered[i].Category < ordered[j].Category
	})

	balance := decimal.Zero
	peak := decimal.Zero
	maxDrawdown := decimal.Zero

	for _, day := range ordered {
		for _, w := range day.Wagers {
			switch w.Status {
			case wager.StatusWon, wager.StatusLost:
				s.SettledWagers++
				stake = stake.Add(decimal.NewFromInt(w.StakeCents))
				p := decimal.NewFromInt(w.ProfitCents)
				profit = profit.Add(p)
				catResolved[w.Category]++
				if w.Status == wager.StatusWon {
					catWon[w.Category]++
					grossWin = grossWin.Add(p)
				} else {
					grossLoss = grossLoss.Add(p.Neg())
				}
			case wager.StatusVoid:
				s.VoidWagers++
			default:
				s.PendingWagers++
			}

			for _, l := range w.Legs {
				switch l.Status {
				case wager.StatusWon:
					sportWon[l.Sport]++
					sportResolved[l.Sport]++
				case wager.StatusLost:
					sportResolved[l.Sport]++
				}
			}
		}

		balance = balance.Add(decimal.NewFromInt(day.DayProfitCents))
		if balance.GreaterThan(peak) {
			peak = balance
		}
		if dd := peak.Sub(balance); dd.GreaterThan(maxDrawdown) {
			maxDrawdown = dd
		}
	}

	s.TotalStakeCents = stake.IntPart()
	s.TotalProfitCents = profit.IntPart()
	s.FinalBalanceCents = balance.IntPart()
	s.MaxDrawdownCents = maxDrawdown.IntPart()

	if stake.IsPositive() {
		s.YieldPercent = profit.Div(stake).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}
	if grossLoss.IsPositive() {
		s.ProfitFactor = grossWin.Div(grossLoss).Round(2).InexactFloat64()
	}

	for cat, resolved := range catResolved {
		s.WinRateByCategory[cat] = ratio(catWon[cat], resolved)
	}
	for sport, resolved := range sportResolved {
		s.AccuracyBySport[sport] = ratio(sportWon[sport], resolved)
	}
	return s
}

func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(part)).
		Div(decimal.NewFromInt(int64(whole))).
		Round(4).InexactFloat64()
}
