package wager

import "time"

// Status de uma seleção ou de uma aposta.
// PENDING é o único estado não terminal.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusWon     Status = "WON"
	StatusLost    Status = "LOST"
	StatusVoid    Status = "VOID"
)

// Terminal indica se o status não será mais reavaliado.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost || s == StatusVoid
}

// Leg é uma seleção de uma aposta: um mercado sobre uma partida.
// A referência da partida (times, kickoff) é escrita pelo coletor upstream
// e é somente leitura aqui.
type Leg struct {
	FixtureID     string    `json:"fixture_id"`
	Sport         string    `json:"sport"`
	HomeTeam      string    `json:"home_team"`
	AwayTeam      string    `json:"away_team"`
	KickoffTime   time.Time `json:"kickoff_time"`
	PickText      string    `json:"pick_text"` // texto livre, ex: "Más de 2.5 Goles"
	OddValue      float64   `json:"odd_value"`
	Status        Status    `json:"status"`
	ResultSummary string    `json:"result_summary,omitempty"`
}

// Wager é uma aposta (parlay quando tem mais de uma seleção).
// Stake e lucro em centavos.
type Wager struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"` // "safe" | "value" | "funbet"
	StakeCents  int64   `json:"stake_cents"`
	TotalOdd    float64 `json:"total_odd"`
	Status      Status  `json:"status"`
	ProfitCents int64   `json:"profit_cents"`
	Legs        []Leg   `json:"legs"`
}

// DayRecord agrupa as apostas de um dia para uma categoria.
// É o documento persistido no store (uma escrita por passagem).
type DayRecord struct {
	Date           string  `json:"date"` // YYYY-MM-DD
	Category       string  `json:"category"`
	Wagers         []Wager `json:"bets"`
	DayProfitCents int64   `json:"day_profit_cents"`
}
