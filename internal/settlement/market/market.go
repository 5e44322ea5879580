package market

import "errors"

// ErrUnclassifiable indica que nenhuma regra reconheceu o texto do pick.
// No orquestrador isso vira entrada de quarentena, nunca erro fatal.
var ErrUnclassifiable = errors.New("pick text matches no known market")

// Kind é a categoria canônica de mercado suportada pelo avaliador.
type Kind string

const (
	KindPlayerProp   Kind = "player_prop"
	KindCombo        Kind = "combo"
	KindDrawNoBet    Kind = "draw_no_bet"
	KindWinner       Kind = "winner"
	KindDoubleChance Kind = "double_chance"
	KindBTTS         Kind = "btts"
	KindCountTotal   Kind = "count_total"
	KindGoalsTotal   Kind = "goals_total"
	KindHandicap     Kind = "handicap"
)

// Side é o lado referenciado pelo mercado.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
	SideDraw Side = "draw"
)

// Stat identifica a estatística de mercados de contagem e props de jogador.
type Stat string

const (
	StatCorners       Stat = "corners"
	StatCards         Stat = "cards"
	StatTeamShots     Stat = "team_shots"
	StatShots         Stat = "shots"
	StatShotsOnTarget Stat = "shots_on_target"
	StatAssists       Stat = "assists"
	StatPasses        Stat = "passes"
	StatTackles       Stat = "tackles"
)

// Market é a tupla (tipo, parâmetros) produzida pelo classificador.
// Campos são preenchidos conforme o Kind; o avaliador ignora o resto.
type Market struct {
	Kind Kind

	Side  Side   // winner, draw-no-bet, handicap, total por equipe
	Sides []Side // double chance: os dois resultados cobertos

	Over          bool    // totais e props: over (true) ou under
	Line          float64 // linha extraída do texto
	LineDefaulted bool    // linha ausente, fallback 1.5 aplicado

	Yes bool // btts: "ambos marcan sí" (true) ou "no"

	Stat        Stat   // contagem e props
	PlayerQuery string // prop: texto normalizado para fuzzy-match do jogador

	HalfTime bool // mercado qualificado como primeira parte

	Subs []Market // combo: sub-cláusulas em ordem, semântica AND
}
