package evaluate

import (
	"fmt"
	"math"

	"github.com/goltips/settlement-engine/internal/settlement/market"
	"github.com/goltips/settlement-engine/internal/settlement/results"
	"github.com/goltips/settlement-engine/internal/settlement/wager"
)

// Evaluate é a função pura de liquidação: (mercado, resultado) => desfecho.
// Retorna PENDING quando o dado necessário ainda não existe (placar de
// primeira parte, escanteios não cobertos); erro só quando o mercado nunca
// poderá ser avaliado, o que vira quarentena no orquestrador.
//
// Props de jogador precisam do relatório de jogadores: usar EvaluatePlayerProp.
func Evaluate(m market.Market, snap results.Snapshot) (wager.Status, string, error) {
	hs, as := snap.HomeScore, snap.AwayScore
	label := "Final"
	if m.HalfTime {
		if !snap.HasHalfTime {
			// transitório: a fonte pode publicar o parcial mais tarde
			return wager.StatusPending, "half-time score unavailable", nil
		}
		hs, as = snap.HomeScoreHT, snap.AwayScoreHT
		label = "HT"
	}
	score := fmt.Sprintf("%s %d-%d", label, hs, as)

	switch m.Kind {
	case market.KindWinner:
		return settleWinner(m.Side, hs, as, score), score, nil

	case market.KindDrawNoBet:
		if hs == as {
			return wager.StatusVoid, score + " (Draw no bet)", nil
		}
		return settleWinner(m.Side, hs, as, score), score, nil

	case market.KindDoubleChance:
		res := winnerSide(hs, as)
		for _, s := range m.Sides {
			if s == res {
				return wager.StatusWon, score, nil
			}
		}
		return wager.StatusLost, score, nil

	case market.KindBTTS:
		both := hs > 0 && as > 0
		st := wager.StatusLost
		if both == m.Yes {
			st = wager.StatusWon
		}
		return st, score, nil

	case market.KindGoalsTotal:
		total := hs + as
		switch m.Side {
		case market.SideHome:
			total = hs
		case market.SideAway:
			total = as
		}
		st := settleTotal(float64(total), m.Over, m.Line)
		return st, totalSummary(score, "goals", total, m.Line, st), nil

	case market.KindCountTotal:
		value, summary, st := countValue(m, snap)
		if st == wager.StatusPending {
			return st, summary, nil
		}
		st = settleTotal(float64(value), m.Over, m.Line)
		return st, totalSummary(score, summary, value, m.Line, st), nil

	case market.KindHandicap:
		return settleHandicap(m, hs, as, score)

	case market.KindCombo:
		return settleCombo(m, snap)

	case market.KindPlayerProp:
		return "", "", fmt.Errorf("player prop needs the player report, use EvaluatePlayerProp")
	}

	return "", "", fmt.Errorf("unknown market kind %q", m.Kind)
}

func winnerSide(hs, as int) market.Side {
	switch {
	case hs > as:
		return market.SideHome
	case as > hs:
		return market.SideAway
	}
	return market.SideDraw
}

func settleWinner(side market.Side, hs, as int, _ string) wager.Status {
	if winnerSide(hs, as) == side {
		return wager.StatusWon
	}
	return wager.StatusLost
}

const lineEpsilon = 1e-9

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < lineEpsilon
}

// settleTotal resolve over/under contra a linha; igualdade exata é push.
func settleTotal(value float64, over bool, line float64) wager.Status {
	if floatEq(value, line) {
		return wager.StatusVoid
	}
	if (value > line) == over {
		return wager.StatusWon
	}
	return wager.StatusLost
}

func totalSummary(score, what string, value int, line float64, st wager.Status) string {
	if st == wager.StatusVoid {
		return fmt.Sprintf("%s (%s %d, line %.1f) (Push)", score, what, value, line)
	}
	return fmt.Sprintf("%s (%s %d, line %.1f)", score, what, value, line)
}

// countValue escolhe a estatística de contagem no snapshot. Escanteios sem
// dado ficam PENDING; cartões e tiros sem dado valem 0, espelhando a
// tolerância da fonte com estatísticas parciais em mercados menores.
func countValue(m market.Market, snap results.Snapshot) (int, string, wager.Status) {
	switch m.Stat {
	case market.StatCorners:
		if snap.Corners == nil {
			return 0, "corner stats unavailable", wager.StatusPending
		}
		return *snap.Corners, "corners", ""
	case market.StatCards:
		if snap.Cards == nil {
			return 0, "cards", ""
		}
		return *snap.Cards, "cards", ""
	case market.StatTeamShots:
		if snap.TotalShots == nil {
			return 0, "shots", ""
		}
		return *snap.TotalShots, "shots", ""
	}
	return 0, fmt.Sprintf("unsupported count stat %q", m.Stat), wager.StatusPending
}

// settleHandicap ajusta o placar do lado escolhido pela linha; empate exato
// após o ajuste é push e anula a seleção.
func settleHandicap(m market.Market, hs, as int, score string) (wager.Status, string, error) {
	var mine, other float64
	switch m.Side {
	case market.SideHome:
		mine, other = float64(hs)+m.Line, float64(as)
	case market.SideAway:
		mine, other = float64(as)+m.Line, float64(hs)
	default:
		return "", "", fmt.Errorf("handicap on side %q", m.Side)
	}

	summary := fmt.Sprintf("%s (handicap %+.1f)", score, m.Line)
	if floatEq(mine, other) {
		return wager.StatusVoid, summary + " (Push)", nil
	}
	if mine > other {
		return wager.StatusWon, summary, nil
	}
	return wager.StatusLost, summary, nil
}

// settleCombo aplica AND lógico sobre as sub-cláusulas, com curto-circuito
// na primeira perdida. Prioridade de agregação: LOST > PENDING > VOID > WON.
func settleCombo(m market.Market, snap results.Snapshot) (wager.Status, string, error) {
	anyPending := false
	anyVoid := false
	summary := ""
	for _, sub := range m.Subs {
		st, s, err := Evaluate(sub, snap)
		if err != nil {
			return "", "", err
		}
		if summary == "" {
			summary = s
		}
		switch st {
		case wager.StatusLost:
			return wager.StatusLost, s, nil
		case wager.StatusPending:
			anyPending = true
		case wager.StatusVoid:
			anyVoid = true
		}
	}
	switch {
	case anyPending:
		return wager.StatusPending, summary, nil
	case anyVoid:
		return wager.StatusVoid, summary, nil
	}
	return wager.StatusWon, summary, nil
}
