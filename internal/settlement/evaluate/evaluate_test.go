package evaluate

import (
	"strings"
	"testing"

	"github.com/goltips/settlement-engine/internal/settlement/market"
	"github.com/goltips/settlement-engine/internal/settlement/results"
	"github.com/goltips/settlement-engine/internal/settlement/wager"
)

func snap(hs, as int) results.Snapshot {
	return results.Snapshot{FixtureID: "f1", Finished: true, HomeScore: hs, AwayScore: as}
}

func intPtr(v int) *int { return &v }

func mustEval(t *testing.T, m market.Market, s results.Snapshot) (wager.Status, string) {
	t.Helper()
	st, summary, err := Evaluate(m, s)
	if err != nil {
		t.Fatalf("Evaluate(%+v): %v", m, err)
	}
	return st, summary
}

func TestEvaluateWinner(t *testing.T) {
	m := market.Market{Kind: market.KindWinner, Side: market.SideHome}
	if st, _ := mustEval(t, m, snap(2, 1)); st != wager.StatusWon {
		t.Errorf("home win 2-1 = %s", st)
	}
	if st, _ := mustEval(t, m, snap(1, 1)); st != wager.StatusLost {
		t.Errorf("home on draw = %s", st)
	}
	m.Side = market.SideDraw
	if st, _ := mustEval(t, m, snap(1, 1)); st != wager.StatusWon {
		t.Errorf("draw on 1-1 = %s", st)
	}
}

func TestEvaluateDrawNoBet(t *testing.T) {
	m := market.Market{Kind: market.KindDrawNoBet, Side: market.SideAway}
	st, summary := mustEval(t, m, snap(2, 2))
	if st != wager.StatusVoid || !strings.Contains(summary, "Draw no bet") {
		t.Errorf("dnb on draw = %s %q", st, summary)
	}
	if st, _ := mustEval(t, m, snap(0, 1)); st != wager.StatusWon {
		t.Errorf("dnb away win = %s", st)
	}
}

func TestEvaluateDoubleChance(t *testing.T) {
	// 1X: 1-1 ganha, 0-1 perde
	m := market.Market{Kind: market.KindDoubleChance, Sides: []market.Side{market.SideHome, market.SideDraw}}
	if st, _ := mustEval(t, m, snap(1, 1)); st != wager.StatusWon {
		t.Errorf("1X on 1-1 = %s", st)
	}
	if st, _ := mustEval(t, m, snap(0, 1)); st != wager.StatusLost {
		t.Errorf("1X on 0-1 = %s", st)
	}
}

func TestEvaluateBTTS(t *testing.T) {
	yes := market.Market{Kind: market.KindBTTS, Yes: true}
	if st, _ := mustEval(t, yes, snap(2, 1)); st != wager.StatusWon {
		t.Errorf("btts yes on 2-1 = %s", st)
	}
	if st, _ := mustEval(t, yes, snap(2, 0)); st != wager.StatusLost {
		t.Errorf("btts yes on 2-0 = %s", st)
	}
	no := market.Market{Kind: market.KindBTTS, Yes: false}
	if st, _ := mustEval(t, no, snap(2, 0)); st != wager.StatusWon {
		t.Errorf("btts no on 2-0 = %s", st)
	}
}

func TestEvaluateGoalsTotal(t *testing.T) {
	over := market.Market{Kind: market.KindGoalsTotal, Over: true, Line: 2.5}
	if st, _ := mustEval(t, over, snap(3, 1)); st != wager.StatusWon {
		t.Errorf("over 2.5 on 4 goals = %s", st)
	}
	if st, _ := mustEval(t, over, snap(1, 0)); st != wager.StatusLost {
		t.Errorf("over 2.5 on 1 goal = %s", st)
	}

	under := market.Market{Kind: market.KindGoalsTotal, Over: false, Line: 2.5}
	if st, _ := mustEval(t, under, snap(1, 1)); st != wager.StatusWon {
		t.Errorf("under 2.5 on 2 goals = %s", st)
	}

	// linha inteira com total igual é push
	push := market.Market{Kind: market.KindGoalsTotal, Over: true, Line: 2}
	st, summary := mustEval(t, push, snap(1, 1))
	if st != wager.StatusVoid || !strings.Contains(summary, "Push") {
		t.Errorf("total push = %s %q", st, summary)
	}

	// total por equipe usa só o placar daquele lado
	team := market.Market{Kind: market.KindGoalsTotal, Over: true, Line: 1.5, Side: market.SideAway}
	if st, _ := mustEval(t, team, snap(3, 1)); st != wager.StatusLost {
		t.Errorf("away team total 1.5 on 1 = %s", st)
	}
}

func TestEvaluateHalfTime(t *testing.T) {
	m := market.Market{Kind: market.KindGoalsTotal, Over: true, Line: 0.5, HalfTime: true}

	// sem parcial: pendente, não erro — a fonte pode publicar depois
	st, summary := mustEval(t, m, snap(2, 1))
	if st != wager.StatusPending || !strings.Contains(summary, "half-time") {
		t.Errorf("missing HT = %s %q", st, summary)
	}

	s := snap(2, 1)
	s.HasHalfTime = true
	s.HomeScoreHT, s.AwayScoreHT = 0, 0
	if st, _ := mustEval(t, m, s); st != wager.StatusLost {
		t.Errorf("HT over 0.5 on 0-0 = %s", st)
	}

	winner := market.Market{Kind: market.KindWinner, Side: market.SideAway, HalfTime: true}
	s.HomeScoreHT, s.AwayScoreHT = 0, 1
	// visitante ganhava no intervalo, ainda que o final seja 2-1
	if st, _ := mustEval(t, winner, s); st != wager.StatusWon {
		t.Errorf("HT winner = %s", st)
	}
}

func TestEvaluateCountTotals(t *testing.T) {
	corners := market.Market{Kind: market.KindCountTotal, Stat: market.StatCorners, Over: true, Line: 9.5}

	// escanteio sem dado fica pendente, nunca assume 0
	st, summary := mustEval(t, corners, snap(1, 0))
	if st != wager.StatusPending || !strings.Contains(summary, "corner") {
		t.Errorf("missing corners = %s %q", st, summary)
	}

	s := snap(1, 0)
	s.Corners = intPtr(11)
	if st, _ := mustEval(t, corners, s); st != wager.StatusWon {
		t.Errorf("11 corners over 9.5 = %s", st)
	}

	// cartões sem dado valem 0 (assimetria deliberada da fonte)
	cards := market.Market{Kind: market.KindCountTotal, Stat: market.StatCards, Over: false, Line: 3.5}
	if st, _ := mustEval(t, cards, snap(1, 0)); st != wager.StatusWon {
		t.Errorf("under cards with nil stats = %s", st)
	}
	shots := market.Market{Kind: market.KindCountTotal, Stat: market.StatTeamShots, Over: true, Line: 10.5}
	if st, _ := mustEval(t, shots, snap(1, 0)); st != wager.StatusLost {
		t.Errorf("over shots with nil stats = %s", st)
	}
}

func TestEvaluateHandicap(t *testing.T) {
	m := market.Market{Kind: market.KindHandicap, Side: market.SideHome, Line: -1.5}

	// 3-2 ajustado 1.5 vs 2 perde
	if st, _ := mustEval(t, m, snap(3, 2)); st != wager.StatusLost {
		t.Errorf("home -1.5 on 3-2 = %s", st)
	}
	// 4-2 ajustado 2.5 vs 2 ganha
	if st, _ := mustEval(t, m, snap(4, 2)); st != wager.StatusWon {
		t.Errorf("home -1.5 on 4-2 = %s", st)
	}

	// linha inteira com empate ajustado exato anula com "(Push)"
	push := market.Market{Kind: market.KindHandicap, Side: market.SideHome, Line: -1}
	st, summary := mustEval(t, push, snap(3, 2))
	if st != wager.StatusVoid || !strings.Contains(summary, "Push") {
		t.Errorf("handicap push = %s %q", st, summary)
	}

	away := market.Market{Kind: market.KindHandicap, Side: market.SideAway, Line: 0.5}
	if st, _ := mustEval(t, away, snap(1, 1)); st != wager.StatusWon {
		t.Errorf("away +0.5 on 1-1 = %s", st)
	}
}

func TestEvaluateCombo(t *testing.T) {
	winner := market.Market{Kind: market.KindWinner, Side: market.SideHome}
	total := market.Market{Kind: market.KindGoalsTotal, Over: true, Line: 2.5}
	combo := market.Market{Kind: market.KindCombo, Subs: []market.Market{winner, total}}

	// 3-1: equipe ganhou e 4 gols > 2.5
	if st, _ := mustEval(t, combo, snap(3, 1)); st != wager.StatusWon {
		t.Errorf("combo on 3-1 = %s", st)
	}
	// 1-0: vencedor passa mas total falha => AND perde
	if st, _ := mustEval(t, combo, snap(1, 0)); st != wager.StatusLost {
		t.Errorf("combo on 1-0 = %s", st)
	}

	// cláusula pendente segura o combo
	htTotal := market.Market{Kind: market.KindGoalsTotal, Over: true, Line: 0.5, HalfTime: true}
	pending := market.Market{Kind: market.KindCombo, Subs: []market.Market{winner, htTotal}}
	if st, _ := mustEval(t, pending, snap(3, 1)); st != wager.StatusPending {
		t.Errorf("combo with missing HT = %s", st)
	}
}

func TestEvaluatePlayerPropRejectedByEvaluate(t *testing.T) {
	m := market.Market{Kind: market.KindPlayerProp, Stat: market.StatShots, Line: 1.5}
	if _, _, err := Evaluate(m, snap(1, 0)); err == nil {
		t.Error("Evaluate should refuse player props")
	}
}
