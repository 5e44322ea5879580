package market

import (
	"errors"
	"testing"
)

const (
	home = "Equipo A"
	away = "Equipo B"
)

func mustClassify(t *testing.T, pick string) Market {
	t.Helper()
	m, err := Classify(pick, home, away)
	if err != nil {
		t.Fatalf("Classify(%q): %v", pick, err)
	}
	return m
}

func TestClassifyWinner(t *testing.T) {
	tests := []struct {
		pick string
		side Side
	}{
		{"Gana Equipo A", SideHome},
		{"equipo b", SideAway},
		{"Victoria del local", SideHome},
		{"Visitante", SideAway},
		{"Empate", SideDraw},
		{"Draw", SideDraw},
		{"1", SideHome},
		{"2", SideAway},
		{"X", SideDraw},
	}
	for _, tt := range tests {
		m := mustClassify(t, tt.pick)
		if m.Kind != KindWinner || m.Side != tt.side {
			t.Errorf("Classify(%q) = %s/%s, want winner/%s", tt.pick, m.Kind, m.Side, tt.side)
		}
	}
}

func TestClassifyWinnerHalfTime(t *testing.T) {
	m := mustClassify(t, "Equipo A gana la primera parte")
	if m.Kind != KindWinner || m.Side != SideHome || !m.HalfTime {
		t.Errorf("got %+v, want winner home half-time", m)
	}
}

func TestClassifyDoubleChance(t *testing.T) {
	tests := []struct {
		pick  string
		sides []Side
	}{
		{"Doble Oportunidad 1X", []Side{SideHome, SideDraw}},
		{"Doble Oportunidad X2", []Side{SideDraw, SideAway}},
		{"doble oportunidad 12", []Side{SideHome, SideAway}},
		{"Equipo A o empate", []Side{SideHome, SideDraw}},
	}
	for _, tt := range tests {
		m := mustClassify(t, tt.pick)
		if m.Kind != KindDoubleChance {
			t.Fatalf("Classify(%q) kind = %s, want double_chance", tt.pick, m.Kind)
		}
		if len(m.Sides) != 2 || m.Sides[0] != tt.sides[0] || m.Sides[1] != tt.sides[1] {
			t.Errorf("Classify(%q) sides = %v, want %v", tt.pick, m.Sides, tt.sides)
		}
	}
}

func TestClassifyDrawNoBet(t *testing.T) {
	m := mustClassify(t, "Equipo B sin empate")
	if m.Kind != KindDrawNoBet || m.Side != SideAway {
		t.Errorf("got %+v, want draw_no_bet away", m)
	}
	m = mustClassify(t, "Draw no bet Equipo A")
	if m.Kind != KindDrawNoBet || m.Side != SideHome {
		t.Errorf("got %+v, want draw_no_bet home", m)
	}
}

func TestClassifyBTTS(t *testing.T) {
	m := mustClassify(t, "Ambos Equipos Marcan")
	if m.Kind != KindBTTS || !m.Yes {
		t.Errorf("got %+v, want btts yes", m)
	}
	m = mustClassify(t, "Ambos equipos marcan - No")
	if m.Kind != KindBTTS || m.Yes {
		t.Errorf("got %+v, want btts no", m)
	}
}

func TestClassifyGoalsTotal(t *testing.T) {
	m := mustClassify(t, "Más de 2.5 Goles")
	if m.Kind != KindGoalsTotal || !m.Over || m.Line != 2.5 || m.Side != "" || m.LineDefaulted {
		t.Errorf("got %+v, want match over 2.5", m)
	}

	m = mustClassify(t, "Menos de 3,5 goles")
	if m.Kind != KindGoalsTotal || m.Over || m.Line != 3.5 {
		t.Errorf("got %+v, want match under 3.5", m)
	}

	// qualificação por equipe é por nome literal
	m = mustClassify(t, "Más de 1.5 goles de Equipo B")
	if m.Kind != KindGoalsTotal || m.Side != SideAway || m.Line != 1.5 {
		t.Errorf("got %+v, want away team total 1.5", m)
	}

	// linha ausente cai no default 1.5 sinalizado
	m = mustClassify(t, "Más de goles")
	if m.Kind != KindGoalsTotal || m.Line != 1.5 || !m.LineDefaulted {
		t.Errorf("got %+v, want defaulted line 1.5", m)
	}
}

func TestClassifyGoalsTotalHalfTimeLineIgnoresMarker(t *testing.T) {
	// o "1" de "1ª parte" não pode virar linha
	m := mustClassify(t, "1ª parte más de 0.5 goles")
	if m.Kind != KindGoalsTotal || !m.HalfTime || m.Line != 0.5 {
		t.Errorf("got %+v, want half-time over 0.5", m)
	}
}

func TestClassifyCountTotal(t *testing.T) {
	tests := []struct {
		pick string
		stat Stat
		over bool
		line float64
	}{
		{"Más de 9.5 córners", StatCorners, true, 9.5},
		{"Menos de 10.5 tiros de esquina", StatCorners, false, 10.5},
		{"Más de 4.5 tarjetas", StatCards, true, 4.5},
		{"Over 3.5 cards", StatCards, true, 3.5},
		{"Más de 22.5 tiros totales", StatTeamShots, true, 22.5},
		{"Más de 8.5 tiros de Equipo A", StatTeamShots, true, 8.5},
	}
	for _, tt := range tests {
		m := mustClassify(t, tt.pick)
		if m.Kind != KindCountTotal || m.Stat != tt.stat || m.Over != tt.over || m.Line != tt.line {
			t.Errorf("Classify(%q) = %+v, want %s %v line %v", tt.pick, m, tt.stat, tt.over, tt.line)
		}
	}

	// sem número: default 1.5 explícito, não erro
	m := mustClassify(t, "Más de córners")
	if m.Stat != StatCorners || m.Line != 1.5 || !m.LineDefaulted {
		t.Errorf("got %+v, want defaulted corners line", m)
	}
}

func TestClassifyHandicap(t *testing.T) {
	m := mustClassify(t, "Hándicap Asiático Local -1.5")
	if m.Kind != KindHandicap || m.Side != SideHome || m.Line != -1.5 {
		t.Errorf("got %+v, want handicap home -1.5", m)
	}

	m = mustClassify(t, "Handicap Equipo B +0.5")
	if m.Kind != KindHandicap || m.Side != SideAway || m.Line != 0.5 {
		t.Errorf("got %+v, want handicap away +0.5", m)
	}

	// sem linha não há fallback: vai para quarentena
	if _, err := Classify("Hándicap Local", home, away); err == nil {
		t.Error("handicap without line should fail")
	}
}

func TestClassifyPlayerProp(t *testing.T) {
	m := mustClassify(t, "Más de 1.5 tiros a puerta de Mbappe")
	if m.Kind != KindPlayerProp || m.Stat != StatShotsOnTarget || m.Line != 1.5 || !m.Over {
		t.Errorf("got %+v, want shots_on_target over 1.5", m)
	}
	if m.PlayerQuery != "mbappe" {
		t.Errorf("player query = %q, want mbappe", m.PlayerQuery)
	}

	m = mustClassify(t, "Más de 30.5 pases de Pedri Gonzalez")
	if m.Kind != KindPlayerProp || m.Stat != StatPasses || m.PlayerQuery != "pedri gonzalez" {
		t.Errorf("got %+v, want passes pedri gonzalez", m)
	}
}

func TestClassifyCombo(t *testing.T) {
	m := mustClassify(t, "Equipo A y Más de 2.5 Goles")
	if m.Kind != KindCombo || len(m.Subs) != 2 {
		t.Fatalf("got %+v, want combo with 2 clauses", m)
	}
	if m.Subs[0].Kind != KindWinner || m.Subs[0].Side != SideHome {
		t.Errorf("first clause = %+v, want winner home", m.Subs[0])
	}
	if m.Subs[1].Kind != KindGoalsTotal || m.Subs[1].Line != 2.5 {
		t.Errorf("second clause = %+v, want goals total 2.5", m.Subs[1])
	}
}

// A precedência é parte do contrato: prop antes de contagem, combo antes de
// vencedor, contagem antes do total geral.
func TestClassifyPrecedence(t *testing.T) {
	// keyword de tiros sem equipe => prop, com equipe => contagem
	m := mustClassify(t, "Más de 2.5 tiros de Vinicius")
	if m.Kind != KindPlayerProp {
		t.Errorf("got %s, want player_prop", m.Kind)
	}
	m = mustClassify(t, "Más de 2.5 tiros de Equipo A")
	if m.Kind != KindCountTotal {
		t.Errorf("got %s, want count_total", m.Kind)
	}

	// "y" + over/under => combo, não winner
	m = mustClassify(t, "Equipo B y más de 1.5 goles")
	if m.Kind != KindCombo {
		t.Errorf("got %s, want combo", m.Kind)
	}

	// corners antes do total geral mesmo com "más de"
	m = mustClassify(t, "más de 9.5 corners")
	if m.Kind != KindCountTotal {
		t.Errorf("got %s, want count_total", m.Kind)
	}
}

func TestClassifyUnclassifiable(t *testing.T) {
	for _, pick := range []string{"", "primer goleador Mbappe", "resultado exacto 2-1"} {
		if _, err := Classify(pick, home, away); !errors.Is(err, ErrUnclassifiable) {
			t.Errorf("Classify(%q) err = %v, want ErrUnclassifiable", pick, err)
		}
	}
}

func TestRuleOrderIsStable(t *testing.T) {
	want := []string{
		"player_prop", "combo", "draw_no_bet", "winner", "double_chance",
		"btts", "count_total", "goals_total", "handicap",
	}
	rules := Rules()
	if len(rules) != len(want) {
		t.Fatalf("rule count = %d, want %d", len(rules), len(want))
	}
	for i, r := range rules {
		if r.Name != want[i] {
			t.Errorf("rule[%d] = %s, want %s", i, r.Name, want[i])
		}
	}
}
