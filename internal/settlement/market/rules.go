package market

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Regra 1: prop de jogador

// statKeywords em ordem de especificidade ("tiros a puerta" antes de "tiros").
var statKeywords = []struct {
	kw   string
	stat Stat
}{
	{"tiros a puerta", StatShotsOnTarget},
	{"remates a puerta", StatShotsOnTarget},
	{"disparos a puerta", StatShotsOnTarget},
	{"shots on target", StatShotsOnTarget},
	{"tiros", StatShots},
	{"remates", StatShots},
	{"disparos", StatShots},
	{"shots", StatShots},
	{"asistencia", StatAssists},
	{"assist", StatAssists},
	{"pases", StatPasses},
	{"passes", StatPasses},
	{"entradas", StatTackles},
	{"tackles", StatTackles},
}

func playerStatKeyword(text string) (Stat, string, bool) {
	for _, e := range statKeywords {
		if strings.Contains(text, e.kw) {
			return e.stat, e.kw, true
		}
	}
	return "", "", false
}

// Prop exige keyword de estatística individual sem referência a equipe nem a
// totais da partida; "tiros de esquina" e cartões pertencem à regra de contagem.
func matchPlayerProp(c pickCtx) bool {
	if _, _, ok := playerStatKeyword(c.text); !ok {
		return false
	}
	if hasCornerKeyword(c.text) || hasCardKeyword(c.text) {
		return false
	}
	if strings.Contains(c.text, "total") {
		return false
	}
	if c.home != "" && strings.Contains(c.text, c.home) {
		return false
	}
	if c.away != "" && strings.Contains(c.text, c.away) {
		return false
	}
	return true
}

func buildPlayerProp(c pickCtx) (Market, error) {
	stat, kw, _ := playerStatKeyword(c.text)
	m := Market{Kind: KindPlayerProp, Stat: stat, Over: detectOver(c.text)}
	if line, ok := extractLine(stripHalfTime(c.text)); ok {
		m.Line = line
	} else {
		m.Line = defaultLine
		m.LineDefaulted = true
	}
	m.PlayerQuery = playerQuery(c.text, kw)
	if m.PlayerQuery == "" {
		return Market{}, fmt.Errorf("player name missing in %q: %w", c.text, ErrUnclassifiable)
	}
	return m, nil
}

// playerQuery extrai o trecho que nomeia o jogador. Preferência pelo que vem
// depois da keyword ("... tiros a puerta de mbappe"); senão, o que sobra do
// texto sem keyword, números e conectivos.
func playerQuery(text, kw string) string {
	idx := strings.Index(text, kw)
	rest := strings.TrimSpace(text[idx+len(kw):])
	for _, p := range []string{"de ", "del ", "por ", "of ", "by "} {
		if strings.HasPrefix(rest, p) {
			rest = strings.TrimSpace(rest[len(p):])
			break
		}
	}
	if q := cleanPlayerQuery(rest); q != "" {
		return q
	}
	return cleanPlayerQuery(text[:idx])
}

var playerStopwords = map[string]bool{
	"mas": true, "menos": true, "de": true, "del": true, "over": true, "under": true,
	"el": true, "la": true, "y": true, "o": true, "the": true,
}

func cleanPlayerQuery(s string) string {
	var out []string
	for _, tok := range tokenize(s) {
		if playerStopwords[tok] {
			continue
		}
		if _, ok := extractLine(tok); ok {
			continue
		}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}

// ---------------------------------------------------------------------------
// Regra 2: mercado combinado (AND de cláusulas, ao menos uma over/under)

var comboSeparators = []string{" y ", " & ", " and "}

func matchCombo(c pickCtx) bool {
	found := false
	for _, sep := range comboSeparators {
		if strings.Contains(c.text, sep) {
			found = true
			break
		}
	}
	return found && hasOverUnder(c.text)
}

func splitCombo(text string) []string {
	parts := []string{text}
	for _, sep := range comboSeparators {
		var next []string
		for _, p := range parts {
			next = append(next, strings.Split(p, sep)...)
		}
		parts = next
	}
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func buildCombo(c pickCtx) (Market, error) {
	m := Market{Kind: KindCombo}
	for _, clause := range splitCombo(c.text) {
		sub, err := classifyCtx(pickCtx{text: clause, home: c.home, away: c.away}, comboSubRules())
		if err != nil {
			return Market{}, fmt.Errorf("clause %q: %w", clause, err)
		}
		switch sub.Kind {
		case KindWinner, KindDoubleChance, KindDrawNoBet, KindBTTS, KindGoalsTotal, KindCountTotal:
			m.Subs = append(m.Subs, sub)
		default:
			return Market{}, fmt.Errorf("clause %q: %s not combinable: %w", clause, sub.Kind, ErrUnclassifiable)
		}
	}
	if len(m.Subs) < 2 {
		return Market{}, ErrUnclassifiable
	}
	return m, nil
}

// comboSubRules é a cadeia completa menos o próprio combo.
func comboSubRules() []Rule {
	var out []Rule
	for _, r := range Rules() {
		if r.Name != "combo" {
			out = append(out, r)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Regra 3: draw no bet (empate anula)

func matchDrawNoBet(c pickCtx) bool {
	return strings.Contains(c.text, "sin empate") || strings.Contains(c.text, "draw no bet") ||
		containsToken(c.text, "dnb") || strings.Contains(c.text, "empate anula") ||
		strings.Contains(c.text, "empate no bet")
}

func buildDrawNoBet(c pickCtx) (Market, error) {
	side, ok := singleTeamSide(c)
	if !ok {
		return Market{}, fmt.Errorf("draw-no-bet side missing in %q: %w", c.text, ErrUnclassifiable)
	}
	return Market{Kind: KindDrawNoBet, Side: side, HalfTime: isHalfTime(c.text)}, nil
}

// singleTeamSide retorna home/away quando exatamente um dos dois é citado.
func singleTeamSide(c pickCtx) (Side, bool) {
	var found []Side
	for _, s := range detectSides(c) {
		if s == SideHome || s == SideAway {
			found = append(found, s)
		}
	}
	if len(found) != 1 {
		return "", false
	}
	return found[0], true
}

// ---------------------------------------------------------------------------
// Regra 4: vencedor (1X2)

// matchWinner só aceita picks que são pura referência de resultado; qualquer
// marcador de total, contagem ou handicap empurra para as regras seguintes.
func matchWinner(c pickCtx) bool {
	if hasOverUnder(c.text) || hasHandicapKeyword(c.text) ||
		hasCornerKeyword(c.text) || hasCardKeyword(c.text) || hasShotsKeyword(c.text) {
		return false
	}
	return len(detectSides(c)) == 1
}

func buildWinner(c pickCtx) (Market, error) {
	sides := detectSides(c)
	return Market{Kind: KindWinner, Side: sides[0], HalfTime: isHalfTime(c.text)}, nil
}

// ---------------------------------------------------------------------------
// Regra 5: dupla chance (1X / X2 / 12)

func matchDoubleChance(c pickCtx) bool {
	if hasOverUnder(c.text) {
		return false
	}
	if strings.Contains(c.text, "doble oportunidad") || strings.Contains(c.text, "doble chance") ||
		strings.Contains(c.text, "double chance") {
		return true
	}
	if containsToken(c.text, "1x") || containsToken(c.text, "x2") || containsToken(c.text, "12") {
		return true
	}
	return len(detectSides(c)) == 2 && strings.Contains(c.text, " o ")
}

func buildDoubleChance(c pickCtx) (Market, error) {
	m := Market{Kind: KindDoubleChance, HalfTime: isHalfTime(c.text)}
	switch {
	case containsToken(c.text, "1x"):
		m.Sides = []Side{SideHome, SideDraw}
	case containsToken(c.text, "x2"):
		m.Sides = []Side{SideDraw, SideAway}
	case containsToken(c.text, "12"):
		m.Sides = []Side{SideHome, SideAway}
	default:
		sides := detectSides(c)
		if len(sides) != 2 {
			return Market{}, fmt.Errorf("double chance combination missing in %q: %w", c.text, ErrUnclassifiable)
		}
		m.Sides = sides
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Regra 6: ambos marcam

func matchBTTS(c pickCtx) bool {
	return strings.Contains(c.text, "ambos equipos marcan") || strings.Contains(c.text, "ambos marcan") ||
		strings.Contains(c.text, "ambas marcan") || strings.Contains(c.text, "ambos anotan") ||
		strings.Contains(c.text, "both teams to score") || containsToken(c.text, "btts") ||
		strings.Contains(c.text, "gol de ambos")
}

func buildBTTS(c pickCtx) (Market, error) {
	return Market{
		Kind:     KindBTTS,
		Yes:      !containsToken(c.text, "no"),
		HalfTime: isHalfTime(c.text),
	}, nil
}

// ---------------------------------------------------------------------------
// Regra 7: total de contagem (escanteios, cartões, tiros da partida)

const defaultLine = 1.5

func countStat(text string) (Stat, bool) {
	switch {
	case hasCornerKeyword(text):
		return StatCorners, true
	case hasCardKeyword(text):
		return StatCards, true
	case hasShotsKeyword(text):
		return StatTeamShots, true
	}
	return "", false
}

func matchCountTotal(c pickCtx) bool {
	_, ok := countStat(c.text)
	return ok
}

func buildCountTotal(c pickCtx) (Market, error) {
	stat, _ := countStat(c.text)
	m := Market{Kind: KindCountTotal, Stat: stat, Over: detectOver(c.text), HalfTime: isHalfTime(c.text)}
	if line, ok := extractLine(stripHalfTime(c.text)); ok {
		m.Line = line
	} else {
		// fallback deliberado: linha malformada nunca bloqueia a liquidação
		m.Line = defaultLine
		m.LineDefaulted = true
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Regra 8: total de gols/pontos, da partida ou qualificado por equipe

func matchGoalsTotal(c pickCtx) bool {
	return hasOverUnder(c.text)
}

func buildGoalsTotal(c pickCtx) (Market, error) {
	m := Market{Kind: KindGoalsTotal, Over: detectOver(c.text), HalfTime: isHalfTime(c.text)}
	// qualificação por equipe é só por nome literal; "1"/"2" aqui são linhas
	if c.home != "" && strings.Contains(c.text, c.home) {
		m.Side = SideHome
	} else if c.away != "" && strings.Contains(c.text, c.away) {
		m.Side = SideAway
	}
	if line, ok := extractLine(stripHalfTime(c.text)); ok {
		m.Line = line
	} else {
		m.Line = defaultLine
		m.LineDefaulted = true
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Regra 9: handicap (asiático incluso)

func matchHandicap(c pickCtx) bool {
	return hasHandicapKeyword(c.text)
}

func buildHandicap(c pickCtx) (Market, error) {
	side, ok := singleTeamSide(c)
	if !ok {
		return Market{}, fmt.Errorf("handicap side missing in %q: %w", c.text, ErrUnclassifiable)
	}
	line, found := extractLine(stripHalfTime(c.text))
	if !found {
		// handicap sem linha não tem fallback razoável
		return Market{}, fmt.Errorf("handicap line missing in %q", c.text)
	}
	return Market{Kind: KindHandicap, Side: side, Line: line, HalfTime: isHalfTime(c.text)}, nil
}
