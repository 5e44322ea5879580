package market

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// pickCtx carrega o texto do pick e os nomes das equipes, tudo já normalizado.
type pickCtx struct {
	text string
	home string
	away string
}

// Rule é um par (predicado, construtor). A ordem da lista retornada por
// Rules define a precedência: a primeira regra que casa vence, então as
// regras mais específicas vêm antes das gerais.
type Rule struct {
	Name  string
	Match func(c pickCtx) bool
	Build func(c pickCtx) (Market, error)
}

// Rules retorna a cadeia ordenada de regras de classificação.
func Rules() []Rule {
	return []Rule{
		{Name: "player_prop", Match: matchPlayerProp, Build: buildPlayerProp},
		{Name: "combo", Match: matchCombo, Build: buildCombo},
		{Name: "draw_no_bet", Match: matchDrawNoBet, Build: buildDrawNoBet},
		{Name: "winner", Match: matchWinner, Build: buildWinner},
		{Name: "double_chance", Match: matchDoubleChance, Build: buildDoubleChance},
		{Name: "btts", Match: matchBTTS, Build: buildBTTS},
		{Name: "count_total", Match: matchCountTotal, Build: buildCountTotal},
		{Name: "goals_total", Match: matchGoalsTotal, Build: buildGoalsTotal},
		{Name: "handicap", Match: matchHandicap, Build: buildHandicap},
	}
}

// Classify mapeia o texto livre de um pick para (tipo de mercado, parâmetros).
// Texto que nenhuma regra reconhece retorna ErrUnclassifiable.
func Classify(pickText, homeTeam, awayTeam string) (Market, error) {
	c := pickCtx{
		text: Normalize(pickText),
		home: Normalize(homeTeam),
		away: Normalize(awayTeam),
	}
	return classifyCtx(c, Rules())
}

func classifyCtx(c pickCtx, rules []Rule) (Market, error) {
	if c.text == "" {
		return Market{}, ErrUnclassifiable
	}
	for _, r := range rules {
		if !r.Match(c) {
			continue
		}
		m, err := r.Build(c)
		if err != nil {
			return Market{}, fmt.Errorf("rule %s: %w", r.Name, err)
		}
		return m, nil
	}
	return Market{}, ErrUnclassifiable
}

// ---------------------------------------------------------------------------
// Detecção compartilhada

var halfTimeRe = regexp.MustCompile(`\b(1a parte|1er tiempo|1st half|first half|primera parte|primer tiempo|medio tiempo|half time|halftime|al descanso|descanso)\b`)

func isHalfTime(text string) bool {
	return halfTimeRe.MatchString(text) || containsToken(text, "ht")
}

// stripHalfTime remove os marcadores de primeira parte antes da extração
// numérica, para que o "1" de "1a parte" não vire linha.
func stripHalfTime(text string) string {
	return halfTimeRe.ReplaceAllString(text, " ")
}

var lineRe = regexp.MustCompile(`[-+]?\d+(?:[.,]\d+)?`)

// extractLine toma o primeiro token numérico do texto. Quem chama decide o
// fallback quando não há número.
func extractLine(text string) (float64, bool) {
	tok := lineRe.FindString(text)
	if tok == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func hasOverUnder(text string) bool {
	return strings.Contains(text, "mas de") || strings.Contains(text, "menos de") ||
		containsToken(text, "over") || containsToken(text, "under")
}

// detectOver decide over/under; na ausência de marcador explícito assume over,
// que é a leitura natural de "2.5 goles".
func detectOver(text string) bool {
	return !(strings.Contains(text, "menos de") || containsToken(text, "under"))
}

// detectSides lista os resultados referenciados no texto, na ordem de
// prioridade do classificador: nome literal da equipe, palavra explícita
// (local/visitante/empate), token de índice (1/2/x).
func detectSides(c pickCtx) []Side {
	var sides []Side
	add := func(s Side) {
		for _, x := range sides {
			if x == s {
				return
			}
		}
		sides = append(sides, s)
	}

	if c.home != "" && strings.Contains(c.text, c.home) {
		add(SideHome)
	}
	if c.away != "" && strings.Contains(c.text, c.away) {
		add(SideAway)
	}
	if strings.Contains(c.text, "local") || containsToken(c.text, "home") || containsToken(c.text, "casa") || containsToken(c.text, "1") {
		add(SideHome)
	}
	if strings.Contains(c.text, "visitante") || containsToken(c.text, "away") || containsToken(c.text, "fuera") || containsToken(c.text, "2") {
		add(SideAway)
	}
	if strings.Contains(c.text, "empate") || containsToken(c.text, "draw") || containsToken(c.text, "x") {
		add(SideDraw)
	}
	return sides
}

func hasCornerKeyword(text string) bool {
	return strings.Contains(text, "esquina") || strings.Contains(text, "corner")
}

func hasCardKeyword(text string) bool {
	return strings.Contains(text, "tarjeta") || containsToken(text, "cards") ||
		strings.Contains(text, "amonestacion") || strings.Contains(text, "amarilla")
}

func hasShotsKeyword(text string) bool {
	return strings.Contains(text, "tiros") || strings.Contains(text, "remates") ||
		strings.Contains(text, "disparos") || containsToken(text, "shots")
}

func hasGoalKeyword(text string) bool {
	return strings.Contains(text, "gol") || strings.Contains(text, "goal") ||
		strings.Contains(text, "punto") || strings.Contains(text, "point") ||
		strings.Contains(text, "anotacion")
}

func hasHandicapKeyword(text string) bool {
	return strings.Contains(text, "handicap") || containsToken(text, "hcp") || containsToken(text, "ah")
}
