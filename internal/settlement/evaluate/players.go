package evaluate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goltips/settlement-engine/internal/settlement/market"
	"github.com/goltips/settlement-engine/internal/settlement/results"
	"github.com/goltips/settlement-engine/internal/settlement/wager"
)

// ErrPlayerNotFound indica que o nome implícito no pick não bate com nenhum
// jogador do relatório. Vira quarentena no orquestrador.
var ErrPlayerNotFound = errors.New("player not found in match report")

// Limiar de similaridade para aceitar o melhor candidato do fuzzy-match.
const playerMatchThreshold = 0.6

// Jogador com menos minutos que isso é anulado, independente da estatística.
const minPlayerMinutes = 45

// EvaluatePlayerProp liquida uma prop de jogador contra o relatório pós-jogo.
// A regra de minutos tem precedência sobre a comparação de linha.
func EvaluatePlayerProp(m market.Market, players []results.PlayerStats) (wager.Status, string, error) {
	p, ok := findPlayer(m.PlayerQuery, players)
	if !ok {
		return "", "", fmt.Errorf("%q: %w", m.PlayerQuery, ErrPlayerNotFound)
	}

	if p.MinutesPlayed < minPlayerMinutes {
		return wager.StatusVoid, fmt.Sprintf("%s not used / insufficient minutes (%dmin)", p.Name, p.MinutesPlayed), nil
	}

	value, err := statValue(p, m.Stat)
	if err != nil {
		return "", "", err
	}

	st := settleTotal(float64(value), m.Over, m.Line)
	summary := fmt.Sprintf("%s %s %d (line %.1f)", p.Name, m.Stat, value, m.Line)
	if st == wager.StatusVoid {
		summary += " (Push)"
	}
	return st, summary, nil
}

func statValue(p results.PlayerStats, stat market.Stat) (int, error) {
	switch stat {
	case market.StatShots:
		return p.Shots, nil
	case market.StatShotsOnTarget:
		return p.ShotsOnTarget, nil
	case market.StatAssists:
		return p.Assists, nil
	case market.StatPasses:
		return p.Passes, nil
	case market.StatTackles:
		return p.Tackles, nil
	}
	return 0, fmt.Errorf("stat %q is not a player stat", stat)
}

// findPlayer procura o jogador por substring normalizada e, na falta, pelo
// melhor candidato por distância de edição acima do limiar.
func findPlayer(query string, players []results.PlayerStats) (results.PlayerStats, bool) {
	query = market.Normalize(query)
	if query == "" {
		return results.PlayerStats{}, false
	}

	best := -1
	bestScore := 0.0
	for i, p := range players {
		name := market.Normalize(p.Name)
		if name == "" {
			continue
		}
		if strings.Contains(name, query) || strings.Contains(query, name) {
			return p, true
		}
		if s := similarity(name, query); s > bestScore {
			best, bestScore = i, s
		}
	}
	if best >= 0 && bestScore >= playerMatchThreshold {
		return players[best], true
	}
	return results.PlayerStats{}, false
}

// similarity = 1 - lev/maxlen, em [0,1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
