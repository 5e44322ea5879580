package market

import "strings"

// accentFold cobre o vocabulário espanhol/português que aparece nos picks.
var accentFold = map[rune]rune{
	'á': 'a', 'à': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i',
	'ó': 'o', 'ò': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
	'ñ': 'n', 'ç': 'c',
	'ª': 'a', 'º': 'o',
}

// Normalize deixa o texto minúsculo, sem acentos e com espaços colapsados.
// Toda comparação do classificador acontece sobre texto normalizado.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if f, ok := accentFold[r]; ok {
			r = f
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Sanitize gera a assinatura usada como chave de quarentena:
// só alfanuméricos minúsculos, truncado. Tolerante a colisão por desenho,
// não é hash criptográfico.
func Sanitize(s string) string {
	const maxLen = 64
	s = Normalize(s)
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() >= maxLen {
			break
		}
	}
	return b.String()
}

// containsToken verifica presença de token exato (separadores não alfanuméricos).
// Evita que "x" case com "máxima" ou "1" com "1x2".
func containsToken(text, tok string) bool {
	for _, f := range tokenize(text) {
		if f == tok {
			return true
		}
	}
	return false
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '+' || r == '-')
	})
}
