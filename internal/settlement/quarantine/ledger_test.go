package quarantine

import (
	"strings"
	"testing"
)

func TestKey(t *testing.T) {
	if got := Key("safe", "2026-08"); got != "quarantine:safe:2026-08" {
		t.Errorf("Key = %q", got)
	}
}

func TestFieldID(t *testing.T) {
	a := FieldID("998877", "Más de 2.5 Goles")
	b := FieldID("998877", "MAS de 2,5 goles!!")
	// assinatura tolera variação de caixa/acentos/pontuação
	if !strings.HasPrefix(a, "998877") {
		t.Errorf("field id should start with the fixture id: %q", a)
	}
	if a[:len("998877masde2")] != b[:len("998877masde2")] {
		t.Errorf("signatures should share the sanitized prefix: %q vs %q", a, b)
	}

	long := FieldID("1", strings.Repeat("gol ", 100))
	if len(long) > 1+64 {
		t.Errorf("signature not truncated: %d chars", len(long))
	}
}
