package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/goltips/settlement-engine/internal/settlement/quarantine"
	"github.com/goltips/settlement-engine/internal/settlement/wager"
)

// OverrideStore guarda correções manuais de liquidação, chaveadas por data.
// É o mecanismo fora de banda para consertar dados históricos: o operador
// força o status de uma seleção e a passagem seguinte aplica, sem constantes
// de correção no código.
type OverrideStore struct {
	rdb *redis.Client
}

// NewOverrideStore retorna o store sobre o cliente Redis compartilhado.
func NewOverrideStore(rdb *redis.Client) *OverrideStore { return &OverrideStore{rdb: rdb} }

func overrideKey(date string) string {
	return fmt.Sprintf("overrides:%s", date)
}

// Get retorna o status forçado de uma seleção, se o operador registrou algum.
func (s *OverrideStore) Get(ctx context.Context, date, fixtureID, pickText string) (wager.Status, bool, error) {
	v, err := s.rdb.HGet(ctx, overrideKey(date), quarantine.FieldID(fixtureID, pickText)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load override %s: %w", date, err)
	}
	st := wager.Status(v)
	if !st.Terminal() {
		return "", false, fmt.Errorf("override %s/%s has non-terminal status %q", date, fixtureID, v)
	}
	return st, true, nil
}

// Set registra uma correção manual (usado pelo tooling de operador).
func (s *OverrideStore) Set(ctx context.Context, date, fixtureID, pickText string, st wager.Status) error {
	if !st.Terminal() {
		return fmt.Errorf("override must be terminal, got %q", st)
	}
	return s.rdb.HSet(ctx, overrideKey(date), quarantine.FieldID(fixtureID, pickText), string(st)).Err()
}
