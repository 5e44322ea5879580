package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/goltips/settlement-engine/internal/settlement/wager"
)

// DayStore persiste os registros diários de apostas como documentos JSON no
// Redis, chaveados por (categoria, data). O orquestrador lê no início da
// passagem e grava uma única vez por par ao final.
type DayStore struct {
	rdb *redis.Client
}

// NewDayStore retorna o store sobre o cliente Redis compartilhado.
func NewDayStore(rdb *redis.Client) *DayStore { return &DayStore{rdb: rdb} }

func dayKey(category, date string) string {
	return fmt.Sprintf("days:%s:%s", category, date)
}

// Load retorna o registro do dia ou nil quando não existe (dia sem apostas).
func (s *DayStore) Load(ctx context.Context, category, date string) (*wager.DayRecord, error) {
	b, err := s.rdb.Get(ctx, dayKey(category, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load day %s/%s: %w", category, date, err)
	}
	var rec wager.DayRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("decode day %s/%s: %w", category, date, err)
	}
	return &rec, nil
}

// Save sobrescreve o documento inteiro do dia.
func (s *DayStore) Save(ctx context.Context, rec *wager.DayRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, dayKey(rec.Category, rec.Date), b, 0).Err()
}

// LoadMonth varre todos os dias de uma categoria em um mês (yyyy-mm), para a
// recomputação integral do resumo mensal.
func (s *DayStore) LoadMonth(ctx context.Context, category, yearMonth string) ([]wager.DayRecord, error) {
	pattern := dayKey(category, yearMonth) + "-*"

	var out []wager.DayRecord
	iter := s.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		b, err := s.rdb.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", iter.Val(), err)
		}
		var rec wager.DayRecord
		if err := json.Unmarshal(b, &rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", iter.Val(), err)
		}
		out = append(out, rec)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan month %s/%s: %w", category, yearMonth, err)
	}
	return out, nil
}
