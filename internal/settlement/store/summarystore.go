package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/goltips/settlement-engine/internal/settlement/report"
)

// SummaryStore persiste o resumo mensal como um único documento, sobrescrito
// por inteiro a cada recomputação.
type SummaryStore struct {
	rdb *redis.Client
}

// NewSummaryStore retorna o store sobre o cliente Redis compartilhado.
func NewSummaryStore(rdb *redis.Client) *SummaryStore { return &SummaryStore{rdb: rdb} }

func summaryKey(yearMonth string) string {
	return fmt.Sprintf("summary:%s", yearMonth)
}

// Save sobrescreve o resumo do mês.
func (s *SummaryStore) Save(ctx context.Context, summary report.MonthlySummary) error {
	b, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, summaryKey(summary.Month), b, 0).Err()
}

// Load retorna o resumo do mês ou nil quando nunca foi gerado.
func (s *SummaryStore) Load(ctx context.Context, yearMonth string) (*report.MonthlySummary, error) {
	b, err := s.rdb.Get(ctx, summaryKey(yearMonth)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load summary %s: %w", yearMonth, err)
	}
	var out report.MonthlySummary
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode summary %s: %w", yearMonth, err)
	}
	return &out, nil
}
