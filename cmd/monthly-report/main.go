package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/goltips/settlement-engine/internal/settlement/report"
	"github.com/goltips/settlement-engine/internal/settlement/store"
	"github.com/goltips/settlement-engine/internal/settlement/wager"
	sharedcache "github.com/goltips/settlement-engine/internal/shared/cache"
	"github.com/goltips/settlement-engine/internal/shared/config"
	"github.com/goltips/settlement-engine/internal/shared/logger"
)

// monthly-report recomputa o resumo de um mês sob demanda (operador ou cron
// de fechamento). O worker já recomputa os meses da janela corrente; este
// binário cobre correções em meses antigos.
func main() {
	month := flag.String("month", time.Now().Format("2006-01"), "mês a recomputar (yyyy-mm)")
	flag.Parse()

	cfg := config.Load()
	log, err := logger.New("monthly-report", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	redisClient, err := sharedcache.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	days := store.NewDayStore(redisClient)
	summaries := store.NewSummaryStore(redisClient)

	var all []wager.DayRecord
	for _, category := range cfg.Categories {
		recs, err := days.LoadMonth(ctx, category, *month)
		if err != nil {
			log.Fatal("load month", zap.String("category", category), zap.Error(err))
		}
		all = append(all, recs...)
	}

	summary := report.Aggregate(*month, all)
	if err := summaries.Save(ctx, summary); err != nil {
		log.Fatal("save summary", zap.Error(err))
	}

	log.Info("monthly summary recomputed",
		zap.String("month", *month),
		zap.Int("days", len(all)),
		zap.Int64("profitCents", summary.TotalProfitCents),
		zap.Float64("yieldPercent", summary.YieldPercent),
		zap.Int64("maxDrawdownCents", summary.MaxDrawdownCents),
	)
}
