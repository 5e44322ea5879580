package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/goltips/settlement-engine/internal/settlement/engine"
	"github.com/goltips/settlement-engine/internal/settlement/notify"
	"github.com/goltips/settlement-engine/internal/settlement/publish"
	"github.com/goltips/settlement-engine/internal/settlement/quarantine"
	"github.com/goltips/settlement-engine/internal/settlement/report"
	"github.com/goltips/settlement-engine/internal/settlement/results"
	"github.com/goltips/settlement-engine/internal/settlement/store"
	"github.com/goltips/settlement-engine/internal/settlement/wager"
	sharedcache "github.com/goltips/settlement-engine/internal/shared/cache"
	"github.com/goltips/settlement-engine/internal/shared/config"
	"github.com/goltips/settlement-engine/internal/shared/db"
	skafka "github.com/goltips/settlement-engine/internal/shared/kafka"
	"github.com/goltips/settlement-engine/internal/shared/logger"
	"github.com/goltips/settlement-engine/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Inicializa dependências: Redis (fonte de verdade), Postgres (auditoria)
	redisClient, err := sharedcache.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	pg, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	writer := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicWagerSettled)
	publisher := publish.New(writer)
	defer publisher.Close()

	// Métricas Prometheus da passagem de liquidação
	legsSettled := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settlement_legs_settled_total", Help: "seleções resolvidas por desfecho"}, []string{"outcome"})
	quarantined := prometheus.NewCounter(prometheus.CounterOpts{Name: "settlement_quarantined_total", Help: "seleções enviadas à quarentena"})
	apiCalls := prometheus.NewCounter(prometheus.CounterOpts{Name: "settlement_results_api_calls_total", Help: "chamadas à API de resultados"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settlement_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(legsSettled, quarantined, apiCalls, errorsBy)

	// Servidor HTTP para métricas e health check
	metrics.StartServer(cfg.MetricsPort, func(hctx context.Context) error {
		if err := redisClient.Ping(hctx).Err(); err != nil {
			return err
		}
		return pg.PingContext(hctx)
	})

	days := store.NewDayStore(redisClient)
	summaries := store.NewSummaryStore(redisClient)

	eng := &engine.Engine{
		Log:        log,
		Results:    results.NewClient(log, cfg.ResultsAPIURL, cfg.ResultsAPIKey),
		Days:       days,
		Quarantine: quarantine.NewLedger(redisClient),
		Overrides:  store.NewOverrideStore(redisClient),
		History:    store.NewHistory(pg),
		Publisher:  publisher,

		Buffer: cfg.SettleBuffer,
		Quota:  results.Quota{Limit: cfg.ResultsDailyQuota},
		Now:    time.Now,

		OnLegSettled:  func(outcome string) { legsSettled.WithLabelValues(outcome).Inc() },
		OnQuarantined: func() { quarantined.Inc() },
		OnFetch:       func() { apiCalls.Inc() },
		OnError:       func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	notifier := notify.New(log, cfg.TelegramToken, cfg.TelegramChatID)

	log.Info("settlement-worker started",
		zap.Duration("interval", cfg.SettleInterval),
		zap.Int("windowDays", cfg.SettleWindowDays),
		zap.Strings("categories", cfg.Categories),
	)

	ticker := time.NewTicker(cfg.SettleInterval)
	defer ticker.Stop()

	quotaDay := time.Now().Format("2006-01-02")
	for {
		// quota diária: zera quando o dia vira
		if today := time.Now().Format("2006-01-02"); today != quotaDay {
			quotaDay = today
			eng.Quota = results.Quota{Limit: cfg.ResultsDailyQuota}
		}

		runPass(ctx, log, eng, days, summaries, notifier, cfg)

		select {
		case <-ctx.Done():
			log.Info("settlement-worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// runPass executa uma passagem sobre a janela e recomputa os resumos dos
// meses tocados por ela.
func runPass(ctx context.Context, log *zap.Logger, eng *engine.Engine, days *store.DayStore, summaries *store.SummaryStore, notifier *notify.Notifier, cfg config.Config) {
	dates := windowDates(time.Now(), cfg.SettleWindowDays)
	stats := eng.RunPass(ctx, dates, cfg.Categories)

	var monthly []report.MonthlySummary
	for _, month := range monthsOf(dates) {
		summary, err := recomputeMonth(ctx, days, summaries, month, cfg.Categories)
		if err != nil {
			log.Error("monthly summary recompute", zap.String("month", month), zap.Error(err))
			continue
		}
		monthly = append(monthly, summary)
	}

	notifier.SendPassDigest(stats, monthly)
}

// recomputeMonth refaz o resumo do mês inteiro a partir dos dias persistidos.
// Recomputação integral: corrigir um dia antigo corrige o mês na passagem
// seguinte sem estado incremental.
func recomputeMonth(ctx context.Context, days *store.DayStore, summaries *store.SummaryStore, month string, categories []string) (report.MonthlySummary, error) {
	var all []wager.DayRecord
	for _, category := range categories {
		recs, err := days.LoadMonth(ctx, category, month)
		if err != nil {
			return report.MonthlySummary{}, err
		}
		all = append(all, recs...)
	}
	summary := report.Aggregate(month, all)
	if err := summaries.Save(ctx, summary); err != nil {
		return report.MonthlySummary{}, err
	}
	return summary, nil
}

// windowDates devolve hoje e os n-1 dias anteriores, em ordem decrescente.
func windowDates(now time.Time, n int) []string {
	if n < 1 {
		n = 1
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, now.AddDate(0, 0, -i).Format("2006-01-02"))
	}
	return out
}

// monthsOf lista os meses distintos cobertos pela janela, preservando ordem.
func monthsOf(dates []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range dates {
		if len(d) < 7 {
			continue
		}
		m := d[:7]
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
