package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goltips/settlement-engine/internal/settlement/evaluate"
	"github.com/goltips/settlement-engine/internal/settlement/market"
	"github.com/goltips/settlement-engine/internal/settlement/results"
	"github.com/goltips/settlement-engine/internal/settlement/wager"
	"github.com/goltips/settlement-engine/pkg/contracts/events"
)

// Interfaces estreitas para as dependências: os stores Redis/Postgres e o
// cliente HTTP implementam; testes injetam fakes e relógio fixo.

type ResultsSource interface {
	FetchResult(ctx context.Context, sport, fixtureID string, q results.Quota) (results.Snapshot, results.Quota, error)
	FetchPlayerStats(ctx context.Context, fixtureID string, q results.Quota) ([]results.PlayerStats, results.Quota, error)
}

type DayStore interface {
	Load(ctx context.Context, category, date string) (*wager.DayRecord, error)
	Save(ctx context.Context, rec *wager.DayRecord) error
}

type QuarantineLedger interface {
	IsQuarantined(ctx context.Context, category, yearMonth, fixtureID, pickText string) (bool, error)
	Add(ctx context.Context, category, yearMonth, fixtureID, pickText, reason string) error
}

type OverrideSource interface {
	Get(ctx context.Context, date, fixtureID, pickText string) (wager.Status, bool, error)
}

type HistoryWriter interface {
	RecordLeg(ctx context.Context, runID, date, category, wagerID string, leg wager.Leg, old wager.Status) error
	RecordWager(ctx context.Context, runID, date, category string, w wager.Wager, old wager.Status) error
}

type Publisher interface {
	PublishWagerSettled(ctx context.Context, ev events.WagerSettled) error
}

// Engine executa a passagem de liquidação: para cada (data, categoria) da
// janela, percorre as apostas abertas, resolve cada seleção contra a fonte de
// resultados e comita o registro do dia uma única vez. Concorrência: uma
// instância por deployment; duas passagens simultâneas fariam
// read-modify-write do mesmo documento.
type Engine struct {
	Log        *zap.Logger
	Results    ResultsSource
	Days       DayStore
	Quarantine QuarantineLedger
	Overrides  OverrideSource // opcional
	History    HistoryWriter  // opcional, auditoria
	Publisher  Publisher      // opcional

	// Buffer é o tempo mínimo após o kickoff antes de gastar quota com a
	// partida: antes disso não existe resultado final possível.
	Buffer time.Duration
	Quota  results.Quota
	Now    func() time.Time

	// Callbacks de métricas, no padrão do worker de odds.
	OnLegSettled  func(outcome string)
	OnQuarantined func()
	OnFetch       func()
	OnError       func(stage string)
}

// só o relatório de jogadores de futebol é coletado pela fonte de resultados
var errPropUnsupportedSport = errors.New("player prop outside football")

// PassStats resume uma passagem para log, métricas e digest.
type PassStats struct {
	RunID       string
	Won         int
	Lost        int
	Void        int
	Quarantined int
	PendingLegs int
	Fetches     int
	DaysSaved   int
	QuotaUsed   int
}

// caches de uma passagem: cada partida é buscada no máximo uma vez; fetch que
// falhou não é retentado até a próxima execução agendada.
type passCache struct {
	snapshots     map[string]results.Snapshot
	failed        map[string]bool
	players       map[string][]results.PlayerStats
	playersFailed map[string]bool
}

// RunPass processa a janela de datas para todas as categorias. Erros de
// seleção nunca abortam a passagem; só a indisponibilidade dos stores na
// inicialização (tratada no main) é fatal.
func (e *Engine) RunPass(ctx context.Context, dates, categories []string) PassStats {
	stats := PassStats{RunID: uuid.NewString()}
	cache := &passCache{
		snapshots:     map[string]results.Snapshot{},
		failed:        map[string]bool{},
		players:       map[string][]results.PlayerStats{},
		playersFailed: map[string]bool{},
	}

	log := e.Log.With(zap.String("runId", stats.RunID))
	log.Info("settlement pass started",
		zap.Strings("dates", dates),
		zap.Strings("categories", categories),
		zap.Int("quotaRemaining", e.Quota.Remaining()),
	)

	startUsed := e.Quota.Used
	for _, category := range categories {
		for _, date := range dates {
			if ctx.Err() != nil {
				log.Warn("pass interrupted", zap.Error(ctx.Err()))
				stats.QuotaUsed = e.Quota.Used - startUsed
				return stats
			}
			e.settleDay(ctx, log, date, category, cache, &stats)
		}
	}

	stats.QuotaUsed = e.Quota.Used - startUsed
	log.Info("settlement pass finished",
		zap.Int("won", stats.Won), zap.Int("lost", stats.Lost), zap.Int("void", stats.Void),
		zap.Int("quarantined", stats.Quarantined), zap.Int("pendingLegs", stats.PendingLegs),
		zap.Int("fetches", stats.Fetches), zap.Int("quotaUsed", stats.QuotaUsed),
	)
	return stats
}

// settleDay carrega, processa e comita um (data, categoria). As mutações
// acontecem em memória e o documento só é sobrescrito ao final do loop.
func (e *Engine) settleDay(ctx context.Context, log *zap.Logger, date, category string, cache *passCache, stats *PassStats) {
	rec, err := e.Days.Load(ctx, category, date)
	if err != nil {
		log.Error("load day record", zap.String("date", date), zap.String("category", category), zap.Error(err))
		e.errStage("load")
		return
	}
	if rec == nil || len(rec.Wagers) == 0 {
		return
	}

	changed := false
	for wi := range rec.Wagers {
		w := &rec.Wagers[wi]
		oldStatus := w.Status

		for li := range w.Legs {
			if e.settleLeg(ctx, log, stats.RunID, date, category, w, li, cache, stats) {
				changed = true
			}
			if w.Legs[li].Status == wager.StatusPending || w.Legs[li].Status == "" {
				stats.PendingLegs++
			}
		}

		w.RecomputeStatus()
		w.RecomputeProfit()

		if w.Status != oldStatus && w.Status.Terminal() {
			log.Info("wager settled",
				zap.String("wagerId", w.ID), zap.String("status", string(w.Status)),
				zap.Int64("profitCents", w.ProfitCents),
			)
			if e.History != nil {
				if herr := e.History.RecordWager(ctx, stats.RunID, date, category, *w, oldStatus); herr != nil {
					log.Warn("history wager insert", zap.Error(herr))
				}
			}
			if e.Publisher != nil {
				ev := events.WagerSettled{
					WagerID:     w.ID,
					Category:    category,
					Date:        date,
					Status:      string(w.Status),
					StakeCents:  w.StakeCents,
					ProfitCents: w.ProfitCents,
					TotalOdd:    w.TotalOdd,
					RunID:       stats.RunID,
					Ts:          e.Now(),
				}
				if perr := e.Publisher.PublishWagerSettled(ctx, ev); perr != nil {
					log.Warn("publish wager_settled", zap.Error(perr))
					e.errStage("publish")
				}
			}
		}
	}

	if !changed {
		return
	}
	rec.RecomputeDayProfit()
	if err := e.Days.Save(ctx, rec); err != nil {
		log.Error("commit day record", zap.String("date", date), zap.String("category", category), zap.Error(err))
		e.errStage("commit")
		return
	}
	stats.DaysSaved++
}

// settleLeg aplica a máquina de estados de uma seleção, na ordem:
// terminal, override manual, quarentena, gate de tempo, fetch, classificação,
// avaliação. Retorna true quando mudou o status da seleção.
func (e *Engine) settleLeg(ctx context.Context, log *zap.Logger, runID, date, category string, w *wager.Wager, li int, cache *passCache, stats *PassStats) bool {
	leg := &w.Legs[li]
	if leg.Status.Terminal() {
		return false
	}

	// correção manual registrada pelo operador vence qualquer avaliação
	if e.Overrides != nil {
		if st, ok, err := e.Overrides.Get(ctx, date, leg.FixtureID, leg.PickText); err != nil {
			log.Warn("override lookup", zap.Error(err))
			e.errStage("override")
		} else if ok {
			old := leg.Status
			leg.Status = st
			leg.ResultSummary = "manual override"
			e.recordLeg(ctx, log, runID, date, category, w.ID, *leg, old)
			e.legSettled(st, stats)
			return true
		}
	}

	yearMonth := monthOf(date)
	quarantined, err := e.Quarantine.IsQuarantined(ctx, category, yearMonth, leg.FixtureID, leg.PickText)
	if err != nil {
		log.Warn("quarantine lookup", zap.Error(err))
		e.errStage("quarantine")
		return false
	}
	if quarantined {
		return false
	}

	// antes do buffer pós-kickoff não há resultado final possível; não gastar quota
	if e.Now().Before(leg.KickoffTime.Add(e.Buffer)) {
		return false
	}

	snap, ok := e.fetchSnapshot(ctx, log, leg, cache, stats)
	if !ok || !snap.Finished {
		return false
	}

	m, err := market.Classify(leg.PickText, leg.HomeTeam, leg.AwayTeam)
	if err != nil {
		e.quarantineLeg(ctx, log, category, yearMonth, leg, "classify: "+err.Error(), stats)
		return false
	}
	if m.LineDefaulted {
		log.Warn("line fallback applied",
			zap.String("pick", leg.PickText), zap.String("fixtureId", leg.FixtureID))
	}

	var (
		st      wager.Status
		summary string
	)
	if m.Kind == market.KindPlayerProp {
		st, summary, err = e.settlePlayerProp(ctx, log, m, leg, cache, stats)
	} else {
		st, summary, err = evaluate.Evaluate(m, snap)
	}
	switch {
	case err != nil:
		e.quarantineLeg(ctx, log, category, yearMonth, leg, "evaluate: "+err.Error(), stats)
		return false
	case st == wager.StatusPending || st == "":
		// transitório (parcial ausente, stat não publicada): tenta na próxima passagem
		return false
	}

	old := leg.Status
	leg.Status = st
	leg.ResultSummary = summary
	e.recordLeg(ctx, log, runID, date, category, w.ID, *leg, old)
	e.legSettled(st, stats)
	return true
}

// fetchSnapshot busca a partida no máximo uma vez por passagem; falha marca a
// partida e não há novo retry até a próxima execução.
func (e *Engine) fetchSnapshot(ctx context.Context, log *zap.Logger, leg *wager.Leg, cache *passCache, stats *PassStats) (results.Snapshot, bool) {
	if snap, ok := cache.snapshots[leg.FixtureID]; ok {
		return snap, true
	}
	if cache.failed[leg.FixtureID] {
		return results.Snapshot{}, false
	}
	if e.Quota.Exhausted() {
		log.Warn("results quota exhausted, leg stays pending", zap.String("fixtureId", leg.FixtureID))
		return results.Snapshot{}, false
	}

	stats.Fetches++
	if e.OnFetch != nil {
		e.OnFetch()
	}
	snap, q, err := e.Results.FetchResult(ctx, leg.Sport, leg.FixtureID, e.Quota)
	e.Quota = q
	if err != nil {
		log.Warn("results fetch failed", zap.String("fixtureId", leg.FixtureID), zap.Error(err))
		e.errStage("fetch")
		cache.failed[leg.FixtureID] = true
		return results.Snapshot{}, false
	}
	cache.snapshots[leg.FixtureID] = snap
	return snap, true
}

// settlePlayerProp resolve uma prop buscando o relatório de jogadores.
// Só futebol tem relatório; prop em outro esporte não tem como liquidar.
func (e *Engine) settlePlayerProp(ctx context.Context, log *zap.Logger, m market.Market, leg *wager.Leg, cache *passCache, stats *PassStats) (wager.Status, string, error) {
	if leg.Sport != "football" {
		return "", "", errPropUnsupportedSport
	}

	players, ok := cache.players[leg.FixtureID]
	if !ok {
		if cache.playersFailed[leg.FixtureID] {
			return wager.StatusPending, "", nil
		}
		if e.Quota.Exhausted() {
			return wager.StatusPending, "", nil
		}
		stats.Fetches++
		if e.OnFetch != nil {
			e.OnFetch()
		}
		var (
			q   results.Quota
			err error
		)
		players, q, err = e.Results.FetchPlayerStats(ctx, leg.FixtureID, e.Quota)
		e.Quota = q
		if err != nil {
			// transitório: relatório pode ainda não ter sido publicado
			log.Warn("player stats fetch failed", zap.String("fixtureId", leg.FixtureID), zap.Error(err))
			e.errStage("players")
			cache.playersFailed[leg.FixtureID] = true
			return wager.StatusPending, "", nil
		}
		cache.players[leg.FixtureID] = players
	}

	return evaluate.EvaluatePlayerProp(m, players)
}

func (e *Engine) quarantineLeg(ctx context.Context, log *zap.Logger, category, yearMonth string, leg *wager.Leg, reason string, stats *PassStats) {
	log.Warn("leg quarantined",
		zap.String("fixtureId", leg.FixtureID),
		zap.String("pick", leg.PickText),
		zap.String("reason", reason),
	)
	if err := e.Quarantine.Add(ctx, category, yearMonth, leg.FixtureID, leg.PickText, reason); err != nil {
		log.Error("quarantine insert", zap.Error(err))
		e.errStage("quarantine")
		return
	}
	stats.Quarantined++
	if e.OnQuarantined != nil {
		e.OnQuarantined()
	}
}

func (e *Engine) recordLeg(ctx context.Context, log *zap.Logger, runID, date, category, wagerID string, leg wager.Leg, old wager.Status) {
	if e.History == nil {
		return
	}
	if err := e.History.RecordLeg(ctx, runID, date, category, wagerID, leg, old); err != nil {
		log.Warn("history leg insert", zap.Error(err))
	}
}

func (e *Engine) legSettled(st wager.Status, stats *PassStats) {
	switch st {
	case wager.StatusWon:
		stats.Won++
	case wager.StatusLost:
		stats.Lost++
	case wager.StatusVoid:
		stats.Void++
	}
	if e.OnLegSettled != nil {
		e.OnLegSettled(string(st))
	}
}

func (e *Engine) errStage(stage string) {
	if e.OnError != nil {
		e.OnError(stage)
	}
}

// monthOf extrai o período yyyy-mm de uma data yyyy-mm-dd.
func monthOf(date string) string {
	if len(date) >= 7 {
		return date[:7]
	}
	return date
}
