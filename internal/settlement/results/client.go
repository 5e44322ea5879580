package results

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Client consulta a API externa de resultados e estatísticas de jogadores.
// A fonte é rate-limited e eventualmente consistente: "partida não terminou"
// é resposta normal, não erro.
type Client struct {
	log     *zap.Logger
	baseURL string
	apiKey  string
	httpc   *http.Client

	attempts int
	backoff  time.Duration
}

// NewClient monta o cliente com timeout limitado e retry fixo curto.
func NewClient(log *zap.Logger, baseURL, apiKey string) *Client {
	return &Client{
		log:      log,
		baseURL:  baseURL,
		apiKey:   apiKey,
		httpc:    &http.Client{Timeout: 10 * time.Second},
		attempts: 3,
		backoff:  300 * time.Millisecond,
	}
}

// resposta do endpoint de fixtures
type fixtureResp struct {
	Finished    bool `json:"finished"`
	HomeScore   int  `json:"home_score"`
	AwayScore   int  `json:"away_score"`
	HomeScoreHT *int `json:"home_score_ht"`
	AwayScoreHT *int `json:"away_score_ht"`
	Corners     *int `json:"corners"`
	Cards       *int `json:"cards"`
	TotalShots  *int `json:"total_shots"`
}

// FetchResult busca o placar final/parcial de uma partida. A quota entra por
// valor e volta atualizada com o que a API reportar nos headers; se a API não
// reportar, conta uma chamada localmente.
func (c *Client) FetchResult(ctx context.Context, sport, fixtureID string, q Quota) (Snapshot, Quota, error) {
	url := fmt.Sprintf("%s/fixtures/%s/%s", c.baseURL, sport, fixtureID)

	var fr fixtureResp
	q, err := c.getJSON(ctx, url, q, &fr)
	if err != nil {
		return Snapshot{}, q, err
	}

	snap := Snapshot{
		FixtureID:  fixtureID,
		Finished:   fr.Finished,
		HomeScore:  fr.HomeScore,
		AwayScore:  fr.AwayScore,
		Corners:    fr.Corners,
		Cards:      fr.Cards,
		TotalShots: fr.TotalShots,
	}
	if fr.HomeScoreHT != nil && fr.AwayScoreHT != nil {
		snap.HasHalfTime = true
		snap.HomeScoreHT = *fr.HomeScoreHT
		snap.AwayScoreHT = *fr.AwayScoreHT
	}
	return snap, q, nil
}

// FetchPlayerStats busca o relatório de jogadores de uma partida (futebol).
func (c *Client) FetchPlayerStats(ctx context.Context, fixtureID string, q Quota) ([]PlayerStats, Quota, error) {
	url := fmt.Sprintf("%s/fixtures/%s/players", c.baseURL, fixtureID)

	var players []PlayerStats
	q, err := c.getJSON(ctx, url, q, &players)
	if err != nil {
		return nil, q, err
	}
	return players, q, nil
}

// getJSON executa o GET com até c.attempts tentativas e backoff fixo.
// Esgotar as tentativas vira erro para o chamador degradar a PENDING;
// dentro da mesma passagem não há nova tentativa para a mesma partida.
func (c *Client) getJSON(ctx context.Context, url string, q Quota, out any) (Quota, error) {
	var lastErr error
	for i := 0; i < c.attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(c.backoff):
			case <-ctx.Done():
				return q, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return q, err
		}
		if c.apiKey != "" {
			req.Header.Set("X-Api-Key", c.apiKey)
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		q = updateQuota(q, resp)

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("results api http %s", resp.Status)
			if resp.StatusCode == http.StatusTooManyRequests {
				// quota estourada do lado do servidor; insistir não ajuda
				return q, lastErr
			}
			continue
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return q, fmt.Errorf("decode results response: %w", err)
		}
		return q, nil
	}
	return q, fmt.Errorf("results fetch failed after %d attempts: %w", c.attempts, lastErr)
}

// updateQuota prefere o saldo reportado pela API; sem headers, conta local.
func updateQuota(q Quota, resp *http.Response) Quota {
	limit := resp.Header.Get("X-RateLimit-Limit")
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if limit != "" && remaining != "" {
		l, errL := strconv.Atoi(limit)
		r, errR := strconv.Atoi(remaining)
		if errL == nil && errR == nil && l > 0 {
			return Quota{Limit: l, Used: l - r}
		}
	}
	return q.spend()
}
