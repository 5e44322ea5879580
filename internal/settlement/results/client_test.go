package results

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(srv *httptest.Server) *Client {
	c := NewClient(zap.NewNop(), srv.URL, "test-key")
	c.backoff = time.Millisecond
	return c
}

func TestFetchResultParsesSnapshotAndQuotaHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fixtures/football/123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Errorf("api key header missing")
		}
		w.Header().Set("X-RateLimit-Limit", "100")
		w.Header().Set("X-RateLimit-Remaining", "73")
		w.Write([]byte(`{"finished":true,"home_score":3,"away_score":1,"home_score_ht":1,"away_score_ht":0,"corners":9,"cards":null}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	snap, q, err := c.FetchResult(context.Background(), "football", "123", Quota{Limit: 100})
	if err != nil {
		t.Fatalf("FetchResult: %v", err)
	}
	if !snap.Finished || snap.HomeScore != 3 || snap.AwayScore != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
	if !snap.HasHalfTime || snap.HomeScoreHT != 1 || snap.AwayScoreHT != 0 {
		t.Errorf("half-time = %+v", snap)
	}
	if snap.Corners == nil || *snap.Corners != 9 {
		t.Errorf("corners = %v", snap.Corners)
	}
	if snap.Cards != nil {
		t.Errorf("cards should stay nil when the source sends null")
	}
	if q.Limit != 100 || q.Used != 27 || q.Remaining() != 73 {
		t.Errorf("quota = %+v", q)
	}
}

func TestFetchResultNotFinishedIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"finished":false,"home_score":1,"away_score":0}`))
	}))
	defer srv.Close()

	snap, _, err := newTestClient(srv).FetchResult(context.Background(), "football", "9", Quota{Limit: 10})
	if err != nil {
		t.Fatalf("FetchResult: %v", err)
	}
	if snap.Finished {
		t.Error("snapshot should report not finished")
	}
	if snap.HasHalfTime {
		t.Error("half-time score should be absent")
	}
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"finished":true,"home_score":2,"away_score":2}`))
	}))
	defer srv.Close()

	snap, q, err := newTestClient(srv).FetchResult(context.Background(), "football", "7", Quota{Limit: 50})
	if err != nil {
		t.Fatalf("FetchResult: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !snap.Finished {
		t.Error("snapshot should be finished")
	}
	// sem headers de quota, cada tentativa real conta
	if q.Used != 3 {
		t.Errorf("quota used = %d, want 3", q.Used)
	}
}

func TestFetchGivesUpAfterAttempts(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, _, err := newTestClient(srv).FetchResult(context.Background(), "football", "7", Quota{Limit: 50})
	if err == nil {
		t.Fatal("want error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestFetchStopsOnRateLimit(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, _, err := newTestClient(srv).FetchResult(context.Background(), "football", "7", Quota{Limit: 50})
	if err == nil {
		t.Fatal("want error on 429")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (429 must not be retried)", calls)
	}
}

func TestFetchPlayerStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fixtures/55/players" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`[{"name":"Kylian Mbappe","minutes_played":90,"shots":5,"shots_on_target":3}]`))
	}))
	defer srv.Close()

	players, _, err := newTestClient(srv).FetchPlayerStats(context.Background(), "55", Quota{Limit: 10})
	if err != nil {
		t.Fatalf("FetchPlayerStats: %v", err)
	}
	if len(players) != 1 || players[0].Name != "Kylian Mbappe" || players[0].ShotsOnTarget != 3 {
		t.Errorf("players = %+v", players)
	}
}

func TestQuota(t *testing.T) {
	q := Quota{Limit: 2}
	if q.Exhausted() || q.Remaining() != 2 {
		t.Errorf("fresh quota: %+v", q)
	}
	q = q.spend()
	q = q.spend()
	if !q.Exhausted() || q.Remaining() != 0 {
		t.Errorf("spent quota: %+v", q)
	}
}
