package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCounterAndGauge(t *testing.T) {
	reg := GetRegistry()

	c := reg.GetCounter("shift_solve_total")
	if c == nil {
		t.Fatal("shift_solve_total が未登録")
	}
	c.Inc("success")
	c.Inc("success")
	c.Inc("UNSOLVABLE_SCHEDULE")

	g := reg.GetGauge("shift_last_shortage_total")
	if g == nil {
		t.Fatal("shift_last_shortage_total が未登録")
	}
	g.Set(3)

	body := scrape(t)
	if !strings.Contains(body, "shift_solve_total") {
		t.Error("カウンタが出力されていない")
	}
	if !strings.Contains(body, `status="success"`) {
		t.Error("ラベルが出力されていない")
	}
	if !strings.Contains(body, "shift_last_shortage_total 3.0") {
		t.Error("ゲージ値が出力されていない")
	}
}

func TestHistogramObserve(t *testing.T) {
	RecordSolve("success", 700*time.Millisecond, 0)

	body := scrape(t)
	if !strings.Contains(body, "shift_solve_duration_seconds_bucket") {
		t.Error("ヒストグラムのバケットが出力されていない")
	}
	if !strings.Contains(body, "shift_solve_duration_seconds_count") {
		t.Error("ヒストグラムの件数が出力されていない")
	}
}

func TestRecordRequest(t *testing.T) {
	RecordRequest(http.MethodPost, "/api/generate-shift", 200, 5*time.Millisecond)

	body := scrape(t)
	if !strings.Contains(body, "shift_http_requests_total") {
		t.Error("リクエストカウンタが出力されていない")
	}
	if !strings.Contains(body, `path="/api/generate-shift"`) {
		t.Error("パスラベルが出力されていない")
	}
}

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	Handler().ServeHTTP(rec, req)
	return rec.Body.String()
}
