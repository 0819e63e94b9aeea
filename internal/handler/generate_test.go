package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darumasanaz/v4-shift-creation-tool/pkg/solver"
)

func newTestHandler() *ScheduleHandler {
	return NewScheduleHandler(solver.DefaultOptions(), nil)
}

func TestGenerateMethodNotAllowed(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/generate-shift", nil)
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateBadJSON(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/generate-shift",
		strings.NewReader(`{"days": `))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
}

func TestGenerateValidationFailure(t *testing.T) {
	h := newTestHandler()

	// スタッフ不在は検証エラーとして 400 を返す
	req := httptest.NewRequest(http.MethodPost, "/api/generate-shift",
		strings.NewReader(`{"days": 2, "shifts": [{"code": "A", "start": 9, "end": 17}], "people": []}`))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.NotEmpty(t, body["message"])
}

func TestGenerateUnsolvable(t *testing.T) {
	h := newTestHandler()

	// 毎日1人必要だが連続1日しか働けない1人きり → 解なし。
	// 既存クライアント互換のため 200 + status:"error" で返す
	payload := `{
		"days": 2,
		"shifts": [{"code": "A", "start": 9, "end": 17}],
		"people": [{"id": "p1", "canWork": ["A"], "consecMax": 1}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/generate-shift",
		strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "解決可能なシフトが見つかりませんでした。", body["message"])
}

func TestGenerateSuccess(t *testing.T) {
	h := newTestHandler()

	payload := `{
		"days": 2,
		"shifts": [{"code": "A", "start": 9, "end": 17}],
		"people": [
			{"id": "p1", "canWork": ["A"]},
			{"id": "p2", "canWork": ["A"]}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/generate-shift",
		strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Len(t, body.Shifts, 2)
	assert.Len(t, body.Shifts["1"]["A"], 1)
	assert.Empty(t, body.Shortages)
	assert.Empty(t, body.ScheduleID, "アーカイブ無効時はIDなし")
}
