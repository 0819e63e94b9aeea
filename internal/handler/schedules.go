package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/darumasanaz/v4-shift-creation-tool/internal/archive"
	"github.com/darumasanaz/v4-shift-creation-tool/pkg/apperr"
)

// SchedulesHandler 保存済みシフト表の参照処理器
type SchedulesHandler struct {
	store *archive.Store
}

// NewSchedulesHandler 処理器を生成する。store は nil 可（アーカイブ無効）
func NewSchedulesHandler(store *archive.Store) *SchedulesHandler {
	return &SchedulesHandler{store: store}
}

// Get は /api/schedules/{id} で保存済みのシフト表を返す
func (h *SchedulesHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, apperr.New(apperr.CodeInvalidInput, "GETメソッドのみ対応しています"))
		return
	}
	if h.store == nil {
		respondError(w, apperr.New(apperr.CodeNotFound, "アーカイブ機能は無効です"))
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/api/schedules/")
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(w, apperr.InvalidInput("id", "UUID形式が必要です"))
		return
	}

	rec, err := h.store.Get(r.Context(), id)
	if err != nil {
		var appErr *apperr.AppError
		if !errors.As(err, &appErr) {
			appErr = apperr.Wrap(err, apperr.CodeInternal, "シフト表の取得に失敗しました")
		}
		respondError(w, appErr)
		return
	}

	respondJSON(w, http.StatusOK, rec)
}
