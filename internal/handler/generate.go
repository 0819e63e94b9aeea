package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/darumasanaz/v4-shift-creation-tool/internal/archive"
	"github.com/darumasanaz/v4-shift-creation-tool/internal/metrics"
	"github.com/darumasanaz/v4-shift-creation-tool/pkg/apperr"
	"github.com/darumasanaz/v4-shift-creation-tool/pkg/logger"
	"github.com/darumasanaz/v4-shift-creation-tool/pkg/model"
	"github.com/darumasanaz/v4-shift-creation-tool/pkg/solver"
)

// ScheduleHandler シフト生成リクエストの処理器
type ScheduleHandler struct {
	opts  solver.Options
	store *archive.Store
}

// NewScheduleHandler 処理器を生成する。store は nil 可（アーカイブ無効）
func NewScheduleHandler(opts solver.Options, store *archive.Store) *ScheduleHandler {
	return &ScheduleHandler{opts: opts, store: store}
}

// GenerateResponse シフト生成の成功レスポンス
type GenerateResponse struct {
	Status     string                         `json:"status"`
	Shifts     map[string]map[string][]string `json:"shifts"`
	Shortages  []model.ShortageEntry          `json:"shortages"`
	ScheduleID string                         `json:"schedule_id,omitempty"`
}

// Generate はシフト生成リクエストを処理する
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, apperr.New(apperr.CodeInvalidInput, "POSTメソッドのみ対応しています"))
		return
	}

	var inst model.ProblemInstance
	if err := json.NewDecoder(r.Body).Decode(&inst); err != nil {
		respondError(w, apperr.Wrap(err, apperr.CodeInvalidInput, "リクエストの解析に失敗しました"))
		return
	}

	start := time.Now()
	schedule, err := solver.SolveWithOptions(&inst, h.opts)
	if err != nil {
		var appErr *apperr.AppError
		if !errors.As(err, &appErr) {
			appErr = apperr.Wrap(err, apperr.CodeInternal, "シフト生成に失敗しました")
		}
		metrics.RecordSolve(string(appErr.Code), time.Since(start), 0)
		respondError(w, appErr)
		return
	}

	shortageTotal := 0
	for _, s := range schedule.Shortages {
		shortageTotal += s.ShortageCount
	}
	metrics.RecordSolve("success", time.Since(start), shortageTotal)

	resp := GenerateResponse{
		Status:    "success",
		Shifts:    schedule.Shifts,
		Shortages: schedule.Shortages,
	}

	if h.store != nil {
		if id, err := h.archiveSchedule(r.Context(), &inst, schedule, resp); err != nil {
			// 保存失敗は応答を妨げない
			logger.WithError(err).Msg("シフト表のアーカイブに失敗")
		} else {
			resp.ScheduleID = id
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// archiveSchedule 求解結果をアーカイブに保存する
func (h *ScheduleHandler) archiveSchedule(ctx context.Context, inst *model.ProblemInstance, schedule *model.Schedule, resp GenerateResponse) (string, error) {
	body, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}

	shortageTotal := 0
	for _, s := range schedule.Shortages {
		shortageTotal += s.ShortageCount
	}

	id, err := h.store.Save(ctx, &archive.Record{
		Year:          inst.Year,
		Month:         inst.Month,
		Days:          inst.Days,
		PeopleCount:   len(inst.People),
		ShiftCount:    len(inst.Shifts),
		ShortageTotal: shortageTotal,
		Proven:        schedule.Proven,
		Response:      body,
	})
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
