package handler

import (
	"net/http"
	"os"

	"github.com/darumasanaz/v4-shift-creation-tool/pkg/apperr"
)

// InitialDataHandler 入力テンプレートを返す処理器
type InitialDataHandler struct {
	path string
}

// NewInitialDataHandler テンプレートファイルのパスを指定して処理器を生成する
func NewInitialDataHandler(path string) *InitialDataHandler {
	return &InitialDataHandler{path: path}
}

// Get は入力テンプレートのJSONをそのまま返す
func (h *InitialDataHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, apperr.New(apperr.CodeInvalidInput, "GETメソッドのみ対応しています"))
		return
	}

	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			respondError(w, apperr.New(apperr.CodeNotFound, "input_data.jsonが見つかりません。"))
			return
		}
		respondError(w, apperr.Wrap(err, apperr.CodeInternal, "テンプレートの読込に失敗しました"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
