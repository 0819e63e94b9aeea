// Package handler はHTTPリクエストの処理を提供する
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/darumasanaz/v4-shift-creation-tool/pkg/apperr"
)

// respondJSON JSONレスポンスを返す
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError エラーレスポンスを返す。ステータスはエラーコードから決まる
func respondError(w http.ResponseWriter, err *apperr.AppError) {
	respondJSON(w, err.HTTPStatus, map[string]interface{}{
		"status":  "error",
		"message": err.Message,
	})
}
