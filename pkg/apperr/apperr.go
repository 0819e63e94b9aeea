// Package apperr はアプリケーション共通のエラー処理基盤を提供する
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code エラーコード
type Code string

const (
	// 汎用
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeTimeout      Code = "TIMEOUT"

	// シフト作成関連
	CodeNoAvailableStaff   Code = "NO_AVAILABLE_STAFF"
	CodeUnsolvableSchedule Code = "UNSOLVABLE_SCHEDULE"
	CodeValidationFail     Code = "VALIDATION_FAILED"

	// データ関連
	CodeDatabaseError Code = "DATABASE_ERROR"
)

// AppError アプリケーションエラー
type AppError struct {
	Code       Code                   `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
	Cause      error                  `json:"-"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

// Error は error インタフェースを実装する
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap は内部エラーを返す
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails 詳細情報を付加する
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithCause 原因となったエラーを付加する
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithField フィールド情報を付加する
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// New 新しいエラーを生成する
func New(code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 既存のエラーを包んで返す
func Wrap(err error, code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// codeToHTTPStatus エラーコードをHTTPステータスに対応付ける
func codeToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput, CodeValidationFail, CodeNoAvailableStaff:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeUnsolvableSchedule:
		// 既存クライアントとの互換のため 200 + status:"error" で返す
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// Is エラーが指定コードかどうかを判定する
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode エラーコードを取り出す
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetHTTPStatus HTTPステータスを取り出す
func GetHTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// 定義済みエラー
var (
	ErrNotFound   = New(CodeNotFound, "リソースが見つかりません")
	ErrInternal   = New(CodeInternal, "内部エラーが発生しました")
	ErrUnsolvable = New(CodeUnsolvableSchedule, "解決可能なシフトが見つかりませんでした。")
)

// InvalidInput 入力不正エラーを生成する
func InvalidInput(field, reason string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("項目 '%s' が不正です: %s", field, reason))
}

// NoAvailableStaff 割当可能スタッフ不在エラーを生成する
func NoAvailableStaff(day int, shiftCode string) *AppError {
	e := New(CodeNoAvailableStaff,
		fmt.Sprintf("%d日のシフト '%s' に割当可能なスタッフがいません", day, shiftCode))
	e.WithField("day", day)
	e.WithField("shift", shiftCode)
	return e
}

// Unsolvable 解なしエラーを生成する
func Unsolvable() *AppError {
	return New(CodeUnsolvableSchedule, "解決可能なシフトが見つかりませんでした。")
}
