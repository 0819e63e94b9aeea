package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeValidationFail, http.StatusBadRequest},
		{CodeNoAvailableStaff, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeTimeout, http.StatusGatewayTimeout},
		{CodeUnsolvableSchedule, http.StatusOK},
		{CodeInternal, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := New(tt.code, "x").HTTPStatus; got != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("接続拒否")
	err := Wrap(cause, CodeInternal, "DBエラー")

	if !errors.Is(err, cause) {
		t.Error("errors.Is で原因に辿れない")
	}
	if got := GetCode(err); got != CodeInternal {
		t.Errorf("GetCode = %s", got)
	}
	if !Is(err, CodeInternal) || Is(err, CodeNotFound) {
		t.Error("Is の判定が不正")
	}
}

func TestGetCodeOnPlainError(t *testing.T) {
	err := fmt.Errorf("ただのエラー")
	if got := GetCode(err); got != CodeUnknown {
		t.Errorf("GetCode = %s, want UNKNOWN", got)
	}
	if got := GetHTTPStatus(err); got != http.StatusInternalServerError {
		t.Errorf("GetHTTPStatus = %d", got)
	}
}

func TestNoAvailableStaff(t *testing.T) {
	err := NoAvailableStaff(5, "夜")

	if err.Code != CodeNoAvailableStaff {
		t.Errorf("code = %s", err.Code)
	}
	if err.Fields["day"] != 5 || err.Fields["shift"] != "夜" {
		t.Errorf("fields = %v", err.Fields)
	}
}

func TestUnsolvableMessage(t *testing.T) {
	err := Unsolvable()
	if err.Message != "解決可能なシフトが見つかりませんでした。" {
		t.Errorf("message = %q", err.Message)
	}
	if err.HTTPStatus != http.StatusOK {
		t.Errorf("status = %d", err.HTTPStatus)
	}
}
