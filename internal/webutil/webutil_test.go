package webutil

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"course_hub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"NotFound", model.ErrNotFound, http.StatusNotFound},
		{"ラップされた NotFound", fmt.Errorf("repo: %w", model.ErrNotFound), http.StatusNotFound},
		{"InvalidInput", model.ErrInvalidInput, http.StatusBadRequest},
		{"Conflict", model.ErrConflict, http.StatusConflict},
		{"Unauthorized は 401", model.ErrUnauthorized, http.StatusUnauthorized},
		{"Forbidden は 403", model.ErrForbidden, http.StatusForbidden},
		{"AppError の中身で判定", model.NewAppError("X", "x", "", model.ErrForbidden), http.StatusForbidden},
		{"未知のエラー", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestHandleError(t *testing.T) {
	t.Run("正常系: AppError の詳細をそのまま返す", func(t *testing.T) {
		rr := httptest.NewRecorder()
		HandleError(rr, discard, model.NewAppError("UNIT_NOT_FOUND", "ユニットが見つかりません。", "unit_number", model.ErrNotFound))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":{"code":"UNIT_NOT_FOUND","message":"ユニットが見つかりません。","field":"unit_number"}}`, rr.Body.String())
	})

	t.Run("異常系: 想定外のエラーは内容を隠す", func(t *testing.T) {
		rr := httptest.NewRecorder()
		HandleError(rr, discard, errors.New("db password leaked"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "leaked")
		assert.Contains(t, rr.Body.String(), "INTERNAL_SERVER_ERROR")
	})

	t.Run("正常系: 素の ErrUnauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		HandleError(rr, nil, model.ErrUnauthorized)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "UNAUTHORIZED")
	})
}

func TestDecodeJSONBody(t *testing.T) {
	t.Run("異常系: 未知のフィールド", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@example.com","password":"x","extra":1}`))
		var dst model.LoginRequest
		err := DecodeJSONBody(req, &dst)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("異常系: バリデーションエラーは日本語メッセージ", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"not-an-email","password":""}`))
		var dst model.LoginRequest
		err := DecodeJSONBody(req, &dst)
		require.Error(t, err)

		var appErr *model.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Detail.Code)
		assert.Contains(t, appErr.Detail.Message, "メールアドレスは有効なメールアドレス形式ではありません。")
		assert.Contains(t, appErr.Detail.Message, "パスワードは必須項目です。")
		assert.Equal(t, "email,password", appErr.Detail.Field)
	})

	t.Run("異常系: 評価の範囲外は値として説明する", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"is_completed":true,"rating":9}`))
		var dst model.SaveCompletionRequest
		err := DecodeJSONBody(req, &dst)

		var appErr *model.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "評価は5以下で入力してください。", appErr.Detail.Message)
	})

	t.Run("正常系", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"is_completed":false}`))
		var dst model.SaveCompletionRequest
		require.NoError(t, DecodeJSONBody(req, &dst))
		require.NotNil(t, dst.IsCompleted)
		assert.False(t, *dst.IsCompleted)
	})
}
