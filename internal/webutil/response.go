// internal/webutil/response.go
package webutil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"course_hub/internal/model"

	"github.com/go-playground/validator/v10"
)

// HandleError はエラーを解釈し、適切なJSONエラーレスポンスを返します。
func HandleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	statusCode := MapErrorToStatusCode(err)

	var errResp model.APIErrorResponse
	var appErr *model.AppError

	if errors.As(err, &appErr) {
		errResp = model.APIErrorResponse{Error: appErr.Detail}
		if statusCode >= http.StatusInternalServerError {
			logger.Error("Application error", "error", err, "code", appErr.Detail.Code)
		}
	} else {
		switch statusCode {
		case http.StatusInternalServerError:
			// 詳細はログにだけ出す
			logger.Error("Unhandled error", "error", err)
			errResp = model.APIErrorResponse{Error: model.ErrorDetail{
				Code:    "INTERNAL_SERVER_ERROR",
				Message: "サーバー内部でエラーが発生しました。",
			}}
		default:
			errResp = model.APIErrorResponse{Error: defaultDetail(statusCode)}
		}
	}

	RespondWithJSON(w, statusCode, errResp, logger)
}

// defaultDetail は AppError でない既知のエラー用の汎用メッセージ
func defaultDetail(status int) model.ErrorDetail {
	switch status {
	case http.StatusNotFound:
		return model.ErrorDetail{Code: "NOT_FOUND", Message: "リソースが見つかりません。"}
	case http.StatusBadRequest:
		return model.ErrorDetail{Code: "INVALID_INPUT", Message: "入力内容が正しくありません。"}
	case http.StatusConflict:
		return model.ErrorDetail{Code: "CONFLICT", Message: "既に存在します。"}
	case http.StatusUnauthorized:
		return model.ErrorDetail{Code: "UNAUTHORIZED", Message: "ログインが必要です。"}
	case http.StatusForbidden:
		return model.ErrorDetail{Code: "FORBIDDEN", Message: "この操作を行う権限がありません。"}
	default:
		return model.ErrorDetail{Code: "INTERNAL_SERVER_ERROR", Message: "サーバー内部でエラーが発生しました。"}
	}
}

// MapErrorToStatusCode はアプリケーションエラーをHTTPステータスコードにマッピングします
func MapErrorToStatusCode(err error) int {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		err = appErr.Unwrap()
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized // 未ログイン
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden // ログイン済みだが権限なし
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithJSON はJSONレスポンスを返します
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("Error marshaling JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"INTERNAL_SERVER_ERROR","message":"レスポンス生成中にエラーが発生しました。"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// NewValidationErrorResponse はバリデーションエラーを日本語メッセージの AppError にまとめます。
func NewValidationErrorResponse(errs validator.ValidationErrors) *model.AppError {
	var fields []string
	var messages []string

	for _, fe := range errs {
		fields = append(fields, fe.Field())
		messages = append(messages, fe.Translate(Trans))
	}

	return model.NewAppError(
		"VALIDATION_ERROR",
		strings.Join(messages, " "),
		strings.Join(fields, ","),
		model.ErrInvalidInput,
	)
}
