package webutil

import (
	"encoding/json"
	"fmt"
	"net/http"

	"course_hub/internal/model"
)

// DecodeJSONBody はリクエストボディをデコードし、バリデーションまで行います。
// 失敗した場合は ErrInvalidInput を包んだ AppError を返します。
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディが空です。", "", model.ErrInvalidInput)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return model.NewAppError(
			"INVALID_REQUEST_BODY",
			"リクエストボディの形式が正しくありません。",
			"",
			fmt.Errorf("%w: %v", model.ErrInvalidInput, err),
		)
	}

	return ValidateStruct(dst)
}
