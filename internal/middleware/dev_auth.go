// internal/middleware/dev_auth.go
package middleware

import (
	"net/http"
	"strconv"

	"course_hub/internal/model"
	"course_hub/internal/webutil"

	"github.com/google/uuid"
)

// DevUserContextMiddleware は auth.enabled=false のときに使う開発用ミドルウェアです。
// X-User-ID ヘッダーからUUIDを抽出し、コンテキストに設定します。
// X-User-Admin: true で管理者扱いになります。DBでの存在チェックは行いません。
func DevUserContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			logger.Warn("[DEV AUTH] Failed: X-User-ID header missing")
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "[DEV] X-User-ID ヘッダーが必要です。", "", model.ErrUnauthorized))
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			logger.Warn("[DEV AUTH] Failed: Invalid X-User-ID format", "value", userIDStr)
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "[DEV] X-User-ID の形式が正しくありません。", "", model.ErrUnauthorized))
			return
		}

		isAdmin, _ := strconv.ParseBool(r.Header.Get("X-User-Admin"))
		logger.Debug("[DEV AUTH] user set to context (no validation)", "user_id", userID.String(), "is_admin", isAdmin)

		ctx := WithUser(r.Context(), userID, isAdmin)
		ctx = WithLogger(ctx, logger.With("user_id", userID.String()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
