package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"course_hub/internal/config"
	"course_hub/internal/model"
	"course_hub/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTAuthMiddleware は Authorization ヘッダーの Bearer トークンを検証するミドルウェア
// 資格情報が無い・不正な場合は 401 (未ログイン) を返します。
func JWTAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("JWT auth failed: Authorization header missing")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Authorizationヘッダーが必要です。", "", model.ErrUnauthorized))
				return
			}

			// "Bearer {token}" の形式を検証
			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				logger.Warn("JWT auth failed: Invalid Authorization header format")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Authorizationヘッダーの形式が正しくありません。", "", model.ErrUnauthorized))
				return
			}

			claims, err := ParseToken(headerParts[1], cfg.JWT.SecretKey)
			if err != nil {
				logger.Warn("JWT auth failed: Invalid token", "error", err)
				code, msg := "INVALID_TOKEN", "トークンが無効です。"
				if errors.Is(err, jwt.ErrTokenExpired) {
					code, msg = "TOKEN_EXPIRED", "トークンの有効期限が切れています。"
				}
				webutil.HandleError(w, logger, model.NewAppError(code, msg, "", model.ErrUnauthorized))
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				logger.Warn("JWT auth failed: Invalid subject (sub) format", "subject", claims.Subject, "error", err)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "トークンのユーザー情報が不正です。", "", model.ErrUnauthorized))
				return
			}

			ctx := WithUser(r.Context(), userID, claims.IsAdmin)
			ctx = context.WithValue(ctx, claimsCtxKey{}, claims)
			ctx = WithLogger(ctx, logger.With("user_id", userID.String()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParseToken は署名 (HMAC) と有効期限を検証してクレームを返します。
func ParseToken(tokenString, secret string) (*model.JWTCustomClaims, error) {
	claims := &model.JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// RequireAdmin は管理者以外を 403 で拒否します。認証ミドルウェアの後に置くこと。
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())
		if _, err := GetUserIDFromContext(r.Context()); err != nil {
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "ログインが必要です。", "", model.ErrUnauthorized))
			return
		}
		if !IsAdminFromContext(r.Context()) {
			logger.Warn("Admin access denied")
			webutil.HandleError(w, logger, model.NewAppError("FORBIDDEN", "この操作には管理者権限が必要です。", "", model.ErrForbidden))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type claimsCtxKey struct{}

// GetClaims は JWT 認証を通ったリクエストのクレームを返します。開発用認証では nil。
func GetClaims(ctx context.Context) *model.JWTCustomClaims {
	c, _ := ctx.Value(claimsCtxKey{}).(*model.JWTCustomClaims)
	return c
}

// WithUser は認証済みユーザーをコンテキストにセットします。
func WithUser(ctx context.Context, userID uuid.UUID, isAdmin bool) context.Context {
	ctx = context.WithValue(ctx, model.UserIDKey, userID)
	return context.WithValue(ctx, model.IsAdminKey, isAdmin)
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	value, ok := ctx.Value(model.UserIDKey).(uuid.UUID)
	if !ok {
		// 認証ミドルウェアを通っていない
		return uuid.Nil, model.NewAppError("UNAUTHORIZED", "コンテキストからユーザー情報を取得できませんでした。", "", model.ErrUnauthorized)
	}
	return value, nil
}

func IsAdminFromContext(ctx context.Context) bool {
	v, _ := ctx.Value(model.IsAdminKey).(bool)
	return v
}
