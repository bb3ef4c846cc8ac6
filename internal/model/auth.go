package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest はログインAPIのリクエストボディ
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse はログイン・リフレッシュ成功時のレスポンス
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	Email       string    `json:"email"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// JWTCustomClaims はJWTに含めるカスタムクレーム
type JWTCustomClaims struct {
	Email        string           `json:"email"`
	IsAdmin      bool             `json:"adm,omitempty"`
	SessionStart *jwt.NumericDate `json:"sst,omitempty"` // ログイン時刻。リフレッシュしても引き継ぐ
	jwt.RegisteredClaims
}
