package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"course_hub/internal/config"
	"course_hub/internal/model"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{SecretKey: testSecret}}
}

func signToken(t *testing.T, sub string, admin bool, exp time.Time, method jwt.SigningMethod, key interface{}) string {
	t.Helper()
	claims := model.JWTCustomClaims{
		Email:   "user@example.com",
		IsAdmin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

// echoUser はコンテキストのユーザー情報を返すだけのハンドラ
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, err := GetUserIDFromContext(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	if IsAdminFromContext(r.Context()) {
		w.Header().Set("X-Admin", "true")
	}
	w.Write([]byte(id.String()))
})

func TestJWTAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	h := JWTAuthMiddleware(testConfig())(echoUser)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"異常系: ヘッダーなし", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"異常系: Bearer でない", "Basic abc", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"異常系: 署名が違う", "Bearer " + signToken(t, userID.String(), false, time.Now().Add(time.Hour), jwt.SigningMethodHS256, []byte("other")), http.StatusUnauthorized, "INVALID_TOKEN"},
		{"異常系: 期限切れ", "Bearer " + signToken(t, userID.String(), false, time.Now().Add(-time.Minute), jwt.SigningMethodHS256, []byte(testSecret)), http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"異常系: subject が UUID でない", "Bearer " + signToken(t, "nobody", false, time.Now().Add(time.Hour), jwt.SigningMethodHS256, []byte(testSecret)), http.StatusUnauthorized, "INVALID_TOKEN"},
		{"正常系", "Bearer " + signToken(t, userID.String(), false, time.Now().Add(time.Hour), jwt.SigningMethodHS256, []byte(testSecret)), http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				assert.Contains(t, rr.Body.String(), `"code":"`+tt.wantCode+`"`)
			} else {
				assert.Equal(t, userID.String(), rr.Body.String())
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	h := JWTAuthMiddleware(testConfig())(RequireAdmin(echoUser))

	t.Run("異常系: 一般ユーザーは 403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, uuid.NewString(), false, time.Now().Add(time.Hour), jwt.SigningMethodHS256, []byte(testSecret)))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("異常系: 未ログインは 401", func(t *testing.T) {
		rr := httptest.NewRecorder()
		RequireAdmin(echoUser).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("正常系: 管理者", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, uuid.NewString(), true, time.Now().Add(time.Hour), jwt.SigningMethodHS256, []byte(testSecret)))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "true", rr.Header().Get("X-Admin"))
	})
}

func TestDevUserContextMiddleware(t *testing.T) {
	t.Run("正常系: X-User-ID と X-User-Admin", func(t *testing.T) {
		id := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User-ID", id.String())
		req.Header.Set("X-User-Admin", "true")
		rr := httptest.NewRecorder()
		DevUserContextMiddleware(echoUser).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, id.String(), rr.Body.String())
		assert.Equal(t, "true", rr.Header().Get("X-Admin"))
	})

	t.Run("異常系: 形式不正", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User-ID", "abc")
		rr := httptest.NewRecorder()
		DevUserContextMiddleware(echoUser).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var fromCtx *slog.Logger
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = GetLogger(r.Context())
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"access_token":"secret-token","ok":false}`))
	})
	h := chimw.RequestID(LoggingMiddleware(logger)(inner))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@example.com","password":"hunter2"}`))
	req.Header.Set("Authorization", "Bearer abc")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.NotNil(t, fromCtx)
	assert.NotSame(t, slog.Default(), fromCtx)

	out := buf.String()
	assert.Contains(t, out, `"msg":"Request completed"`)
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"req_id"`)
	assert.Contains(t, out, "[SENSITIVE]")
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "secret-token")
	assert.NotContains(t, out, "Bearer abc")
	assert.Equal(t, `{"access_token":"secret-token","ok":false}`, rr.Body.String())
}

func TestGetLogger_Fallback(t *testing.T) {
	assert.Same(t, slog.Default(), GetLogger(context.Background()))
}
