package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"course_hub/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, userID uuid.UUID, sessionStart time.Time) string {
	t.Helper()
	claims := &model.JWTCustomClaims{
		Email:        "ada@example.com",
		SessionStart: jwt.NewNumericDate(sessionStart),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name         string
		body         interface{}
		setupMock    func(m *testMocks)
		expectedCode int
		errorCode    string
		errorField   string
	}{
		{
			name: "正常系: 登録して 201",
			body: map[string]string{"name": "Ada", "email": "ada@example.com", "password": "password123"},
			setupMock: func(m *testMocks) {
				m.auth.On("Register", mock.Anything, &model.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "password123"}).
					Return(&model.User{UserID: uuid.New(), Name: "Ada", Email: "ada@example.com"}, nil).Once()
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "異常系: 必須項目の不足",
			body:         map[string]string{"name": "Ada"},
			expectedCode: http.StatusBadRequest,
			errorCode:    "VALIDATION_ERROR",
			errorField:   "email,password",
		},
		{
			name:         "異常系: JSONが壊れている",
			body:         `{"name":`,
			expectedCode: http.StatusBadRequest,
			errorCode:    "INVALID_REQUEST_BODY",
		},
		{
			name: "異常系: メールアドレス重複は 409",
			body: map[string]string{"name": "Ada", "email": "ada@example.com", "password": "password123"},
			setupMock: func(m *testMocks) {
				m.auth.On("Register", mock.Anything, mock.Anything).
					Return(nil, model.NewAppError("DUPLICATE_EMAIL", "このメールアドレスは既に使用されています。", "email", model.ErrConflict)).Once()
			},
			expectedCode: http.StatusConflict,
			errorCode:    "DUPLICATE_EMAIL",
			errorField:   "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, m := newTestServer(t, true, nil)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			resp := sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/auth/register", Body: tt.body}, tt.expectedCode)
			if tt.errorCode != "" {
				detail := verifyErrorResponse(t, resp, tt.errorCode)
				assert.Equal(t, tt.errorField, detail.Field)
				return
			}
			var user model.UserResponse
			decodeBody(t, resp, &user)
			assert.Equal(t, "ada@example.com", user.Email)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	server, m := newTestServer(t, true, nil)

	t.Run("正常系: トークンを返す", func(t *testing.T) {
		expiresAt := time.Now().Add(time.Hour).Truncate(time.Second)
		m.auth.On("Login", mock.Anything, &model.LoginRequest{Email: "ada@example.com", Password: "password123"}).
			Return(&model.TokenResponse{AccessToken: "token", Email: "ada@example.com", ExpiresAt: expiresAt}, nil).Once()

		resp := sendRequest(t, server, httpRequestDetails{
			Method: http.MethodPost, Path: "/api/v1/auth/login",
			Body: map[string]string{"email": "ada@example.com", "password": "password123"},
		}, http.StatusOK)
		var token model.TokenResponse
		decodeBody(t, resp, &token)
		assert.Equal(t, "token", token.AccessToken)
		assert.True(t, expiresAt.Equal(token.ExpiresAt))
	})

	t.Run("異常系: 認証失敗は 401", func(t *testing.T) {
		m.auth.On("Login", mock.Anything, mock.Anything).
			Return(nil, model.NewAppError("AUTHENTICATION_FAILED", "メールアドレスまたはパスワードが正しくありません。", "", model.ErrUnauthorized)).Once()

		resp := sendRequest(t, server, httpRequestDetails{
			Method: http.MethodPost, Path: "/api/v1/auth/login",
			Body: map[string]string{"email": "ada@example.com", "password": "wrong"},
		}, http.StatusUnauthorized)
		verifyErrorResponse(t, resp, "AUTHENTICATION_FAILED")
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	server, m := newTestServer(t, true, nil)
	userID := uuid.New()
	sessionStart := time.Now().Add(-30 * time.Minute).Truncate(time.Second)

	t.Run("正常系: セッション開始時刻をサービスへ渡す", func(t *testing.T) {
		m.auth.On("Refresh", mock.Anything, userID, mock.MatchedBy(func(ts time.Time) bool {
			return ts.Unix() == sessionStart.Unix()
		})).Return(&model.TokenResponse{AccessToken: "new-token", Email: "ada@example.com"}, nil).Once()

		resp := sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodPost,
			Path:    "/api/v1/auth/refresh",
			Headers: map[string]string{"Authorization": "Bearer " + signTestToken(t, userID, sessionStart)},
		}, http.StatusOK)
		var token model.TokenResponse
		decodeBody(t, resp, &token)
		assert.Equal(t, "new-token", token.AccessToken)
	})

	t.Run("異常系: トークンなしは 401", func(t *testing.T) {
		resp := sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/auth/refresh"}, http.StatusUnauthorized)
		verifyErrorResponse(t, resp, "UNAUTHORIZED")
	})
}

func TestAuthHandler_GetMe(t *testing.T) {
	server, m := newTestServer(t, false, nil)
	userID := uuid.New()
	m.auth.On("GetUser", mock.Anything, userID).Return(&model.User{UserID: userID, Name: "Ada", Email: "ada@example.com"}, nil).Once()

	resp := sendRequest(t, server, httpRequestDetails{
		Method: http.MethodGet, Path: "/api/v1/auth/me",
		Headers: map[string]string{"X-User-ID": userID.String()},
	}, http.StatusOK)
	var user model.UserResponse
	decodeBody(t, resp, &user)
	assert.Equal(t, userID, user.UserID)
}
