// Package apiclient は course_hub API の型付きクライアントです。
// 進捗スナップショットは progress.Updater でキャッシュし、完了状態の保存は楽観的に反映します。
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"course_hub/internal/model"
	"course_hub/internal/progress"

	"golang.org/x/sync/singleflight"
)

type Client struct {
	baseURL string
	http    *http.Client
	auth    *AuthStore
	updater *progress.Updater
	fetches singleflight.Group
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.auth = NewAuthStore(c.refreshToken)
	c.updater = progress.NewUpdater(progress.NewMemoryStore(), c.logger)
	return c
}

func (c *Client) Auth() *AuthStore {
	return c.auth
}

// Login はメールアドレスとパスワードでログインし、トークンを保持します。
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp model.TokenResponse
	err := c.send(ctx, http.MethodPost, "/api/v1/auth/login", "", &model.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return err
	}
	c.auth.Set(Auth{Token: resp.AccessToken, Email: resp.Email, ExpiresAt: resp.ExpiresAt})
	c.logger.Info("logged in", slog.String("email", resp.Email), slog.Time("expires_at", resp.ExpiresAt))
	return nil
}

func (c *Client) Me(ctx context.Context) (*model.UserResponse, error) {
	var user model.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) refreshToken(ctx context.Context, current Auth) (Auth, error) {
	var resp model.TokenResponse
	if err := c.send(ctx, http.MethodPost, "/api/v1/auth/refresh", current.Token, nil, &resp); err != nil {
		return Auth{}, err
	}
	c.logger.Debug("token refreshed", slog.Time("expires_at", resp.ExpiresAt))
	return Auth{Token: resp.AccessToken, Email: resp.Email, ExpiresAt: resp.ExpiresAt}, nil
}

// do は認証付きでリクエストします。トークンが1分以内に切れる場合は先に更新します。
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	cur := c.auth.Current()
	if !cur.LoggedIn() {
		return ErrNotLoggedIn
	}
	if cur.expiresWithin(c.now(), refreshBefore) {
		fresh, err := c.auth.refreshFrom(ctx, cur.Token)
		if err != nil {
			// 期限内ならまだ使えるので、そのまま送る
			c.logger.Warn("token refresh failed", slog.Any("error", err))
		} else {
			cur = fresh
		}
	}
	return c.send(ctx, method, path, cur.Token, body, out)
}

func (c *Client) send(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("apiclient: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.logger.Debug("api request", slog.String("method", method), slog.String("path", path),
		slog.Int("status", resp.StatusCode), slog.Duration("latency", c.now().Sub(start)))

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		var errResp model.APIErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			apiErr.Code = errResp.Error.Code
			apiErr.Message = errResp.Error.Message
			apiErr.Field = errResp.Error.Field
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("apiclient: decode %s %s: %w", method, path, err)
	}
	return nil
}
