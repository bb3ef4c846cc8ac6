package apiclient

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// refreshBefore 有効期限がこれより近いトークンはリクエスト前に更新する
const refreshBefore = time.Minute

// Auth はログイン中のトークン。ExpiresAt がゼロなら有効期限は不明。
type Auth struct {
	Token     string
	Email     string
	ExpiresAt time.Time
}

func (a Auth) LoggedIn() bool {
	return a.Token != ""
}

// expiresWithin は有効期限が分かっていて、now から d 以内に切れるかどうか
func (a Auth) expiresWithin(now time.Time, d time.Duration) bool {
	return !a.ExpiresAt.IsZero() && a.ExpiresAt.Sub(now) < d
}

// RefreshFunc は現在のトークンと引き換えに新しいトークンを取得します。
type RefreshFunc func(ctx context.Context, current Auth) (Auth, error)

// AuthStore は現在の認証情報を保持します。同時に走ったリフレッシュは1回にまとめます。
type AuthStore struct {
	mu      sync.RWMutex
	auth    Auth
	refresh RefreshFunc
	group   singleflight.Group
}

func NewAuthStore(refresh RefreshFunc) *AuthStore {
	return &AuthStore{refresh: refresh}
}

func (s *AuthStore) Current() Auth {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth
}

func (s *AuthStore) Set(a Auth) {
	s.mu.Lock()
	s.auth = a
	s.mu.Unlock()
}

func (s *AuthStore) Clear() {
	s.Set(Auth{})
}

// Refresh は現在のトークンを更新します。
func (s *AuthStore) Refresh(ctx context.Context) (Auth, error) {
	return s.refreshFrom(ctx, s.Current().Token)
}

// refreshFrom は stale を更新します。待っている間に別のリフレッシュで
// トークンが差し替わっていれば、それをそのまま返します。
func (s *AuthStore) refreshFrom(ctx context.Context, stale string) (Auth, error) {
	v, err, _ := s.group.Do("refresh", func() (interface{}, error) {
		cur := s.Current()
		if !cur.LoggedIn() {
			return Auth{}, ErrNotLoggedIn
		}
		if cur.Token != stale {
			return cur, nil
		}
		fresh, err := s.refresh(ctx, cur)
		if err != nil {
			return Auth{}, err
		}
		s.Set(fresh)
		return fresh, nil
	})
	if err != nil {
		return Auth{}, err
	}
	return v.(Auth), nil
}
