package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotLoggedIn はトークンを持たずに認証が必要な操作をしたときのエラー
var ErrNotLoggedIn = errors.New("apiclient: not logged in")

// APIError はサーバーが返したエラーレスポンス
type APIError struct {
	Status  int
	Code    string
	Message string
	Field   string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s: %s", e.Status, e.Code, e.Message)
}

// AccessKind はエラーの見せ方の分類
type AccessKind int

const (
	OtherError AccessKind = iota
	NotLoggedIn
	Unauthorized // ログイン済みだが権限がない
)

// Access は err を「未ログイン」「権限なし」「その他」に分類します。
func Access(err error) AccessKind {
	if errors.Is(err, ErrNotLoggedIn) {
		return NotLoggedIn
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized:
			return NotLoggedIn
		case http.StatusForbidden:
			return Unauthorized
		}
	}
	return OtherError
}

// AccessMessage は利用者向けの表示文言
func AccessMessage(err error) string {
	switch Access(err) {
	case NotLoggedIn:
		return "ログインしていません。ログインしてから再度お試しください。"
	case Unauthorized:
		return "この操作を行う権限がありません。"
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
