// helpers_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"course_hub/internal/config"
	"course_hub/internal/handlers"
	"course_hub/internal/model"
	"course_hub/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

// testMocks はルーターに渡したサービスのモック
type testMocks struct {
	auth        *mocks.AuthService
	course      *mocks.CourseService
	progress    *mocks.ProgressService
	certificate *mocks.CertificateService
	admin       *mocks.AdminService
}

// newTestServer はモックのサービスで組み立てたルーターを httptest.Server で起動します。
// authEnabled が false なら X-User-ID ヘッダーで認証します。
func newTestServer(t *testing.T, authEnabled bool, ping func() error) (*httptest.Server, *testMocks) {
	t.Helper()
	m := &testMocks{
		auth:        mocks.NewAuthService(t),
		course:      mocks.NewCourseService(t),
		progress:    mocks.NewProgressService(t),
		certificate: mocks.NewCertificateService(t),
		admin:       mocks.NewAdminService(t),
	}
	cfg := &config.Config{
		Auth: config.AuthConfig{Enabled: authEnabled},
		JWT:  config.JWTConfig{SecretKey: testSecret},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := handlers.NewRouter(cfg, logger, handlers.Services{
		Auth:        m.auth,
		Course:      m.course,
		Progress:    m.progress,
		Certificate: m.certificate,
		Admin:       m.admin,
	}, func(context.Context) error {
		if ping == nil {
			return nil
		}
		return ping()
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, m
}

// httpRequestDetails はHTTPリクエストの送信に必要な情報をまとめます。
type httpRequestDetails struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// sendRequest はリダイレクトを追わずにリクエストを送り、ステータスを検証します。
func sendRequest(t *testing.T, server *httptest.Server, details httpRequestDetails, expectedCode int) *http.Response {
	t.Helper()

	var reqBodyReader io.Reader
	if details.Body != nil {
		if strPayload, ok := details.Body.(string); ok {
			reqBodyReader = strings.NewReader(strPayload)
		} else {
			reqBodyBytes, err := json.Marshal(details.Body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	req, err := http.NewRequest(details.Method, server.URL+details.Path, reqBodyReader)
	require.NoError(t, err, "Failed to create request")
	if reqBodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range details.Headers {
		req.Header.Set(key, value)
	}

	client := server.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	resp, err := client.Do(req)
	require.NoError(t, err, "Failed to execute request")
	t.Cleanup(func() { resp.Body.Close() })

	assert.Equal(t, expectedCode, resp.StatusCode, "Status code mismatch")
	return resp
}

// decodeBody はレスポンスボディを dst にデコードします。
func decodeBody(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

// verifyErrorResponse は {"error": {...}} のコードを検証します。
func verifyErrorResponse(t *testing.T, resp *http.Response, expectedCode string) model.ErrorDetail {
	t.Helper()
	var errResp model.APIErrorResponse
	decodeBody(t, resp, &errResp)
	assert.Equal(t, expectedCode, errResp.Error.Code)
	return errResp.Error
}
