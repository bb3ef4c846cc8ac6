package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"course_hub/internal/model"
	"course_hub/internal/navigation"
	"course_hub/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCourseHandler_GetChunk(t *testing.T) {
	userID := uuid.New()
	headers := map[string]string{"X-User-ID": userID.String()}

	tests := []struct {
		name         string
		path         string
		setupMock    func(m *testMocks)
		expectedCode int
		location     string
	}{
		{
			name: "正常系: 2番目のチャンク",
			path: "/api/v1/courses/intro/units/1/chunks/2",
			setupMock: func(m *testMocks) {
				m.course.On("GetChunk", mock.Anything, userID, "intro", "1", navigation.ChunkIndex(1)).
					Return(&model.ChunkView{CourseSlug: "intro", UnitNumber: "1", ChunkNumber: 2, ChunkCount: 3}, nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "正常系: チャンク番号の省略は先頭",
			path: "/api/v1/courses/intro/units/1/chunks",
			setupMock: func(m *testMocks) {
				m.course.On("GetChunk", mock.Anything, userID, "intro", "1", navigation.ChunkIndex(0)).
					Return(&model.ChunkView{CourseSlug: "intro", UnitNumber: "1", ChunkNumber: 1, ChunkCount: 3}, nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "異常系: 数値でないチャンク番号は先頭へ 307",
			path:         "/api/v1/courses/intro/units/1/chunks/abc",
			expectedCode: http.StatusTemporaryRedirect,
			location:     navigation.APIChunkPath("intro", "1", 0),
		},
		{
			name:         "異常系: 0 は先頭へ 307",
			path:         "/api/v1/courses/intro/units/2/chunks/0",
			expectedCode: http.StatusTemporaryRedirect,
			location:     "/api/v1/courses/intro/units/2/chunks/1",
		},
		{
			name: "異常系: 範囲外は同じユニットの先頭へ 307",
			path: "/api/v1/courses/intro/units/1/chunks/9",
			setupMock: func(m *testMocks) {
				m.course.On("GetChunk", mock.Anything, userID, "intro", "1", navigation.ChunkIndex(8)).
					Return(nil, &service.ChunkRedirectError{To: navigation.Position{UnitNumber: "1"}}).Once()
			},
			expectedCode: http.StatusTemporaryRedirect,
			location:     navigation.APIChunkPath("intro", "1", 0),
		},
		{
			name: "異常系: 存在しないユニットは 404",
			path: "/api/v1/courses/intro/units/7/chunks/1",
			setupMock: func(m *testMocks) {
				m.course.On("GetChunk", mock.Anything, userID, "intro", "7", navigation.ChunkIndex(0)).
					Return(nil, model.NewAppError("UNIT_NOT_FOUND", "ユニットが見つかりません。", "unit_number", model.ErrNotFound)).Once()
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, m := newTestServer(t, false, nil)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}
			resp := sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: tt.path, Headers: headers}, tt.expectedCode)
			if tt.location != "" {
				assert.Equal(t, tt.location, resp.Header.Get("Location"))
			}
		})
	}
}

func TestCourseHandler_CourseAndUnits(t *testing.T) {
	server, m := newTestServer(t, false, nil)
	headers := map[string]string{"X-User-ID": uuid.NewString()}

	t.Run("正常系: コース", func(t *testing.T) {
		m.course.On("GetCourse", mock.Anything, "intro").Return(&model.Course{Slug: "intro", Title: "Intro"}, nil).Once()
		resp := sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/courses/intro", Headers: headers}, http.StatusOK)
		var course model.Course
		decodeBody(t, resp, &course)
		assert.Equal(t, "Intro", course.Title)
	})

	t.Run("正常系: ユニット一覧が空なら空配列", func(t *testing.T) {
		m.course.On("ListUnits", mock.Anything, "empty").Return(nil, nil).Once()
		resp := sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/courses/empty/units", Headers: headers}, http.StatusOK)
		var units []model.Unit
		decodeBody(t, resp, &units)
		assert.NotNil(t, units)
		assert.Empty(t, units)
	})

	t.Run("正常系: ユニット", func(t *testing.T) {
		m.course.On("GetUnit", mock.Anything, "intro", "2").Return(&model.Unit{UnitNumber: "2"}, nil).Once()
		sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/courses/intro/units/2", Headers: headers}, http.StatusOK)
	})

	t.Run("異常系: 想定外のエラーは詳細を隠して 500", func(t *testing.T) {
		m.course.On("GetCourse", mock.Anything, "broken").Return(nil, errors.New("db is on fire")).Once()
		resp := sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/courses/broken", Headers: headers}, http.StatusInternalServerError)
		detail := verifyErrorResponse(t, resp, "INTERNAL_SERVER_ERROR")
		assert.NotContains(t, detail.Message, "fire")
	})

	t.Run("異常系: X-User-ID なしは 401", func(t *testing.T) {
		sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/courses/intro"}, http.StatusUnauthorized)
	})
}
