package handlers_test

import (
	"net/http"
	"testing"

	"course_hub/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProgressHandler(t *testing.T) {
	userID := uuid.New()
	headers := map[string]string{"X-User-ID": userID.String()}

	t.Run("正常系: 進捗スナップショット", func(t *testing.T) {
		server, m := newTestServer(t, false, nil)
		m.progress.On("GetCourseProgress", mock.Anything, userID, "intro").
			Return(&model.CourseProgress{CourseSlug: "intro", TotalCount: 4, CompletedCount: 1, Percentage: 25}, nil).Once()

		resp := sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/courses/intro/progress", Headers: headers}, http.StatusOK)
		var snap model.CourseProgress
		decodeBody(t, resp, &snap)
		assert.Equal(t, 25, snap.Percentage)
	})

	t.Run("正常系: リソースの完了を保存", func(t *testing.T) {
		server, m := newTestServer(t, false, nil)
		resourceID := uuid.New()
		m.progress.On("SaveResourceCompletion", mock.Anything, userID, resourceID, mock.MatchedBy(func(req *model.SaveCompletionRequest) bool {
			return req.IsCompleted != nil && *req.IsCompleted && req.Rating != nil && *req.Rating == 4
		})).Return(&model.ResourceCompletion{ResourceID: resourceID, IsCompleted: true}, nil).Once()

		resp := sendRequest(t, server, httpRequestDetails{
			Method: http.MethodPut, Path: "/api/v1/resources/" + resourceID.String() + "/completion", Headers: headers,
			Body: map[string]interface{}{"is_completed": true, "rating": 4},
		}, http.StatusOK)
		var completion model.ResourceCompletion
		decodeBody(t, resp, &completion)
		assert.True(t, completion.IsCompleted)
	})

	t.Run("異常系: 評価が範囲外", func(t *testing.T) {
		server, _ := newTestServer(t, false, nil)
		resp := sendRequest(t, server, httpRequestDetails{
			Method: http.MethodPut, Path: "/api/v1/resources/" + uuid.NewString() + "/completion", Headers: headers,
			Body: map[string]interface{}{"is_completed": true, "rating": 9},
		}, http.StatusBadRequest)
		detail := verifyErrorResponse(t, resp, "VALIDATION_ERROR")
		assert.Equal(t, "評価は5以下で入力してください。", detail.Message)
	})

	t.Run("異常系: is_completed の指定なし", func(t *testing.T) {
		server, _ := newTestServer(t, false, nil)
		resp := sendRequest(t, server, httpRequestDetails{
			Method: http.MethodPut, Path: "/api/v1/resources/" + uuid.NewString() + "/completion", Headers: headers,
			Body: map[string]interface{}{"feedback": "good"},
		}, http.StatusBadRequest)
		verifyErrorResponse(t, resp, "VALIDATION_ERROR")
	})

	t.Run("異常系: resource_id が UUID でない", func(t *testing.T) {
		server, _ := newTestServer(t, false, nil)
		resp := sendRequest(t, server, httpRequestDetails{
			Method: http.MethodPut, Path: "/api/v1/resources/not-a-uuid/completion", Headers: headers,
			Body: map[string]interface{}{"is_completed": true},
		}, http.StatusBadRequest)
		detail := verifyErrorResponse(t, resp, "INVALID_URL_PARAM")
		assert.Equal(t, "resource_id", detail.Field)
	})

	t.Run("正常系: 演習の回答を保存", func(t *testing.T) {
		server, m := newTestServer(t, false, nil)
		exerciseID := uuid.New()
		m.progress.On("SaveExerciseResponse", mock.Anything, userID, exerciseID, &model.SaveExerciseResponseRequest{Response: "B", IsCompleted: true}).
			Return(&model.ExerciseResponse{ExerciseID: exerciseID, Response: "B", IsCompleted: true}, nil).Once()

		sendRequest(t, server, httpRequestDetails{
			Method: http.MethodPut, Path: "/api/v1/exercises/" + exerciseID.String() + "/response", Headers: headers,
			Body: map[string]interface{}{"response": "B", "is_completed": true},
		}, http.StatusOK)
	})

	t.Run("異常系: 未知のフィールド", func(t *testing.T) {
		server, _ := newTestServer(t, false, nil)
		resp := sendRequest(t, server, httpRequestDetails{
			Method: http.MethodPut, Path: "/api/v1/exercises/" + uuid.NewString() + "/response", Headers: headers,
			Body: map[string]interface{}{"response": "B", "score": 10},
		}, http.StatusBadRequest)
		verifyErrorResponse(t, resp, "INVALID_REQUEST_BODY")
	})
}
