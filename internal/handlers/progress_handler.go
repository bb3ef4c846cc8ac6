package handlers

import (
	"log/slog"
	"net/http"

	"course_hub/internal/middleware"
	"course_hub/internal/model"
	"course_hub/internal/service"
	"course_hub/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ProgressHandler struct {
	service service.ProgressService
}

func NewProgressHandler(s service.ProgressService) *ProgressHandler {
	return &ProgressHandler{service: s}
}

func (h *ProgressHandler) GetCourseProgress(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	snap, err := h.service.GetCourseProgress(r.Context(), userID, chi.URLParam(r, "course_slug"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, snap, logger)
}

// PutResourceCompletion はリソースの完了状態・評価・感想を保存します
func (h *ProgressHandler) PutResourceCompletion(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	resourceID, ok := parseUUIDParam(w, r, logger, "resource_id")
	if !ok {
		return
	}

	var req model.SaveCompletionRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Invalid completion request", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	completion, err := h.service.SaveResourceCompletion(r.Context(), userID, resourceID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger.Info("Resource completion saved", slog.String("resource_id", resourceID.String()), slog.Bool("is_completed", completion.IsCompleted))
	webutil.RespondWithJSON(w, http.StatusOK, completion, logger)
}

func (h *ProgressHandler) PutExerciseResponse(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	exerciseID, ok := parseUUIDParam(w, r, logger, "exercise_id")
	if !ok {
		return
	}

	var req model.SaveExerciseResponseRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Invalid exercise response request", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.SaveExerciseResponse(r.Context(), userID, exerciseID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// parseUUIDParam は URL パラメータを UUID として読みます。失敗したら 400 を書いて false。
func parseUUIDParam(w http.ResponseWriter, r *http.Request, logger *slog.Logger, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.Warn("Invalid UUID in URL", slog.String("param", name), slog.String("value", raw))
		webutil.HandleError(w, logger, model.NewAppError("INVALID_URL_PARAM", name+"の形式が正しくありません。", name, model.ErrInvalidInput))
		return uuid.Nil, false
	}
	return id, true
}
