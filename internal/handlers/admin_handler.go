package handlers

import (
	"net/http"

	"course_hub/internal/middleware"
	"course_hub/internal/service"
	"course_hub/internal/webutil"
)

// AdminHandler は管理者用API。ルーター側で RequireAdmin を通すこと。
type AdminHandler struct {
	service service.AdminService
}

func NewAdminHandler(s service.AdminService) *AdminHandler {
	return &AdminHandler{service: s}
}

func (h *AdminHandler) RequestSync(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	req, err := h.service.RequestSync(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusAccepted, req, logger)
}

func (h *AdminHandler) ListSyncs(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	rows, err := h.service.ListQueuedSyncs(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, rows, logger)
}
