package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"course_hub/internal/middleware"
	"course_hub/internal/model"
	"course_hub/internal/navigation"
	"course_hub/internal/service"
	"course_hub/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type CourseHandler struct {
	service service.CourseService
}

func NewCourseHandler(s service.CourseService) *CourseHandler {
	return &CourseHandler{service: s}
}

func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	course, err := h.service.GetCourse(r.Context(), chi.URLParam(r, "course_slug"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, course, logger)
}

// ListUnits はサイドバー用のユニット一覧 (本文なし) を返します。
func (h *CourseHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	units, err := h.service.ListUnits(r.Context(), chi.URLParam(r, "course_slug"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if units == nil {
		units = []model.Unit{}
	}
	logger.Debug("Units listed", slog.Int("count", len(units)))
	webutil.RespondWithJSON(w, http.StatusOK, units, logger)
}

func (h *CourseHandler) GetUnit(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	unit, err := h.service.GetUnit(r.Context(), chi.URLParam(r, "course_slug"), chi.URLParam(r, "unit_number"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, unit, logger)
}

// GetChunk は描画済みのチャンクを返します。
// チャンク番号が省略されたら先頭、不正または範囲外なら同じユニットの先頭へ 307 で案内します。
func (h *CourseHandler) GetChunk(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	slug := chi.URLParam(r, "course_slug")
	unitNumber := chi.URLParam(r, "unit_number")
	segment := chi.URLParam(r, "chunk_number")

	idx, err := navigation.ParseChunkNumber(segment)
	if err != nil {
		logger.Info("Invalid chunk number, redirecting to first chunk", slog.String("chunk_number", segment))
		redirectToChunk(w, r, slug, unitNumber, 0)
		return
	}

	view, err := h.service.GetChunk(r.Context(), userID, slug, unitNumber, idx)
	if err != nil {
		var redirect *service.ChunkRedirectError
		if errors.As(err, &redirect) {
			redirectToChunk(w, r, slug, redirect.To.UnitNumber, redirect.To.Chunk)
			return
		}
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, view, logger)
}

func redirectToChunk(w http.ResponseWriter, r *http.Request, slug, unitNumber string, idx navigation.ChunkIndex) {
	http.Redirect(w, r, navigation.APIChunkPath(slug, unitNumber, idx), http.StatusTemporaryRedirect)
}
