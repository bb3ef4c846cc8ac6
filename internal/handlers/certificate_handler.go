package handlers

import (
	"net/http"

	"course_hub/internal/middleware"
	"course_hub/internal/service"
	"course_hub/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type CertificateHandler struct {
	service service.CertificateService
}

func NewCertificateHandler(s service.CertificateService) *CertificateHandler {
	return &CertificateHandler{service: s}
}

// RequestCertificate は修了証を申請します。発行済みなら同じ修了証を返します。
func (h *CertificateHandler) RequestCertificate(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	cert, err := h.service.RequestCertificate(r.Context(), userID, chi.URLParam(r, "course_slug"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, cert, logger)
}
