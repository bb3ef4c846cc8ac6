package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"course_hub/internal/config"
	"course_hub/internal/middleware"
	"course_hub/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// Services はルーターが使うサービス一式
type Services struct {
	Auth        service.AuthService
	Course      service.CourseService
	Progress    service.ProgressService
	Certificate service.CertificateService
	Admin       service.AdminService
}

// NewRouter は API 全体のルーティングを組み立てます。
// ping は /health で呼ばれ、nil ならヘルスチェックは常に成功します。
func NewRouter(cfg *config.Config, logger *slog.Logger, svc Services, ping func(ctx context.Context) error) *chi.Mux {
	authHandler := NewAuthHandler(svc.Auth)
	courseHandler := NewCourseHandler(svc.Course)
	progressHandler := NewProgressHandler(svc.Progress)
	certificateHandler := NewCertificateHandler(svc.Certificate)
	adminHandler := NewAdminHandler(svc.Admin)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
		Debug:            false,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	authMiddleware := middleware.JWTAuthMiddleware(cfg)
	if !cfg.Auth.Enabled {
		logger.Warn("Authentication disabled, using X-User-ID header")
		authMiddleware = middleware.DevUserContextMiddleware
	}

	r.Route("/api/v1", func(r chi.Router) {
		// --- Public routes ---
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// --- Protected routes ---
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Post("/auth/refresh", authHandler.Refresh)
			r.Get("/auth/me", authHandler.GetMe)

			r.Route("/courses/{course_slug}", func(r chi.Router) {
				r.Get("/", courseHandler.GetCourse)
				r.Get("/units", courseHandler.ListUnits)
				r.Get("/units/{unit_number}", courseHandler.GetUnit)
				r.Get("/units/{unit_number}/chunks", courseHandler.GetChunk)
				r.Get("/units/{unit_number}/chunks/{chunk_number}", courseHandler.GetChunk)
				r.Get("/progress", progressHandler.GetCourseProgress)
				r.Post("/certificate", certificateHandler.RequestCertificate)
			})

			r.Put("/resources/{resource_id}/completion", progressHandler.PutResourceCompletion)
			r.Put("/exercises/{exercise_id}/response", progressHandler.PutExerciseResponse)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/sync", adminHandler.RequestSync)
				r.Get("/sync", adminHandler.ListSyncs)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				middleware.GetLogger(r.Context()).Error("Health check failed", slog.Any("error", err))
				http.Error(w, "Health check failed", http.StatusInternalServerError)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
