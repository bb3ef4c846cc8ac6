// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/redis/go-redis/v9"

	"course_hub/internal/config"
	"course_hub/internal/handlers"
	"course_hub/internal/markdown"
	"course_hub/internal/progress"
	"course_hub/internal/repository"
	"course_hub/internal/service"
)

// newLogger は APP_ENV=dev なら tint、それ以外は JSON のロガーを作ります。
func newLogger(level string, tempLogger *slog.Logger) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo) // 不明な場合はInfo
		tempLogger.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	return slog.New(handler)
}

// newProgressStore は Redis が設定されていれば Redis、なければメモリに進捗をキャッシュします。
func newProgressStore(cfg *config.Config) (progress.Store, func()) {
	if cfg.Redis.Addr == "" {
		slog.Info("Using in-memory progress cache")
		return progress.NewMemoryStore(), func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		// キャッシュは補助なので起動は止めない
		slog.Warn("Redis ping failed, progress will be computed from the database", slog.Any("error", err))
	}
	slog.Info("Using redis progress cache", slog.String("addr", cfg.Redis.Addr))
	return progress.NewRedisStore(client, cfg.Redis.TTL), func() {
		if err := client.Close(); err != nil {
			slog.Error("Error closing redis client", slog.Any("error", err))
		}
	}
}

func main() {
	// 設定ファイル読み込み用の一時的なロガー
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := newLogger(cfg.Log.Level, tempLogger)
	slog.SetDefault(logger)
	slog.Info("Application starting...", slog.String("version", config.AppVersion))

	db, err := repository.NewDB(cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()
	if err := repository.Migrate(db); err != nil {
		slog.Error("Error migrating database", slog.Any("error", err))
		os.Exit(1)
	}

	store, closeStore := newProgressStore(cfg)
	defer closeStore()

	mailer, err := service.NewMailer(cfg)
	if err != nil {
		slog.Error("Error initializing mailer", slog.Any("error", err))
		os.Exit(1)
	}

	// Dependency Injection
	userRepo := repository.NewGormUserRepository()
	contentRepo := repository.NewGormContentRepository()
	completionRepo := repository.NewGormCompletionRepository()
	registrationRepo := repository.NewGormRegistrationRepository()
	syncRepo := repository.NewGormSyncRequestRepository()

	updater := progress.NewUpdater(store, logger)
	progressService := service.NewProgressService(db, contentRepo, completionRepo, updater)

	svc := handlers.Services{
		Auth:        service.NewAuthService(db, userRepo, cfg),
		Course:      service.NewCourseService(db, contentRepo, completionRepo, markdown.NewRenderer(nil)),
		Progress:    progressService,
		Certificate: service.NewCertificateService(db, contentRepo, registrationRepo, userRepo, progressService, mailer, cfg),
		Admin:       service.NewAdminService(db, syncRepo),
	}
	if !cfg.Auth.Enabled {
		slog.Warn("Authentication is disabled. X-User-ID header is trusted.")
	}

	r := handlers.NewRouter(cfg, logger, svc, sqlDB.PingContext)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 70 * time.Second, // chi の Timeout(60s) より長く
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}
