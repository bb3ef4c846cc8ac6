package repository

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"course_hub/internal/model"

	slogGorm "github.com/orandin/slog-gorm" // slogGormはエイリアス
	"gorm.io/driver/postgres"               // postgresドライバ
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB は slog-gorm のロガーを設定した GORM 接続を返します。
func NewDB(databaseURL string, appLogger *slog.Logger) (*gorm.DB, error) {
	// APP_ENV=dev なら SQL を Info で出す
	var gormLogLevel gormlogger.LogLevel
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		gormLogLevel = gormlogger.Info
	} else {
		gormLogLevel = gormlogger.Warn
	}

	slogGormLogger := slogGorm.New(
		slogGorm.WithHandler(appLogger.Handler()),
		slogGorm.WithTraceAll(),
		slogGorm.WithSlowThreshold(500*time.Millisecond),
	)

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         slogGormLogger.LogMode(gormLogLevel),
		TranslateError: true, // 一意制約違反を gorm.ErrDuplicatedKey にそろえる
	})
	if err != nil {
		appLogger.Error("Failed to connect to database with GORM", slog.Any("error", err))
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		return nil, err
	}

	if err = sqlDB.Ping(); err != nil {
		appLogger.Error("Error pinging database", slog.Any("error", err))
		sqlDB.Close()
		return nil, err
	}

	// コネクションプール
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	appLogger.Info("Database connection established with GORM")
	return db, nil
}

// Models はマイグレーション対象のモデル (依存順)
var Models = []interface{}{
	&model.User{},
	&model.Course{},
	&model.Unit{},
	&model.Chunk{},
	&model.UnitResource{},
	&model.Exercise{},
	&model.ResourceCompletion{},
	&model.ExerciseResponse{},
	&model.Registration{},
	&model.SyncRequest{},
}

// Migrate はテーブルを作成・更新します。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}
