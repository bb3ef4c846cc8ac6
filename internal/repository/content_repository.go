//go:generate mockery --name ContentRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"course_hub/internal/middleware"
	"course_hub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentRepository はコース・ユニット・チャンクなどの教材を読み出します。
// 教材は同期処理で投入されるため、ここでは読み取りのみ。
type ContentRepository interface {
	FindCourseBySlug(ctx context.Context, db *gorm.DB, slug string) (*model.Course, error)
	FindCourseByID(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (*model.Course, error)
	// ListActiveUnits は Active なユニットを表示順で返します (チャンク・リソース・演習込み)。
	ListActiveUnits(ctx context.Context, db *gorm.DB, courseID uuid.UUID) ([]model.Unit, error)
	FindUnit(ctx context.Context, db *gorm.DB, courseID uuid.UUID, unitNumber string) (*model.Unit, error)
	FindUnitByID(ctx context.Context, db *gorm.DB, unitID uuid.UUID) (*model.Unit, error)
	FindChunk(ctx context.Context, db *gorm.DB, chunkID uuid.UUID) (*model.Chunk, error)
	FindResource(ctx context.Context, db *gorm.DB, resourceID uuid.UUID) (*model.UnitResource, error)
	FindExercise(ctx context.Context, db *gorm.DB, exerciseID uuid.UUID) (*model.Exercise, error)
}

type gormContentRepository struct {
	courses   Table[model.Course]
	units     Table[model.Unit]
	resources Table[model.UnitResource]
	exercises Table[model.Exercise]
}

func NewGormContentRepository() ContentRepository {
	return &gormContentRepository{
		courses:   NewTable[model.Course]("courses", "course_id"),
		units:     NewTable[model.Unit]("units", "unit_id"),
		resources: NewTable[model.UnitResource]("unit_resources", "resource_id"),
		exercises: NewTable[model.Exercise]("exercises", "exercise_id"),
	}
}

// preloadContent はチャンク配下をまとめて読み込みます。
func preloadContent(db *gorm.DB, prefix string) *gorm.DB {
	return db.
		Preload(prefix + "Resources").
		Preload(prefix + "Exercises")
}

func (r *gormContentRepository) FindCourseBySlug(ctx context.Context, db *gorm.DB, slug string) (*model.Course, error) {
	logger := middleware.GetLogger(ctx)

	course, err := r.courses.GetFirst(ctx, db, "", "slug = ?", slug)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Debug("Course not found by slug", "slug", slug)
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding course by slug in DB", "error", err, "slug", slug)
		return nil, fmt.Errorf("gormContentRepository.FindCourseBySlug: %w", err)
	}
	return course, nil
}

func (r *gormContentRepository) FindCourseByID(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (*model.Course, error) {
	course, err := r.courses.Get(ctx, db, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormContentRepository.FindCourseByID: %w", err)
	}
	return course, nil
}

func (r *gormContentRepository) ListActiveUnits(ctx context.Context, db *gorm.DB, courseID uuid.UUID) ([]model.Unit, error) {
	logger := middleware.GetLogger(ctx)
	var units []model.Unit

	tx := db.WithContext(ctx).Preload("Chunks")
	result := preloadContent(tx, "Chunks.").
		Where("course_id = ? AND status = ?", courseID, model.UnitStatusActive).
		Find(&units)
	if result.Error != nil {
		logger.Error("Error listing units in DB", "error", result.Error, "course_id", courseID.String())
		return nil, fmt.Errorf("gormContentRepository.ListActiveUnits: %w", result.Error)
	}

	// unit_number は文字列なので DB の ORDER BY では数値順にならない
	model.SortUnits(units)
	return units, nil
}

func (r *gormContentRepository) FindUnit(ctx context.Context, db *gorm.DB, courseID uuid.UUID, unitNumber string) (*model.Unit, error) {
	logger := middleware.GetLogger(ctx)
	var unit model.Unit

	tx := db.WithContext(ctx).Preload("Chunks")
	result := preloadContent(tx, "Chunks.").
		Where("course_id = ? AND unit_number = ? AND status = ?", courseID, unitNumber, model.UnitStatusActive).
		First(&unit)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.Debug("Unit not found", "course_id", courseID.String(), "unit_number", unitNumber)
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding unit in DB", "error", result.Error, "unit_number", unitNumber)
		return nil, fmt.Errorf("gormContentRepository.FindUnit: %w", result.Error)
	}

	model.SortChunks(unit.Chunks)
	return &unit, nil
}

func (r *gormContentRepository) FindUnitByID(ctx context.Context, db *gorm.DB, unitID uuid.UUID) (*model.Unit, error) {
	unit, err := r.units.Get(ctx, db, unitID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormContentRepository.FindUnitByID: %w", err)
	}
	return unit, nil
}

func (r *gormContentRepository) FindChunk(ctx context.Context, db *gorm.DB, chunkID uuid.UUID) (*model.Chunk, error) {
	var chunk model.Chunk

	result := preloadContent(db.WithContext(ctx), "").Where("chunk_id = ?", chunkID).First(&chunk)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormContentRepository.FindChunk: %w", result.Error)
	}
	return &chunk, nil
}

func (r *gormContentRepository) FindResource(ctx context.Context, db *gorm.DB, resourceID uuid.UUID) (*model.UnitResource, error) {
	res, err := r.resources.Get(ctx, db, resourceID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			middleware.GetLogger(ctx).Debug("Resource not found", "resource_id", resourceID.String())
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormContentRepository.FindResource: %w", err)
	}
	return res, nil
}

func (r *gormContentRepository) FindExercise(ctx context.Context, db *gorm.DB, exerciseID uuid.UUID) (*model.Exercise, error) {
	ex, err := r.exercises.Get(ctx, db, exerciseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			middleware.GetLogger(ctx).Debug("Exercise not found", "exercise_id", exerciseID.String())
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormContentRepository.FindExercise: %w", err)
	}
	return ex, nil
}
