//go:generate mockery --name CompletionRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"course_hub/internal/middleware"
	"course_hub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompletionRepository はリソース完了と演習回答を扱います。
// (user, resource) / (user, exercise) ごとに1行なので保存は upsert。
type CompletionRepository interface {
	FindResourceCompletion(ctx context.Context, db *gorm.DB, userID, resourceID uuid.UUID) (*model.ResourceCompletion, error)
	UpsertResourceCompletion(ctx context.Context, tx *gorm.DB, c *model.ResourceCompletion) error // トランザクション対応
	FindExerciseResponse(ctx context.Context, db *gorm.DB, userID, exerciseID uuid.UUID) (*model.ExerciseResponse, error)
	UpsertExerciseResponse(ctx context.Context, tx *gorm.DB, r *model.ExerciseResponse) error // トランザクション対応
	// ListCompletedItemIDs は完了済みのリソースIDと演習IDをまとめて返します。
	ListCompletedItemIDs(ctx context.Context, db *gorm.DB, userID uuid.UUID, resourceIDs, exerciseIDs []uuid.UUID) ([]uuid.UUID, error)
	ListExerciseResponses(ctx context.Context, db *gorm.DB, userID uuid.UUID, exerciseIDs []uuid.UUID) ([]model.ExerciseResponse, error)
}

type gormCompletionRepository struct {
	resourceCompletions Table[model.ResourceCompletion]
	exerciseResponses   Table[model.ExerciseResponse]
}

func NewGormCompletionRepository() CompletionRepository {
	return &gormCompletionRepository{
		resourceCompletions: NewTable[model.ResourceCompletion]("resource_completions", "id"),
		exerciseResponses:   NewTable[model.ExerciseResponse]("exercise_responses", "id"),
	}
}

func (r *gormCompletionRepository) FindResourceCompletion(ctx context.Context, db *gorm.DB, userID, resourceID uuid.UUID) (*model.ResourceCompletion, error) {
	c, err := r.resourceCompletions.GetFirst(ctx, db, "", "user_id = ? AND resource_id = ?", userID, resourceID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormCompletionRepository.FindResourceCompletion: %w", err)
	}
	return c, nil
}

func (r *gormCompletionRepository) UpsertResourceCompletion(ctx context.Context, tx *gorm.DB, c *model.ResourceCompletion) error {
	logger := middleware.GetLogger(ctx)
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	result := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "resource_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_completed", "rating", "feedback", "completed_at", "updated_at"}),
	}).Create(c)
	if result.Error != nil {
		logger.Error(
			"Error upserting resource completion in DB",
			"error", result.Error,
			"user_id", c.UserID.String(),
			"resource_id", c.ResourceID.String(),
		)
		return fmt.Errorf("gormCompletionRepository.UpsertResourceCompletion: %w", result.Error)
	}
	return nil
}

func (r *gormCompletionRepository) FindExerciseResponse(ctx context.Context, db *gorm.DB, userID, exerciseID uuid.UUID) (*model.ExerciseResponse, error) {
	resp, err := r.exerciseResponses.GetFirst(ctx, db, "", "user_id = ? AND exercise_id = ?", userID, exerciseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormCompletionRepository.FindExerciseResponse: %w", err)
	}
	return resp, nil
}

func (r *gormCompletionRepository) UpsertExerciseResponse(ctx context.Context, tx *gorm.DB, resp *model.ExerciseResponse) error {
	logger := middleware.GetLogger(ctx)
	if resp.ID == uuid.Nil {
		resp.ID = uuid.New()
	}

	result := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "exercise_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"response", "is_completed", "completed_at", "updated_at"}),
	}).Create(resp)
	if result.Error != nil {
		logger.Error(
			"Error upserting exercise response in DB",
			"error", result.Error,
			"user_id", resp.UserID.String(),
			"exercise_id", resp.ExerciseID.String(),
		)
		return fmt.Errorf("gormCompletionRepository.UpsertExerciseResponse: %w", result.Error)
	}
	return nil
}

func (r *gormCompletionRepository) ListCompletedItemIDs(ctx context.Context, db *gorm.DB, userID uuid.UUID, resourceIDs, exerciseIDs []uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID

	if len(resourceIDs) > 0 {
		var resIDs []uuid.UUID
		result := db.WithContext(ctx).Model(&model.ResourceCompletion{}).
			Where("user_id = ? AND is_completed = ? AND resource_id IN ?", userID, true, resourceIDs).
			Pluck("resource_id", &resIDs)
		if result.Error != nil {
			return nil, fmt.Errorf("gormCompletionRepository.ListCompletedItemIDs: %w", result.Error)
		}
		ids = append(ids, resIDs...)
	}

	if len(exerciseIDs) > 0 {
		var exIDs []uuid.UUID
		result := db.WithContext(ctx).Model(&model.ExerciseResponse{}).
			Where("user_id = ? AND is_completed = ? AND exercise_id IN ?", userID, true, exerciseIDs).
			Pluck("exercise_id", &exIDs)
		if result.Error != nil {
			return nil, fmt.Errorf("gormCompletionRepository.ListCompletedItemIDs: %w", result.Error)
		}
		ids = append(ids, exIDs...)
	}

	return ids, nil
}

func (r *gormCompletionRepository) ListExerciseResponses(ctx context.Context, db *gorm.DB, userID uuid.UUID, exerciseIDs []uuid.UUID) ([]model.ExerciseResponse, error) {
	if len(exerciseIDs) == 0 {
		return nil, nil
	}
	rows, err := r.exerciseResponses.Scan(ctx, db, "user_id = ? AND exercise_id IN ?", userID, exerciseIDs)
	if err != nil {
		return nil, fmt.Errorf("gormCompletionRepository.ListExerciseResponses: %w", err)
	}
	return rows, nil
}
