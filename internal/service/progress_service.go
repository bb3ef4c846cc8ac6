package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"course_hub/internal/middleware"
	"course_hub/internal/model"
	"course_hub/internal/progress"
	"course_hub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockery --name ProgressService --output ./mocks --outpkg mocks --case=underscore
type ProgressService interface {
	GetCourseProgress(ctx context.Context, userID uuid.UUID, slug string) (*model.CourseProgress, error)
	// ComputeCourseProgress はキャッシュを使わず DB から計算した進捗を返します。
	ComputeCourseProgress(ctx context.Context, userID uuid.UUID, slug string) (*model.CourseProgress, error)
	SaveResourceCompletion(ctx context.Context, userID, resourceID uuid.UUID, req *model.SaveCompletionRequest) (*model.ResourceCompletion, error)
	SaveExerciseResponse(ctx context.Context, userID, exerciseID uuid.UUID, req *model.SaveExerciseResponseRequest) (*model.ExerciseResponse, error)
}

type progressService struct {
	db             *gorm.DB
	contentRepo    repository.ContentRepository
	completionRepo repository.CompletionRepository
	updater        *progress.Updater
	now            func() time.Time
}

// NewProgressService は DB を正とし、updater のキャッシュ (Redis / メモリ) を
// 完了の保存ごとに楽観的に更新する ProgressService を返します。
func NewProgressService(db *gorm.DB, contentRepo repository.ContentRepository, completionRepo repository.CompletionRepository, updater *progress.Updater) ProgressService {
	return &progressService{
		db:             db,
		contentRepo:    contentRepo,
		completionRepo: completionRepo,
		updater:        updater,
		now:            time.Now,
	}
}

// ProgressKey はサーバー側キャッシュのキー
func ProgressKey(userID uuid.UUID, slug string) string {
	return "progress:" + userID.String() + ":" + slug
}

func (s *progressService) GetCourseProgress(ctx context.Context, userID uuid.UUID, slug string) (*model.CourseProgress, error) {
	logger := middleware.GetLogger(ctx)

	course, err := s.findCourse(ctx, slug)
	if err != nil {
		return nil, err
	}

	key := ProgressKey(userID, slug)
	snap, err := s.updater.GetSnapshot(ctx, key)
	if err != nil {
		// キャッシュが読めなくても DB から計算できる
		logger.Warn("Progress cache read failed", "error", err, "key", key)
	}
	if snap != nil {
		return snap, nil
	}

	snap, err = s.updater.Fetch(ctx, key, s.computeFunc(userID, course))
	if err != nil {
		logger.Error("Failed to compute progress", "error", err, "key", key)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "進捗の取得に失敗しました。", "", err)
	}
	return snap, nil
}

func (s *progressService) ComputeCourseProgress(ctx context.Context, userID uuid.UUID, slug string) (*model.CourseProgress, error) {
	course, err := s.findCourse(ctx, slug)
	if err != nil {
		return nil, err
	}
	snap, err := s.computeFunc(userID, course)(ctx)
	if err != nil {
		middleware.GetLogger(ctx).Error("Failed to compute progress", "error", err, "course_slug", slug)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "進捗の取得に失敗しました。", "", err)
	}
	return snap, nil
}

// computeFunc は DB からスナップショットを計算する FetchFunc を返します。
func (s *progressService) computeFunc(userID uuid.UUID, course *model.Course) progress.FetchFunc {
	return func(ctx context.Context) (*model.CourseProgress, error) {
		units, err := s.contentRepo.ListActiveUnits(ctx, s.db, course.CourseID)
		if err != nil {
			return nil, err
		}
		var resIDs, exIDs []uuid.UUID
		for _, u := range units {
			for _, c := range u.Chunks {
				for _, r := range c.Resources {
					if r.Counted() {
						resIDs = append(resIDs, r.ResourceID)
					}
				}
				for _, e := range c.Exercises {
					exIDs = append(exIDs, e.ExerciseID)
				}
			}
		}
		done, err := s.completionRepo.ListCompletedItemIDs(ctx, s.db, userID, resIDs, exIDs)
		if err != nil {
			return nil, err
		}
		completed := make(map[uuid.UUID]bool, len(done))
		for _, id := range done {
			completed[id] = true
		}
		return progress.Compute(course.Slug, units, func(id uuid.UUID) bool { return completed[id] }), nil
	}
}

// itemLocation は完了対象の項目がどのコース・ユニット・チャンクにあるか
type itemLocation struct {
	course *model.Course
	target *progress.Target
}

// locate はチャンクIDからコースとスナップショット上の位置を求めます。
// ユニットが非公開などで見つからない場合、target は nil (コース全体だけ補正)。
func (s *progressService) locate(ctx context.Context, chunkID uuid.UUID) (*itemLocation, error) {
	chunk, err := s.contentRepo.FindChunk(ctx, s.db, chunkID)
	if err != nil {
		return nil, err
	}
	unit, err := s.contentRepo.FindUnitByID(ctx, s.db, chunk.UnitID)
	if err != nil {
		return nil, err
	}
	course, err := s.contentRepo.FindCourseByID(ctx, s.db, unit.CourseID)
	if err != nil {
		return nil, err
	}

	loc := &itemLocation{course: course}
	full, err := s.contentRepo.FindUnit(ctx, s.db, course.CourseID, unit.UnitNumber)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return loc, nil
		}
		return nil, err
	}
	if i := chunkIndexOf(full, chunkID); i >= 0 {
		loc.target = &progress.Target{UnitNumber: full.UnitNumber, ChunkIndex: i}
	}
	return loc, nil
}

// mutate は delta が 0 なら mutation を実行するだけ、そうでなければ Updater.Mutate を通します。
func (s *progressService) mutate(ctx context.Context, userID uuid.UUID, loc *itemLocation, delta int, mutation func(ctx context.Context) error) error {
	if delta == 0 {
		return mutation(ctx)
	}
	key := ProgressKey(userID, loc.course.Slug)
	return s.updater.Mutate(ctx, key, loc.target, delta, mutation, s.computeFunc(userID, loc.course))
}

func completionDelta(was, now bool) int {
	switch {
	case !was && now:
		return 1
	case was && !now:
		return -1
	default:
		return 0
	}
}

func (s *progressService) SaveResourceCompletion(ctx context.Context, userID, resourceID uuid.UUID, req *model.SaveCompletionRequest) (*model.ResourceCompletion, error) {
	logger := middleware.GetLogger(ctx).With("resource_id", resourceID.String())
	if req.IsCompleted == nil {
		return nil, model.NewAppError("VALIDATION_ERROR", "完了状態は必須項目です。", "is_completed", model.ErrInvalidInput)
	}

	resource, err := s.contentRepo.FindResource(ctx, s.db, resourceID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("RESOURCE_NOT_FOUND", "リソースが見つかりません。", "resource_id", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}

	was := false
	existing, err := s.completionRepo.FindResourceCompletion(ctx, s.db, userID, resourceID)
	switch {
	case err == nil:
		was = existing.IsCompleted
	case !errors.Is(err, model.ErrNotFound):
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}

	loc, err := s.locate(ctx, resource.ChunkID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}

	completion := &model.ResourceCompletion{
		UserID:      userID,
		ResourceID:  resourceID,
		IsCompleted: *req.IsCompleted,
		Rating:      req.Rating,
		Feedback:    strings.TrimSpace(req.Feedback),
	}
	if existing != nil {
		completion.ID = existing.ID
		completion.CreatedAt = existing.CreatedAt
	}
	if completion.IsCompleted {
		t := s.now()
		completion.CompletedAt = &t
	}

	// Further リソースは進捗に数えない
	delta := 0
	if resource.Counted() {
		delta = completionDelta(was, completion.IsCompleted)
	}

	err = s.mutate(ctx, userID, loc, delta, func(ctx context.Context) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.completionRepo.UpsertResourceCompletion(ctx, tx, completion)
		})
	})
	if err != nil {
		logger.Error("Failed to save resource completion", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "完了状態の保存に失敗しました。", "", err)
	}

	logger.Info("Resource completion saved", "is_completed", completion.IsCompleted, "delta", delta)
	return completion, nil
}

func (s *progressService) SaveExerciseResponse(ctx context.Context, userID, exerciseID uuid.UUID, req *model.SaveExerciseResponseRequest) (*model.ExerciseResponse, error) {
	logger := middleware.GetLogger(ctx).With("exercise_id", exerciseID.String())

	exercise, err := s.contentRepo.FindExercise(ctx, s.db, exerciseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("EXERCISE_NOT_FOUND", "演習が見つかりません。", "exercise_id", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}

	was := false
	existing, err := s.completionRepo.FindExerciseResponse(ctx, s.db, userID, exerciseID)
	switch {
	case err == nil:
		was = existing.IsCompleted
	case !errors.Is(err, model.ErrNotFound):
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}

	response := strings.TrimSpace(req.Response)
	isCompleted := exerciseCompleted(exercise, response, req.IsCompleted)
	if exercise.ExerciseType == model.ExerciseMultipleChoice && req.IsCompleted && !isCompleted {
		logger.Debug("Multiple choice answer is not correct")
	}

	loc, err := s.locate(ctx, exercise.ChunkID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}

	row := &model.ExerciseResponse{
		UserID:      userID,
		ExerciseID:  exerciseID,
		Response:    response,
		IsCompleted: isCompleted,
	}
	if existing != nil {
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt
	}
	if isCompleted {
		t := s.now()
		row.CompletedAt = &t
	}

	err = s.mutate(ctx, userID, loc, completionDelta(was, isCompleted), func(ctx context.Context) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.completionRepo.UpsertExerciseResponse(ctx, tx, row)
		})
	})
	if err != nil {
		logger.Error("Failed to save exercise response", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "回答の保存に失敗しました。", "", err)
	}
	return row, nil
}

// exerciseCompleted は多肢選択なら正解のときだけ、自由記述なら回答があり完了指定されたときに完了。
func exerciseCompleted(e *model.Exercise, response string, markCompleted bool) bool {
	if e.ExerciseType == model.ExerciseMultipleChoice {
		return e.IsCorrect(response)
	}
	return markCompleted && response != ""
}

func (s *progressService) findCourse(ctx context.Context, slug string) (*model.Course, error) {
	course, err := s.contentRepo.FindCourseBySlug(ctx, s.db, slug)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("COURSE_NOT_FOUND", "コースが見つかりません。", "course_slug", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", fmt.Errorf("find course: %w", err))
	}
	return course, nil
}
