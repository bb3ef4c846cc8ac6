package service

import (
	"context"
	"errors"
	"fmt"

	"course_hub/internal/markdown"
	"course_hub/internal/middleware"
	"course_hub/internal/model"
	"course_hub/internal/navigation"
	"course_hub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChunkRedirectError は要求されたチャンクが存在しないため、To へ案内すべきことを表します。
type ChunkRedirectError struct {
	To navigation.Position
}

func (e *ChunkRedirectError) Error() string {
	return fmt.Sprintf("chunk out of range, redirect to unit %s chunk %d", e.To.UnitNumber, e.To.Chunk.Number())
}

//go:generate mockery --name CourseService --output ./mocks --outpkg mocks --case=underscore
type CourseService interface {
	GetCourse(ctx context.Context, slug string) (*model.Course, error)
	// ListUnits はサイドバー用に、本文を除いたユニットとチャンクの一覧を返します。
	ListUnits(ctx context.Context, slug string) ([]model.Unit, error)
	GetUnit(ctx context.Context, slug, unitNumber string) (*model.Unit, error)
	// GetChunk はチャンクを描画し、ユーザーの完了状態と前後のパスを付けて返します。
	// 範囲外のチャンクは *ChunkRedirectError を返します。
	GetChunk(ctx context.Context, userID uuid.UUID, slug, unitNumber string, idx navigation.ChunkIndex) (*model.ChunkView, error)
}

type courseService struct {
	db             *gorm.DB
	contentRepo    repository.ContentRepository
	completionRepo repository.CompletionRepository
	renderer       *markdown.Renderer
}

func NewCourseService(db *gorm.DB, contentRepo repository.ContentRepository, completionRepo repository.CompletionRepository, renderer *markdown.Renderer) CourseService {
	if renderer == nil {
		renderer = markdown.NewRenderer(nil)
	}
	return &courseService{
		db:             db,
		contentRepo:    contentRepo,
		completionRepo: completionRepo,
		renderer:       renderer,
	}
}

func (s *courseService) GetCourse(ctx context.Context, slug string) (*model.Course, error) {
	course, err := s.contentRepo.FindCourseBySlug(ctx, s.db, slug)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("COURSE_NOT_FOUND", "コースが見つかりません。", "course_slug", model.ErrNotFound)
		}
		middleware.GetLogger(ctx).Error("Failed to find course", "error", err, "slug", slug)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}
	return course, nil
}

func (s *courseService) ListUnits(ctx context.Context, slug string) ([]model.Unit, error) {
	course, err := s.GetCourse(ctx, slug)
	if err != nil {
		return nil, err
	}
	units, err := s.contentRepo.ListActiveUnits(ctx, s.db, course.CourseID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "ユニットの取得に失敗しました。", "", err)
	}
	for i := range units {
		for j := range units[i].Chunks {
			units[i].Chunks[j].Content = ""
		}
	}
	return units, nil
}

func (s *courseService) GetUnit(ctx context.Context, slug, unitNumber string) (*model.Unit, error) {
	course, err := s.GetCourse(ctx, slug)
	if err != nil {
		return nil, err
	}
	unit, err := s.contentRepo.FindUnit(ctx, s.db, course.CourseID, unitNumber)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("UNIT_NOT_FOUND", "ユニットが見つかりません。", "unit_number", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "ユニットの取得に失敗しました。", "", err)
	}
	return unit, nil
}

func (s *courseService) GetChunk(ctx context.Context, userID uuid.UUID, slug, unitNumber string, idx navigation.ChunkIndex) (*model.ChunkView, error) {
	logger := middleware.GetLogger(ctx)

	course, err := s.GetCourse(ctx, slug)
	if err != nil {
		return nil, err
	}
	units, err := s.contentRepo.ListActiveUnits(ctx, s.db, course.CourseID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "ユニットの取得に失敗しました。", "", err)
	}

	outline := navigation.NewOutline(slug, units)
	pos, correction := outline.Resolve(navigation.Position{UnitNumber: unitNumber, Chunk: idx})
	switch correction {
	case navigation.CorrectionUnknownUnit:
		return nil, model.NewAppError("UNIT_NOT_FOUND", "ユニットが見つかりません。", "unit_number", model.ErrNotFound)
	case navigation.CorrectionChunkOutOfRange:
		logger.Debug("Chunk out of range", "unit_number", unitNumber, "chunk", idx.Number())
		return nil, &ChunkRedirectError{To: pos}
	}

	unit := findUnit(units, pos.UnitNumber)
	chunk := unit.Chunks[pos.Chunk]

	doc, err := s.renderer.Render(chunk.Content)
	if err != nil {
		logger.Error("Failed to render chunk content", "error", err, "chunk_id", chunk.ChunkID)
		return nil, model.NewAppError("CONTENT_RENDER_FAILED", "コンテンツの表示に失敗しました。", "", fmt.Errorf("%w: %v", model.ErrInternalServer, err))
	}

	view := &model.ChunkView{
		CourseSlug:  slug,
		UnitNumber:  unit.UnitNumber,
		UnitTitle:   unit.Title,
		ChunkNumber: int(pos.Chunk.Number()),
		ChunkCount:  len(unit.Chunks),
		ChunkID:     chunk.ChunkID,
		ChunkType:   chunk.ChunkType,
		Title:       chunk.Title,
		Resources:   []model.ResourceView{},
		Exercises:   []model.ExerciseView{},
	}
	if doc != nil {
		view.HTML = string(doc.HTML)
		view.Text = doc.Text()
		for _, c := range doc.Components {
			view.Components = append(view.Components, model.ComponentView{Name: c.Name, Attrs: c.Attrs})
		}
	}
	if prev, ok := outline.Previous(pos); ok {
		view.PrevPath = outline.Path(prev)
	}
	if next, ok := outline.Next(pos); ok {
		view.NextPath = outline.Path(next)
	}

	if err := s.attachCompletion(ctx, userID, &chunk, view); err != nil {
		return nil, err
	}
	return view, nil
}

// attachCompletion はリソースと演習にユーザーの完了状態・回答を付けます。
func (s *courseService) attachCompletion(ctx context.Context, userID uuid.UUID, chunk *model.Chunk, view *model.ChunkView) error {
	resIDs := make([]uuid.UUID, 0, len(chunk.Resources))
	for _, r := range chunk.Resources {
		resIDs = append(resIDs, r.ResourceID)
	}
	exIDs := make([]uuid.UUID, 0, len(chunk.Exercises))
	for _, e := range chunk.Exercises {
		exIDs = append(exIDs, e.ExerciseID)
	}

	done, err := s.completionRepo.ListCompletedItemIDs(ctx, s.db, userID, resIDs, exIDs)
	if err != nil {
		return model.NewAppError("INTERNAL_SERVER_ERROR", "完了状態の取得に失敗しました。", "", err)
	}
	completed := make(map[uuid.UUID]bool, len(done))
	for _, id := range done {
		completed[id] = true
	}

	responses, err := s.completionRepo.ListExerciseResponses(ctx, s.db, userID, exIDs)
	if err != nil {
		return model.NewAppError("INTERNAL_SERVER_ERROR", "回答の取得に失敗しました。", "", err)
	}
	answers := make(map[uuid.UUID]string, len(responses))
	for _, r := range responses {
		answers[r.ExerciseID] = r.Response
	}

	for _, r := range chunk.Resources {
		view.Resources = append(view.Resources, model.ResourceView{UnitResource: r, IsCompleted: completed[r.ResourceID]})
	}
	for _, e := range chunk.Exercises {
		view.Exercises = append(view.Exercises, model.ExerciseView{
			Exercise:    e,
			Options:     e.OptionList(),
			Response:    answers[e.ExerciseID],
			IsCompleted: completed[e.ExerciseID],
		})
	}
	return nil
}

func findUnit(units []model.Unit, unitNumber string) *model.Unit {
	for i := range units {
		if units[i].UnitNumber == unitNumber {
			return &units[i]
		}
	}
	return nil
}

// chunkIndexOf は表示順でのチャンク位置。見つからなければ -1
func chunkIndexOf(unit *model.Unit, chunkID uuid.UUID) int {
	for i, c := range unit.Chunks {
		if c.ChunkID == chunkID {
			return i
		}
	}
	return -1
}
