package apiclient

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"course_hub/internal/model"
	"course_hub/internal/progress"

	"github.com/google/uuid"
)

// Change は保存操作が進捗に与える変化。Delta が 0 なら楽観的更新はせず、保存後に取り直します。
type Change struct {
	CourseSlug string
	Target     progress.Target
	Delta      int
}

// ResourceChange は完了状態を next にしたときの変化。Further リソースは数えません。
func ResourceChange(slug string, target progress.Target, r model.ResourceView, next bool) Change {
	ch := Change{CourseSlug: slug, Target: target}
	if !r.Counted() {
		return ch
	}
	switch {
	case next && !r.IsCompleted:
		ch.Delta = 1
	case !next && r.IsCompleted:
		ch.Delta = -1
	}
	return ch
}

// ExerciseChange は回答を保存したときの変化。
// 多肢選択の正誤はサーバーしか知らないので Delta は 0 (保存後の再取得で反映)。
func ExerciseChange(slug string, target progress.Target, e model.ExerciseView, response string, markCompleted bool) Change {
	ch := Change{CourseSlug: slug, Target: target}
	if e.ExerciseType == model.ExerciseMultipleChoice {
		return ch
	}
	next := markCompleted && strings.TrimSpace(response) != ""
	switch {
	case next && !e.IsCompleted:
		ch.Delta = 1
	case !next && e.IsCompleted:
		ch.Delta = -1
	}
	return ch
}

func (c *Client) SaveResourceCompletion(ctx context.Context, ch Change, resourceID uuid.UUID, req *model.SaveCompletionRequest) (*model.ResourceCompletion, error) {
	var out model.ResourceCompletion
	err := c.mutate(ctx, ch, func(ctx context.Context) error {
		return c.do(ctx, http.MethodPut, "/api/v1/resources/"+resourceID.String()+"/completion", req, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SaveExerciseResponse(ctx context.Context, ch Change, exerciseID uuid.UUID, req *model.SaveExerciseResponseRequest) (*model.ExerciseResponse, error) {
	var out model.ExerciseResponse
	err := c.mutate(ctx, ch, func(ctx context.Context) error {
		return c.do(ctx, http.MethodPut, "/api/v1/exercises/"+exerciseID.String()+"/response", req, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RequestCertificate(ctx context.Context, slug string) (*model.CertificateResponse, error) {
	var cert model.CertificateResponse
	if err := c.do(ctx, http.MethodPost, coursePath(slug)+"/certificate", nil, &cert); err != nil {
		return nil, err
	}
	return &cert, nil
}

func (c *Client) RequestSync(ctx context.Context) (*model.SyncRequest, error) {
	var req model.SyncRequest
	if err := c.do(ctx, http.MethodPost, "/api/v1/admin/sync", nil, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// mutate は楽観的更新 -> 保存 -> 再取得 の順に実行します。失敗時はロールバック済みのエラーを返すので、
// 呼び出し側が明示的に再試行します。
func (c *Client) mutate(ctx context.Context, ch Change, mutation func(ctx context.Context) error) error {
	key := ProgressKey(ch.CourseSlug)
	refetch := c.fetchProgress(ch.CourseSlug)
	if ch.Delta != 0 {
		target := ch.Target
		return c.updater.Mutate(ctx, key, &target, ch.Delta, mutation, refetch)
	}

	if err := mutation(ctx); err != nil {
		return err
	}
	fresh, err := refetch(ctx)
	if err != nil {
		c.logger.Warn("progress refetch failed, invalidating", slog.String("key", key), slog.Any("error", err))
		return c.updater.Invalidate(ctx, key)
	}
	return c.updater.Commit(ctx, key, fresh)
}
