package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"course_hub/internal/model"
	"course_hub/internal/navigation"
	"course_hub/internal/progress"
)

// sharedFetchTimeout はまとめた進捗取得の上限
const sharedFetchTimeout = 30 * time.Second

func coursePath(slug string) string {
	return "/api/v1/courses/" + url.PathEscape(slug)
}

// ProgressKey はクライアント側キャッシュのキー
func ProgressKey(slug string) string {
	return "progress:" + slug
}

func (c *Client) Course(ctx context.Context, slug string) (*model.Course, error) {
	var course model.Course
	if err := c.do(ctx, http.MethodGet, coursePath(slug), nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// Units はサイドバー用のユニット一覧 (本文なし)
func (c *Client) Units(ctx context.Context, slug string) ([]model.Unit, error) {
	var units []model.Unit
	if err := c.do(ctx, http.MethodGet, coursePath(slug)+"/units", nil, &units); err != nil {
		return nil, err
	}
	return units, nil
}

// Chunk は描画済みのチャンク。範囲外ならサーバーの 307 に従って先頭チャンクが返ります。
func (c *Client) Chunk(ctx context.Context, slug, unitNumber string, idx navigation.ChunkIndex) (*model.ChunkView, error) {
	var view model.ChunkView
	if err := c.do(ctx, http.MethodGet, navigation.APIChunkPath(slug, unitNumber, idx), nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Progress はサーバーから進捗を取得してキャッシュします。
// 同じコースの同時取得は1回にまとめ、楽観的更新に追い越された取得はキャッシュを上書きしません。
// まとめた取得は呼び出し元のキャンセルでは止まらず、キャンセルした呼び出し元だけが先に戻ります。
func (c *Client) Progress(ctx context.Context, slug string) (*model.CourseProgress, error) {
	key := ProgressKey(slug)
	ch := c.fetches.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		return c.updater.Fetch(fetchCtx, key, c.fetchProgress(slug))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return progress.Clone(res.Val.(*model.CourseProgress)), nil
	}
}

// CachedProgress はキャッシュ上の進捗 (楽観的更新を含む)。無ければ nil。
func (c *Client) CachedProgress(ctx context.Context, slug string) (*model.CourseProgress, error) {
	return c.updater.GetSnapshot(ctx, ProgressKey(slug))
}

func (c *Client) fetchProgress(slug string) progress.FetchFunc {
	return func(ctx context.Context) (*model.CourseProgress, error) {
		var snap model.CourseProgress
		if err := c.do(ctx, http.MethodGet, coursePath(slug)+"/progress", nil, &snap); err != nil {
			return nil, err
		}
		return &snap, nil
	}
}
