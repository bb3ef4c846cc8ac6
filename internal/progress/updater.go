package progress

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"course_hub/internal/model"
)

// FetchFunc は正のスナップショットを取得します (サーバーならDB、クライアントならAPI)。
type FetchFunc func(ctx context.Context) (*model.CourseProgress, error)

// Repository は楽観的更新の操作をまとめたインターフェースです。
type Repository interface {
	GetSnapshot(ctx context.Context, key string) (*model.CourseProgress, error)
	ApplyOptimistic(ctx context.Context, key string, target *Target, delta int) (*model.CourseProgress, error)
	Commit(ctx context.Context, key string, fresh *model.CourseProgress) error
	Rollback(ctx context.Context, key string, previous *model.CourseProgress) error
}

type keyState struct {
	mu      sync.Mutex // キー単位の書き込みを直列化する
	refs    int
	fetches map[uint64]context.CancelFunc
}

// Updater はキャッシュキーごとに取得中のフェッチを管理し、楽観的更新と
// ロールバックを提供します。書き込みの前に必ず同じキーのフェッチを取り消すので、
// 古いレスポンスが楽観的な値を上書きすることはありません。
type Updater struct {
	store  Store
	logger *slog.Logger

	mu     sync.Mutex
	keys   map[string]*keyState
	nextID uint64
}

var _ Repository = (*Updater)(nil)

func NewUpdater(store Store, logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{
		store:  store,
		logger: logger,
		keys:   make(map[string]*keyState),
	}
}

// state は参照カウントを増やしてキーの状態を返します。u.mu を保持して呼ぶこと。
func (u *Updater) state(key string) *keyState {
	st, ok := u.keys[key]
	if !ok {
		st = &keyState{fetches: make(map[uint64]context.CancelFunc)}
		u.keys[key] = st
	}
	st.refs++
	return st
}

// unref は u.mu を保持して呼ぶこと。
func (u *Updater) unref(key string, st *keyState) {
	st.refs--
	if st.refs == 0 && len(st.fetches) == 0 {
		delete(u.keys, key)
	}
}

// lock はキーの書き込みロックを取り、取得中のフェッチを取り消します。
func (u *Updater) lock(key string, cancelFetches bool) *keyState {
	u.mu.Lock()
	st := u.state(key)
	u.mu.Unlock()

	st.mu.Lock()
	if cancelFetches {
		u.mu.Lock()
		for id, cancel := range st.fetches {
			cancel()
			delete(st.fetches, id)
		}
		u.mu.Unlock()
	}
	return st
}

func (u *Updater) unlock(key string, st *keyState) {
	st.mu.Unlock()
	u.mu.Lock()
	u.unref(key, st)
	u.mu.Unlock()
}

// InFlight は key に対して取得中のフェッチ数を返します。
func (u *Updater) InFlight(key string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	if st, ok := u.keys[key]; ok {
		return len(st.fetches)
	}
	return 0
}

func (u *Updater) GetSnapshot(ctx context.Context, key string) (*model.CourseProgress, error) {
	return u.store.Get(ctx, key)
}

// Fetch は fetch を取消可能なコンテキストで実行し、途中で取り消されなかった場合だけ
// 結果をキャッシュに書き込みます。取り消された場合はキャッシュの現在値を返します。
func (u *Updater) Fetch(ctx context.Context, key string, fetch FetchFunc) (*model.CourseProgress, error) {
	fctx, cancel := context.WithCancel(ctx)
	defer cancel()

	u.mu.Lock()
	st := u.state(key)
	u.nextID++
	id := u.nextID
	st.fetches[id] = cancel
	u.mu.Unlock()

	fresh, fetchErr := fetch(fctx)

	st.mu.Lock()
	u.mu.Lock()
	_, alive := st.fetches[id]
	delete(st.fetches, id)
	u.mu.Unlock()

	var err error
	switch {
	case !alive:
		// 楽観的更新に追い越された
		u.logger.Debug("progress fetch superseded", slog.String("key", key))
		fresh, err = u.store.Get(ctx, key)
		if err == nil && fresh == nil && fetchErr != nil {
			err = fetchErr
		}
	case fetchErr != nil:
		err = fetchErr
	default:
		err = u.store.Set(ctx, key, fresh)
	}
	u.unlock(key, st)

	if err != nil {
		return nil, err
	}
	return fresh, nil
}

// ApplyOptimistic は取得中のフェッチを取り消し、差分を反映したスナップショットを
// 同期的に書き込みます。戻り値は書き込み前のスナップショットで、ロールバックに使います。
// キャッシュが空なら何もせず nil, nil を返します。
func (u *Updater) ApplyOptimistic(ctx context.Context, key string, target *Target, delta int) (*model.CourseProgress, error) {
	if delta != 1 && delta != -1 {
		return nil, ErrInvalidDelta
	}
	st := u.lock(key, true)
	defer u.unlock(key, st)

	previous, err := u.store.Get(ctx, key)
	if err != nil || previous == nil {
		return nil, err
	}
	patched, err := ApplyDelta(previous, target, delta)
	if err != nil {
		return nil, err
	}
	if err := u.store.Set(ctx, key, patched); err != nil {
		return nil, err
	}
	return previous, nil
}

// Rollback は previous をそのまま書き戻します。差分の逆適用はしません。
func (u *Updater) Rollback(ctx context.Context, key string, previous *model.CourseProgress) error {
	if previous == nil {
		return nil
	}
	st := u.lock(key, false)
	defer u.unlock(key, st)
	return u.store.Set(ctx, key, previous)
}

// Commit はサーバーの値でキャッシュを上書きします (常にサーバーが勝つ)。
func (u *Updater) Commit(ctx context.Context, key string, fresh *model.CourseProgress) error {
	st := u.lock(key, true)
	defer u.unlock(key, st)
	return u.store.Set(ctx, key, fresh)
}

// Invalidate はキャッシュを破棄し、次のフェッチで作り直させます。
func (u *Updater) Invalidate(ctx context.Context, key string) error {
	st := u.lock(key, true)
	defer u.unlock(key, st)
	return u.store.Delete(ctx, key)
}

// Mutate は 楽観的更新 -> mutation -> (失敗なら)ロールバック / (成功なら)再取得してコミット
// の順に実行します。refetch が nil ならキャッシュを破棄します。
// mutation のエラーはそのまま返すので、呼び出し側で再試行を選べます。
func (u *Updater) Mutate(ctx context.Context, key string, target *Target, delta int, mutation func(ctx context.Context) error, refetch FetchFunc) error {
	previous, err := u.ApplyOptimistic(ctx, key, target, delta)
	if err != nil {
		if errors.Is(err, ErrInvalidDelta) {
			return err
		}
		// キャッシュは補助なので、書けなくても更新自体は続ける
		u.logger.Warn("optimistic progress update skipped", slog.String("key", key), slog.Any("error", err))
		previous = nil
	}

	if err := mutation(ctx); err != nil {
		if rbErr := u.Rollback(ctx, key, previous); rbErr != nil {
			u.logger.Error("progress rollback failed", slog.String("key", key), slog.Any("error", rbErr))
		}
		return err
	}

	if refetch != nil {
		fresh, err := refetch(ctx)
		if err == nil {
			return u.Commit(ctx, key, fresh)
		}
		u.logger.Warn("progress refetch failed, invalidating", slog.String("key", key), slog.Any("error", err))
	}
	return u.Invalidate(ctx, key)
}
