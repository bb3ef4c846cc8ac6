// Package progress は進捗スナップショットの計算とキャッシュ、楽観的更新を扱います。
package progress

import (
	"errors"
	"math"

	"course_hub/internal/model"

	"github.com/google/uuid"
)

var ErrInvalidDelta = errors.New("progress: delta must be +1 or -1")

// Target は差分を反映するユニットとチャンク (0始まり) を指します。
type Target struct {
	UnitNumber string
	ChunkIndex int
}

// Percentage は round(100*completed/total) を返します。total が 0 以下なら 0。
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	completed = clamp(completed, 0, total)
	return int(math.Round(100 * float64(completed) / float64(total)))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clone はスナップショットのディープコピーを返します。
func Clone(snap *model.CourseProgress) *model.CourseProgress {
	if snap == nil {
		return nil
	}
	out := *snap
	if snap.Units != nil {
		out.Units = make(map[string]model.UnitProgress, len(snap.Units))
		for k, u := range snap.Units {
			if u.Chunks != nil {
				u.Chunks = append([]model.ChunkProgress(nil), u.Chunks...)
			}
			out.Units[k] = u
		}
	}
	return &out
}

// ApplyDelta は snap のコピーに ±1 の差分を反映して返します。元の snap は変更しません。
// target が nil ならコース全体だけを更新します。存在しないユニットや範囲外のチャンクは
// そのレベルを変更しません。
func ApplyDelta(snap *model.CourseProgress, target *Target, delta int) (*model.CourseProgress, error) {
	if delta != 1 && delta != -1 {
		return nil, ErrInvalidDelta
	}
	if snap == nil {
		return nil, nil
	}
	next := Clone(snap)
	next.CompletedCount = clamp(next.CompletedCount+delta, 0, next.TotalCount)
	next.Percentage = Percentage(next.CompletedCount, next.TotalCount)

	if target == nil {
		return next, nil
	}
	unit, ok := next.Units[target.UnitNumber]
	if !ok {
		return next, nil
	}
	unit.CompletedCount = clamp(unit.CompletedCount+delta, 0, unit.TotalCount)
	unit.Percentage = Percentage(unit.CompletedCount, unit.TotalCount)
	if target.ChunkIndex >= 0 && target.ChunkIndex < len(unit.Chunks) {
		c := &unit.Chunks[target.ChunkIndex]
		c.CompletedCount = clamp(c.CompletedCount+delta, 0, c.TotalCount)
		c.Percentage = Percentage(c.CompletedCount, c.TotalCount)
	}
	next.Units[target.UnitNumber] = unit
	return next, nil
}

// Compute はユニット一覧と完了済み項目IDから正のスナップショットを組み立てます。
// units は表示順に並んでいる前提です。
func Compute(courseSlug string, units []model.Unit, completed func(id uuid.UUID) bool) *model.CourseProgress {
	snap := &model.CourseProgress{
		CourseSlug: courseSlug,
		Units:      make(map[string]model.UnitProgress, len(units)),
	}
	for _, u := range units {
		up := model.UnitProgress{Chunks: make([]model.ChunkProgress, 0, len(u.Chunks))}
		for _, c := range u.Chunks {
			cp := model.ChunkProgress{TotalCount: c.CountedItems()}
			for _, r := range c.Resources {
				if r.Counted() && completed(r.ResourceID) {
					cp.CompletedCount++
				}
			}
			for _, e := range c.Exercises {
				if completed(e.ExerciseID) {
					cp.CompletedCount++
				}
			}
			cp.Percentage = Percentage(cp.CompletedCount, cp.TotalCount)
			up.TotalCount += cp.TotalCount
			up.CompletedCount += cp.CompletedCount
			up.Chunks = append(up.Chunks, cp)
		}
		up.Percentage = Percentage(up.CompletedCount, up.TotalCount)
		snap.TotalCount += up.TotalCount
		snap.CompletedCount += up.CompletedCount
		snap.Units[u.UnitNumber] = up
	}
	snap.Percentage = Percentage(snap.CompletedCount, snap.TotalCount)
	return snap
}
