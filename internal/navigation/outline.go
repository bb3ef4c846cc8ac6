package navigation

import (
	"course_hub/internal/model"

	"github.com/google/uuid"
)

type ChunkOutline struct {
	ChunkID   uuid.UUID
	Title     string
	ChunkType model.ChunkType
}

type UnitOutline struct {
	UnitNumber string
	Title      string
	Chunks     []ChunkOutline
}

// Outline はコースの移動可能な構造 (有効なユニットとチャンクの並び) です。
type Outline struct {
	CourseSlug string
	Units      []UnitOutline
}

// Position は現在表示中のユニットとチャンク
type Position struct {
	UnitNumber string
	Chunk      ChunkIndex
}

// NewOutline は units を表示順に並べた Outline を作ります。
// Inactive なユニットとチャンクを持たないユニットは移動先にならないので含めません。
func NewOutline(courseSlug string, units []model.Unit) *Outline {
	sorted := make([]model.Unit, len(units))
	copy(sorted, units)
	for i := range sorted {
		sorted[i].Chunks = append([]model.Chunk(nil), sorted[i].Chunks...)
	}
	model.SortUnits(sorted)

	o := &Outline{CourseSlug: courseSlug}
	for _, u := range sorted {
		if u.Status == model.UnitStatusInactive || len(u.Chunks) == 0 {
			continue
		}
		uo := UnitOutline{UnitNumber: u.UnitNumber, Title: u.Title}
		for _, c := range u.Chunks {
			uo.Chunks = append(uo.Chunks, ChunkOutline{ChunkID: c.ChunkID, Title: c.Title, ChunkType: c.ChunkType})
		}
		o.Units = append(o.Units, uo)
	}
	return o
}

// unitIndex は見つからなければ -1
func (o *Outline) unitIndex(unitNumber string) int {
	for i, u := range o.Units {
		if u.UnitNumber == unitNumber {
			return i
		}
	}
	return -1
}

func (o *Outline) Unit(unitNumber string) (*UnitOutline, bool) {
	i := o.unitIndex(unitNumber)
	if i < 0 {
		return nil, false
	}
	return &o.Units[i], true
}

func (o *Outline) Empty() bool {
	return len(o.Units) == 0
}

// Contains は pos が実在するチャンクを指しているかどうか
func (o *Outline) Contains(pos Position) bool {
	u, ok := o.Unit(pos.UnitNumber)
	return ok && pos.Chunk >= 0 && int(pos.Chunk) < len(u.Chunks)
}

// First はコースの最初のチャンク
func (o *Outline) First() (Position, bool) {
	if o.Empty() {
		return Position{}, false
	}
	return Position{UnitNumber: o.Units[0].UnitNumber}, true
}

type Correction int

const (
	CorrectionNone Correction = iota
	CorrectionChunkOutOfRange
	CorrectionUnknownUnit
)

// Resolve は pos を実在する位置に補正します。
// 範囲外のチャンクは同じユニットの先頭へ、存在しないユニットはコースの先頭へ。
func (o *Outline) Resolve(pos Position) (Position, Correction) {
	u, ok := o.Unit(pos.UnitNumber)
	if !ok {
		first, _ := o.First()
		return first, CorrectionUnknownUnit
	}
	if pos.Chunk < 0 || int(pos.Chunk) >= len(u.Chunks) {
		return Position{UnitNumber: pos.UnitNumber}, CorrectionChunkOutOfRange
	}
	return pos, CorrectionNone
}

// Next は次のチャンク。最後のユニットの最後のチャンクなら false。
func (o *Outline) Next(pos Position) (Position, bool) {
	i := o.unitIndex(pos.UnitNumber)
	if i < 0 {
		return pos, false
	}
	if int(pos.Chunk)+1 < len(o.Units[i].Chunks) {
		return Position{UnitNumber: pos.UnitNumber, Chunk: pos.Chunk + 1}, true
	}
	if i+1 < len(o.Units) {
		return Position{UnitNumber: o.Units[i+1].UnitNumber}, true
	}
	return pos, false
}

// Previous は前のチャンク。前のユニットへ戻るときはその最後のチャンクへ。
func (o *Outline) Previous(pos Position) (Position, bool) {
	i := o.unitIndex(pos.UnitNumber)
	if i < 0 {
		return pos, false
	}
	if pos.Chunk > 0 {
		return Position{UnitNumber: pos.UnitNumber, Chunk: pos.Chunk - 1}, true
	}
	if i > 0 {
		prev := o.Units[i-1]
		return Position{UnitNumber: prev.UnitNumber, Chunk: ChunkIndex(len(prev.Chunks) - 1)}, true
	}
	return pos, false
}

// Path は pos のURLパス
func (o *Outline) Path(pos Position) string {
	return ChunkPath(o.CourseSlug, pos.UnitNumber, pos.Chunk)
}
