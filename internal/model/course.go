// internal/model/course.go
package model

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type UnitStatus string

const (
	UnitStatusActive   UnitStatus = "Active"
	UnitStatusInactive UnitStatus = "Inactive"
)

type ChunkType string

const (
	ChunkTypeReading    ChunkType = "Reading"
	ChunkTypeExercise   ChunkType = "Exercise"
	ChunkTypeDiscussion ChunkType = "Discussion"
)

type ResourceTier string

const (
	ResourceCore    ResourceTier = "Core"
	ResourceFurther ResourceTier = "Further" // 任意。進捗には数えない
)

type ExerciseType string

const (
	ExerciseFreeText       ExerciseType = "Free text"
	ExerciseMultipleChoice ExerciseType = "Multiple choice"
)

// Course はコースの基本情報
type Course struct {
	CourseID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"course_id"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}

// Unit はコースの章。UnitNumber は数値文字列 ("1", "2", ...)
type Unit struct {
	UnitID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"unit_id"`
	CourseID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	UnitNumber       string     `gorm:"not null" json:"unit_number"`
	Title            string     `gorm:"not null" json:"title"`
	Description      string     `json:"description"`
	Content          string     `json:"content,omitempty"`
	LearningOutcomes string     `json:"learning_outcomes,omitempty"`
	Status           UnitStatus `gorm:"not null;default:'Active'" json:"status"`
	CreatedAt        time.Time  `json:"-"`
	UpdatedAt        time.Time  `json:"-"`

	Chunks []Chunk `gorm:"foreignKey:UnitID;references:UnitID" json:"chunks,omitempty"`
}

func (Unit) TableName() string {
	return "units"
}

// Chunk はユニット内で最小のナビゲーション単位
type Chunk struct {
	ChunkID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"chunk_id"`
	UnitID     uuid.UUID `gorm:"type:uuid;not null;index" json:"unit_id"`
	ChunkOrder string    `gorm:"not null" json:"chunk_order"`
	ChunkType  ChunkType `gorm:"not null" json:"chunk_type"`
	Title      string    `json:"title"`
	Content    string    `json:"content,omitempty"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`

	Resources []UnitResource `gorm:"foreignKey:ChunkID;references:ChunkID" json:"resources,omitempty"`
	Exercises []Exercise     `gorm:"foreignKey:ChunkID;references:ChunkID" json:"exercises,omitempty"`
}

func (Chunk) TableName() string {
	return "chunks"
}

// CountedItems は進捗の分母になる項目数 (Core リソース + 演習)
func (c Chunk) CountedItems() int {
	n := len(c.Exercises)
	for _, r := range c.Resources {
		if r.Counted() {
			n++
		}
	}
	return n
}

type UnitResource struct {
	ResourceID  uuid.UUID    `gorm:"type:uuid;primaryKey" json:"resource_id"`
	ChunkID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"chunk_id"`
	Title       string       `gorm:"not null" json:"title"`
	URL         string       `json:"url"`
	Authors     string       `json:"authors,omitempty"`
	CoreFurther ResourceTier `gorm:"not null;default:'Core'" json:"core_further"`
	TimeMinutes int          `json:"time_minutes"`
	AudioURL    *string      `json:"audio_url,omitempty"`
	SortOrder   int          `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}

func (UnitResource) TableName() string {
	return "unit_resources"
}

func (r UnitResource) Counted() bool {
	return r.CoreFurther == ResourceCore
}

type Exercise struct {
	ExerciseID   uuid.UUID    `gorm:"type:uuid;primaryKey" json:"exercise_id"`
	ChunkID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"chunk_id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	ExerciseType ExerciseType `gorm:"not null" json:"exercise_type"`
	Options      string       `json:"-"` // 改行区切り
	AnswerOption string       `json:"-"`
	SortOrder    int          `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt    time.Time    `json:"-"`
	UpdatedAt    time.Time    `json:"-"`
}

func (Exercise) TableName() string {
	return "exercises"
}

// OptionList は選択肢を空行を除いて返します。
func (e Exercise) OptionList() []string {
	var out []string
	for _, line := range strings.Split(e.Options, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// IsCorrect は多肢選択の回答が正解かどうか。自由記述は常に false。
func (e Exercise) IsCorrect(response string) bool {
	return e.ExerciseType == ExerciseMultipleChoice &&
		strings.TrimSpace(response) == strings.TrimSpace(e.AnswerOption)
}

// UnitNumberLess はユニット番号を数値として比較します。
// 数値でない番号は数値の後ろに辞書順で並びます。
func UnitNumberLess(a, b string) bool {
	na, errA := strconv.Atoi(strings.TrimSpace(a))
	nb, errB := strconv.Atoi(strings.TrimSpace(b))
	switch {
	case errA == nil && errB == nil:
		if na != nb {
			return na < nb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// SortUnits はユニットとその配下のチャンク・リソース・演習を表示順に並べ替えます。
func SortUnits(units []Unit) {
	sort.SliceStable(units, func(i, j int) bool {
		return UnitNumberLess(units[i].UnitNumber, units[j].UnitNumber)
	})
	for i := range units {
		SortChunks(units[i].Chunks)
	}
}

// SortChunks は chunk_order の辞書順に並べ替えます。
func SortChunks(chunks []Chunk) {
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].ChunkOrder < chunks[j].ChunkOrder
	})
	for i := range chunks {
		res := chunks[i].Resources
		sort.SliceStable(res, func(a, b int) bool { return res[a].SortOrder < res[b].SortOrder })
		ex := chunks[i].Exercises
		sort.SliceStable(ex, func(a, b int) bool { return ex[a].SortOrder < ex[b].SortOrder })
	}
}
