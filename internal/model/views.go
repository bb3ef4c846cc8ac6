package model

import "github.com/google/uuid"

// ResourceView はリソースとログインユーザーの完了状態
type ResourceView struct {
	UnitResource
	IsCompleted bool `json:"is_completed"`
}

type ExerciseView struct {
	Exercise
	Options     []string `json:"options,omitempty"`
	Response    string   `json:"response,omitempty"`
	IsCompleted bool     `json:"is_completed"`
}

type ComponentView struct {
	Name  string            `json:"name"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// ChunkView はチャンク表示APIのレスポンス。
// PrevPath と NextPath は画面のURL (/courses/...) で、APIのパスは navigation.APIChunkPath で作る。
type ChunkView struct {
	CourseSlug  string          `json:"course_slug"`
	UnitNumber  string          `json:"unit_number"`
	UnitTitle   string          `json:"unit_title"`
	ChunkNumber int             `json:"chunk_number"` // 1始まり (URLと同じ)
	ChunkCount  int             `json:"chunk_count"`
	ChunkID     uuid.UUID       `json:"chunk_id"`
	ChunkType   ChunkType       `json:"chunk_type"`
	Title       string          `json:"title"`
	HTML        string          `json:"html,omitempty"`
	Text        string          `json:"text,omitempty"`
	Components  []ComponentView `json:"components,omitempty"`
	Resources   []ResourceView  `json:"resources"`
	Exercises   []ExerciseView  `json:"exercises"`
	PrevPath    string          `json:"prev_path,omitempty"`
	NextPath    string          `json:"next_path,omitempty"`
}
