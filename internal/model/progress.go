// internal/model/progress.go
package model

// ChunkProgress はチャンク単位の完了数
type ChunkProgress struct {
	TotalCount     int `json:"total_count"`
	CompletedCount int `json:"completed_count"`
	Percentage     int `json:"percentage"`
}

type UnitProgress struct {
	TotalCount     int             `json:"total_count"`
	CompletedCount int             `json:"completed_count"`
	Percentage     int             `json:"percentage"`
	Chunks         []ChunkProgress `json:"chunks"` // チャンク順 (0始まり)
}

// CourseProgress はサイドバーやヘッダーに出す進捗スナップショット。
// 正はDB側で、これはキャッシュ用の派生データ。
type CourseProgress struct {
	CourseSlug     string                  `json:"course_slug"`
	TotalCount     int                     `json:"total_count"`
	CompletedCount int                     `json:"completed_count"`
	Percentage     int                     `json:"percentage"`
	Units          map[string]UnitProgress `json:"units"` // key: unit_number
}
