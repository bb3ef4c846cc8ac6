// internal/model/completion.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// ResourceCompletion は (ユーザー, リソース) ごとに1行
type ResourceCompletion struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_resource" json:"user_id"`
	ResourceID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_resource" json:"resource_id"`
	IsCompleted bool       `gorm:"not null;default:false" json:"is_completed"`
	Rating      *int       `json:"rating,omitempty"`
	Feedback    string     `json:"feedback,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (ResourceCompletion) TableName() string {
	return "resource_completions"
}

// ExerciseResponse は (ユーザー, 演習) ごとに1行
type ExerciseResponse struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_exercise" json:"user_id"`
	ExerciseID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_exercise" json:"exercise_id"`
	Response    string     `json:"response"`
	IsCompleted bool       `gorm:"not null;default:false" json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (ExerciseResponse) TableName() string {
	return "exercise_responses"
}

type SaveCompletionRequest struct {
	IsCompleted *bool  `json:"is_completed" validate:"required"`
	Rating      *int   `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Feedback    string `json:"feedback,omitempty" validate:"max=2000"`
}

type SaveExerciseResponseRequest struct {
	Response    string `json:"response" validate:"max=10000"`
	IsCompleted bool   `json:"is_completed"`
}
