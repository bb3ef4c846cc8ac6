package model

import (
	"time"

	"github.com/google/uuid"
)

type SyncStatus string

const (
	SyncStatusQueued SyncStatus = "queued"
)

// SyncRequest はコンテンツ同期の要求 (管理者のみ)
type SyncRequest struct {
	SyncRequestID uuid.UUID  `gorm:"type:uuid;primaryKey" json:"sync_request_id"`
	RequestedBy   uuid.UUID  `gorm:"type:uuid;not null;index" json:"requested_by"`
	Status        SyncStatus `gorm:"not null" json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (SyncRequest) TableName() string {
	return "sync_requests"
}
